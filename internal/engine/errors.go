// Package engine implements the reservation concurrency core: the
// lock/confirm/release protocol that guarantees a seat for a show is
// awarded to at most one paying customer.  The engine serializes
// mutations per (show, seat) key in process and delegates the final
// word to the store's atomic conditional transitions, so multiple
// stateless instances can run against one database without diverging.
package engine

import "errors"

// Domain outcomes returned by the engine.  These are expected, typed
// results the caller must handle; they are never retried internally.
// Handlers should translate them into HTTP status codes (404, 409,
// 410) rather than generic failures.
var (
	// ErrNotFound means the show or seat does not exist in the catalog.
	// Not retryable.
	ErrNotFound = errors.New("not found")

	// ErrConflict means the seat is unavailable at the atomic check:
	// already BOOKED, or held by a still-valid foreign lock.  Retryable
	// only against a different seat.
	ErrConflict = errors.New("conflict")

	// ErrLockExpired means the caller's own hold aged out before it was
	// confirmed.  The caller must re-acquire.
	ErrLockExpired = errors.New("lock expired")

	// ErrNotHeld means there is no active hold for the caller: the seat
	// was never locked, or it is locked under a different holder token.
	ErrNotHeld = errors.New("not held")

	// ErrInvalidTTL is returned when a hold is requested with a
	// non-positive time to live.
	ErrInvalidTTL = errors.New("invalid ttl")

	// ErrStorage wraps infrastructure failures from the underlying
	// store.  A failed attempt leaves prior state intact, so the whole
	// operation is safe to retry; the engine performs a small bounded
	// retry itself before surfacing it.
	ErrStorage = errors.New("storage failure")
)
