package engine

import (
	"context"
	"time"

	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/model"
)

// ReservationStore is the durable keyed table of reservation records,
// one potential row per (show, seat) pair.  Every mutator is an atomic
// conditional transition: the implementation must make the
// read-decide-write sequence indivisible with respect to concurrent
// calls on the same key (row-level locking inside a transaction, or an
// equivalent compare-and-swap).  A plain read followed by a separate
// write reintroduces the double-booking race and is not a valid
// implementation.
//
// Expiry is evaluated lazily inside every operation: a LOCKED row
// whose expires_at has passed is treated exactly as if no row existed.
type ReservationStore interface {
	// Get returns the raw stored record for the key, or (nil, nil) when
	// no row exists.  Callers fold expiry themselves via
	// model.Reservation.EffectiveStatus.
	Get(ctx context.Context, showID, seatID uint64) (*model.Reservation, error)

	// AcquireHold inserts a LOCKED row for the key if it is effectively
	// available (no row, or an expired hold, which is taken over in
	// place).  A still-valid hold under the same token is refreshed to
	// the new deadline.  Returns ErrConflict when the seat is BOOKED or
	// held by a still-valid foreign lock; no side effect in that case.
	AcquireHold(ctx context.Context, showID, seatID uint64, holderToken string, expiresAt time.Time) (*model.Reservation, error)

	// ConfirmHold transitions the caller's still-valid LOCKED row to
	// BOOKED in place, clearing expires_at.  Returns ErrNotHeld when no
	// row exists or the token does not match an active hold,
	// ErrLockExpired when the caller's own hold has aged out, and
	// ErrConflict when the row is already BOOKED.
	ConfirmHold(ctx context.Context, showID, seatID uint64, holderToken string) (*model.Reservation, error)

	// ReleaseHold deletes the caller's LOCKED row.  Absent and expired
	// rows count as released (idempotent success).  An active hold under
	// a different token, or a BOOKED row, returns ErrNotHeld with no
	// mutation.
	ReleaseHold(ctx context.Context, showID, seatID uint64, holderToken string) error

	// ListByShow returns all stored rows for a show keyed by seat ID,
	// expired rows included; the status reader folds expiry at read
	// time.
	ListByShow(ctx context.Context, showID uint64) (map[uint64]*model.Reservation, error)

	// DeleteExpired physically removes expired LOCKED rows across all
	// shows and reports how many were swept.  This is an optional
	// optimization; no code path depends on it for correctness.
	DeleteExpired(ctx context.Context) (int64, error)
}

// SeatCatalog exposes the immutable-per-show set of bookable seats.
// The engine only consumes seat existence, it never mutates the
// catalog.
type SeatCatalog interface {
	// SeatExistsForShow reports whether the seat is active and belongs
	// to the hall of an active show.
	SeatExistsForShow(ctx context.Context, showID, seatID uint64) (bool, error)

	// SeatsForShow returns the full bookable seat set of the show's
	// hall, ordered by row and number.  Returns ErrNotFound when the
	// show is unknown or inactive.
	SeatsForShow(ctx context.Context, showID uint64) ([]model.Seat, error)
}
