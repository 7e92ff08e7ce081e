package engine

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/model"
)

// DefaultHoldTTL is the caller-visible hold duration used when the
// caller does not specify one.  The engine is authoritative for
// expiry; any client-side countdown derived from expires_at is a
// display hint only.
const DefaultHoldTTL = 5 * time.Minute

// storageRetries bounds the transparent retry of ErrStorage outcomes.
// Domain errors (Conflict, NotHeld, LockExpired, NotFound) are final
// and returned immediately.
const storageRetries = 3

// SeatStatus is one entry of the seat-map projection: a catalog seat
// together with its effective status at read time.  ExpiresAt is set
// only while the seat is LOCKED.
type SeatStatus struct {
	SeatID    uint64     `json:"seat_id"`
	Row       string     `json:"row"`
	Number    uint32     `json:"number"`
	SeatType  string     `json:"seat_type"`
	Status    string     `json:"status"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Engine owns the seat state machine: AVAILABLE -> LOCKED via
// AcquireHold, LOCKED -> BOOKED via ConfirmBooking, LOCKED ->
// AVAILABLE via ReleaseHold or expiry.  BOOKED is terminal.  Mutations
// on the same (show, seat) key serialize through a sharded in-process
// lock wrapped around the store's own atomic transitions; mutations on
// different keys never block each other.
type Engine struct {
	store   ReservationStore
	catalog SeatCatalog
	keys    keyLocks
}

// New constructs an Engine over the given store and seat catalog.
func New(store ReservationStore, catalog SeatCatalog) *Engine {
	if store == nil || catalog == nil {
		panic("nil dependency passed to engine.New")
	}
	return &Engine{store: store, catalog: catalog}
}

// AcquireHold atomically awards a temporary hold on a seat.  The seat
// must exist for the show (ErrNotFound otherwise) and ttl must be
// positive.  If the seat is BOOKED or held by a still-valid foreign
// lock the call returns ErrConflict with no side effect; the engine
// never retries a Conflict on the caller's behalf.
func (e *Engine) AcquireHold(ctx context.Context, showID, seatID uint64, holderToken string, ttl time.Duration) (*model.Reservation, error) {
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	ok, err := e.catalog.SeatExistsForShow(ctx, showID, seatID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	unlock := e.keys.lock(showID, seatID)
	defer unlock()

	expiresAt := time.Now().UTC().Add(ttl)
	return retry(ctx, func() (*model.Reservation, error) {
		return e.store.AcquireHold(ctx, showID, seatID, holderToken, expiresAt)
	})
}

// ConfirmBooking finalizes the caller's hold: the LOCKED row must
// exist, carry the caller's token and still be unexpired, all
// evaluated in the same atomic unit as the in-place transition to
// BOOKED.  An expired own hold returns ErrLockExpired ("you were too
// slow"), a missing or foreign hold returns ErrNotHeld, and an already
// BOOKED seat returns ErrConflict ("someone else got there first").
func (e *Engine) ConfirmBooking(ctx context.Context, showID, seatID uint64, holderToken string) (*model.Reservation, error) {
	unlock := e.keys.lock(showID, seatID)
	defer unlock()

	return retry(ctx, func() (*model.Reservation, error) {
		return e.store.ConfirmHold(ctx, showID, seatID, holderToken)
	})
}

// ReleaseHold cancels the caller's hold and makes the seat available
// again.  It is idempotent: releasing an already released (or expired)
// hold succeeds, so network-level retries on the releasing side are
// harmless.  An active foreign hold or a BOOKED seat returns
// ErrNotHeld with no mutation.
func (e *Engine) ReleaseHold(ctx context.Context, showID, seatID uint64, holderToken string) error {
	unlock := e.keys.lock(showID, seatID)
	defer unlock()

	_, err := retry(ctx, func() (*model.Reservation, error) {
		return nil, e.store.ReleaseHold(ctx, showID, seatID, holderToken)
	})
	return err
}

// EffectiveStatus computes the status of one seat at read time:
// AVAILABLE when no row exists or the stored hold has expired, LOCKED
// while a hold is valid, BOOKED once confirmed.  It is a pure read and
// never blocks on in-flight mutations.
func (e *Engine) EffectiveStatus(ctx context.Context, showID, seatID uint64) (string, error) {
	res, err := e.store.Get(ctx, showID, seatID)
	if err != nil {
		return "", err
	}
	return res.EffectiveStatus(time.Now().UTC()), nil
}

// SeatMap builds the full seat-map projection for a show: every
// bookable seat of the hall with its effective status.  Expired holds
// are reported as AVAILABLE regardless of whether the row has been
// swept.  Returns ErrNotFound when the show is unknown.
func (e *Engine) SeatMap(ctx context.Context, showID uint64) ([]SeatStatus, error) {
	seats, err := e.catalog.SeatsForShow(ctx, showID)
	if err != nil {
		return nil, err
	}
	rows, err := e.store.ListByShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	out := make([]SeatStatus, 0, len(seats))
	for _, s := range seats {
		entry := SeatStatus{
			SeatID:   s.ID,
			Row:      s.RowLabel,
			Number:   s.SeatNumber,
			SeatType: s.SeatType,
			Status:   model.SeatAvailable,
		}
		if r := rows[s.ID]; r != nil {
			entry.Status = r.EffectiveStatus(now)
			if entry.Status == model.SeatLocked {
				entry.ExpiresAt = r.ExpiresAt
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

// RunSweeper periodically deletes expired LOCKED rows until the
// context is cancelled.  The sweep keeps the table small under load;
// it is purely an optimization since every read and transition already
// tolerates stale expired rows.
func (e *Engine) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := e.store.DeleteExpired(ctx)
			if err != nil {
				log.Printf("sweeper: delete expired holds: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("sweeper: removed %d expired holds", n)
			}
		}
	}
}

// retry runs op, transparently retrying only ErrStorage outcomes.
// Every transition is atomic, so a failed attempt leaves the prior
// state intact and repeating the whole operation is safe.
func retry(ctx context.Context, op func() (*model.Reservation, error)) (*model.Reservation, error) {
	var res *model.Reservation
	var err error
	for attempt := 0; attempt < storageRetries; attempt++ {
		res, err = op()
		if err == nil || !errors.Is(err, ErrStorage) {
			return res, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 50 * time.Millisecond):
		}
	}
	return res, err
}
