package model

import "time"

// Stored reservation statuses.  AVAILABLE is never stored: the
// absence of a row (or an expired LOCKED row) means the seat is
// available.
const (
	StatusLocked = "LOCKED"
	StatusBooked = "BOOKED"
)

// Effective seat statuses as reported by the status reader.  These
// fold lazy expiry into the raw stored record, so an expired LOCKED
// row reads as AVAILABLE.
const (
	SeatAvailable = "AVAILABLE"
	SeatLocked    = "LOCKED"
	SeatBooked    = "BOOKED"
)

// Reservation is the single stateful entity of the booking core.
// At most one row exists per (show, seat) pair; the uniqueness is
// enforced by the store, never by an application-level check.  A
// BOOKED row is terminal and is never mutated or deleted.
//
// Fields:
//  ID          – primary key identifier.
//  ShowID      – show the seat is contended for.
//  SeatID      – seat being held or booked.
//  Status      – LOCKED (temporary hold) or BOOKED (final).
//  HolderToken – opaque identity of the party that created the hold;
//                required to confirm or release it.  Immutable while
//                the row is LOCKED.
//  ExpiresAt   – hold deadline; nil once the row is BOOKED.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Reservation struct {
	ID          uint64     // reservations.id
	ShowID      uint64     // reservations.show_id
	SeatID      uint64     // reservations.seat_id
	Status      string     // reservations.status
	HolderToken string     // reservations.holder_token
	ExpiresAt   *time.Time // reservations.expires_at (nullable)
	CreatedAt   time.Time  // reservations.created_at
	UpdatedAt   time.Time  // reservations.updated_at
}

// Expired reports whether a LOCKED reservation's hold has passed at
// the given instant.  A BOOKED reservation never expires.
func (r *Reservation) Expired(now time.Time) bool {
	if r == nil || r.Status != StatusLocked {
		return false
	}
	if r.ExpiresAt == nil {
		return true
	}
	return !r.ExpiresAt.After(now)
}

// EffectiveStatus folds expiry evaluation into the stored status:
// an expired LOCKED row reads as AVAILABLE for every consumer even
// though it may still physically exist until swept.
func (r *Reservation) EffectiveStatus(now time.Time) string {
	switch {
	case r == nil:
		return SeatAvailable
	case r.Status == StatusBooked:
		return SeatBooked
	case r.Status == StatusLocked && !r.Expired(now):
		return SeatLocked
	default:
		return SeatAvailable
	}
}
