package model

import (
	"strconv"
	"time"
)

// Seat types supported by the catalog.
const (
	SeatTypeRegular    = "REGULAR"
	SeatTypePremium    = "PREMIUM"
	SeatTypeRecliner   = "RECLINER"
	SeatTypeWheelchair = "WHEELCHAIR"
)

// Seat describes a physical seat in a hall.  Seats are uniquely
// identified by their hall, row label and seat number.  Inactive
// seats (broken, removed) are excluded from seat maps and cannot
// be held or booked.
//
// Fields:
//  ID         – primary key identifier.
//  HallID     – hall to which this seat belongs.
//  RowLabel   – letter or string designating the row (A, B, ... AA).
//  SeatNumber – number of the seat within the row.
//  SeatType   – one of REGULAR, PREMIUM, RECLINER, WHEELCHAIR.
//  IsActive   – whether the seat is bookable.
//  CreatedAt  – creation timestamp.
type Seat struct {
	ID         uint64    // seats.id
	HallID     uint64    // seats.hall_id
	RowLabel   string    // seats.row_label
	SeatNumber uint32    // seats.seat_number
	SeatType   string    // seats.seat_type
	IsActive   bool      // seats.is_active
	CreatedAt  time.Time // seats.created_at
}

// Label returns the human readable seat designation, e.g. "A7".
func (s *Seat) Label() string {
	if s == nil {
		return ""
	}
	return s.RowLabel + strconv.FormatUint(uint64(s.SeatNumber), 10)
}
