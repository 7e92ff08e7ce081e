package model

import "time"

// Hall types supported by the catalog.
const (
	HallTypeRegular = "REGULAR"
	HallTypePremium = "PREMIUM"
	HallTypeIMAX    = "IMAX"
	HallType4DX     = "4DX"
)

// Hall represents an individual screen within a venue.  Hall names
// are unique per venue.  TotalRows and SeatsPerRow describe the
// seating grid used when generating seats for the hall.
//
// Fields:
//  ID          – primary key identifier.
//  VenueID     – venue that contains this hall.
//  Name        – unique hall name per venue (e.g. "Screen 1").
//  HallType    – one of REGULAR, PREMIUM, IMAX, 4DX.
//  TotalRows   – number of seating rows.
//  SeatsPerRow – number of seats per row.
//  CreatedAt   – creation timestamp.
type Hall struct {
	ID          uint64    // halls.id
	VenueID     uint64    // halls.venue_id
	Name        string    // halls.name
	HallType    string    // halls.hall_type
	TotalRows   uint32    // halls.total_rows
	SeatsPerRow uint32    // halls.seats_per_row
	CreatedAt   time.Time // halls.created_at
}
