package model

import "time"

// Venue is a theatre building that contains one or more halls.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the venue.
//  Address   – street address.
//  City      – city the venue is located in.
//  CreatedAt – creation timestamp.
type Venue struct {
	ID        uint64    // venues.id
	Name      string    // venues.name
	Address   string    // venues.address
	City      string    // venues.city
	CreatedAt time.Time // venues.created_at
}
