package model

import "time"

// Show is a specific screening: a movie playing in a hall at a
// start time.  EndTime is derived from the movie duration when not
// supplied explicitly.  PriceCents is the flat ticket price for
// every seat of the show.
//
// Fields:
//  ID         – primary key identifier.
//  MovieID    – movie being screened.
//  HallID     – hall the show runs in.
//  StartTime  – when the screening starts (UTC).
//  EndTime    – when the screening ends (UTC).
//  PriceCents – ticket price in cents.
//  IsActive   – whether the show is open for booking.
//  CreatedAt  – creation timestamp.
type Show struct {
	ID         uint64    // shows.id
	MovieID    uint64    // shows.movie_id
	HallID     uint64    // shows.hall_id
	StartTime  time.Time // shows.start_time
	EndTime    time.Time // shows.end_time
	PriceCents uint32    // shows.price_cents
	IsActive   bool      // shows.is_active
	CreatedAt  time.Time // shows.created_at
}
