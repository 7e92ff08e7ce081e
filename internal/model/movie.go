package model

import "time"

// Movie ratings supported by the catalog.
const (
	RatingUniversal = "U"
	RatingParental  = "UA"
	RatingAdult     = "A"
)

// Movie holds film information used when listing shows.
//
// Fields:
//  ID              – primary key identifier.
//  Title           – film title.
//  Description     – optional synopsis.
//  DurationMinutes – runtime in minutes; used to derive show end times.
//  Genre           – free-form genre label.
//  Rating          – certification (U, UA, A).
//  ReleaseDate     – theatrical release date.
//  IsActive        – whether the movie is currently programmed.
//  CreatedAt       – creation timestamp.
type Movie struct {
	ID              uint64    // movies.id
	Title           string    // movies.title
	Description     string    // movies.description
	DurationMinutes uint32    // movies.duration_minutes
	Genre           string    // movies.genre
	Rating          string    // movies.rating
	ReleaseDate     time.Time // movies.release_date
	IsActive        bool      // movies.is_active
	CreatedAt       time.Time // movies.created_at
}
