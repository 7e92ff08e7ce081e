package repository

import (
	"context"
	"database/sql"

	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/model"
)

// VenueRepo provides create access to venues.  The booking core only
// reads the catalog; creation exists for the seeding tool.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo returns a VenueRepo bound to the given database.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

// Create inserts a venue and populates the generated ID.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const q = `INSERT INTO venues (name, address, city) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.Address, v.City)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// HallRepo provides create access to halls.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo returns a HallRepo bound to the given database.
func NewHallRepo(db *sql.DB) *HallRepo { return &HallRepo{db: db} }

// Create inserts a hall and populates the generated ID.
func (r *HallRepo) Create(ctx context.Context, h *model.Hall) error {
	const q = `INSERT INTO halls (venue_id, name, hall_type, total_rows, seats_per_row) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, h.VenueID, h.Name, h.HallType, h.TotalRows, h.SeatsPerRow)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// MovieRepo provides create access to movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo returns a MovieRepo bound to the given database.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// Create inserts a movie and populates the generated ID.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO movies (title, description, duration_minutes, genre, rating, release_date, is_active) VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.DurationMinutes, m.Genre, m.Rating, m.ReleaseDate, m.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}
