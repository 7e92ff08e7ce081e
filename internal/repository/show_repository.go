package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/model"
)

// ShowRepo provides read and create access to shows together with
// the movie, hall and venue names clients display alongside a seat
// map.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo returns a ShowRepo bound to the given database.
func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// ShowDetail is a show joined with its movie, hall and venue for
// display purposes.
type ShowDetail struct {
	ID          uint64    `json:"id"`
	MovieTitle  string    `json:"movie_title"`
	HallID      uint64    `json:"hall_id"`
	HallName    string    `json:"hall_name"`
	VenueName   string    `json:"venue_name"`
	StartTime   time.Time `json:"start_time"`
	PriceCents  uint32    `json:"price_cents"`
	TotalRows   uint32    `json:"total_rows"`
	SeatsPerRow uint32    `json:"seats_per_row"`
}

// GetDetail loads one active show with its related names.  Returns
// ErrShowNotFound when the show does not exist or is inactive.
func (r *ShowRepo) GetDetail(ctx context.Context, showID uint64) (*ShowDetail, error) {
	const q = `SELECT s.id, m.title, h.id, h.name, v.name, s.start_time, s.price_cents, h.total_rows, h.seats_per_row
	           FROM shows s
	           JOIN movies m ON m.id = s.movie_id
	           JOIN halls h ON h.id = s.hall_id
	           JOIN venues v ON v.id = h.venue_id
	           WHERE s.id = ? AND s.is_active = 1`
	var d ShowDetail
	err := r.db.QueryRowContext(ctx, q, showID).Scan(
		&d.ID, &d.MovieTitle, &d.HallID, &d.HallName, &d.VenueName,
		&d.StartTime, &d.PriceCents, &d.TotalRows, &d.SeatsPerRow,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShowNotFound
	}
	if err != nil {
		return nil, err
	}
	d.StartTime = d.StartTime.UTC()
	return &d, nil
}

// ListUpcoming returns all active shows that have not started yet,
// ordered by start time, with movie, hall and venue names joined in.
func (r *ShowRepo) ListUpcoming(ctx context.Context) ([]ShowDetail, error) {
	const q = `SELECT s.id, m.title, h.id, h.name, v.name, s.start_time, s.price_cents, h.total_rows, h.seats_per_row
	           FROM shows s
	           JOIN movies m ON m.id = s.movie_id
	           JOIN halls h ON h.id = s.hall_id
	           JOIN venues v ON v.id = h.venue_id
	           WHERE s.is_active = 1 AND s.start_time >= UTC_TIMESTAMP()
	           ORDER BY s.start_time`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ShowDetail, 0)
	for rows.Next() {
		var d ShowDetail
		if err := rows.Scan(
			&d.ID, &d.MovieTitle, &d.HallID, &d.HallName, &d.VenueName,
			&d.StartTime, &d.PriceCents, &d.TotalRows, &d.SeatsPerRow,
		); err != nil {
			return nil, err
		}
		d.StartTime = d.StartTime.UTC()
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new show and populates the generated ID.  When
// EndTime is zero it is derived from the movie runtime, mirroring how
// shows are scheduled.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	if s.EndTime.IsZero() {
		var minutes uint32
		const md = `SELECT duration_minutes FROM movies WHERE id = ?`
		if err := r.db.QueryRowContext(ctx, md, s.MovieID).Scan(&minutes); err != nil {
			return err
		}
		s.EndTime = s.StartTime.Add(time.Duration(minutes) * time.Minute)
	}
	const q = `INSERT INTO shows (movie_id, hall_id, start_time, end_time, price_cents, is_active) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		s.MovieID, s.HallID, s.StartTime.UTC(), s.EndTime.UTC(), s.PriceCents, s.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}
