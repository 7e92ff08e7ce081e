package repository

import (
	"context"
	"database/sql"

	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/engine"
	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/model"
)

// SeatRepo provides access to the physical seat catalog.  It also
// implements the engine's SeatCatalog: the engine consumes seat
// existence per show and the ordered seat set for the seat map, and
// never mutates the catalog.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo given a DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

var _ engine.SeatCatalog = (*SeatRepo)(nil)

// SeatExistsForShow reports whether the seat is active and belongs to
// the hall of an active show.
func (r *SeatRepo) SeatExistsForShow(ctx context.Context, showID, seatID uint64) (bool, error) {
	const q = `SELECT 1
	           FROM seats se
	           JOIN shows sh ON sh.hall_id = se.hall_id
	           WHERE sh.id = ? AND se.id = ? AND se.is_active = 1 AND sh.is_active = 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, showID, seatID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SeatsForShow returns the active seats of the show's hall ordered by
// row label and seat number.  Returns engine.ErrNotFound when the
// show is unknown or inactive.
func (r *SeatRepo) SeatsForShow(ctx context.Context, showID uint64) ([]model.Seat, error) {
	var hallID uint64
	const hq = `SELECT hall_id FROM shows WHERE id = ? AND is_active = 1`
	if err := r.db.QueryRowContext(ctx, hq, showID).Scan(&hallID); err != nil {
		if err == sql.ErrNoRows {
			return nil, engine.ErrNotFound
		}
		return nil, err
	}

	const q = `SELECT id, hall_id, row_label, seat_number, seat_type, is_active, created_at
	           FROM seats
	           WHERE hall_id = ? AND is_active = 1
	           ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.HallID, &s.RowLabel, &s.SeatNumber, &s.SeatType, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// GetByID loads a single seat.  Returns ErrSeatNotFound when the seat
// does not exist.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT id, hall_id, row_label, seat_number, seat_type, is_active, created_at
	           FROM seats WHERE id = ?`
	var s model.Seat
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.HallID, &s.RowLabel, &s.SeatNumber, &s.SeatType, &s.IsActive, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSeatNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateBulk inserts multiple seats in one statement.  Used by the
// seeding tool when generating a hall's seat grid.  Passing an empty
// slice has no effect and returns nil.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (hall_id, row_label, seat_number, seat_type, is_active) VALUES `
	args := make([]interface{}, 0, len(seats)*5)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, s.HallID, s.RowLabel, s.SeatNumber, s.SeatType, s.IsActive)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}
