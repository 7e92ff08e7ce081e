package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/engine"
	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/model"
)

// ReservationRepo is the MySQL implementation of the engine's
// reservation store.  Each mutator opens a transaction, takes an
// exclusive row lock on the (show_id, seat_id) key with
// SELECT ... FOR UPDATE, evaluates the current state including lazy
// expiry, and applies the transition before committing.  Concurrent
// callers on the same key block on the row lock and re-evaluate once
// the winner commits; the UNIQUE KEY on (show_id, seat_id) covers the
// no-row insert race.  All timestamps are UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the provided database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

var _ engine.ReservationStore = (*ReservationRepo)(nil)

const reservationCols = `id, show_id, seat_id, status, holder_token, expires_at, created_at, updated_at`

// scanReservation reads one reservation row from any row scanner.
func scanReservation(row interface {
	Scan(dest ...interface{}) error
}) (*model.Reservation, error) {
	var r model.Reservation
	var expires sql.NullTime
	if err := row.Scan(&r.ID, &r.ShowID, &r.SeatID, &r.Status, &r.HolderToken, &expires, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	if expires.Valid {
		t := expires.Time.UTC()
		r.ExpiresAt = &t
	}
	return &r, nil
}

// Get returns the stored record for the key, or (nil, nil) when no
// row exists.  It is a plain read; expiry is folded by the caller.
func (r *ReservationRepo) Get(ctx context.Context, showID, seatID uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE show_id = ? AND seat_id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, showID, seatID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get reservation", err)
	}
	return res, nil
}

// lockRow selects the reservation row for the key holding an
// exclusive lock for the remainder of the transaction.  Returns
// (nil, nil) when no row exists; the gap is then covered by the
// unique key on insert.
func (r *ReservationRepo) lockRow(ctx context.Context, tx *sql.Tx, showID, seatID uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE show_id = ? AND seat_id = ? FOR UPDATE`
	res, err := scanReservation(tx.QueryRowContext(ctx, q, showID, seatID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// AcquireHold implements the AVAILABLE -> LOCKED transition.  A
// missing row is inserted, an expired hold is taken over in place,
// and a still-valid hold under the same token is refreshed.  A BOOKED
// row or a valid foreign hold aborts with ErrConflict and no side
// effect.
func (r *ReservationRepo) AcquireHold(ctx context.Context, showID, seatID uint64, holderToken string, expiresAt time.Time) (*model.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("acquire hold: begin", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	existing, err := r.lockRow(ctx, tx, showID, seatID)
	if err != nil {
		return nil, storageErr("acquire hold: lock row", err)
	}

	switch {
	case existing == nil:
		const ins = `INSERT INTO reservations (show_id, seat_id, status, holder_token, expires_at) VALUES (?, ?, ?, ?, ?)`
		if _, err := tx.ExecContext(ctx, ins, showID, seatID, model.StatusLocked, holderToken, expiresAt.UTC()); err != nil {
			// A concurrent insert between our gap check and this statement
			// trips the unique key; that loser sees a conflict, not a 500.
			if isDuplicateKey(err) {
				return nil, engine.ErrConflict
			}
			return nil, storageErr("acquire hold: insert", err)
		}
	case existing.Status == model.StatusBooked:
		return nil, engine.ErrConflict
	case !existing.Expired(now) && existing.HolderToken != holderToken:
		return nil, engine.ErrConflict
	default:
		// Expired hold taken over, or the same holder refreshing its
		// still-valid hold.
		const upd = `UPDATE reservations SET status = ?, holder_token = ?, expires_at = ? WHERE show_id = ? AND seat_id = ?`
		if _, err := tx.ExecContext(ctx, upd, model.StatusLocked, holderToken, expiresAt.UTC(), showID, seatID); err != nil {
			return nil, storageErr("acquire hold: update", err)
		}
	}

	res, err := r.reselect(ctx, tx, showID, seatID)
	if err != nil {
		return nil, storageErr("acquire hold: reselect", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, storageErr("acquire hold: commit", err)
	}
	committed = true
	return res, nil
}

// ConfirmHold implements the LOCKED -> BOOKED transition.  The
// precondition check and the in-place update share the transaction's
// row lock, so two racing confirmations can never both observe a
// valid lock.
func (r *ReservationRepo) ConfirmHold(ctx context.Context, showID, seatID uint64, holderToken string) (*model.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("confirm hold: begin", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	existing, err := r.lockRow(ctx, tx, showID, seatID)
	if err != nil {
		return nil, storageErr("confirm hold: lock row", err)
	}

	switch {
	case existing == nil:
		return nil, engine.ErrNotHeld
	case existing.Status == model.StatusBooked:
		return nil, engine.ErrConflict
	case existing.Expired(now):
		// The row outlived its TTL but was never swept.  The original
		// holder learns it was too slow; anyone else simply has no hold.
		if existing.HolderToken == holderToken {
			return nil, engine.ErrLockExpired
		}
		return nil, engine.ErrNotHeld
	case existing.HolderToken != holderToken:
		return nil, engine.ErrNotHeld
	}

	const upd = `UPDATE reservations SET status = ?, expires_at = NULL WHERE show_id = ? AND seat_id = ?`
	if _, err := tx.ExecContext(ctx, upd, model.StatusBooked, showID, seatID); err != nil {
		return nil, storageErr("confirm hold: update", err)
	}
	res, err := r.reselect(ctx, tx, showID, seatID)
	if err != nil {
		return nil, storageErr("confirm hold: reselect", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, storageErr("confirm hold: commit", err)
	}
	committed = true
	return res, nil
}

// ReleaseHold deletes the caller's LOCKED row.  "No longer present"
// counts as success so releasing twice is harmless; expired rows are
// swept opportunistically regardless of token since they are
// semantically absent already.
func (r *ReservationRepo) ReleaseHold(ctx context.Context, showID, seatID uint64, holderToken string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("release hold: begin", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	existing, err := r.lockRow(ctx, tx, showID, seatID)
	if err != nil {
		return storageErr("release hold: lock row", err)
	}

	switch {
	case existing == nil:
		// Already released.
		committed = true
		return tx.Commit()
	case existing.Status == model.StatusBooked:
		return engine.ErrNotHeld
	case !existing.Expired(now) && existing.HolderToken != holderToken:
		return engine.ErrNotHeld
	}

	const del = `DELETE FROM reservations WHERE show_id = ? AND seat_id = ?`
	if _, err := tx.ExecContext(ctx, del, showID, seatID); err != nil {
		return storageErr("release hold: delete", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("release hold: commit", err)
	}
	committed = true
	return nil
}

// ListByShow returns all stored reservation rows for a show keyed by
// seat ID.  Expired rows are included; the status reader folds expiry
// at read time.
func (r *ReservationRepo) ListByShow(ctx context.Context, showID uint64) (map[uint64]*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE show_id = ?`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, storageErr("list by show", err)
	}
	defer rows.Close()

	out := make(map[uint64]*model.Reservation)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, storageErr("list by show: scan", err)
		}
		out[res.SeatID] = res
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list by show: rows", err)
	}
	return out, nil
}

// DeleteExpired physically removes expired LOCKED rows across all
// shows.  BOOKED rows are never touched.
func (r *ReservationRepo) DeleteExpired(ctx context.Context) (int64, error) {
	const q = `DELETE FROM reservations WHERE status = ? AND expires_at IS NOT NULL AND expires_at <= UTC_TIMESTAMP()`
	res, err := r.db.ExecContext(ctx, q, model.StatusLocked)
	if err != nil {
		return 0, storageErr("delete expired", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("delete expired: rows affected", err)
	}
	return n, nil
}

// reselect reads the full row back inside the transaction so callers
// receive DB-populated timestamps.
func (r *ReservationRepo) reselect(ctx context.Context, tx *sql.Tx, showID, seatID uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE show_id = ? AND seat_id = ?`
	return scanReservation(tx.QueryRowContext(ctx, q, showID, seatID))
}

// storageErr tags infrastructure failures so the engine can retry
// them; domain outcomes never pass through here.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", engine.ErrStorage, op, err)
}

// isDuplicateKey detects MySQL error 1062 (duplicate entry for a
// unique key).
func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return false
}
