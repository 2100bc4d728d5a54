package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

const bookingColumns = `id, spot_id, user_id, start_date, end_date, created_at, updated_at`

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b Booking
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) GetWithSpotOwner(ctx context.Context, id int) (*Booking, int, error) {
	query := `
		SELECT b.id, b.spot_id, b.user_id, b.start_date, b.end_date,
		       b.created_at, b.updated_at, s.owner_id
		FROM bookings b
		JOIN spots s ON s.id = b.spot_id
		WHERE b.id = $1
	`

	var row struct {
		Booking
		OwnerID int `db:"owner_id"`
	}
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, 0, err
	}
	return &row.Booking, row.OwnerID, nil
}

func (r *repository) ListBySpot(ctx context.Context, spotID int) ([]WithUser, error) {
	query := `
		SELECT b.id, b.spot_id, b.user_id, b.start_date, b.end_date,
		       b.created_at, b.updated_at,
		       u.id AS "user.id",
		       u.first_name AS "user.first_name",
		       u.last_name AS "user.last_name"
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		WHERE b.spot_id = $1
		ORDER BY b.start_date
	`

	bookings := []WithUser{}
	if err := r.db.SelectContext(ctx, &bookings, query, spotID); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListRangesBySpot(ctx context.Context, spotID int) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE spot_id = $1 ORDER BY start_date`

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, spotID); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]WithSpot, error) {
	query := `
		SELECT b.id, b.spot_id, b.user_id, b.start_date, b.end_date,
		       b.created_at, b.updated_at,
		       s.id AS "spot.id",
		       s.owner_id AS "spot.owner_id",
		       s.address AS "spot.address",
		       s.city AS "spot.city",
		       s.state AS "spot.state",
		       s.country AS "spot.country",
		       s.lat AS "spot.lat",
		       s.lng AS "spot.lng",
		       s.name AS "spot.name",
		       s.price AS "spot.price",
		       (SELECT url FROM spot_images WHERE spot_id = s.id AND preview ORDER BY id LIMIT 1) AS "spot.preview_image"
		FROM bookings b
		JOIN spots s ON s.id = b.spot_id
		WHERE b.user_id = $1
		ORDER BY b.start_date
	`

	bookings := []WithSpot{}
	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, err
	}
	return bookings, nil
}

// Overlap predicate shared by insert and reschedule. A booking
// conflicts when its start or end date falls inside the proposed
// range, boundaries inclusive.
const conflictWhere = `
	spot_id = $1
	AND (start_date BETWEEN $2 AND $3 OR end_date BETWEEN $2 AND $3)
`

func (r *repository) InsertIfAvailable(ctx context.Context, spotID, userID int, start, end time.Time) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := lockSpot(ctx, tx, spotID); err != nil {
		return nil, err
	}

	var conflictID int
	err = tx.GetContext(ctx, &conflictID,
		`SELECT id FROM bookings WHERE `+conflictWhere+` LIMIT 1`, spotID, start, end)
	if err == nil {
		return nil, ErrConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var b Booking
	err = tx.GetContext(ctx, &b, `
		INSERT INTO bookings (spot_id, user_id, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING `+bookingColumns, spotID, userID, start, end)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) UpdateDatesIfAvailable(ctx context.Context, id, spotID int, start, end time.Time) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := lockSpot(ctx, tx, spotID); err != nil {
		return nil, err
	}

	var conflictID int
	err = tx.GetContext(ctx, &conflictID,
		`SELECT id FROM bookings WHERE `+conflictWhere+` AND id <> $4 LIMIT 1`,
		spotID, start, end, id)
	if err == nil {
		return nil, ErrConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var b Booking
	err = tx.GetContext(ctx, &b, `
		UPDATE bookings
		SET start_date = $2, end_date = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+bookingColumns, id, start, end)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &b, nil
}

// lockSpot takes a row lock on the spot so concurrent availability
// checks for the same spot serialize. Without it two requests could
// both pass the conflict query and both insert.
func lockSpot(ctx context.Context, tx *sqlx.Tx, spotID int) error {
	var id int
	return tx.GetContext(ctx, &id, `SELECT id FROM spots WHERE id = $1 FOR UPDATE`, spotID)
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
