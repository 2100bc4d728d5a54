package review

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"staybook/internal/db"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

const reviewColumns = `id, user_id, spot_id, review, stars, created_at, updated_at`

func (r *repository) Create(ctx context.Context, spotID, userID int, text string, stars int) (*Review, error) {
	query := `
		INSERT INTO reviews (spot_id, user_id, review, stars)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + reviewColumns

	var rv Review
	if err := r.db.GetContext(ctx, &rv, query, spotID, userID, text, stars); err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	var rv Review
	if err := r.db.GetContext(ctx, &rv, query, id); err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *repository) ListBySpot(ctx context.Context, spotID int) ([]WithUser, error) {
	query := `
		SELECT r.id, r.user_id, r.spot_id, r.review, r.stars, r.created_at, r.updated_at,
		       u.id AS "user.id",
		       u.first_name AS "user.first_name",
		       u.last_name AS "user.last_name"
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.spot_id = $1
		ORDER BY r.created_at DESC
	`

	reviews := []WithUser{}
	if err := r.db.SelectContext(ctx, &reviews, query, spotID); err != nil {
		return nil, err
	}

	for i := range reviews {
		images, err := r.listImages(ctx, reviews[i].ID)
		if err != nil {
			return nil, err
		}
		reviews[i].Images = images
	}
	return reviews, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]WithSpot, error) {
	query := `
		SELECT r.id, r.user_id, r.spot_id, r.review, r.stars, r.created_at, r.updated_at,
		       u.id AS "user.id",
		       u.first_name AS "user.first_name",
		       u.last_name AS "user.last_name",
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
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		JOIN spots s ON s.id = r.spot_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
	`

	reviews := []WithSpot{}
	if err := r.db.SelectContext(ctx, &reviews, query, userID); err != nil {
		return nil, err
	}

	for i := range reviews {
		images, err := r.listImages(ctx, reviews[i].ID)
		if err != nil {
			return nil, err
		}
		reviews[i].Images = images
	}
	return reviews, nil
}

func (r *repository) listImages(ctx context.Context, reviewID int) ([]Image, error) {
	images := []Image{}
	err := r.db.SelectContext(ctx, &images,
		`SELECT id, review_id, url FROM review_images WHERE review_id = $1 ORDER BY id`, reviewID)
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *repository) ExistsForUserAndSpot(ctx context.Context, userID, spotID int) (bool, error) {
	return db.Exists(ctx, r.db,
		`SELECT 1 FROM reviews WHERE user_id = $1 AND spot_id = $2`, userID, spotID)
}

func (r *repository) Update(ctx context.Context, id int, text string, stars int) (*Review, error) {
	query := `
		UPDATE reviews
		SET review = $2, stars = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + reviewColumns

	var rv Review
	if err := r.db.GetContext(ctx, &rv, query, id, text, stars); err != nil {
		return nil, err
	}
	return &rv, nil
}

// Delete removes the review and its images in one transaction.
func (r *repository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM review_images WHERE review_id = $1`, id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
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

	return tx.Commit()
}

func (r *repository) CountImages(ctx context.Context, reviewID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM review_images WHERE review_id = $1`, reviewID)
	return count, err
}

func (r *repository) AddImage(ctx context.Context, reviewID int, url string) (*Image, error) {
	query := `
		INSERT INTO review_images (review_id, url)
		VALUES ($1, $2)
		RETURNING id, review_id, url
	`

	var image Image
	if err := r.db.GetContext(ctx, &image, query, reviewID, url); err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *repository) GetImage(ctx context.Context, imageID int) (*Image, int, error) {
	query := `
		SELECT i.id, i.review_id, i.url, r.user_id
		FROM review_images i
		JOIN reviews r ON r.id = i.review_id
		WHERE i.id = $1
	`

	var row struct {
		Image
		UserID int `db:"user_id"`
	}
	if err := r.db.GetContext(ctx, &row, query, imageID); err != nil {
		return nil, 0, err
	}
	return &row.Image, row.UserID, nil
}

func (r *repository) DeleteImage(ctx context.Context, imageID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM review_images WHERE id = $1`, imageID)
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
