package spot

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

const spotColumns = `id, owner_id, address, city, state, country, lat, lng, name, description, price, created_at, updated_at`

func (r *repository) Create(ctx context.Context, ownerID int, req CreateSpotRequest) (*Spot, error) {
	query := `
		INSERT INTO spots (owner_id, address, city, state, country, lat, lng, name, description, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + spotColumns

	var spot Spot
	err := r.db.GetContext(ctx, &spot, query,
		ownerID, req.Address, req.City, req.State, req.Country,
		*req.Lat, *req.Lng, req.Name, req.Description, *req.Price)
	if err != nil {
		return nil, err
	}

	return &spot, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Spot, error) {
	query := `SELECT ` + spotColumns + ` FROM spots WHERE id = $1`

	var spot Spot
	err := r.db.GetContext(ctx, &spot, query, id)
	if err != nil {
		return nil, err
	}

	return &spot, nil
}

func (r *repository) GetDetail(ctx context.Context, id int) (*Detail, error) {
	query := `
		SELECT
			s.id, s.owner_id, s.address, s.city, s.state, s.country,
			s.lat, s.lng, s.name, s.description, s.price, s.created_at, s.updated_at,
			COUNT(r.id) AS num_reviews,
			COALESCE(AVG(r.stars), 0) AS avg_star_rating,
			u.id AS "owner.id",
			u.first_name AS "owner.first_name",
			u.last_name AS "owner.last_name"
		FROM spots s
		JOIN users u ON u.id = s.owner_id
		LEFT JOIN reviews r ON r.spot_id = s.id
		WHERE s.id = $1
		GROUP BY s.id, u.id
	`

	var detail Detail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}

	imagesQuery := `
		SELECT id, spot_id, url, preview
		FROM spot_images
		WHERE spot_id = $1
		ORDER BY id
	`
	if err := r.db.SelectContext(ctx, &detail.Images, imagesQuery, id); err != nil {
		return nil, err
	}

	return &detail, nil
}

const listSelect = `
	SELECT
		s.id, s.owner_id, s.address, s.city, s.state, s.country,
		s.lat, s.lng, s.name, s.description, s.price, s.created_at, s.updated_at,
		COALESCE(AVG(r.stars), 0) AS avg_rating,
		(SELECT url FROM spot_images WHERE spot_id = s.id AND preview ORDER BY id LIMIT 1) AS preview_image
	FROM spots s
	LEFT JOIN reviews r ON r.spot_id = s.id
`

func (r *repository) List(ctx context.Context, f Filters) ([]WithRating, error) {
	page, size := f.Pagination()

	query := listSelect + `
		WHERE ($1::float8 IS NULL OR s.lat >= $1)
		  AND ($2::float8 IS NULL OR s.lat <= $2)
		  AND ($3::float8 IS NULL OR s.lng >= $3)
		  AND ($4::float8 IS NULL OR s.lng <= $4)
		  AND ($5::float8 IS NULL OR s.price >= $5)
		  AND ($6::float8 IS NULL OR s.price <= $6)
		GROUP BY s.id
		ORDER BY s.id
		LIMIT $7 OFFSET $8
	`

	spots := []WithRating{}
	err := r.db.SelectContext(ctx, &spots, query,
		f.MinLat, f.MaxLat, f.MinLng, f.MaxLng, f.MinPrice, f.MaxPrice,
		size, (page-1)*size)
	if err != nil {
		return nil, err
	}

	return spots, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID int) ([]WithRating, error) {
	query := listSelect + `
		WHERE s.owner_id = $1
		GROUP BY s.id
		ORDER BY s.id
	`

	spots := []WithRating{}
	err := r.db.SelectContext(ctx, &spots, query, ownerID)
	if err != nil {
		return nil, err
	}

	return spots, nil
}

func (r *repository) Update(ctx context.Context, id int, req CreateSpotRequest) (*Spot, error) {
	query := `
		UPDATE spots
		SET address = $2, city = $3, state = $4, country = $5,
		    lat = $6, lng = $7, name = $8, description = $9, price = $10,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + spotColumns

	var spot Spot
	err := r.db.GetContext(ctx, &spot, query,
		id, req.Address, req.City, req.State, req.Country,
		*req.Lat, *req.Lng, req.Name, req.Description, *req.Price)
	if err != nil {
		return nil, err
	}

	return &spot, nil
}

// Delete removes the spot and everything it owns in one transaction:
// review images, reviews, bookings, spot images, then the row itself.
func (r *repository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	statements := []string{
		`DELETE FROM review_images WHERE review_id IN (SELECT id FROM reviews WHERE spot_id = $1)`,
		`DELETE FROM reviews WHERE spot_id = $1`,
		`DELETE FROM bookings WHERE spot_id = $1`,
		`DELETE FROM spot_images WHERE spot_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return err
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM spots WHERE id = $1`, id)
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

func (r *repository) AddImage(ctx context.Context, spotID int, url string, preview bool) (*Image, error) {
	query := `
		INSERT INTO spot_images (spot_id, url, preview)
		VALUES ($1, $2, $3)
		RETURNING id, spot_id, url, preview
	`

	var image Image
	err := r.db.GetContext(ctx, &image, query, spotID, url, preview)
	if err != nil {
		return nil, err
	}

	return &image, nil
}

// GetImage returns the image and the owning spot's owner id for
// authorization.
func (r *repository) GetImage(ctx context.Context, imageID int) (*Image, int, error) {
	query := `
		SELECT i.id, i.spot_id, i.url, i.preview, s.owner_id
		FROM spot_images i
		JOIN spots s ON s.id = i.spot_id
		WHERE i.id = $1
	`

	var row struct {
		Image
		OwnerID int `db:"owner_id"`
	}
	err := r.db.GetContext(ctx, &row, query, imageID)
	if err != nil {
		return nil, 0, err
	}

	return &row.Image, row.OwnerID, nil
}

func (r *repository) DeleteImage(ctx context.Context, imageID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM spot_images WHERE id = $1`, imageID)
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
