package spot

import (
	"database/sql"
	"fmt"
	"time"

	"staybook/internal/api"
	"staybook/internal/user"
)

type Spot struct {
	ID          int       `db:"id" json:"id"`
	OwnerID     int       `db:"owner_id" json:"ownerId"`
	Address     string    `db:"address" json:"address"`
	City        string    `db:"city" json:"city"`
	State       string    `db:"state" json:"state"`
	Country     string    `db:"country" json:"country"`
	Lat         float64   `db:"lat" json:"lat"`
	Lng         float64   `db:"lng" json:"lng"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       float64   `db:"price" json:"price"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
	UpdatedAt   time.Time `db:"updated_at" json:"-"`
}

type Image struct {
	ID      int    `db:"id" json:"id"`
	SpotID  int    `db:"spot_id" json:"-"`
	URL     string `db:"url" json:"url"`
	Preview bool   `db:"preview" json:"preview"`
}

// WithRating is a list row: the spot plus its review aggregate and
// preview image, computed in SQL.
type WithRating struct {
	Spot
	AvgRating    float64        `db:"avg_rating"`
	PreviewImage sql.NullString `db:"preview_image"`
}

// Detail is the single-spot row with review aggregates and the owner
// summary joined in.
type Detail struct {
	Spot
	NumReviews    int          `db:"num_reviews"`
	AvgStarRating float64      `db:"avg_star_rating"`
	Owner         user.Summary `db:"owner"`
	Images        []Image      `db:"-"`
}

type CreateSpotRequest struct {
	Address     string   `json:"address"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Country     string   `json:"country"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
}

type AddImageRequest struct {
	URL     string `json:"url" binding:"required"`
	Preview bool   `json:"preview"`
}

// Filters are the list query parameters. Ranges are pointers so an
// absent parameter is not confused with zero.
type Filters struct {
	Page     *int     `form:"page" validate:"omitempty,gte=1"`
	Size     *int     `form:"size" validate:"omitempty,gte=1,lte=20"`
	MinLat   *float64 `form:"minLat" validate:"omitempty,gte=-90,lte=90"`
	MaxLat   *float64 `form:"maxLat" validate:"omitempty,gte=-90,lte=90"`
	MinLng   *float64 `form:"minLng" validate:"omitempty,gte=-180,lte=180"`
	MaxLng   *float64 `form:"maxLng" validate:"omitempty,gte=-180,lte=180"`
	MinPrice *float64 `form:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice *float64 `form:"maxPrice" validate:"omitempty,gte=0"`
}

// Pagination resolves page and size with the API defaults applied.
func (f Filters) Pagination() (page, size int) {
	page, size = 1, 20
	if f.Page != nil {
		page = *f.Page
	}
	if f.Size != nil {
		size = *f.Size
	}
	return page, size
}

var filterMessages = map[string]string{
	"page":     "Page must be greater than or equal to 1",
	"size":     "Size must be between 1 and 20",
	"minLat":   "Minimum latitude is invalid",
	"maxLat":   "Maximum latitude is invalid",
	"minLng":   "Minimum longitude is invalid",
	"maxLng":   "Maximum longitude is invalid",
	"minPrice": "Minimum price must be greater than or equal to 0",
	"maxPrice": "Maximum price must be greater than or equal to 0",
}

// Response is the wire shape of a plain spot.
type Response struct {
	ID          int     `json:"id"`
	OwnerID     int     `json:"ownerId"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Country     string  `json:"country"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type ListResponse struct {
	Response
	AvgRating    string  `json:"avgRating"`
	PreviewImage *string `json:"previewImage"`
}

type DetailResponse struct {
	Response
	NumReviews    int          `json:"numReviews"`
	AvgStarRating string       `json:"avgStarRating"`
	SpotImages    []Image      `json:"SpotImages"`
	Owner         user.Summary `json:"Owner"`
}

func NewResponse(s Spot) Response {
	return Response{
		ID:          s.ID,
		OwnerID:     s.OwnerID,
		Address:     s.Address,
		City:        s.City,
		State:       s.State,
		Country:     s.Country,
		Lat:         s.Lat,
		Lng:         s.Lng,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		CreatedAt:   api.FormatTimestamp(s.CreatedAt),
		UpdatedAt:   api.FormatTimestamp(s.UpdatedAt),
	}
}

func NewListResponse(s WithRating) ListResponse {
	resp := ListResponse{
		Response:  NewResponse(s.Spot),
		AvgRating: fmt.Sprintf("%.1f", s.AvgRating),
	}
	if s.PreviewImage.Valid {
		resp.PreviewImage = &s.PreviewImage.String
	}
	return resp
}

func NewDetailResponse(d Detail) DetailResponse {
	images := d.Images
	if images == nil {
		images = []Image{}
	}
	return DetailResponse{
		Response:      NewResponse(d.Spot),
		NumReviews:    d.NumReviews,
		AvgStarRating: fmt.Sprintf("%.1f", d.AvgStarRating),
		SpotImages:    images,
		Owner:         d.Owner,
	}
}
