package review

import (
	"database/sql"
	"time"

	"staybook/internal/api"
	"staybook/internal/user"
)

type Review struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"userId"`
	SpotID    int       `db:"spot_id" json:"spotId"`
	Review    string    `db:"review" json:"review"`
	Stars     int       `db:"stars" json:"stars"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

type Image struct {
	ID       int    `db:"id" json:"id"`
	ReviewID int    `db:"review_id" json:"-"`
	URL      string `db:"url" json:"url"`
}

// WithUser is a review row joined with its author, for a spot's review
// list.
type WithUser struct {
	Review
	User   user.Summary `db:"user"`
	Images []Image      `db:"-"`
}

// SpotSummary is the slice of spot columns attached to a user's own
// reviews.
type SpotSummary struct {
	ID           int            `db:"id" json:"id"`
	OwnerID      int            `db:"owner_id" json:"ownerId"`
	Address      string         `db:"address" json:"address"`
	City         string         `db:"city" json:"city"`
	State        string         `db:"state" json:"state"`
	Country      string         `db:"country" json:"country"`
	Lat          float64        `db:"lat" json:"lat"`
	Lng          float64        `db:"lng" json:"lng"`
	Name         string         `db:"name" json:"name"`
	Price        float64        `db:"price" json:"price"`
	PreviewImage sql.NullString `db:"preview_image" json:"-"`
}

// WithSpot is a review row joined with the reviewed spot's summary,
// for the current user's review list.
type WithSpot struct {
	Review
	User   user.Summary `db:"user"`
	Spot   SpotSummary  `db:"spot"`
	Images []Image      `db:"-"`
}

type CreateRequest struct {
	Review string `json:"review"`
	Stars  *int   `json:"stars"`
}

type AddImageRequest struct {
	URL string `json:"url" binding:"required"`
}

type Response struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	SpotID    int    `json:"spotId"`
	Review    string `json:"review"`
	Stars     int    `json:"stars"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type WithUserResponse struct {
	Response
	User         user.Summary `json:"User"`
	ReviewImages []Image      `json:"ReviewImages"`
}

type spotSummaryResponse struct {
	SpotSummary
	PreviewImage *string `json:"previewImage"`
}

type WithSpotResponse struct {
	Response
	User         user.Summary        `json:"User"`
	Spot         spotSummaryResponse `json:"Spot"`
	ReviewImages []Image             `json:"ReviewImages"`
}

func NewResponse(r Review) Response {
	return Response{
		ID:        r.ID,
		UserID:    r.UserID,
		SpotID:    r.SpotID,
		Review:    r.Review,
		Stars:     r.Stars,
		CreatedAt: api.FormatTimestamp(r.CreatedAt),
		UpdatedAt: api.FormatTimestamp(r.UpdatedAt),
	}
}

func NewWithUserResponse(r WithUser) WithUserResponse {
	images := r.Images
	if images == nil {
		images = []Image{}
	}
	return WithUserResponse{
		Response:     NewResponse(r.Review),
		User:         r.User,
		ReviewImages: images,
	}
}

func NewWithSpotResponse(r WithSpot) WithSpotResponse {
	images := r.Images
	if images == nil {
		images = []Image{}
	}
	spot := spotSummaryResponse{SpotSummary: r.Spot}
	if r.Spot.PreviewImage.Valid {
		spot.PreviewImage = &r.Spot.PreviewImage.String
	}
	return WithSpotResponse{
		Response:     NewResponse(r.Review),
		User:         r.User,
		Spot:         spot,
		ReviewImages: images,
	}
}
