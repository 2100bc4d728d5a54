package booking

import (
	"database/sql"
	"time"

	"staybook/internal/api"
	"staybook/internal/user"
)

type Booking struct {
	ID        int       `db:"id" json:"id"`
	SpotID    int       `db:"spot_id" json:"spotId"`
	UserID    int       `db:"user_id" json:"userId"`
	StartDate time.Time `db:"start_date" json:"-"`
	EndDate   time.Time `db:"end_date" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// WithUser is a booking row joined with the renter's summary, used for
// the owner's view of a spot's bookings.
type WithUser struct {
	Booking
	User user.Summary `db:"user"`
}

// SpotSummary is the slice of spot columns attached to a user's own
// bookings.
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

type WithSpot struct {
	Booking
	Spot SpotSummary `db:"spot"`
}

type Request struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Response is the wire shape of a booking: dates as YYYY-MM-DD,
// timestamps as YYYY-MM-DD HH:MM:SS.
type Response struct {
	ID        int    `json:"id"`
	SpotID    int    `json:"spotId"`
	UserID    int    `json:"userId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// WithUserResponse is the owner's view of a booking on their spot.
type WithUserResponse struct {
	User user.Summary `json:"User"`
	Response
}

// TrimmedResponse is what non-owners see of a spot's bookings.
type TrimmedResponse struct {
	SpotID    int    `json:"spotId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type spotSummaryResponse struct {
	SpotSummary
	PreviewImage *string `json:"previewImage"`
}

// WithSpotResponse is a booking in the current user's list, carrying
// the spot summary.
type WithSpotResponse struct {
	ID        int                 `json:"id"`
	SpotID    int                 `json:"spotId"`
	Spot      spotSummaryResponse `json:"Spot"`
	UserID    int                 `json:"userId"`
	StartDate string              `json:"startDate"`
	EndDate   string              `json:"endDate"`
	CreatedAt string              `json:"createdAt"`
	UpdatedAt string              `json:"updatedAt"`
}

func NewResponse(b Booking) Response {
	return Response{
		ID:        b.ID,
		SpotID:    b.SpotID,
		UserID:    b.UserID,
		StartDate: api.FormatDate(b.StartDate),
		EndDate:   api.FormatDate(b.EndDate),
		CreatedAt: api.FormatTimestamp(b.CreatedAt),
		UpdatedAt: api.FormatTimestamp(b.UpdatedAt),
	}
}

func NewWithUserResponse(b WithUser) WithUserResponse {
	return WithUserResponse{
		User:     b.User,
		Response: NewResponse(b.Booking),
	}
}

func NewTrimmedResponse(b Booking) TrimmedResponse {
	return TrimmedResponse{
		SpotID:    b.SpotID,
		StartDate: api.FormatDate(b.StartDate),
		EndDate:   api.FormatDate(b.EndDate),
	}
}

func NewWithSpotResponse(b WithSpot) WithSpotResponse {
	spot := spotSummaryResponse{SpotSummary: b.Spot}
	if b.Spot.PreviewImage.Valid {
		spot.PreviewImage = &b.Spot.PreviewImage.String
	}
	return WithSpotResponse{
		ID:        b.ID,
		SpotID:    b.SpotID,
		Spot:      spot,
		UserID:    b.UserID,
		StartDate: api.FormatDate(b.StartDate),
		EndDate:   api.FormatDate(b.EndDate),
		CreatedAt: api.FormatTimestamp(b.CreatedAt),
		UpdatedAt: api.FormatTimestamp(b.UpdatedAt),
	}
}
