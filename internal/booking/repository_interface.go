package booking

import (
	"context"
	"time"
)

type Repository interface {
	GetByID(ctx context.Context, id int) (*Booking, error)
	// GetWithSpotOwner also returns the owner of the booked spot, for
	// cancellation authorization.
	GetWithSpotOwner(ctx context.Context, id int) (*Booking, int, error)
	ListBySpot(ctx context.Context, spotID int) ([]WithUser, error)
	ListRangesBySpot(ctx context.Context, spotID int) ([]Booking, error)
	ListByUser(ctx context.Context, userID int) ([]WithSpot, error)
	// InsertIfAvailable atomically re-checks the range against the
	// spot's bookings and inserts, serializing on the spot row.
	InsertIfAvailable(ctx context.Context, spotID, userID int, start, end time.Time) (*Booking, error)
	// UpdateDatesIfAvailable does the same for a reschedule, ignoring
	// the booking's own current range.
	UpdateDatesIfAvailable(ctx context.Context, id, spotID int, start, end time.Time) (*Booking, error)
	Delete(ctx context.Context, id int) error
}
