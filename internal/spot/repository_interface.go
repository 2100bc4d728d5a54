package spot

import "context"

type Repository interface {
	Create(ctx context.Context, ownerID int, req CreateSpotRequest) (*Spot, error)
	GetByID(ctx context.Context, id int) (*Spot, error)
	GetDetail(ctx context.Context, id int) (*Detail, error)
	List(ctx context.Context, f Filters) ([]WithRating, error)
	ListByOwner(ctx context.Context, ownerID int) ([]WithRating, error)
	Update(ctx context.Context, id int, req CreateSpotRequest) (*Spot, error)
	Delete(ctx context.Context, id int) error
	AddImage(ctx context.Context, spotID int, url string, preview bool) (*Image, error)
	GetImage(ctx context.Context, imageID int) (*Image, int, error)
	DeleteImage(ctx context.Context, imageID int) error
}
