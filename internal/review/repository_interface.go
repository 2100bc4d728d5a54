package review

import "context"

type Repository interface {
	Create(ctx context.Context, spotID, userID int, text string, stars int) (*Review, error)
	GetByID(ctx context.Context, id int) (*Review, error)
	ListBySpot(ctx context.Context, spotID int) ([]WithUser, error)
	ListByUser(ctx context.Context, userID int) ([]WithSpot, error)
	ExistsForUserAndSpot(ctx context.Context, userID, spotID int) (bool, error)
	Update(ctx context.Context, id int, text string, stars int) (*Review, error)
	Delete(ctx context.Context, id int) error
	CountImages(ctx context.Context, reviewID int) (int, error)
	AddImage(ctx context.Context, reviewID int, url string) (*Image, error)
	// GetImage also returns the parent review's author for
	// authorization.
	GetImage(ctx context.Context, imageID int) (*Image, int, error)
	DeleteImage(ctx context.Context, imageID int) error
}
