package review

import (
	"context"
	"database/sql"
	"errors"

	"staybook/internal/metrics"
	"staybook/internal/spot"
)

const maxImagesPerReview = 10

var (
	ErrSpotNotFound   = errors.New("spot not found")
	ErrReviewNotFound = errors.New("review not found")
	ErrImageNotFound  = errors.New("review image not found")
	ErrNotAuthor      = errors.New("user is not the review author")
	ErrAlreadyExists  = errors.New("user already has a review for this spot")
	ErrTooManyImages  = errors.New("maximum number of images reached")
)

type Service interface {
	Create(ctx context.Context, spotID, userID int, req CreateRequest) (*Review, error)
	ListBySpot(ctx context.Context, spotID int) ([]WithUser, error)
	ListByUser(ctx context.Context, userID int) ([]WithSpot, error)
	Update(ctx context.Context, reviewID, userID int, req CreateRequest) (*Review, error)
	Delete(ctx context.Context, reviewID, userID int) error
	AddImage(ctx context.Context, reviewID, userID int, req AddImageRequest) (*Image, error)
	DeleteImage(ctx context.Context, imageID, userID int) error
}

type service struct {
	repo  Repository
	spots spot.Repository
}

func NewService(repo Repository, spots spot.Repository) Service {
	return &service{repo: repo, spots: spots}
}

// Create enforces one review per user per spot.
func (s *service) Create(ctx context.Context, spotID, userID int, req CreateRequest) (*Review, error) {
	if _, err := s.spots.GetByID(ctx, spotID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}

	exists, err := s.repo.ExistsForUserAndSpot(ctx, userID, spotID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	rv, err := s.repo.Create(ctx, spotID, userID, req.Review, *req.Stars)
	if err != nil {
		return nil, err
	}

	metrics.RecordReview()
	return rv, nil
}

func (s *service) ListBySpot(ctx context.Context, spotID int) ([]WithUser, error) {
	if _, err := s.spots.GetByID(ctx, spotID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}
	return s.repo.ListBySpot(ctx, spotID)
}

func (s *service) ListByUser(ctx context.Context, userID int) ([]WithSpot, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Update(ctx context.Context, reviewID, userID int, req CreateRequest) (*Review, error) {
	existing, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrNotAuthor
	}

	return s.repo.Update(ctx, reviewID, req.Review, *req.Stars)
}

func (s *service) Delete(ctx context.Context, reviewID, userID int) error {
	existing, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReviewNotFound
		}
		return err
	}
	if existing.UserID != userID {
		return ErrNotAuthor
	}

	if err := s.repo.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

func (s *service) AddImage(ctx context.Context, reviewID, userID int, req AddImageRequest) (*Image, error) {
	existing, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrNotAuthor
	}

	count, err := s.repo.CountImages(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if count >= maxImagesPerReview {
		return nil, ErrTooManyImages
	}

	return s.repo.AddImage(ctx, reviewID, req.URL)
}

func (s *service) DeleteImage(ctx context.Context, imageID, userID int) error {
	_, authorID, err := s.repo.GetImage(ctx, imageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrImageNotFound
		}
		return err
	}
	if authorID != userID {
		return ErrNotAuthor
	}

	if err := s.repo.DeleteImage(ctx, imageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrImageNotFound
		}
		return err
	}
	return nil
}
