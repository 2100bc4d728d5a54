package spot

import (
	"context"
	"database/sql"
	"errors"

	"staybook/internal/metrics"
)

var (
	ErrSpotNotFound  = errors.New("spot not found")
	ErrNotOwner      = errors.New("user is not the spot owner")
	ErrImageNotFound = errors.New("spot image not found")
)

type Service interface {
	Create(ctx context.Context, ownerID int, req CreateSpotRequest) (*Spot, error)
	Get(ctx context.Context, id int) (*Detail, error)
	List(ctx context.Context, f Filters) ([]WithRating, error)
	ListByOwner(ctx context.Context, ownerID int) ([]WithRating, error)
	Update(ctx context.Context, id, userID int, req CreateSpotRequest) (*Spot, error)
	Delete(ctx context.Context, id, userID int) error
	AddImage(ctx context.Context, spotID, userID int, req AddImageRequest) (*Image, error)
	DeleteImage(ctx context.Context, imageID, userID int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, ownerID int, req CreateSpotRequest) (*Spot, error) {
	spot, err := s.repo.Create(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}

	metrics.RecordSpot()
	return spot, nil
}

func (s *service) Get(ctx context.Context, id int) (*Detail, error) {
	detail, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}

	return detail, nil
}

func (s *service) List(ctx context.Context, f Filters) ([]WithRating, error) {
	return s.repo.List(ctx, f)
}

func (s *service) ListByOwner(ctx context.Context, ownerID int) ([]WithRating, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Update replaces every mutable field. Only the owner may update.
func (s *service) Update(ctx context.Context, id, userID int, req CreateSpotRequest) (*Spot, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}
	if existing.OwnerID != userID {
		return nil, ErrNotOwner
	}

	return s.repo.Update(ctx, id, req)
}

func (s *service) Delete(ctx context.Context, id, userID int) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSpotNotFound
		}
		return err
	}
	if existing.OwnerID != userID {
		return ErrNotOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSpotNotFound
		}
		return err
	}

	return nil
}

func (s *service) AddImage(ctx context.Context, spotID, userID int, req AddImageRequest) (*Image, error) {
	existing, err := s.repo.GetByID(ctx, spotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}
	if existing.OwnerID != userID {
		return nil, ErrNotOwner
	}

	return s.repo.AddImage(ctx, spotID, req.URL, req.Preview)
}

func (s *service) DeleteImage(ctx context.Context, imageID, userID int) error {
	_, ownerID, err := s.repo.GetImage(ctx, imageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrImageNotFound
		}
		return err
	}
	if ownerID != userID {
		return ErrNotOwner
	}

	if err := s.repo.DeleteImage(ctx, imageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrImageNotFound
		}
		return err
	}

	return nil
}
