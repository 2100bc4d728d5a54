package review

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"staybook/internal/spot"
)

type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Create(ctx context.Context, spotID, userID int, text string, stars int) (*Review, error) {
	args := m.Called(ctx, spotID, userID, text, stars)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Review), args.Error(1)
}

func (m *MockReviewRepo) GetByID(ctx context.Context, id int) (*Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Review), args.Error(1)
}

func (m *MockReviewRepo) ListBySpot(ctx context.Context, spotID int) ([]WithUser, error) {
	args := m.Called(ctx, spotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]WithUser), args.Error(1)
}

func (m *MockReviewRepo) ListByUser(ctx context.Context, userID int) ([]WithSpot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]WithSpot), args.Error(1)
}

func (m *MockReviewRepo) ExistsForUserAndSpot(ctx context.Context, userID, spotID int) (bool, error) {
	args := m.Called(ctx, userID, spotID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepo) Update(ctx context.Context, id int, text string, stars int) (*Review, error) {
	args := m.Called(ctx, id, text, stars)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Review), args.Error(1)
}

func (m *MockReviewRepo) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepo) CountImages(ctx context.Context, reviewID int) (int, error) {
	args := m.Called(ctx, reviewID)
	return args.Int(0), args.Error(1)
}

func (m *MockReviewRepo) AddImage(ctx context.Context, reviewID int, url string) (*Image, error) {
	args := m.Called(ctx, reviewID, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Image), args.Error(1)
}

func (m *MockReviewRepo) GetImage(ctx context.Context, imageID int) (*Image, int, error) {
	args := m.Called(ctx, imageID)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*Image), args.Int(1), args.Error(2)
}

func (m *MockReviewRepo) DeleteImage(ctx context.Context, imageID int) error {
	args := m.Called(ctx, imageID)
	return args.Error(0)
}

// stubSpotRepo satisfies spot.Repository; only GetByID matters here.
type stubSpotRepo struct {
	spots map[int]*spot.Spot
}

func (s *stubSpotRepo) GetByID(ctx context.Context, id int) (*spot.Spot, error) {
	if sp, ok := s.spots[id]; ok {
		return sp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubSpotRepo) Create(context.Context, int, spot.CreateSpotRequest) (*spot.Spot, error) {
	panic("not used")
}
func (s *stubSpotRepo) GetDetail(context.Context, int) (*spot.Detail, error) { panic("not used") }
func (s *stubSpotRepo) List(context.Context, spot.Filters) ([]spot.WithRating, error) {
	panic("not used")
}
func (s *stubSpotRepo) ListByOwner(context.Context, int) ([]spot.WithRating, error) {
	panic("not used")
}
func (s *stubSpotRepo) Update(context.Context, int, spot.CreateSpotRequest) (*spot.Spot, error) {
	panic("not used")
}
func (s *stubSpotRepo) Delete(context.Context, int) error { panic("not used") }
func (s *stubSpotRepo) AddImage(context.Context, int, string, bool) (*spot.Image, error) {
	panic("not used")
}
func (s *stubSpotRepo) GetImage(context.Context, int) (*spot.Image, int, error) { panic("not used") }
func (s *stubSpotRepo) DeleteImage(context.Context, int) error                  { panic("not used") }

func intPtr(i int) *int { return &i }

func newTestService(repo Repository) Service {
	spots := map[int]*spot.Spot{1: {ID: 1, OwnerID: 1, Name: "Cozy Loft"}}
	return NewService(repo, &stubSpotRepo{spots: spots})
}

func TestCreateReview(t *testing.T) {
	req := CreateRequest{Review: "Lovely stay", Stars: intPtr(5)}

	t.Run("creates when none exists", func(t *testing.T) {
		mockRepo := new(MockReviewRepo)
		svc := newTestService(mockRepo)

		mockRepo.On("ExistsForUserAndSpot", mock.Anything, 2, 1).Return(false, nil)
		mockRepo.On("Create", mock.Anything, 1, 2, "Lovely stay", 5).
			Return(&Review{ID: 3, SpotID: 1, UserID: 2, Review: "Lovely stay", Stars: 5}, nil)

		rv, err := svc.Create(context.Background(), 1, 2, req)
		require.NoError(t, err)
		assert.Equal(t, 3, rv.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("one review per user per spot", func(t *testing.T) {
		mockRepo := new(MockReviewRepo)
		svc := newTestService(mockRepo)

		mockRepo.On("ExistsForUserAndSpot", mock.Anything, 2, 1).Return(true, nil)

		_, err := svc.Create(context.Background(), 1, 2, req)
		assert.ErrorIs(t, err, ErrAlreadyExists)
		mockRepo.AssertNotCalled(t, "Create",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing spot", func(t *testing.T) {
		mockRepo := new(MockReviewRepo)
		svc := newTestService(mockRepo)

		_, err := svc.Create(context.Background(), 99, 2, req)
		assert.ErrorIs(t, err, ErrSpotNotFound)
	})
}

func TestUpdateReview(t *testing.T) {
	req := CreateRequest{Review: "Updated", Stars: intPtr(4)}

	t.Run("author can update", func(t *testing.T) {
		mockRepo := new(MockReviewRepo)
		svc := newTestService(mockRepo)

		mockRepo.On("GetByID", mock.Anything, 3).Return(&Review{ID: 3, UserID: 2}, nil)
		mockRepo.On("Update", mock.Anything, 3, "Updated", 4).
			Return(&Review{ID: 3, UserID: 2, Review: "Updated", Stars: 4}, nil)

		rv, err := svc.Update(context.Background(), 3, 2, req)
		require.NoError(t, err)
		assert.Equal(t, 4, rv.Stars)
	})

	t.Run("non-author rejected", func(t *testing.T) {
		mockRepo := new(MockReviewRepo)
		svc := newTestService(mockRepo)

		mockRepo.On("GetByID", mock.Anything, 3).Return(&Review{ID: 3, UserID: 2}, nil)

		_, err := svc.Update(context.Background(), 3, 9, req)
		assert.ErrorIs(t, err, ErrNotAuthor)
	})

	t.Run("missing review", func(t *testing.T) {
		mockRepo := new(MockReviewRepo)
		svc := newTestService(mockRepo)

		mockRepo.On("GetByID", mock.Anything, 99).Return(nil, sql.ErrNoRows)

		_, err := svc.Update(context.Background(), 99, 2, req)
		assert.ErrorIs(t, err, ErrReviewNotFound)
	})
}

func TestReviewImages(t *testing.T) {
	t.Run("author can add below the cap", func(t *testing.T) {
		mockRepo := new(MockReviewRepo)
		svc := newTestService(mockRepo)

		mockRepo.On("GetByID", mock.Anything, 3).Return(&Review{ID: 3, UserID: 2}, nil)
		mockRepo.On("CountImages", mock.Anything, 3).Return(9, nil)
		mockRepo.On("AddImage", mock.Anything, 3, "https://img.test/r.jpg").
			Return(&Image{ID: 7, ReviewID: 3, URL: "https://img.test/r.jpg"}, nil)

		image, err := svc.AddImage(context.Background(), 3, 2, AddImageRequest{URL: "https://img.test/r.jpg"})
		require.NoError(t, err)
		assert.Equal(t, 7, image.ID)
	})

	t.Run("cap of ten images", func(t *testing.T) {
		mockRepo := new(MockReviewRepo)
		svc := newTestService(mockRepo)

		mockRepo.On("GetByID", mock.Anything, 3).Return(&Review{ID: 3, UserID: 2}, nil)
		mockRepo.On("CountImages", mock.Anything, 3).Return(10, nil)

		_, err := svc.AddImage(context.Background(), 3, 2, AddImageRequest{URL: "https://img.test/r.jpg"})
		assert.ErrorIs(t, err, ErrTooManyImages)
		mockRepo.AssertNotCalled(t, "AddImage", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delete checks the review author", func(t *testing.T) {
		mockRepo := new(MockReviewRepo)
		svc := newTestService(mockRepo)

		mockRepo.On("GetImage", mock.Anything, 7).Return(&Image{ID: 7, ReviewID: 3}, 2, nil)

		err := svc.DeleteImage(context.Background(), 7, 9)
		assert.ErrorIs(t, err, ErrNotAuthor)
	})
}

func TestDeleteReview(t *testing.T) {
	t.Run("author can delete", func(t *testing.T) {
		mockRepo := new(MockReviewRepo)
		svc := newTestService(mockRepo)

		mockRepo.On("GetByID", mock.Anything, 3).Return(&Review{ID: 3, UserID: 2}, nil)
		mockRepo.On("Delete", mock.Anything, 3).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), 3, 2))
	})

	t.Run("non-author rejected", func(t *testing.T) {
		mockRepo := new(MockReviewRepo)
		svc := newTestService(mockRepo)

		mockRepo.On("GetByID", mock.Anything, 3).Return(&Review{ID: 3, UserID: 2}, nil)

		err := svc.Delete(context.Background(), 3, 9)
		assert.ErrorIs(t, err, ErrNotAuthor)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
