package booking

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"staybook/internal/spot"
	"staybook/internal/user"
)

type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) GetByID(ctx context.Context, id int) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingRepo) GetWithSpotOwner(ctx context.Context, id int) (*Booking, int, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*Booking), args.Int(1), args.Error(2)
}

func (m *MockBookingRepo) ListBySpot(ctx context.Context, spotID int) ([]WithUser, error) {
	args := m.Called(ctx, spotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]WithUser), args.Error(1)
}

func (m *MockBookingRepo) ListRangesBySpot(ctx context.Context, spotID int) ([]Booking, error) {
	args := m.Called(ctx, spotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockBookingRepo) ListByUser(ctx context.Context, userID int) ([]WithSpot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]WithSpot), args.Error(1)
}

func (m *MockBookingRepo) InsertIfAvailable(ctx context.Context, spotID, userID int, start, end time.Time) (*Booking, error) {
	args := m.Called(ctx, spotID, userID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingRepo) UpdateDatesIfAvailable(ctx context.Context, id, spotID int, start, end time.Time) (*Booking, error) {
	args := m.Called(ctx, id, spotID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingRepo) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
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

var _ spot.Repository = (*stubSpotRepo)(nil)

// testNow is mid-May, well before the June fixtures.
var testNow = time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo Repository, spots map[int]*spot.Spot) *service {
	svc := NewService(repo, &stubSpotRepo{spots: spots}, nil, nil).(*service)
	svc.now = func() time.Time { return testNow }
	return svc
}

func juneBookings() []Booking {
	return []Booking{
		{ID: 1, SpotID: 1, UserID: 3, StartDate: date("2025-06-01"), EndDate: date("2025-06-05")},
	}
}

func testSpots() map[int]*spot.Spot {
	return map[int]*spot.Spot{
		1: {ID: 1, OwnerID: 1, Name: "Cozy Loft"},
	}
}

func TestCreateBooking(t *testing.T) {
	t.Run("succeeds on a free range", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		start, end := date("2025-06-06"), date("2025-06-10")
		mockRepo.On("ListRangesBySpot", mock.Anything, 1).Return(juneBookings(), nil)
		mockRepo.On("InsertIfAvailable", mock.Anything, 1, 2, start, end).
			Return(&Booking{ID: 9, SpotID: 1, UserID: 2, StartDate: start, EndDate: end}, nil)

		b, err := svc.Create(context.Background(), 2, 1, Request{StartDate: "2025-06-06", EndDate: "2025-06-10"})
		require.NoError(t, err)
		assert.Equal(t, 9, b.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects when existing end touches proposed start", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		mockRepo.On("ListRangesBySpot", mock.Anything, 1).Return(juneBookings(), nil)

		_, err := svc.Create(context.Background(), 2, 1, Request{StartDate: "2025-06-05", EndDate: "2025-06-10"})
		assert.ErrorIs(t, err, ErrConflict)
		mockRepo.AssertNotCalled(t, "InsertIfAvailable",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejection is repeatable", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		mockRepo.On("ListRangesBySpot", mock.Anything, 1).Return(juneBookings(), nil)

		req := Request{StartDate: "2025-06-05", EndDate: "2025-06-10"}
		_, err := svc.Create(context.Background(), 2, 1, req)
		assert.ErrorIs(t, err, ErrConflict)
		_, err = svc.Create(context.Background(), 2, 1, req)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("past range fails validation, not conflict", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		_, err := svc.Create(context.Background(), 2, 1, Request{StartDate: "2024-01-01", EndDate: "2024-01-05"})
		assert.ErrorIs(t, err, ErrPastStart)
		mockRepo.AssertNotCalled(t, "ListRangesBySpot", mock.Anything, mock.Anything)
	})

	t.Run("owner cannot book own spot even for a free range", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		_, err := svc.Create(context.Background(), 1, 1, Request{StartDate: "2025-07-01", EndDate: "2025-07-05"})
		assert.ErrorIs(t, err, ErrOwnSpot)
	})

	t.Run("missing spot", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		_, err := svc.Create(context.Background(), 2, 99, Request{StartDate: "2025-06-06", EndDate: "2025-06-10"})
		assert.ErrorIs(t, err, ErrSpotNotFound)
	})

	t.Run("end on or before start", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		_, err := svc.Create(context.Background(), 2, 1, Request{StartDate: "2025-06-06", EndDate: "2025-06-06"})
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("unparseable dates", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		_, err := svc.Create(context.Background(), 2, 1, Request{StartDate: "junk", EndDate: "2025-06-10"})
		assert.ErrorIs(t, err, ErrInvalidStart)

		_, err = svc.Create(context.Background(), 2, 1, Request{StartDate: "2025-06-06", EndDate: ""})
		assert.ErrorIs(t, err, ErrInvalidEnd)
	})

	t.Run("range strictly inside an existing booking is accepted", func(t *testing.T) {
		// Historical predicate quirk: only boundary containment counts.
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		start, end := date("2025-06-02"), date("2025-06-04")
		mockRepo.On("ListRangesBySpot", mock.Anything, 1).Return(juneBookings(), nil)
		mockRepo.On("InsertIfAvailable", mock.Anything, 1, 2, start, end).
			Return(&Booking{ID: 10, SpotID: 1, UserID: 2, StartDate: start, EndDate: end}, nil)

		_, err := svc.Create(context.Background(), 2, 1, Request{StartDate: "2025-06-02", EndDate: "2025-06-04"})
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("repository conflict under concurrency surfaces as conflict", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		start, end := date("2025-06-06"), date("2025-06-10")
		mockRepo.On("ListRangesBySpot", mock.Anything, 1).Return([]Booking{}, nil)
		mockRepo.On("InsertIfAvailable", mock.Anything, 1, 2, start, end).Return(nil, ErrConflict)

		_, err := svc.Create(context.Background(), 2, 1, Request{StartDate: "2025-06-06", EndDate: "2025-06-10"})
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestUpdateBooking(t *testing.T) {
	current := &Booking{ID: 1, SpotID: 1, UserID: 3, StartDate: date("2025-06-01"), EndDate: date("2025-06-05")}

	t.Run("renter can reschedule to a free range", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		start, end := date("2025-06-20"), date("2025-06-25")
		mockRepo.On("GetByID", mock.Anything, 1).Return(current, nil)
		mockRepo.On("ListRangesBySpot", mock.Anything, 1).Return(juneBookings(), nil)
		mockRepo.On("UpdateDatesIfAvailable", mock.Anything, 1, 1, start, end).
			Return(&Booking{ID: 1, SpotID: 1, UserID: 3, StartDate: start, EndDate: end}, nil)

		b, err := svc.Update(context.Background(), 1, 3, Request{StartDate: "2025-06-20", EndDate: "2025-06-25"})
		require.NoError(t, err)
		assert.Equal(t, start, b.StartDate)
		mockRepo.AssertExpectations(t)
	})

	t.Run("own current range does not conflict with itself", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		start, end := date("2025-06-02"), date("2025-06-06")
		mockRepo.On("GetByID", mock.Anything, 1).Return(current, nil)
		mockRepo.On("ListRangesBySpot", mock.Anything, 1).Return(juneBookings(), nil)
		mockRepo.On("UpdateDatesIfAvailable", mock.Anything, 1, 1, start, end).
			Return(&Booking{ID: 1, SpotID: 1, UserID: 3, StartDate: start, EndDate: end}, nil)

		_, err := svc.Update(context.Background(), 1, 3, Request{StartDate: "2025-06-02", EndDate: "2025-06-06"})
		assert.NoError(t, err)
	})

	t.Run("rescheduling onto another booking conflicts", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		existing := append(juneBookings(),
			Booking{ID: 2, SpotID: 1, UserID: 4, StartDate: date("2025-06-10"), EndDate: date("2025-06-15")})
		mockRepo.On("GetByID", mock.Anything, 1).Return(current, nil)
		mockRepo.On("ListRangesBySpot", mock.Anything, 1).Return(existing, nil)

		_, err := svc.Update(context.Background(), 1, 3, Request{StartDate: "2025-06-09", EndDate: "2025-06-12"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("only the renter may reschedule", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		mockRepo.On("GetByID", mock.Anything, 1).Return(current, nil)

		_, err := svc.Update(context.Background(), 1, 8, Request{StartDate: "2025-06-20", EndDate: "2025-06-25"})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("ended bookings are immutable regardless of patch", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		past := &Booking{ID: 5, SpotID: 1, UserID: 3, StartDate: date("2025-04-01"), EndDate: date("2025-04-05")}
		mockRepo.On("GetByID", mock.Anything, 5).Return(past, nil)

		_, err := svc.Update(context.Background(), 5, 3, Request{StartDate: "2025-06-20", EndDate: "2025-06-25"})
		assert.ErrorIs(t, err, ErrPastBooking)
	})

	t.Run("missing booking", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		mockRepo.On("GetByID", mock.Anything, 99).Return(nil, sql.ErrNoRows)

		_, err := svc.Update(context.Background(), 99, 3, Request{StartDate: "2025-06-20", EndDate: "2025-06-25"})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestDeleteBooking(t *testing.T) {
	future := &Booking{ID: 1, SpotID: 1, UserID: 3, StartDate: date("2025-06-01"), EndDate: date("2025-06-05")}

	t.Run("renter can cancel", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		mockRepo.On("GetWithSpotOwner", mock.Anything, 1).Return(future, 1, nil)
		mockRepo.On("Delete", mock.Anything, 1).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), 1, 3))
		mockRepo.AssertExpectations(t)
	})

	t.Run("spot owner can cancel", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		mockRepo.On("GetWithSpotOwner", mock.Anything, 1).Return(future, 1, nil)
		mockRepo.On("Delete", mock.Anything, 1).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), 1, 1))
	})

	t.Run("anyone else is forbidden", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		mockRepo.On("GetWithSpotOwner", mock.Anything, 1).Return(future, 1, nil)

		err := svc.Delete(context.Background(), 1, 8)
		assert.ErrorIs(t, err, ErrForbidden)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("started stays cannot be cancelled", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		started := &Booking{ID: 2, SpotID: 1, UserID: 3, StartDate: date("2025-05-15"), EndDate: date("2025-05-20")}
		mockRepo.On("GetWithSpotOwner", mock.Anything, 2).Return(started, 1, nil)

		err := svc.Delete(context.Background(), 2, 3)
		assert.ErrorIs(t, err, ErrAlreadyStarted)
	})

	t.Run("missing booking", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		mockRepo.On("GetWithSpotOwner", mock.Anything, 99).Return(nil, 0, sql.ErrNoRows)

		err := svc.Delete(context.Background(), 99, 3)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestListBySpot(t *testing.T) {
	rows := []WithUser{
		{Booking: juneBookings()[0], User: user.Summary{ID: 3, FirstName: "Ada", LastName: "L"}},
	}

	t.Run("owner view", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		mockRepo.On("ListBySpot", mock.Anything, 1).Return(rows, nil)

		bookings, isOwner, err := svc.ListBySpot(context.Background(), 1, 1)
		require.NoError(t, err)
		assert.True(t, isOwner)
		assert.Len(t, bookings, 1)
	})

	t.Run("non-owner view", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		mockRepo.On("ListBySpot", mock.Anything, 1).Return(rows, nil)

		_, isOwner, err := svc.ListBySpot(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.False(t, isOwner)
	})

	t.Run("missing spot", func(t *testing.T) {
		mockRepo := new(MockBookingRepo)
		svc := newTestService(mockRepo, testSpots())

		_, _, err := svc.ListBySpot(context.Background(), 99, 1)
		assert.ErrorIs(t, err, ErrSpotNotFound)
	})
}
