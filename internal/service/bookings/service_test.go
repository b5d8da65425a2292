package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MFB-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/MFB-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/MFB-BookingService/internal/integrations/facilityregistry"
	"github.com/m04kA/MFB-BookingService/internal/service/bookings/models"
)

// fakeBookingRepo мок репозитория бронирований
type fakeBookingRepo struct {
	GetByIDFunc                 func(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserIDFunc             func(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByFacilityWithFilterFunc func(ctx context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error)
	CancelFunc                  func(ctx context.Context, id int64, reason string) error
	UpdateStatusFunc            func(ctx context.Context, id int64, status domain.BookingStatus) error
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeBookingRepo) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	return f.GetByUserIDFunc(ctx, userID, status)
}

func (f *fakeBookingRepo) GetByFacilityWithFilter(ctx context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error) {
	return f.GetByFacilityWithFilterFunc(ctx, filter)
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, id int64, reason string) error {
	return f.CancelFunc(ctx, id, reason)
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return f.UpdateStatusFunc(ctx, id, status)
}

// fakeZoneRepo мок репозитория зон
type fakeZoneRepo struct {
	zone *domain.Zone
}

func (f *fakeZoneRepo) GetByID(ctx context.Context, id int64) (*domain.Zone, error) {
	return f.zone, nil
}

// fakeRegistry мок клиента реестра объектов
type fakeRegistry struct {
	facility *facilityregistry.Facility
	err      error
}

func (f *fakeRegistry) GetFacility(ctx context.Context, facilityID int64) (*facilityregistry.Facility, error) {
	return f.facility, f.err
}

type fixedTimeProvider struct {
	now time.Time
}

func (f *fixedTimeProvider) Now() time.Time { return f.now }

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

const (
	ownerID   = int64(42)
	managerID = int64(7)
	otherID   = int64(99)
)

var testNow = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:         1,
		Reference:  "ref-1",
		FacilityID: 10,
		ZoneID:     2,
		UserID:     ownerID,
		StartTime:  time.Date(2026, 9, 8, 10, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 9, 8, 12, 0, 0, 0, time.UTC),
		Status:     domain.StatusConfirmed,
	}
}

func newTestService(repo *fakeBookingRepo, zone *domain.Zone) *Service {
	registry := &fakeRegistry{
		facility: &facilityregistry.Facility{ID: 10, Managers: []int64{managerID}},
	}
	svc := NewService(repo, &fakeZoneRepo{zone: zone}, registry, noopLogger{})
	svc.timeProvider = &fixedTimeProvider{now: testNow}
	return svc
}

func TestGetByID_Access(t *testing.T) {
	repo := &fakeBookingRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return testBooking(), nil
		},
	}
	svc := newTestService(repo, &domain.Zone{ID: 2})

	t.Run("owner sees own booking", func(t *testing.T) {
		resp, err := svc.GetByID(context.Background(), 1, ownerID)

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
	})

	t.Run("facility manager sees any booking", func(t *testing.T) {
		resp, err := svc.GetByID(context.Background(), 1, managerID)

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), 1, otherID)

		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &fakeBookingRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return nil, bookingRepo.ErrBookingNotFound
		},
	}
	svc := newTestService(repo, &domain.Zone{ID: 2})

	_, err := svc.GetByID(context.Background(), 1, ownerID)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel_OwnerWithinWindow(t *testing.T) {
	var cancelledID int64
	var cancelReason string
	repo := &fakeBookingRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return testBooking(), nil
		},
		CancelFunc: func(ctx context.Context, id int64, reason string) error {
			cancelledID = id
			cancelReason = reason
			return nil
		},
	}
	// Окно отмены 24 часа, до начала ещё неделя
	zone := &domain.Zone{ID: 2, Rules: domain.BookingRules{CancellationHours: 24}}
	svc := newTestService(repo, zone)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		UserID:             ownerID,
		CancellationReason: "plans changed",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), cancelledID)
	assert.Equal(t, "plans changed", cancelReason)
}

func TestCancel_OwnerPastDeadline(t *testing.T) {
	booking := testBooking()
	// Начало через 12 часов, окно отмены 24 часа
	booking.StartTime = testNow.Add(12 * time.Hour)
	booking.EndTime = testNow.Add(14 * time.Hour)

	repo := &fakeBookingRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return booking, nil
		},
		CancelFunc: func(ctx context.Context, id int64, reason string) error {
			t.Fatal("cancel must not be called past the deadline")
			return nil
		},
	}
	zone := &domain.Zone{ID: 2, Rules: domain.BookingRules{CancellationHours: 24}}
	svc := newTestService(repo, zone)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: ownerID})

	assert.ErrorIs(t, err, ErrTooLateToCancel)
}

func TestCancel_ManagerIgnoresWindow(t *testing.T) {
	booking := testBooking()
	booking.StartTime = testNow.Add(1 * time.Hour)
	booking.EndTime = testNow.Add(3 * time.Hour)

	var cancelled bool
	repo := &fakeBookingRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return booking, nil
		},
		CancelFunc: func(ctx context.Context, id int64, reason string) error {
			cancelled = true
			return nil
		},
	}
	zone := &domain.Zone{ID: 2, Rules: domain.BookingRules{CancellationHours: 24}}
	svc := newTestService(repo, zone)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: managerID})

	require.NoError(t, err)
	assert.True(t, cancelled)
}

func TestCancel_StrangerDenied(t *testing.T) {
	repo := &fakeBookingRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return testBooking(), nil
		},
	}
	svc := newTestService(repo, &domain.Zone{ID: 2})

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: otherID})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	booking := testBooking()
	booking.Status = domain.StatusCancelled

	repo := &fakeBookingRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return booking, nil
		},
	}
	svc := newTestService(repo, &domain.Zone{ID: 2})

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: ownerID})

	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_NoWindowConfigured(t *testing.T) {
	booking := testBooking()
	booking.StartTime = testNow.Add(30 * time.Minute)
	booking.EndTime = testNow.Add(90 * time.Minute)

	var cancelled bool
	repo := &fakeBookingRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return booking, nil
		},
		CancelFunc: func(ctx context.Context, id int64, reason string) error {
			cancelled = true
			return nil
		},
	}
	// cancellationHours=0: отмена возможна вплоть до начала
	svc := newTestService(repo, &domain.Zone{ID: 2})

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: ownerID})

	require.NoError(t, err)
	assert.True(t, cancelled)
}

func TestUpdateStatus(t *testing.T) {
	t.Run("manager approves pending booking", func(t *testing.T) {
		booking := testBooking()
		booking.Status = domain.StatusPending

		var updatedStatus domain.BookingStatus
		repo := &fakeBookingRepo{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
				return booking, nil
			},
			UpdateStatusFunc: func(ctx context.Context, id int64, status domain.BookingStatus) error {
				updatedStatus = status
				return nil
			},
		}
		svc := newTestService(repo, &domain.Zone{ID: 2})

		err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			UserID: managerID,
			Status: "confirmed",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, updatedStatus)
	})

	t.Run("owner without manager rights is denied", func(t *testing.T) {
		repo := &fakeBookingRepo{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
				return testBooking(), nil
			},
		}
		svc := newTestService(repo, &domain.Zone{ID: 2})

		err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			UserID: ownerID,
			Status: "confirmed",
		})

		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("invalid status", func(t *testing.T) {
		repo := &fakeBookingRepo{
			GetByIDFunc: func(ctx context.Context, id int64) (*domain.Booking, error) {
				return testBooking(), nil
			},
		}
		svc := newTestService(repo, &domain.Zone{ID: 2})

		err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			UserID: managerID,
			Status: "approved-ish",
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestGetUserBookings(t *testing.T) {
	t.Run("status filter is passed to the repository", func(t *testing.T) {
		var gotStatus *domain.BookingStatus
		repo := &fakeBookingRepo{
			GetByUserIDFunc: func(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
				gotStatus = status
				return []*domain.Booking{testBooking()}, nil
			},
		}
		svc := newTestService(repo, &domain.Zone{ID: 2})

		status := "confirmed"
		resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
			UserID: ownerID,
			Status: &status,
		})

		require.NoError(t, err)
		require.NotNil(t, gotStatus)
		assert.Equal(t, domain.StatusConfirmed, *gotStatus)
		assert.Equal(t, 1, resp.Total)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		repo := &fakeBookingRepo{
			GetByUserIDFunc: func(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
				return nil, nil
			},
		}
		svc := newTestService(repo, &domain.Zone{ID: 2})

		status := "whatever"
		_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
			UserID: ownerID,
			Status: &status,
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestGetFacilityBookings(t *testing.T) {
	t.Run("manager gets filtered list", func(t *testing.T) {
		var gotFilter domain.FacilityBookingsFilter
		repo := &fakeBookingRepo{
			GetByFacilityWithFilterFunc: func(ctx context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error) {
				gotFilter = filter
				return []*domain.Booking{testBooking()}, nil
			},
		}
		svc := newTestService(repo, &domain.Zone{ID: 2})

		resp, err := svc.GetFacilityBookings(context.Background(), &models.GetFacilityBookingsRequest{
			UserID:     managerID,
			FacilityID: 10,
			ZoneIDs:    []int64{2, 3},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.Total)
		assert.Equal(t, int64(10), gotFilter.FacilityID)
		assert.Equal(t, []int64{2, 3}, gotFilter.ZoneIDs)
	})

	t.Run("non-manager is denied", func(t *testing.T) {
		repo := &fakeBookingRepo{}
		svc := newTestService(repo, &domain.Zone{ID: 2})

		_, err := svc.GetFacilityBookings(context.Background(), &models.GetFacilityBookingsRequest{
			UserID:     otherID,
			FacilityID: 10,
		})

		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}
