package preview_booking

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MFB-BookingService/internal/domain"
	"github.com/m04kA/MFB-BookingService/internal/integrations/facilityregistry"
)

// fakeBookingRepo мок репозитория бронирований
type fakeBookingRepo struct {
	GetByFacilityWithFilterFunc func(ctx context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error)
}

func (f *fakeBookingRepo) GetByFacilityWithFilter(ctx context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error) {
	return f.GetByFacilityWithFilterFunc(ctx, filter)
}

// fakeZoneService мок сервиса зон
type fakeZoneService struct {
	zones []domain.Zone
}

func (f *fakeZoneService) GetFacilityZones(ctx context.Context, facilityID int64) ([]domain.Zone, error) {
	return f.zones, nil
}

// fakeRegistry мок клиента реестра объектов
type fakeRegistry struct {
	facility *facilityregistry.Facility
	err      error
}

func (f *fakeRegistry) GetFacilityWithGracefulDegradation(ctx context.Context, facilityID int64) (*facilityregistry.Facility, error) {
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

func int64Ptr(v int64) *int64 { return &v }

var testNow = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

func newTestUseCase(snapshot []*domain.Booking) *UseCase {
	repo := &fakeBookingRepo{
		GetByFacilityWithFilterFunc: func(ctx context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error) {
			return snapshot, nil
		},
	}
	zoneList := []domain.Zone{
		{ID: 1, FacilityID: 10, IsMainZone: true, PricePerHour: 900},
		{ID: 2, FacilityID: 10, ParentZoneID: int64Ptr(1), PricePerHour: 450},
	}
	facility := &facilityregistry.Facility{ID: 10, Active: true}

	uc := NewUseCase(repo, &fakeZoneService{zones: zoneList}, &fakeRegistry{facility: facility}, noopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func previewRequest() *Request {
	return &Request{
		UserID:        42,
		FacilityID:    10,
		ZoneID:        2,
		ActorType:     "private-person",
		Purpose:       "badmintontrening",
		AttendeeCount: 4,
		Timing: Timing{
			DateRange: &DateRangeSlot{
				StartDate: time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC),
				Slot:      "10:00-12:00",
			},
		},
	}
}

func TestExecute_Available(t *testing.T) {
	uc := newTestUseCase(nil)

	resp, err := uc.Execute(context.Background(), previewRequest())

	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, resp.Status)
	assert.Len(t, resp.Clean, 4)
	assert.Empty(t, resp.Conflicted)
	require.NotNil(t, resp.Breakdown)
	// 450/час * 2 часа * 4 дня, без скидки, НДС 25%
	assert.Equal(t, 4500.0, resp.Breakdown.FinalPrice)
}

func TestExecute_PartialQuotesCleanSubset(t *testing.T) {
	competing := &domain.Booking{
		ID:        500,
		ZoneID:    2,
		StartTime: time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC),
		Status:    domain.StatusConfirmed,
	}
	uc := newTestUseCase([]*domain.Booking{competing})

	resp, err := uc.Execute(context.Background(), previewRequest())

	require.NoError(t, err)
	assert.Equal(t, StatusPartial, resp.Status)
	assert.Len(t, resp.Clean, 3)
	require.Len(t, resp.Conflicted, 1)
	assert.Equal(t, int64(500), resp.Conflicted[0].BookingID)

	// Котировка считается только по свободному подмножеству
	require.NotNil(t, resp.Breakdown)
	assert.Len(t, resp.Breakdown.PerOccurrence, 3)
	assert.Equal(t, 3375.0, resp.Breakdown.FinalPrice)
}

func TestExecute_AllOccurrencesConflict(t *testing.T) {
	// Бронь главной зоны на всю неделю блокирует все вхождения подзоны
	competing := &domain.Booking{
		ID:        600,
		ZoneID:    1,
		StartTime: time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Status:    domain.StatusConfirmed,
	}
	uc := newTestUseCase([]*domain.Booking{competing})

	resp, err := uc.Execute(context.Background(), previewRequest())

	require.NoError(t, err)
	assert.Equal(t, StatusRejected, resp.Status)
	assert.NotEmpty(t, resp.Reason)
	assert.Len(t, resp.Conflicted, 4)
	assert.Nil(t, resp.Breakdown)
}

func TestExecute_ApprovalFlag(t *testing.T) {
	uc := newTestUseCase(nil)

	req := previewRequest()
	req.ActorType = "paraply"

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, resp.RequiresApproval)
}

func TestExecute_RegistryOutageDegradesToZeroSurcharges(t *testing.T) {
	repo := &fakeBookingRepo{
		GetByFacilityWithFilterFunc: func(ctx context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error) {
			return nil, nil
		},
	}
	zoneList := []domain.Zone{
		{ID: 1, FacilityID: 10, IsMainZone: true, PricePerHour: 900},
		{ID: 2, FacilityID: 10, ParentZoneID: int64Ptr(1), PricePerHour: 450},
	}
	uc := NewUseCase(repo, &fakeZoneService{zones: zoneList}, &fakeRegistry{err: facilityregistry.ErrServiceDegraded}, noopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}

	// Вечерний слот: при живом реестре здесь была бы вечерняя наценка
	req := previewRequest()
	req.Timing.DateRange.Slot = "18:00-20:00"

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, resp.Status)

	// Недоступный реестр означает нулевые наценки, а не отказ
	require.NotNil(t, resp.Breakdown)
	assert.Equal(t, 4500.0, resp.Breakdown.FinalPrice)
	for _, line := range resp.Breakdown.Lines {
		assert.NotEqual(t, domain.LineKindSurcharge, line.Kind)
	}
}

func TestExecute_ValidationFailure(t *testing.T) {
	uc := newTestUseCase(nil)

	t.Run("missing purpose", func(t *testing.T) {
		req := previewRequest()
		req.Purpose = ""

		_, err := uc.Execute(context.Background(), req)

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("purpose too long", func(t *testing.T) {
		req := previewRequest()
		req.Purpose = strings.Repeat("x", domain.MaxPurposeLength+1)

		_, err := uc.Execute(context.Background(), req)

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
