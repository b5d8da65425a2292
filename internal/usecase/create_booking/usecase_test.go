package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MFB-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/MFB-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/MFB-BookingService/internal/integrations/facilityregistry"
)

// fakeBookingRepo мок репозитория бронирований
type fakeBookingRepo struct {
	CreateBatchFunc             func(ctx context.Context, bookings []*domain.Booking) ([]*domain.Booking, error)
	GetByFacilityWithFilterFunc func(ctx context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error)

	createBatchCalls []([]*domain.Booking)
	snapshotCalls    int
}

func (f *fakeBookingRepo) CreateBatch(ctx context.Context, bookings []*domain.Booking) ([]*domain.Booking, error) {
	f.createBatchCalls = append(f.createBatchCalls, bookings)
	return f.CreateBatchFunc(ctx, bookings)
}

func (f *fakeBookingRepo) GetByFacilityWithFilter(ctx context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error) {
	f.snapshotCalls++
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

// fakeTxManager выполняет функцию напрямую, без настоящей транзакции
type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fixedTimeProvider провайдер фиксированного времени
type fixedTimeProvider struct {
	now time.Time
}

func (f *fixedTimeProvider) Now() time.Time { return f.now }

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func int64Ptr(v int64) *int64 { return &v }

// Опорное "сейчас" для тестов: вторник 2026-09-01
var testNow = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

func testZones() []domain.Zone {
	return []domain.Zone{
		{ID: 1, FacilityID: 10, Name: "Hele hallen", IsMainZone: true, PricePerHour: 900},
		{ID: 2, FacilityID: 10, Name: "Bane A", ParentZoneID: int64Ptr(1), PricePerHour: 450},
		{ID: 3, FacilityID: 10, Name: "Bane B", ParentZoneID: int64Ptr(1), PricePerHour: 450},
	}
}

func testFacility() *facilityregistry.Facility {
	return &facilityregistry.Facility{ID: 10, Name: "Idrettshallen", Active: true}
}

func newTestUseCase(repo *fakeBookingRepo, registry *fakeRegistry) *UseCase {
	uc := NewUseCase(repo, &fakeZoneService{zones: testZones()}, registry, &fakeTxManager{}, noopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func emptySnapshot(ctx context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error) {
	return nil, nil
}

func sequentialIDs(ctx context.Context, bookings []*domain.Booking) ([]*domain.Booking, error) {
	for i, b := range bookings {
		b.ID = int64(i + 1)
	}
	return bookings, nil
}

// Запрос: один и тот же слот 10:00-12:00 на зоне 2 четыре дня подряд
func dateRangeRequest() *Request {
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

func TestExecute_Committed(t *testing.T) {
	repo := &fakeBookingRepo{
		GetByFacilityWithFilterFunc: emptySnapshot,
		CreateBatchFunc:             sequentialIDs,
	}
	uc := newTestUseCase(repo, &fakeRegistry{facility: testFacility()})

	resp, err := uc.Execute(context.Background(), dateRangeRequest())

	require.NoError(t, err)
	assert.Equal(t, StatusCommitted, resp.Status)
	assert.NotEmpty(t, resp.Reference)
	assert.Equal(t, []int64{1, 2, 3, 4}, resp.BookingIDs)
	assert.False(t, resp.RequiresApproval)
	require.NotNil(t, resp.Breakdown)
	assert.Len(t, resp.Clean, 4)
	assert.Empty(t, resp.Conflicted)

	// Все вхождения одного запроса делят общий Reference и статус confirmed
	require.Len(t, repo.createBatchCalls, 1)
	created := repo.createBatchCalls[0]
	require.Len(t, created, 4)
	for _, b := range created {
		assert.Equal(t, created[0].Reference, b.Reference)
		assert.Equal(t, domain.StatusConfirmed, b.Status)
		assert.Equal(t, domain.ActorPrivatePerson, b.ActorType)
		assert.Positive(t, b.Price)
	}
}

func TestExecute_ApprovalRequiredCreatesPending(t *testing.T) {
	repo := &fakeBookingRepo{
		GetByFacilityWithFilterFunc: emptySnapshot,
		CreateBatchFunc:             sequentialIDs,
	}
	uc := newTestUseCase(repo, &fakeRegistry{facility: testFacility()})

	req := dateRangeRequest()
	req.ActorType = "lag-foreninger"

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, StatusCommitted, resp.Status)
	assert.True(t, resp.RequiresApproval)

	for _, b := range repo.createBatchCalls[0] {
		assert.Equal(t, domain.StatusPending, b.Status)
		assert.True(t, b.RequiresApproval)
	}
}

func TestExecute_PartialConflict(t *testing.T) {
	// Третий день диапазона занят существующим бронированием той же зоны
	competing := &domain.Booking{
		ID:        500,
		ZoneID:    2,
		StartTime: time.Date(2026, 9, 10, 11, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 10, 13, 0, 0, 0, time.UTC),
		Status:    domain.StatusConfirmed,
	}
	repo := &fakeBookingRepo{
		GetByFacilityWithFilterFunc: func(ctx context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error) {
			return []*domain.Booking{competing}, nil
		},
		CreateBatchFunc: sequentialIDs,
	}
	uc := newTestUseCase(repo, &fakeRegistry{facility: testFacility()})

	resp, err := uc.Execute(context.Background(), dateRangeRequest())

	require.NoError(t, err)
	assert.Equal(t, StatusPartial, resp.Status)
	assert.Len(t, resp.Clean, 3)
	require.Len(t, resp.Conflicted, 1)

	conflicted := resp.Conflicted[0]
	assert.Equal(t, time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC), conflicted.Occurrence.StartTime)
	assert.Equal(t, time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC), conflicted.Occurrence.EndTime)
	assert.Equal(t, int64(500), conflicted.BookingID)
	assert.Equal(t, "same-zone", conflicted.Type)

	// Ничего не создано: клиент сам решает, бронировать ли чистое подмножество
	assert.Empty(t, repo.createBatchCalls)
	assert.Empty(t, resp.BookingIDs)
}

func TestExecute_AncestorConflictRejectsOneTime(t *testing.T) {
	// Бронь главной зоны блокирует подзону
	competing := &domain.Booking{
		ID:        600,
		ZoneID:    1,
		StartTime: time.Date(2026, 9, 8, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 8, 12, 0, 0, 0, time.UTC),
		Status:    domain.StatusPending,
	}
	repo := &fakeBookingRepo{
		GetByFacilityWithFilterFunc: func(ctx context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error) {
			return []*domain.Booking{competing}, nil
		},
		CreateBatchFunc: sequentialIDs,
	}
	uc := newTestUseCase(repo, &fakeRegistry{facility: testFacility()})

	req := dateRangeRequest()
	req.Timing = Timing{
		OneTime: &OneTimeSlot{
			Date: time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
			Slot: "10:00-12:00",
		},
	}

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, StatusRejected, resp.Status)
	assert.NotEmpty(t, resp.Reason)
	require.Len(t, resp.Conflicted, 1)
	assert.Equal(t, "ancestor", resp.Conflicted[0].Type)
	assert.Empty(t, repo.createBatchCalls)
}

func TestExecute_ConcurrentConflictRevalidates(t *testing.T) {
	// Первый снимок чистый, вставка падает на exclusion-ограничении,
	// повторный снимок уже видит конкурирующее бронирование
	competing := &domain.Booking{
		ID:        700,
		ZoneID:    2,
		StartTime: time.Date(2026, 9, 8, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 8, 12, 0, 0, 0, time.UTC),
		Status:    domain.StatusConfirmed,
	}
	repo := &fakeBookingRepo{}
	repo.GetByFacilityWithFilterFunc = func(ctx context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error) {
		if repo.snapshotCalls == 1 {
			return nil, nil
		}
		return []*domain.Booking{competing}, nil
	}
	repo.CreateBatchFunc = func(ctx context.Context, bookings []*domain.Booking) ([]*domain.Booking, error) {
		return nil, bookingRepo.ErrConcurrentConflict
	}
	uc := newTestUseCase(repo, &fakeRegistry{facility: testFacility()})

	resp, err := uc.Execute(context.Background(), dateRangeRequest())

	require.NoError(t, err)
	assert.Equal(t, StatusPartial, resp.Status)
	assert.Len(t, resp.Clean, 3)
	require.Len(t, resp.Conflicted, 1)
	assert.Equal(t, int64(700), resp.Conflicted[0].BookingID)
	assert.Equal(t, 2, repo.snapshotCalls)
	// Повторной попытки вставки нет
	assert.Len(t, repo.createBatchCalls, 1)
}

func TestExecute_ConcurrentConflictVanished(t *testing.T) {
	// Конкурент успел зафиксироваться и отмениться: повторный снимок чист,
	// но вставка не повторяется - клиенту предлагается повторить запрос
	repo := &fakeBookingRepo{
		GetByFacilityWithFilterFunc: emptySnapshot,
		CreateBatchFunc: func(ctx context.Context, bookings []*domain.Booking) ([]*domain.Booking, error) {
			return nil, bookingRepo.ErrConcurrentConflict
		},
	}
	uc := newTestUseCase(repo, &fakeRegistry{facility: testFacility()})

	resp, err := uc.Execute(context.Background(), dateRangeRequest())

	require.NoError(t, err)
	assert.Equal(t, StatusRejected, resp.Status)
	assert.Contains(t, resp.Reason, "retry")
	assert.Len(t, repo.createBatchCalls, 1)
}

func TestExecute_RecurrenceTruncationWarning(t *testing.T) {
	repo := &fakeBookingRepo{
		GetByFacilityWithFilterFunc: emptySnapshot,
		CreateBatchFunc:             sequentialIDs,
	}
	uc := newTestUseCase(repo, &fakeRegistry{facility: testFacility()})

	count := 52
	req := dateRangeRequest()
	req.Timing = Timing{
		Recurring: &domain.RecurrencePattern{
			Frequency:       domain.FrequencyWeekly,
			Interval:        1,
			Weekdays:        []time.Weekday{time.Tuesday},
			TimeSlots:       []string{"10:00-12:00"},
			StartDate:       time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
			OccurrenceCount: &count,
		},
	}

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, StatusCommitted, resp.Status)
	assert.Contains(t, resp.Warnings, WarningRecurrenceTruncated)
	assert.Less(t, len(resp.BookingIDs), count)
}

func TestExecute_ValidationErrors(t *testing.T) {
	repo := &fakeBookingRepo{
		GetByFacilityWithFilterFunc: emptySnapshot,
		CreateBatchFunc:             sequentialIDs,
	}
	uc := newTestUseCase(repo, &fakeRegistry{facility: testFacility()})

	tests := []struct {
		name    string
		mutate  func(req *Request)
		wantErr error
	}{
		{
			name:    "missing purpose",
			mutate:  func(req *Request) { req.Purpose = "" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown actor type",
			mutate:  func(req *Request) { req.ActorType = "goblin" },
			wantErr: ErrInvalidInput,
		},
		{
			name: "two timing variants",
			mutate: func(req *Request) {
				req.Timing.OneTime = &OneTimeSlot{Date: testNow, Slot: "10:00-12:00"}
			},
			wantErr: ErrInvalidTiming,
		},
		{
			name: "no timing variant",
			mutate: func(req *Request) {
				req.Timing = Timing{}
			},
			wantErr: ErrInvalidTiming,
		},
		{
			name: "booking in the past",
			mutate: func(req *Request) {
				req.Timing = Timing{
					OneTime: &OneTimeSlot{
						Date: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
						Slot: "10:00-12:00",
					},
				}
			},
			wantErr: ErrDateInPast,
		},
		{
			name:    "unknown zone",
			mutate:  func(req *Request) { req.ZoneID = 99 },
			wantErr: ErrZoneNotFound,
		},
		{
			name: "malformed slot label",
			mutate: func(req *Request) {
				req.Timing = Timing{
					OneTime: &OneTimeSlot{
						Date: time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
						Slot: "10:00",
					},
				}
			},
			wantErr: ErrMalformedTimeSlot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dateRangeRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_ZoneRules(t *testing.T) {
	restricted := testZones()
	restricted[1].Rules = domain.BookingRules{
		MinDurationHours:   1,
		MaxDurationHours:   2,
		AllowedTimeSlots:   []string{"10:00-12:00", "18:00-20:00"},
		AdvanceBookingDays: 14,
	}

	newUC := func(repo *fakeBookingRepo) *UseCase {
		uc := NewUseCase(repo, &fakeZoneService{zones: restricted}, &fakeRegistry{facility: testFacility()}, &fakeTxManager{}, noopLogger{})
		uc.timeProvider = &fixedTimeProvider{now: testNow}
		return uc
	}

	t.Run("slot outside allowed list", func(t *testing.T) {
		repo := &fakeBookingRepo{GetByFacilityWithFilterFunc: emptySnapshot, CreateBatchFunc: sequentialIDs}
		req := dateRangeRequest()
		req.Timing.DateRange.Slot = "08:00-10:00"

		_, err := newUC(repo).Execute(context.Background(), req)

		assert.ErrorIs(t, err, ErrSlotNotAllowed)
	})

	t.Run("beyond advance booking horizon", func(t *testing.T) {
		repo := &fakeBookingRepo{GetByFacilityWithFilterFunc: emptySnapshot, CreateBatchFunc: sequentialIDs}
		req := dateRangeRequest()
		req.Timing.DateRange.StartDate = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		req.Timing.DateRange.EndDate = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

		_, err := newUC(repo).Execute(context.Background(), req)

		assert.ErrorIs(t, err, ErrDateTooFarInFuture)
	})

	t.Run("allowed slot within horizon passes", func(t *testing.T) {
		repo := &fakeBookingRepo{GetByFacilityWithFilterFunc: emptySnapshot, CreateBatchFunc: sequentialIDs}
		req := dateRangeRequest()
		req.Timing.DateRange.EndDate = req.Timing.DateRange.StartDate

		resp, err := newUC(repo).Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, StatusCommitted, resp.Status)
	})
}

func TestExecute_RegistryOutageDegradesToZeroSurcharges(t *testing.T) {
	repo := &fakeBookingRepo{
		GetByFacilityWithFilterFunc: emptySnapshot,
		CreateBatchFunc:             sequentialIDs,
	}
	uc := newTestUseCase(repo, &fakeRegistry{err: facilityregistry.ErrServiceDegraded})

	// Вечерний слот: при живом реестре здесь была бы вечерняя наценка
	req := dateRangeRequest()
	req.Timing.DateRange.Slot = "18:00-20:00"

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, StatusCommitted, resp.Status)
	assert.Len(t, resp.BookingIDs, 4)

	// Недоступный реестр означает нулевые наценки, а не отказ
	require.NotNil(t, resp.Breakdown)
	for _, line := range resp.Breakdown.Lines {
		assert.NotEqual(t, domain.LineKindSurcharge, line.Kind)
	}
}

func TestExecute_FacilityNotFound(t *testing.T) {
	repo := &fakeBookingRepo{GetByFacilityWithFilterFunc: emptySnapshot, CreateBatchFunc: sequentialIDs}
	uc := newTestUseCase(repo, &fakeRegistry{err: facilityregistry.ErrFacilityNotFound})

	_, err := uc.Execute(context.Background(), dateRangeRequest())

	assert.ErrorIs(t, err, ErrFacilityNotFound)
}
