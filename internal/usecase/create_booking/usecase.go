package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/MFB-BookingService/internal/conflict"
	"github.com/m04kA/MFB-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/MFB-BookingService/internal/infra/storage/booking"
	registryClient "github.com/m04kA/MFB-BookingService/internal/integrations/facilityregistry"
	"github.com/m04kA/MFB-BookingService/internal/pricing"
	"github.com/m04kA/MFB-BookingService/internal/zones"
	"github.com/m04kA/MFB-BookingService/pkg/txmanager"
)

// UseCase use case для создания бронирования: нормализует временную схему
// в список вхождений, проверяет конфликты по иерархии зон, считает цену
// и создаёт бронирования одной сериализуемой транзакцией
type UseCase struct {
	bookingRepo  BookingRepository
	zoneService  ZoneService
	registry     FacilityRegistryClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	zoneService ZoneService,
	registry FacilityRegistryClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		zoneService:  zoneService,
		registry:     registry,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Конфликт между снимком и вставкой (гонка check-then-act) разрешается
// сериализуемой транзакцией и exclusion-ограничением БД: при их срабатывании
// выполняется ровно один повторный проход валидации по свежему снимку,
// и его результат возвращается клиенту
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, facility=%d, zone=%d, actor=%s",
		req.UserID, req.FacilityID, req.ZoneID, req.ActorType)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Нормализуем тип заявителя (с учётом legacy-алиасов)
	actor, err := domain.NormalizeActorType(req.ActorType)
	if err != nil {
		uc.logger.Warn("CreateBooking: unknown actor type %q", req.ActorType)
		return nil, fmt.Errorf("%w: unknown actor type %q", ErrInvalidInput, req.ActorType)
	}

	// 3. Получаем объект из реестра. При деградации реестра бронирование
	// продолжается с нулевыми надбавками
	facility, err := uc.registry.GetFacilityWithGracefulDegradation(ctx, req.FacilityID)
	if err != nil {
		switch {
		case errors.Is(err, registryClient.ErrFacilityNotFound):
			uc.logger.Warn("CreateBooking: facility id=%d not found", req.FacilityID)
			return nil, ErrFacilityNotFound
		case errors.Is(err, registryClient.ErrServiceDegraded):
			uc.logger.Warn("CreateBooking: facility registry degraded, using zero surcharges for facility=%d", req.FacilityID)
			facility = registryClient.DegradedFacility(req.FacilityID)
		default:
			uc.logger.Error("CreateBooking: failed to get facility id=%d: %v", req.FacilityID, err)
			return nil, fmt.Errorf("%w: failed to get facility: %v", ErrInternal, err)
		}
	}

	// 4. Строим иерархию зон объекта
	zoneList, err := uc.zoneService.GetFacilityZones(ctx, req.FacilityID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get zones for facility id=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: failed to get zones: %v", ErrInternal, err)
	}

	hierarchy, err := zones.NewHierarchy(zoneList)
	if err != nil {
		uc.logger.Error("CreateBooking: invalid zone hierarchy for facility id=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: invalid zone hierarchy: %v", ErrInternal, err)
	}

	zone, err := hierarchy.Zone(req.ZoneID)
	if err != nil {
		uc.logger.Warn("CreateBooking: zone id=%d not found in facility id=%d", req.ZoneID, req.FacilityID)
		return nil, ErrZoneNotFound
	}

	containment, err := hierarchy.ResolveContainment(req.ZoneID)
	if err != nil {
		return nil, ErrZoneNotFound
	}

	// 5. Проверяем слоты запроса против правил зоны
	if err := validateAllowedSlots(req, zone.Rules); err != nil {
		uc.logger.Warn("CreateBooking: slot not allowed: %v", err)
		return nil, err
	}

	// 6. Нормализуем временную схему в список вхождений
	occurrences, truncated, err := buildOccurrences(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: failed to build occurrences: %v", err)
		return nil, err
	}

	var warnings []string
	if truncated {
		uc.logger.Warn("CreateBooking: recurrence truncated for user=%d, zone=%d", req.UserID, req.ZoneID)
		warnings = append(warnings, WarningRecurrenceTruncated)
	}

	// 7. Валидация вхождений против правил зоны
	now := uc.timeProvider.Now()
	if err := validateAgainstRules(occurrences, zone.Rules, now); err != nil {
		uc.logger.Warn("CreateBooking: rules validation failed: %v", err)
		return nil, err
	}

	priceOpts := pricing.Options{
		WeekendSurchargePct: facility.WeekendSurchargePct,
		EveningSurchargePct: facility.EveningSurchargePct,
		EveningStartHour:    facility.EveningStartHour,
		AttendeeCount:       req.AttendeeCount,
	}

	// 8. Проверка конфликтов и вставка в сериализуемой транзакции.
	// Снимок читается с блокировкой FOR UPDATE
	var response *Response

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		snapshot, err := uc.fetchSnapshot(txCtx, req.FacilityID, containment, occurrences)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to fetch snapshot: %v", err)
			return fmt.Errorf("%w: failed to fetch snapshot: %v", ErrInternal, err)
		}

		results, err := conflict.CheckConflicts(hierarchy, occurrences, snapshot)
		if err != nil {
			return fmt.Errorf("%w: conflict check failed: %v", ErrInternal, err)
		}

		clean, conflicted := conflict.Partition(results)
		if len(conflicted) > 0 {
			response = outcomeFromPartition(clean, conflicted, warnings)
			return errConflictsFound
		}

		// Все вхождения свободны: считаем цену и создаём бронирования
		breakdown, err := pricing.Calculate(zone, occurrences, actor, priceOpts, now)
		if err != nil {
			return fmt.Errorf("%w: price calculation failed: %v", ErrInternal, err)
		}

		bookings := buildBookings(req, actor, breakdown)

		created, err := uc.bookingRepo.CreateBatch(txCtx, bookings)
		if err != nil {
			return err
		}

		ids := make([]int64, 0, len(created))
		for _, b := range created {
			ids = append(ids, b.ID)
		}

		response = &Response{
			Status:           StatusCommitted,
			Reference:        created[0].Reference,
			BookingIDs:       ids,
			RequiresApproval: breakdown.RequiresApproval,
			Breakdown:        &breakdown,
			Clean:            occurrenceViews(occurrences),
			Warnings:         warnings,
		}
		return nil
	})

	switch {
	case err == nil:
		uc.logger.Info("CreateBooking: committed %d occurrences, reference=%s, approval=%t",
			len(response.BookingIDs), response.Reference, response.RequiresApproval)
		return response, nil

	case errors.Is(err, errConflictsFound):
		uc.logger.Warn("CreateBooking: %d/%d occurrences conflicted for user=%d",
			len(response.Conflicted), len(occurrences), req.UserID)
		return response, nil

	case errors.Is(err, bookingRepo.ErrConcurrentConflict), errors.Is(err, txmanager.ErrSerialization):
		// Гонка с параллельным запросом: конкурирующее бронирование успело
		// зафиксироваться между снимком и вставкой. Один повторный проход
		// валидации по свежему снимку, без повторной попытки вставки
		uc.logger.Warn("CreateBooking: concurrent conflict detected, re-validating: %v", err)
		return uc.revalidate(ctx, req, hierarchy, containment, occurrences, warnings)

	default:
		return nil, err
	}
}

// revalidate повторный проход валидации по свежему снимку после гонки.
// Вставка не повторяется: результат возвращается клиенту как partial/rejected
func (uc *UseCase) revalidate(
	ctx context.Context,
	req *Request,
	hierarchy *zones.Hierarchy,
	containment zones.Containment,
	occurrences []domain.BookingOccurrence,
	warnings []string,
) (*Response, error) {
	snapshot, err := uc.fetchSnapshot(ctx, req.FacilityID, containment, occurrences)
	if err != nil {
		uc.logger.Error("CreateBooking: re-validation snapshot failed: %v", err)
		return nil, fmt.Errorf("%w: re-validation failed: %v", ErrInternal, err)
	}

	results, err := conflict.CheckConflicts(hierarchy, occurrences, snapshot)
	if err != nil {
		return nil, fmt.Errorf("%w: re-validation failed: %v", ErrInternal, err)
	}

	clean, conflicted := conflict.Partition(results)
	if len(conflicted) == 0 {
		// Конкурирующее бронирование уже не видно в снимке (например, успело
		// отмениться). Вставка не повторяется, клиент повторяет запрос сам
		uc.logger.Warn("CreateBooking: re-validation found no conflicts, asking client to retry")
		return &Response{
			Status:   StatusRejected,
			Reason:   "concurrent modification detected, please retry",
			Clean:    occurrenceViews(clean),
			Warnings: warnings,
		}, nil
	}

	uc.logger.Warn("CreateBooking: re-validation confirmed %d conflicts", len(conflicted))
	return outcomeFromPartition(clean, conflicted, warnings), nil
}

// fetchSnapshot читает активные бронирования по связанным зонам в окне
// запрошенных вхождений. Внутри транзакции репозиторий добавляет FOR UPDATE
func (uc *UseCase) fetchSnapshot(
	ctx context.Context,
	facilityID int64,
	containment zones.Containment,
	occurrences []domain.BookingOccurrence,
) ([]*domain.Booking, error) {
	windowStart := occurrences[0].Start
	windowEnd := occurrences[len(occurrences)-1].End
	for _, occ := range occurrences {
		if occ.End.After(windowEnd) {
			windowEnd = occ.End
		}
	}

	filter := domain.FacilityBookingsFilter{
		FacilityID: facilityID,
		ZoneIDs:    containment.Related(),
		StartTime:  &windowStart,
		EndTime:    &windowEnd,
	}

	return uc.bookingRepo.GetByFacilityWithFilter(ctx, filter)
}

// outcomeFromPartition строит ответ partial / rejected по результатам
// проверки конфликтов
func outcomeFromPartition(clean []domain.BookingOccurrence, conflicted []conflict.Result, warnings []string) *Response {
	if len(clean) == 0 {
		return &Response{
			Status:     StatusRejected,
			Reason:     "all occurrences conflict with existing bookings",
			Conflicted: conflictViews(conflicted),
			Warnings:   warnings,
		}
	}

	return &Response{
		Status:     StatusPartial,
		Clean:      occurrenceViews(clean),
		Conflicted: conflictViews(conflicted),
		Warnings:   warnings,
	}
}

// buildBookings строит строки бронирований по чистым вхождениям.
// Все вхождения одного запроса получают общий Reference. Бронирования,
// требующие согласования, создаются в статусе pending
func buildBookings(req *Request, actor domain.ActorType, breakdown domain.PriceBreakdown) []*domain.Booking {
	status := domain.StatusConfirmed
	if breakdown.RequiresApproval {
		status = domain.StatusPending
	}

	reference := uuid.NewString()

	bookings := make([]*domain.Booking, 0, len(breakdown.PerOccurrence))
	for _, op := range breakdown.PerOccurrence {
		bookings = append(bookings, &domain.Booking{
			Reference:        reference,
			FacilityID:       req.FacilityID,
			ZoneID:           op.Occurrence.ZoneID,
			UserID:           req.UserID,
			ActorType:        actor,
			StartTime:        op.Occurrence.Start,
			EndTime:          op.Occurrence.End,
			Status:           status,
			Purpose:          req.Purpose,
			AttendeeCount:    req.AttendeeCount,
			Price:            op.Total,
			RequiresApproval: breakdown.RequiresApproval,
		})
	}

	return bookings
}
