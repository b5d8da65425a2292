package preview_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/MFB-BookingService/internal/conflict"
	"github.com/m04kA/MFB-BookingService/internal/domain"
	registryClient "github.com/m04kA/MFB-BookingService/internal/integrations/facilityregistry"
	"github.com/m04kA/MFB-BookingService/internal/pricing"
	"github.com/m04kA/MFB-BookingService/internal/zones"
)

// UseCase use case предпросмотра бронирования: тот же конвейер, что и у
// создания, но без транзакции и вставки. Экран "проверьте и подтвердите"
// получает котировку цены и список конфликтов до фактического бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	zoneService  ZoneService
	registry     FacilityRegistryClient
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	zoneService ZoneService,
	registry FacilityRegistryClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		zoneService:  zoneService,
		registry:     registry,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет предпросмотр бронирования.
// Снимок читается без блокировок: результат носит информационный характер,
// финальную проверку конфликтов делает создание бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("PreviewBooking: user=%d, facility=%d, zone=%d, actor=%s",
		req.UserID, req.FacilityID, req.ZoneID, req.ActorType)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("PreviewBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Нормализуем тип заявителя
	actor, err := domain.NormalizeActorType(req.ActorType)
	if err != nil {
		uc.logger.Warn("PreviewBooking: unknown actor type %q", req.ActorType)
		return nil, fmt.Errorf("%w: unknown actor type %q", ErrInvalidInput, req.ActorType)
	}

	// 3. Получаем объект из реестра. При деградации реестра предпросмотр
	// продолжается с нулевыми надбавками
	facility, err := uc.registry.GetFacilityWithGracefulDegradation(ctx, req.FacilityID)
	if err != nil {
		switch {
		case errors.Is(err, registryClient.ErrFacilityNotFound):
			uc.logger.Warn("PreviewBooking: facility id=%d not found", req.FacilityID)
			return nil, ErrFacilityNotFound
		case errors.Is(err, registryClient.ErrServiceDegraded):
			uc.logger.Warn("PreviewBooking: facility registry degraded, using zero surcharges for facility=%d", req.FacilityID)
			facility = registryClient.DegradedFacility(req.FacilityID)
		default:
			uc.logger.Error("PreviewBooking: failed to get facility id=%d: %v", req.FacilityID, err)
			return nil, fmt.Errorf("%w: failed to get facility: %v", ErrInternal, err)
		}
	}

	// 4. Строим иерархию зон объекта
	zoneList, err := uc.zoneService.GetFacilityZones(ctx, req.FacilityID)
	if err != nil {
		uc.logger.Error("PreviewBooking: failed to get zones for facility id=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: failed to get zones: %v", ErrInternal, err)
	}

	hierarchy, err := zones.NewHierarchy(zoneList)
	if err != nil {
		uc.logger.Error("PreviewBooking: invalid zone hierarchy for facility id=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: invalid zone hierarchy: %v", ErrInternal, err)
	}

	zone, err := hierarchy.Zone(req.ZoneID)
	if err != nil {
		uc.logger.Warn("PreviewBooking: zone id=%d not found in facility id=%d", req.ZoneID, req.FacilityID)
		return nil, ErrZoneNotFound
	}

	containment, err := hierarchy.ResolveContainment(req.ZoneID)
	if err != nil {
		return nil, ErrZoneNotFound
	}

	// 5. Проверяем слоты запроса против правил зоны
	if err := validateAllowedSlots(req, zone.Rules); err != nil {
		uc.logger.Warn("PreviewBooking: slot not allowed: %v", err)
		return nil, err
	}

	// 6. Нормализуем временную схему в список вхождений
	occurrences, truncated, err := buildOccurrences(req)
	if err != nil {
		uc.logger.Warn("PreviewBooking: failed to build occurrences: %v", err)
		return nil, err
	}

	var warnings []string
	if truncated {
		warnings = append(warnings, WarningRecurrenceTruncated)
	}

	// 7. Валидация вхождений против правил зоны
	now := uc.timeProvider.Now()
	if err := validateAgainstRules(occurrences, zone.Rules, now); err != nil {
		uc.logger.Warn("PreviewBooking: rules validation failed: %v", err)
		return nil, err
	}

	// 8. Читаем снимок и проверяем конфликты
	windowStart := occurrences[0].Start
	windowEnd := occurrences[len(occurrences)-1].End
	for _, occ := range occurrences {
		if occ.End.After(windowEnd) {
			windowEnd = occ.End
		}
	}

	filter := domain.FacilityBookingsFilter{
		FacilityID: req.FacilityID,
		ZoneIDs:    containment.Related(),
		StartTime:  &windowStart,
		EndTime:    &windowEnd,
	}

	snapshot, err := uc.bookingRepo.GetByFacilityWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("PreviewBooking: failed to fetch snapshot: %v", err)
		return nil, fmt.Errorf("%w: failed to fetch snapshot: %v", ErrInternal, err)
	}

	results, err := conflict.CheckConflicts(hierarchy, occurrences, snapshot)
	if err != nil {
		return nil, fmt.Errorf("%w: conflict check failed: %v", ErrInternal, err)
	}

	clean, conflicted := conflict.Partition(results)
	if len(clean) == 0 {
		uc.logger.Info("PreviewBooking: all %d occurrences conflict", len(occurrences))
		return &Response{
			Status:     StatusRejected,
			Reason:     "all occurrences conflict with existing bookings",
			Conflicted: conflictViews(results),
			Warnings:   warnings,
		}, nil
	}

	// 9. Котировка по чистому подмножеству
	breakdown, err := pricing.Calculate(zone, clean, actor, pricing.Options{
		WeekendSurchargePct: facility.WeekendSurchargePct,
		EveningSurchargePct: facility.EveningSurchargePct,
		EveningStartHour:    facility.EveningStartHour,
		AttendeeCount:       req.AttendeeCount,
	}, now)
	if err != nil {
		return nil, fmt.Errorf("%w: price calculation failed: %v", ErrInternal, err)
	}

	status := StatusAvailable
	if len(conflicted) > 0 {
		status = StatusPartial
	}

	uc.logger.Info("PreviewBooking: status=%s, clean=%d, conflicted=%d, total=%.2f",
		status, len(clean), len(conflicted), breakdown.FinalPrice)

	return &Response{
		Status:           status,
		RequiresApproval: breakdown.RequiresApproval,
		Breakdown:        &breakdown,
		Clean:            occurrenceViews(clean),
		Conflicted:       conflictViews(results),
		Warnings:         warnings,
	}, nil
}
