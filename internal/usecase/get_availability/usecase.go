package get_availability

import (
	"context"
	"fmt"

	"github.com/m04kA/MFB-BookingService/internal/domain"
	"github.com/m04kA/MFB-BookingService/internal/zones"
)

// UseCase use case получения доступности зоны на дату: кандидатные слоты
// из правил зоны, помеченные свободно/занято по снимку бронирований
// с учётом иерархии зон
type UseCase struct {
	bookingRepo  BookingRepository
	zoneService  ZoneService
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, zoneService ZoneService, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		zoneService:  zoneService,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute возвращает слоты зоны на дату с признаком доступности.
// Для дат в прошлом и за горизонтом бронирования возвращается пустой список
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: facility=%d, zone=%d, date=%s",
		req.FacilityID, req.ZoneID, req.Date.Format(domain.DateFormat))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	zoneList, err := uc.zoneService.GetFacilityZones(ctx, req.FacilityID)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get zones for facility id=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: failed to get zones: %v", ErrInternal, err)
	}

	hierarchy, err := zones.NewHierarchy(zoneList)
	if err != nil {
		uc.logger.Error("GetAvailability: invalid zone hierarchy for facility id=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: invalid zone hierarchy: %v", ErrInternal, err)
	}

	zone, err := hierarchy.Zone(req.ZoneID)
	if err != nil {
		uc.logger.Warn("GetAvailability: zone id=%d not found in facility id=%d", req.ZoneID, req.FacilityID)
		return nil, ErrZoneNotFound
	}

	containment, err := hierarchy.ResolveContainment(req.ZoneID)
	if err != nil {
		return nil, ErrZoneNotFound
	}

	response := &Response{
		Date:       req.Date,
		FacilityID: req.FacilityID,
		ZoneID:     req.ZoneID,
		Slots:      []Slot{},
	}

	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) || isBeyondHorizon(req.Date, now, zone.Rules.AdvanceBookingDays) {
		uc.logger.Info("GetAvailability: date %s outside the bookable window",
			req.Date.Format(domain.DateFormat))
		return response, nil
	}

	slots := candidateSlots(zone.Rules, req.Date)
	if len(slots) == 0 {
		return response, nil
	}

	// Снимок активных бронирований по связанным зонам на весь день
	dayStart := slots[0].StartTime
	dayEnd := slots[len(slots)-1].EndTime

	filter := domain.FacilityBookingsFilter{
		FacilityID: req.FacilityID,
		ZoneIDs:    containment.Related(),
		StartTime:  &dayStart,
		EndTime:    &dayEnd,
	}

	existing, err := uc.bookingRepo.GetByFacilityWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	slots = markConflicts(slots, containment, existing)
	slots = filterPastSlots(slots, now)

	available := 0
	for _, slot := range slots {
		if slot.Available {
			available++
		}
	}
	uc.logger.Info("GetAvailability: zone=%d, date=%s: %d/%d slots available",
		req.ZoneID, req.Date.Format(domain.DateFormat), available, len(slots))

	response.Slots = slots
	return response, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.FacilityID <= 0 {
		return fmt.Errorf("%w: facilityID must be positive", ErrInvalidInput)
	}

	if req.ZoneID <= 0 {
		return fmt.Errorf("%w: zoneID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}
