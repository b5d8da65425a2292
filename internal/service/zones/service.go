package zones

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/m04kA/MFB-BookingService/internal/domain"
	zoneRepo "github.com/m04kA/MFB-BookingService/internal/infra/storage/zone"
	"github.com/m04kA/MFB-BookingService/pkg/types"
)

// Зоны меняются редко - снимок зон объекта кэшируется
const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// Service сервис для работы с зонами объектов
type Service struct {
	zoneRepo ZoneRepository
	cache    *gocache.Cache
	logger   Logger
}

// NewService создает новый экземпляр сервиса зон
func NewService(zoneRepo ZoneRepository, logger Logger) *Service {
	return &Service{
		zoneRepo: zoneRepo,
		cache:    gocache.New(cacheTTL, cacheCleanup),
		logger:   logger,
	}
}

// GetFacilityZones возвращает снимок всех зон объекта.
// Читает сквозь кэш: зоны read-mostly, актуальность в пределах TTL достаточна
// для всех читающих сценариев. Проверка конфликтов при создании бронирования
// опирается не на этот снимок, а на транзакционный снимок бронирований
func (s *Service) GetFacilityZones(ctx context.Context, facilityID int64) ([]domain.Zone, error) {
	cacheKey := cacheKeyForFacility(facilityID)

	if cached, found := s.cache.Get(cacheKey); found {
		return cached.([]domain.Zone), nil
	}

	zoneList, err := s.zoneRepo.GetByFacility(ctx, facilityID)
	if err != nil {
		s.logger.Error("GetFacilityZones: repository error for facility=%d: %v", facilityID, err)
		return nil, fmt.Errorf("%w: GetFacilityZones - repository error: %v", ErrInternal, err)
	}

	if len(zoneList) == 0 {
		s.logger.Warn("GetFacilityZones: facility=%d has no zones", facilityID)
		return nil, ErrFacilityHasNoZones
	}

	s.cache.Set(cacheKey, zoneList, gocache.DefaultExpiration)
	s.logger.Info("GetFacilityZones: fetched %d zones for facility=%d", len(zoneList), facilityID)

	return zoneList, nil
}

// GetZone возвращает одну зону по ID
func (s *Service) GetZone(ctx context.Context, zoneID int64) (*domain.Zone, error) {
	z, err := s.zoneRepo.GetByID(ctx, zoneID)
	if err != nil {
		if errors.Is(err, zoneRepo.ErrZoneNotFound) {
			s.logger.Warn("GetZone: zone id=%d not found", zoneID)
			return nil, ErrZoneNotFound
		}
		s.logger.Error("GetZone: repository error for zone id=%d: %v", zoneID, err)
		return nil, fmt.Errorf("%w: GetZone - repository error: %v", ErrInternal, err)
	}

	return z, nil
}

// UpdateRules обновляет правила бронирования зоны.
// Доступно администраторам объекта. Кэш снимка зон инвалидируется сразу
func (s *Service) UpdateRules(ctx context.Context, facilityID, zoneID int64, rules domain.BookingRules) error {
	s.logger.Info("UpdateRules: updating rules for zone=%d facility=%d", zoneID, facilityID)

	if err := validateRules(rules); err != nil {
		s.logger.Warn("UpdateRules: validation failed for zone=%d: %v", zoneID, err)
		return err
	}

	z, err := s.zoneRepo.GetByID(ctx, zoneID)
	if err != nil {
		if errors.Is(err, zoneRepo.ErrZoneNotFound) {
			s.logger.Warn("UpdateRules: zone id=%d not found", zoneID)
			return ErrZoneNotFound
		}
		s.logger.Error("UpdateRules: repository error for zone id=%d: %v", zoneID, err)
		return fmt.Errorf("%w: UpdateRules - repository error: %v", ErrInternal, err)
	}

	if z.FacilityID != facilityID {
		s.logger.Warn("UpdateRules: zone id=%d does not belong to facility=%d", zoneID, facilityID)
		return ErrZoneNotFound
	}

	if err := s.zoneRepo.UpdateRules(ctx, zoneID, rules); err != nil {
		s.logger.Error("UpdateRules: repository error for zone id=%d: %v", zoneID, err)
		return fmt.Errorf("%w: UpdateRules - repository error: %v", ErrInternal, err)
	}

	s.cache.Delete(cacheKeyForFacility(facilityID))
	s.logger.Info("UpdateRules: successfully updated rules for zone=%d", zoneID)

	return nil
}

// validateRules проверяет консистентность правил бронирования
func validateRules(rules domain.BookingRules) error {
	if rules.MinDurationHours < 0 || rules.MaxDurationHours < 0 {
		return fmt.Errorf("%w: durations must be non-negative", ErrInvalidRules)
	}

	if rules.MaxDurationHours > 0 && rules.MinDurationHours > rules.MaxDurationHours {
		return fmt.Errorf("%w: minDurationHours exceeds maxDurationHours", ErrInvalidRules)
	}

	if rules.AdvanceBookingDays < 0 {
		return fmt.Errorf("%w: advanceBookingDays must be non-negative", ErrInvalidRules)
	}

	if rules.CancellationHours < 0 {
		return fmt.Errorf("%w: cancellationHours must be non-negative", ErrInvalidRules)
	}

	for _, label := range rules.AllowedTimeSlots {
		if _, err := types.NewTimeRangeFromLabel(label); err != nil {
			return fmt.Errorf("%w: bad time slot %q: %v", ErrInvalidRules, label, err)
		}
	}

	return nil
}

func cacheKeyForFacility(facilityID int64) string {
	return fmt.Sprintf("facility-zones:%d", facilityID)
}
