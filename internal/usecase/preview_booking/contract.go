package preview_booking

import (
	"context"
	"time"

	"github.com/m04kA/MFB-BookingService/internal/domain"
	"github.com/m04kA/MFB-BookingService/internal/integrations/facilityregistry"
)

// BookingRepository интерфейс репозитория бронирований (только чтение)
type BookingRepository interface {
	GetByFacilityWithFilter(ctx context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error)
}

// ZoneService интерфейс сервиса зон
type ZoneService interface {
	GetFacilityZones(ctx context.Context, facilityID int64) ([]domain.Zone, error)
}

// FacilityRegistryClient интерфейс клиента реестра объектов
type FacilityRegistryClient interface {
	GetFacilityWithGracefulDegradation(ctx context.Context, facilityID int64) (*facilityregistry.Facility, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
