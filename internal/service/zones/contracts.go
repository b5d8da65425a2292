package zones

import (
	"context"

	"github.com/m04kA/MFB-BookingService/internal/domain"
)

// ZoneRepository интерфейс репозитория зон
type ZoneRepository interface {
	GetByFacility(ctx context.Context, facilityID int64) ([]domain.Zone, error)
	GetByID(ctx context.Context, id int64) (*domain.Zone, error)
	UpdateRules(ctx context.Context, zoneID int64, rules domain.BookingRules) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
