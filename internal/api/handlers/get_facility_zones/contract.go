package get_facility_zones

import (
	"context"

	"github.com/m04kA/MFB-BookingService/internal/domain"
)

type ZoneService interface {
	GetFacilityZones(ctx context.Context, facilityID int64) ([]domain.Zone, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
