package update_zone_rules

import (
	"context"

	"github.com/m04kA/MFB-BookingService/internal/domain"
	"github.com/m04kA/MFB-BookingService/internal/integrations/facilityregistry"
)

type ZoneService interface {
	UpdateRules(ctx context.Context, facilityID, zoneID int64, rules domain.BookingRules) error
}

type FacilityRegistryClient interface {
	GetFacility(ctx context.Context, facilityID int64) (*facilityregistry.Facility, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
