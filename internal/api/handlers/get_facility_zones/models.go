package get_facility_zones

import (
	"github.com/m04kA/MFB-BookingService/internal/domain"
)

// ZoneListResponse HTTP response model
type ZoneListResponse struct {
	FacilityID int64          `json:"facilityId"`
	Zones      []ZoneResponse `json:"zones"`
	Total      int            `json:"total"`
}

// ZoneResponse одна зона объекта
type ZoneResponse struct {
	ID           int64                `json:"id"`
	FacilityID   int64                `json:"facilityId"`
	Name         string               `json:"name"`
	Capacity     int                  `json:"capacity"`
	PricePerHour float64              `json:"pricePerHour"`
	ParentZoneID *int64               `json:"parentZoneId,omitempty"`
	IsMainZone   bool                 `json:"isMainZone"`
	Rules        BookingRulesResponse `json:"rules"`
}

// BookingRulesResponse правила бронирования зоны
type BookingRulesResponse struct {
	MinDurationHours   int      `json:"minDurationHours"`
	MaxDurationHours   int      `json:"maxDurationHours"`
	AllowedTimeSlots   []string `json:"allowedTimeSlots"`
	AdvanceBookingDays int      `json:"advanceBookingDays"`
	CancellationHours  int      `json:"cancellationHours"`
}

// FromDomainZones конвертирует domain зоны в HTTP response
func FromDomainZones(facilityID int64, zones []domain.Zone) *ZoneListResponse {
	result := make([]ZoneResponse, 0, len(zones))
	for _, z := range zones {
		result = append(result, ZoneResponse{
			ID:           z.ID,
			FacilityID:   z.FacilityID,
			Name:         z.Name,
			Capacity:     z.Capacity,
			PricePerHour: z.PricePerHour,
			ParentZoneID: z.ParentZoneID,
			IsMainZone:   z.IsMainZone,
			Rules: BookingRulesResponse{
				MinDurationHours:   z.Rules.MinDurationHours,
				MaxDurationHours:   z.Rules.MaxDurationHours,
				AllowedTimeSlots:   z.Rules.AllowedTimeSlots,
				AdvanceBookingDays: z.Rules.AdvanceBookingDays,
				CancellationHours:  z.Rules.CancellationHours,
			},
		})
	}

	return &ZoneListResponse{
		FacilityID: facilityID,
		Zones:      result,
		Total:      len(result),
	}
}
