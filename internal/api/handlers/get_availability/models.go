package get_availability

import (
	"time"

	"github.com/m04kA/MFB-BookingService/internal/domain"
	getAvailability "github.com/m04kA/MFB-BookingService/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date       string         `json:"date"` // YYYY-MM-DD
	FacilityID int64          `json:"facilityId"`
	ZoneID     int64          `json:"zoneId"`
	Slots      []SlotResponse `json:"slots"`
}

// SlotResponse один слот дня
type SlotResponse struct {
	Label        string `json:"label"`
	StartTime    string `json:"startTime"` // RFC3339
	EndTime      string `json:"endTime"`   // RFC3339
	Available    bool   `json:"available"`
	ConflictType string `json:"conflictType,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, SlotResponse{
			Label:        slot.Label,
			StartTime:    slot.StartTime.Format(time.RFC3339),
			EndTime:      slot.EndTime.Format(time.RFC3339),
			Available:    slot.Available,
			ConflictType: slot.ConflictType,
		})
	}

	return &AvailabilityResponse{
		Date:       resp.Date.Format(domain.DateFormat),
		FacilityID: resp.FacilityID,
		ZoneID:     resp.ZoneID,
		Slots:      slots,
	}
}
