package update_zone_rules

import (
	"github.com/m04kA/MFB-BookingService/internal/domain"
)

// UpdateZoneRulesRequest HTTP request model
type UpdateZoneRulesRequest struct {
	MinDurationHours   int      `json:"minDurationHours"`
	MaxDurationHours   int      `json:"maxDurationHours"`
	AllowedTimeSlots   []string `json:"allowedTimeSlots"`
	AdvanceBookingDays int      `json:"advanceBookingDays"`
	CancellationHours  int      `json:"cancellationHours"`
}

// ToDomainRules конвертирует HTTP запрос в domain правила
func (r *UpdateZoneRulesRequest) ToDomainRules() domain.BookingRules {
	return domain.BookingRules{
		MinDurationHours:   r.MinDurationHours,
		MaxDurationHours:   r.MaxDurationHours,
		AllowedTimeSlots:   r.AllowedTimeSlots,
		AdvanceBookingDays: r.AdvanceBookingDays,
		CancellationHours:  r.CancellationHours,
	}
}
