package domain

// Zone represents a bookable unit of a facility.
// A zone with IsMainZone=true and no parent is the whole-facility node;
// zones referencing a parent are sub-zones. Containment is exactly one
// level deep: sub-zones never have their own children.
type Zone struct {
	ID           int64
	FacilityID   int64
	Name         string
	Capacity     int
	PricePerHour float64
	ParentZoneID *int64
	IsMainZone   bool
	Rules        BookingRules
}

// IsSubZone returns true if the zone is contained within a main zone
func (z *Zone) IsSubZone() bool {
	return z.ParentZoneID != nil
}

// BookingRules booking constraints configured per zone by facility administrators
type BookingRules struct {
	MinDurationHours   int
	MaxDurationHours   int
	AllowedTimeSlots   []string // slot labels "HH:MM-HH:MM"
	AdvanceBookingDays int      // 0 = unlimited
	CancellationHours  int      // minimum notice before start to cancel
}

// HasAdvanceBookingLimit returns true if there is a limit on how far in advance bookings can be made
func (r *BookingRules) HasAdvanceBookingLimit() bool {
	return r.AdvanceBookingDays > 0
}
