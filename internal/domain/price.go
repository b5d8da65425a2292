package domain

import "time"

// PriceLineKind classifies a breakdown line
type PriceLineKind string

const (
	LineKindBase      PriceLineKind = "base"
	LineKindDiscount  PriceLineKind = "discount"
	LineKindSurcharge PriceLineKind = "surcharge"
	LineKindTax       PriceLineKind = "tax"
)

// PriceLine is one line of a price breakdown. Discount amounts are negative.
type PriceLine struct {
	Label  string
	Amount float64
	Kind   PriceLineKind
}

// OccurrencePrice is the independently computed breakdown of one occurrence.
// Per-occurrence breakdowns stay inspectable after aggregation.
type OccurrencePrice struct {
	Occurrence BookingOccurrence
	Lines      []PriceLine
	Total      float64
}

// PriceBreakdown is the ordered, reproducible price breakdown of a booking
// request. Identical inputs always produce an identical breakdown.
type PriceBreakdown struct {
	Lines         []PriceLine
	PerOccurrence []OccurrencePrice
	FinalPrice    float64

	// RequiresApproval is computed alongside pricing: certain actor types
	// and large bookings must pass through the approval workflow. It has
	// no price effect.
	RequiresApproval bool
}

// TimeIsEvening reports whether t falls at or after the evening band start
func TimeIsEvening(t time.Time, eveningStartHour int) bool {
	return t.Hour() >= eveningStartHour
}

// TimeIsWeekend reports whether t falls on Saturday or Sunday
func TimeIsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
