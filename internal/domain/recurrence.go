package domain

import "time"

// Frequency represents supported recurrence frequencies
type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// RecurrencePattern describes a recurring booking request.
// Exactly one of EndDate and OccurrenceCount must be set; configuring one
// clears the other at the form layer, and expansion rejects patterns where
// both or neither are present.
type RecurrencePattern struct {
	Frequency Frequency
	Interval  int // >= 1, multiplies the frequency step
	Weekdays  []time.Weekday
	TimeSlots []string // slot labels "HH:MM-HH:MM"
	StartDate time.Time

	EndDate         *time.Time
	OccurrenceCount *int
}

// HasEndDate returns true if the pattern terminates on a calendar date
func (p *RecurrencePattern) HasEndDate() bool {
	return p.EndDate != nil
}

// HasOccurrenceCount returns true if the pattern terminates after a fixed number of occurrences
func (p *RecurrencePattern) HasOccurrenceCount() bool {
	return p.OccurrenceCount != nil
}
