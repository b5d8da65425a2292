package domain

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusRejected  BookingStatus = "rejected"
)

// Booking represents one persisted booking occurrence in the system.
// Occurrences created from a single request share the same Reference.
type Booking struct {
	ID         int64
	Reference  string // UUID grouping occurrences of a single booking request
	FacilityID int64
	ZoneID     int64
	UserID     int64
	ActorType  ActorType

	StartTime time.Time
	EndTime   time.Time
	Status    BookingStatus

	Purpose       string
	AttendeeCount int

	// Denormalized pricing data for history
	Price            float64
	RequiresApproval bool

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BlocksSlot returns true if the booking participates in conflict checks.
// Cancelled and rejected bookings never conflict with new requests.
func (b *Booking) BlocksSlot() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// FacilityBookingsFilter фильтр для получения бронирований объекта
type FacilityBookingsFilter struct {
	FacilityID      int64          // Обязательный параметр
	ZoneIDs         []int64        // Фильтр по зонам (опционально, если пусто - все зоны)
	StartTime       *time.Time     // Начало периода (опционально)
	EndTime         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые и отклонённые бронирования
}

// BookingOccurrence is one concrete (zone, start, end) instance derived from a
// one-time request or from expanding a recurrence pattern. It is the unit
// conflict checking and pricing operate on and is never persisted directly.
type BookingOccurrence struct {
	ZoneID int64
	Start  time.Time
	End    time.Time
}

// DurationHours returns the occurrence duration in hours (may be fractional)
func (o BookingOccurrence) DurationHours() float64 {
	return o.End.Sub(o.Start).Hours()
}

// Overlaps reports whether two half-open intervals overlap.
// Touching endpoints (one ends exactly when the other starts) do not overlap.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && startB.Before(endA)
}
