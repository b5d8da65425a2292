package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/MFB-BookingService/internal/domain"
	"github.com/m04kA/MFB-BookingService/internal/recurrence"
	"github.com/m04kA/MFB-BookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.FacilityID <= 0 {
		return fmt.Errorf("%w: facilityID must be positive", ErrInvalidInput)
	}

	if req.ZoneID <= 0 {
		return fmt.Errorf("%w: zoneID must be positive", ErrInvalidInput)
	}

	if req.ActorType == "" {
		return fmt.Errorf("%w: actorType is required", ErrInvalidInput)
	}

	if req.Purpose == "" {
		return fmt.Errorf("%w: purpose is required", ErrInvalidInput)
	}

	if len(req.Purpose) > domain.MaxPurposeLength {
		return fmt.Errorf("%w: purpose exceeds %d characters", ErrInvalidInput, domain.MaxPurposeLength)
	}

	if req.AttendeeCount < domain.MinAttendeeCount {
		return fmt.Errorf("%w: attendeeCount must be at least %d", ErrInvalidInput, domain.MinAttendeeCount)
	}

	return validateTiming(&req.Timing)
}

// validateTiming проверяет, что задан ровно один вариант временной схемы
func validateTiming(t *Timing) error {
	set := 0
	if t.OneTime != nil {
		set++
	}
	if t.DateRange != nil {
		set++
	}
	if t.Recurring != nil {
		set++
	}
	if set != 1 {
		return ErrInvalidTiming
	}

	if t.OneTime != nil && t.OneTime.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if t.DateRange != nil {
		if t.DateRange.StartDate.IsZero() || t.DateRange.EndDate.IsZero() {
			return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
		}
		if t.DateRange.EndDate.Before(t.DateRange.StartDate) {
			return fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
		}
	}

	return nil
}

// buildOccurrences нормализует временную схему в список конкретных вхождений.
// Разовое бронирование и диапазон дат приводятся к той же форме, что и
// развёрнутое повторение, чтобы дальше весь конвейер работал единообразно
func buildOccurrences(req *Request) ([]domain.BookingOccurrence, bool, error) {
	switch {
	case req.Timing.OneTime != nil:
		occ, err := resolveSlot(req.Timing.OneTime.Slot, req.Timing.OneTime.Date, req.ZoneID)
		if err != nil {
			return nil, false, err
		}
		return []domain.BookingOccurrence{occ}, false, nil

	case req.Timing.DateRange != nil:
		dr := req.Timing.DateRange
		var occurrences []domain.BookingOccurrence
		for date := dateOnly(dr.StartDate); !date.After(dateOnly(dr.EndDate)); date = date.AddDate(0, 0, 1) {
			occ, err := resolveSlot(dr.Slot, date, req.ZoneID)
			if err != nil {
				return nil, false, err
			}
			occurrences = append(occurrences, occ)
		}
		return occurrences, false, nil

	case req.Timing.Recurring != nil:
		expansion, err := recurrence.Expand(*req.Timing.Recurring, req.ZoneID, 0)
		if err != nil {
			switch {
			case errors.Is(err, recurrence.ErrInvalidRecurrence):
				return nil, false, fmt.Errorf("%w: %v", ErrInvalidRecurrence, err)
			case errors.Is(err, recurrence.ErrMalformedTimeSlot):
				return nil, false, fmt.Errorf("%w: %v", ErrMalformedTimeSlot, err)
			default:
				return nil, false, fmt.Errorf("%w: failed to expand recurrence: %v", ErrInternal, err)
			}
		}
		return expansion.Occurrences, expansion.Truncated, nil

	default:
		return nil, false, ErrInvalidTiming
	}
}

// resolveSlot превращает метку слота "HH:MM-HH:MM" и дату в конкретное вхождение
func resolveSlot(label string, date time.Time, zoneID int64) (domain.BookingOccurrence, error) {
	slot, err := types.NewTimeRangeFromLabel(label)
	if err != nil {
		return domain.BookingOccurrence{}, fmt.Errorf("%w: %q", ErrMalformedTimeSlot, label)
	}

	start, end, err := slot.Resolve(date)
	if err != nil {
		return domain.BookingOccurrence{}, fmt.Errorf("%w: %q", ErrMalformedTimeSlot, label)
	}

	return domain.BookingOccurrence{ZoneID: zoneID, Start: start, End: end}, nil
}

// validateAgainstRules проверяет вхождения против правил бронирования зоны
func validateAgainstRules(occurrences []domain.BookingOccurrence, rules domain.BookingRules, now time.Time) error {
	if len(occurrences) == 0 {
		return fmt.Errorf("%w: timing produced no occurrences", ErrInvalidInput)
	}

	// Вхождения отсортированы по возрастанию: достаточно проверить границы
	first := occurrences[0]
	if first.Start.Before(now) {
		return ErrDateInPast
	}

	if rules.HasAdvanceBookingLimit() {
		horizon := dateOnly(now).AddDate(0, 0, rules.AdvanceBookingDays+1)
		last := occurrences[len(occurrences)-1]
		if !last.Start.Before(horizon) {
			return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, rules.AdvanceBookingDays)
		}
	}

	for _, occ := range occurrences {
		hours := occ.DurationHours()
		if rules.MinDurationHours > 0 && hours < float64(rules.MinDurationHours) {
			return fmt.Errorf("%w: minimum %d hours", ErrDurationOutOfRange, rules.MinDurationHours)
		}
		if rules.MaxDurationHours > 0 && hours > float64(rules.MaxDurationHours) {
			return fmt.Errorf("%w: maximum %d hours", ErrDurationOutOfRange, rules.MaxDurationHours)
		}
	}

	return nil
}

// validateAllowedSlots проверяет метки слотов запроса против allowedTimeSlots
// зоны. Пустой список разрешённых слотов означает отсутствие ограничения
func validateAllowedSlots(req *Request, rules domain.BookingRules) error {
	if len(rules.AllowedTimeSlots) == 0 {
		return nil
	}

	allowed := make(map[string]bool, len(rules.AllowedTimeSlots))
	for _, label := range rules.AllowedTimeSlots {
		allowed[label] = true
	}

	var labels []string
	switch {
	case req.Timing.OneTime != nil:
		labels = []string{req.Timing.OneTime.Slot}
	case req.Timing.DateRange != nil:
		labels = []string{req.Timing.DateRange.Slot}
	case req.Timing.Recurring != nil:
		labels = req.Timing.Recurring.TimeSlots
	}

	for _, label := range labels {
		if !allowed[label] {
			return fmt.Errorf("%w: %q", ErrSlotNotAllowed, label)
		}
	}

	return nil
}

// dateOnly обнуляет время, оставляя только дату
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
