package get_availability

import (
	"sort"
	"time"

	"github.com/m04kA/MFB-BookingService/internal/conflict"
	"github.com/m04kA/MFB-BookingService/internal/domain"
	"github.com/m04kA/MFB-BookingService/internal/zones"
	"github.com/m04kA/MFB-BookingService/pkg/types"
)

// defaultDaySlots сетка слотов по умолчанию для зон без настроенных
// allowedTimeSlots: часовые слоты с 08:00 до 22:00
var defaultDaySlots = []string{
	"08:00-09:00", "09:00-10:00", "10:00-11:00", "11:00-12:00",
	"12:00-13:00", "13:00-14:00", "14:00-15:00", "15:00-16:00",
	"16:00-17:00", "17:00-18:00", "18:00-19:00", "19:00-20:00",
	"20:00-21:00", "21:00-22:00",
}

// candidateSlots возвращает кандидатные слоты зоны на дату в порядке
// возрастания времени начала. Нечитаемые метки из правил зоны пропускаются
func candidateSlots(rules domain.BookingRules, date time.Time) []Slot {
	labels := rules.AllowedTimeSlots
	if len(labels) == 0 {
		labels = defaultDaySlots
	}

	slots := make([]Slot, 0, len(labels))
	seen := make(map[string]bool, len(labels))

	for _, label := range labels {
		slot, err := types.NewTimeRangeFromLabel(label)
		if err != nil {
			continue
		}
		if seen[slot.Label()] {
			continue
		}
		seen[slot.Label()] = true

		start, end, err := slot.Resolve(date)
		if err != nil {
			continue
		}

		slots = append(slots, Slot{
			Label:     slot.Label(),
			StartTime: start,
			EndTime:   end,
			Available: true,
		})
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime.Before(slots[j].StartTime)
	})

	return slots
}

// markConflicts помечает занятые слоты по снимку существующих бронирований.
// Учитывается иерархия зон: бронь родительской зоны или подзоны занимает слот
func markConflicts(slots []Slot, containment zones.Containment, existing []*domain.Booking) []Slot {
	for i := range slots {
		if c := conflict.CheckConflict(containment, slots[i].StartTime, slots[i].EndTime, existing); c != nil {
			slots[i].Available = false
			slots[i].ConflictType = string(c.Type)
		}
	}
	return slots
}

// filterPastSlots убирает слоты, начинающиеся до текущего момента.
// Для будущих дат список не меняется
func filterPastSlots(slots []Slot, now time.Time) []Slot {
	filtered := make([]Slot, 0, len(slots))
	for _, slot := range slots {
		if slot.StartTime.After(now) {
			filtered = append(filtered, slot)
		}
	}
	return filtered
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}

// isBeyondHorizon проверяет, что дата дальше горизонта advanceBookingDays
func isBeyondHorizon(date, now time.Time, advanceBookingDays int) bool {
	if advanceBookingDays <= 0 {
		return false
	}
	horizon := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, advanceBookingDays)
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return dateOnly.After(horizon)
}
