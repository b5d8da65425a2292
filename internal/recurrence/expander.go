package recurrence

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/MFB-BookingService/internal/domain"
	"github.com/m04kA/MFB-BookingService/pkg/types"
)

var (
	// ErrInvalidRecurrence возвращается при некорректном шаблоне повторения:
	// пустые weekdays/timeSlots, оба или ни одного условия завершения,
	// endDate раньше даты начала
	ErrInvalidRecurrence = errors.New("recurrence: invalid recurrence pattern")

	// ErrMalformedTimeSlot возвращается при нечитаемой метке слота
	ErrMalformedTimeSlot = errors.New("recurrence: malformed time slot label")
)

// Expansion результат разворачивания шаблона повторения.
// Occurrences отсортированы по возрастанию времени начала, без дубликатов.
// Truncated=true, если жёсткий потолок обрезал настроенное условие завершения -
// это предупреждение, не ошибка
type Expansion struct {
	Occurrences []domain.BookingOccurrence
	Truncated   bool
}

// Expand разворачивает шаблон повторения в конечную последовательность
// вхождений для зоны. Чистая функция от входов: повторный вызов с теми же
// аргументами даёт тот же результат.
//
// Семантика частот:
//   - weekly: шаг interval недель за цикл
//   - biweekly: сахар для weekly с эффективным шагом 2, interval умножается
//     сверху (biweekly + interval=2 = каждые 4 недели)
//   - monthly: то же число месяца (или ближайший валидный день короткого
//     месяца) каждые interval месяцев; weekdays не участвуют
//
// capMonths ограничивает горизонт разворачивания от даты начала;
// 0 означает политику по умолчанию domain.RecurrenceCapMonths
func Expand(pattern domain.RecurrencePattern, zoneID int64, capMonths int) (Expansion, error) {
	if err := validatePattern(pattern); err != nil {
		return Expansion{}, err
	}

	slots, err := parseSlots(pattern.TimeSlots)
	if err != nil {
		return Expansion{}, err
	}

	if capMonths <= 0 {
		capMonths = domain.RecurrenceCapMonths
	}

	startDate := dateOnly(pattern.StartDate)
	capEnd := startDate.AddDate(0, capMonths, 0)

	var endDate time.Time
	if pattern.HasEndDate() {
		endDate = dateOnly(*pattern.EndDate)
	}

	var dates []time.Time
	var next time.Time
	switch pattern.Frequency {
	case domain.FrequencyWeekly, domain.FrequencyBiweekly:
		dates, next = weeklyDates(pattern, startDate, capEnd)
	case domain.FrequencyMonthly:
		dates, next = monthlyDates(pattern, startDate, capEnd)
	default:
		return Expansion{}, fmt.Errorf("%w: unsupported frequency %q", ErrInvalidRecurrence, pattern.Frequency)
	}

	result := Expansion{Occurrences: make([]domain.BookingOccurrence, 0, len(dates)*len(slots))}

	for _, date := range dates {
		// Условие завершения по дате: вхождения с датой позже endDate не эмитятся
		if pattern.HasEndDate() && date.After(endDate) {
			break
		}

		for _, slot := range slots {
			if pattern.HasOccurrenceCount() && len(result.Occurrences) >= *pattern.OccurrenceCount {
				return result, nil
			}

			start, end, err := slot.Resolve(date)
			if err != nil {
				return Expansion{}, fmt.Errorf("%w: %v", ErrMalformedTimeSlot, err)
			}

			result.Occurrences = append(result.Occurrences, domain.BookingOccurrence{
				ZoneID: zoneID,
				Start:  start,
				End:    end,
			})
		}
	}

	// Сюда попадаем, когда потолок сработал раньше настроенного завершения.
	// Для endDate обрезка фиксируется только если первая дата за потолком
	// всё ещё укладывается в endDate - иначе ни одно вхождение не потеряно
	if pattern.HasOccurrenceCount() && len(result.Occurrences) < *pattern.OccurrenceCount {
		result.Truncated = true
	}
	if pattern.HasEndDate() && !next.IsZero() && !next.After(endDate) {
		result.Truncated = true
	}

	return result, nil
}

// validatePattern проверяет инварианты шаблона до любого разворачивания
func validatePattern(p domain.RecurrencePattern) error {
	if p.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidRecurrence)
	}

	if p.Interval < 1 {
		return fmt.Errorf("%w: interval must be >= 1", ErrInvalidRecurrence)
	}

	if len(p.TimeSlots) == 0 {
		return fmt.Errorf("%w: time slots must not be empty", ErrInvalidRecurrence)
	}

	if p.Frequency != domain.FrequencyMonthly && len(p.Weekdays) == 0 {
		return fmt.Errorf("%w: weekdays must not be empty", ErrInvalidRecurrence)
	}

	if p.HasEndDate() == p.HasOccurrenceCount() {
		return fmt.Errorf("%w: exactly one of endDate and occurrenceCount must be set", ErrInvalidRecurrence)
	}

	if p.HasEndDate() && dateOnly(*p.EndDate).Before(dateOnly(p.StartDate)) {
		return fmt.Errorf("%w: endDate is before the start date", ErrInvalidRecurrence)
	}

	if p.HasOccurrenceCount() && *p.OccurrenceCount < 1 {
		return fmt.Errorf("%w: occurrenceCount must be >= 1", ErrInvalidRecurrence)
	}

	return nil
}

// parseSlots парсит метки слотов, убирает дубликаты и сортирует по времени начала
func parseSlots(labels []string) ([]types.TimeRange, error) {
	seen := make(map[string]bool, len(labels))
	slots := make([]types.TimeRange, 0, len(labels))

	for _, label := range labels {
		if seen[label] {
			continue
		}
		seen[label] = true

		slot, err := types.NewTimeRangeFromLabel(label)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformedTimeSlot, label, err)
		}
		slots = append(slots, slot)
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.IsBefore(slots[j].Start)
	})

	return slots, nil
}

// weeklyDates возвращает даты вхождений для weekly/biweekly в пределах
// [startDate, capEnd] и первую подходящую дату за потолком.
// Номер недели считается от startDate: дни 0-6 это неделя 0, дни 7-13 неделя 1 и т.д.
func weeklyDates(p domain.RecurrencePattern, startDate, capEnd time.Time) ([]time.Time, time.Time) {
	step := p.Interval
	if p.Frequency == domain.FrequencyBiweekly {
		step *= 2
	}

	weekdaySet := make(map[time.Weekday]bool, len(p.Weekdays))
	for _, wd := range p.Weekdays {
		weekdaySet[wd] = true
	}

	var dates []time.Time
	day := 0
	for date := startDate; ; date = date.AddDate(0, 0, 1) {
		week := day / 7
		day++

		if !weekdaySet[date.Weekday()] {
			continue
		}
		if week%step != 0 {
			continue
		}

		if date.After(capEnd) {
			return dates, date
		}

		dates = append(dates, date)
	}
}

// monthlyDates возвращает даты вхождений для monthly в пределах
// [startDate, capEnd] и первую дату за потолком.
// Число месяца берётся из даты начала и прижимается к длине короткого месяца
func monthlyDates(p domain.RecurrencePattern, startDate, capEnd time.Time) ([]time.Time, time.Time) {
	dayOfMonth := startDate.Day()

	var dates []time.Time
	for i := 0; ; i += p.Interval {
		anchor := time.Date(startDate.Year(), startDate.Month(), 1, 0, 0, 0, 0, startDate.Location()).AddDate(0, i, 0)

		day := dayOfMonth
		if last := lastDayOfMonth(anchor); day > last {
			day = last
		}

		date := time.Date(anchor.Year(), anchor.Month(), day, 0, 0, 0, 0, anchor.Location())
		if date.After(capEnd) {
			return dates, date
		}

		dates = append(dates, date)
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func lastDayOfMonth(t time.Time) int {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}
