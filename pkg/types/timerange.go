package types

import (
	"fmt"
	"strings"
	"time"
)

// TimeRange временной слот внутри одного дня, например "18:00-20:00"
type TimeRange struct {
	Start TimeString
	End   TimeString
}

// NewTimeRangeFromLabel парсит метку слота "HH:MM-HH:MM"
// Конец слота должен быть строго позже начала
func NewTimeRangeFromLabel(label string) (TimeRange, error) {
	parts := strings.Split(label, "-")
	if len(parts) != 2 {
		return TimeRange{}, fmt.Errorf("%w: %q, expected HH:MM-HH:MM", ErrInvalidTimeString, label)
	}

	start, err := NewTimeStringFromString(parts[0])
	if err != nil {
		return TimeRange{}, err
	}

	end, err := NewTimeStringFromString(parts[1])
	if err != nil {
		return TimeRange{}, err
	}

	if !start.IsBefore(end) {
		return TimeRange{}, fmt.Errorf("%w: %q, end must be after start", ErrInvalidTimeString, label)
	}

	return TimeRange{Start: start, End: end}, nil
}

// Label возвращает метку слота в формате "HH:MM-HH:MM"
func (r TimeRange) Label() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// DurationMinutes возвращает длительность слота в минутах
func (r TimeRange) DurationMinutes() int {
	start, err := r.Start.Minutes()
	if err != nil {
		return 0
	}
	end, err := r.End.Minutes()
	if err != nil {
		return 0
	}
	return end - start
}

// Resolve резолвит слот в абсолютную пару начало/конец на указанную дату
// Сравнение пересечений всегда выполняется на абсолютных интервалах, не на метках
func (r TimeRange) Resolve(date time.Time) (start, end time.Time, err error) {
	start, err = r.Start.ToDateTime(date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = r.End.ToDateTime(date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
