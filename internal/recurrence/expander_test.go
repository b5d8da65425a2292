package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MFB-BookingService/internal/domain"
)

func intPtr(v int) *int              { return &v }
func timePtr(t time.Time) *time.Time { return &t }

// 2026-09-01 - вторник, удобная опорная дата для weekly-шаблонов
var tuesday = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func weeklyTuesdays(count int) domain.RecurrencePattern {
	return domain.RecurrencePattern{
		Frequency:       domain.FrequencyWeekly,
		Interval:        1,
		Weekdays:        []time.Weekday{time.Tuesday},
		TimeSlots:       []string{"18:00-20:00"},
		StartDate:       tuesday,
		OccurrenceCount: intPtr(count),
	}
}

func TestExpand_WeeklyOccurrenceCount(t *testing.T) {
	// 52 вторника укладываются в год, потолок расширен явно
	exp, err := Expand(weeklyTuesdays(52), 7, 13)

	require.NoError(t, err)
	assert.False(t, exp.Truncated)
	require.Len(t, exp.Occurrences, 52)

	first := exp.Occurrences[0]
	assert.Equal(t, int64(7), first.ZoneID)
	assert.Equal(t, time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC), first.Start)
	assert.Equal(t, time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC), first.End)

	// Каждое следующее вхождение ровно на неделю позже
	for i := 1; i < len(exp.Occurrences); i++ {
		assert.Equal(t, exp.Occurrences[i-1].Start.AddDate(0, 0, 7), exp.Occurrences[i].Start)
	}
}

func TestExpand_DefaultCapTruncatesOccurrenceCount(t *testing.T) {
	// 52 вторника не умещаются в 6-месячный потолок по умолчанию
	exp, err := Expand(weeklyTuesdays(52), 7, 0)

	require.NoError(t, err)
	assert.True(t, exp.Truncated)
	assert.Len(t, exp.Occurrences, 26)
}

func TestExpand_EndDateBeyondCapTruncates(t *testing.T) {
	pattern := domain.RecurrencePattern{
		Frequency: domain.FrequencyWeekly,
		Interval:  1,
		Weekdays:  []time.Weekday{time.Tuesday},
		TimeSlots: []string{"18:00-20:00"},
		StartDate: tuesday,
		EndDate:   timePtr(time.Date(2027, 12, 31, 0, 0, 0, 0, time.UTC)),
	}

	exp, err := Expand(pattern, 7, 0)

	require.NoError(t, err)
	assert.True(t, exp.Truncated)
	assert.Len(t, exp.Occurrences, 26)
}

func TestExpand_EndDateBeyondCapWithoutDroppedOccurrences(t *testing.T) {
	// Весь ряд укладывается до потолка: следующее вхождение было бы
	// только в 2027 году, уже за endDate, поэтому ничего не потеряно
	pattern := domain.RecurrencePattern{
		Frequency: domain.FrequencyMonthly,
		Interval:  12,
		TimeSlots: []string{"10:00-12:00"},
		StartDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		EndDate:   timePtr(time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)),
	}

	exp, err := Expand(pattern, 7, 0)

	require.NoError(t, err)
	assert.False(t, exp.Truncated)
	require.Len(t, exp.Occurrences, 1)
	assert.Equal(t, time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC), exp.Occurrences[0].Start)
}

func TestExpand_BiweeklyIntervalMultiplies(t *testing.T) {
	// biweekly с interval=2 означает каждые 4 недели
	pattern := domain.RecurrencePattern{
		Frequency:       domain.FrequencyBiweekly,
		Interval:        2,
		Weekdays:        []time.Weekday{time.Tuesday},
		TimeSlots:       []string{"18:00-20:00"},
		StartDate:       tuesday,
		OccurrenceCount: intPtr(3),
	}

	exp, err := Expand(pattern, 7, 0)

	require.NoError(t, err)
	require.Len(t, exp.Occurrences, 3)
	assert.Equal(t, time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC), exp.Occurrences[0].Start)
	assert.Equal(t, time.Date(2026, 9, 29, 18, 0, 0, 0, time.UTC), exp.Occurrences[1].Start)
	assert.Equal(t, time.Date(2026, 10, 27, 18, 0, 0, 0, time.UTC), exp.Occurrences[2].Start)
}

func TestExpand_MonthlyClampsShortMonths(t *testing.T) {
	// 31-е число прижимается к последнему дню короткого месяца
	pattern := domain.RecurrencePattern{
		Frequency: domain.FrequencyMonthly,
		Interval:  1,
		TimeSlots: []string{"10:00-12:00"},
		StartDate: time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		EndDate:   timePtr(time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)),
	}

	exp, err := Expand(pattern, 7, 0)

	require.NoError(t, err)
	assert.False(t, exp.Truncated)
	require.Len(t, exp.Occurrences, 4)
	assert.Equal(t, time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC), exp.Occurrences[0].Start)
	assert.Equal(t, time.Date(2026, 2, 28, 10, 0, 0, 0, time.UTC), exp.Occurrences[1].Start)
	assert.Equal(t, time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC), exp.Occurrences[2].Start)
	assert.Equal(t, time.Date(2026, 4, 30, 10, 0, 0, 0, time.UTC), exp.Occurrences[3].Start)
}

func TestExpand_SlotsSortedAndDeduplicated(t *testing.T) {
	pattern := domain.RecurrencePattern{
		Frequency:       domain.FrequencyWeekly,
		Interval:        1,
		Weekdays:        []time.Weekday{time.Tuesday},
		TimeSlots:       []string{"18:00-20:00", "08:00-10:00", "18:00-20:00"},
		StartDate:       tuesday,
		OccurrenceCount: intPtr(4),
	}

	exp, err := Expand(pattern, 7, 0)

	require.NoError(t, err)
	require.Len(t, exp.Occurrences, 4)
	// Вхождения одного дня идут по возрастанию времени начала
	assert.Equal(t, time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC), exp.Occurrences[0].Start)
	assert.Equal(t, time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC), exp.Occurrences[1].Start)
	assert.Equal(t, time.Date(2026, 9, 8, 8, 0, 0, 0, time.UTC), exp.Occurrences[2].Start)
	assert.Equal(t, time.Date(2026, 9, 8, 18, 0, 0, 0, time.UTC), exp.Occurrences[3].Start)
}

func TestExpand_Deterministic(t *testing.T) {
	pattern := weeklyTuesdays(10)

	first, err := Expand(pattern, 7, 0)
	require.NoError(t, err)

	second, err := Expand(pattern, 7, 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExpand_Validation(t *testing.T) {
	base := weeklyTuesdays(4)

	tests := []struct {
		name    string
		mutate  func(p *domain.RecurrencePattern)
		wantErr error
	}{
		{
			name:    "both termination conditions",
			mutate:  func(p *domain.RecurrencePattern) { p.EndDate = timePtr(tuesday.AddDate(0, 1, 0)) },
			wantErr: ErrInvalidRecurrence,
		},
		{
			name:    "neither termination condition",
			mutate:  func(p *domain.RecurrencePattern) { p.OccurrenceCount = nil },
			wantErr: ErrInvalidRecurrence,
		},
		{
			name:    "empty time slots",
			mutate:  func(p *domain.RecurrencePattern) { p.TimeSlots = nil },
			wantErr: ErrInvalidRecurrence,
		},
		{
			name:    "empty weekdays for weekly",
			mutate:  func(p *domain.RecurrencePattern) { p.Weekdays = nil },
			wantErr: ErrInvalidRecurrence,
		},
		{
			name:    "zero interval",
			mutate:  func(p *domain.RecurrencePattern) { p.Interval = 0 },
			wantErr: ErrInvalidRecurrence,
		},
		{
			name: "endDate before start",
			mutate: func(p *domain.RecurrencePattern) {
				p.OccurrenceCount = nil
				p.EndDate = timePtr(tuesday.AddDate(0, 0, -7))
			},
			wantErr: ErrInvalidRecurrence,
		},
		{
			name:    "zero occurrence count",
			mutate:  func(p *domain.RecurrencePattern) { p.OccurrenceCount = intPtr(0) },
			wantErr: ErrInvalidRecurrence,
		},
		{
			name:    "unknown frequency",
			mutate:  func(p *domain.RecurrencePattern) { p.Frequency = "daily" },
			wantErr: ErrInvalidRecurrence,
		},
		{
			name:    "malformed slot label",
			mutate:  func(p *domain.RecurrencePattern) { p.TimeSlots = []string{"18:00"} },
			wantErr: ErrMalformedTimeSlot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern := base
			tt.mutate(&pattern)

			_, err := Expand(pattern, 7, 0)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
