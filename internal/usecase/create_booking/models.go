package create_booking

import (
	"time"

	"github.com/m04kA/MFB-BookingService/internal/conflict"
	"github.com/m04kA/MFB-BookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID        int64  // ID пользователя
	FacilityID    int64  // ID объекта
	ZoneID        int64  // ID зоны
	ActorType     string // Тип заявителя (принимаются и legacy-алиасы)
	Purpose       string // Назначение бронирования
	AttendeeCount int    // Ожидаемое число участников
	Timing        Timing // Временная схема бронирования
}

// Timing временная схема запроса.
// Ровно одно из полей должно быть заполнено
type Timing struct {
	OneTime   *OneTimeSlot              // Разовое бронирование
	DateRange *DateRangeSlot            // Один и тот же слот каждый день диапазона
	Recurring *domain.RecurrencePattern // Повторяющееся бронирование
}

// OneTimeSlot разовый слот: дата + метка интервала "HH:MM-HH:MM"
type OneTimeSlot struct {
	Date time.Time
	Slot string
}

// DateRangeSlot слот на каждый день диапазона дат (границы включительно)
type DateRangeSlot struct {
	StartDate time.Time
	EndDate   time.Time
	Slot      string
}

// Status итоговый статус обработки запроса
type Status string

const (
	// StatusCommitted все вхождения свободны, бронирования созданы
	StatusCommitted Status = "committed"
	// StatusPartial часть вхождений конфликтует, ничего не создано -
	// клиент решает, бронировать ли чистое подмножество
	StatusPartial Status = "partial"
	// StatusRejected ни одного свободного вхождения
	StatusRejected Status = "rejected"
)

// WarningRecurrenceTruncated предупреждение: разворачивание повторения
// обрезано жёстким потолком горизонта бронирования
const WarningRecurrenceTruncated = "recurrence truncated to the booking horizon"

// OccurrenceView одно конкретное вхождение в ответе
type OccurrenceView struct {
	ZoneID    int64
	StartTime time.Time
	EndTime   time.Time
}

// ConflictView конфликтующее вхождение с указанием причины
type ConflictView struct {
	Occurrence OccurrenceView
	BookingID  int64  // ID существующего бронирования
	Type       string // same-zone | ancestor | descendant
}

// Response дискриминированный результат обработки запроса.
// Поля заполняются в зависимости от Status:
//   - committed: Reference, BookingIDs, Breakdown, Clean, RequiresApproval
//   - partial:   Clean, Conflicted
//   - rejected:  Conflicted (может быть пустым), Reason
type Response struct {
	Status Status

	Reference        string  // UUID, общий для всех созданных вхождений
	BookingIDs       []int64 // ID созданных бронирований
	RequiresApproval bool    // Бронирование создано в статусе pending

	Breakdown *domain.PriceBreakdown

	Clean      []OccurrenceView
	Conflicted []ConflictView

	Reason   string
	Warnings []string
}

// occurrenceView конвертирует доменное вхождение в view
func occurrenceView(occ domain.BookingOccurrence) OccurrenceView {
	return OccurrenceView{
		ZoneID:    occ.ZoneID,
		StartTime: occ.Start,
		EndTime:   occ.End,
	}
}

// occurrenceViews конвертирует список доменных вхождений
func occurrenceViews(occs []domain.BookingOccurrence) []OccurrenceView {
	views := make([]OccurrenceView, 0, len(occs))
	for _, occ := range occs {
		views = append(views, occurrenceView(occ))
	}
	return views
}

// conflictViews конвертирует результаты проверки конфликтов
func conflictViews(results []conflict.Result) []ConflictView {
	views := make([]ConflictView, 0, len(results))
	for _, res := range results {
		if res.Conflict == nil {
			continue
		}
		views = append(views, ConflictView{
			Occurrence: occurrenceView(res.Occurrence),
			BookingID:  res.Conflict.BookingID,
			Type:       string(res.Conflict.Type),
		})
	}
	return views
}
