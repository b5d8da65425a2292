package preview_booking

import (
	"time"

	"github.com/m04kA/MFB-BookingService/internal/conflict"
	"github.com/m04kA/MFB-BookingService/internal/domain"
)

// Request модель запроса на предпросмотр бронирования.
// Та же форма, что и у создания: предпросмотр прогоняет тот же конвейер
// без транзакции и вставки
type Request struct {
	UserID        int64
	FacilityID    int64
	ZoneID        int64
	ActorType     string
	Purpose       string
	AttendeeCount int
	Timing        Timing
}

// Timing временная схема запроса. Ровно одно из полей должно быть заполнено
type Timing struct {
	OneTime   *OneTimeSlot
	DateRange *DateRangeSlot
	Recurring *domain.RecurrencePattern
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

// Status итоговый статус предпросмотра
type Status string

const (
	// StatusAvailable все вхождения свободны, котировка рассчитана
	StatusAvailable Status = "available"
	// StatusPartial часть вхождений конфликтует; котировка рассчитана
	// по чистому подмножеству
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
	BookingID  int64
	Type       string
}

// Response результат предпросмотра: котировка цены и разбиение вхождений
// на свободные и конфликтующие. Ничего не персистится
type Response struct {
	Status Status

	RequiresApproval bool
	Breakdown        *domain.PriceBreakdown

	Clean      []OccurrenceView
	Conflicted []ConflictView

	Reason   string
	Warnings []string
}

func occurrenceView(occ domain.BookingOccurrence) OccurrenceView {
	return OccurrenceView{
		ZoneID:    occ.ZoneID,
		StartTime: occ.Start,
		EndTime:   occ.End,
	}
}

func occurrenceViews(occs []domain.BookingOccurrence) []OccurrenceView {
	views := make([]OccurrenceView, 0, len(occs))
	for _, occ := range occs {
		views = append(views, occurrenceView(occ))
	}
	return views
}

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
