package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/MFB-BookingService/internal/domain"
	createBooking "github.com/m04kA/MFB-BookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	FacilityID    int64         `json:"facilityId"`
	ZoneID        int64         `json:"zoneId"`
	ActorType     string        `json:"actorType"`
	Purpose       string        `json:"purpose"`
	AttendeeCount int           `json:"attendeeCount"`
	Timing        TimingRequest `json:"timing"`
}

// TimingRequest временная схема запроса, ровно один вариант
type TimingRequest struct {
	OneTime   *OneTimeRequest   `json:"oneTime,omitempty"`
	DateRange *DateRangeRequest `json:"dateRange,omitempty"`
	Recurring *RecurringRequest `json:"recurring,omitempty"`
}

// OneTimeRequest разовый слот
type OneTimeRequest struct {
	Date string `json:"date"` // "2026-09-01"
	Slot string `json:"slot"` // "10:00-12:00"
}

// DateRangeRequest слот на каждый день диапазона
type DateRangeRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Slot      string `json:"slot"`
}

// RecurringRequest шаблон повторения
type RecurringRequest struct {
	Frequency       string   `json:"frequency"` // weekly | biweekly | monthly
	Interval        int      `json:"interval"`
	Weekdays        []string `json:"weekdays,omitempty"` // "monday".."sunday"
	TimeSlots       []string `json:"timeSlots"`
	StartDate       string   `json:"startDate"`
	EndDate         *string  `json:"endDate,omitempty"`
	OccurrenceCount *int     `json:"occurrenceCount,omitempty"`
}

// BookingOutcomeResponse HTTP response model: дискриминированный результат
type BookingOutcomeResponse struct {
	Status string `json:"status"` // committed | partial | rejected

	Reference        string  `json:"reference,omitempty"`
	BookingIDs       []int64 `json:"bookingIds,omitempty"`
	RequiresApproval bool    `json:"requiresApproval"`

	Breakdown *PriceBreakdownResponse `json:"breakdown,omitempty"`

	Clean      []OccurrenceResponse `json:"clean,omitempty"`
	Conflicted []ConflictResponse   `json:"conflicted,omitempty"`

	Reason   string   `json:"reason,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// OccurrenceResponse одно вхождение
type OccurrenceResponse struct {
	ZoneID    int64  `json:"zoneId"`
	StartTime string `json:"startTime"` // RFC3339
	EndTime   string `json:"endTime"`   // RFC3339
}

// ConflictResponse конфликтующее вхождение
type ConflictResponse struct {
	Occurrence OccurrenceResponse `json:"occurrence"`
	BookingID  int64              `json:"bookingId"`
	Type       string             `json:"type"`
}

// PriceBreakdownResponse детализация цены
type PriceBreakdownResponse struct {
	Lines         []PriceLineResponse       `json:"lines"`
	PerOccurrence []OccurrencePriceResponse `json:"perOccurrence"`
	FinalPrice    float64                   `json:"finalPrice"`
}

// PriceLineResponse одна строка детализации
type PriceLineResponse struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Kind   string  `json:"kind"`
}

// OccurrencePriceResponse детализация одного вхождения
type OccurrencePriceResponse struct {
	Occurrence OccurrenceResponse  `json:"occurrence"`
	Lines      []PriceLineResponse `json:"lines"`
	Total      float64             `json:"total"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	timing, err := toUseCaseTiming(&r.Timing)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:        userID,
		FacilityID:    r.FacilityID,
		ZoneID:        r.ZoneID,
		ActorType:     r.ActorType,
		Purpose:       r.Purpose,
		AttendeeCount: r.AttendeeCount,
		Timing:        *timing,
	}, nil
}

// toUseCaseTiming парсит даты временной схемы
func toUseCaseTiming(t *TimingRequest) (*createBooking.Timing, error) {
	timing := &createBooking.Timing{}

	if t.OneTime != nil {
		date, err := time.Parse(domain.DateFormat, t.OneTime.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q", t.OneTime.Date)
		}
		timing.OneTime = &createBooking.OneTimeSlot{Date: date, Slot: t.OneTime.Slot}
	}

	if t.DateRange != nil {
		start, err := time.Parse(domain.DateFormat, t.DateRange.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate %q", t.DateRange.StartDate)
		}
		end, err := time.Parse(domain.DateFormat, t.DateRange.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate %q", t.DateRange.EndDate)
		}
		timing.DateRange = &createBooking.DateRangeSlot{StartDate: start, EndDate: end, Slot: t.DateRange.Slot}
	}

	if t.Recurring != nil {
		pattern, err := toRecurrencePattern(t.Recurring)
		if err != nil {
			return nil, err
		}
		timing.Recurring = pattern
	}

	return timing, nil
}

// toRecurrencePattern парсит шаблон повторения из HTTP модели
func toRecurrencePattern(r *RecurringRequest) (*domain.RecurrencePattern, error) {
	startDate, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate %q", r.StartDate)
	}

	pattern := &domain.RecurrencePattern{
		Frequency:       domain.Frequency(r.Frequency),
		Interval:        r.Interval,
		TimeSlots:       r.TimeSlots,
		StartDate:       startDate,
		OccurrenceCount: r.OccurrenceCount,
	}

	if r.EndDate != nil {
		endDate, err := time.Parse(domain.DateFormat, *r.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate %q", *r.EndDate)
		}
		pattern.EndDate = &endDate
	}

	for _, name := range r.Weekdays {
		weekday, err := parseWeekday(name)
		if err != nil {
			return nil, err
		}
		pattern.Weekdays = append(pattern.Weekdays, weekday)
	}

	return pattern, nil
}

// parseWeekday парсит английское название дня недели
func parseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(name) {
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	case "sunday":
		return time.Sunday, nil
	default:
		return 0, fmt.Errorf("invalid weekday %q", name)
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingOutcomeResponse {
	out := &BookingOutcomeResponse{
		Status:           string(resp.Status),
		Reference:        resp.Reference,
		BookingIDs:       resp.BookingIDs,
		RequiresApproval: resp.RequiresApproval,
		Clean:            occurrenceResponses(resp.Clean),
		Reason:           resp.Reason,
		Warnings:         resp.Warnings,
	}

	for _, c := range resp.Conflicted {
		out.Conflicted = append(out.Conflicted, ConflictResponse{
			Occurrence: occurrenceResponse(c.Occurrence),
			BookingID:  c.BookingID,
			Type:       c.Type,
		})
	}

	if resp.Breakdown != nil {
		out.Breakdown = fromBreakdown(resp.Breakdown)
	}

	return out
}

func occurrenceResponse(occ createBooking.OccurrenceView) OccurrenceResponse {
	return OccurrenceResponse{
		ZoneID:    occ.ZoneID,
		StartTime: occ.StartTime.Format(time.RFC3339),
		EndTime:   occ.EndTime.Format(time.RFC3339),
	}
}

func occurrenceResponses(occs []createBooking.OccurrenceView) []OccurrenceResponse {
	result := make([]OccurrenceResponse, 0, len(occs))
	for _, occ := range occs {
		result = append(result, occurrenceResponse(occ))
	}
	return result
}

func fromBreakdown(b *domain.PriceBreakdown) *PriceBreakdownResponse {
	out := &PriceBreakdownResponse{
		Lines:      priceLineResponses(b.Lines),
		FinalPrice: b.FinalPrice,
	}

	for _, op := range b.PerOccurrence {
		out.PerOccurrence = append(out.PerOccurrence, OccurrencePriceResponse{
			Occurrence: OccurrenceResponse{
				ZoneID:    op.Occurrence.ZoneID,
				StartTime: op.Occurrence.Start.Format(time.RFC3339),
				EndTime:   op.Occurrence.End.Format(time.RFC3339),
			},
			Lines: priceLineResponses(op.Lines),
			Total: op.Total,
		})
	}

	return out
}

func priceLineResponses(lines []domain.PriceLine) []PriceLineResponse {
	result := make([]PriceLineResponse, 0, len(lines))
	for _, line := range lines {
		result = append(result, PriceLineResponse{
			Label:  line.Label,
			Amount: line.Amount,
			Kind:   string(line.Kind),
		})
	}
	return result
}
