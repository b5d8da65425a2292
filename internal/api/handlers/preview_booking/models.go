package preview_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/MFB-BookingService/internal/domain"
	previewBooking "github.com/m04kA/MFB-BookingService/internal/usecase/preview_booking"
)

// PreviewBookingRequest HTTP request model.
// Та же форма, что и у создания бронирования
type PreviewBookingRequest struct {
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
	Date string `json:"date"`
	Slot string `json:"slot"`
}

// DateRangeRequest слот на каждый день диапазона
type DateRangeRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Slot      string `json:"slot"`
}

// RecurringRequest шаблон повторения
type RecurringRequest struct {
	Frequency       string   `json:"frequency"`
	Interval        int      `json:"interval"`
	Weekdays        []string `json:"weekdays,omitempty"`
	TimeSlots       []string `json:"timeSlots"`
	StartDate       string   `json:"startDate"`
	EndDate         *string  `json:"endDate,omitempty"`
	OccurrenceCount *int     `json:"occurrenceCount,omitempty"`
}

// PreviewResponse HTTP response model: котировка и разбиение вхождений
type PreviewResponse struct {
	Status string `json:"status"` // available | partial | rejected

	RequiresApproval bool                    `json:"requiresApproval"`
	Breakdown        *PriceBreakdownResponse `json:"breakdown,omitempty"`

	Clean      []OccurrenceResponse `json:"clean,omitempty"`
	Conflicted []ConflictResponse   `json:"conflicted,omitempty"`

	Reason   string   `json:"reason,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// OccurrenceResponse одно вхождение
type OccurrenceResponse struct {
	ZoneID    int64  `json:"zoneId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
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
func (r *PreviewBookingRequest) ToUseCaseRequest(userID int64) (*previewBooking.Request, error) {
	timing := previewBooking.Timing{}

	if r.Timing.OneTime != nil {
		date, err := time.Parse(domain.DateFormat, r.Timing.OneTime.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q", r.Timing.OneTime.Date)
		}
		timing.OneTime = &previewBooking.OneTimeSlot{Date: date, Slot: r.Timing.OneTime.Slot}
	}

	if r.Timing.DateRange != nil {
		start, err := time.Parse(domain.DateFormat, r.Timing.DateRange.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate %q", r.Timing.DateRange.StartDate)
		}
		end, err := time.Parse(domain.DateFormat, r.Timing.DateRange.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate %q", r.Timing.DateRange.EndDate)
		}
		timing.DateRange = &previewBooking.DateRangeSlot{StartDate: start, EndDate: end, Slot: r.Timing.DateRange.Slot}
	}

	if r.Timing.Recurring != nil {
		pattern, err := toRecurrencePattern(r.Timing.Recurring)
		if err != nil {
			return nil, err
		}
		timing.Recurring = pattern
	}

	return &previewBooking.Request{
		UserID:        userID,
		FacilityID:    r.FacilityID,
		ZoneID:        r.ZoneID,
		ActorType:     r.ActorType,
		Purpose:       r.Purpose,
		AttendeeCount: r.AttendeeCount,
		Timing:        timing,
	}, nil
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
func FromUseCaseResponse(resp *previewBooking.Response) *PreviewResponse {
	out := &PreviewResponse{
		Status:           string(resp.Status),
		RequiresApproval: resp.RequiresApproval,
		Reason:           resp.Reason,
		Warnings:         resp.Warnings,
	}

	for _, occ := range resp.Clean {
		out.Clean = append(out.Clean, occurrenceResponse(occ))
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

func occurrenceResponse(occ previewBooking.OccurrenceView) OccurrenceResponse {
	return OccurrenceResponse{
		ZoneID:    occ.ZoneID,
		StartTime: occ.StartTime.Format(time.RFC3339),
		EndTime:   occ.EndTime.Format(time.RFC3339),
	}
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
