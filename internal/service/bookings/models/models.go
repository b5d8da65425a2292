package models

import (
	"errors"
	"time"

	"github.com/m04kA/MFB-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
// Используется администраторами объекта для workflow согласования
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetFacilityBookingsRequest запрос на получение бронирований объекта
type GetFacilityBookingsRequest struct {
	UserID          int64      `json:"userId"`
	FacilityID      int64      `json:"facilityId"`
	ZoneIDs         []int64    `json:"zoneIds,omitempty"`         // Фильтр по зонам (опционально)
	StartTime       *time.Time `json:"startTime,omitempty"`       // Начало периода (опционально)
	EndTime         *time.Time `json:"endTime,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetFacilityBookingsRequest) ToDomainFilter() (domain.FacilityBookingsFilter, error) {
	filter := domain.FacilityBookingsFilter{
		FacilityID:      r.FacilityID,
		ZoneIDs:         r.ZoneIDs,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		IncludeInactive: r.IncludeInactive,
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID               int64   `json:"id"`
	Reference        string  `json:"reference"`
	FacilityID       int64   `json:"facilityId"`
	ZoneID           int64   `json:"zoneId"`
	UserID           int64   `json:"userId"`
	ActorType        string  `json:"actorType"`
	StartTime        string  `json:"startTime"` // RFC3339
	EndTime          string  `json:"endTime"`   // RFC3339
	Status           string  `json:"status"`
	Purpose          string  `json:"purpose"`
	AttendeeCount    int     `json:"attendeeCount"`
	Price            float64 `json:"price"`
	RequiresApproval bool    `json:"requiresApproval"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// FromDomainBooking конвертирует domain бронирование в response
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:               b.ID,
		Reference:        b.Reference,
		FacilityID:       b.FacilityID,
		ZoneID:           b.ZoneID,
		UserID:           b.UserID,
		ActorType:        string(b.ActorType),
		StartTime:        b.StartTime.Format(time.RFC3339),
		EndTime:          b.EndTime.Format(time.RFC3339),
		Status:           string(b.Status),
		Purpose:          b.Purpose,
		AttendeeCount:    b.AttendeeCount,
		Price:            b.Price,
		RequiresApproval: b.RequiresApproval,
		CreatedAt:        b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        b.UpdatedAt.Format(time.RFC3339),
	}

	resp.CancellationReason = b.CancellationReason
	if b.CancelledAt != nil {
		formatted := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &formatted
	}

	return resp
}

// FromDomainBookingList конвертирует список domain бронирований в response
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		result[i] = *FromDomainBooking(b)
	}

	return &BookingListResponse{
		Bookings: result,
		Total:    len(result),
	}
}

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(s) {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled, domain.StatusRejected:
		return domain.BookingStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}
