package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/MFB-BookingService/internal/api/handlers"
	"github.com/m04kA/MFB-BookingService/internal/api/middleware"
	createBooking "github.com/m04kA/MFB-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgMissingUserID      = "missing user ID"
	msgFacilityNotFound   = "facility not found"
	msgZoneNotFound       = "zone not found"
	msgInvalidTiming      = "exactly one timing variant must be provided"
	msgInvalidRecurrence  = "invalid recurrence pattern"
	msgMalformedTimeSlot  = "malformed time slot, expected HH:MM-HH:MM"
	msgDateInPast         = "booking starts in the past"
	msgDateTooFar         = "booking date is too far in the future"
	msgDurationOutOfRange = "slot duration is outside the zone limits"
	msgSlotNotAllowed     = "time slot is not allowed for this zone"
	msgInvalidInput       = "invalid input data"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом дат и слотов)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrFacilityNotFound):
			h.logger.Warn("POST /bookings - Facility not found: facility_id=%d", req.FacilityID)
			handlers.RespondNotFound(w, msgFacilityNotFound)

		case errors.Is(err, createBooking.ErrZoneNotFound):
			h.logger.Warn("POST /bookings - Zone not found: facility_id=%d, zone_id=%d", req.FacilityID, req.ZoneID)
			handlers.RespondNotFound(w, msgZoneNotFound)

		case errors.Is(err, createBooking.ErrInvalidTiming):
			h.logger.Warn("POST /bookings - Invalid timing: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgInvalidTiming)

		case errors.Is(err, createBooking.ErrInvalidRecurrence):
			h.logger.Warn("POST /bookings - Invalid recurrence: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRecurrence)

		case errors.Is(err, createBooking.ErrMalformedTimeSlot):
			h.logger.Warn("POST /bookings - Malformed time slot: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgMalformedTimeSlot)

		case errors.Is(err, createBooking.ErrDateInPast):
			h.logger.Warn("POST /bookings - Date in past: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrDurationOutOfRange):
			h.logger.Warn("POST /bookings - Duration out of range: user_id=%d, zone_id=%d", userID, req.ZoneID)
			handlers.RespondBadRequest(w, msgDurationOutOfRange)

		case errors.Is(err, createBooking.ErrSlotNotAllowed):
			h.logger.Warn("POST /bookings - Slot not allowed: user_id=%d, zone_id=%d", userID, req.ZoneID)
			handlers.RespondBadRequest(w, msgSlotNotAllowed)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, facility_id=%d, error=%v",
				userID, req.FacilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	// Конфликтные исходы отдаются с 409: клиент решает, бронировать ли
	// чистое подмножество
	switch result.Status {
	case createBooking.StatusCommitted:
		h.logger.Info("POST /bookings - Booking committed: reference=%s, user_id=%d, occurrences=%d",
			result.Reference, userID, len(result.BookingIDs))
		handlers.RespondJSON(w, http.StatusCreated, response)
	default:
		h.logger.Info("POST /bookings - Booking %s: user_id=%d, clean=%d, conflicted=%d",
			result.Status, userID, len(result.Clean), len(result.Conflicted))
		handlers.RespondJSON(w, http.StatusConflict, response)
	}
}
