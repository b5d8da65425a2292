package preview_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/MFB-BookingService/internal/api/handlers"
	"github.com/m04kA/MFB-BookingService/internal/api/middleware"
	previewBooking "github.com/m04kA/MFB-BookingService/internal/usecase/preview_booking"
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
	useCase PreviewBookingUseCase
	logger  Logger
}

func NewHandler(useCase PreviewBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/preview
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/preview - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req PreviewBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/preview - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings/preview - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, previewBooking.ErrFacilityNotFound):
			h.logger.Warn("POST /bookings/preview - Facility not found: facility_id=%d", req.FacilityID)
			handlers.RespondNotFound(w, msgFacilityNotFound)

		case errors.Is(err, previewBooking.ErrZoneNotFound):
			h.logger.Warn("POST /bookings/preview - Zone not found: facility_id=%d, zone_id=%d",
				req.FacilityID, req.ZoneID)
			handlers.RespondNotFound(w, msgZoneNotFound)

		case errors.Is(err, previewBooking.ErrInvalidTiming):
			handlers.RespondBadRequest(w, msgInvalidTiming)

		case errors.Is(err, previewBooking.ErrInvalidRecurrence):
			handlers.RespondBadRequest(w, msgInvalidRecurrence)

		case errors.Is(err, previewBooking.ErrMalformedTimeSlot):
			handlers.RespondBadRequest(w, msgMalformedTimeSlot)

		case errors.Is(err, previewBooking.ErrDateInPast):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, previewBooking.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, previewBooking.ErrDurationOutOfRange):
			handlers.RespondBadRequest(w, msgDurationOutOfRange)

		case errors.Is(err, previewBooking.ErrSlotNotAllowed):
			handlers.RespondBadRequest(w, msgSlotNotAllowed)

		case errors.Is(err, previewBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/preview - Failed to preview booking: user_id=%d, facility_id=%d, error=%v",
				userID, req.FacilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/preview - Preview %s: user_id=%d, clean=%d, conflicted=%d",
		result.Status, userID, len(result.Clean), len(result.Conflicted))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
