package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/MFB-BookingService/internal/api/handlers"
	"github.com/m04kA/MFB-BookingService/internal/domain"
	getAvailability "github.com/m04kA/MFB-BookingService/internal/usecase/get_availability"
)

const (
	msgInvalidFacilityID = "invalid facility ID"
	msgInvalidZoneID     = "invalid zone ID"
	msgInvalidDate       = "invalid date, expected YYYY-MM-DD"
	msgZoneNotFound      = "zone not found"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/facilities/{facilityId}/zones/{zoneId}/availability?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	facilityID, err := strconv.ParseInt(vars["facilityId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid facility ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}

	zoneID, err := strconv.ParseInt(vars["zoneId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid zone ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidZoneID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		FacilityID: facilityID,
		ZoneID:     zoneID,
		Date:       date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrZoneNotFound):
			h.logger.Warn("GET /availability - Zone not found: facility_id=%d, zone_id=%d", facilityID, zoneID)
			handlers.RespondNotFound(w, msgZoneNotFound)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /availability - Failed: facility_id=%d, zone_id=%d, error=%v",
				facilityID, zoneID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
