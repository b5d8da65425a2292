package get_facility_zones

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/MFB-BookingService/internal/api/handlers"
	zonesService "github.com/m04kA/MFB-BookingService/internal/service/zones"
)

const (
	msgInvalidFacilityID = "invalid facility ID"
	msgNoZones           = "facility has no zones"
)

type Handler struct {
	service ZoneService
	logger  Logger
}

func NewHandler(service ZoneService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/facilities/{facilityId}/zones
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	facilityID, err := strconv.ParseInt(vars["facilityId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /facilities/{id}/zones - Invalid facility ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}

	zones, err := h.service.GetFacilityZones(r.Context(), facilityID)
	if err != nil {
		switch {
		case errors.Is(err, zonesService.ErrFacilityHasNoZones):
			h.logger.Warn("GET /facilities/{id}/zones - No zones: facility_id=%d", facilityID)
			handlers.RespondNotFound(w, msgNoZones)

		default:
			h.logger.Error("GET /facilities/{id}/zones - Failed: facility_id=%d, error=%v", facilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainZones(facilityID, zones))
}
