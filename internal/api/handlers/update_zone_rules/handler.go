package update_zone_rules

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/MFB-BookingService/internal/api/handlers"
	"github.com/m04kA/MFB-BookingService/internal/api/middleware"
	registryClient "github.com/m04kA/MFB-BookingService/internal/integrations/facilityregistry"
	zonesService "github.com/m04kA/MFB-BookingService/internal/service/zones"
)

const (
	msgInvalidFacilityID  = "invalid facility ID"
	msgInvalidZoneID      = "invalid zone ID"
	msgInvalidRequestBody = "invalid request body"
	msgMissingUserID      = "missing user ID"
	msgForbidden          = "access denied"
	msgFacilityNotFound   = "facility not found"
	msgZoneNotFound       = "zone not found"
	msgInvalidRules       = "invalid booking rules"
)

type Handler struct {
	service  ZoneService
	registry FacilityRegistryClient
	logger   Logger
}

func NewHandler(service ZoneService, registry FacilityRegistryClient, logger Logger) *Handler {
	return &Handler{
		service:  service,
		registry: registry,
		logger:   logger,
	}
}

// Handle PUT /api/v1/facilities/{facilityId}/zones/{zoneId}/rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	facilityID, err := strconv.ParseInt(vars["facilityId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /zones/{id}/rules - Invalid facility ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}

	zoneID, err := strconv.ParseInt(vars["zoneId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /zones/{id}/rules - Invalid zone ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidZoneID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /zones/{id}/rules - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Правила зоны меняют только администраторы объекта
	facility, err := h.registry.GetFacility(r.Context(), facilityID)
	if err != nil {
		if errors.Is(err, registryClient.ErrFacilityNotFound) {
			h.logger.Warn("PUT /zones/{id}/rules - Facility not found: facility_id=%d", facilityID)
			handlers.RespondNotFound(w, msgFacilityNotFound)
			return
		}
		h.logger.Error("PUT /zones/{id}/rules - Registry error: facility_id=%d, error=%v", facilityID, err)
		handlers.RespondInternalError(w)
		return
	}

	if !facility.IsManager(userID) {
		h.logger.Warn("PUT /zones/{id}/rules - Access denied: facility_id=%d, user_id=%d", facilityID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req UpdateZoneRulesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /zones/{id}/rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err = h.service.UpdateRules(r.Context(), facilityID, zoneID, req.ToDomainRules())
	if err != nil {
		switch {
		case errors.Is(err, zonesService.ErrZoneNotFound):
			h.logger.Warn("PUT /zones/{id}/rules - Zone not found: zone_id=%d", zoneID)
			handlers.RespondNotFound(w, msgZoneNotFound)

		case errors.Is(err, zonesService.ErrInvalidRules):
			h.logger.Warn("PUT /zones/{id}/rules - Invalid rules: zone_id=%d, error=%v", zoneID, err)
			handlers.RespondBadRequest(w, msgInvalidRules)

		default:
			h.logger.Error("PUT /zones/{id}/rules - Failed: zone_id=%d, error=%v", zoneID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /zones/{id}/rules - Rules updated: facility_id=%d, zone_id=%d, user_id=%d",
		facilityID, zoneID, userID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
