package get_facility_bookings

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/MFB-BookingService/internal/service/bookings/models"
	"github.com/m04kA/MFB-BookingService/pkg/ptr"
)

// parseQuery собирает модель сервиса из query-параметров:
// zoneIds=1,2&from=RFC3339&to=RFC3339&status=pending&includeInactive=true
func parseQuery(query url.Values, facilityID, userID int64) (*models.GetFacilityBookingsRequest, error) {
	req := &models.GetFacilityBookingsRequest{
		UserID:     userID,
		FacilityID: facilityID,
	}

	if raw := query.Get("zoneIds"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			zoneID, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, err
			}
			req.ZoneIDs = append(req.ZoneIDs, zoneID)
		}
	}

	if raw := query.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, err
		}
		req.StartTime = ptr.Ptr(from)
	}

	if raw := query.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, err
		}
		req.EndTime = ptr.Ptr(to)
	}

	if status := query.Get("status"); status != "" {
		req.Status = ptr.Ptr(status)
	}

	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
