// README: Fare estimate endpoint.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ridebroker/internal/modules/fare"
	"ridebroker/internal/modules/ride"
)

type FareHandler struct {
	fares *fare.Service
}

func NewFareHandler(svc *fare.Service) *FareHandler {
	return &FareHandler{fares: svc}
}

// Estimate prices a hypothetical trip without creating a ride.
// Query: distance (meters), duration (seconds), vehicle_type.
func (h *FareHandler) Estimate(c *gin.Context) {
	distance, err := queryFloat(c, "distance")
	if err != nil {
		writeError(c, http.StatusBadRequest, "distance must be a number (meters)")
		return
	}
	duration, err := queryFloat(c, "duration")
	if err != nil {
		writeError(c, http.StatusBadRequest, "duration must be a number (seconds)")
		return
	}
	vehicleType := ride.CanonicalVehicleType(c.Query("vehicle_type"))
	if vehicleType == "" {
		writeError(c, http.StatusBadRequest, "vehicle_type is required")
		return
	}

	amount, err := h.fares.Estimate(c.Request.Context(), distance, duration, vehicleType)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"vehicle_type": vehicleType, "fare": amount})
}

func queryFloat(c *gin.Context, key string) (float64, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	return strconv.ParseFloat(v, 64)
}
