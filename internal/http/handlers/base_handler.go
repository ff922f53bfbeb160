// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridebroker/internal/modules/fare"
	"ridebroker/internal/modules/ride"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Configuration defects stay server-side errors; everything else carries its
// message through to the client.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ride.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ride.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ride.ErrInvalidTransition), errors.Is(err, ride.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, fare.ErrConfigNotFound):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, fare.ErrInvalidConfig), errors.Is(err, fare.ErrComputationFailed):
		writeError(c, http.StatusInternalServerError, "fare configuration error")
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
