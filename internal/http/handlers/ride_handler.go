// README: Ride handlers for create/read/transition operations.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridebroker/internal/modules/ride"
	"ridebroker/internal/types"
)

type RideHandler struct {
	rides *ride.Service
}

func NewRideHandler(svc *ride.Service) *RideHandler {
	return &RideHandler{rides: svc}
}

func (h *RideHandler) Create(c *gin.Context) {
	var req ride.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cmd, err := req.Normalize()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	r, err := h.rides.Create(c.Request.Context(), cmd)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, r)
}

func (h *RideHandler) Get(c *gin.Context) {
	r, err := h.rides.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

func (h *RideHandler) ListByRider(c *gin.Context) {
	rides, err := h.rides.ListByRider(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, rides)
}

type acceptRideReq struct {
	DriverID string `json:"driver_id"`
}

func (h *RideHandler) Accept(c *gin.Context) {
	var req acceptRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	r, err := h.rides.Accept(c.Request.Context(), ride.AcceptCommand{
		RideID:   types.ID(c.Param("id")),
		DriverID: types.ID(req.DriverID),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

type updateStatusReq struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
}

func validActor(actor string) bool {
	switch actor {
	case "", "rider", "driver", "system":
		return true
	}
	return false
}

func (h *RideHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	status, ok := ride.ParseStatus(req.Status)
	if !ok {
		writeError(c, http.StatusBadRequest, "unknown status")
		return
	}
	if !validActor(req.Actor) {
		writeError(c, http.StatusBadRequest, "unknown actor")
		return
	}
	// empty actor falls back to "system" in the service
	r, err := h.rides.UpdateStatus(c.Request.Context(), ride.UpdateStatusCommand{
		RideID: types.ID(c.Param("id")),
		To:     status,
		Actor:  req.Actor,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

func (h *RideHandler) Cancel(c *gin.Context) {
	r, err := h.rides.Cancel(c.Request.Context(), types.ID(c.Param("id")), "rider")
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}
