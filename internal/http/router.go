// README: HTTP router registration.
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ridebroker/internal/http/handlers"
	"ridebroker/internal/http/middleware"
	"ridebroker/internal/modules/fare"
	"ridebroker/internal/modules/ride"
	"ridebroker/internal/notify"
)

func NewRouter(
	rideService *ride.Service,
	fareService *fare.Service,
	hub *notify.Hub,
	log *logrus.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(log), middleware.Recovery(log))

	rideHandler := handlers.NewRideHandler(rideService)
	fareHandler := handlers.NewFareHandler(fareService)

	api := r.Group("/api")
	api.POST("/rides", rideHandler.Create)
	api.GET("/rides/:id", rideHandler.Get)
	api.POST("/rides/:id/accept", rideHandler.Accept)
	api.POST("/rides/:id/status", rideHandler.UpdateStatus)
	api.POST("/rides/:id/cancel", rideHandler.Cancel)
	api.GET("/riders/:id/rides", rideHandler.ListByRider)
	api.GET("/fare/estimate", fareHandler.Estimate)

	r.GET("/ws", gin.WrapF(hub.ServeWS))
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	return r
}
