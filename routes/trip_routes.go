package routes

import (
	"ridepool/internal/handlers"
	"ridepool/internal/middleware"
	"ridepool/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupTripRoutes sets up routes for trip offer management
func SetupTripRoutes(r *gin.RouterGroup, tripHandler *handlers.TripHandler, bookingHandler *handlers.BookingHandler, jwtSecret string) {
	trips := r.Group("/trips")
	trips.Use(middleware.AuthRequired(jwtSecret))
	{
		trips.POST("", middleware.RoleRequired(models.UserTypeDriver), tripHandler.CreateTrip)
		trips.GET("/my", middleware.RoleRequired(models.UserTypeDriver), tripHandler.ListMyTrips)
		trips.GET("/:id", tripHandler.GetTrip)
		trips.PUT("/:id", middleware.RoleRequired(models.UserTypeDriver), tripHandler.UpdateTrip)
		trips.POST("/:id/cancel", middleware.RoleRequired(models.UserTypeDriver), tripHandler.CancelTrip)

		// Driver-side view of the requests queued against a trip
		trips.GET("/:id/bookings", middleware.RoleRequired(models.UserTypeDriver), bookingHandler.ListTripBookings)
	}
}
