package routes

import (
	"ridepool/internal/handlers"
	"ridepool/internal/middleware"
	"ridepool/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes sets up routes for the booking request lifecycle
func SetupBookingRoutes(r *gin.RouterGroup, bookingHandler *handlers.BookingHandler, jwtSecret string) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthRequired(jwtSecret))
	{
		bookings.POST("", bookingHandler.CreateBooking)
		bookings.GET("/my", bookingHandler.ListMyBookings)
		bookings.GET("/:id", bookingHandler.GetBooking)

		// Driver decisions on pending requests
		bookings.POST("/:id/accept", middleware.RoleRequired(models.UserTypeDriver), bookingHandler.AcceptBooking)
		bookings.POST("/:id/decline", middleware.RoleRequired(models.UserTypeDriver), bookingHandler.DeclineBooking)

		// Passenger-side cancel, valid before and after acceptance
		bookings.POST("/:id/cancel", bookingHandler.CancelBooking)
	}
}
