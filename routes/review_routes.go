package routes

import (
	"ridepool/internal/handlers"
	"ridepool/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupReviewRoutes sets up routes for reviews and rating aggregates
func SetupReviewRoutes(r *gin.RouterGroup, reviewHandler *handlers.ReviewHandler, jwtSecret string) {
	reviews := r.Group("/reviews")
	reviews.Use(middleware.AuthRequired(jwtSecret))
	{
		reviews.POST("", reviewHandler.CreateReview)
		reviews.POST("/:id/hide", reviewHandler.HideReview)
	}

	// Public read side: anyone can see a driver's visible reviews and rating
	drivers := r.Group("/drivers")
	{
		drivers.GET("/:driver_id/reviews", reviewHandler.ListDriverReviews)
		drivers.GET("/:driver_id/rating", reviewHandler.GetDriverRating)
	}
}
