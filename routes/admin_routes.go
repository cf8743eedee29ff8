package routes

import (
	"ridepool/internal/handlers"
	"ridepool/internal/middleware"
	"ridepool/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes sets up the operational endpoints behind the admin role
func SetupAdminRoutes(r *gin.RouterGroup, adminHandler *handlers.AdminHandler, jwtSecret string) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.RoleRequired(models.UserTypeAdmin))
	{
		admin.POST("/lifecycle/run", adminHandler.RunLifecycle)
		admin.POST("/ratings/:driver_id/recompute", adminHandler.RecomputeDriverRating)
	}
}
