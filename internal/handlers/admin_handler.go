package handlers

import (
	"ridepool/internal/services"
	"ridepool/internal/utils"
	"ridepool/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdminHandler struct {
	lifecycleService services.LifecycleJobService
	ratingService    services.RatingService
}

func NewAdminHandler(lifecycleService services.LifecycleJobService, ratingService services.RatingService) *AdminHandler {
	return &AdminHandler{
		lifecycleService: lifecycleService,
		ratingService:    ratingService,
	}
}

// RunLifecycle triggers the batch transition jobs. An empty body runs both.
func (h *AdminHandler) RunLifecycle(c *gin.Context) {
	var request validators.RunLifecycleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			utils.ErrorResponse(c, 400, "invalid_request", err.Error())
			return
		}
	}

	if errs := validators.ValidateRunLifecycleRequest(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	result, err := h.lifecycleService.Run(c.Request.Context(), request.Job, request.TTLHours)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Lifecycle jobs completed", result)
}

// RecomputeDriverRating rebuilds a driver's aggregate from visible reviews
func (h *AdminHandler) RecomputeDriverRating(c *gin.Context) {
	driverID, err := primitive.ObjectIDFromHex(c.Param("driver_id"))
	if err != nil {
		utils.ErrorResponse(c, 400, "invalid_request", "invalid driver id")
		return
	}

	aggregate, err := h.ratingService.RecomputeAggregate(c.Request.Context(), driverID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Rating aggregate recomputed", aggregate)
}
