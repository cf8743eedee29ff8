package handlers

import (
	"ridepool/internal/middleware"
	"ridepool/internal/services"
	"ridepool/internal/utils"
	"ridepool/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewHandler struct {
	ratingService services.RatingService
}

func NewReviewHandler(ratingService services.RatingService) *ReviewHandler {
	return &ReviewHandler{
		ratingService: ratingService,
	}
}

// CreateReview records a rating for a completed trip
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var request validators.CreateReviewRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, 400, "invalid_request", err.Error())
		return
	}

	if errs := validators.ValidateCreateReviewRequest(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	passengerID, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	tripID, _ := primitive.ObjectIDFromHex(request.TripID)

	review, err := h.ratingService.CreateReview(c.Request.Context(), &services.CreateReviewRequest{
		TripID:      tripID,
		PassengerID: passengerID,
		Rating:      request.Rating,
		Comment:     request.Comment,
	})
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Review created", review)
}

// HideReview soft-deletes the caller's own review
func (h *ReviewHandler) HideReview(c *gin.Context) {
	reviewID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, 400, "invalid_request", "invalid review id")
		return
	}

	passengerID, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	review, err := h.ratingService.HideReview(c.Request.Context(), reviewID, passengerID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Review hidden", review)
}

// ListDriverReviews returns a driver's visible reviews
func (h *ReviewHandler) ListDriverReviews(c *gin.Context) {
	driverID, err := primitive.ObjectIDFromHex(c.Param("driver_id"))
	if err != nil {
		utils.ErrorResponse(c, 400, "invalid_request", "invalid driver id")
		return
	}

	params := utils.GetPaginationParams(c)
	reviews, total, err := h.ratingService.ListVisibleByDriver(c.Request.Context(), driverID, params)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "", reviews, &utils.Meta{
		Pagination: utils.NewPaginationMeta(params, total),
		Count:      len(reviews),
	})
}

// GetDriverRating returns a driver's rating aggregate
func (h *ReviewHandler) GetDriverRating(c *gin.Context) {
	driverID, err := primitive.ObjectIDFromHex(c.Param("driver_id"))
	if err != nil {
		utils.ErrorResponse(c, 400, "invalid_request", "invalid driver id")
		return
	}

	aggregate, err := h.ratingService.GetAggregate(c.Request.Context(), driverID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "", aggregate)
}
