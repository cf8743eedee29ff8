package handlers

import (
	"ridepool/internal/middleware"
	"ridepool/internal/models"
	"ridepool/internal/services"
	"ridepool/internal/utils"
	"ridepool/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TripHandler struct {
	tripService services.TripOfferService
}

func NewTripHandler(tripService services.TripOfferService) *TripHandler {
	return &TripHandler{
		tripService: tripService,
	}
}

// CreateTrip publishes a new trip offer (or saves it as a draft)
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var request validators.CreateTripRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, 400, "invalid_request", err.Error())
		return
	}

	if errs := validators.ValidateCreateTripRequest(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	driverID, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	vehicleID, _ := primitive.ObjectIDFromHex(request.VehicleID)

	trip, err := h.tripService.Create(c.Request.Context(), &services.CreateTripRequest{
		DriverID:           driverID,
		VehicleID:          vehicleID,
		Origin:             models.Place{Text: request.Origin.Text, Geo: models.NewGeoPoint(request.Origin.Latitude, request.Origin.Longitude)},
		Destination:        models.Place{Text: request.Destination.Text, Geo: models.NewGeoPoint(request.Destination.Latitude, request.Destination.Longitude)},
		DepartureAt:        request.DepartureAt,
		EstimatedArrivalAt: request.EstimatedArrivalAt,
		PricePerSeat:       request.PricePerSeat,
		TotalSeats:         request.TotalSeats,
		Publish:            request.Publish,
		Notes:              request.Notes,
	})
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Trip offer created", trip)
}

// GetTrip returns a single trip offer
func (h *TripHandler) GetTrip(c *gin.Context) {
	tripID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, 400, "invalid_request", "invalid trip id")
		return
	}

	trip, err := h.tripService.Get(c.Request.Context(), tripID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "", trip)
}

// ListMyTrips returns the authenticated driver's trips
func (h *TripHandler) ListMyTrips(c *gin.Context) {
	driverID, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)
	trips, total, err := h.tripService.ListByDriver(c.Request.Context(), driverID, params)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "", trips, &utils.Meta{
		Pagination: utils.NewPaginationMeta(params, total),
		Count:      len(trips),
	})
}

// UpdateTrip changes price, seats, notes or status of a non-terminal trip
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	tripID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, 400, "invalid_request", "invalid trip id")
		return
	}

	var request validators.UpdateTripRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, 400, "invalid_request", err.Error())
		return
	}

	if errs := validators.ValidateUpdateTripRequest(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	driverID, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	update := &services.UpdateTripRequest{
		PricePerSeat: request.PricePerSeat,
		TotalSeats:   request.TotalSeats,
		Notes:        request.Notes,
	}
	if request.Status != nil {
		status := models.TripStatus(*request.Status)
		update.Status = &status
	}

	trip, err := h.tripService.Update(c.Request.Context(), tripID, driverID, update)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Trip offer updated", trip)
}

// CancelTrip cancels a draft or published trip
func (h *TripHandler) CancelTrip(c *gin.Context) {
	tripID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, 400, "invalid_request", "invalid trip id")
		return
	}

	driverID, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	trip, err := h.tripService.Cancel(c.Request.Context(), tripID, driverID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Trip offer canceled", trip)
}
