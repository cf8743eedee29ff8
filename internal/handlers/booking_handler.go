package handlers

import (
	"ridepool/internal/middleware"
	"ridepool/internal/services"
	"ridepool/internal/utils"
	"ridepool/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingHandler struct {
	bookingService services.BookingRequestService
}

func NewBookingHandler(bookingService services.BookingRequestService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// CreateBooking submits a pending booking request for a published trip
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var request validators.CreateBookingRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, 400, "invalid_request", err.Error())
		return
	}

	if errs := validators.ValidateCreateBookingRequest(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	passengerID, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	tripID, _ := primitive.ObjectIDFromHex(request.TripID)

	booking, err := h.bookingService.Create(c.Request.Context(), &services.CreateBookingRequest{
		TripID:      tripID,
		PassengerID: passengerID,
		Seats:       request.Seats,
		Note:        request.Note,
	})
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Booking request created", booking)
}

// GetBooking returns a single booking request
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, 400, "invalid_request", "invalid booking id")
		return
	}

	booking, err := h.bookingService.Get(c.Request.Context(), bookingID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "", booking)
}

// ListMyBookings returns the caller's own booking requests
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	passengerID, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)
	bookings, total, err := h.bookingService.ListByPassenger(c.Request.Context(), passengerID, params)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "", bookings, &utils.Meta{
		Pagination: utils.NewPaginationMeta(params, total),
		Count:      len(bookings),
	})
}

// ListTripBookings returns the booking requests for a trip the caller drives
func (h *BookingHandler) ListTripBookings(c *gin.Context) {
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

	params := utils.GetPaginationParams(c)
	bookings, total, err := h.bookingService.ListByTrip(c.Request.Context(), tripID, driverID, params)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "", bookings, &utils.Meta{
		Pagination: utils.NewPaginationMeta(params, total),
		Count:      len(bookings),
	})
}

// AcceptBooking accepts a pending request, allocating its seats
func (h *BookingHandler) AcceptBooking(c *gin.Context) {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, 400, "invalid_request", "invalid booking id")
		return
	}

	driverID, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	booking, err := h.bookingService.Accept(c.Request.Context(), bookingID, driverID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking request accepted", booking)
}

// DeclineBooking declines a pending request
func (h *BookingHandler) DeclineBooking(c *gin.Context) {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, 400, "invalid_request", "invalid booking id")
		return
	}

	driverID, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	booking, err := h.bookingService.Decline(c.Request.Context(), bookingID, driverID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking request declined", booking)
}

// CancelBooking cancels the caller's own booking request
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, 400, "invalid_request", "invalid booking id")
		return
	}

	passengerID, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	booking, err := h.bookingService.Cancel(c.Request.Context(), bookingID, passengerID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking request canceled", booking)
}
