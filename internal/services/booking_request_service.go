package services

import (
	"context"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"
	"ridepool/internal/utils"
	"ridepool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingRequestService interface {
	Create(ctx context.Context, request *CreateBookingRequest) (*models.BookingRequest, error)
	Accept(ctx context.Context, bookingID, driverID primitive.ObjectID) (*models.BookingRequest, error)
	Decline(ctx context.Context, bookingID, driverID primitive.ObjectID) (*models.BookingRequest, error)
	Cancel(ctx context.Context, bookingID, passengerID primitive.ObjectID) (*models.BookingRequest, error)
	Get(ctx context.Context, bookingID primitive.ObjectID) (*models.BookingRequest, error)
	ListByTrip(ctx context.Context, tripID, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.BookingRequest, int64, error)
	ListByPassenger(ctx context.Context, passengerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.BookingRequest, int64, error)
}

type bookingRequestService struct {
	bookingRepo  interfaces.BookingRequestRepository
	tripRepo     interfaces.TripOfferRepository
	ledgerRepo   interfaces.SeatLedgerRepository
	refundCutoff time.Duration
	logger       *logger.Logger
}

func NewBookingRequestService(
	bookingRepo interfaces.BookingRequestRepository,
	tripRepo interfaces.TripOfferRepository,
	ledgerRepo interfaces.SeatLedgerRepository,
	refundCutoff time.Duration,
	log *logger.Logger,
) BookingRequestService {
	return &bookingRequestService{
		bookingRepo:  bookingRepo,
		tripRepo:     tripRepo,
		ledgerRepo:   ledgerRepo,
		refundCutoff: refundCutoff,
		logger:       log,
	}
}

type CreateBookingRequest struct {
	TripID      primitive.ObjectID
	PassengerID primitive.ObjectID
	Seats       int
	Note        string
}

func (s *bookingRequestService) Create(ctx context.Context, request *CreateBookingRequest) (*models.BookingRequest, error) {
	trip, err := s.tripRepo.GetByID(ctx, request.TripID)
	if err != nil {
		return nil, err
	}
	if !trip.IsPublished() {
		return nil, utils.ErrInvalidTripState
	}
	if !trip.DepartsAfter(time.Now()) {
		return nil, utils.ErrDepartureInPast
	}
	if trip.DriverID == request.PassengerID {
		return nil, utils.ErrOwnershipViolation
	}

	existing, err := s.bookingRepo.FindActiveBooking(ctx, request.PassengerID, request.TripID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ErrDuplicateRequest
	}

	// Advisory capacity check. This read races with concurrent writes and
	// only feeds a log line; the authoritative guard is the ledger's
	// conditional increment at accept time.
	activeSeats, err := s.bookingRepo.CountActiveSeats(ctx, request.TripID)
	if err == nil && activeSeats+request.Seats > trip.TotalSeats {
		s.logger.WithTripID(request.TripID).WithFields(map[string]interface{}{
			"active_seats":    activeSeats,
			"requested_seats": request.Seats,
			"total_seats":     trip.TotalSeats,
		}).Warn("Booking request likely to exceed trip capacity")
	}

	booking := &models.BookingRequest{
		TripID:      request.TripID,
		PassengerID: request.PassengerID,
		Seats:       request.Seats,
		Note:        request.Note,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.WithBookingID(booking.ID).WithTripID(request.TripID).Info("Booking request created")

	return booking, nil
}

// Accept runs the capacity-enforcement protocol: preconditions against a
// fresh read, then the atomic ledger allocation, then a conditional
// pending->accepted write. If that last write loses a race the allocated
// seats are handed straight back.
func (s *bookingRequestService) Accept(ctx context.Context, bookingID, driverID primitive.ObjectID) (*models.BookingRequest, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusPending {
		return nil, utils.ErrInvalidState
	}

	trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
	if err != nil {
		return nil, err
	}
	if trip.DriverID != driverID {
		return nil, utils.ErrForbiddenOwner
	}
	if !trip.IsPublished() {
		return nil, utils.ErrInvalidTripState
	}
	if !trip.DepartsAfter(time.Now()) {
		return nil, utils.ErrDepartureInPast
	}

	ledger, err := s.ledgerRepo.Allocate(ctx, trip.ID, trip.TotalSeats, booking.Seats)
	if err != nil {
		return nil, err
	}
	if ledger == nil {
		// Terminal business outcome, not transient: the caller must not retry.
		s.logger.WithBookingID(bookingID).WithTripID(trip.ID).WithField("seats", booking.Seats).
			Info("Booking accept refused, capacity exceeded")
		return nil, utils.ErrCapacityExceeded
	}

	accepted, err := s.bookingRepo.Accept(ctx, bookingID, driverID)
	if err != nil {
		// The allocation is committed; compensate before surfacing the error.
		s.ledgerRepo.Release(ctx, trip.ID, booking.Seats)
		return nil, err
	}
	if accepted == nil {
		// The booking left pending between our read and the write.
		if _, err := s.ledgerRepo.Release(ctx, trip.ID, booking.Seats); err != nil {
			s.logger.WithBookingID(bookingID).WithError(err).Error("Failed to release seats after lost accept race")
		}
		return nil, utils.ErrInvalidState
	}

	s.logger.WithBookingID(bookingID).WithTripID(trip.ID).WithFields(map[string]interface{}{
		"seats":           booking.Seats,
		"allocated_seats": ledger.AllocatedSeats,
	}).Info("Booking request accepted")

	return accepted, nil
}

// Decline is idempotent: re-declining an already-declined booking returns the
// unchanged booking. Nothing was ever allocated, so the ledger is untouched.
func (s *bookingRequestService) Decline(ctx context.Context, bookingID, driverID primitive.ObjectID) (*models.BookingRequest, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
	if err != nil {
		return nil, err
	}
	if trip.DriverID != driverID {
		return nil, utils.ErrForbiddenOwner
	}

	if booking.Status == models.BookingStatusDeclined {
		return booking, nil
	}
	if booking.Status != models.BookingStatusPending {
		return nil, utils.ErrInvalidState
	}

	declined, err := s.bookingRepo.Decline(ctx, bookingID, driverID)
	if err != nil {
		return nil, err
	}
	if declined == nil {
		// Re-read: the race may have been another decline, which still
		// counts as success.
		fresh, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if fresh.Status == models.BookingStatusDeclined {
			return fresh, nil
		}
		return nil, utils.ErrInvalidState
	}

	s.logger.WithBookingID(bookingID).Info("Booking request declined")

	return declined, nil
}

// Cancel is idempotent for the passenger: canceling an already-canceled
// booking returns it unchanged with no further writes. Canceling an accepted
// booking releases its seats through the same conditional primitive that
// allocated them, so capacity does not leak.
func (s *bookingRequestService) Cancel(ctx context.Context, bookingID, passengerID primitive.ObjectID) (*models.BookingRequest, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.PassengerID != passengerID {
		return nil, utils.ErrOwnershipViolation
	}

	if booking.Status == models.BookingStatusCanceledByPassenger {
		return booking, nil
	}
	if !booking.Status.IsActive() {
		return nil, utils.ErrInvalidStatusCancel
	}

	wasAccepted := booking.NeedsSeatRelease()
	refundNeeded := wasAccepted && s.withinRefundWindow(ctx, booking)

	canceled, err := s.bookingRepo.Cancel(ctx, bookingID, refundNeeded)
	if err != nil {
		return nil, err
	}
	if canceled == nil {
		fresh, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if fresh.Status == models.BookingStatusCanceledByPassenger {
			return fresh, nil
		}
		return nil, utils.ErrInvalidStatusCancel
	}

	if wasAccepted {
		if _, err := s.ledgerRepo.Release(ctx, booking.TripID, booking.Seats); err != nil {
			s.logger.WithBookingID(bookingID).WithError(err).Error("Failed to release seats on cancel")
		}
	}

	s.logger.WithBookingID(bookingID).WithFields(map[string]interface{}{
		"was_accepted":  wasAccepted,
		"refund_needed": refundNeeded,
	}).Info("Booking request canceled by passenger")

	return canceled, nil
}

func (s *bookingRequestService) Get(ctx context.Context, bookingID primitive.ObjectID) (*models.BookingRequest, error) {
	return s.bookingRepo.GetByID(ctx, bookingID)
}

func (s *bookingRequestService) ListByTrip(ctx context.Context, tripID, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.BookingRequest, int64, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, 0, err
	}
	if trip.DriverID != driverID {
		return nil, 0, utils.ErrForbiddenOwner
	}

	return s.bookingRepo.GetByTrip(ctx, tripID, params)
}

func (s *bookingRequestService) ListByPassenger(ctx context.Context, passengerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.BookingRequest, int64, error) {
	return s.bookingRepo.GetByPassenger(ctx, passengerID, params)
}

// withinRefundWindow decides the internal refund flag for an accepted
// booking: a cancellation at least refundCutoff before departure is still
// refund-eligible, later ones are not.
func (s *bookingRequestService) withinRefundWindow(ctx context.Context, booking *models.BookingRequest) bool {
	trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
	if err != nil {
		return false
	}
	return time.Until(trip.DepartureAt) >= s.refundCutoff
}
