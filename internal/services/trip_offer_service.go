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

type TripOfferService interface {
	Create(ctx context.Context, request *CreateTripRequest) (*models.TripOffer, error)
	Update(ctx context.Context, tripID, driverID primitive.ObjectID, request *UpdateTripRequest) (*models.TripOffer, error)
	Cancel(ctx context.Context, tripID, driverID primitive.ObjectID) (*models.TripOffer, error)
	Get(ctx context.Context, tripID primitive.ObjectID) (*models.TripOffer, error)
	ListByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.TripOffer, int64, error)
}

type tripOfferService struct {
	tripRepo     interfaces.TripOfferRepository
	vehicleRepo  interfaces.VehicleRepository
	userRepo     interfaces.UserRepository
	overlapCheck bool
	logger       *logger.Logger
}

func NewTripOfferService(
	tripRepo interfaces.TripOfferRepository,
	vehicleRepo interfaces.VehicleRepository,
	userRepo interfaces.UserRepository,
	overlapCheck bool,
	log *logger.Logger,
) TripOfferService {
	return &tripOfferService{
		tripRepo:     tripRepo,
		vehicleRepo:  vehicleRepo,
		userRepo:     userRepo,
		overlapCheck: overlapCheck,
		logger:       log,
	}
}

type CreateTripRequest struct {
	DriverID           primitive.ObjectID
	VehicleID          primitive.ObjectID
	Origin             models.Place
	Destination        models.Place
	DepartureAt        time.Time
	EstimatedArrivalAt time.Time
	PricePerSeat       float64
	TotalSeats         int
	Publish            bool
	Notes              string
}

type UpdateTripRequest struct {
	PricePerSeat *float64
	TotalSeats   *int
	Notes        *string
	Status       *models.TripStatus
}

func (s *tripOfferService) Create(ctx context.Context, request *CreateTripRequest) (*models.TripOffer, error) {
	driver, err := s.userRepo.GetByID(ctx, request.DriverID)
	if err != nil {
		return nil, err
	}
	if !driver.IsDriver() {
		return nil, utils.ErrOwnershipViolation
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, request.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.DriverID != request.DriverID {
		return nil, utils.ErrVehicleOwnershipViolation
	}
	if request.TotalSeats > vehicle.Capacity {
		return nil, utils.ErrExceedsVehicleCapacity
	}

	if !request.DepartureAt.Before(request.EstimatedArrivalAt) {
		return nil, utils.ErrInvalidTimeRange
	}

	status := models.TripStatusDraft
	if request.Publish {
		if !request.DepartureAt.After(time.Now()) {
			return nil, utils.ErrDepartureInPast
		}
		status = models.TripStatusPublished
	}

	if s.overlapCheck {
		overlapping, err := s.tripRepo.FindOverlapping(ctx, request.DriverID, request.DepartureAt, request.EstimatedArrivalAt, nil)
		if err != nil {
			return nil, err
		}
		if len(overlapping) > 0 {
			return nil, utils.ErrOverlappingTrip
		}
	}

	trip := &models.TripOffer{
		DriverID:           request.DriverID,
		VehicleID:          request.VehicleID,
		Origin:             request.Origin,
		Destination:        request.Destination,
		DepartureAt:        request.DepartureAt,
		EstimatedArrivalAt: request.EstimatedArrivalAt,
		PricePerSeat:       request.PricePerSeat,
		TotalSeats:         request.TotalSeats,
		Status:             status,
		Notes:              request.Notes,
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	s.logger.WithTripID(trip.ID).WithField("status", trip.Status).Info("Trip offer created")

	return trip, nil
}

func (s *tripOfferService) Update(ctx context.Context, tripID, driverID primitive.ObjectID, request *UpdateTripRequest) (*models.TripOffer, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.DriverID != driverID {
		return nil, utils.ErrForbiddenOwner
	}
	if trip.Status.IsTerminal() {
		return nil, utils.ErrInvalidStatusUpdate
	}

	updates := make(map[string]interface{})

	if request.PricePerSeat != nil {
		updates["price_per_seat"] = *request.PricePerSeat
	}

	if request.TotalSeats != nil {
		vehicle, err := s.vehicleRepo.GetByID(ctx, trip.VehicleID)
		if err != nil {
			return nil, err
		}
		if *request.TotalSeats > vehicle.Capacity {
			return nil, utils.ErrExceedsVehicleCapacity
		}
		updates["total_seats"] = *request.TotalSeats
	}

	if request.Notes != nil {
		updates["notes"] = *request.Notes
	}

	if request.Status != nil {
		to := *request.Status
		if !to.IsValid() || !trip.Status.CanTransition(to) {
			return nil, utils.ErrInvalidTransition
		}
		if to == models.TripStatusPublished {
			// Publishing a draft re-validates departure-in-future.
			if !trip.DepartsAfter(time.Now()) {
				return nil, utils.ErrDepartureInPast
			}
			if s.overlapCheck {
				overlapping, err := s.tripRepo.FindOverlapping(ctx, driverID, trip.DepartureAt, trip.EstimatedArrivalAt, &trip.ID)
				if err != nil {
					return nil, err
				}
				if len(overlapping) > 0 {
					return nil, utils.ErrOverlappingTrip
				}
			}
		}

		updated, err := s.tripRepo.UpdateStatus(ctx, tripID, []models.TripStatus{trip.Status}, to)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			// Lost a race with another transition.
			return nil, utils.ErrInvalidTransition
		}
		trip = updated
	}

	if len(updates) > 0 {
		if err := s.tripRepo.Update(ctx, tripID, updates); err != nil {
			return nil, err
		}
		trip, err = s.tripRepo.GetByID(ctx, tripID)
		if err != nil {
			return nil, err
		}
	}

	s.logger.WithTripID(tripID).Info("Trip offer updated")

	return trip, nil
}

// Cancel is deliberately not idempotent: re-canceling reports already_canceled
// so the caller learns they are acting on stale state.
func (s *tripOfferService) Cancel(ctx context.Context, tripID, driverID primitive.ObjectID) (*models.TripOffer, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.DriverID != driverID {
		return nil, utils.ErrForbiddenOwner
	}

	switch trip.Status {
	case models.TripStatusCanceled:
		return nil, utils.ErrAlreadyCanceled
	case models.TripStatusCompleted:
		return nil, utils.ErrCannotCancelCompleted
	}

	canceled, err := s.tripRepo.UpdateStatus(ctx, tripID, []models.TripStatus{models.TripStatusDraft, models.TripStatusPublished}, models.TripStatusCanceled)
	if err != nil {
		return nil, err
	}
	if canceled == nil {
		// Someone else moved the trip first; re-read to report the right guard.
		fresh, err := s.tripRepo.GetByID(ctx, tripID)
		if err != nil {
			return nil, err
		}
		if fresh.Status == models.TripStatusCompleted {
			return nil, utils.ErrCannotCancelCompleted
		}
		return nil, utils.ErrAlreadyCanceled
	}

	s.logger.WithTripID(tripID).Info("Trip offer canceled")

	return canceled, nil
}

func (s *tripOfferService) Get(ctx context.Context, tripID primitive.ObjectID) (*models.TripOffer, error) {
	return s.tripRepo.GetByID(ctx, tripID)
}

func (s *tripOfferService) ListByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.TripOffer, int64, error) {
	return s.tripRepo.GetByDriver(ctx, driverID, params)
}
