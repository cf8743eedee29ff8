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

type RatingService interface {
	CreateReview(ctx context.Context, request *CreateReviewRequest) (*models.Review, error)

	// HideReview soft-deletes the passenger's own review and recomputes
	// the driver's aggregate inside one transaction: either both writes
	// land or neither does.
	HideReview(ctx context.Context, reviewID, passengerID primitive.ObjectID) (*models.Review, error)

	RecomputeAggregate(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error)
	GetAggregate(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error)
	ListVisibleByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)
}

type ratingService struct {
	reviewRepo    interfaces.ReviewRepository
	aggregateRepo interfaces.RatingAggregateRepository
	tripRepo      interfaces.TripOfferRepository
	tx            interfaces.TxRunner
	logger        *logger.Logger
}

func NewRatingService(
	reviewRepo interfaces.ReviewRepository,
	aggregateRepo interfaces.RatingAggregateRepository,
	tripRepo interfaces.TripOfferRepository,
	tx interfaces.TxRunner,
	log *logger.Logger,
) RatingService {
	return &ratingService{
		reviewRepo:    reviewRepo,
		aggregateRepo: aggregateRepo,
		tripRepo:      tripRepo,
		tx:            tx,
		logger:        log,
	}
}

type CreateReviewRequest struct {
	TripID      primitive.ObjectID
	PassengerID primitive.ObjectID
	Rating      int
	Comment     string
}

func (s *ratingService) CreateReview(ctx context.Context, request *CreateReviewRequest) (*models.Review, error) {
	trip, err := s.tripRepo.GetByID(ctx, request.TripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != models.TripStatusCompleted {
		return nil, utils.ErrInvalidTripState
	}

	existing, err := s.reviewRepo.GetByTripAndPassenger(ctx, request.TripID, request.PassengerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ErrDuplicateReview
	}

	review := &models.Review{
		TripID:      request.TripID,
		DriverID:    trip.DriverID,
		PassengerID: request.PassengerID,
		Rating:      request.Rating,
		Comment:     request.Comment,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	if _, err := s.aggregateRepo.Recompute(ctx, trip.DriverID); err != nil {
		s.logger.WithField("driver_id", trip.DriverID.Hex()).WithError(err).
			Error("Failed to recompute rating aggregate after review creation")
	}

	s.logger.WithTripID(request.TripID).WithField("rating", request.Rating).Info("Review created")

	return review, nil
}

func (s *ratingService) HideReview(ctx context.Context, reviewID, passengerID primitive.ObjectID) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.PassengerID != passengerID {
		return nil, utils.ErrOwnershipViolation
	}
	if !review.IsVisible() {
		return nil, utils.ErrInvalidState
	}
	if !review.WithinEditWindow(time.Now()) {
		return nil, utils.ErrReviewLocked
	}

	// Both writes share the transaction bound to the callback context. A
	// failed recompute aborts the status flip too, so the aggregate never
	// disagrees with the review collection about which reviews count.
	_, err = s.tx.WithTransaction(ctx, func(txCtx context.Context) (interface{}, error) {
		if err := s.reviewRepo.SetStatus(txCtx, reviewID, models.ReviewStatusHidden); err != nil {
			return nil, err
		}
		return s.aggregateRepo.Recompute(txCtx, review.DriverID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("review_id", reviewID.Hex()).Info("Review hidden and aggregate recomputed")

	return s.reviewRepo.GetByID(ctx, reviewID)
}

func (s *ratingService) RecomputeAggregate(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error) {
	return s.aggregateRepo.Recompute(ctx, driverID)
}

func (s *ratingService) GetAggregate(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error) {
	return s.aggregateRepo.GetByDriver(ctx, driverID)
}

func (s *ratingService) ListVisibleByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	return s.reviewRepo.GetVisibleByDriver(ctx, driverID, params)
}
