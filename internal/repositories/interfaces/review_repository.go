package interfaces

import (
	"context"

	"ridepool/internal/models"
	"ridepool/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	GetByTripAndPassenger(ctx context.Context, tripID, passengerID primitive.ObjectID) (*models.Review, error)
	GetVisibleByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)

	// SetStatus flips the review's visibility. It honors a session bound
	// to ctx, so it can participate in the hide+recompute transaction.
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.ReviewStatus) error
}
