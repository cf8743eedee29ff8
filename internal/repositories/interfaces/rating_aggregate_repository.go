package interfaces

import (
	"context"

	"ridepool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RatingAggregateRepository interface {
	GetByDriver(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error)

	// Recompute rebuilds the driver's aggregate from currently-visible
	// reviews and upserts it, returning the fresh aggregate. It honors a
	// session bound to ctx, so the recompute can be paired atomically
	// with a review visibility change.
	Recompute(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error)
}
