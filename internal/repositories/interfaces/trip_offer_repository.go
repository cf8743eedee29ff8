package interfaces

import (
	"context"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TripOfferRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, trip *models.TripOffer) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.TripOffer, error)
	GetByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.TripOffer, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// FindOverlapping returns the driver's published trips whose
	// [departure, arrival) interval intersects the given one, excluding
	// excludeID when non-nil (so updates don't collide with themselves).
	FindOverlapping(ctx context.Context, driverID primitive.ObjectID, departureAt, estimatedArrivalAt time.Time, excludeID *primitive.ObjectID) ([]*models.TripOffer, error)

	// UpdateStatus transitions the trip conditionally: the write only
	// applies while the stored status is one of fromStatuses. Returns the
	// post-image, or nil when the precondition no longer held.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, fromStatuses []models.TripStatus, to models.TripStatus) (*models.TripOffer, error)

	// CompletePastTrips transitions every published trip whose estimated
	// arrival is at or before now to completed, returning how many moved.
	CompletePastTrips(ctx context.Context, now time.Time) (int64, error)
}
