package interfaces

import (
	"context"

	"ridepool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error)
	GetByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.Vehicle, error)
}
