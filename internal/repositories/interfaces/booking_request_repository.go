package interfaces

import (
	"context"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingRequestRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, booking *models.BookingRequest) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.BookingRequest, error)
	GetByTrip(ctx context.Context, tripID primitive.ObjectID, params *utils.PaginationParams) ([]*models.BookingRequest, int64, error)
	GetByPassenger(ctx context.Context, passengerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.BookingRequest, int64, error)

	// FindActiveBooking returns the passenger's pending or accepted booking
	// for the trip, or nil when there is none.
	FindActiveBooking(ctx context.Context, passengerID, tripID primitive.ObjectID) (*models.BookingRequest, error)

	// CountActiveSeats sums the seats of all pending and accepted bookings
	// on the trip. Advisory only: reads race with concurrent writes.
	CountActiveSeats(ctx context.Context, tripID primitive.ObjectID) (int, error)

	// Accept, Decline and Cancel are single conditional document updates.
	// Each applies only while the stored status matches the operation's
	// precondition and returns the post-image, or nil when the filter
	// matched nothing (the booking changed under the caller).
	Accept(ctx context.Context, id, driverID primitive.ObjectID) (*models.BookingRequest, error)
	Decline(ctx context.Context, id, driverID primitive.ObjectID) (*models.BookingRequest, error)
	Cancel(ctx context.Context, id primitive.ObjectID, refundNeeded bool) (*models.BookingRequest, error)

	// ExpireOlderThan transitions every pending booking created at or
	// before cutoff to expired, returning how many moved.
	ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
