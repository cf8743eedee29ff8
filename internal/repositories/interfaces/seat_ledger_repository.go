package interfaces

import (
	"context"

	"ridepool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SeatLedgerRepository interface {
	// GetOrCreate lazily ensures a ledger exists for the trip with
	// allocated_seats = 0 and returns it.
	GetOrCreate(ctx context.Context, tripID primitive.ObjectID) (*models.SeatLedger, error)
	GetByTrip(ctx context.Context, tripID primitive.ObjectID) (*models.SeatLedger, error)

	// Allocate increments allocated_seats by seats in one atomic
	// conditional update that only applies while
	// allocated_seats + seats <= totalSeats. On success it returns the
	// post-image; when the condition fails nothing is written and it
	// returns (nil, nil) — the capacity-exceeded sentinel.
	Allocate(ctx context.Context, tripID primitive.ObjectID, totalSeats, seats int) (*models.SeatLedger, error)

	// Release hands seats back using the same conditional-update
	// primitive, floored so the counter never goes negative. Returns the
	// post-image, or nil when the ledger held fewer seats than requested.
	Release(ctx context.Context, tripID primitive.ObjectID, seats int) (*models.SeatLedger, error)
}
