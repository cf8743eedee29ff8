package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SeatLedger is the per-trip allocated-seat counter. There is exactly one
// ledger document per trip, created lazily on the first allocation attempt.
// The invariant allocated_seats <= trip.total_seats is enforced by the
// store-side conditional increment, never in process memory.
type SeatLedger struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TripID         primitive.ObjectID `json:"trip_id" bson:"trip_id" validate:"required"`
	AllocatedSeats int                `json:"allocated_seats" bson:"allocated_seats"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// Remaining returns the seats still open given the trip's capacity.
func (l *SeatLedger) Remaining(totalSeats int) int {
	remaining := totalSeats - l.AllocatedSeats
	if remaining < 0 {
		return 0
	}
	return remaining
}
