package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TripStatus string

const (
	TripStatusDraft     TripStatus = "draft"
	TripStatusPublished TripStatus = "published"
	TripStatusCanceled  TripStatus = "canceled"
	TripStatusCompleted TripStatus = "completed"
)

// tripTransitions is the only legal movement between trip states.
// Canceled and completed are terminal.
var tripTransitions = map[TripStatus][]TripStatus{
	TripStatusDraft:     {TripStatusPublished, TripStatusCanceled},
	TripStatusPublished: {TripStatusCanceled, TripStatusCompleted},
	TripStatusCanceled:  {},
	TripStatusCompleted: {},
}

func (s TripStatus) CanTransition(to TripStatus) bool {
	for _, next := range tripTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s TripStatus) IsTerminal() bool {
	return s == TripStatusCanceled || s == TripStatusCompleted
}

func (s TripStatus) IsValid() bool {
	switch s {
	case TripStatusDraft, TripStatusPublished, TripStatusCanceled, TripStatusCompleted:
		return true
	}
	return false
}

type TripOffer struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DriverID           primitive.ObjectID `json:"driver_id" bson:"driver_id" validate:"required"`
	VehicleID          primitive.ObjectID `json:"vehicle_id" bson:"vehicle_id" validate:"required"`
	Origin             Place              `json:"origin" bson:"origin" validate:"required"`
	Destination        Place              `json:"destination" bson:"destination" validate:"required"`
	DepartureAt        time.Time          `json:"departure_at" bson:"departure_at" validate:"required"`
	EstimatedArrivalAt time.Time          `json:"estimated_arrival_at" bson:"estimated_arrival_at" validate:"required"`
	PricePerSeat       float64            `json:"price_per_seat" bson:"price_per_seat" validate:"min=0"`
	TotalSeats         int                `json:"total_seats" bson:"total_seats" validate:"required,min=1"`
	Status             TripStatus         `json:"status" bson:"status" default:"draft"`
	Notes              string             `json:"notes" bson:"notes"`
	CompletedAt        *time.Time         `json:"completed_at" bson:"completed_at"`
	CanceledAt         *time.Time         `json:"canceled_at" bson:"canceled_at"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updated_at"`
}

func (t *TripOffer) IsPublished() bool {
	return t.Status == TripStatusPublished
}

// DepartsAfter reports whether the trip departs strictly after the given instant.
func (t *TripOffer) DepartsAfter(now time.Time) bool {
	return t.DepartureAt.After(now)
}

// HasValidTimeRange enforces departureAt < estimatedArrivalAt.
func (t *TripOffer) HasValidTimeRange() bool {
	return t.DepartureAt.Before(t.EstimatedArrivalAt)
}

// Overlaps tests interval overlap on [departureAt, estimatedArrivalAt).
func (t *TripOffer) Overlaps(departureAt, estimatedArrivalAt time.Time) bool {
	return t.DepartureAt.Before(estimatedArrivalAt) && departureAt.Before(t.EstimatedArrivalAt)
}
