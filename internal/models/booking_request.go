package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingStatusPending             BookingStatus = "pending"
	BookingStatusAccepted            BookingStatus = "accepted"
	BookingStatusDeclined            BookingStatus = "declined"
	BookingStatusCanceledByPassenger BookingStatus = "canceled_by_passenger"
	BookingStatusExpired             BookingStatus = "expired"

	// MaxBookingNoteLength caps the free-form note a passenger may attach.
	MaxBookingNoteLength = 300
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending: {
		BookingStatusAccepted,
		BookingStatusDeclined,
		BookingStatusCanceledByPassenger,
		BookingStatusExpired,
	},
	// Accepted bookings can still be walked back by the passenger.
	BookingStatusAccepted:            {BookingStatusCanceledByPassenger},
	BookingStatusDeclined:            {},
	BookingStatusCanceledByPassenger: {},
	BookingStatusExpired:             {},
}

func (s BookingStatus) CanTransition(to BookingStatus) bool {
	for _, next := range bookingTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsActive reports whether the booking still counts against the
// one-active-request-per-passenger-per-trip rule.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusAccepted
}

func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusDeclined, BookingStatusCanceledByPassenger, BookingStatusExpired:
		return true
	}
	return false
}

type BookingRequest struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	TripID      primitive.ObjectID  `json:"trip_id" bson:"trip_id" validate:"required"`
	PassengerID primitive.ObjectID  `json:"passenger_id" bson:"passenger_id" validate:"required"`
	Status      BookingStatus       `json:"status" bson:"status" default:"pending"`
	Seats       int                 `json:"seats" bson:"seats" validate:"required,min=1"`
	Note        string              `json:"note" bson:"note" validate:"max=300"`
	AcceptedAt  *time.Time          `json:"accepted_at" bson:"accepted_at"`
	AcceptedBy  *primitive.ObjectID `json:"accepted_by" bson:"accepted_by"`
	DeclinedAt  *time.Time          `json:"declined_at" bson:"declined_at"`
	DeclinedBy  *primitive.ObjectID `json:"declined_by" bson:"declined_by"`
	CanceledAt  *time.Time          `json:"canceled_at" bson:"canceled_at"`
	ExpiredAt   *time.Time          `json:"expired_at" bson:"expired_at"`
	// RefundNeeded marks the booking for the downstream refund sweep.
	// Internal only, never serialized to API responses.
	RefundNeeded bool      `json:"-" bson:"refund_needed"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// NeedsSeatRelease reports whether canceling this booking must hand its
// seats back to the trip's ledger. Only accepted bookings ever held seats.
func (b *BookingRequest) NeedsSeatRelease() bool {
	return b.Status == BookingStatusAccepted
}
