package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewStatus string

const (
	ReviewStatusVisible ReviewStatus = "visible"
	ReviewStatusHidden  ReviewStatus = "hidden"

	// ReviewEditWindow is how long after posting a passenger may still
	// soft-delete their own review.
	ReviewEditWindow = 24 * time.Hour
)

type Review struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TripID      primitive.ObjectID `json:"trip_id" bson:"trip_id" validate:"required"`
	DriverID    primitive.ObjectID `json:"driver_id" bson:"driver_id" validate:"required"`
	PassengerID primitive.ObjectID `json:"passenger_id" bson:"passenger_id" validate:"required"`
	Rating      int                `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Comment     string             `json:"comment" bson:"comment"`
	Status      ReviewStatus       `json:"status" bson:"status" default:"visible"`
	HiddenAt    *time.Time         `json:"hidden_at" bson:"hidden_at"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

func (r *Review) IsVisible() bool {
	return r.Status == ReviewStatusVisible
}

// WithinEditWindow reports whether the review may still be soft-deleted.
func (r *Review) WithinEditWindow(now time.Time) bool {
	return now.Sub(r.CreatedAt) <= ReviewEditWindow
}
