package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RatingAggregate is the denormalized summary of a driver's visible reviews.
// It is derived state: always recomputed from the reviews collection, never
// edited directly.
type RatingAggregate struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DriverID  primitive.ObjectID `json:"driver_id" bson:"driver_id" validate:"required"`
	AvgRating float64            `json:"avg_rating" bson:"avg_rating"`
	Count     int64              `json:"count" bson:"count"`
	// Histogram maps rating value ("1".."5") to the number of visible
	// reviews carrying it. String keys because bson map keys are strings.
	Histogram map[string]int64 `json:"histogram" bson:"histogram"`
	UpdatedAt time.Time        `json:"updated_at" bson:"updated_at"`
}

func EmptyRatingAggregate(driverID primitive.ObjectID) *RatingAggregate {
	return &RatingAggregate{
		DriverID:  driverID,
		AvgRating: 0,
		Count:     0,
		Histogram: map[string]int64{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0},
		UpdatedAt: time.Now(),
	}
}
