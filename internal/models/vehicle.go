package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleStatus string

const (
	VehicleStatusActive   VehicleStatus = "active"
	VehicleStatusInactive VehicleStatus = "inactive"
)

type Vehicle struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DriverID     primitive.ObjectID `json:"driver_id" bson:"driver_id" validate:"required"`
	Make         string             `json:"make" bson:"make" validate:"required"`
	Model        string             `json:"model" bson:"model" validate:"required"`
	Year         int                `json:"year" bson:"year"`
	Color        string             `json:"color" bson:"color"`
	LicensePlate string             `json:"license_plate" bson:"license_plate" validate:"required"`
	Capacity     int                `json:"capacity" bson:"capacity" validate:"required,min=1"`
	Status       VehicleStatus      `json:"status" bson:"status" default:"active"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}
