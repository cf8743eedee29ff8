package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserType string
type UserStatus string

const (
	UserTypePassenger UserType = "passenger"
	UserTypeDriver    UserType = "driver"
	UserTypeAdmin     UserType = "admin"

	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FirstName string             `json:"first_name" bson:"first_name" validate:"required"`
	LastName  string             `json:"last_name" bson:"last_name" validate:"required"`
	Email     string             `json:"email" bson:"email" validate:"required,email"`
	Phone     string             `json:"phone" bson:"phone"`
	UserType  UserType           `json:"user_type" bson:"user_type" validate:"required"`
	Status    UserStatus         `json:"status" bson:"status" default:"active"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

func (u *User) IsDriver() bool {
	return u.UserType == UserTypeDriver
}

func (u *User) IsPassenger() bool {
	return u.UserType == UserTypePassenger
}
