package validators

import (
	"time"
)

type PlaceRequest struct {
	Text      string  `json:"text" validate:"required,min=2,max=255"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

type CreateTripRequest struct {
	VehicleID          string       `json:"vehicle_id" validate:"required,object_id"`
	Origin             PlaceRequest `json:"origin" validate:"required"`
	Destination        PlaceRequest `json:"destination" validate:"required"`
	DepartureAt        time.Time    `json:"departure_at" validate:"required"`
	EstimatedArrivalAt time.Time    `json:"estimated_arrival_at" validate:"required"`
	PricePerSeat       float64      `json:"price_per_seat" validate:"min=0"`
	TotalSeats         int          `json:"total_seats" validate:"required,min=1"`
	Publish            bool         `json:"publish"`
	Notes              string       `json:"notes" validate:"max=500"`
}

type UpdateTripRequest struct {
	PricePerSeat *float64 `json:"price_per_seat" validate:"omitempty,min=0"`
	TotalSeats   *int     `json:"total_seats" validate:"omitempty,min=1"`
	Notes        *string  `json:"notes" validate:"omitempty,max=500"`
	Status       *string  `json:"status" validate:"omitempty,oneof=draft published canceled completed"`
}

func ValidateCreateTripRequest(req *CreateTripRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if !req.DepartureAt.IsZero() && !req.EstimatedArrivalAt.IsZero() &&
		!req.DepartureAt.Before(req.EstimatedArrivalAt) {
		errors = append(errors, ValidationError{
			Field:   "estimated_arrival_at",
			Tag:     "time_range",
			Message: "departure must be before estimated arrival",
		})
	}

	return errors
}

func ValidateUpdateTripRequest(req *UpdateTripRequest) ValidationErrors {
	return ValidateStruct(req)
}
