package validators

type CreateBookingRequest struct {
	TripID string `json:"trip_id" validate:"required,object_id"`
	Seats  int    `json:"seats" validate:"required,min=1,max=8"`
	Note   string `json:"note" validate:"max=300"`
}

func ValidateCreateBookingRequest(req *CreateBookingRequest) ValidationErrors {
	return ValidateStruct(req)
}

type CreateReviewRequest struct {
	TripID  string `json:"trip_id" validate:"required,object_id"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

func ValidateCreateReviewRequest(req *CreateReviewRequest) ValidationErrors {
	return ValidateStruct(req)
}

type RunLifecycleRequest struct {
	Job      string `json:"job" validate:"omitempty,oneof=auto_complete_trips expire_pendings all"`
	TTLHours int    `json:"ttl_hours" validate:"omitempty,min=1"`
}

func ValidateRunLifecycleRequest(req *RunLifecycleRequest) ValidationErrors {
	return ValidateStruct(req)
}
