package utils

import "fmt"

// Domain error codes. These are the stable contract between the core and its
// callers; handlers map them onto HTTP statuses, clients branch on them.
const (
	// Ownership
	CodeOwnershipViolation        = "ownership_violation"
	CodeForbiddenOwner            = "forbidden_owner"
	CodeVehicleOwnershipViolation = "vehicle_ownership_violation"

	// Not found
	CodeTripNotFound    = "trip_not_found"
	CodeBookingNotFound = "booking_not_found"
	CodeVehicleNotFound = "vehicle_not_found"
	CodeUserNotFound    = "user_not_found"
	CodeReviewNotFound  = "review_not_found"

	// Temporal / state preconditions
	CodeDepartureInPast       = "departure_in_past"
	CodeInvalidTimeRange      = "invalid_time_range"
	CodeOverlappingTrip       = "overlapping_trip"
	CodeInvalidTripState      = "invalid_trip_state"
	CodeInvalidTransition     = "invalid_status_transition"
	CodeInvalidState          = "invalid_state"
	CodeInvalidStatusCancel   = "invalid_status_for_cancel"
	CodeInvalidStatusUpdate   = "invalid_status_for_update"

	// Capacity
	CodeExceedsVehicleCapacity = "exceeds_vehicle_capacity"
	CodeCapacityExceeded       = "capacity_exceeded"

	// Duplication
	CodeDuplicateRequest = "duplicate_request"

	// Terminal-state guards
	CodeAlreadyCanceled       = "already_canceled"
	CodeCannotCancelCompleted = "cannot_cancel_completed"

	// Reviews
	CodeReviewLocked    = "review_locked"
	CodeDuplicateReview = "duplicate_review"
)

// DomainError is a business-rule failure with a stable machine-readable code.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is makes errors.Is match any DomainError carrying the same code, so
// services can return fresh instances while callers compare against the
// package-level sentinels below.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

var (
	ErrOwnershipViolation        = NewDomainError(CodeOwnershipViolation, "caller does not own this resource")
	ErrForbiddenOwner            = NewDomainError(CodeForbiddenOwner, "only the trip owner may perform this action")
	ErrVehicleOwnershipViolation = NewDomainError(CodeVehicleOwnershipViolation, "vehicle does not belong to this driver")

	ErrTripNotFound    = NewDomainError(CodeTripNotFound, "trip offer not found")
	ErrBookingNotFound = NewDomainError(CodeBookingNotFound, "booking request not found")
	ErrVehicleNotFound = NewDomainError(CodeVehicleNotFound, "vehicle not found")
	ErrUserNotFound    = NewDomainError(CodeUserNotFound, "user not found")
	ErrReviewNotFound  = NewDomainError(CodeReviewNotFound, "review not found")

	ErrDepartureInPast     = NewDomainError(CodeDepartureInPast, "departure time must be in the future")
	ErrInvalidTimeRange    = NewDomainError(CodeInvalidTimeRange, "departure must be before estimated arrival")
	ErrOverlappingTrip     = NewDomainError(CodeOverlappingTrip, "driver already has a published trip in this time range")
	ErrInvalidTripState    = NewDomainError(CodeInvalidTripState, "trip is not in a state that allows this operation")
	ErrInvalidTransition   = NewDomainError(CodeInvalidTransition, "status transition is not allowed")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "resource is not in a state that allows this operation")
	ErrInvalidStatusCancel = NewDomainError(CodeInvalidStatusCancel, "booking cannot be canceled from its current status")
	ErrInvalidStatusUpdate = NewDomainError(CodeInvalidStatusUpdate, "trip cannot be updated in its current status")

	ErrExceedsVehicleCapacity = NewDomainError(CodeExceedsVehicleCapacity, "total seats exceed vehicle capacity")
	ErrCapacityExceeded       = NewDomainError(CodeCapacityExceeded, "not enough seats left on this trip")

	ErrDuplicateRequest = NewDomainError(CodeDuplicateRequest, "passenger already has an active request for this trip")

	ErrAlreadyCanceled       = NewDomainError(CodeAlreadyCanceled, "trip is already canceled")
	ErrCannotCancelCompleted = NewDomainError(CodeCannotCancelCompleted, "completed trips cannot be canceled")

	ErrReviewLocked    = NewDomainError(CodeReviewLocked, "review can no longer be removed")
	ErrDuplicateReview = NewDomainError(CodeDuplicateReview, "passenger already reviewed this trip")
)
