package utils

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status    string      `json:"status"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Meta      *Meta       `json:"meta,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type Meta struct {
	Pagination *PaginationMeta `json:"pagination,omitempty"`
	Total      int64           `json:"total,omitempty"`
	Count      int             `json:"count,omitempty"`
}

func SuccessResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Status:    StatusSuccess,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func SuccessResponseWithMeta(c *gin.Context, message string, data interface{}, meta *Meta) {
	c.JSON(http.StatusOK, APIResponse{
		Status:    StatusSuccess,
		Message:   message,
		Data:      data,
		Meta:      meta,
		Timestamp: time.Now(),
	})
}

func CreatedResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Status:    StatusSuccess,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, APIResponse{
		Status: StatusError,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Timestamp: time.Now(),
	})
}

func ValidationErrorResponse(c *gin.Context, details map[string]string) {
	c.JSON(http.StatusBadRequest, APIResponse{
		Status: StatusError,
		Error: &APIError{
			Code:    "validation_error",
			Message: "request validation failed",
			Details: details,
		},
		Timestamp: time.Now(),
	})
}

func UnauthorizedResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusUnauthorized, "unauthorized", "authentication required")
}

func ForbiddenResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusForbidden, "forbidden", "not allowed")
}

func InternalServerErrorResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusInternalServerError, "internal_error", "something went wrong")
}

// DomainErrorResponse maps a service error to the HTTP boundary. Unknown
// errors fall through to a 500 without leaking internals.
func DomainErrorResponse(c *gin.Context, err error) {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		InternalServerErrorResponse(c)
		return
	}

	status := http.StatusBadRequest
	switch domainErr.Code {
	case CodeTripNotFound, CodeBookingNotFound, CodeVehicleNotFound, CodeUserNotFound, CodeReviewNotFound:
		status = http.StatusNotFound
	case CodeOwnershipViolation, CodeForbiddenOwner, CodeVehicleOwnershipViolation:
		status = http.StatusForbidden
	case CodeCapacityExceeded, CodeDuplicateRequest, CodeDuplicateReview,
		CodeAlreadyCanceled, CodeCannotCancelCompleted,
		CodeInvalidState, CodeInvalidTripState, CodeInvalidTransition,
		CodeInvalidStatusCancel, CodeInvalidStatusUpdate, CodeReviewLocked:
		status = http.StatusConflict
	case CodeExceedsVehicleCapacity:
		status = http.StatusUnprocessableEntity
	}

	ErrorResponse(c, status, domainErr.Code, domainErr.Message)
}
