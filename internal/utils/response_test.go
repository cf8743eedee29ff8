package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func recordDomainError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	DomainErrorResponse(c, err)
	return recorder
}

func TestDomainErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{ErrTripNotFound, http.StatusNotFound},
		{ErrBookingNotFound, http.StatusNotFound},
		{ErrOwnershipViolation, http.StatusForbidden},
		{ErrForbiddenOwner, http.StatusForbidden},
		{ErrCapacityExceeded, http.StatusConflict},
		{ErrDuplicateRequest, http.StatusConflict},
		{ErrAlreadyCanceled, http.StatusConflict},
		{ErrCannotCancelCompleted, http.StatusConflict},
		{ErrReviewLocked, http.StatusConflict},
		{ErrExceedsVehicleCapacity, http.StatusUnprocessableEntity},
		{ErrDepartureInPast, http.StatusBadRequest},
		{ErrInvalidTimeRange, http.StatusBadRequest},
	}

	for _, tc := range cases {
		if recorder := recordDomainError(tc.err); recorder.Code != tc.status {
			t.Errorf("%v: got %d, want %d", tc.err, recorder.Code, tc.status)
		}
	}
}

func TestUnknownErrorsBecome500(t *testing.T) {
	recorder := recordDomainError(errors.New("driver disconnected"))
	if recorder.Code != http.StatusInternalServerError {
		t.Errorf("got %d, want 500", recorder.Code)
	}
}

func TestWrappedDomainErrorsStillMap(t *testing.T) {
	wrapped := fmt.Errorf("accepting booking: %w", ErrCapacityExceeded)
	if recorder := recordDomainError(wrapped); recorder.Code != http.StatusConflict {
		t.Errorf("got %d, want 409", recorder.Code)
	}
}

func TestDomainErrorIsMatchesByCode(t *testing.T) {
	same := NewDomainError(CodeCapacityExceeded, "different message")
	if !errors.Is(same, ErrCapacityExceeded) {
		t.Error("errors with the same code should match")
	}
	if errors.Is(ErrTripNotFound, ErrBookingNotFound) {
		t.Error("different codes must not match")
	}
}
