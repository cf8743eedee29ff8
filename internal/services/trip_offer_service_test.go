package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/utils"
	"ridepool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type tripFixture struct {
	tripRepo    *fakeTripRepo
	vehicleRepo *fakeVehicleRepo
	userRepo    *fakeUserRepo
	service     TripOfferService

	driver  *models.User
	vehicle *models.Vehicle
}

func newTripFixture(t *testing.T) *tripFixture {
	t.Helper()

	tripRepo := newFakeTripRepo()
	vehicleRepo := newFakeVehicleRepo()
	userRepo := newFakeUserRepo()

	driver := userRepo.add(&models.User{
		FirstName: "Ana",
		LastName:  "Silva",
		Email:     "ana@example.com",
		UserType:  models.UserTypeDriver,
	})
	vehicle := vehicleRepo.add(&models.Vehicle{
		DriverID: driver.ID,
		Make:     "Toyota",
		Model:    "Corolla",
		Capacity: 4,
	})

	service := NewTripOfferService(tripRepo, vehicleRepo, userRepo, true, logger.NewNopLogger())

	return &tripFixture{
		tripRepo:    tripRepo,
		vehicleRepo: vehicleRepo,
		userRepo:    userRepo,
		service:     service,
		driver:      driver,
		vehicle:     vehicle,
	}
}

func (f *tripFixture) createRequest() *CreateTripRequest {
	return &CreateTripRequest{
		DriverID:           f.driver.ID,
		VehicleID:          f.vehicle.ID,
		DepartureAt:        time.Now().Add(24 * time.Hour),
		EstimatedArrivalAt: time.Now().Add(26 * time.Hour),
		PricePerSeat:       12.50,
		TotalSeats:         3,
		Publish:            true,
	}
}

func TestCreateTrip(t *testing.T) {
	f := newTripFixture(t)

	trip, err := f.service.Create(context.Background(), f.createRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if trip.Status != models.TripStatusPublished {
		t.Errorf("expected published, got %s", trip.Status)
	}
	if trip.ID.IsZero() {
		t.Error("expected an assigned id")
	}
}

func TestCreateTripAsDraft(t *testing.T) {
	f := newTripFixture(t)

	request := f.createRequest()
	request.Publish = false
	// Past departures are fine for drafts; the check happens at publish.
	request.DepartureAt = time.Now().Add(-2 * time.Hour)
	request.EstimatedArrivalAt = time.Now().Add(-time.Hour)

	trip, err := f.service.Create(context.Background(), request)
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if trip.Status != models.TripStatusDraft {
		t.Errorf("expected draft, got %s", trip.Status)
	}
}

func TestCreateTripValidations(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()

	t.Run("passenger cannot offer trips", func(t *testing.T) {
		passenger := f.userRepo.add(&models.User{UserType: models.UserTypePassenger})
		request := f.createRequest()
		request.DriverID = passenger.ID
		_, err := f.service.Create(ctx, request)
		if !errors.Is(err, utils.ErrOwnershipViolation) {
			t.Errorf("expected ownership_violation, got %v", err)
		}
	})

	t.Run("someone else's vehicle", func(t *testing.T) {
		other := f.vehicleRepo.add(&models.Vehicle{DriverID: primitive.NewObjectID(), Capacity: 4})
		request := f.createRequest()
		request.VehicleID = other.ID
		_, err := f.service.Create(ctx, request)
		if !errors.Is(err, utils.ErrVehicleOwnershipViolation) {
			t.Errorf("expected vehicle_ownership_violation, got %v", err)
		}
	})

	t.Run("seats above vehicle capacity", func(t *testing.T) {
		request := f.createRequest()
		request.TotalSeats = 5
		_, err := f.service.Create(ctx, request)
		if !errors.Is(err, utils.ErrExceedsVehicleCapacity) {
			t.Errorf("expected exceeds_vehicle_capacity, got %v", err)
		}
	})

	t.Run("arrival before departure", func(t *testing.T) {
		request := f.createRequest()
		request.EstimatedArrivalAt = request.DepartureAt.Add(-time.Hour)
		_, err := f.service.Create(ctx, request)
		if !errors.Is(err, utils.ErrInvalidTimeRange) {
			t.Errorf("expected invalid_time_range, got %v", err)
		}
	})

	t.Run("publish with past departure", func(t *testing.T) {
		request := f.createRequest()
		request.DepartureAt = time.Now().Add(-time.Hour)
		request.EstimatedArrivalAt = time.Now().Add(time.Hour)
		_, err := f.service.Create(ctx, request)
		if !errors.Is(err, utils.ErrDepartureInPast) {
			t.Errorf("expected departure_in_past, got %v", err)
		}
	})

	t.Run("overlapping published trip", func(t *testing.T) {
		if _, err := f.service.Create(ctx, f.createRequest()); err != nil {
			t.Fatalf("seed trip: %v", err)
		}
		request := f.createRequest()
		request.DepartureAt = request.DepartureAt.Add(time.Hour)
		request.EstimatedArrivalAt = request.EstimatedArrivalAt.Add(time.Hour)
		_, err := f.service.Create(ctx, request)
		if !errors.Is(err, utils.ErrOverlappingTrip) {
			t.Errorf("expected overlapping_trip, got %v", err)
		}
	})
}

func TestPublishDraft(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()

	request := f.createRequest()
	request.Publish = false
	trip, err := f.service.Create(ctx, request)
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}

	published := models.TripStatusPublished
	updated, err := f.service.Update(ctx, trip.ID, f.driver.ID, &UpdateTripRequest{Status: &published})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if updated.Status != models.TripStatusPublished {
		t.Errorf("expected published, got %s", updated.Status)
	}
}

func TestUpdateTripGuards(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()

	trip, err := f.service.Create(ctx, f.createRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	t.Run("not the owner", func(t *testing.T) {
		price := 20.0
		_, err := f.service.Update(ctx, trip.ID, primitive.NewObjectID(), &UpdateTripRequest{PricePerSeat: &price})
		if !errors.Is(err, utils.ErrForbiddenOwner) {
			t.Errorf("expected forbidden_owner, got %v", err)
		}
	})

	t.Run("seats above vehicle capacity", func(t *testing.T) {
		seats := 9
		_, err := f.service.Update(ctx, trip.ID, f.driver.ID, &UpdateTripRequest{TotalSeats: &seats})
		if !errors.Is(err, utils.ErrExceedsVehicleCapacity) {
			t.Errorf("expected exceeds_vehicle_capacity, got %v", err)
		}
	})

	t.Run("illegal transition", func(t *testing.T) {
		draft := models.TripStatusDraft
		_, err := f.service.Update(ctx, trip.ID, f.driver.ID, &UpdateTripRequest{Status: &draft})
		if !errors.Is(err, utils.ErrInvalidTransition) {
			t.Errorf("expected invalid_status_transition, got %v", err)
		}
	})

	t.Run("terminal trip", func(t *testing.T) {
		if _, err := f.service.Cancel(ctx, trip.ID, f.driver.ID); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		price := 15.0
		_, err := f.service.Update(ctx, trip.ID, f.driver.ID, &UpdateTripRequest{PricePerSeat: &price})
		if !errors.Is(err, utils.ErrInvalidStatusUpdate) {
			t.Errorf("expected invalid_status_for_update, got %v", err)
		}
	})
}

func TestCancelTripIsNotIdempotent(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()

	trip, err := f.service.Create(ctx, f.createRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	canceled, err := f.service.Cancel(ctx, trip.ID, f.driver.ID)
	if err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if canceled.Status != models.TripStatusCanceled {
		t.Errorf("expected canceled, got %s", canceled.Status)
	}

	// Re-canceling reports the conflict instead of succeeding quietly.
	_, err = f.service.Cancel(ctx, trip.ID, f.driver.ID)
	if !errors.Is(err, utils.ErrAlreadyCanceled) {
		t.Errorf("expected already_canceled, got %v", err)
	}
}

func TestCancelCompletedTrip(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()

	trip, err := f.service.Create(ctx, f.createRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.tripRepo.UpdateStatus(ctx, trip.ID, []models.TripStatus{models.TripStatusPublished}, models.TripStatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}

	_, err = f.service.Cancel(ctx, trip.ID, f.driver.ID)
	if !errors.Is(err, utils.ErrCannotCancelCompleted) {
		t.Errorf("expected cannot_cancel_completed, got %v", err)
	}
}

func TestCancelTripNotOwner(t *testing.T) {
	f := newTripFixture(t)
	ctx := context.Background()

	trip, err := f.service.Create(ctx, f.createRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = f.service.Cancel(ctx, trip.ID, primitive.NewObjectID())
	if !errors.Is(err, utils.ErrForbiddenOwner) {
		t.Errorf("expected forbidden_owner, got %v", err)
	}
}
