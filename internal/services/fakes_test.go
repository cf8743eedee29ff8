package services

import (
	"context"
	"sync"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the store semantics the services
// depend on: conditional updates return the post-image or nil when the
// precondition no longer holds, and the ledger's Allocate is atomic under
// its mutex.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) add(user *models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, utils.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

type fakeVehicleRepo struct {
	mu       sync.Mutex
	vehicles map[primitive.ObjectID]*models.Vehicle
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: make(map[primitive.ObjectID]*models.Vehicle)}
}

func (r *fakeVehicleRepo) add(vehicle *models.Vehicle) *models.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()
	if vehicle.ID.IsZero() {
		vehicle.ID = primitive.NewObjectID()
	}
	r.vehicles[vehicle.ID] = vehicle
	return vehicle
}

func (r *fakeVehicleRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vehicle, ok := r.vehicles[id]
	if !ok {
		return nil, utils.ErrVehicleNotFound
	}
	copied := *vehicle
	return &copied, nil
}

func (r *fakeVehicleRepo) GetByDriver(_ context.Context, driverID primitive.ObjectID) ([]*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Vehicle
	for _, vehicle := range r.vehicles {
		if vehicle.DriverID == driverID {
			copied := *vehicle
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeTripRepo struct {
	mu    sync.Mutex
	trips map[primitive.ObjectID]*models.TripOffer
}

func newFakeTripRepo() *fakeTripRepo {
	return &fakeTripRepo{trips: make(map[primitive.ObjectID]*models.TripOffer)}
}

func (r *fakeTripRepo) add(trip *models.TripOffer) *models.TripOffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if trip.ID.IsZero() {
		trip.ID = primitive.NewObjectID()
	}
	if trip.Status == "" {
		trip.Status = models.TripStatusDraft
	}
	r.trips[trip.ID] = trip
	return trip
}

func (r *fakeTripRepo) Create(_ context.Context, trip *models.TripOffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	trip.ID = primitive.NewObjectID()
	if trip.Status == "" {
		trip.Status = models.TripStatusDraft
	}
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = trip.CreatedAt
	copied := *trip
	r.trips[trip.ID] = &copied
	return nil
}

func (r *fakeTripRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.TripOffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	trip, ok := r.trips[id]
	if !ok {
		return nil, utils.ErrTripNotFound
	}
	copied := *trip
	return &copied, nil
}

func (r *fakeTripRepo) GetByDriver(_ context.Context, driverID primitive.ObjectID, _ *utils.PaginationParams) ([]*models.TripOffer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.TripOffer
	for _, trip := range r.trips {
		if trip.DriverID == driverID {
			copied := *trip
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeTripRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	trip, ok := r.trips[id]
	if !ok {
		return utils.ErrTripNotFound
	}
	for key, value := range updates {
		switch key {
		case "price_per_seat":
			trip.PricePerSeat = value.(float64)
		case "total_seats":
			trip.TotalSeats = value.(int)
		case "notes":
			trip.Notes = value.(string)
		}
	}
	trip.UpdatedAt = time.Now()
	return nil
}

func (r *fakeTripRepo) FindOverlapping(_ context.Context, driverID primitive.ObjectID, departureAt, estimatedArrivalAt time.Time, excludeID *primitive.ObjectID) ([]*models.TripOffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.TripOffer
	for _, trip := range r.trips {
		if trip.DriverID != driverID || trip.Status != models.TripStatusPublished {
			continue
		}
		if excludeID != nil && trip.ID == *excludeID {
			continue
		}
		if trip.Overlaps(departureAt, estimatedArrivalAt) {
			copied := *trip
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeTripRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, fromStatuses []models.TripStatus, to models.TripStatus) (*models.TripOffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	trip, ok := r.trips[id]
	if !ok {
		return nil, utils.ErrTripNotFound
	}
	matched := false
	for _, from := range fromStatuses {
		if trip.Status == from {
			matched = true
			break
		}
	}
	if !matched {
		return nil, nil
	}
	trip.Status = to
	now := time.Now()
	trip.UpdatedAt = now
	switch to {
	case models.TripStatusCompleted:
		trip.CompletedAt = &now
	case models.TripStatusCanceled:
		trip.CanceledAt = &now
	}
	copied := *trip
	return &copied, nil
}

func (r *fakeTripRepo) CompletePastTrips(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, trip := range r.trips {
		if trip.Status == models.TripStatusPublished && !trip.EstimatedArrivalAt.After(now) {
			trip.Status = models.TripStatusCompleted
			completedAt := now
			trip.CompletedAt = &completedAt
			trip.UpdatedAt = now
			count++
		}
	}
	return count, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[primitive.ObjectID]*models.BookingRequest
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[primitive.ObjectID]*models.BookingRequest)}
}

func (r *fakeBookingRepo) add(booking *models.BookingRequest) *models.BookingRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	if booking.Status == "" {
		booking.Status = models.BookingStatusPending
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}
	r.bookings[booking.ID] = booking
	return booking
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *models.BookingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking.ID = primitive.NewObjectID()
	booking.Status = models.BookingStatusPending
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	copied := *booking
	r.bookings[booking.ID] = &copied
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.BookingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, utils.ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func (r *fakeBookingRepo) GetByTrip(_ context.Context, tripID primitive.ObjectID, _ *utils.PaginationParams) ([]*models.BookingRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.BookingRequest
	for _, booking := range r.bookings {
		if booking.TripID == tripID {
			copied := *booking
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) GetByPassenger(_ context.Context, passengerID primitive.ObjectID, _ *utils.PaginationParams) ([]*models.BookingRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.BookingRequest
	for _, booking := range r.bookings {
		if booking.PassengerID == passengerID {
			copied := *booking
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) FindActiveBooking(_ context.Context, passengerID, tripID primitive.ObjectID) (*models.BookingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, booking := range r.bookings {
		if booking.PassengerID == passengerID && booking.TripID == tripID && booking.Status.IsActive() {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) CountActiveSeats(_ context.Context, tripID primitive.ObjectID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, booking := range r.bookings {
		if booking.TripID == tripID && booking.Status.IsActive() {
			total += booking.Seats
		}
	}
	return total, nil
}

func (r *fakeBookingRepo) Accept(_ context.Context, id, driverID primitive.ObjectID) (*models.BookingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, utils.ErrBookingNotFound
	}
	if booking.Status != models.BookingStatusPending {
		return nil, nil
	}
	now := time.Now()
	booking.Status = models.BookingStatusAccepted
	booking.AcceptedAt = &now
	booking.AcceptedBy = &driverID
	booking.UpdatedAt = now
	copied := *booking
	return &copied, nil
}

func (r *fakeBookingRepo) Decline(_ context.Context, id, driverID primitive.ObjectID) (*models.BookingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, utils.ErrBookingNotFound
	}
	if booking.Status != models.BookingStatusPending {
		return nil, nil
	}
	now := time.Now()
	booking.Status = models.BookingStatusDeclined
	booking.DeclinedAt = &now
	booking.DeclinedBy = &driverID
	booking.UpdatedAt = now
	copied := *booking
	return &copied, nil
}

func (r *fakeBookingRepo) Cancel(_ context.Context, id primitive.ObjectID, refundNeeded bool) (*models.BookingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, utils.ErrBookingNotFound
	}
	if !booking.Status.IsActive() {
		return nil, nil
	}
	now := time.Now()
	booking.Status = models.BookingStatusCanceledByPassenger
	booking.CanceledAt = &now
	booking.RefundNeeded = refundNeeded
	booking.UpdatedAt = now
	copied := *booking
	return &copied, nil
}

func (r *fakeBookingRepo) ExpireOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, booking := range r.bookings {
		if booking.Status == models.BookingStatusPending && !booking.CreatedAt.After(cutoff) {
			now := time.Now()
			booking.Status = models.BookingStatusExpired
			booking.ExpiredAt = &now
			booking.UpdatedAt = now
			count++
		}
	}
	return count, nil
}

type fakeLedgerRepo struct {
	mu      sync.Mutex
	ledgers map[primitive.ObjectID]*models.SeatLedger
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{ledgers: make(map[primitive.ObjectID]*models.SeatLedger)}
}

func (r *fakeLedgerRepo) getOrCreateLocked(tripID primitive.ObjectID) *models.SeatLedger {
	ledger, ok := r.ledgers[tripID]
	if !ok {
		ledger = &models.SeatLedger{
			ID:        primitive.NewObjectID(),
			TripID:    tripID,
			UpdatedAt: time.Now(),
		}
		r.ledgers[tripID] = ledger
	}
	return ledger
}

func (r *fakeLedgerRepo) GetOrCreate(_ context.Context, tripID primitive.ObjectID) (*models.SeatLedger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *r.getOrCreateLocked(tripID)
	return &copied, nil
}

func (r *fakeLedgerRepo) GetByTrip(_ context.Context, tripID primitive.ObjectID) (*models.SeatLedger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ledger, ok := r.ledgers[tripID]
	if !ok {
		return nil, nil
	}
	copied := *ledger
	return &copied, nil
}

func (r *fakeLedgerRepo) Allocate(_ context.Context, tripID primitive.ObjectID, totalSeats, seats int) (*models.SeatLedger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ledger := r.getOrCreateLocked(tripID)
	if ledger.AllocatedSeats+seats > totalSeats {
		return nil, nil
	}
	ledger.AllocatedSeats += seats
	ledger.UpdatedAt = time.Now()
	copied := *ledger
	return &copied, nil
}

func (r *fakeLedgerRepo) Release(_ context.Context, tripID primitive.ObjectID, seats int) (*models.SeatLedger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ledger, ok := r.ledgers[tripID]
	if !ok || ledger.AllocatedSeats < seats {
		return nil, nil
	}
	ledger.AllocatedSeats -= seats
	ledger.UpdatedAt = time.Now()
	copied := *ledger
	return &copied, nil
}

func (r *fakeLedgerRepo) allocated(tripID primitive.ObjectID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	ledger, ok := r.ledgers[tripID]
	if !ok {
		return 0
	}
	return ledger.AllocatedSeats
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[primitive.ObjectID]*models.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[primitive.ObjectID]*models.Review)}
}

func (r *fakeReviewRepo) add(review *models.Review) *models.Review {
	r.mu.Lock()
	defer r.mu.Unlock()
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	if review.Status == "" {
		review.Status = models.ReviewStatusVisible
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}
	r.reviews[review.ID] = review
	return review
}

func (r *fakeReviewRepo) Create(_ context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review.ID = primitive.NewObjectID()
	review.Status = models.ReviewStatusVisible
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	copied := *review
	r.reviews[review.ID] = &copied
	return nil
}

func (r *fakeReviewRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, utils.ErrReviewNotFound
	}
	copied := *review
	return &copied, nil
}

func (r *fakeReviewRepo) GetByTripAndPassenger(_ context.Context, tripID, passengerID primitive.ObjectID) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, review := range r.reviews {
		if review.TripID == tripID && review.PassengerID == passengerID {
			copied := *review
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeReviewRepo) GetVisibleByDriver(_ context.Context, driverID primitive.ObjectID, _ *utils.PaginationParams) ([]*models.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Review
	for _, review := range r.reviews {
		if review.DriverID == driverID && review.Status == models.ReviewStatusVisible {
			copied := *review
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeReviewRepo) SetStatus(_ context.Context, id primitive.ObjectID, status models.ReviewStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return utils.ErrReviewNotFound
	}
	review.Status = status
	now := time.Now()
	if status == models.ReviewStatusHidden {
		review.HiddenAt = &now
	}
	review.UpdatedAt = now
	return nil
}

func (r *fakeReviewRepo) snapshot() map[primitive.ObjectID]models.Review {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[primitive.ObjectID]models.Review, len(r.reviews))
	for id, review := range r.reviews {
		out[id] = *review
	}
	return out
}

func (r *fakeReviewRepo) restore(snap map[primitive.ObjectID]models.Review) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews = make(map[primitive.ObjectID]*models.Review, len(snap))
	for id, review := range snap {
		copied := review
		r.reviews[id] = &copied
	}
}

type fakeAggregateRepo struct {
	mu         sync.Mutex
	reviews    *fakeReviewRepo
	aggregates map[primitive.ObjectID]*models.RatingAggregate

	// recomputeErr forces the next Recompute to fail, simulating a
	// store error mid-transaction.
	recomputeErr error
}

func newFakeAggregateRepo(reviews *fakeReviewRepo) *fakeAggregateRepo {
	return &fakeAggregateRepo{
		reviews:    reviews,
		aggregates: make(map[primitive.ObjectID]*models.RatingAggregate),
	}
}

func (r *fakeAggregateRepo) GetByDriver(_ context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	aggregate, ok := r.aggregates[driverID]
	if !ok {
		return models.EmptyRatingAggregate(driverID), nil
	}
	copied := *aggregate
	return &copied, nil
}

func (r *fakeAggregateRepo) Recompute(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error) {
	r.mu.Lock()
	if r.recomputeErr != nil {
		err := r.recomputeErr
		r.mu.Unlock()
		return nil, err
	}
	r.mu.Unlock()

	visible, _, err := r.reviews.GetVisibleByDriver(ctx, driverID, nil)
	if err != nil {
		return nil, err
	}

	aggregate := models.EmptyRatingAggregate(driverID)
	var sum int64
	for _, review := range visible {
		key := ratingKey(review.Rating)
		aggregate.Histogram[key]++
		aggregate.Count++
		sum += int64(review.Rating)
	}
	if aggregate.Count > 0 {
		aggregate.AvgRating = float64(sum) / float64(aggregate.Count)
	}

	r.mu.Lock()
	r.aggregates[driverID] = aggregate
	r.mu.Unlock()

	copied := *aggregate
	return &copied, nil
}

func ratingKey(rating int) string {
	return string(rune('0' + rating))
}

func (r *fakeAggregateRepo) snapshot() map[primitive.ObjectID]models.RatingAggregate {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[primitive.ObjectID]models.RatingAggregate, len(r.aggregates))
	for id, aggregate := range r.aggregates {
		out[id] = *aggregate
	}
	return out
}

func (r *fakeAggregateRepo) restore(snap map[primitive.ObjectID]models.RatingAggregate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aggregates = make(map[primitive.ObjectID]*models.RatingAggregate, len(snap))
	for id, aggregate := range snap {
		copied := aggregate
		r.aggregates[id] = &copied
	}
}

// fakeTxRunner snapshots the review and aggregate stores before running fn
// and restores both when fn fails, mirroring transaction abort semantics.
type fakeTxRunner struct {
	reviews    *fakeReviewRepo
	aggregates *fakeAggregateRepo
}

func (t *fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	reviewSnap := t.reviews.snapshot()
	aggregateSnap := t.aggregates.snapshot()

	result, err := fn(ctx)
	if err != nil {
		t.reviews.restore(reviewSnap)
		t.aggregates.restore(aggregateSnap)
		return nil, err
	}
	return result, nil
}
