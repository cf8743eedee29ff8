package mongodb

import (
	"context"
	"fmt"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"
	"ridepool/internal/services"
	"ridepool/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type bookingRequestRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewBookingRequestRepository(db *mongo.Database, cache services.CacheService) interfaces.BookingRequestRepository {
	return &bookingRequestRepository{
		collection: db.Collection("booking_requests"),
		cache:      cache,
	}
}

// Basic CRUD operations
func (r *bookingRequestRepository) Create(ctx context.Context, booking *models.BookingRequest) error {
	booking.ID = primitive.NewObjectID()
	booking.Status = models.BookingStatusPending
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt

	_, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking request: %w", err)
	}

	return nil
}

func (r *bookingRequestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.BookingRequest, error) {
	if booking := r.getBookingFromCache(ctx, id.Hex()); booking != nil {
		return booking, nil
	}

	var booking models.BookingRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking request: %w", err)
	}

	if booking.Status.IsActive() {
		r.cacheBooking(ctx, &booking)
	}

	return &booking, nil
}

func (r *bookingRequestRepository) GetByTrip(ctx context.Context, tripID primitive.ObjectID, params *utils.PaginationParams) ([]*models.BookingRequest, int64, error) {
	return r.findBookingsWithFilter(ctx, bson.M{"trip_id": tripID}, params)
}

func (r *bookingRequestRepository) GetByPassenger(ctx context.Context, passengerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.BookingRequest, int64, error) {
	return r.findBookingsWithFilter(ctx, bson.M{"passenger_id": passengerID}, params)
}

func (r *bookingRequestRepository) FindActiveBooking(ctx context.Context, passengerID, tripID primitive.ObjectID) (*models.BookingRequest, error) {
	filter := bson.M{
		"passenger_id": passengerID,
		"trip_id":      tripID,
		"status": bson.M{"$in": []models.BookingStatus{
			models.BookingStatusPending,
			models.BookingStatusAccepted,
		}},
	}

	var booking models.BookingRequest
	err := r.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active booking: %w", err)
	}

	return &booking, nil
}

func (r *bookingRequestRepository) CountActiveSeats(ctx context.Context, tripID primitive.ObjectID) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"trip_id": tripID,
			"status": bson.M{"$in": []models.BookingStatus{
				models.BookingStatusPending,
				models.BookingStatusAccepted,
			}},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"total_seats": bson.M{"$sum": "$seats"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to count active seats: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		TotalSeats int `bson:"total_seats"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("failed to decode active seat count: %w", err)
		}
	}

	return result.TotalSeats, nil
}

// Accept transitions pending -> accepted. The status precondition sits in the
// update filter, so an accept that raced with a cancel or expiry matches
// nothing and returns nil instead of clobbering the newer state.
func (r *bookingRequestRepository) Accept(ctx context.Context, id, driverID primitive.ObjectID) (*models.BookingRequest, error) {
	now := time.Now()
	filter := bson.M{
		"_id":    id,
		"status": models.BookingStatusPending,
	}
	update := bson.M{
		"$set": bson.M{
			"status":      models.BookingStatusAccepted,
			"accepted_at": now,
			"accepted_by": driverID,
			"updated_at":  now,
		},
	}

	return r.conditionalUpdate(ctx, id, filter, update)
}

func (r *bookingRequestRepository) Decline(ctx context.Context, id, driverID primitive.ObjectID) (*models.BookingRequest, error) {
	now := time.Now()
	filter := bson.M{
		"_id":    id,
		"status": models.BookingStatusPending,
	}
	update := bson.M{
		"$set": bson.M{
			"status":      models.BookingStatusDeclined,
			"declined_at": now,
			"declined_by": driverID,
			"updated_at":  now,
		},
	}

	return r.conditionalUpdate(ctx, id, filter, update)
}

func (r *bookingRequestRepository) Cancel(ctx context.Context, id primitive.ObjectID, refundNeeded bool) (*models.BookingRequest, error) {
	now := time.Now()
	filter := bson.M{
		"_id": id,
		"status": bson.M{"$in": []models.BookingStatus{
			models.BookingStatusPending,
			models.BookingStatusAccepted,
		}},
	}
	update := bson.M{
		"$set": bson.M{
			"status":        models.BookingStatusCanceledByPassenger,
			"canceled_at":   now,
			"refund_needed": refundNeeded,
			"updated_at":    now,
		},
	}

	return r.conditionalUpdate(ctx, id, filter, update)
}

// ExpireOlderThan is an idempotent set-operation over stale pendings.
func (r *bookingRequestRepository) ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	now := time.Now()
	filter := bson.M{
		"status":     models.BookingStatusPending,
		"created_at": bson.M{"$lte": cutoff},
	}
	update := bson.M{
		"$set": bson.M{
			"status":     models.BookingStatusExpired,
			"expired_at": now,
			"updated_at": now,
		},
	}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to expire pending bookings: %w", err)
	}

	return result.ModifiedCount, nil
}

// Helper methods
func (r *bookingRequestRepository) conditionalUpdate(ctx context.Context, id primitive.ObjectID, filter, update bson.M) (*models.BookingRequest, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.BookingRequest
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update booking request: %w", err)
	}

	r.invalidateBookingCache(ctx, id.Hex())

	return &booking, nil
}

func (r *bookingRequestRepository) findBookingsWithFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.BookingRequest, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count booking requests: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find booking requests: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.BookingRequest
	for cursor.Next(ctx) {
		var booking models.BookingRequest
		if err := cursor.Decode(&booking); err != nil {
			return nil, 0, fmt.Errorf("failed to decode booking request: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, total, nil
}

// Cache operations
func (r *bookingRequestRepository) cacheBooking(ctx context.Context, booking *models.BookingRequest) {
	if r.cache != nil {
		cacheKey := fmt.Sprintf("booking:%s", booking.ID.Hex())
		r.cache.Set(ctx, cacheKey, booking, services.BookingCacheTTL)
	}
}

func (r *bookingRequestRepository) getBookingFromCache(ctx context.Context, bookingID string) *models.BookingRequest {
	if r.cache == nil {
		return nil
	}

	cacheKey := fmt.Sprintf("booking:%s", bookingID)
	var booking models.BookingRequest
	if err := r.cache.Get(ctx, cacheKey, &booking); err != nil {
		return nil
	}

	return &booking
}

func (r *bookingRequestRepository) invalidateBookingCache(ctx context.Context, bookingID string) {
	if r.cache != nil {
		r.cache.Delete(ctx, fmt.Sprintf("booking:%s", bookingID))
	}
}
