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

type tripOfferRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewTripOfferRepository(db *mongo.Database, cache services.CacheService) interfaces.TripOfferRepository {
	return &tripOfferRepository{
		collection: db.Collection("trip_offers"),
		cache:      cache,
	}
}

// Basic CRUD operations
func (r *tripOfferRepository) Create(ctx context.Context, trip *models.TripOffer) error {
	trip.ID = primitive.NewObjectID()
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = trip.CreatedAt

	_, err := r.collection.InsertOne(ctx, trip)
	if err != nil {
		return fmt.Errorf("failed to create trip offer: %w", err)
	}

	if trip.Status == models.TripStatusPublished {
		r.cacheTrip(ctx, trip)
	}

	return nil
}

func (r *tripOfferRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.TripOffer, error) {
	if trip := r.getTripFromCache(ctx, id.Hex()); trip != nil {
		return trip, nil
	}

	var trip models.TripOffer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&trip)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to get trip offer: %w", err)
	}

	if trip.Status == models.TripStatusPublished {
		r.cacheTrip(ctx, &trip)
	}

	return &trip, nil
}

func (r *tripOfferRepository) GetByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.TripOffer, int64, error) {
	filter := bson.M{"driver_id": driverID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count trip offers: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find trip offers: %w", err)
	}
	defer cursor.Close(ctx)

	var trips []*models.TripOffer
	for cursor.Next(ctx) {
		var trip models.TripOffer
		if err := cursor.Decode(&trip); err != nil {
			return nil, 0, fmt.Errorf("failed to decode trip offer: %w", err)
		}
		trips = append(trips, &trip)
	}

	return trips, total, nil
}

func (r *tripOfferRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update trip offer: %w", err)
	}

	r.invalidateTripCache(ctx, id.Hex())

	return nil
}

// FindOverlapping tests interval overlap on [departure_at, estimated_arrival_at)
// against the driver's other published trips.
func (r *tripOfferRepository) FindOverlapping(ctx context.Context, driverID primitive.ObjectID, departureAt, estimatedArrivalAt time.Time, excludeID *primitive.ObjectID) ([]*models.TripOffer, error) {
	filter := bson.M{
		"driver_id":            driverID,
		"status":               models.TripStatusPublished,
		"departure_at":         bson.M{"$lt": estimatedArrivalAt},
		"estimated_arrival_at": bson.M{"$gt": departureAt},
	}
	if excludeID != nil {
		filter["_id"] = bson.M{"$ne": *excludeID}
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "departure_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping trips: %w", err)
	}
	defer cursor.Close(ctx)

	var trips []*models.TripOffer
	for cursor.Next(ctx) {
		var trip models.TripOffer
		if err := cursor.Decode(&trip); err != nil {
			return nil, fmt.Errorf("failed to decode trip offer: %w", err)
		}
		trips = append(trips, &trip)
	}

	return trips, nil
}

// UpdateStatus re-checks the current status inside the update filter, so a
// transition only lands while the document is still in an allowed from-state.
func (r *tripOfferRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, fromStatuses []models.TripStatus, to models.TripStatus) (*models.TripOffer, error) {
	now := time.Now()
	set := bson.M{
		"status":     to,
		"updated_at": now,
	}
	switch to {
	case models.TripStatusCompleted:
		set["completed_at"] = now
	case models.TripStatusCanceled:
		set["canceled_at"] = now
	}

	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": fromStatuses},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var trip models.TripOffer
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&trip)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Precondition no longer holds; nothing was written.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update trip status: %w", err)
	}

	r.invalidateTripCache(ctx, id.Hex())

	return &trip, nil
}

// CompletePastTrips is an idempotent set-operation: re-running only touches
// documents still matching the predicate.
func (r *tripOfferRepository) CompletePastTrips(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{
		"status":               models.TripStatusPublished,
		"estimated_arrival_at": bson.M{"$lte": now},
	}
	update := bson.M{
		"$set": bson.M{
			"status":       models.TripStatusCompleted,
			"completed_at": now,
			"updated_at":   now,
		},
	}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to complete past trips: %w", err)
	}

	return result.ModifiedCount, nil
}

// Cache operations
func (r *tripOfferRepository) cacheTrip(ctx context.Context, trip *models.TripOffer) {
	if r.cache != nil {
		cacheKey := fmt.Sprintf("trip:%s", trip.ID.Hex())
		r.cache.Set(ctx, cacheKey, trip, services.TripCacheTTL)
	}
}

func (r *tripOfferRepository) getTripFromCache(ctx context.Context, tripID string) *models.TripOffer {
	if r.cache == nil {
		return nil
	}

	cacheKey := fmt.Sprintf("trip:%s", tripID)
	var trip models.TripOffer
	if err := r.cache.Get(ctx, cacheKey, &trip); err != nil {
		return nil
	}

	return &trip
}

func (r *tripOfferRepository) invalidateTripCache(ctx context.Context, tripID string) {
	if r.cache != nil {
		r.cache.Delete(ctx, fmt.Sprintf("trip:%s", tripID))
	}
}
