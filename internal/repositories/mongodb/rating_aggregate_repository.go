package mongodb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ratingAggregateRepository struct {
	collection *mongo.Collection
	reviews    *mongo.Collection
}

func NewRatingAggregateRepository(db *mongo.Database) interfaces.RatingAggregateRepository {
	return &ratingAggregateRepository{
		collection: db.Collection("rating_aggregates"),
		reviews:    db.Collection("reviews"),
	}
}

func (r *ratingAggregateRepository) GetByDriver(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error) {
	var aggregate models.RatingAggregate
	err := r.collection.FindOne(ctx, bson.M{"driver_id": driverID}).Decode(&aggregate)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.EmptyRatingAggregate(driverID), nil
		}
		return nil, fmt.Errorf("failed to get rating aggregate: %w", err)
	}

	return &aggregate, nil
}

// Recompute groups the driver's visible reviews by rating value and rebuilds
// avg/count/histogram from scratch. Both the read and the upsert run against
// the session carried by ctx, so pairing it with a review-status write inside
// one transaction keeps the aggregate and the review collection consistent.
func (r *ratingAggregateRepository) Recompute(ctx context.Context, driverID primitive.ObjectID) (*models.RatingAggregate, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"driver_id": driverID,
			"status":    models.ReviewStatusVisible,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$rating",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.reviews.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	defer cursor.Close(ctx)

	aggregate := models.EmptyRatingAggregate(driverID)
	var ratingSum int64

	for cursor.Next(ctx) {
		var bucket struct {
			Rating int   `bson:"_id"`
			Count  int64 `bson:"count"`
		}
		if err := cursor.Decode(&bucket); err != nil {
			return nil, fmt.Errorf("failed to decode rating bucket: %w", err)
		}
		if bucket.Rating < 1 || bucket.Rating > 5 {
			continue
		}

		aggregate.Histogram[strconv.Itoa(bucket.Rating)] = bucket.Count
		aggregate.Count += bucket.Count
		ratingSum += int64(bucket.Rating) * bucket.Count
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rating buckets: %w", err)
	}

	if aggregate.Count > 0 {
		aggregate.AvgRating = float64(ratingSum) / float64(aggregate.Count)
	}
	aggregate.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"driver_id":  driverID,
			"avg_rating": aggregate.AvgRating,
			"count":      aggregate.Count,
			"histogram":  aggregate.Histogram,
			"updated_at": aggregate.UpdatedAt,
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := r.collection.UpdateOne(ctx, bson.M{"driver_id": driverID}, update, opts); err != nil {
		return nil, fmt.Errorf("failed to upsert rating aggregate: %w", err)
	}

	return aggregate, nil
}
