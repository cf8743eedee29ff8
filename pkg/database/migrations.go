package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the booking core depends on. Safe to run
// on every startup; CreateMany is a no-op for indexes that already exist.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// One ledger document per trip. The unique index is what makes the
	// lazy GetOrCreate upsert converge under concurrency.
	_, err := db.Collection("seat_ledgers").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "trip_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create seat_ledgers indexes: %w", err)
	}

	_, err = db.Collection("trip_offers").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "driver_id", Value: 1}, {Key: "status", Value: 1}, {Key: "departure_at", Value: 1}},
		},
		{
			// Serves the auto-complete batch predicate.
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "estimated_arrival_at", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create trip_offers indexes: %w", err)
	}

	_, err = db.Collection("booking_requests").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// At most one active request per (passenger, trip). The
			// partial filter keeps terminal bookings out of the
			// uniqueness constraint.
			Keys: bson.D{{Key: "passenger_id", Value: 1}, {Key: "trip_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": bson.A{"pending", "accepted"}},
				}),
		},
		{
			Keys: bson.D{{Key: "trip_id", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			// Serves the expiry batch predicate.
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create booking_requests indexes: %w", err)
	}

	_, err = db.Collection("reviews").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trip_id", Value: 1}, {Key: "passenger_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "driver_id", Value: 1}, {Key: "status", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create reviews indexes: %w", err)
	}

	_, err = db.Collection("rating_aggregates").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "driver_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create rating_aggregates indexes: %w", err)
	}

	_, err = db.Collection("vehicles").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "driver_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create vehicles indexes: %w", err)
	}

	return nil
}
