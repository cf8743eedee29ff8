package mongodb

import (
	"context"
	"fmt"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seatLedgerRepository struct {
	collection *mongo.Collection
}

func NewSeatLedgerRepository(db *mongo.Database) interfaces.SeatLedgerRepository {
	return &seatLedgerRepository{
		collection: db.Collection("seat_ledgers"),
	}
}

func (r *seatLedgerRepository) GetOrCreate(ctx context.Context, tripID primitive.ObjectID) (*models.SeatLedger, error) {
	// Upsert keyed on trip_id; the unique index makes concurrent upserts
	// converge on a single document.
	filter := bson.M{"trip_id": tripID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"trip_id":         tripID,
			"allocated_seats": 0,
			"updated_at":      time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var ledger models.SeatLedger
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ledger); err != nil {
		return nil, fmt.Errorf("failed to ensure seat ledger: %w", err)
	}

	return &ledger, nil
}

func (r *seatLedgerRepository) GetByTrip(ctx context.Context, tripID primitive.ObjectID) (*models.SeatLedger, error) {
	var ledger models.SeatLedger
	err := r.collection.FindOne(ctx, bson.M{"trip_id": tripID}).Decode(&ledger)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get seat ledger: %w", err)
	}

	return &ledger, nil
}

// Allocate is the system's single capacity-enforcement primitive. The filter
// admits the document only while allocated_seats <= totalSeats - seats, and
// the $inc applies in the same indivisible operation, so the counter can
// never pass totalSeats no matter how many accepts race. A filter miss means
// capacity is exhausted and nothing was written.
func (r *seatLedgerRepository) Allocate(ctx context.Context, tripID primitive.ObjectID, totalSeats, seats int) (*models.SeatLedger, error) {
	if _, err := r.GetOrCreate(ctx, tripID); err != nil {
		return nil, err
	}

	filter := bson.M{
		"trip_id":         tripID,
		"allocated_seats": bson.M{"$lte": totalSeats - seats},
	}
	update := bson.M{
		"$inc": bson.M{"allocated_seats": seats},
		"$set": bson.M{"updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ledger models.SeatLedger
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ledger)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Capacity exceeded: the condition failed, no write occurred.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to allocate seats: %w", err)
	}

	return &ledger, nil
}

func (r *seatLedgerRepository) Release(ctx context.Context, tripID primitive.ObjectID, seats int) (*models.SeatLedger, error) {
	filter := bson.M{
		"trip_id":         tripID,
		"allocated_seats": bson.M{"$gte": seats},
	}
	update := bson.M{
		"$inc": bson.M{"allocated_seats": -seats},
		"$set": bson.M{"updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ledger models.SeatLedger
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ledger)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to release seats: %w", err)
	}

	return &ledger, nil
}
