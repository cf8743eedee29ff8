package mongodb

import (
	"context"
	"fmt"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"
	"ridepool/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type reviewRepository struct {
	collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) interfaces.ReviewRepository {
	return &reviewRepository{
		collection: db.Collection("reviews"),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	review.ID = primitive.NewObjectID()
	review.Status = models.ReviewStatusVisible
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt

	_, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var review models.Review
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return &review, nil
}

func (r *reviewRepository) GetByTripAndPassenger(ctx context.Context, tripID, passengerID primitive.ObjectID) (*models.Review, error) {
	filter := bson.M{
		"trip_id":      tripID,
		"passenger_id": passengerID,
	}

	var review models.Review
	err := r.collection.FindOne(ctx, filter).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find review: %w", err)
	}

	return &review, nil
}

func (r *reviewRepository) GetVisibleByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	filter := bson.M{
		"driver_id": driverID,
		"status":    models.ReviewStatusVisible,
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []*models.Review
	for cursor.Next(ctx) {
		var review models.Review
		if err := cursor.Decode(&review); err != nil {
			return nil, 0, fmt.Errorf("failed to decode review: %w", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, total, nil
}

// SetStatus runs against whatever session ctx carries, so a caller inside
// TxRunner.WithTransaction gets transactional semantics for free.
func (r *reviewRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status models.ReviewStatus) error {
	now := time.Now()
	set := bson.M{
		"status":     status,
		"updated_at": now,
	}
	if status == models.ReviewStatusHidden {
		set["hidden_at"] = now
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to set review status: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.ErrReviewNotFound
	}

	return nil
}
