package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/acs027/eshop-backend/internal/domain"
)

// CollectionName is the Mongo collection holding review documents.
const CollectionName = "reviews"

// ReviewRepository implements repository.ReviewRepository on MongoDB. One
// document per (product_id, user_id) pair; writes upsert on that key.
type ReviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository creates a Mongo-backed review repository.
func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{collection: db.Collection(CollectionName)}
}

// EnsureIndexes creates the unique compound index backing the upsert key.
// Safe to call on every startup.
func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys: bson.D{
			{Key: "product_id", Value: 1},
			{Key: "user_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}

	if _, err := r.collection.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("create review index: %w", err)
	}
	return nil
}

// Upsert writes a review keyed by (product_id, user_id), overwriting the
// rating and text of any earlier review by the same user.
func (r *ReviewRepository) Upsert(ctx context.Context, review *domain.Review) error {
	now := time.Now().UTC()

	filter := bson.M{
		"product_id": review.ProductID,
		"user_id":    review.UserID,
	}
	update := bson.M{
		"$set": bson.M{
			"rating":     review.Rating,
			"text":       review.Text,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"product_id": review.ProductID,
			"user_id":    review.UserID,
			"created_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("upsert review: %w", err)
	}

	review.UpdatedAt = now
	return nil
}

// ListByProduct returns every review document for the product. Document order
// is whatever the store returns; callers must not rely on it.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"product_id": productID})
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var reviews []domain.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}

	return reviews, nil
}
