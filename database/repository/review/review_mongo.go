package reviewRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"elanis/database"
	"elanis/database/repository"
	"elanis/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReviewRepository persists reviews. One review per service request, enforced
// by a unique index.
type ReviewRepository interface {
	Create(rev *models.Review) error
	GetByRequestID(requestID string) (*models.Review, error)
	GetByProvider(providerID string) ([]models.Review, error)
	GetByClient(userID string) ([]models.Review, error)
	Count() (int64, error)
}

// MongoReviewRepo implements ReviewRepository on MongoDB.
type MongoReviewRepo struct {
	coll *mongo.Collection
}

// NewMongoReviewRepo returns a repository bound to the "reviews" collection
// and ensures its indexes.
func NewMongoReviewRepo() *MongoReviewRepo {
	repo := &MongoReviewRepo{coll: database.DB().Collection("reviews")}
	if err := repo.ensureIndexes(); err != nil {
		panic(err)
	}
	return repo
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func (r *MongoReviewRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// One review per request.
		{Keys: bson.D{{Key: "serviceRequestId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "clientUserId", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create review indexes: %w", err)
	}
	return nil
}

// Create inserts a new review document.
func (r *MongoReviewRepo) Create(rev *models.Review) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, rev); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// GetByRequestID fetches the review left on a service request.
func (r *MongoReviewRepo) GetByRequestID(requestID string) (*models.Review, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var rev models.Review
	err := r.coll.FindOne(ctx, bson.M{"serviceRequestId": requestID}).Decode(&rev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch review for request %s: %w", requestID, err)
	}
	return &rev, nil
}

// GetByProvider lists a provider's reviews, newest first.
func (r *MongoReviewRepo) GetByProvider(providerID string) ([]models.Review, error) {
	return r.list(bson.M{"providerId": providerID})
}

// GetByClient lists the reviews a user has written, newest first.
func (r *MongoReviewRepo) GetByClient(userID string) ([]models.Review, error) {
	return r.list(bson.M{"clientUserId": userID})
}

func (r *MongoReviewRepo) list(filter bson.M) ([]models.Review, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer cur.Close(ctx)

	var reviews []models.Review
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

// Count returns the total number of reviews.
func (r *MongoReviewRepo) Count() (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{})
}
