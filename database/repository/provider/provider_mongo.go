package providerRepo

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

// MongoProviderRepo implements ProviderProfileRepository on MongoDB.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo returns a repository bound to the "provider_profiles"
// collection and ensures its indexes.
func NewMongoProviderRepo() *MongoProviderRepo {
	repo := &MongoProviderRepo{coll: database.DB().Collection("provider_profiles")}
	if err := repo.ensureIndexes(); err != nil {
		panic(err)
	}
	return repo
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

// ensureIndexes creates indexes for frequently used fields in queries.
func (r *MongoProviderRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// One profile per user; a second approval cannot create another.
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "categoryIds", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create provider profile indexes: %w", err)
	}
	return nil
}

// Create inserts a new provider profile document.
func (r *MongoProviderRepo) Create(profile *models.ServiceProviderProfile) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, profile); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create provider profile: %w", err)
	}
	return nil
}

// GetByID fetches a profile by its identifier.
func (r *MongoProviderRepo) GetByID(id string) (*models.ServiceProviderProfile, error) {
	return r.findOne(bson.M{"id": id})
}

// GetByUserID fetches the profile belonging to a user identity.
func (r *MongoProviderRepo) GetByUserID(userID string) (*models.ServiceProviderProfile, error) {
	return r.findOne(bson.M{"userId": userID})
}

func (r *MongoProviderRepo) findOne(filter bson.M) (*models.ServiceProviderProfile, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var profile models.ServiceProviderProfile
	err := r.coll.FindOne(ctx, filter).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch provider profile: %w", err)
	}
	return &profile, nil
}

// List returns one page of profiles, newest first, with the total count.
func (r *MongoProviderRepo) List(page, pageSize int) ([]models.ServiceProviderProfile, int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count provider profiles: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list provider profiles: %w", err)
	}
	defer cur.Close(ctx)

	var profiles []models.ServiceProviderProfile
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, 0, fmt.Errorf("failed to decode provider profiles: %w", err)
	}
	return profiles, total, nil
}
