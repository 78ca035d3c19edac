package availabilityRepo

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

// AvailabilityRepository persists per-provider, per-date availability
// declarations. At most one document per (provider, date), enforced by a
// unique index rather than a lookup before insert.
type AvailabilityRepository interface {
	Create(a *models.ProviderAvailability) error
	GetByDate(providerID, date string) (*models.ProviderAvailability, error)
	GetRange(providerID, fromDate, toDate string) ([]models.ProviderAvailability, error)
	Update(providerID, date string, in models.AddAvailabilityInput, at time.Time) error
	Delete(providerID, date string) error
}

// MongoAvailabilityRepo implements AvailabilityRepository on MongoDB.
type MongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo returns a repository bound to the
// "provider_availability" collection and ensures its indexes.
func NewMongoAvailabilityRepo() *MongoAvailabilityRepo {
	repo := &MongoAvailabilityRepo{coll: database.DB().Collection("provider_availability")}
	if err := repo.ensureIndexes(); err != nil {
		panic(err)
	}
	return repo
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func (r *MongoAvailabilityRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// One declaration per provider per date.
		{
			Keys:    bson.D{{Key: "providerId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create availability indexes: %w", err)
	}
	return nil
}

// Create inserts a declaration; a concurrent duplicate insert loses on the
// unique index and surfaces as repository.ErrDuplicate.
func (r *MongoAvailabilityRepo) Create(a *models.ProviderAvailability) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create availability: %w", err)
	}
	return nil
}

// GetByDate fetches the declaration for one calendar date.
func (r *MongoAvailabilityRepo) GetByDate(providerID, date string) (*models.ProviderAvailability, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var a models.ProviderAvailability
	err := r.coll.FindOne(ctx, bson.M{"providerId": providerID, "date": date}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability: %w", err)
	}
	return &a, nil
}

// GetRange lists declarations in [fromDate, toDate], oldest first.
func (r *MongoAvailabilityRepo) GetRange(providerID, fromDate, toDate string) ([]models.ProviderAvailability, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{
		"providerId": providerID,
		"date":       bson.M{"$gte": fromDate, "$lte": toDate},
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	defer cur.Close(ctx)

	var entries []models.ProviderAvailability
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode availability: %w", err)
	}
	return entries, nil
}

// Update rewrites the declaration for one date.
func (r *MongoAvailabilityRepo) Update(providerID, date string, in models.AddAvailabilityInput, at time.Time) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	set := bson.M{
		"isAvailable": in.IsAvailable,
		"notes":       in.Notes,
		"updatedAt":   at,
	}
	update := bson.M{"$set": set}
	if in.AvailableShift != nil {
		set["availableShift"] = *in.AvailableShift
	} else {
		update["$unset"] = bson.M{"availableShift": ""}
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"providerId": providerID, "date": date}, update)
	if err != nil {
		return fmt.Errorf("failed to update availability: %w", err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the declaration for one date.
func (r *MongoAvailabilityRepo) Delete(providerID, date string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"providerId": providerID, "date": date})
	if err != nil {
		return fmt.Errorf("failed to delete availability: %w", err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
