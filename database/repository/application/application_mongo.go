package applicationRepo

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

// ApplicationRepository persists provider applications. The single review of
// an application is an atomic Pending-guarded update.
type ApplicationRepository interface {
	Create(app *models.ServiceProviderApplication) error
	GetByID(id string) (*models.ServiceProviderApplication, error)
	// GetLatestByUser returns the user's most recent application.
	GetLatestByUser(userID string) (*models.ServiceProviderApplication, error)
	List(page, pageSize int) ([]models.ServiceProviderApplication, int64, error)

	// MarkReviewed records the admin decision if and only if the application
	// is still Pending. Returns repository.ErrStatusConflict once it has left
	// Pending; it never returns there.
	MarkReviewed(id string, decision models.ApplicationStatus, reviewerID, reason string, at time.Time) error

	CountPending() (int64, error)
}

// MongoApplicationRepo implements ApplicationRepository on MongoDB.
type MongoApplicationRepo struct {
	coll *mongo.Collection
}

// NewMongoApplicationRepo returns a repository bound to the
// "provider_applications" collection and ensures its indexes.
func NewMongoApplicationRepo() *MongoApplicationRepo {
	repo := &MongoApplicationRepo{coll: database.DB().Collection("provider_applications")}
	if err := repo.ensureIndexes(); err != nil {
		panic(err)
	}
	return repo
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func (r *MongoApplicationRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create application indexes: %w", err)
	}
	return nil
}

// Create inserts a new application document.
func (r *MongoApplicationRepo) Create(app *models.ServiceProviderApplication) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, app); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// GetByID fetches one application.
func (r *MongoApplicationRepo) GetByID(id string) (*models.ServiceProviderApplication, error) {
	return r.findOne(bson.M{"id": id}, nil)
}

// GetLatestByUser returns the user's most recent application.
func (r *MongoApplicationRepo) GetLatestByUser(userID string) (*models.ServiceProviderApplication, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findOne(bson.M{"userId": userID}, opts)
}

func (r *MongoApplicationRepo) findOne(filter bson.M, opts *options.FindOneOptions) (*models.ServiceProviderApplication, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var app models.ServiceProviderApplication
	var err error
	if opts != nil {
		err = r.coll.FindOne(ctx, filter, opts).Decode(&app)
	} else {
		err = r.coll.FindOne(ctx, filter).Decode(&app)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch application: %w", err)
	}
	return &app, nil
}

// List returns one page of applications, newest first, with the total count.
func (r *MongoApplicationRepo) List(page, pageSize int) ([]models.ServiceProviderApplication, int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}
	defer cur.Close(ctx)

	var apps []models.ServiceProviderApplication
	if err := cur.All(ctx, &apps); err != nil {
		return nil, 0, fmt.Errorf("failed to decode applications: %w", err)
	}
	return apps, total, nil
}

// MarkReviewed records the admin decision, guarded on the Pending status in
// the update filter so a second reviewer loses the race instead of
// re-reviewing.
func (r *MongoApplicationRepo) MarkReviewed(id string, decision models.ApplicationStatus, reviewerID, reason string, at time.Time) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	set := bson.M{
		"status":       decision,
		"reviewedById": reviewerID,
		"reviewedAt":   at,
	}
	if reason != "" {
		set["rejectionReason"] = reason
	}
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "status": models.ApplicationPending},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("failed to review application %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		count, countErr := r.coll.CountDocuments(ctx, bson.M{"id": id})
		if countErr == nil && count == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrStatusConflict
	}
	return nil
}

// CountPending returns the number of applications awaiting review.
func (r *MongoApplicationRepo) CountPending() (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{"status": models.ApplicationPending})
}
