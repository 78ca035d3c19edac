package categoryRepo

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

// CategoryRepository reads service categories.
type CategoryRepository interface {
	GetByID(id string) (*models.Category, error)
	ListActive() ([]models.Category, error)
	// FilterActive returns the subset of the given ids that exist and are
	// active, used when linking categories during application approval.
	FilterActive(ids []string) ([]string, error)
}

// MongoCategoryRepo implements CategoryRepository on MongoDB.
type MongoCategoryRepo struct {
	coll *mongo.Collection
}

// NewMongoCategoryRepo returns a repository bound to the "categories"
// collection and ensures its indexes.
func NewMongoCategoryRepo() *MongoCategoryRepo {
	repo := &MongoCategoryRepo{coll: database.DB().Collection("categories")}
	if err := repo.ensureIndexes(); err != nil {
		panic(err)
	}
	return repo
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func (r *MongoCategoryRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "isActive", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create category indexes: %w", err)
	}
	return nil
}

// GetByID fetches one category.
func (r *MongoCategoryRepo) GetByID(id string) (*models.Category, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var c models.Category
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category %s: %w", id, err)
	}
	return &c, nil
}

// ListActive lists active categories by name.
func (r *MongoCategoryRepo) ListActive() ([]models.Category, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer cur.Close(ctx)

	var categories []models.Category
	if err := cur.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

// FilterActive returns the subset of ids that exist and are active.
func (r *MongoCategoryRepo) FilterActive(ids []string) ([]string, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}, "isActive": true})
	if err != nil {
		return nil, fmt.Errorf("failed to filter categories: %w", err)
	}
	defer cur.Close(ctx)

	var categories []models.Category
	if err := cur.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.ID)
	}
	return out, nil
}
