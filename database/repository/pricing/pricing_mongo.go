package pricingRepo

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

// PricingRepository persists (category, shift) price rows. Uniqueness among
// active rows is a partial unique index, so no ordering or tie-break is
// needed at read time.
type PricingRepository interface {
	Create(p *models.ServicePricing) error
	GetByID(id string) (*models.ServicePricing, error)
	// GetActive resolves the single active price for (category, shift).
	GetActive(categoryID string, shift models.ShiftType) (*models.ServicePricing, error)
	ListByCategory(categoryID string) ([]models.ServicePricing, error)
	UpdatePrice(id string, price float64, at time.Time) error
	Deactivate(id string, at time.Time) error
}

// MongoPricingRepo implements PricingRepository on MongoDB.
type MongoPricingRepo struct {
	coll *mongo.Collection
}

// NewMongoPricingRepo returns a repository bound to the "service_pricing"
// collection and ensures its indexes.
func NewMongoPricingRepo() *MongoPricingRepo {
	repo := &MongoPricingRepo{coll: database.DB().Collection("service_pricing")}
	if err := repo.ensureIndexes(); err != nil {
		panic(err)
	}
	return repo
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func (r *MongoPricingRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	// Partial unique index: at most one active price per (category, shift).
	activeOpts := options.Index().
		SetUnique(true).
		SetPartialFilterExpression(bson.M{"isActive": true})
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "categoryId", Value: 1}, {Key: "shiftType", Value: 1}},
			Options: activeOpts,
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create pricing indexes: %w", err)
	}
	return nil
}

// Create inserts a price row; a duplicate active (category, shift) pair is
// rejected by the index.
func (r *MongoPricingRepo) Create(p *models.ServicePricing) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create pricing: %w", err)
	}
	return nil
}

// GetByID fetches one price row.
func (r *MongoPricingRepo) GetByID(id string) (*models.ServicePricing, error) {
	return r.findOne(bson.M{"id": id})
}

// GetActive resolves the single active price for (category, shift).
func (r *MongoPricingRepo) GetActive(categoryID string, shift models.ShiftType) (*models.ServicePricing, error) {
	return r.findOne(bson.M{"categoryId": categoryID, "shiftType": shift, "isActive": true})
}

func (r *MongoPricingRepo) findOne(filter bson.M) (*models.ServicePricing, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var p models.ServicePricing
	err := r.coll.FindOne(ctx, filter).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pricing: %w", err)
	}
	return &p, nil
}

// ListByCategory lists all price rows for a category, active and not.
func (r *MongoPricingRepo) ListByCategory(categoryID string) ([]models.ServicePricing, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"categoryId": categoryID})
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing: %w", err)
	}
	defer cur.Close(ctx)

	var rows []models.ServicePricing
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode pricing: %w", err)
	}
	return rows, nil
}

// UpdatePrice changes the unit price of a row.
func (r *MongoPricingRepo) UpdatePrice(id string, price float64, at time.Time) error {
	return r.updateOne(id, bson.M{"$set": bson.M{"pricePerShift": price, "updatedAt": at}})
}

// Deactivate retires a price row; the (category, shift) slot becomes free for
// a replacement.
func (r *MongoPricingRepo) Deactivate(id string, at time.Time) error {
	return r.updateOne(id, bson.M{"$set": bson.M{"isActive": false, "updatedAt": at}})
}

func (r *MongoPricingRepo) updateOne(id string, update bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update pricing %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
