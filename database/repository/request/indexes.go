package requestRepo

import (
	"fmt"
	"time"

	"elanis/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates indexes for frequently used fields in queries.
func (r *MongoServiceRequestRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	// Partial unique index: at most one Pending request per
	// (user, provider, date). This is the storage-side form of the
	// duplicate-pending guard, so two concurrent creates cannot both land.
	pendingOpts := options.Index().
		SetUnique(true).
		SetPartialFilterExpression(bson.M{
			"status":     models.RequestPending,
			"providerId": bson.M{"$exists": true},
		})
	pendingIdx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "providerId", Value: 1},
			{Key: "preferredDate", Value: 1},
		},
		Options: pendingOpts,
	}

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "preferredDate", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		pendingIdx,
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create service request indexes: %w", err)
	}
	return nil
}
