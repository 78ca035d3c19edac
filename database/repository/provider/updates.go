package providerRepo

import (
	"fmt"
	"time"

	"elanis/database/repository"
	"elanis/models"

	"go.mongodb.org/mongo-driver/bson"
)

// SetStatus flips the provider's operational status.
func (r *MongoProviderRepo) SetStatus(id string, status models.ProviderStatus, reason string, available bool) error {
	set := bson.M{"status": status, "isAvailable": available}
	update := bson.M{"$set": set}
	if reason != "" {
		set["suspendReason"] = reason
	} else {
		update["$unset"] = bson.M{"suspendReason": ""}
	}
	return r.updateOne(id, update)
}

// AddCategories links categories to the profile, skipping ones already linked.
func (r *MongoProviderRepo) AddCategories(id string, categoryIDs []string) error {
	return r.updateOne(id, bson.M{
		"$addToSet": bson.M{"categoryIds": bson.M{"$each": categoryIDs}},
	})
}

// RecordCompletedJob increments the job counters in one atomic update.
func (r *MongoProviderRepo) RecordCompletedJob(id string, earnings float64) error {
	return r.updateOne(id, bson.M{
		"$inc": bson.M{"completedJobs": 1, "totalEarnings": earnings},
	})
}

// ApplyReview folds one rating into the aggregates with a pipeline update so
// the increment and the recomputed average land in the same write.
func (r *MongoProviderRepo) ApplyReview(id string, rating int) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"ratingSum":    bson.M{"$add": bson.A{"$ratingSum", rating}},
			"totalReviews": bson.M{"$add": bson.A{"$totalReviews", 1}},
		}},
		bson.M{"$set": bson.M{
			"averageRating": bson.M{"$divide": bson.A{"$ratingSum", "$totalReviews"}},
		}},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, pipeline)
	if err != nil {
		return fmt.Errorf("failed to apply review on provider %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MongoProviderRepo) updateOne(id string, update bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update provider %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Count returns the total number of provider profiles.
func (r *MongoProviderRepo) Count() (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{})
}

// Stats aggregates platform-wide earnings and rating figures for the
// dashboard.
func (r *MongoProviderRepo) Stats() (float64, float64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := bson.A{
		bson.M{"$group": bson.M{
			"_id":           nil,
			"totalEarnings": bson.M{"$sum": "$totalEarnings"},
			"averageRating": bson.M{"$avg": bson.M{"$cond": bson.A{
				bson.M{"$gt": bson.A{"$totalReviews", 0}},
				"$averageRating",
				nil,
			}}},
		}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate provider stats: %w", err)
	}
	defer cur.Close(ctx)

	var out []struct {
		TotalEarnings float64 `bson:"totalEarnings"`
		AverageRating float64 `bson:"averageRating"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return 0, 0, fmt.Errorf("failed to decode provider stats: %w", err)
	}
	if len(out) == 0 {
		return 0, 0, nil
	}
	return out[0].TotalEarnings, out[0].AverageRating, nil
}
