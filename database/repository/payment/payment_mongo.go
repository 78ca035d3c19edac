package paymentRepo

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

// MongoPaymentRepo implements PaymentRepository on MongoDB.
type MongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo returns a repository bound to the "payments" collection
// and ensures its indexes.
func NewMongoPaymentRepo() *MongoPaymentRepo {
	repo := &MongoPaymentRepo{coll: database.DB().Collection("payments")}
	if err := repo.ensureIndexes(); err != nil {
		panic(err)
	}
	return repo
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func (r *MongoPaymentRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// One payment per request, enforced here instead of a check before insert.
		{Keys: bson.D{{Key: "serviceRequestId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "transactionId", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create payment indexes: %w", err)
	}
	return nil
}

// Create inserts a new payment document.
func (r *MongoPaymentRepo) Create(p *models.Payment) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetByRequestID fetches the payment attached to a service request.
func (r *MongoPaymentRepo) GetByRequestID(requestID string) (*models.Payment, error) {
	return r.findOne(bson.M{"serviceRequestId": requestID})
}

// GetByTransactionID fetches the payment by its checkout session id.
func (r *MongoPaymentRepo) GetByTransactionID(txID string) (*models.Payment, error) {
	return r.findOne(bson.M{"transactionId": txID})
}

func (r *MongoPaymentRepo) findOne(filter bson.M) (*models.Payment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var p models.Payment
	err := r.coll.FindOne(ctx, filter).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}
	return &p, nil
}

// RefreshSession points an existing payment at a new checkout session.
func (r *MongoPaymentRepo) RefreshSession(id, txID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"transactionId": txID, "status": models.PaymentPending}},
	)
	if err != nil {
		return fmt.Errorf("failed to refresh payment %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// MarkCompleted records a confirmed gateway payment.
func (r *MongoPaymentRepo) MarkCompleted(txID string, paidAt time.Time, intentID, rawEvent string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx,
		bson.M{"transactionId": txID},
		bson.M{"$set": bson.M{
			"status":          models.PaymentCompleted,
			"paidAt":          paidAt,
			"paymentIntentId": intentID,
			"gatewayResponse": rawEvent,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to complete payment %s: %w", txID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// MarkFailedIfPending flips a still-Pending payment to Failed.
func (r *MongoPaymentRepo) MarkFailedIfPending(txID string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx,
		bson.M{"transactionId": txID, "status": models.PaymentPending},
		bson.M{"$set": bson.M{"status": models.PaymentFailed}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to fail payment %s: %w", txID, err)
	}
	return result.ModifiedCount > 0, nil
}
