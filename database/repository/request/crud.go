package requestRepo

import (
	"errors"
	"fmt"
	"time"

	"elanis/database/repository"
	"elanis/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Create inserts a new service request document.
func (r *MongoServiceRequestRepo) Create(req *models.ServiceRequest) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create service request: %w", err)
	}
	return nil
}

// GetByID fetches one request by its identifier.
func (r *MongoServiceRequestRepo) GetByID(id string) (*models.ServiceRequest, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var req models.ServiceRequest
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service request %s: %w", id, err)
	}
	return &req, nil
}

// GetByUser lists a requester's requests, newest first.
func (r *MongoServiceRequestRepo) GetByUser(userID string) ([]models.ServiceRequest, error) {
	return r.list(bson.M{"userId": userID})
}

// GetByProvider lists the requests assigned to a provider, newest first.
func (r *MongoServiceRequestRepo) GetByProvider(providerID string) ([]models.ServiceRequest, error) {
	return r.list(bson.M{"providerId": providerID})
}

func (r *MongoServiceRequestRepo) list(filter bson.M) ([]models.ServiceRequest, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := optionsFindNewestFirst()
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}
	defer cur.Close(ctx)

	var requests []models.ServiceRequest
	if err := cur.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode service requests: %w", err)
	}
	return requests, nil
}
