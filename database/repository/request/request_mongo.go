package requestRepo

import (
	"context"
	"time"

	"elanis/database"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoServiceRequestRepo implements ServiceRequestRepository on MongoDB.
type MongoServiceRequestRepo struct {
	coll *mongo.Collection
}

// NewMongoServiceRequestRepo returns a repository bound to the
// "service_requests" collection and ensures its indexes.
func NewMongoServiceRequestRepo() *MongoServiceRequestRepo {
	repo := &MongoServiceRequestRepo{
		coll: database.DB().Collection("service_requests"),
	}
	if err := repo.ensureIndexes(); err != nil {
		panic(err)
	}
	return repo
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}
