package models

import "time"

// Review is the single review a requester may leave on a completed request.
type Review struct {
	ID               string    `bson:"id" json:"id"`
	ServiceRequestID string    `bson:"serviceRequestId" json:"serviceRequestId"`
	ClientUserID     string    `bson:"clientUserId" json:"clientUserId"`
	ProviderID       string    `bson:"providerId" json:"providerId"`
	Rating           int       `bson:"rating" json:"rating"`
	Comment          string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
}

// CreateReviewInput is the payload for submitting a review.
type CreateReviewInput struct {
	ServiceRequestID string `json:"serviceRequestId" binding:"required"`
	Rating           int    `json:"rating" binding:"required,min=1,max=5"`
	Comment          string `json:"comment"`
}

// ProviderReviews bundles a provider's reviews with its running aggregates.
type ProviderReviews struct {
	ProviderID    string   `json:"providerId"`
	ProviderName  string   `json:"providerName,omitempty"`
	AverageRating float64  `json:"averageRating"`
	TotalReviews  int64    `json:"totalReviews"`
	Reviews       []Review `json:"reviews"`
}
