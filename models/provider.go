package models

import "time"

// ServiceProviderProfile is the operational record of an approved provider,
// created exactly once at application approval. The aggregate fields
// (CompletedJobs, TotalEarnings, RatingSum, TotalReviews, AverageRating) are
// maintained with atomic storage-side updates alongside the event that
// produces them, never recomputed from source rows on read.
type ServiceProviderProfile struct {
	ID              string         `bson:"id" json:"id"`
	UserID          string         `bson:"userId" json:"userId"`
	Bio             string         `bson:"bio,omitempty" json:"bio,omitempty"`
	NationalID      string         `bson:"nationalId,omitempty" json:"-"`
	Experience      string         `bson:"experience,omitempty" json:"experience,omitempty"`
	HourlyRate      float64        `bson:"hourlyRate" json:"hourlyRate"`
	IDDocumentURL   string         `bson:"idDocumentUrl,omitempty" json:"-"`
	CertificateURL  string         `bson:"certificateUrl,omitempty" json:"-"`
	CategoryIDs     []string       `bson:"categoryIds,omitempty" json:"categoryIds,omitempty"`
	Status          ProviderStatus `bson:"status" json:"status"`
	SuspendReason   string         `bson:"suspendReason,omitempty" json:"-"`
	IsAvailable     bool           `bson:"isAvailable" json:"isAvailable"`
	CompletedJobs   int64          `bson:"completedJobs" json:"completedJobs"`
	TotalEarnings   float64        `bson:"totalEarnings" json:"totalEarnings"`
	RatingSum       int64          `bson:"ratingSum" json:"-"`
	TotalReviews    int64          `bson:"totalReviews" json:"totalReviews"`
	AverageRating   float64        `bson:"averageRating" json:"averageRating"`
	ApprovedAt      time.Time      `bson:"approvedAt" json:"approvedAt"`
	CreatedAt       time.Time      `bson:"createdAt" json:"createdAt"`
}
