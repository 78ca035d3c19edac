package models

import "time"

// ServiceProviderApplication is a pending request to become a provider.
// Once Status leaves Pending it never returns.
type ServiceProviderApplication struct {
	ID              string            `bson:"id" json:"id"`
	UserID          string            `bson:"userId" json:"userId"`
	FirstName       string            `bson:"firstName" json:"firstName"`
	LastName        string            `bson:"lastName" json:"lastName"`
	PhoneNumber     string            `bson:"phoneNumber" json:"phoneNumber"`
	Address         string            `bson:"address,omitempty" json:"address,omitempty"`
	DateOfBirth     string            `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Bio             string            `bson:"bio,omitempty" json:"bio,omitempty"`
	NationalID      string            `bson:"nationalId" json:"-"`
	Experience      string            `bson:"experience,omitempty" json:"experience,omitempty"`
	HourlyRate      float64           `bson:"hourlyRate" json:"hourlyRate"`
	IDDocumentURL   string            `bson:"idDocumentUrl,omitempty" json:"idDocumentUrl,omitempty"`
	CertificateURL  string            `bson:"certificateUrl,omitempty" json:"certificateUrl,omitempty"`
	CategoryIDs     []string          `bson:"categoryIds" json:"categoryIds"`
	Status          ApplicationStatus `bson:"status" json:"status"`
	RejectionReason string            `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	ReviewedByID    string            `bson:"reviewedById,omitempty" json:"reviewedById,omitempty"`
	ReviewedAt      *time.Time        `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	CreatedAt       time.Time         `bson:"createdAt" json:"createdAt"`
}

// ApplyInput is the payload for submitting a provider application.
type ApplyInput struct {
	FirstName      string   `json:"firstName" binding:"required"`
	LastName       string   `json:"lastName" binding:"required"`
	PhoneNumber    string   `json:"phoneNumber" binding:"required"`
	Address        string   `json:"address"`
	DateOfBirth    string   `json:"dateOfBirth"`
	Bio            string   `json:"bio"`
	NationalID     string   `json:"nationalId" binding:"required"`
	Experience     string   `json:"experience"`
	HourlyRate     float64  `json:"hourlyRate" binding:"required"`
	IDDocumentURL  string   `json:"idDocumentUrl"`
	CertificateURL string   `json:"certificateUrl"`
	CategoryIDs    []string `json:"categoryIds" binding:"required"`
}
