package models

import "time"

// ServiceRequest is one booking from creation to completion or cancellation.
// TotalPrice is snapshotted from the active price at creation and never
// re-derived. Timestamps are each set exactly once by their transition.
type ServiceRequest struct {
	ID            string        `bson:"id" json:"id"`
	UserID        string        `bson:"userId" json:"userId"`
	ProviderID    string        `bson:"providerId,omitempty" json:"providerId,omitempty"`
	CategoryID    string        `bson:"categoryId" json:"categoryId"`
	ShiftType     ShiftType     `bson:"shiftType" json:"shiftType"`
	TotalPrice    float64       `bson:"totalPrice" json:"totalPrice"`
	PreferredDate string        `bson:"preferredDate" json:"preferredDate"` // "YYYY-MM-DD", time of day ignored
	Address       string        `bson:"address" json:"address"`
	Governorate   string        `bson:"governorate,omitempty" json:"governorate,omitempty"`
	Description   string        `bson:"description" json:"description"`
	Status        RequestStatus `bson:"status" json:"status"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
	AcceptedAt    *time.Time    `bson:"acceptedAt,omitempty" json:"acceptedAt,omitempty"`
	StartedAt     *time.Time    `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	CompletedAt   *time.Time    `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CancelledAt   *time.Time    `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
}

// CreateRequestInput is the payload for creating a service request.
type CreateRequestInput struct {
	ProviderID    string    `json:"providerId"`
	CategoryID    string    `json:"categoryId" binding:"required"`
	ShiftType     ShiftType `json:"shiftType" binding:"required"`
	PreferredDate string    `json:"preferredDate" binding:"required"`
	Address       string    `json:"address" binding:"required"`
	Governorate   string    `json:"governorate"`
	Description   string    `json:"description"`
}

// ProviderResponseInput is the provider's accept/reject decision on a request.
type ProviderResponseInput struct {
	Accept bool   `json:"accept"`
	Reason string `json:"reason"`
}

// ServiceRequestView is the representation returned to clients, carrying the
// capability flags the frontend drives its buttons with.
type ServiceRequestView struct {
	ServiceRequest
	CategoryName  string `json:"categoryName,omitempty"`
	ProviderName  string `json:"providerName,omitempty"`
	ShiftTypeName string `json:"shiftTypeName"`
	CanPay        bool   `json:"canPay"`
	CanStart      bool   `json:"canStart"`
	CanComplete   bool   `json:"canComplete"`
}
