package models

import "time"

// ServicePricing is the unit price for a (category, shift) pair. Uniqueness
// among active rows is enforced by a partial unique index on the collection.
type ServicePricing struct {
	ID            string    `bson:"id" json:"id"`
	CategoryID    string    `bson:"categoryId" json:"categoryId"`
	ShiftType     ShiftType `bson:"shiftType" json:"shiftType"`
	PricePerShift float64   `bson:"pricePerShift" json:"pricePerShift"`
	IsActive      bool      `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CreatePricingInput is the admin payload for creating a price row.
type CreatePricingInput struct {
	CategoryID    string    `json:"categoryId" binding:"required"`
	ShiftType     ShiftType `json:"shiftType" binding:"required"`
	PricePerShift float64   `json:"pricePerShift" binding:"required,gt=0"`
}

// UpdatePricingInput is the admin payload for changing a price row.
type UpdatePricingInput struct {
	PricePerShift float64 `json:"pricePerShift" binding:"required,gt=0"`
}
