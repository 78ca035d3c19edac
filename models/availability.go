package models

import "time"

// ProviderAvailability is a per-provider, per-date availability declaration.
// At most one document exists per (provider, date); the collection enforces
// this with a unique index rather than a lookup-before-insert.
type ProviderAvailability struct {
	ID             string     `bson:"id" json:"id"`
	ProviderID     string     `bson:"providerId" json:"providerId"`
	Date           string     `bson:"date" json:"date"` // "YYYY-MM-DD"
	IsAvailable    bool       `bson:"isAvailable" json:"isAvailable"`
	AvailableShift *ShiftType `bson:"availableShift,omitempty" json:"availableShift,omitempty"` // nil = any shift
	Notes          string     `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// AddAvailabilityInput declares one date on a provider's calendar.
type AddAvailabilityInput struct {
	Date           string     `json:"date" binding:"required"`
	IsAvailable    bool       `json:"isAvailable"`
	AvailableShift *ShiftType `json:"availableShift"`
	Notes          string     `json:"notes"`
}

// BulkAvailabilityInput declares several dates at once.
type BulkAvailabilityInput struct {
	Entries []AddAvailabilityInput `json:"entries" binding:"required,dive"`
}
