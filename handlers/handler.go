package handlers

import (
	providerRepo "elanis/database/repository/provider"
	"elanis/services/admin"
	"elanis/services/auth"
	"elanis/services/availability"
	"elanis/services/catalog"
	"elanis/services/payment"
	"elanis/services/provider"
	"elanis/services/request"
	"elanis/services/review"
)

// Handler groups all endpoint handlers around the services they call.
type Handler struct {
	Auth         auth.Service
	Requests     request.Service
	Payments     payment.Service
	Reviews      review.Service
	Providers    provider.Service
	Availability availability.Service
	Catalog      catalog.Service
	Admin        admin.Service

	// ProviderProfiles resolves the caller's provider profile id for
	// calendar endpoints.
	ProviderProfiles providerRepo.ProviderProfileRepository
}
