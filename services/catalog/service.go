package catalog

import (
	"errors"
	"time"

	"elanis/database/repository"
	categoryRepo "elanis/database/repository/category"
	pricingRepo "elanis/database/repository/pricing"
	"elanis/models"
	"elanis/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service exposes the bookable catalog: categories and their per-shift
// prices. Price changes are admin-only and never touch existing requests,
// which keep the price snapshotted at creation.
type Service interface {
	ListCategories() ([]models.Category, error)
	GetQuote(categoryID string, shift models.ShiftType) (*models.ServicePricing, error)
	ListPricing(categoryID string) ([]models.ServicePricing, error)

	CreatePricing(in models.CreatePricingInput) (*models.ServicePricing, error)
	UpdatePricing(id string, in models.UpdatePricingInput) error
	DeactivatePricing(id string) error
}

// DefaultCatalogService implements Service.
type DefaultCatalogService struct {
	CategoryRepo categoryRepo.CategoryRepository
	PricingRepo  pricingRepo.PricingRepository
	Logger       *zap.Logger
}

// ListCategories lists the active categories.
func (s *DefaultCatalogService) ListCategories() ([]models.Category, error) {
	categories, err := s.CategoryRepo.ListActive()
	if err != nil {
		s.Logger.Error("failed to list categories", zap.Error(err))
		return nil, utils.ServerError("could not load categories")
	}
	return categories, nil
}

// GetQuote resolves the active price for a (category, shift) pair.
func (s *DefaultCatalogService) GetQuote(categoryID string, shift models.ShiftType) (*models.ServicePricing, error) {
	if !shift.Valid() {
		return nil, utils.BadRequest("unknown shift type")
	}
	price, err := s.PricingRepo.GetActive(categoryID, shift)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("no active price for this category and shift")
	}
	if err != nil {
		s.Logger.Error("failed to load pricing", zap.Error(err))
		return nil, utils.ServerError("could not load pricing")
	}
	return price, nil
}

// ListPricing lists all price rows of a category, active and retired.
func (s *DefaultCatalogService) ListPricing(categoryID string) ([]models.ServicePricing, error) {
	rows, err := s.PricingRepo.ListByCategory(categoryID)
	if err != nil {
		s.Logger.Error("failed to list pricing", zap.Error(err))
		return nil, utils.ServerError("could not load pricing")
	}
	return rows, nil
}

// CreatePricing adds an active price row. The partial unique index rejects a
// second active row for the same (category, shift).
func (s *DefaultCatalogService) CreatePricing(in models.CreatePricingInput) (*models.ServicePricing, error) {
	if !in.ShiftType.Valid() {
		return nil, utils.BadRequest("unknown shift type")
	}
	if in.PricePerShift <= 0 {
		return nil, utils.BadRequest("price must be positive")
	}
	category, err := s.CategoryRepo.GetByID(in.CategoryID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("category not found")
	}
	if err != nil {
		s.Logger.Error("failed to load category", zap.Error(err))
		return nil, utils.ServerError("could not create pricing")
	}
	if !category.IsActive {
		return nil, utils.BadRequest("category is not active")
	}

	now := time.Now()
	price := &models.ServicePricing{
		ID:            uuid.New().String(),
		CategoryID:    in.CategoryID,
		ShiftType:     in.ShiftType,
		PricePerShift: in.PricePerShift,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.PricingRepo.Create(price); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.BadRequest("an active price already exists for this category and shift")
		}
		s.Logger.Error("failed to create pricing", zap.Error(err))
		return nil, utils.ServerError("could not create pricing")
	}
	return price, nil
}

// UpdatePricing changes a row's price. Already created requests are not
// repriced.
func (s *DefaultCatalogService) UpdatePricing(id string, in models.UpdatePricingInput) error {
	if in.PricePerShift <= 0 {
		return utils.BadRequest("price must be positive")
	}
	err := s.PricingRepo.UpdatePrice(id, in.PricePerShift, time.Now())
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NotFound("pricing not found")
	}
	if err != nil {
		s.Logger.Error("failed to update pricing", zap.Error(err))
		return utils.ServerError("could not update pricing")
	}
	return nil
}

// DeactivatePricing retires a row, freeing its (category, shift) slot.
func (s *DefaultCatalogService) DeactivatePricing(id string) error {
	err := s.PricingRepo.Deactivate(id, time.Now())
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NotFound("pricing not found")
	}
	if err != nil {
		s.Logger.Error("failed to deactivate pricing", zap.Error(err))
		return utils.ServerError("could not deactivate pricing")
	}
	return nil
}
