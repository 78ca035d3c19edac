package memory

import (
	"sort"
	"sync"
	"time"

	"elanis/database/repository"
	"elanis/models"
)

// CategoryRepo is an in-memory CategoryRepository with a Seed helper.
type CategoryRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Category
}

// NewCategoryRepo returns an empty in-memory category repository.
func NewCategoryRepo() *CategoryRepo {
	return &CategoryRepo{rows: make(map[string]*models.Category)}
}

// Seed inserts a category directly, for test setup.
func (r *CategoryRepo) Seed(c models.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := c
	r.rows[c.ID] = &cp
}

func (r *CategoryRepo) GetByID(id string) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *CategoryRepo) ListActive() ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Category
	for _, row := range r.rows {
		if row.IsActive {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepo) FilterActive(ids []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, id := range ids {
		if row, ok := r.rows[id]; ok && row.IsActive {
			out = append(out, id)
		}
	}
	return out, nil
}

// PricingRepo is an in-memory PricingRepository.
type PricingRepo struct {
	mu   sync.Mutex
	rows map[string]*models.ServicePricing
}

// NewPricingRepo returns an empty in-memory pricing repository.
func NewPricingRepo() *PricingRepo {
	return &PricingRepo{rows: make(map[string]*models.ServicePricing)}
}

func (r *PricingRepo) Create(p *models.ServicePricing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.IsActive {
		for _, row := range r.rows {
			if row.IsActive && row.CategoryID == p.CategoryID && row.ShiftType == p.ShiftType {
				return repository.ErrDuplicate
			}
		}
	}
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *PricingRepo) GetByID(id string) (*models.ServicePricing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *PricingRepo) GetActive(categoryID string, shift models.ShiftType) (*models.ServicePricing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.IsActive && row.CategoryID == categoryID && row.ShiftType == shift {
			cp := *row
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *PricingRepo) ListByCategory(categoryID string) ([]models.ServicePricing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ServicePricing
	for _, row := range r.rows {
		if row.CategoryID == categoryID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *PricingRepo) UpdatePrice(id string, price float64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	row.PricePerShift = price
	row.UpdatedAt = at
	return nil
}

func (r *PricingRepo) Deactivate(id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	row.IsActive = false
	row.UpdatedAt = at
	return nil
}

// AvailabilityRepo is an in-memory AvailabilityRepository.
type AvailabilityRepo struct {
	mu   sync.Mutex
	rows map[string]*models.ProviderAvailability
}

// NewAvailabilityRepo returns an empty in-memory availability repository.
func NewAvailabilityRepo() *AvailabilityRepo {
	return &AvailabilityRepo{rows: make(map[string]*models.ProviderAvailability)}
}

func availKey(providerID, date string) string {
	return providerID + "|" + date
}

func (r *AvailabilityRepo) Create(a *models.ProviderAvailability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := availKey(a.ProviderID, a.Date)
	if _, exists := r.rows[key]; exists {
		return repository.ErrDuplicate
	}
	cp := *a
	r.rows[key] = &cp
	return nil
}

func (r *AvailabilityRepo) GetByDate(providerID, date string) (*models.ProviderAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[availKey(providerID, date)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *AvailabilityRepo) GetRange(providerID, fromDate, toDate string) ([]models.ProviderAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ProviderAvailability
	for _, row := range r.rows {
		if row.ProviderID == providerID && row.Date >= fromDate && row.Date <= toDate {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *AvailabilityRepo) Update(providerID, date string, in models.AddAvailabilityInput, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[availKey(providerID, date)]
	if !ok {
		return repository.ErrNotFound
	}
	row.IsAvailable = in.IsAvailable
	row.AvailableShift = in.AvailableShift
	row.Notes = in.Notes
	row.UpdatedAt = at
	return nil
}

func (r *AvailabilityRepo) Delete(providerID, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := availKey(providerID, date)
	if _, ok := r.rows[key]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rows, key)
	return nil
}

// ReviewRepo is an in-memory ReviewRepository.
type ReviewRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Review
}

// NewReviewRepo returns an empty in-memory review repository.
func NewReviewRepo() *ReviewRepo {
	return &ReviewRepo{rows: make(map[string]*models.Review)}
}

func (r *ReviewRepo) Create(rev *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ServiceRequestID == rev.ServiceRequestID {
			return repository.ErrDuplicate
		}
	}
	cp := *rev
	r.rows[rev.ID] = &cp
	return nil
}

func (r *ReviewRepo) GetByRequestID(requestID string) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ServiceRequestID == requestID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *ReviewRepo) GetByProvider(providerID string) ([]models.Review, error) {
	return r.filter(func(row *models.Review) bool { return row.ProviderID == providerID })
}

func (r *ReviewRepo) GetByClient(userID string) ([]models.Review, error) {
	return r.filter(func(row *models.Review) bool { return row.ClientUserID == userID })
}

func (r *ReviewRepo) filter(keep func(*models.Review) bool) ([]models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Review
	for _, row := range r.rows {
		if keep(row) {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ReviewRepo) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}
