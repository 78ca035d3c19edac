package memory

import (
	"sort"
	"sync"

	"elanis/database/repository"
	"elanis/models"
)

// ProviderRepo is an in-memory ProviderProfileRepository.
type ProviderRepo struct {
	mu   sync.Mutex
	rows map[string]*models.ServiceProviderProfile
}

// NewProviderRepo returns an empty in-memory provider repository.
func NewProviderRepo() *ProviderRepo {
	return &ProviderRepo{rows: make(map[string]*models.ServiceProviderProfile)}
}

func (r *ProviderRepo) Create(profile *models.ServiceProviderProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UserID == profile.UserID {
			return repository.ErrDuplicate
		}
	}
	cp := *profile
	r.rows[profile.ID] = &cp
	return nil
}

func (r *ProviderRepo) GetByID(id string) (*models.ServiceProviderProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *ProviderRepo) GetByUserID(userID string) (*models.ServiceProviderProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UserID == userID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *ProviderRepo) List(page, pageSize int) ([]models.ServiceProviderProfile, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]models.ServiceProviderProfile, 0, len(r.rows))
	for _, row := range r.rows {
		all = append(all, *row)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	start := (page - 1) * pageSize
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *ProviderRepo) SetStatus(id string, status models.ProviderStatus, reason string, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	row.Status = status
	row.SuspendReason = reason
	row.IsAvailable = available
	return nil
}

func (r *ProviderRepo) AddCategories(id string, categoryIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	existing := make(map[string]bool, len(row.CategoryIDs))
	for _, c := range row.CategoryIDs {
		existing[c] = true
	}
	for _, c := range categoryIDs {
		if !existing[c] {
			row.CategoryIDs = append(row.CategoryIDs, c)
		}
	}
	return nil
}

func (r *ProviderRepo) RecordCompletedJob(id string, earnings float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	row.CompletedJobs++
	row.TotalEarnings += earnings
	return nil
}

func (r *ProviderRepo) ApplyReview(id string, rating int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	row.RatingSum += int64(rating)
	row.TotalReviews++
	row.AverageRating = float64(row.RatingSum) / float64(row.TotalReviews)
	return nil
}

func (r *ProviderRepo) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

func (r *ProviderRepo) Stats() (float64, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var earnings, ratingTotal float64
	var rated int64
	for _, row := range r.rows {
		earnings += row.TotalEarnings
		if row.TotalReviews > 0 {
			ratingTotal += row.AverageRating
			rated++
		}
	}
	avg := 0.0
	if rated > 0 {
		avg = ratingTotal / float64(rated)
	}
	return earnings, avg, nil
}
