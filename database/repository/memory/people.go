package memory

import (
	"sort"
	"sync"
	"time"

	"elanis/database/repository"
	"elanis/models"
)

// UserRepo is an in-memory UserRepository.
type UserRepo struct {
	mu   sync.Mutex
	rows map[string]*models.User
}

// NewUserRepo returns an empty in-memory user repository.
func NewUserRepo() *UserRepo {
	return &UserRepo{rows: make(map[string]*models.User)}
}

func (r *UserRepo) Create(u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	cp := *u
	r.rows[u.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *UserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == email {
			cp := *row
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepo) SetRole(id string, role models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	row.Role = role
	return nil
}

func (r *UserRepo) CountActive() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if !row.IsDeleted {
			n++
		}
	}
	return n, nil
}

// ApplicationRepo is an in-memory ApplicationRepository.
type ApplicationRepo struct {
	mu   sync.Mutex
	rows map[string]*models.ServiceProviderApplication
}

// NewApplicationRepo returns an empty in-memory application repository.
func NewApplicationRepo() *ApplicationRepo {
	return &ApplicationRepo{rows: make(map[string]*models.ServiceProviderApplication)}
}

func (r *ApplicationRepo) Create(app *models.ServiceProviderApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *app
	r.rows[app.ID] = &cp
	return nil
}

func (r *ApplicationRepo) GetByID(id string) (*models.ServiceProviderApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *ApplicationRepo) GetLatestByUser(userID string) (*models.ServiceProviderApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.ServiceProviderApplication
	for _, row := range r.rows {
		if row.UserID != userID {
			continue
		}
		if latest == nil || row.CreatedAt.After(latest.CreatedAt) {
			latest = row
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *ApplicationRepo) List(page, pageSize int) ([]models.ServiceProviderApplication, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]models.ServiceProviderApplication, 0, len(r.rows))
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

func (r *ApplicationRepo) MarkReviewed(id string, decision models.ApplicationStatus, reviewerID, reason string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if row.Status != models.ApplicationPending {
		return repository.ErrStatusConflict
	}
	row.Status = decision
	row.ReviewedByID = reviewerID
	row.ReviewedAt = &at
	if reason != "" {
		row.RejectionReason = reason
	}
	return nil
}

func (r *ApplicationRepo) CountPending() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if row.Status == models.ApplicationPending {
			n++
		}
	}
	return n, nil
}
