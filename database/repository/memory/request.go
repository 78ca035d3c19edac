// Package memory provides in-memory repository implementations with the same
// invariant behavior as the MongoDB ones: unique-key rejections, guarded
// status transitions and atomic aggregate updates. Service tests run against
// these.
package memory

import (
	"sort"
	"sync"
	"time"

	"elanis/database/repository"
	"elanis/models"
)

// RequestRepo is an in-memory ServiceRequestRepository.
type RequestRepo struct {
	mu   sync.Mutex
	rows map[string]*models.ServiceRequest
}

// NewRequestRepo returns an empty in-memory request repository.
func NewRequestRepo() *RequestRepo {
	return &RequestRepo{rows: make(map[string]*models.ServiceRequest)}
}

func (r *RequestRepo) Create(req *models.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.Status == models.RequestPending && req.ProviderID != "" {
		for _, row := range r.rows {
			if row.Status == models.RequestPending &&
				row.UserID == req.UserID &&
				row.ProviderID == req.ProviderID &&
				row.PreferredDate == req.PreferredDate {
				return repository.ErrDuplicate
			}
		}
	}
	cp := *req
	r.rows[req.ID] = &cp
	return nil
}

func (r *RequestRepo) GetByID(id string) (*models.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *RequestRepo) GetByUser(userID string) ([]models.ServiceRequest, error) {
	return r.filter(func(row *models.ServiceRequest) bool { return row.UserID == userID })
}

func (r *RequestRepo) GetByProvider(providerID string) ([]models.ServiceRequest, error) {
	return r.filter(func(row *models.ServiceRequest) bool { return row.ProviderID == providerID })
}

func (r *RequestRepo) filter(keep func(*models.ServiceRequest) bool) ([]models.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ServiceRequest
	for _, row := range r.rows {
		if keep(row) {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *RequestRepo) HasPendingRequest(userID, providerID, date string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Status == models.RequestPending &&
			row.UserID == userID &&
			row.ProviderID == providerID &&
			row.PreferredDate == date {
			return true, nil
		}
	}
	return false, nil
}

func (r *RequestRepo) UpdateStatusIfCurrent(id string, from, to models.RequestStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if row.Status != from {
		return repository.ErrStatusConflict
	}
	row.Status = to
	switch to {
	case models.RequestAccepted:
		// A payment-expiry revert re-enters Accepted; the original acceptance
		// time stands.
		if from == models.RequestPending {
			row.AcceptedAt = &at
		}
	case models.RequestInProgress:
		row.StartedAt = &at
	case models.RequestCompleted:
		row.CompletedAt = &at
	case models.RequestCancelled:
		row.CancelledAt = &at
	}
	return nil
}

func (r *RequestRepo) AppendDescription(id, note string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if row.Description != "" {
		row.Description += "\n"
	}
	row.Description += note
	return nil
}

func (r *RequestRepo) BookedDates(providerID, fromDate, toDate string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	for _, row := range r.rows {
		if row.ProviderID != providerID {
			continue
		}
		switch row.Status {
		case models.RequestAccepted, models.RequestPaid, models.RequestInProgress:
		default:
			continue
		}
		if row.PreferredDate >= fromDate && row.PreferredDate <= toDate {
			seen[row.PreferredDate] = true
		}
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates, nil
}

func (r *RequestRepo) CountAll() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

func (r *RequestRepo) CountByStatus(status models.RequestStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if row.Status == status {
			n++
		}
	}
	return n, nil
}
