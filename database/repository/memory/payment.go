package memory

import (
	"sync"
	"time"

	"elanis/database/repository"
	"elanis/models"
)

// PaymentRepo is an in-memory PaymentRepository.
type PaymentRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Payment
}

// NewPaymentRepo returns an empty in-memory payment repository.
func NewPaymentRepo() *PaymentRepo {
	return &PaymentRepo{rows: make(map[string]*models.Payment)}
}

func (r *PaymentRepo) Create(p *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ServiceRequestID == p.ServiceRequestID {
			return repository.ErrDuplicate
		}
	}
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *PaymentRepo) GetByRequestID(requestID string) (*models.Payment, error) {
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

func (r *PaymentRepo) GetByTransactionID(txID string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.TransactionID == txID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *PaymentRepo) RefreshSession(id, txID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	row.TransactionID = txID
	row.Status = models.PaymentPending
	row.PaidAt = nil
	return nil
}

func (r *PaymentRepo) MarkCompleted(txID string, paidAt time.Time, intentID, rawEvent string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.TransactionID == txID {
			row.Status = models.PaymentCompleted
			row.PaidAt = &paidAt
			row.PaymentIntentID = intentID
			row.GatewayResponse = rawEvent
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *PaymentRepo) MarkFailedIfPending(txID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.TransactionID == txID {
			if row.Status != models.PaymentPending {
				return false, nil
			}
			row.Status = models.PaymentFailed
			return true, nil
		}
	}
	return false, repository.ErrNotFound
}
