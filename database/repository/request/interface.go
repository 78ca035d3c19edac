package requestRepo

import (
	"time"

	"elanis/models"
)

// ServiceRequestRepository persists service requests and performs their
// guarded status transitions atomically.
type ServiceRequestRepository interface {
	Create(req *models.ServiceRequest) error
	GetByID(id string) (*models.ServiceRequest, error)
	GetByUser(userID string) ([]models.ServiceRequest, error)
	GetByProvider(providerID string) ([]models.ServiceRequest, error)

	// HasPendingRequest reports whether the user already has a Pending request
	// with the provider on the date. The same invariant is also enforced by a
	// partial unique index, so a lost race surfaces as a duplicate on Create.
	HasPendingRequest(userID, providerID, date string) (bool, error)

	// UpdateStatusIfCurrent flips status from `from` to `to` in one atomic
	// filtered update, stamping the transition timestamp that belongs to `to`.
	// Returns repository.ErrStatusConflict when the document is no longer in
	// `from`, repository.ErrNotFound when it does not exist at all.
	UpdateStatusIfCurrent(id string, from, to models.RequestStatus, at time.Time) error

	// AppendDescription appends a note to the free-text description, used to
	// record rejection reasons.
	AppendDescription(id, note string) error

	// BookedDates lists distinct preferred dates in [fromDate, toDate] where
	// the provider has a request in Accepted, Paid or InProgress status.
	BookedDates(providerID, fromDate, toDate string) ([]string, error)

	CountAll() (int64, error)
	CountByStatus(status models.RequestStatus) (int64, error)
}
