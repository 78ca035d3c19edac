package paymentRepo

import (
	"time"

	"elanis/models"
)

// PaymentRepository persists the single payment record per service request.
// The one-payment-per-request invariant is a unique index on the collection.
type PaymentRepository interface {
	Create(p *models.Payment) error
	GetByRequestID(requestID string) (*models.Payment, error)
	GetByTransactionID(txID string) (*models.Payment, error)

	// RefreshSession points an existing payment at a new checkout session and
	// resets it to Pending, used when the requester retries checkout.
	RefreshSession(id, txID string) error

	// MarkCompleted records a confirmed gateway payment. Both target fields
	// are set to fixed values, so webhook redelivery is idempotent in effect.
	MarkCompleted(txID string, paidAt time.Time, intentID, rawEvent string) error

	// MarkFailedIfPending flips a still-Pending payment to Failed and reports
	// whether the flip happened.
	MarkFailedIfPending(txID string) (bool, error)
}
