package payment

import (
	"encoding/json"
	"errors"
	"time"

	"elanis/database/repository"
	paymentRepo "elanis/database/repository/payment"
	requestRepo "elanis/database/repository/request"
	"elanis/models"
	"elanis/services/request"
	"elanis/utils"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// Service handles checkout creation and gateway webhook reconciliation.
//
// The gateway session is created before anything is committed locally, so a
// crash between the two leaves an orphan session at the gateway and no local
// trace. That window is accepted: an orphan session either expires on its own
// or its webhook finds no payment record and is logged and dropped.
type Service interface {
	CreateCheckout(userID string, in models.CreateCheckoutInput) (*models.CheckoutResponse, error)
	GetByRequestID(claims *utils.TokenClaims, requestID string) (*models.Payment, error)

	// HandleWebhook verifies the gateway signature and applies the event. A
	// bad signature rejects the delivery before any state is touched.
	HandleWebhook(payload []byte, sigHeader, secret string) error
}

// DefaultPaymentService implements Service.
type DefaultPaymentService struct {
	PaymentRepo paymentRepo.PaymentRepository
	RequestRepo requestRepo.ServiceRequestRepository
	Checkout    CheckoutClient
	Logger      *zap.Logger
}

// CreateCheckout opens a hosted checkout for an Accepted request and moves it
// to PaymentPending. A retry after an expired session reuses the payment
// record, pointing it at the fresh session.
func (s *DefaultPaymentService) CreateCheckout(userID string, in models.CreateCheckoutInput) (*models.CheckoutResponse, error) {
	req, err := s.RequestRepo.GetByID(in.ServiceRequestID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("request not found")
	}
	if err != nil {
		s.Logger.Error("failed to load request", zap.Error(err))
		return nil, utils.ServerError("could not start checkout")
	}
	if req.UserID != userID {
		return nil, utils.Forbidden("you do not have access to this request")
	}
	if _, err := request.Next(req.Status, request.EventCheckoutStarted); err != nil {
		return nil, err
	}

	existing, err := s.PaymentRepo.GetByRequestID(req.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.Logger.Error("failed to load payment", zap.Error(err))
		return nil, utils.ServerError("could not start checkout")
	}

	paymentID := uuid.New().String()
	if existing != nil {
		if existing.Status == models.PaymentCompleted {
			return nil, utils.BadRequest("this request is already paid")
		}
		paymentID = existing.ID
	}

	sessionID, url, err := s.Checkout.CreateSession(req, paymentID)
	if err != nil {
		s.Logger.Error("checkout session creation failed",
			zap.String("requestId", req.ID),
			zap.Error(err))
		return nil, utils.ServerError("payment gateway is unavailable")
	}

	var record *models.Payment
	if existing != nil {
		if err := s.PaymentRepo.RefreshSession(existing.ID, sessionID); err != nil {
			s.Logger.Error("failed to refresh payment session", zap.Error(err))
			return nil, utils.ServerError("could not start checkout")
		}
		existing.TransactionID = sessionID
		existing.Status = models.PaymentPending
		record = existing
	} else {
		record = &models.Payment{
			ID:               paymentID,
			ServiceRequestID: req.ID,
			Amount:           req.TotalPrice,
			Method:           models.PaymentMethodCard,
			Status:           models.PaymentPending,
			TransactionID:    sessionID,
			CreatedAt:        time.Now(),
		}
		if err := s.PaymentRepo.Create(record); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, utils.BadRequest("a payment already exists for this request")
			}
			s.Logger.Error("failed to create payment", zap.Error(err))
			return nil, utils.ServerError("could not start checkout")
		}
	}

	if err := s.RequestRepo.UpdateStatusIfCurrent(req.ID, req.Status, models.RequestPaymentPending, time.Now()); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, utils.BadRequest("the request changed while processing, please retry")
		}
		s.Logger.Error("failed to move request to payment pending", zap.Error(err))
		return nil, utils.ServerError("could not start checkout")
	}

	s.Logger.Info("checkout session created",
		zap.String("requestId", req.ID),
		zap.String("sessionId", sessionID))
	return &models.CheckoutResponse{Payment: *record, CheckoutURL: url}, nil
}

// GetByRequestID returns the payment for a request, visible to the requester
// and admins.
func (s *DefaultPaymentService) GetByRequestID(claims *utils.TokenClaims, requestID string) (*models.Payment, error) {
	req, err := s.RequestRepo.GetByID(requestID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("request not found")
	}
	if err != nil {
		s.Logger.Error("failed to load request", zap.Error(err))
		return nil, utils.ServerError("could not load payment")
	}
	if claims.Role != models.RoleAdmin && req.UserID != claims.UserID {
		return nil, utils.Forbidden("you do not have access to this payment")
	}
	p, err := s.PaymentRepo.GetByRequestID(requestID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFound("no payment for this request")
	}
	if err != nil {
		s.Logger.Error("failed to load payment", zap.Error(err))
		return nil, utils.ServerError("could not load payment")
	}
	return p, nil
}

// HandleWebhook applies one signed gateway delivery. Redeliveries are safe:
// completion writes fixed values and the request transition is guarded, so a
// second delivery of the same event changes nothing.
func (s *DefaultPaymentService) HandleWebhook(payload []byte, sigHeader, secret string) error {
	event, err := webhook.ConstructEvent(payload, sigHeader, secret)
	if err != nil {
		s.Logger.Warn("rejected webhook with invalid signature", zap.Error(err))
		return utils.BadRequest("invalid webhook signature")
	}

	switch event.Type {
	case "checkout.session.completed":
		return s.handleCompleted(event)
	case "checkout.session.expired":
		return s.handleExpired(event)
	default:
		s.Logger.Debug("ignoring webhook event", zap.String("type", string(event.Type)))
		return nil
	}
}

func (s *DefaultPaymentService) handleCompleted(event stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		s.Logger.Error("failed to decode checkout session event", zap.Error(err))
		return utils.BadRequest("malformed webhook payload")
	}

	p, err := s.PaymentRepo.GetByTransactionID(sess.ID)
	if errors.Is(err, repository.ErrNotFound) {
		// Orphan session from a crashed checkout attempt.
		s.Logger.Warn("webhook for unknown checkout session", zap.String("sessionId", sess.ID))
		return nil
	}
	if err != nil {
		s.Logger.Error("failed to load payment for webhook", zap.Error(err))
		return utils.ServerError("could not process webhook")
	}

	intentID := ""
	if sess.PaymentIntent != nil {
		intentID = sess.PaymentIntent.ID
	}
	if err := s.PaymentRepo.MarkCompleted(sess.ID, time.Now(), intentID, string(event.Data.Raw)); err != nil {
		s.Logger.Error("failed to mark payment completed", zap.Error(err))
		return utils.ServerError("could not process webhook")
	}

	err = s.RequestRepo.UpdateStatusIfCurrent(p.ServiceRequestID, models.RequestPaymentPending, models.RequestPaid, time.Now())
	if errors.Is(err, repository.ErrStatusConflict) {
		// Redelivery after the first processing already moved it to Paid.
		s.Logger.Info("request already left PaymentPending",
			zap.String("requestId", p.ServiceRequestID))
		return nil
	}
	if err != nil {
		s.Logger.Error("failed to move request to paid", zap.Error(err))
		return utils.ServerError("could not process webhook")
	}

	s.Logger.Info("payment confirmed",
		zap.String("requestId", p.ServiceRequestID),
		zap.String("sessionId", sess.ID))
	return nil
}

func (s *DefaultPaymentService) handleExpired(event stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		s.Logger.Error("failed to decode checkout session event", zap.Error(err))
		return utils.BadRequest("malformed webhook payload")
	}

	p, err := s.PaymentRepo.GetByTransactionID(sess.ID)
	if errors.Is(err, repository.ErrNotFound) {
		s.Logger.Warn("expiry webhook for unknown checkout session", zap.String("sessionId", sess.ID))
		return nil
	}
	if err != nil {
		s.Logger.Error("failed to load payment for webhook", zap.Error(err))
		return utils.ServerError("could not process webhook")
	}

	flipped, err := s.PaymentRepo.MarkFailedIfPending(sess.ID)
	if err != nil {
		s.Logger.Error("failed to mark payment failed", zap.Error(err))
		return utils.ServerError("could not process webhook")
	}
	if !flipped {
		// Completed delivery won the race; the expiry is stale.
		return nil
	}

	err = s.RequestRepo.UpdateStatusIfCurrent(p.ServiceRequestID, models.RequestPaymentPending, models.RequestAccepted, time.Now())
	if err != nil && !errors.Is(err, repository.ErrStatusConflict) {
		s.Logger.Error("failed to return request to accepted", zap.Error(err))
		return utils.ServerError("could not process webhook")
	}

	s.Logger.Info("checkout session expired",
		zap.String("requestId", p.ServiceRequestID),
		zap.String("sessionId", sess.ID))
	return nil
}
