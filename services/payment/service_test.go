package payment

import (
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"elanis/database/repository/memory"
	"elanis/models"
	"elanis/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

const testSecret = "whsec_test_secret"

type fakeCheckout struct {
	calls int
}

func (f *fakeCheckout) CreateSession(req *models.ServiceRequest, paymentID string) (string, string, error) {
	f.calls++
	id := fmt.Sprintf("cs_test_%d", f.calls)
	return id, "https://checkout.example.com/" + id, nil
}

func newService(t *testing.T) (*DefaultPaymentService, *memory.RequestRepo, *fakeCheckout, *models.ServiceRequest) {
	t.Helper()
	requests := memory.NewRequestRepo()
	checkout := &fakeCheckout{}
	svc := &DefaultPaymentService{
		PaymentRepo: memory.NewPaymentRepo(),
		RequestRepo: requests,
		Checkout:    checkout,
		Logger:      zap.NewNop(),
	}
	acceptedAt := time.Now().Add(-time.Hour)
	req := &models.ServiceRequest{
		ID:            uuid.New().String(),
		UserID:        uuid.New().String(),
		ProviderID:    uuid.New().String(),
		CategoryID:    uuid.New().String(),
		ShiftType:     models.ShiftThreeHours,
		TotalPrice:    300,
		PreferredDate: time.Now().AddDate(0, 0, 5).Format("2006-01-02"),
		Status:        models.RequestAccepted,
		CreatedAt:     time.Now(),
		AcceptedAt:    &acceptedAt,
	}
	require.NoError(t, requests.Create(req))
	return svc, requests, checkout, req
}

func signedPayload(eventType, sessionID string) ([]byte, string) {
	payload := []byte(fmt.Sprintf(
		`{"id":"evt_1","api_version":%q,"type":%q,"data":{"object":{"id":%q,"object":"checkout.session","payment_intent":"pi_123"}}}`,
		stripe.APIVersion, eventType, sessionID,
	))
	ts := time.Now()
	sig := webhook.ComputeSignature(ts, payload, testSecret)
	header := fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(sig))
	return payload, header
}

func TestCreateCheckoutMovesRequestToPaymentPending(t *testing.T) {
	svc, requests, _, req := newService(t)

	resp, err := svc.CreateCheckout(req.UserID, models.CreateCheckoutInput{ServiceRequestID: req.ID})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", resp.Payment.TransactionID)
	assert.Equal(t, 300.0, resp.Payment.Amount)
	assert.Equal(t, models.PaymentPending, resp.Payment.Status)
	assert.Contains(t, resp.CheckoutURL, "cs_test_1")

	got, err := requests.GetByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPaymentPending, got.Status)
}

func TestCreateCheckoutRequiresAcceptedRequest(t *testing.T) {
	svc, requests, _, req := newService(t)
	require.NoError(t, requests.UpdateStatusIfCurrent(req.ID, models.RequestAccepted, models.RequestCancelled, time.Now()))

	_, err := svc.CreateCheckout(req.UserID, models.CreateCheckoutInput{ServiceRequestID: req.ID})
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindBadRequest, svcErr.Kind)
}

func TestCreateCheckoutRequiresOwner(t *testing.T) {
	svc, _, _, req := newService(t)

	_, err := svc.CreateCheckout(uuid.New().String(), models.CreateCheckoutInput{ServiceRequestID: req.ID})
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindForbidden, svcErr.Kind)
}

func TestWebhookCompletedMarksRequestPaid(t *testing.T) {
	svc, requests, _, req := newService(t)
	_, err := svc.CreateCheckout(req.UserID, models.CreateCheckoutInput{ServiceRequestID: req.ID})
	require.NoError(t, err)

	payload, header := signedPayload("checkout.session.completed", "cs_test_1")
	require.NoError(t, svc.HandleWebhook(payload, header, testSecret))

	got, err := requests.GetByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPaid, got.Status)

	p, err := svc.PaymentRepo.GetByRequestID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, p.Status)
	assert.Equal(t, "pi_123", p.PaymentIntentID)
	require.NotNil(t, p.PaidAt)
}

func TestWebhookRedeliveryIsIdempotent(t *testing.T) {
	svc, requests, _, req := newService(t)
	_, err := svc.CreateCheckout(req.UserID, models.CreateCheckoutInput{ServiceRequestID: req.ID})
	require.NoError(t, err)

	payload, header := signedPayload("checkout.session.completed", "cs_test_1")
	require.NoError(t, svc.HandleWebhook(payload, header, testSecret))
	require.NoError(t, svc.HandleWebhook(payload, header, testSecret))

	got, err := requests.GetByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPaid, got.Status)
}

func TestWebhookBadSignatureMutatesNothing(t *testing.T) {
	svc, requests, _, req := newService(t)
	_, err := svc.CreateCheckout(req.UserID, models.CreateCheckoutInput{ServiceRequestID: req.ID})
	require.NoError(t, err)

	payload, _ := signedPayload("checkout.session.completed", "cs_test_1")
	err = svc.HandleWebhook(payload, "t=1,v1=deadbeef", testSecret)
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindBadRequest, svcErr.Kind)

	got, err := requests.GetByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPaymentPending, got.Status)

	p, err := svc.PaymentRepo.GetByRequestID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, p.Status)
}

func TestWebhookUnknownSessionIsDropped(t *testing.T) {
	svc, _, _, _ := newService(t)

	payload, header := signedPayload("checkout.session.completed", "cs_unknown")
	require.NoError(t, svc.HandleWebhook(payload, header, testSecret))
}

func TestExpiredSessionReturnsRequestToAccepted(t *testing.T) {
	svc, requests, _, req := newService(t)
	_, err := svc.CreateCheckout(req.UserID, models.CreateCheckoutInput{ServiceRequestID: req.ID})
	require.NoError(t, err)

	payload, header := signedPayload("checkout.session.expired", "cs_test_1")
	require.NoError(t, svc.HandleWebhook(payload, header, testSecret))

	got, err := requests.GetByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, got.Status)
	// The revert does not move the original acceptance time.
	require.NotNil(t, got.AcceptedAt)
	assert.True(t, got.AcceptedAt.Equal(*req.AcceptedAt))

	p, err := svc.PaymentRepo.GetByRequestID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, p.Status)
}

func TestRetryAfterExpiryReusesPaymentRecord(t *testing.T) {
	svc, requests, checkout, req := newService(t)
	resp, err := svc.CreateCheckout(req.UserID, models.CreateCheckoutInput{ServiceRequestID: req.ID})
	require.NoError(t, err)
	firstPaymentID := resp.Payment.ID

	payload, header := signedPayload("checkout.session.expired", "cs_test_1")
	require.NoError(t, svc.HandleWebhook(payload, header, testSecret))

	resp, err = svc.CreateCheckout(req.UserID, models.CreateCheckoutInput{ServiceRequestID: req.ID})
	require.NoError(t, err)
	assert.Equal(t, firstPaymentID, resp.Payment.ID)
	assert.Equal(t, "cs_test_2", resp.Payment.TransactionID)
	assert.Equal(t, 2, checkout.calls)

	got, err := requests.GetByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPaymentPending, got.Status)
}

func TestExpiryAfterCompletionIsStale(t *testing.T) {
	svc, requests, _, req := newService(t)
	_, err := svc.CreateCheckout(req.UserID, models.CreateCheckoutInput{ServiceRequestID: req.ID})
	require.NoError(t, err)

	completed, header := signedPayload("checkout.session.completed", "cs_test_1")
	require.NoError(t, svc.HandleWebhook(completed, header, testSecret))

	expired, expiredHeader := signedPayload("checkout.session.expired", "cs_test_1")
	require.NoError(t, svc.HandleWebhook(expired, expiredHeader, testSecret))

	got, err := requests.GetByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPaid, got.Status)
}
