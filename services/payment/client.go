package payment

import (
	"fmt"

	"elanis/config"
	"elanis/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

// CheckoutClient creates hosted checkout sessions with the payment gateway.
type CheckoutClient interface {
	// CreateSession opens a checkout session for the request's snapshotted
	// price and returns the gateway session id and the hosted payment URL.
	CreateSession(req *models.ServiceRequest, paymentID string) (sessionID, url string, err error)
}

// StripeCheckoutClient implements CheckoutClient on Stripe Checkout.
type StripeCheckoutClient struct{}

// CreateSession opens a Stripe Checkout session. Amounts are converted to the
// currency's minor unit as Stripe expects.
func (StripeCheckoutClient) CreateSession(req *models.ServiceRequest, paymentID string) (string, string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(config.AppConfig.CheckoutSuccessURL),
		CancelURL:  stripe.String(config.AppConfig.CheckoutCancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(config.AppConfig.StripeCurrency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Service booking %s (%s)", req.ID, req.ShiftType.DisplayName())),
					},
					UnitAmount: stripe.Int64(int64(req.TotalPrice * 100)),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata("serviceRequestId", req.ID)
	params.AddMetadata("paymentId", paymentID)

	sess, err := session.New(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return sess.ID, sess.URL, nil
}
