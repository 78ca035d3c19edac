package models

import "time"

// Payment is the single payment record attached to a service request.
// Amount is copied from the request at checkout time. TransactionID holds the
// gateway checkout session id; PaymentIntentID and GatewayResponse are filled
// by the webhook handler.
type Payment struct {
	ID               string        `bson:"id" json:"id"`
	ServiceRequestID string        `bson:"serviceRequestId" json:"serviceRequestId"`
	Amount           float64       `bson:"amount" json:"amount"`
	Method           PaymentMethod `bson:"method" json:"method"`
	Status           PaymentStatus `bson:"status" json:"status"`
	TransactionID    string        `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	PaymentIntentID  string        `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	GatewayResponse  string        `bson:"gatewayResponse,omitempty" json:"-"`
	CreatedAt        time.Time     `bson:"createdAt" json:"createdAt"`
	PaidAt           *time.Time    `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
}

// CreateCheckoutInput is the payload for initiating a hosted checkout.
type CreateCheckoutInput struct {
	ServiceRequestID string `json:"serviceRequestId" binding:"required"`
}

// CheckoutResponse is returned after a checkout session has been created.
type CheckoutResponse struct {
	Payment     Payment `json:"payment"`
	CheckoutURL string  `json:"checkoutUrl"`
}
