package handlers

import (
	"io"
	"net/http"

	"elanis/config"
	"elanis/middleware"
	"elanis/models"
	"elanis/utils"

	"github.com/gin-gonic/gin"
)

// CreateCheckout opens a hosted checkout session for an accepted request.
func (h *Handler) CreateCheckout(c *gin.Context) {
	var in models.CreateCheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, utils.BadRequest(err.Error()))
		return
	}
	resp, err := h.Payments.CreateCheckout(middleware.Claims(c).UserID, in)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "Checkout session created", resp)
}

// GetPayment returns the payment attached to a request.
func (h *Handler) GetPayment(c *gin.Context) {
	p, err := h.Payments.GetByRequestID(middleware.Claims(c), c.Param("id"))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Payment", p)
}

// StripeWebhook receives gateway deliveries. The raw body is needed for
// signature verification, so no binding happens here.
func (h *Handler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		utils.JSONError(c, utils.BadRequest("could not read webhook body"))
		return
	}
	sig := c.GetHeader("Stripe-Signature")
	if err := h.Payments.HandleWebhook(payload, sig, config.AppConfig.StripeWebhookSecret); err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Webhook processed", nil)
}
