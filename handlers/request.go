package handlers

import (
	"net/http"

	"elanis/middleware"
	"elanis/models"
	"elanis/utils"

	"github.com/gin-gonic/gin"
)

// CreateRequest books a new service request.
func (h *Handler) CreateRequest(c *gin.Context) {
	var in models.CreateRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, utils.BadRequest(err.Error()))
		return
	}
	view, err := h.Requests.Create(middleware.Claims(c).UserID, in)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "Request created", view)
}

// GetRequest returns one request.
func (h *Handler) GetRequest(c *gin.Context) {
	view, err := h.Requests.GetByID(middleware.Claims(c), c.Param("id"))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Request", view)
}

// ListMyRequests returns the caller's own requests.
func (h *Handler) ListMyRequests(c *gin.Context) {
	views, err := h.Requests.ListForUser(middleware.Claims(c).UserID)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Requests", views)
}

// ListAssignedRequests returns the requests addressed to the caller's
// provider profile.
func (h *Handler) ListAssignedRequests(c *gin.Context) {
	views, err := h.Requests.ListForProvider(middleware.Claims(c).UserID)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Requests", views)
}

// RespondToRequest records the provider's accept or reject decision.
func (h *Handler) RespondToRequest(c *gin.Context) {
	var in models.ProviderResponseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, utils.BadRequest(err.Error()))
		return
	}
	view, err := h.Requests.Respond(middleware.Claims(c).UserID, c.Param("id"), in)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Response recorded", view)
}

// StartRequest moves a paid request into progress.
func (h *Handler) StartRequest(c *gin.Context) {
	view, err := h.Requests.Start(middleware.Claims(c).UserID, c.Param("id"))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Request started", view)
}

// CompleteRequest finishes an in-progress request.
func (h *Handler) CompleteRequest(c *gin.Context) {
	view, err := h.Requests.Complete(middleware.Claims(c).UserID, c.Param("id"))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Request completed", view)
}

// CancelRequest cancels a request.
func (h *Handler) CancelRequest(c *gin.Context) {
	view, err := h.Requests.Cancel(middleware.Claims(c), c.Param("id"))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Request cancelled", view)
}
