package handlers

import (
	"net/http"

	"elanis/middleware"
	"elanis/models"
	"elanis/utils"

	"github.com/gin-gonic/gin"
)

// CreateReview submits a review on a completed request.
func (h *Handler) CreateReview(c *gin.Context) {
	var in models.CreateReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, utils.BadRequest(err.Error()))
		return
	}
	rev, err := h.Reviews.Create(middleware.Claims(c).UserID, in)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "Review submitted", rev)
}

// GetProviderReviews returns a provider's reviews and aggregates.
func (h *Handler) GetProviderReviews(c *gin.Context) {
	out, err := h.Reviews.GetForProvider(c.Param("id"))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Reviews", out)
}

// GetRequestReview returns the review left on one request.
func (h *Handler) GetRequestReview(c *gin.Context) {
	rev, err := h.Reviews.GetForRequest(c.Param("id"))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Review", rev)
}

// GetMyReviews returns the reviews the caller has written.
func (h *Handler) GetMyReviews(c *gin.Context) {
	reviews, err := h.Reviews.GetMine(middleware.Claims(c).UserID)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Reviews", reviews)
}
