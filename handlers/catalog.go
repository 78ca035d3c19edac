package handlers

import (
	"net/http"

	"elanis/models"
	"elanis/utils"

	"github.com/gin-gonic/gin"
)

// ListCategories returns the active service categories.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.Catalog.ListCategories()
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Categories", categories)
}

// GetQuote returns the active price for a category and shift.
func (h *Handler) GetQuote(c *gin.Context) {
	shift := models.ShiftType(c.Query("shift"))
	price, err := h.Catalog.GetQuote(c.Param("id"), shift)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Quote", price)
}

// ListPricing returns every price row of a category.
func (h *Handler) ListPricing(c *gin.Context) {
	rows, err := h.Catalog.ListPricing(c.Param("id"))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Pricing", rows)
}

// CreatePricing adds an active price row.
func (h *Handler) CreatePricing(c *gin.Context) {
	var in models.CreatePricingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, utils.BadRequest(err.Error()))
		return
	}
	price, err := h.Catalog.CreatePricing(in)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "Pricing created", price)
}

// UpdatePricing changes a price row.
func (h *Handler) UpdatePricing(c *gin.Context) {
	var in models.UpdatePricingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, utils.BadRequest(err.Error()))
		return
	}
	if err := h.Catalog.UpdatePricing(c.Param("id"), in); err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Pricing updated", nil)
}

// DeactivatePricing retires a price row.
func (h *Handler) DeactivatePricing(c *gin.Context) {
	if err := h.Catalog.DeactivatePricing(c.Param("id")); err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Pricing deactivated", nil)
}
