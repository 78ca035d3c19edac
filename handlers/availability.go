package handlers

import (
	"net/http"

	"elanis/middleware"
	"elanis/models"
	"elanis/utils"

	"github.com/gin-gonic/gin"
)

func (h *Handler) callerProviderID(c *gin.Context) (string, error) {
	profile, err := h.ProviderProfiles.GetByUserID(middleware.Claims(c).UserID)
	if err != nil {
		return "", utils.Forbidden("no provider profile for this account")
	}
	return profile.ID, nil
}

// AddAvailability declares one date on the caller's calendar.
func (h *Handler) AddAvailability(c *gin.Context) {
	providerID, err := h.callerProviderID(c)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	var in models.AddAvailabilityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, utils.BadRequest(err.Error()))
		return
	}
	entry, err := h.Availability.AddEntry(providerID, in)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "Availability added", entry)
}

// AddAvailabilityBulk declares several dates at once.
func (h *Handler) AddAvailabilityBulk(c *gin.Context) {
	providerID, err := h.callerProviderID(c)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	var in models.BulkAvailabilityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, utils.BadRequest(err.Error()))
		return
	}
	entries, err := h.Availability.AddBulk(providerID, in)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "Availability added", entries)
}

// UpdateAvailability rewrites the declaration for one date.
func (h *Handler) UpdateAvailability(c *gin.Context) {
	providerID, err := h.callerProviderID(c)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	var in models.AddAvailabilityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, utils.BadRequest(err.Error()))
		return
	}
	if err := h.Availability.UpdateEntry(providerID, c.Param("date"), in); err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Availability updated", nil)
}

// DeleteAvailability removes the declaration for one date.
func (h *Handler) DeleteAvailability(c *gin.Context) {
	providerID, err := h.callerProviderID(c)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	if err := h.Availability.DeleteEntry(providerID, c.Param("date")); err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Availability deleted", nil)
}

// GetProviderCalendar returns a provider's public calendar for a date range.
func (h *Handler) GetProviderCalendar(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		utils.JSONError(c, utils.BadRequest("from and to query parameters are required"))
		return
	}
	days, err := h.Availability.GetCalendar(c.Param("id"), from, to)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Calendar", days)
}

// CheckAvailability answers whether the provider can take a shift on a date.
func (h *Handler) CheckAvailability(c *gin.Context) {
	date := c.Query("date")
	shift := models.ShiftType(c.Query("shift"))
	if date == "" || !shift.Valid() {
		utils.JSONError(c, utils.BadRequest("date and a valid shift query parameter are required"))
		return
	}
	ok, reason, err := h.Availability.IsAvailable(c.Param("id"), date, shift)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Availability", gin.H{"available": ok, "reason": reason})
}
