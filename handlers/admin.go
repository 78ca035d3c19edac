package handlers

import (
	"net/http"
	"strconv"

	"elanis/middleware"
	"elanis/utils"

	"github.com/gin-gonic/gin"
)

// ListApplications returns a page of provider applications.
func (h *Handler) ListApplications(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	apps, total, err := h.Admin.ListApplications(page, pageSize)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Applications", gin.H{"items": apps, "total": total})
}

// GetApplication returns one application.
func (h *Handler) GetApplication(c *gin.Context) {
	app, err := h.Admin.GetApplication(c.Param("id"))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Application", app)
}

// ApproveApplication approves an application and reports what followed.
func (h *Handler) ApproveApplication(c *gin.Context) {
	result, err := h.Admin.Approve(middleware.Claims(c).UserID, c.Param("id"))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Application approved", result)
}

// RejectApplication rejects an application with a reason.
func (h *Handler) RejectApplication(c *gin.Context) {
	var in struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, utils.BadRequest(err.Error()))
		return
	}
	result, err := h.Admin.Reject(middleware.Claims(c).UserID, c.Param("id"), in.Reason)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Application rejected", result)
}

// SuspendProvider takes a provider out of circulation.
func (h *Handler) SuspendProvider(c *gin.Context) {
	var in struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, utils.BadRequest(err.Error()))
		return
	}
	if err := h.Admin.Suspend(c.Param("id"), in.Reason); err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Provider suspended", nil)
}

// ActivateProvider lifts a suspension.
func (h *Handler) ActivateProvider(c *gin.Context) {
	if err := h.Admin.Activate(c.Param("id")); err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Provider activated", nil)
}

// Dashboard returns the admin overview counters.
func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.Admin.Dashboard()
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Dashboard", stats)
}
