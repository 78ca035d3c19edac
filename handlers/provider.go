package handlers

import (
	"net/http"
	"strconv"

	"elanis/middleware"
	"elanis/models"
	"elanis/utils"

	"github.com/gin-gonic/gin"
)

// Apply submits a provider application.
func (h *Handler) Apply(c *gin.Context) {
	var in models.ApplyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, utils.BadRequest(err.Error()))
		return
	}
	app, err := h.Providers.Apply(middleware.Claims(c).UserID, in)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "Application submitted", app)
}

// MyApplication returns the caller's latest application.
func (h *Handler) MyApplication(c *gin.Context) {
	app, err := h.Providers.MyApplication(middleware.Claims(c).UserID)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Application", app)
}

// GetProvider returns a provider's public profile.
func (h *Handler) GetProvider(c *gin.Context) {
	profile, err := h.Providers.GetProfile(c.Param("id"))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Provider", profile)
}

// ListProviders returns a page of providers.
func (h *Handler) ListProviders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	profiles, total, err := h.Providers.List(page, pageSize)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Providers", gin.H{"items": profiles, "total": total})
}

// UploadDocument stores an application document and returns its URL.
func (h *Handler) UploadDocument(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		utils.JSONError(c, utils.BadRequest("a file field is required"))
		return
	}
	defer file.Close()

	url, err := h.Providers.UploadDocument(c.Request.Context(), middleware.Claims(c).UserID, file, c.PostForm("kind"))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "Document uploaded", gin.H{"url": url})
}

// SetAccepting flips whether the caller's provider profile accepts new
// requests.
func (h *Handler) SetAccepting(c *gin.Context) {
	var in struct {
		Accepting bool `json:"accepting"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, utils.BadRequest(err.Error()))
		return
	}
	if err := h.Providers.SetAccepting(middleware.Claims(c).UserID, in.Accepting); err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Availability updated", nil)
}
