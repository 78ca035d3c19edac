package handlers

import (
	"net/http"

	"elanis/middleware"
	"elanis/models"
	"elanis/utils"

	"github.com/gin-gonic/gin"
)

// Register creates an account and returns a token.
func (h *Handler) Register(c *gin.Context) {
	var in models.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, utils.BadRequest(err.Error()))
		return
	}
	resp, err := h.Auth.Register(in)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "Account created", resp)
}

// Login authenticates and returns a token.
func (h *Handler) Login(c *gin.Context) {
	var in models.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, utils.BadRequest(err.Error()))
		return
	}
	resp, err := h.Auth.Login(in)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Logged in", resp)
}

// Logout revokes the caller's token.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.Auth.Logout(middleware.RawToken(c)); err != nil {
		utils.JSONError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "Logged out", nil)
}
