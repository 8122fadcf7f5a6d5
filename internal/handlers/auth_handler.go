package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esther-lms/learning-service/internal/services"
	"github.com/esther-lms/learning-service/internal/utils"
	"github.com/esther-lms/learning-service/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	service services.AuthService
}

func NewAuthHandler(service services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Signup registers a new learner account and returns the profile with an
// initial token pair.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req validator.SignupRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Signing up user")

	user, tokens, err := h.service.Signup(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to sign up")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Login exchanges credentials for a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req validator.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, tokens, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Refresh rotates a refresh token for a new pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req validator.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.handleServiceError(c, err, "Failed to refresh token")
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Logout revokes the presented refresh token.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req validator.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.service.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		h.handleServiceError(c, err, "Failed to log out")
		return
	}

	c.Status(http.StatusNoContent)
}
