package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/services"
	"github.com/esther-lms/learning-service/internal/utils"
	"github.com/esther-lms/learning-service/internal/validator"
)

type UserHandler struct {
	BaseHandler
	service services.UserService
}

func NewUserHandler(service services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Me returns the authenticated user's own profile.
func (h *UserHandler) Me(c *gin.Context) {
	user, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "user not authenticated"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe applies profile changes to the caller's own account.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "user not authenticated"})
		return
	}

	var req validator.UserUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.service.Update(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUser returns a user by ID, subject to visibility rules.
func (h *UserHandler) GetUser(c *gin.Context) {
	requesterID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "user not authenticated"})
		return
	}
	role, err := GetUserRoleFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "user not authenticated"})
		return
	}

	h.LogRequest(c, "Getting user", "target_id", c.Param("id"))

	user, err := h.service.GetByID(c.Request.Context(), requesterID, role, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateRole assigns a role to a user. Administrators only; the routing layer
// enforces that.
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req validator.RoleUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Updating user role", "target_id", c.Param("id"), "role", req.Role)

	user, err := h.service.UpdateRole(c.Request.Context(), c.Param("id"), models.UserRole(req.Role))
	if err != nil {
		h.handleServiceError(c, err, "Failed to update role")
		return
	}
	c.JSON(http.StatusOK, user)
}
