package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esther-lms/learning-service/internal/services"
	"github.com/esther-lms/learning-service/internal/utils"
	"github.com/esther-lms/learning-service/internal/validator"
)

type MentorshipHandler struct {
	BaseHandler
	service services.MentorshipService
}

func NewMentorshipHandler(service services.MentorshipService, logger utils.Logger) *MentorshipHandler {
	return &MentorshipHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListGroups returns every mentorship group on the platform.
func (h *MentorshipHandler) ListGroups(c *gin.Context) {
	groups, err := h.service.ListGroups(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "Failed to list mentorship groups")
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *MentorshipHandler) CreateGroup(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "user not authenticated"})
		return
	}
	role, err := GetUserRoleFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "user not authenticated"})
		return
	}

	var req validator.GroupCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating mentorship group", "title", req.Title)

	group, err := h.service.CreateGroup(c.Request.Context(), userID, role, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create mentorship group")
		return
	}
	c.JSON(http.StatusCreated, group)
}

// Join adds the caller to a group. Joining a group the caller already
// belongs to is reported as success without a new membership.
func (h *MentorshipHandler) Join(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "user not authenticated"})
		return
	}

	membership, created, err := h.service.Join(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to join mentorship group")
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"detail": "already a member"})
		return
	}
	c.JSON(http.StatusCreated, membership)
}
