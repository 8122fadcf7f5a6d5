package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esther-lms/learning-service/internal/services"
	"github.com/esther-lms/learning-service/internal/utils"
	"github.com/esther-lms/learning-service/internal/validator"
)

type ProgressHandler struct {
	BaseHandler
	progress      services.ProgressService
	accessibility services.AccessibilityService
}

func NewProgressHandler(progress services.ProgressService, accessibility services.AccessibilityService, logger utils.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:   NewBaseHandler(logger),
		progress:      progress,
		accessibility: accessibility,
	}
}

// Record upserts the caller's progress snapshot for a course.
func (h *ProgressHandler) Record(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "user not authenticated"})
		return
	}

	var req validator.ProgressUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	record, err := h.progress.Record(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to record progress")
		return
	}
	c.JSON(http.StatusOK, record)
}

// ListMine returns all of the caller's progress records.
func (h *ProgressHandler) ListMine(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "user not authenticated"})
		return
	}

	records, err := h.progress.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list progress")
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": records})
}

// GetAccessibility returns the caller's accessibility settings.
func (h *ProgressHandler) GetAccessibility(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "user not authenticated"})
		return
	}

	settings, err := h.accessibility.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to get accessibility settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateAccessibility replaces the caller's accessibility settings.
func (h *ProgressHandler) UpdateAccessibility(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "user not authenticated"})
		return
	}

	var req validator.AccessibilityRequest
	if !h.bindJSON(c, &req) {
		return
	}

	settings, err := h.accessibility.Update(c.Request.Context(), userID, req.Settings)
	if err != nil {
		h.handleServiceError(c, err, "Failed to update accessibility settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
