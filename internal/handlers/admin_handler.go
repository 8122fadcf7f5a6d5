package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/repositories"
	"github.com/esther-lms/learning-service/internal/services"
	"github.com/esther-lms/learning-service/internal/utils"
)

type AdminHandler struct {
	BaseHandler
	service services.AdminService
}

func NewAdminHandler(service services.AdminService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Stats returns platform-wide counters for the admin dashboard.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.service.PlatformStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "Failed to compute platform stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListUsers returns a filtered page of user accounts.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	filters := userFiltersFromQuery(c)

	result, err := h.service.ListUsers(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportUsers streams the user list as an XLSX workbook.
func (h *AdminHandler) ExportUsers(c *gin.Context) {
	filters := userFiltersFromQuery(c)

	h.LogRequest(c, "Exporting users")

	data, filename, err := h.service.ExportUsers(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err, "Failed to export users")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func userFiltersFromQuery(c *gin.Context) repositories.UserFilters {
	filters := repositories.UserFilters{
		Limit:     parseIntQuery(c, "limit", 50),
		Offset:    parseIntQuery(c, "offset", 0),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	if v := c.Query("role"); v != "" {
		role := models.UserRole(v)
		filters.Role = &role
	}
	if v := c.Query("query"); v != "" {
		filters.Query = &v
	}
	return filters
}
