package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esther-lms/learning-service/internal/services"
	"github.com/esther-lms/learning-service/internal/utils"
)

type EnrollmentHandler struct {
	BaseHandler
	service services.EnrollmentService
}

func NewEnrollmentHandler(service services.EnrollmentService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Enroll registers the caller in a published course.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "user not authenticated"})
		return
	}

	h.LogRequest(c, "Enrolling in course", "course_id", c.Param("course_id"))

	enrollment, err := h.service.Enroll(c.Request.Context(), userID, c.Param("course_id"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to enroll")
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

// ListMine returns the caller's enrollments.
func (h *EnrollmentHandler) ListMine(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "user not authenticated"})
		return
	}

	enrollments, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list enrollments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollments": enrollments})
}
