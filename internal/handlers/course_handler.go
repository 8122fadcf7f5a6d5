package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/repositories"
	"github.com/esther-lms/learning-service/internal/services"
	"github.com/esther-lms/learning-service/internal/utils"
	"github.com/esther-lms/learning-service/internal/validator"
)

type CourseHandler struct {
	BaseHandler
	service services.CourseService
}

func NewCourseHandler(service services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// List returns the course catalog. Learners only see published courses;
// mentors additionally see their own drafts when filtering by instructor.
func (h *CourseHandler) List(c *gin.Context) {
	userID, _ := GetUserIDFromContext(c)
	role, err := GetUserRoleFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "user not authenticated"})
		return
	}

	filters := repositories.CourseFilters{
		Limit:     parseIntQuery(c, "limit", 50),
		Offset:    parseIntQuery(c, "offset", 0),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	if v := c.Query("category"); v != "" {
		filters.Category = &v
	}
	if v := c.Query("difficulty"); v != "" {
		d := models.CourseDifficulty(v)
		filters.Difficulty = &d
	}
	if v := c.Query("instructor_id"); v != "" {
		filters.InstructorID = &v
	}
	if v := c.Query("published"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filters.Published = &b
		}
	}

	result, err := h.service.List(c.Request.Context(), userID, role, filters)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list courses")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CourseHandler) Create(c *gin.Context) {
	userID, role, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	var req validator.CourseCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating course", "title", req.Title)

	course, err := h.service.Create(c.Request.Context(), userID, role, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create course")
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) Get(c *gin.Context) {
	userID, role, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	course, err := h.service.Get(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to get course")
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Update(c *gin.Context) {
	userID, role, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	var req validator.CourseUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	course, err := h.service.Update(c.Request.Context(), userID, role, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to update course")
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Publish(c *gin.Context) {
	userID, role, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Publishing course", "course_id", c.Param("id"))

	course, err := h.service.Publish(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to publish course")
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) AddModule(c *gin.Context) {
	userID, role, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	var req validator.ModuleCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	module, err := h.service.AddModule(c.Request.Context(), userID, role, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to add module")
		return
	}
	c.JSON(http.StatusCreated, module)
}

func (h *CourseHandler) AddLesson(c *gin.Context) {
	userID, role, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	var req validator.LessonCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lesson, err := h.service.AddLesson(c.Request.Context(), userID, role, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to add lesson")
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

// requireIdentity pulls the caller identity set by the auth middleware.
func (h *CourseHandler) requireIdentity(c *gin.Context) (string, models.UserRole, bool) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "user not authenticated"})
		return "", "", false
	}
	role, err := GetUserRoleFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "user not authenticated"})
		return "", "", false
	}
	return userID, role, true
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
