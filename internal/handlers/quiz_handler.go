package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/services"
	"github.com/esther-lms/learning-service/internal/utils"
	"github.com/esther-lms/learning-service/internal/validator"
)

type QuizHandler struct {
	BaseHandler
	service services.QuizService
}

func NewQuizHandler(service services.QuizService, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *QuizHandler) Create(c *gin.Context) {
	userID, role, ok := h.identity(c)
	if !ok {
		return
	}

	var req validator.QuizCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating quiz", "course_id", req.CourseID)

	quiz, err := h.service.Create(c.Request.Context(), userID, role, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create quiz")
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

func (h *QuizHandler) Get(c *gin.Context) {
	userID, role, ok := h.identity(c)
	if !ok {
		return
	}

	quiz, err := h.service.Get(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to get quiz")
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// ListByCourse returns the quizzes attached to a course.
func (h *QuizHandler) ListByCourse(c *gin.Context) {
	quizzes, err := h.service.ListByCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to list quizzes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"quizzes": quizzes})
}

func (h *QuizHandler) AddQuestion(c *gin.Context) {
	userID, role, ok := h.identity(c)
	if !ok {
		return
	}

	var req validator.QuestionCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	question, err := h.service.AddQuestion(c.Request.Context(), userID, role, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to add question")
		return
	}
	c.JSON(http.StatusCreated, question)
}

// Submit scores the caller's answers against the quiz.
func (h *QuizHandler) Submit(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "user not authenticated"})
		return
	}

	var req validator.SubmissionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Submitting quiz", "quiz_id", c.Param("id"))

	result, err := h.service.Submit(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to submit quiz")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListMySubmissions returns the caller's past attempts at a quiz.
func (h *QuizHandler) ListMySubmissions(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "user not authenticated"})
		return
	}

	submissions, err := h.service.ListMySubmissions(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to list submissions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

func (h *QuizHandler) identity(c *gin.Context) (string, models.UserRole, bool) {
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
