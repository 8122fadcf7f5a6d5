package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esther-lms/learning-service/internal/services"
	"github.com/esther-lms/learning-service/internal/utils"
	"github.com/esther-lms/learning-service/internal/validator"
)

// ErrorResponse is the error body for every failed request.
type ErrorResponse struct {
	Detail interface{} `json:"detail"`
}

// BaseHandler carries the pieces every handler shares.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs the start of a handler with request context attached.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	args = append(args, "path", c.FullPath(), "method", c.Request.Method)
	if requestID := c.GetString("request_id"); requestID != "" {
		args = append(args, "request_id", requestID)
	}
	h.logger.Info(msg, args...)
}

// LogError logs a handler failure with request context attached.
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err, "path", c.FullPath())
	if requestID := c.GetString("request_id"); requestID != "" {
		args = append(args, "request_id", requestID)
	}
	h.logger.Error(msg, args...)
}

// handleServiceError maps service errors onto HTTP responses. The mapping
// lives here so every handler agrees on status codes.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error, msg string) {
	switch {
	case services.IsValidationError(err):
		var ve validator.ValidationErrors
		if ok := asValidationErrors(err, &ve); ok {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: ve})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: err.Error()})

	case services.IsPermissionError(err):
		c.JSON(http.StatusForbidden, ErrorResponse{Detail: err.Error()})

	case services.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Detail: err.Error()})

	case services.IsConflictError(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: err.Error()})

	case err == services.ErrInvalidCredentials,
		err == services.ErrInvalidToken:
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: err.Error()})

	case err == services.ErrInvalidRole,
		err == services.ErrCourseNotPublished,
		err == services.ErrNotEnrolled:
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: err.Error()})

	default:
		h.LogError(c, err, msg)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: msg})
	}
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if ok {
		*target = ve
	}
	return ok
}

// bindJSON decodes the request body and answers 400 itself on failure.
func (h *BaseHandler) bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid request body"})
		return false
	}
	return true
}
