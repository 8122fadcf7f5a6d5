package validator

import (
	"github.com/esther-lms/learning-service/internal/models"
)

// SignupRequest represents the request structure for account creation
type SignupRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,strong_password"`
	Name     *string `json:"name" validate:"omitempty,max=200"`
}

// LoginRequest represents the request structure for credential login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the request structure for token refresh and logout
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RoleUpdateRequest represents the request structure for changing a user's role
type RoleUpdateRequest struct {
	Role models.UserRole `json:"role" validate:"required,user_role"`
}

// UserUpdateRequest represents the request structure for profile updates
type UserUpdateRequest struct {
	Name *string `json:"name" validate:"omitempty,max=200"`
}

// CourseCreateRequest represents the request structure for creating courses
type CourseCreateRequest struct {
	Title                 string                  `json:"title" validate:"required,course_title"`
	Description           *string                 `json:"description" validate:"omitempty,course_description"`
	Category              string                  `json:"category" validate:"omitempty,max=100"`
	Difficulty            models.CourseDifficulty `json:"difficulty" validate:"omitempty,course_difficulty"`
	Duration              int                     `json:"duration" validate:"omitempty,min=0,max=60000"`
	AccessibilityFeatures []string                `json:"accessibility_features" validate:"omitempty,max=20,dive,max=100"`
}

// CourseUpdateRequest represents the request structure for updating courses
type CourseUpdateRequest struct {
	Title                 *string                  `json:"title" validate:"omitempty,course_title"`
	Description           *string                  `json:"description" validate:"omitempty,course_description"`
	Category              *string                  `json:"category" validate:"omitempty,max=100"`
	Difficulty            *models.CourseDifficulty `json:"difficulty" validate:"omitempty,course_difficulty"`
	Duration              *int                     `json:"duration" validate:"omitempty,min=0,max=60000"`
	AccessibilityFeatures []string                 `json:"accessibility_features" validate:"omitempty,max=20,dive,max=100"`
}

// ModuleCreateRequest represents adding a module to a course
type ModuleCreateRequest struct {
	Title         string  `json:"title" validate:"required,course_title"`
	Description   *string `json:"description" validate:"omitempty,course_description"`
	Position      int     `json:"position" validate:"omitempty,min=0"`
	EstimatedTime *int    `json:"estimated_time" validate:"omitempty,min=1,max=6000"`
}

// LessonCreateRequest represents adding a lesson to a module
type LessonCreateRequest struct {
	Title      string            `json:"title" validate:"required,course_title"`
	LessonType models.LessonType `json:"lesson_type" validate:"required,lesson_type"`
	Content    *string           `json:"content"`
	VideoURL   *string           `json:"video_url" validate:"omitempty,url,max=500"`
	Duration   int               `json:"duration" validate:"omitempty,min=0,max=6000"`
	Position   int               `json:"position" validate:"omitempty,min=0"`
}

// EnrollmentRequest represents the request structure for enrolling in a course
type EnrollmentRequest struct {
	CourseID string `json:"course_id" validate:"required"`
}

// ProgressUpdateRequest represents a progress snapshot for a course
type ProgressUpdateRequest struct {
	CourseID string                 `json:"course_id" validate:"required"`
	Data     map[string]interface{} `json:"data" validate:"required"`
}

// AccessibilityRequest represents a user's accessibility preference document
type AccessibilityRequest struct {
	Settings map[string]interface{} `json:"settings" validate:"required"`
}

// QuizCreateRequest represents the request structure for creating quizzes
type QuizCreateRequest struct {
	CourseID    string  `json:"course_id" validate:"required"`
	Title       string  `json:"title" validate:"required,course_title"`
	Description *string `json:"description" validate:"omitempty,course_description"`
}

// QuestionCreateRequest represents adding a question to a quiz
type QuestionCreateRequest struct {
	Prompt  string   `json:"prompt" validate:"required,min=1,max=2000"`
	Options []string `json:"options" validate:"omitempty,max=10,dive,max=500"`
	Answer  string   `json:"answer" validate:"required,max=500"`
}

// SubmissionRequest represents a quiz answer sheet keyed by question ID
type SubmissionRequest struct {
	Answers map[string]string `json:"answers" validate:"required"`
}

// GroupCreateRequest represents the request structure for creating mentorship groups
type GroupCreateRequest struct {
	Title       string  `json:"title" validate:"required,course_title"`
	Description *string `json:"description" validate:"omitempty,course_description"`
	MentorID    *string `json:"mentor_id" validate:"omitempty"`
}
