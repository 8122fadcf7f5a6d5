package services

import (
	"context"

	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/repositories"
	"github.com/esther-lms/learning-service/internal/validator"
)

// ===== RESPONSE STRUCTS =====

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"` // seconds until the access token expires
}

// UserListResult carries a page of users with the total match count.
type UserListResult struct {
	Users []*models.User `json:"users"`
	Total int64          `json:"total"`
}

// CourseListResult carries a page of courses with the total match count.
type CourseListResult struct {
	Courses []*models.Course `json:"courses"`
	Total   int64            `json:"total"`
}

// SubmissionResult is returned after scoring a quiz submission.
type SubmissionResult struct {
	SubmissionID string `json:"submission_id"`
	QuizID       string `json:"quiz_id"`
	Score        int    `json:"score"`
	Correct      int    `json:"correct"`
	Total        int    `json:"total"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Signup(ctx context.Context, req *validator.SignupRequest) (*models.User, *TokenPair, error)
	Login(ctx context.Context, req *validator.LoginRequest) (*models.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

type UserService interface {
	GetByID(ctx context.Context, requesterID string, requesterRole models.UserRole, id string) (*models.User, error)
	Update(ctx context.Context, userID string, req *validator.UserUpdateRequest) (*models.User, error)
	UpdateRole(ctx context.Context, id string, role models.UserRole) (*models.User, error)
}

type CourseService interface {
	Create(ctx context.Context, instructorID string, role models.UserRole, req *validator.CourseCreateRequest) (*models.Course, error)
	Get(ctx context.Context, requesterID string, role models.UserRole, id string) (*models.Course, error)
	Update(ctx context.Context, requesterID string, role models.UserRole, id string, req *validator.CourseUpdateRequest) (*models.Course, error)
	Publish(ctx context.Context, requesterID string, role models.UserRole, id string) (*models.Course, error)
	List(ctx context.Context, requesterID string, role models.UserRole, filters repositories.CourseFilters) (*CourseListResult, error)
	AddModule(ctx context.Context, requesterID string, role models.UserRole, courseID string, req *validator.ModuleCreateRequest) (*models.Module, error)
	AddLesson(ctx context.Context, requesterID string, role models.UserRole, moduleID string, req *validator.LessonCreateRequest) (*models.Lesson, error)
}

type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
	ListMine(ctx context.Context, userID string) ([]*models.Enrollment, error)
}

type ProgressService interface {
	Record(ctx context.Context, userID string, req *validator.ProgressUpdateRequest) (*models.Progress, error)
	ListMine(ctx context.Context, userID string) ([]*models.Progress, error)
}

type AccessibilityService interface {
	Get(ctx context.Context, userID string) (map[string]interface{}, error)
	Update(ctx context.Context, userID string, settings map[string]interface{}) (map[string]interface{}, error)
}

type QuizService interface {
	Create(ctx context.Context, requesterID string, role models.UserRole, req *validator.QuizCreateRequest) (*models.Quiz, error)
	Get(ctx context.Context, requesterID string, role models.UserRole, id string) (*models.Quiz, error)
	ListByCourse(ctx context.Context, courseID string) ([]*models.Quiz, error)
	AddQuestion(ctx context.Context, requesterID string, role models.UserRole, quizID string, req *validator.QuestionCreateRequest) (*models.Question, error)
	Submit(ctx context.Context, userID, quizID string, req *validator.SubmissionRequest) (*SubmissionResult, error)
	ListMySubmissions(ctx context.Context, userID, quizID string) ([]*models.Submission, error)
}

type MentorshipService interface {
	CreateGroup(ctx context.Context, requesterID string, role models.UserRole, req *validator.GroupCreateRequest) (*models.MentorshipGroup, error)
	ListGroups(ctx context.Context) ([]*models.MentorshipGroup, error)
	Join(ctx context.Context, userID, groupID string) (*models.MentorshipMembership, bool, error)
}

type AdminService interface {
	PlatformStats(ctx context.Context) (*repositories.PlatformStats, error)
	ListUsers(ctx context.Context, filters repositories.UserFilters) (*UserListResult, error)
	ExportUsers(ctx context.Context, filters repositories.UserFilters) ([]byte, string, error)
}

// ServiceManager wires and owns all service instances.
type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Course() CourseService
	Enrollment() EnrollmentService
	Progress() ProgressService
	Accessibility() AccessibilityService
	Quiz() QuizService
	Mentorship() MentorshipService
	Admin() AdminService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
