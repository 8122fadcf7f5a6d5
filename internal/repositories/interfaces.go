package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/esther-lms/learning-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role      *models.UserRole `json:"role"`
	Query     *string          `json:"query"` // matches name or email
	Limit     int              `json:"limit"`
	Offset    int              `json:"offset"`
	SortBy    string           `json:"sort_by"`    // "created_at", "email"
	SortOrder string           `json:"sort_order"` // "asc", "desc"
}

type CourseFilters struct {
	Category     *string                  `json:"category"`
	Difficulty   *models.CourseDifficulty `json:"difficulty"`
	InstructorID *string                  `json:"instructor_id"`
	Published    *bool                    `json:"published"`
	Limit        int                      `json:"limit"`
	Offset       int                      `json:"offset"`
	SortBy       string                   `json:"sort_by"`
	SortOrder    string                   `json:"sort_order"`
}

// ===== SHARED STATISTICS STRUCTS =====

type PlatformStats struct {
	TotalUsers       int64                     `json:"total_users"`
	UsersByRole      map[models.UserRole]int64 `json:"users_by_role"`
	TotalCourses     int64                     `json:"total_courses"`
	PublishedCourses int64                     `json:"published_courses"`
	TotalEnrollments int64                     `json:"total_enrollments"`
	TotalSubmissions int64                     `json:"total_submissions"`
	TotalGroups      int64                     `json:"total_mentorship_groups"`
}

// ===== REPOSITORY INTERFACES =====

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, tx *gorm.DB, token *models.RefreshToken) error
	GetByJTI(ctx context.Context, tx *gorm.DB, jti string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, tx *gorm.DB, jti string, at time.Time) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Course, error)
	GetByIDWithContent(ctx context.Context, tx *gorm.DB, id string) (*models.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	AddModule(ctx context.Context, tx *gorm.DB, module *models.Module) error
	GetModule(ctx context.Context, tx *gorm.DB, id string) (*models.Module, error)
	AddLesson(ctx context.Context, tx *gorm.DB, lesson *models.Lesson) error
}

type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Enrollment, error)
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID string) (*models.Enrollment, error)
}

type ProgressRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, progress *models.Progress) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Progress, error)
}

type AccessibilityRepository interface {
	Get(ctx context.Context, tx *gorm.DB, userID string) (*models.AccessibilitySettings, error)
	Upsert(ctx context.Context, tx *gorm.DB, settings *models.AccessibilitySettings) error
}

type QuizRepository interface {
	Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Quiz, error)
	GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id string) (*models.Quiz, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.Quiz, error)
	AddQuestion(ctx context.Context, tx *gorm.DB, question *models.Question) error
	CreateSubmission(ctx context.Context, tx *gorm.DB, submission *models.Submission) error
	ListSubmissions(ctx context.Context, tx *gorm.DB, quizID, userID string) ([]*models.Submission, error)
}

type MentorshipRepository interface {
	CreateGroup(ctx context.Context, tx *gorm.DB, group *models.MentorshipGroup) error
	GetGroup(ctx context.Context, tx *gorm.DB, id string) (*models.MentorshipGroup, error)
	ListGroups(ctx context.Context, tx *gorm.DB) ([]*models.MentorshipGroup, error)
	AddMember(ctx context.Context, tx *gorm.DB, membership *models.MentorshipMembership) error
	IsMember(ctx context.Context, tx *gorm.DB, groupID, userID string) (bool, error)
}

type DashboardRepository interface {
	PlatformStats(ctx context.Context) (*PlatformStats, error)
}

// Repository is the storage access root handed to services.
type Repository interface {
	User() UserRepository
	RefreshToken() RefreshTokenRepository
	Course() CourseRepository
	Enrollment() EnrollmentRepository
	Progress() ProgressRepository
	Accessibility() AccessibilityRepository
	Quiz() QuizRepository
	Mentorship() MentorshipRepository
	Dashboard() DashboardRepository

	Ping(ctx context.Context) error
	Close() error
}
