package postgres

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/esther-lms/learning-service/internal/cache"
	"github.com/esther-lms/learning-service/internal/repositories"
)

// PostgreSQLRepository implements the Repository root over a single gorm
// handle; redis is an optional read-through cache, never a second source of
// truth.
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	user          repositories.UserRepository
	refreshToken  repositories.RefreshTokenRepository
	course        repositories.CourseRepository
	enrollment    repositories.EnrollmentRepository
	progress      repositories.ProgressRepository
	accessibility repositories.AccessibilityRepository
	quiz          repositories.QuizRepository
	mentorship    repositories.MentorshipRepository
	dashboard     repositories.DashboardRepository
}

type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	return &PostgreSQLRepository{
		db:            config.DB,
		redisClient:   config.RedisClient,
		cacheManager:  cacheManager,
		user:          NewUserPostgreSQL(config.DB, cacheManager),
		refreshToken:  NewRefreshTokenPostgreSQL(config.DB),
		course:        NewCoursePostgreSQL(config.DB, cacheManager),
		enrollment:    NewEnrollmentPostgreSQL(config.DB),
		progress:      NewProgressPostgreSQL(config.DB),
		accessibility: NewAccessibilityPostgreSQL(config.DB),
		quiz:          NewQuizPostgreSQL(config.DB),
		mentorship:    NewMentorshipPostgreSQL(config.DB),
		dashboard:     NewDashboardPostgreSQL(config.DB),
	}
}

func (r *PostgreSQLRepository) User() repositories.UserRepository { return r.user }
func (r *PostgreSQLRepository) RefreshToken() repositories.RefreshTokenRepository {
	return r.refreshToken
}
func (r *PostgreSQLRepository) Course() repositories.CourseRepository         { return r.course }
func (r *PostgreSQLRepository) Enrollment() repositories.EnrollmentRepository { return r.enrollment }
func (r *PostgreSQLRepository) Progress() repositories.ProgressRepository     { return r.progress }
func (r *PostgreSQLRepository) Accessibility() repositories.AccessibilityRepository {
	return r.accessibility
}
func (r *PostgreSQLRepository) Quiz() repositories.QuizRepository             { return r.quiz }
func (r *PostgreSQLRepository) Mentorship() repositories.MentorshipRepository { return r.mentorship }
func (r *PostgreSQLRepository) Dashboard() repositories.DashboardRepository   { return r.dashboard }

func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
