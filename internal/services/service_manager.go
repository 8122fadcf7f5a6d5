package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/esther-lms/learning-service/internal/auth"
	"github.com/esther-lms/learning-service/internal/events"
	"github.com/esther-lms/learning-service/internal/repositories"
	"github.com/esther-lms/learning-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	DefaultTimeout time.Duration

	// How often expired refresh tokens are pruned from storage. Zero
	// disables the background sweep.
	TokenPruneInterval time.Duration
}

// serviceManager implements ServiceManager
type serviceManager struct {
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *auth.TokenService
	publisher events.EventPublisher
	config    ServiceManagerConfig

	authService          AuthService
	userService          UserService
	courseService        CourseService
	enrollmentService    EnrollmentService
	progressService      ProgressService
	accessibilityService AccessibilityService
	quizService          QuizService
	mentorshipService    MentorshipService
	adminService         AdminService

	initialized bool
	shutdown    bool
	stopPrune   chan struct{}
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, v *validator.Validator, tokens *auth.TokenService, publisher events.EventPublisher, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: v,
		tokens:    tokens,
		publisher: publisher,
		config:    config,
		stopPrune: make(chan struct{}),
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, v *validator.Validator, tokens *auth.TokenService, publisher events.EventPublisher) ServiceManager {
	config := ServiceManagerConfig{
		DefaultTimeout:     30 * time.Second,
		TokenPruneInterval: time.Hour,
	}
	return NewServiceManager(db, repo, logger, v, tokens, publisher, config)
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.authService = NewAuthService(sm.repo, sm.db, sm.logger, sm.validator, sm.tokens, sm.publisher)
	sm.userService = NewUserService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.courseService = NewCourseService(sm.repo, sm.db, sm.logger, sm.validator, sm.publisher)
	sm.enrollmentService = NewEnrollmentService(sm.repo, sm.db, sm.logger, sm.publisher)
	sm.progressService = NewProgressService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.accessibilityService = NewAccessibilityService(sm.repo, sm.logger)
	sm.quizService = NewQuizService(sm.repo, sm.db, sm.logger, sm.validator, sm.publisher)
	sm.mentorshipService = NewMentorshipService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.adminService = NewAdminService(sm.repo, sm.db, sm.logger)

	if sm.config.TokenPruneInterval > 0 {
		go sm.pruneExpiredTokens()
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")
	return nil
}

// pruneExpiredTokens deletes refresh tokens past their expiry so the table
// does not grow without bound.
func (sm *serviceManager) pruneExpiredTokens() {
	ticker := time.NewTicker(sm.config.TokenPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), sm.config.DefaultTimeout)
			deleted, err := sm.repo.RefreshToken().DeleteExpiredBefore(ctx, time.Now())
			cancel()
			if err != nil {
				sm.logger.Error("Failed to prune expired refresh tokens", "error", err)
				continue
			}
			if deleted > 0 {
				sm.logger.Info("Pruned expired refresh tokens", "count", deleted)
			}
		case <-sm.stopPrune:
			return
		}
	}
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.authService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.userService
}

func (sm *serviceManager) Course() CourseService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.courseService
}

func (sm *serviceManager) Enrollment() EnrollmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.enrollmentService
}

func (sm *serviceManager) Progress() ProgressService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.progressService
}

func (sm *serviceManager) Accessibility() AccessibilityService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.accessibilityService
}

func (sm *serviceManager) Quiz() QuizService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.quizService
}

func (sm *serviceManager) Mentorship() MentorshipService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.mentorshipService
}

func (sm *serviceManager) Admin() AdminService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.adminService
}

func (sm *serviceManager) mustBeInitialized() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// HealthCheck verifies the manager and its storage are usable.
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	return nil
}

// Shutdown stops background work and closes the event publisher.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")
	close(sm.stopPrune)

	if err := sm.publisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")
	return nil
}
