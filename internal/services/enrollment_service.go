package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/esther-lms/learning-service/internal/events"
	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/repositories"
)

type enrollmentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	publisher events.EventPublisher
}

func NewEnrollmentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, publisher events.EventPublisher) EnrollmentService {
	return &enrollmentService{repo: repo, db: db, logger: logger, publisher: publisher}
}

// Enroll adds the user to a published course. Enrolling twice in the same
// course is rejected.
func (s *enrollmentService) Enroll(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	if !course.IsPublished {
		return nil, ErrCourseNotPublished
	}

	enrollment := &models.Enrollment{
		ID:         uuid.New().String(),
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	if err := s.repo.Enrollment().Create(ctx, nil, enrollment); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("create enrollment: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.EnrollmentCreated, map[string]interface{}{
		"user_id":   userID,
		"course_id": courseID,
	}); err != nil {
		s.logger.Warn("Failed to publish enrollment event", "user_id", userID, "course_id", courseID, "error", err)
	}

	s.logger.Info("User enrolled", "user_id", userID, "course_id", courseID)
	return enrollment, nil
}

// ListMine returns the caller's enrollments with their courses preloaded.
func (s *enrollmentService) ListMine(ctx context.Context, userID string) ([]*models.Enrollment, error) {
	enrollments, err := s.repo.Enrollment().ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}
