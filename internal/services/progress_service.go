package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/repositories"
	"github.com/esther-lms/learning-service/internal/validator"
)

type progressService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewProgressService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) ProgressService {
	return &progressService{repo: repo, db: db, logger: logger, validator: v}
}

// Record upserts the caller's progress snapshot for a course. The caller must
// be enrolled in the course.
func (s *progressService) Record(ctx context.Context, userID string, req *validator.ProgressUpdateRequest) (*models.Progress, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	if _, err := s.repo.Enrollment().GetByUserAndCourse(ctx, nil, userID, req.CourseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotEnrolled
		}
		return nil, fmt.Errorf("get enrollment: %w", err)
	}

	data, err := json.Marshal(req.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal progress data: %w", err)
	}

	progress := &models.Progress{
		ID:       uuid.New().String(),
		UserID:   userID,
		CourseID: req.CourseID,
		Data:     datatypes.JSON(data),
	}
	if err := s.repo.Progress().Upsert(ctx, nil, progress); err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}

	s.logger.Debug("Progress recorded", "user_id", userID, "course_id", req.CourseID)
	return progress, nil
}

// ListMine returns all progress records of the caller.
func (s *progressService) ListMine(ctx context.Context, userID string) ([]*models.Progress, error) {
	records, err := s.repo.Progress().ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return records, nil
}

type accessibilityService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewAccessibilityService(repo repositories.Repository, logger *slog.Logger) AccessibilityService {
	return &accessibilityService{repo: repo, logger: logger}
}

// Get returns the caller's accessibility preferences. A user who has never
// saved preferences gets an empty document, not an error.
func (s *accessibilityService) Get(ctx context.Context, userID string) (map[string]interface{}, error) {
	record, err := s.repo.Accessibility().Get(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return map[string]interface{}{}, nil
		}
		return nil, fmt.Errorf("get accessibility settings: %w", err)
	}

	settings := map[string]interface{}{}
	if len(record.Settings) > 0 {
		if err := json.Unmarshal(record.Settings, &settings); err != nil {
			return nil, fmt.Errorf("unmarshal accessibility settings: %w", err)
		}
	}
	return settings, nil
}

// Update replaces the caller's accessibility preferences wholesale.
func (s *accessibilityService) Update(ctx context.Context, userID string, settings map[string]interface{}) (map[string]interface{}, error) {
	if settings == nil {
		settings = map[string]interface{}{}
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("marshal accessibility settings: %w", err)
	}

	record := &models.AccessibilitySettings{
		UserID:   userID,
		Settings: datatypes.JSON(data),
	}
	if err := s.repo.Accessibility().Upsert(ctx, nil, record); err != nil {
		return nil, fmt.Errorf("upsert accessibility settings: %w", err)
	}

	s.logger.Debug("Accessibility settings updated", "user_id", userID)
	return settings, nil
}
