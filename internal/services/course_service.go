package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/esther-lms/learning-service/internal/events"
	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/repositories"
	"github.com/esther-lms/learning-service/internal/validator"
)

type courseService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewCourseService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) CourseService {
	return &courseService{repo: repo, db: db, logger: logger, validator: v, publisher: publisher}
}

func canAuthor(role models.UserRole) bool {
	return role == models.RoleMentor || role == models.RoleAdministrator
}

// Create adds a new unpublished course owned by the caller.
func (s *courseService) Create(ctx context.Context, instructorID string, role models.UserRole, req *validator.CourseCreateRequest) (*models.Course, error) {
	if !canAuthor(role) {
		return nil, NewPermissionError(instructorID, "", "course", "create", "insufficient role permissions")
	}
	if errs := s.validator.ValidateCourseCreate(req); errs.HasErrors() {
		return nil, errs
	}

	features, err := marshalFeatures(req.AccessibilityFeatures)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		ID:                    uuid.New().String(),
		Title:                 req.Title,
		Description:           req.Description,
		Category:              req.Category,
		Difficulty:            req.Difficulty,
		Duration:              req.Duration,
		InstructorID:          instructorID,
		IsPublished:           false,
		AccessibilityFeatures: features,
	}
	if course.Category == "" {
		course.Category = "general"
	}
	if course.Difficulty == "" {
		course.Difficulty = models.DifficultyBeginner
	}

	if err := s.repo.Course().Create(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.logger.Info("Course created", "course_id", course.ID, "instructor_id", instructorID)
	return course, nil
}

// Get returns a course with its modules and lessons. Unpublished courses are
// visible only to their instructor and administrators.
func (s *courseService) Get(ctx context.Context, requesterID string, role models.UserRole, id string) (*models.Course, error) {
	course, err := s.repo.Course().GetByIDWithContent(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	if !course.IsPublished && !s.canManage(course, requesterID, role) {
		// Hide the existence of unpublished courses from other users.
		return nil, ErrCourseNotFound
	}
	return course, nil
}

// Update applies changes to an existing course. Only the owning instructor or
// an administrator may modify a course.
func (s *courseService) Update(ctx context.Context, requesterID string, role models.UserRole, id string, req *validator.CourseUpdateRequest) (*models.Course, error) {
	if errs := s.validator.ValidateCourseUpdate(req); errs.HasErrors() {
		return nil, errs
	}

	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	if !s.canManage(course, requesterID, role) {
		return nil, NewPermissionError(requesterID, id, "course", "update", "not owner or insufficient permissions")
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Difficulty != nil {
		course.Difficulty = *req.Difficulty
	}
	if req.Duration != nil {
		course.Duration = *req.Duration
	}
	if req.AccessibilityFeatures != nil {
		features, err := marshalFeatures(req.AccessibilityFeatures)
		if err != nil {
			return nil, err
		}
		course.AccessibilityFeatures = features
	}

	if err := s.repo.Course().Update(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	return course, nil
}

// Publish makes a course visible to learners. Publishing an already published
// course is a no-op.
func (s *courseService) Publish(ctx context.Context, requesterID string, role models.UserRole, id string) (*models.Course, error) {
	course, err := s.repo.Course().GetByIDWithContent(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	if !s.canManage(course, requesterID, role) {
		return nil, NewPermissionError(requesterID, id, "course", "publish", "not owner or insufficient permissions")
	}

	if course.IsPublished {
		return course, nil
	}

	if errs := s.validator.ValidatePublish(course); errs.HasErrors() {
		return nil, errs
	}

	course.IsPublished = true
	if err := s.repo.Course().Update(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("publish course: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.CoursePublished, map[string]interface{}{
		"course_id":     course.ID,
		"instructor_id": course.InstructorID,
	}); err != nil {
		s.logger.Warn("Failed to publish course event", "course_id", course.ID, "error", err)
	}

	s.logger.Info("Course published", "course_id", course.ID)
	return course, nil
}

// List returns published courses for everyone; instructors additionally see
// their own unpublished courses when filtering by instructor, and
// administrators see everything.
func (s *courseService) List(ctx context.Context, requesterID string, role models.UserRole, filters repositories.CourseFilters) (*CourseListResult, error) {
	if role != models.RoleAdministrator {
		ownQuery := filters.InstructorID != nil && *filters.InstructorID == requesterID
		if !ownQuery {
			published := true
			filters.Published = &published
		}
	}

	courses, total, err := s.repo.Course().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return &CourseListResult{Courses: courses, Total: total}, nil
}

// AddModule appends a module to a course.
func (s *courseService) AddModule(ctx context.Context, requesterID string, role models.UserRole, courseID string, req *validator.ModuleCreateRequest) (*models.Module, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	course, err := s.repo.Course().GetByID(ctx, nil, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	if !s.canManage(course, requesterID, role) {
		return nil, NewPermissionError(requesterID, courseID, "course", "add_module", "not owner or insufficient permissions")
	}

	module := &models.Module{
		ID:          uuid.New().String(),
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
	}
	if req.EstimatedTime != nil {
		module.EstimatedTime = *req.EstimatedTime
	}

	if err := s.repo.Course().AddModule(ctx, nil, module); err != nil {
		return nil, fmt.Errorf("add module: %w", err)
	}

	s.logger.Info("Module added", "course_id", courseID, "module_id", module.ID)
	return module, nil
}

// AddLesson appends a lesson to a module. Ownership is checked against the
// module's course.
func (s *courseService) AddLesson(ctx context.Context, requesterID string, role models.UserRole, moduleID string, req *validator.LessonCreateRequest) (*models.Lesson, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	module, err := s.repo.Course().GetModule(ctx, nil, moduleID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrModuleNotFound
		}
		return nil, fmt.Errorf("get module: %w", err)
	}

	course, err := s.repo.Course().GetByID(ctx, nil, module.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	if !s.canManage(course, requesterID, role) {
		return nil, NewPermissionError(requesterID, moduleID, "module", "add_lesson", "not owner or insufficient permissions")
	}

	lesson := &models.Lesson{
		ID:         uuid.New().String(),
		ModuleID:   moduleID,
		Title:      req.Title,
		LessonType: req.LessonType,
		Content:    req.Content,
		VideoURL:   req.VideoURL,
		Duration:   req.Duration,
		Position:   req.Position,
	}

	if err := s.repo.Course().AddLesson(ctx, nil, lesson); err != nil {
		return nil, fmt.Errorf("add lesson: %w", err)
	}

	s.logger.Info("Lesson added", "module_id", moduleID, "lesson_id", lesson.ID)
	return lesson, nil
}

func (s *courseService) canManage(course *models.Course, requesterID string, role models.UserRole) bool {
	if role == models.RoleAdministrator {
		return true
	}
	return role == models.RoleMentor && course.InstructorID == requesterID
}

func marshalFeatures(features []string) (datatypes.JSON, error) {
	if features == nil {
		features = []string{}
	}
	data, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("marshal accessibility features: %w", err)
	}
	return datatypes.JSON(data), nil
}
