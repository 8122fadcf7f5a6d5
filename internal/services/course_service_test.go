package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/esther-lms/learning-service/internal/events"
	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/validator"
)

func courseTestSetup(t *testing.T) (*mockRepository, *events.MockEventPublisher, CourseService, EnrollmentService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(logger)
	courses := NewCourseService(repo, nil, logger, validator.New(), publisher)
	enrollments := NewEnrollmentService(repo, nil, logger, publisher)
	return repo, publisher, courses, enrollments
}

func seedUsers(t *testing.T, repo *mockRepository) {
	t.Helper()
	ctx := context.Background()
	for _, u := range []*models.User{
		{ID: "mentor-1", Email: "mentor@example.com", Role: models.RoleMentor},
		{ID: "learner-1", Email: "learner@example.com", Role: models.RoleLearner},
		{ID: "admin-1", Email: "admin@example.com", Role: models.RoleAdministrator},
	} {
		if err := repo.User().Create(ctx, nil, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
}

func TestCourseLifecycle(t *testing.T) {
	repo, publisher, courses, _ := courseTestSetup(t)
	seedUsers(t, repo)
	ctx := context.Background()

	// Learners cannot create courses.
	_, err := courses.Create(ctx, "learner-1", models.RoleLearner, &validator.CourseCreateRequest{Title: "Nope"})
	if !IsPermissionError(err) {
		t.Fatalf("expected permission error, got %v", err)
	}

	course, err := courses.Create(ctx, "mentor-1", models.RoleMentor, &validator.CourseCreateRequest{
		Title:                 "Accessible Web Design",
		AccessibilityFeatures: []string{"captions", "transcripts"},
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	if course.IsPublished {
		t.Error("new course must start unpublished")
	}

	// Unpublished courses are invisible to learners.
	if _, err := courses.Get(ctx, "learner-1", models.RoleLearner, course.ID); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound for unpublished course, got %v", err)
	}

	// Publishing requires at least one module.
	if _, err := courses.Publish(ctx, "mentor-1", models.RoleMentor, course.ID); !IsValidationError(err) {
		t.Errorf("expected validation error for empty course, got %v", err)
	}

	module, err := courses.AddModule(ctx, "mentor-1", models.RoleMentor, course.ID, &validator.ModuleCreateRequest{Title: "Semantics"})
	if err != nil {
		t.Fatalf("add module: %v", err)
	}
	if _, err := courses.AddLesson(ctx, "mentor-1", models.RoleMentor, module.ID, &validator.LessonCreateRequest{
		Title:      "Landmarks",
		LessonType: models.LessonArticle,
	}); err != nil {
		t.Fatalf("add lesson: %v", err)
	}

	published, err := courses.Publish(ctx, "mentor-1", models.RoleMentor, course.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !published.IsPublished {
		t.Error("course should be published")
	}

	// Publishing again is a no-op and emits no second event.
	if _, err := courses.Publish(ctx, "mentor-1", models.RoleMentor, course.ID); err != nil {
		t.Fatalf("re-publish: %v", err)
	}
	count := 0
	for _, e := range publisher.GetPublishedEvents() {
		if e.Type == events.CoursePublished {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one publish event, got %d", count)
	}

	// Now visible to learners, with content.
	got, err := courses.Get(ctx, "learner-1", models.RoleLearner, course.ID)
	if err != nil {
		t.Fatalf("get published course: %v", err)
	}
	if len(got.Modules) != 1 || len(got.Modules[0].Lessons) != 1 {
		t.Errorf("expected preloaded content, got %+v", got.Modules)
	}
}

func TestCourseUpdateOwnership(t *testing.T) {
	repo, _, courses, _ := courseTestSetup(t)
	seedUsers(t, repo)
	ctx := context.Background()

	course, err := courses.Create(ctx, "mentor-1", models.RoleMentor, &validator.CourseCreateRequest{Title: "Original"})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}

	otherMentor := &models.User{ID: "mentor-2", Email: "m2@example.com", Role: models.RoleMentor}
	if err := repo.User().Create(ctx, nil, otherMentor); err != nil {
		t.Fatalf("seed mentor: %v", err)
	}

	title := "Hijacked"
	if _, err := courses.Update(ctx, "mentor-2", models.RoleMentor, course.ID, &validator.CourseUpdateRequest{Title: &title}); !IsPermissionError(err) {
		t.Errorf("expected permission error, got %v", err)
	}

	// Administrators may edit any course.
	adminTitle := "Renamed by admin"
	updated, err := courses.Update(ctx, "admin-1", models.RoleAdministrator, course.ID, &validator.CourseUpdateRequest{Title: &adminTitle})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.Title != adminTitle {
		t.Errorf("expected renamed title, got %s", updated.Title)
	}
}

func TestEnrollment(t *testing.T) {
	repo, publisher, courses, enrollments := courseTestSetup(t)
	seedUsers(t, repo)
	ctx := context.Background()

	course, err := courses.Create(ctx, "mentor-1", models.RoleMentor, &validator.CourseCreateRequest{Title: "Course"})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}

	// Cannot enroll in an unpublished course.
	if _, err := enrollments.Enroll(ctx, "learner-1", course.ID); !errors.Is(err, ErrCourseNotPublished) {
		t.Errorf("expected ErrCourseNotPublished, got %v", err)
	}

	if _, err := courses.AddModule(ctx, "mentor-1", models.RoleMentor, course.ID, &validator.ModuleCreateRequest{Title: "M1"}); err != nil {
		t.Fatalf("add module: %v", err)
	}
	if _, err := courses.Publish(ctx, "mentor-1", models.RoleMentor, course.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if _, err := enrollments.Enroll(ctx, "learner-1", course.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	// Double enrollment is a conflict.
	if _, err := enrollments.Enroll(ctx, "learner-1", course.ID); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("expected ErrAlreadyEnrolled, got %v", err)
	}

	// Unknown course.
	if _, err := enrollments.Enroll(ctx, "learner-1", "no-such-course"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}

	mine, err := enrollments.ListMine(ctx, "learner-1")
	if err != nil {
		t.Fatalf("list enrollments: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("expected one enrollment, got %d", len(mine))
	}

	count := 0
	for _, e := range publisher.GetPublishedEvents() {
		if e.Type == events.EnrollmentCreated {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected one enrollment event, got %d", count)
	}
}
