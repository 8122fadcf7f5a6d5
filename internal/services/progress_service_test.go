package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/validator"
)

func progressTestSetup(t *testing.T) (*mockRepository, ProgressService, AccessibilityService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := newMockRepository()
	return repo, NewProgressService(repo, nil, logger, validator.New()), NewAccessibilityService(repo, logger)
}

func TestRecordProgressUpserts(t *testing.T) {
	repo, svc, _ := progressTestSetup(t)
	ctx := context.Background()

	course := &models.Course{ID: "c0a80121-7ac0-4e1c-9d58-49a9fc9f2f01", Title: "Course", InstructorID: "m", IsPublished: true}
	if err := repo.Course().Create(ctx, nil, course); err != nil {
		t.Fatalf("seed course: %v", err)
	}
	enrollment := &models.Enrollment{ID: "e-1", UserID: "learner-1", CourseID: course.ID, EnrolledAt: time.Now()}
	if err := repo.Enrollment().Create(ctx, nil, enrollment); err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}

	if _, err := svc.Record(ctx, "learner-1", &validator.ProgressUpdateRequest{
		CourseID: course.ID,
		Data:     map[string]interface{}{"completed_lessons": []string{"l1"}},
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	// A second write replaces the snapshot rather than adding a row.
	if _, err := svc.Record(ctx, "learner-1", &validator.ProgressUpdateRequest{
		CourseID: course.ID,
		Data:     map[string]interface{}{"completed_lessons": []string{"l1", "l2"}},
	}); err != nil {
		t.Fatalf("second record: %v", err)
	}

	records, err := svc.ListMine(ctx, "learner-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one progress record, got %d", len(records))
	}

	var data map[string]interface{}
	if err := json.Unmarshal(records[0].Data, &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	lessons, ok := data["completed_lessons"].([]interface{})
	if !ok || len(lessons) != 2 {
		t.Errorf("expected latest snapshot with 2 lessons, got %v", data)
	}
}

func TestRecordProgressRequiresEnrollment(t *testing.T) {
	_, svc, _ := progressTestSetup(t)

	_, err := svc.Record(context.Background(), "learner-1", &validator.ProgressUpdateRequest{
		CourseID: "c0a80121-7ac0-4e1c-9d58-49a9fc9f2f01",
		Data:     map[string]interface{}{"started": true},
	})
	if !errors.Is(err, ErrNotEnrolled) {
		t.Errorf("expected ErrNotEnrolled, got %v", err)
	}
}

func TestAccessibilitySettingsRoundTrip(t *testing.T) {
	_, _, svc := progressTestSetup(t)
	ctx := context.Background()

	// Unset preferences read back as an empty document.
	settings, err := svc.Get(ctx, "learner-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(settings) != 0 {
		t.Errorf("expected empty settings, got %v", settings)
	}

	want := map[string]interface{}{
		"high_contrast": true,
		"font_scale":    1.5,
		"captions":      "always",
	}
	if _, err := svc.Update(ctx, "learner-1", want); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := svc.Get(ctx, "learner-1")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got["high_contrast"] != true || got["captions"] != "always" {
		t.Errorf("settings did not round-trip: %v", got)
	}
}
