package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/validator"
)

func mentorshipTestSetup(t *testing.T) (*mockRepository, MentorshipService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := newMockRepository()
	return repo, NewMentorshipService(repo, nil, logger, validator.New())
}

func TestJoinGroupIsIdempotent(t *testing.T) {
	repo, svc := mentorshipTestSetup(t)
	ctx := context.Background()

	mentor := &models.User{ID: "mentor-1", Email: "mentor@example.com", Role: models.RoleMentor}
	if err := repo.User().Create(ctx, nil, mentor); err != nil {
		t.Fatalf("seed mentor: %v", err)
	}

	group, err := svc.CreateGroup(ctx, "mentor-1", models.RoleMentor, &validator.GroupCreateRequest{Title: "Screen reader study group"})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if group.MentorID == nil || *group.MentorID != "mentor-1" {
		t.Errorf("mentor-created group should be led by its creator, got %v", group.MentorID)
	}

	membership, created, err := svc.Join(ctx, "learner-1", group.ID)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if !created || membership == nil {
		t.Error("first join should create a membership")
	}

	// Joining again succeeds without creating a second membership.
	_, created, err = svc.Join(ctx, "learner-1", group.ID)
	if err != nil {
		t.Fatalf("repeat join: %v", err)
	}
	if created {
		t.Error("repeat join must not create a new membership")
	}

	isMember, err := repo.Mentorship().IsMember(ctx, nil, group.ID, "learner-1")
	if err != nil {
		t.Fatalf("is member: %v", err)
	}
	if !isMember {
		t.Error("learner should be a member")
	}
}

func TestJoinUnknownGroup(t *testing.T) {
	_, svc := mentorshipTestSetup(t)

	if _, _, err := svc.Join(context.Background(), "learner-1", "no-such-group"); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestCreateGroupPermissions(t *testing.T) {
	repo, svc := mentorshipTestSetup(t)
	ctx := context.Background()

	learner := &models.User{ID: "learner-1", Email: "learner@example.com", Role: models.RoleLearner}
	if err := repo.User().Create(ctx, nil, learner); err != nil {
		t.Fatalf("seed learner: %v", err)
	}

	_, err := svc.CreateGroup(ctx, "learner-1", models.RoleLearner, &validator.GroupCreateRequest{Title: "Learner group"})
	if !IsPermissionError(err) {
		t.Errorf("expected permission error, got %v", err)
	}

	// An admin-created group may assign a mentor, but only an actual mentor.
	admin := &models.User{ID: "admin-1", Email: "admin@example.com", Role: models.RoleAdministrator}
	if err := repo.User().Create(ctx, nil, admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	learnerID := "learner-1"
	_, err = svc.CreateGroup(ctx, "admin-1", models.RoleAdministrator, &validator.GroupCreateRequest{
		Title:    "Bad lead",
		MentorID: &learnerID,
	})
	if !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole for learner lead, got %v", err)
	}
}
