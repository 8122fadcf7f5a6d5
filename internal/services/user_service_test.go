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

func userTestSetup(t *testing.T) (*mockRepository, UserService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := newMockRepository()
	return repo, NewUserService(repo, nil, logger, validator.New())
}

func TestUpdateRoleIsIdempotent(t *testing.T) {
	repo, svc := userTestSetup(t)
	ctx := context.Background()

	user := &models.User{ID: "u-1", Email: "esther@example.com", Role: models.RoleLearner}
	if err := repo.User().Create(ctx, nil, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	updated, err := svc.UpdateRole(ctx, "u-1", models.RoleMentor)
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if updated.Role != models.RoleMentor {
		t.Errorf("expected mentor, got %s", updated.Role)
	}

	// Assigning the same role again succeeds and changes nothing.
	again, err := svc.UpdateRole(ctx, "u-1", models.RoleMentor)
	if err != nil {
		t.Fatalf("repeat update: %v", err)
	}
	if again.Role != models.RoleMentor {
		t.Errorf("expected mentor, got %s", again.Role)
	}
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	repo, svc := userTestSetup(t)
	ctx := context.Background()

	user := &models.User{ID: "u-1", Email: "esther@example.com", Role: models.RoleLearner}
	if err := repo.User().Create(ctx, nil, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	if _, err := svc.UpdateRole(ctx, "u-1", "superuser"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}

	stored, err := repo.User().GetByID(ctx, nil, "u-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if stored.Role != models.RoleLearner {
		t.Errorf("role must be unchanged after rejected update, got %s", stored.Role)
	}
}

func TestUpdateRoleUnknownUser(t *testing.T) {
	_, svc := userTestSetup(t)

	if _, err := svc.UpdateRole(context.Background(), "ghost", models.RoleMentor); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetByIDVisibility(t *testing.T) {
	repo, svc := userTestSetup(t)
	ctx := context.Background()

	for _, u := range []*models.User{
		{ID: "learner-1", Email: "l1@example.com", Role: models.RoleLearner},
		{ID: "learner-2", Email: "l2@example.com", Role: models.RoleLearner},
		{ID: "mentor-1", Email: "m1@example.com", Role: models.RoleMentor},
	} {
		if err := repo.User().Create(ctx, nil, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	// Own profile is always readable.
	if _, err := svc.GetByID(ctx, "learner-1", models.RoleLearner, "learner-1"); err != nil {
		t.Errorf("self read: %v", err)
	}

	// Learners cannot read other profiles.
	if _, err := svc.GetByID(ctx, "learner-1", models.RoleLearner, "learner-2"); !IsPermissionError(err) {
		t.Errorf("expected permission error, got %v", err)
	}

	// Mentors can.
	if _, err := svc.GetByID(ctx, "mentor-1", models.RoleMentor, "learner-1"); err != nil {
		t.Errorf("mentor read: %v", err)
	}
}
