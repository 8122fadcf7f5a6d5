package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/repositories"
	"github.com/esther-lms/learning-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) UserService {
	return &userService{repo: repo, db: db, logger: logger, validator: v}
}

// GetByID returns a user profile. Learners may only read their own profile;
// mentors and administrators may read anyone's.
func (s *userService) GetByID(ctx context.Context, requesterID string, requesterRole models.UserRole, id string) (*models.User, error) {
	if requesterID != id && requesterRole == models.RoleLearner {
		return nil, NewPermissionError(requesterID, id, "user", "read", "learners may only read their own profile")
	}

	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Update applies profile changes to the caller's own account.
func (s *userService) Update(ctx context.Context, userID string, req *validator.UserUpdateRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if req.Name != nil {
		user.Name = req.Name
	}

	if err := s.repo.User().Update(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// UpdateRole assigns a role to a user. Assigning the role the user already
// holds is a no-op, not an error.
func (s *userService) UpdateRole(ctx context.Context, id string, role models.UserRole) (*models.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if user.Role == role {
		return user, nil
	}

	previous := user.Role
	user.Role = role
	if err := s.repo.User().Update(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	s.logger.Info("User role changed", "user_id", id, "from", previous, "to", role)
	return user, nil
}
