package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/repositories"
	"github.com/esther-lms/learning-service/internal/validator"
)

type mentorshipService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewMentorshipService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) MentorshipService {
	return &mentorshipService{repo: repo, db: db, logger: logger, validator: v}
}

// CreateGroup creates a mentorship group. Mentors and administrators may
// create groups; a mentor always leads their own groups.
func (s *mentorshipService) CreateGroup(ctx context.Context, requesterID string, role models.UserRole, req *validator.GroupCreateRequest) (*models.MentorshipGroup, error) {
	if role != models.RoleMentor && role != models.RoleAdministrator {
		return nil, NewPermissionError(requesterID, "", "mentorship_group", "create", "insufficient role permissions")
	}
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	mentorID := req.MentorID
	if role == models.RoleMentor {
		mentorID = &requesterID
	}
	if mentorID != nil {
		mentor, err := s.repo.User().GetByID(ctx, nil, *mentorID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("get mentor: %w", err)
		}
		if mentor.Role != models.RoleMentor && mentor.Role != models.RoleAdministrator {
			return nil, ErrInvalidRole
		}
	}

	group := &models.MentorshipGroup{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		MentorID:    mentorID,
	}
	if err := s.repo.Mentorship().CreateGroup(ctx, nil, group); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	s.logger.Info("Mentorship group created", "group_id", group.ID)
	return group, nil
}

// ListGroups returns all mentorship groups.
func (s *mentorshipService) ListGroups(ctx context.Context) ([]*models.MentorshipGroup, error) {
	groups, err := s.repo.Mentorship().ListGroups(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// Join adds the caller to a group. Joining a group the caller already belongs
// to succeeds without creating a second membership; the bool result reports
// whether a new membership was created.
func (s *mentorshipService) Join(ctx context.Context, userID, groupID string) (*models.MentorshipMembership, bool, error) {
	if _, err := s.repo.Mentorship().GetGroup(ctx, nil, groupID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, false, ErrGroupNotFound
		}
		return nil, false, fmt.Errorf("get group: %w", err)
	}

	membership := &models.MentorshipMembership{
		ID:       uuid.New().String(),
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	if err := s.repo.Mentorship().AddMember(ctx, nil, membership); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("add member: %w", err)
	}

	s.logger.Info("User joined mentorship group", "user_id", userID, "group_id", groupID)
	return membership, true, nil
}
