package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/repositories"
)

type MentorshipPostgreSQL struct {
	db *gorm.DB
}

func NewMentorshipPostgreSQL(db *gorm.DB) repositories.MentorshipRepository {
	return &MentorshipPostgreSQL{db: db}
}

func (r *MentorshipPostgreSQL) CreateGroup(ctx context.Context, tx *gorm.DB, group *models.MentorshipGroup) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(group).Error; err != nil {
		return fmt.Errorf("failed to create mentorship group: %w", err)
	}
	return nil
}

func (r *MentorshipPostgreSQL) GetGroup(ctx context.Context, tx *gorm.DB, id string) (*models.MentorshipGroup, error) {
	db := getDB(r.db, tx)
	var group models.MentorshipGroup
	if err := db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get mentorship group: %w", err)
	}
	return &group, nil
}

func (r *MentorshipPostgreSQL) ListGroups(ctx context.Context, tx *gorm.DB) ([]*models.MentorshipGroup, error) {
	db := getDB(r.db, tx)
	var groups []*models.MentorshipGroup
	if err := db.WithContext(ctx).Order("created_at DESC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to list mentorship groups: %w", err)
	}
	return groups, nil
}

func (r *MentorshipPostgreSQL) AddMember(ctx context.Context, tx *gorm.DB, membership *models.MentorshipMembership) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(membership).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repositories.ErrDuplicate
		}
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

func (r *MentorshipPostgreSQL) IsMember(ctx context.Context, tx *gorm.DB, groupID, userID string) (bool, error) {
	db := getDB(r.db, tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.MentorshipMembership{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return count > 0, nil
}
