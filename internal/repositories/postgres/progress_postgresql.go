package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/repositories"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

// Upsert writes the progress blob, replacing an existing (user, course) row
// in a single statement rather than a read-then-write.
func (r *ProgressPostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, progress *models.Progress) error {
	db := getDB(r.db, tx)
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(progress).Error
	if err != nil {
		return fmt.Errorf("failed to upsert progress: %w", err)
	}
	return nil
}

func (r *ProgressPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Progress, error) {
	db := getDB(r.db, tx)
	var rows []*models.Progress
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return rows, nil
}

type AccessibilityPostgreSQL struct {
	db *gorm.DB
}

func NewAccessibilityPostgreSQL(db *gorm.DB) repositories.AccessibilityRepository {
	return &AccessibilityPostgreSQL{db: db}
}

func (r *AccessibilityPostgreSQL) Get(ctx context.Context, tx *gorm.DB, userID string) (*models.AccessibilitySettings, error) {
	db := getDB(r.db, tx)
	var settings models.AccessibilitySettings
	err := db.WithContext(ctx).First(&settings, "user_id = ?", userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get accessibility settings: %w", err)
	}
	return &settings, nil
}

func (r *AccessibilityPostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, settings *models.AccessibilitySettings) error {
	db := getDB(r.db, tx)
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"settings", "updated_at"}),
		}).
		Create(settings).Error
	if err != nil {
		return fmt.Errorf("failed to upsert accessibility settings: %w", err)
	}
	return nil
}
