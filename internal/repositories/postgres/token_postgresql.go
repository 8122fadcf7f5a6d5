package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/repositories"
)

type RefreshTokenPostgreSQL struct {
	db *gorm.DB
}

func NewRefreshTokenPostgreSQL(db *gorm.DB) repositories.RefreshTokenRepository {
	return &RefreshTokenPostgreSQL{db: db}
}

func (r *RefreshTokenPostgreSQL) Create(ctx context.Context, tx *gorm.DB, token *models.RefreshToken) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("failed to persist refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenPostgreSQL) GetByJTI(ctx context.Context, tx *gorm.DB, jti string) (*models.RefreshToken, error) {
	db := getDB(r.db, tx)
	var token models.RefreshToken
	if err := db.WithContext(ctx).First(&token, "jti = ?", jti).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return &token, nil
}

func (r *RefreshTokenPostgreSQL) Revoke(ctx context.Context, tx *gorm.DB, jti string, at time.Time) error {
	db := getDB(r.db, tx)
	res := db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("jti = ? AND revoked_at IS NULL", jti).
		Update("revoked_at", at)
	if res.Error != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// DeleteExpiredBefore prunes tokens whose lifetime ended before cutoff.
func (r *RefreshTokenPostgreSQL) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&models.RefreshToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to prune refresh tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}
