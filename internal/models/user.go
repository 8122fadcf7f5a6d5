package models

import (
	"time"
)

type UserRole string

const (
	RoleLearner       UserRole = "learner"
	RoleMentor        UserRole = "mentor"
	RoleAdministrator UserRole = "administrator"
)

// Valid reports whether the role is one of the closed set of platform roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleLearner, RoleMentor, RoleAdministrator:
		return true
	}
	return false
}

type User struct {
	ID string `json:"id" gorm:"primaryKey;size:36"`

	// Stored lower-cased; uniqueness enforced by the index, not by probing.
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string   `json:"-" gorm:"not null;size:255"`
	Name         *string  `json:"name" gorm:"size:100"`
	Role         UserRole `json:"role" gorm:"not null;default:learner;size:20;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// RefreshToken records an issued refresh token by its JTI so rotation can
// revoke the prior token and refuse replays.
type RefreshToken struct {
	JTI       string     `json:"jti" gorm:"primaryKey;size:36"`
	UserID    string     `json:"user_id" gorm:"not null;index;size:36"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"not null;index"`
	RevokedAt *time.Time `json:"revoked_at"`
	CreatedAt time.Time  `json:"created_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// Revoked reports whether the token has been rotated out or expired.
func (t *RefreshToken) Revoked(now time.Time) bool {
	return t.RevokedAt != nil || now.After(t.ExpiresAt)
}
