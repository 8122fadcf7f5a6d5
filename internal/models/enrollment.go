package models

import (
	"time"

	"gorm.io/datatypes"
)

// Enrollment links a user to a course. The composite unique index makes
// duplicate enrollment a storage-level conflict rather than a best-effort
// existence probe.
type Enrollment struct {
	ID              string    `json:"id" gorm:"primaryKey;size:36"`
	UserID          string    `json:"user_id" gorm:"not null;size:36;uniqueIndex:idx_enrollments_user_course"`
	CourseID        string    `json:"course_id" gorm:"not null;size:36;uniqueIndex:idx_enrollments_user_course;index"`
	ProgressPercent float64   `json:"progress_percent" gorm:"not null;default:0"`
	EnrolledAt      time.Time `json:"enrolled_at"`

	Course Course `json:"course" gorm:"foreignKey:CourseID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// Progress holds the free-form per-course progress blob, upserted on write.
type Progress struct {
	ID       string         `json:"id" gorm:"primaryKey;size:36"`
	UserID   string         `json:"user_id" gorm:"not null;size:36;uniqueIndex:idx_progress_user_course"`
	CourseID string         `json:"course_id" gorm:"not null;size:36;uniqueIndex:idx_progress_user_course"`
	Data     datatypes.JSON `json:"data" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Progress) TableName() string {
	return "progress"
}

// AccessibilitySettings stores per-user accessibility preferences (screen
// reader, captions, contrast, font size, ...) as an opaque key-value map.
type AccessibilitySettings struct {
	UserID   string         `json:"user_id" gorm:"primaryKey;size:36"`
	Settings datatypes.JSON `json:"settings" gorm:"type:jsonb"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (AccessibilitySettings) TableName() string {
	return "accessibility_settings"
}
