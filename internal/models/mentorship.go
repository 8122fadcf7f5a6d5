package models

import (
	"time"
)

type MentorshipGroup struct {
	ID          string  `json:"id" gorm:"primaryKey;size:36"`
	Title       string  `json:"title" gorm:"not null;size:500" validate:"required,min=1,max=500"`
	Description *string `json:"description" gorm:"type:text"`
	MentorID    *string `json:"mentor_id" gorm:"size:36;index"`

	CreatedAt time.Time `json:"created_at"`

	Members []MentorshipMembership `json:"-" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}

func (MentorshipGroup) TableName() string {
	return "mentorship_groups"
}

type MentorshipMembership struct {
	ID       string    `json:"id" gorm:"primaryKey;size:36"`
	GroupID  string    `json:"group_id" gorm:"not null;size:36;uniqueIndex:idx_memberships_group_user"`
	UserID   string    `json:"user_id" gorm:"not null;size:36;uniqueIndex:idx_memberships_group_user;index"`
	JoinedAt time.Time `json:"joined_at"`
}

func (MentorshipMembership) TableName() string {
	return "mentorship_memberships"
}
