package models

import (
	"time"

	"gorm.io/datatypes"
)

type Quiz struct {
	ID          string  `json:"id" gorm:"primaryKey;size:36"`
	CourseID    string  `json:"course_id" gorm:"not null;index;size:36"`
	Title       string  `json:"title" gorm:"not null;size:500" validate:"required,min=1,max=500"`
	Description *string `json:"description" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`

	Questions []Question `json:"questions" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type Question struct {
	ID      string         `json:"id" gorm:"primaryKey;size:36"`
	QuizID  string         `json:"quiz_id" gorm:"not null;index;size:36"`
	Prompt  string         `json:"prompt" gorm:"not null;type:text" validate:"required,min=1,max=2000"`
	Options datatypes.JSON `json:"options" gorm:"type:jsonb"`

	// Canonical correct answer; compared by exact string equality at scoring
	// time. Never serialized to learners.
	Answer string `json:"-" gorm:"not null;type:text"`

	CreatedAt time.Time `json:"created_at"`
}

func (Question) TableName() string {
	return "questions"
}

type Submission struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	QuizID string `json:"quiz_id" gorm:"not null;index;size:36"`
	UserID string `json:"user_id" gorm:"not null;index;size:36"`

	// question-id -> submitted answer string
	Answers datatypes.JSON `json:"answers" gorm:"type:jsonb"`
	Score   int            `json:"score" gorm:"not null;default:0"`

	SubmittedAt time.Time `json:"submitted_at"`
}

func (Submission) TableName() string {
	return "submissions"
}
