package models

import (
	"time"

	"gorm.io/datatypes"
)

type CourseDifficulty string

const (
	DifficultyBeginner     CourseDifficulty = "beginner"
	DifficultyIntermediate CourseDifficulty = "intermediate"
	DifficultyAdvanced     CourseDifficulty = "advanced"
)

type Course struct {
	ID          string           `json:"id" gorm:"primaryKey;size:36"`
	Title       string           `json:"title" gorm:"not null;size:500;index" validate:"required,min=1,max=500"`
	Description *string          `json:"description" gorm:"type:text" validate:"omitempty,max=5000"`
	Category    string           `json:"category" gorm:"size:100;index;default:general"`
	Difficulty  CourseDifficulty `json:"difficulty" gorm:"size:50;default:beginner" validate:"omitempty,oneof=beginner intermediate advanced"`

	InstructorID string `json:"instructor_id" gorm:"not null;index;size:36"`
	Duration     int    `json:"duration" gorm:"default:0"` // minutes
	IsPublished  bool   `json:"is_published" gorm:"not null;default:false;index"`

	// Free-form per-course accessibility metadata (captions, transcripts,
	// sign-language video, ...).
	AccessibilityFeatures datatypes.JSON `json:"accessibility_features" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Instructor  User         `json:"instructor" gorm:"foreignKey:InstructorID"`
	Modules     []Module     `json:"modules" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	Quizzes     []Quiz       `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	Enrollments []Enrollment `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

func (Course) TableName() string {
	return "courses"
}

type Module struct {
	ID            string  `json:"id" gorm:"primaryKey;size:36"`
	CourseID      string  `json:"course_id" gorm:"not null;index;size:36"`
	Title         string  `json:"title" gorm:"not null;size:500" validate:"required,min=1,max=500"`
	Description   *string `json:"description" gorm:"type:text"`
	Position      int     `json:"position" gorm:"not null;default:0"`
	EstimatedTime int     `json:"estimated_time" gorm:"default:0"` // minutes

	CreatedAt time.Time `json:"created_at"`

	Lessons []Lesson `json:"lessons" gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
}

func (Module) TableName() string {
	return "modules"
}

type LessonType string

const (
	LessonVideo       LessonType = "video"
	LessonArticle     LessonType = "article"
	LessonInteractive LessonType = "interactive"
)

type Lesson struct {
	ID         string     `json:"id" gorm:"primaryKey;size:36"`
	ModuleID   string     `json:"module_id" gorm:"not null;index;size:36"`
	Title      string     `json:"title" gorm:"not null;size:500" validate:"required,min=1,max=500"`
	LessonType LessonType `json:"lesson_type" gorm:"size:50;default:article" validate:"omitempty,oneof=video article interactive"`
	Content    *string    `json:"content" gorm:"type:text"`
	VideoURL   *string    `json:"video_url" gorm:"size:500"`
	Duration   int        `json:"duration" gorm:"default:0"` // minutes
	Position   int        `json:"position" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
}

func (Lesson) TableName() string {
	return "lessons"
}
