package events

import (
	"time"
)

type EventType string

const (
	UserRegistered    EventType = "user.registered"
	EnrollmentCreated EventType = "enrollment.created"
	QuizSubmitted     EventType = "quiz.submitted"
	CoursePublished   EventType = "course.published"
)

// Event is the envelope published for every platform event. Payload keys are
// event-specific (user_id, course_id, quiz_id, score, ...).
type Event struct {
	ID         string                 `json:"id"`
	Type       EventType              `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload"`
}
