package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/esther-lms/learning-service/internal/events"
	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/repositories"
	"github.com/esther-lms/learning-service/internal/validator"
)

type quizService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewQuizService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) QuizService {
	return &quizService{repo: repo, db: db, logger: logger, validator: v, publisher: publisher}
}

// Create adds a quiz to a course. Only the owning instructor or an
// administrator may author quizzes.
func (s *quizService) Create(ctx context.Context, requesterID string, role models.UserRole, req *validator.QuizCreateRequest) (*models.Quiz, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, errs
	}

	course, err := s.repo.Course().GetByID(ctx, nil, req.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	if !s.canManage(course, requesterID, role) {
		return nil, NewPermissionError(requesterID, req.CourseID, "quiz", "create", "not course owner or insufficient permissions")
	}

	quiz := &models.Quiz{
		ID:          uuid.New().String(),
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.repo.Quiz().Create(ctx, nil, quiz); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}

	s.logger.Info("Quiz created", "quiz_id", quiz.ID, "course_id", req.CourseID)
	return quiz, nil
}

// Get returns a quiz with its questions. Correct answers are never included
// in the serialized questions.
func (s *quizService) Get(ctx context.Context, requesterID string, role models.UserRole, id string) (*models.Quiz, error) {
	quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	return quiz, nil
}

// ListByCourse returns the quizzes of a course without their questions.
func (s *quizService) ListByCourse(ctx context.Context, courseID string) ([]*models.Quiz, error) {
	quizzes, err := s.repo.Quiz().ListByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

// AddQuestion appends a question with its canonical answer to a quiz.
func (s *quizService) AddQuestion(ctx context.Context, requesterID string, role models.UserRole, quizID string, req *validator.QuestionCreateRequest) (*models.Question, error) {
	if errs := s.validator.ValidateQuestionCreate(req); errs.HasErrors() {
		return nil, errs
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	course, err := s.repo.Course().GetByID(ctx, nil, quiz.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if !s.canManage(course, requesterID, role) {
		return nil, NewPermissionError(requesterID, quizID, "quiz", "add_question", "not course owner or insufficient permissions")
	}

	options, err := json.Marshal(req.Options)
	if err != nil {
		return nil, fmt.Errorf("marshal options: %w", err)
	}

	question := &models.Question{
		ID:      uuid.New().String(),
		QuizID:  quizID,
		Prompt:  req.Prompt,
		Options: datatypes.JSON(options),
		Answer:  req.Answer,
	}
	if err := s.repo.Quiz().AddQuestion(ctx, nil, question); err != nil {
		return nil, fmt.Errorf("add question: %w", err)
	}

	s.logger.Info("Question added", "quiz_id", quizID, "question_id", question.ID)
	return question, nil
}

// Submit scores an answer sheet against the quiz's canonical answers and
// persists the attempt. Answers match by exact string equality; missing or
// extra answers simply do not score. A quiz with no questions scores zero.
func (s *quizService) Submit(ctx context.Context, userID, quizID string, req *validator.SubmissionRequest) (*SubmissionResult, error) {
	if errs := s.validator.ValidateSubmission(req); errs.HasErrors() {
		return nil, errs
	}

	quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, nil, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	if _, err := s.repo.Enrollment().GetByUserAndCourse(ctx, nil, userID, quiz.CourseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotEnrolled
		}
		return nil, fmt.Errorf("get enrollment: %w", err)
	}

	correct := 0
	for _, question := range quiz.Questions {
		if answer, ok := req.Answers[question.ID]; ok && answer == question.Answer {
			correct++
		}
	}

	total := len(quiz.Questions)
	score := 0
	if total > 0 {
		score = int(math.Round(100 * float64(correct) / float64(total)))
	}

	answers, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, fmt.Errorf("marshal answers: %w", err)
	}

	submission := &models.Submission{
		ID:          uuid.New().String(),
		QuizID:      quizID,
		UserID:      userID,
		Answers:     datatypes.JSON(answers),
		Score:       score,
		SubmittedAt: time.Now(),
	}
	if err := s.repo.Quiz().CreateSubmission(ctx, nil, submission); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.QuizSubmitted, map[string]interface{}{
		"user_id": userID,
		"quiz_id": quizID,
		"score":   score,
	}); err != nil {
		s.logger.Warn("Failed to publish submission event", "quiz_id", quizID, "error", err)
	}

	s.logger.Info("Quiz submitted", "user_id", userID, "quiz_id", quizID, "score", score)
	return &SubmissionResult{
		SubmissionID: submission.ID,
		QuizID:       quizID,
		Score:        score,
		Correct:      correct,
		Total:        total,
	}, nil
}

// ListMySubmissions returns the caller's attempts for a quiz, newest first.
func (s *quizService) ListMySubmissions(ctx context.Context, userID, quizID string) ([]*models.Submission, error) {
	submissions, err := s.repo.Quiz().ListSubmissions(ctx, nil, quizID, userID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return submissions, nil
}

func (s *quizService) canManage(course *models.Course, requesterID string, role models.UserRole) bool {
	if role == models.RoleAdministrator {
		return true
	}
	return role == models.RoleMentor && course.InstructorID == requesterID
}
