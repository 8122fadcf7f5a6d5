package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/esther-lms/learning-service/internal/events"
	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/validator"
)

func quizTestSetup(t *testing.T) (*mockRepository, *events.MockEventPublisher, QuizService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(logger)
	svc := NewQuizService(repo, nil, logger, validator.New(), publisher)
	return repo, publisher, svc
}

func seedCourseWithQuiz(t *testing.T, repo *mockRepository, svc QuizService, questions map[string]string) string {
	t.Helper()
	ctx := context.Background()

	mentor := &models.User{ID: "mentor-1", Email: "mentor@example.com", Role: models.RoleMentor}
	if err := repo.User().Create(ctx, nil, mentor); err != nil {
		t.Fatalf("seed mentor: %v", err)
	}
	course := &models.Course{ID: "course-1", Title: "Accessible Web Design", InstructorID: "mentor-1", IsPublished: true}
	if err := repo.Course().Create(ctx, nil, course); err != nil {
		t.Fatalf("seed course: %v", err)
	}

	quiz, err := svc.Create(ctx, "mentor-1", models.RoleMentor, &validator.QuizCreateRequest{
		CourseID: "course-1",
		Title:    "Semantics check",
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	for prompt, answer := range questions {
		if _, err := svc.AddQuestion(ctx, "mentor-1", models.RoleMentor, quiz.ID, &validator.QuestionCreateRequest{
			Prompt: prompt,
			Answer: answer,
		}); err != nil {
			t.Fatalf("add question: %v", err)
		}
	}

	// Enroll the learner who will submit.
	learner := &models.User{ID: "learner-1", Email: "learner@example.com", Role: models.RoleLearner}
	if err := repo.User().Create(ctx, nil, learner); err != nil {
		t.Fatalf("seed learner: %v", err)
	}
	enrollment := &models.Enrollment{ID: "enr-1", UserID: "learner-1", CourseID: "course-1", EnrolledAt: time.Now()}
	if err := repo.Enrollment().Create(ctx, nil, enrollment); err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}

	return quiz.ID
}

func TestSubmitScoresExactMatches(t *testing.T) {
	repo, publisher, svc := quizTestSetup(t)
	ctx := context.Background()

	quizID := seedCourseWithQuiz(t, repo, svc, map[string]string{
		"q1": "alt",
		"q2": "aria-label",
		"q3": "<main>",
	})

	quiz, err := svc.Get(ctx, "learner-1", models.RoleLearner, quizID)
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}

	answers := map[string]string{}
	for i, question := range quiz.Questions {
		if i < 2 {
			answers[question.ID] = question.Answer
		} else {
			answers[question.ID] = "wrong"
		}
	}

	result, err := svc.Submit(ctx, "learner-1", quizID, &validator.SubmissionRequest{Answers: answers})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if result.Correct != 2 || result.Total != 3 {
		t.Errorf("expected 2/3 correct, got %d/%d", result.Correct, result.Total)
	}
	if result.Score != 67 {
		t.Errorf("expected score 67 (round of 200/3), got %d", result.Score)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.QuizSubmitted {
		t.Errorf("expected one submission event, got %v", published)
	}

	submissions, err := svc.ListMySubmissions(ctx, "learner-1", quizID)
	if err != nil {
		t.Fatalf("list submissions: %v", err)
	}
	if len(submissions) != 1 || submissions[0].Score != 67 {
		t.Errorf("expected persisted submission with score 67, got %v", submissions)
	}
}

func TestSubmitEmptyQuizScoresZero(t *testing.T) {
	repo, _, svc := quizTestSetup(t)
	ctx := context.Background()

	quizID := seedCourseWithQuiz(t, repo, svc, nil)

	result, err := svc.Submit(ctx, "learner-1", quizID, &validator.SubmissionRequest{Answers: map[string]string{}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 0 || result.Total != 0 {
		t.Errorf("empty quiz should score 0, got %d (total %d)", result.Score, result.Total)
	}
}

func TestSubmitIgnoresUnknownQuestionIDs(t *testing.T) {
	repo, _, svc := quizTestSetup(t)
	ctx := context.Background()

	quizID := seedCourseWithQuiz(t, repo, svc, map[string]string{"q1": "alt"})

	quiz, err := svc.Get(ctx, "learner-1", models.RoleLearner, quizID)
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}

	answers := map[string]string{
		quiz.Questions[0].ID: "alt",
		"not-a-question":     "alt",
	}
	result, err := svc.Submit(ctx, "learner-1", quizID, &validator.SubmissionRequest{Answers: answers})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 100 || result.Correct != 1 {
		t.Errorf("expected full score with stray keys ignored, got %+v", result)
	}
}

func TestSubmitRequiresEnrollment(t *testing.T) {
	repo, _, svc := quizTestSetup(t)
	ctx := context.Background()

	quizID := seedCourseWithQuiz(t, repo, svc, map[string]string{"q1": "alt"})

	outsider := &models.User{ID: "outsider-1", Email: "outsider@example.com", Role: models.RoleLearner}
	if err := repo.User().Create(ctx, nil, outsider); err != nil {
		t.Fatalf("seed outsider: %v", err)
	}

	_, err := svc.Submit(ctx, "outsider-1", quizID, &validator.SubmissionRequest{Answers: map[string]string{}})
	if !errors.Is(err, ErrNotEnrolled) {
		t.Errorf("expected ErrNotEnrolled, got %v", err)
	}
}

func TestQuizAuthoringPermissions(t *testing.T) {
	repo, _, svc := quizTestSetup(t)
	ctx := context.Background()

	seedCourseWithQuiz(t, repo, svc, nil)

	otherMentor := &models.User{ID: "mentor-2", Email: "mentor2@example.com", Role: models.RoleMentor}
	if err := repo.User().Create(ctx, nil, otherMentor); err != nil {
		t.Fatalf("seed mentor: %v", err)
	}

	// A mentor who does not own the course cannot add quizzes to it.
	_, err := svc.Create(ctx, "mentor-2", models.RoleMentor, &validator.QuizCreateRequest{
		CourseID: "course-1",
		Title:    "Hijacked quiz",
	})
	if !IsPermissionError(err) {
		t.Errorf("expected permission error, got %v", err)
	}

	// Learners cannot author quizzes at all.
	_, err = svc.Create(ctx, "learner-1", models.RoleLearner, &validator.QuizCreateRequest{
		CourseID: "course-1",
		Title:    "Learner quiz",
	})
	if !IsPermissionError(err) {
		t.Errorf("expected permission error, got %v", err)
	}

	// Administrators can author on any course.
	admin := &models.User{ID: "admin-1", Email: "admin@example.com", Role: models.RoleAdministrator}
	if err := repo.User().Create(ctx, nil, admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if _, err := svc.Create(ctx, "admin-1", models.RoleAdministrator, &validator.QuizCreateRequest{
		CourseID: "course-1",
		Title:    "Admin quiz",
	}); err != nil {
		t.Errorf("admin create: %v", err)
	}
}
