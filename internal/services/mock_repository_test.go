package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/repositories"
)

// mockRepository is an in-memory Repository for service tests.
type mockRepository struct {
	mu sync.Mutex

	users       map[string]*models.User
	tokens      map[string]*models.RefreshToken
	courses     map[string]*models.Course
	modules     map[string]*models.Module
	lessons     map[string]*models.Lesson
	enrollments map[string]*models.Enrollment
	progress    map[string]*models.Progress
	settings    map[string]*models.AccessibilitySettings
	quizzes     map[string]*models.Quiz
	questions   map[string]*models.Question
	submissions map[string]*models.Submission
	groups      map[string]*models.MentorshipGroup
	memberships map[string]*models.MentorshipMembership
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:       map[string]*models.User{},
		tokens:      map[string]*models.RefreshToken{},
		courses:     map[string]*models.Course{},
		modules:     map[string]*models.Module{},
		lessons:     map[string]*models.Lesson{},
		enrollments: map[string]*models.Enrollment{},
		progress:    map[string]*models.Progress{},
		settings:    map[string]*models.AccessibilitySettings{},
		quizzes:     map[string]*models.Quiz{},
		questions:   map[string]*models.Question{},
		submissions: map[string]*models.Submission{},
		groups:      map[string]*models.MentorshipGroup{},
		memberships: map[string]*models.MentorshipMembership{},
	}
}

func (m *mockRepository) User() repositories.UserRepository { return (*mockUserRepo)(m) }
func (m *mockRepository) RefreshToken() repositories.RefreshTokenRepository {
	return (*mockTokenRepo)(m)
}
func (m *mockRepository) Course() repositories.CourseRepository { return (*mockCourseRepo)(m) }
func (m *mockRepository) Enrollment() repositories.EnrollmentRepository {
	return (*mockEnrollmentRepo)(m)
}
func (m *mockRepository) Progress() repositories.ProgressRepository { return (*mockProgressRepo)(m) }
func (m *mockRepository) Accessibility() repositories.AccessibilityRepository {
	return (*mockAccessibilityRepo)(m)
}
func (m *mockRepository) Quiz() repositories.QuizRepository { return (*mockQuizRepo)(m) }
func (m *mockRepository) Mentorship() repositories.MentorshipRepository {
	return (*mockMentorshipRepo)(m)
}
func (m *mockRepository) Dashboard() repositories.DashboardRepository { return (*mockDashboardRepo)(m) }
func (m *mockRepository) Ping(ctx context.Context) error              { return nil }
func (m *mockRepository) Close() error                                { return nil }

// ----- users -----

type mockUserRepo mockRepository

func (m *mockUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	user.CreatedAt = time.Now()
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == strings.ToLower(email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepo) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.User
	for _, user := range m.users {
		if filters.Role != nil && user.Role != *filters.Role {
			continue
		}
		copied := *user
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

// ----- refresh tokens -----

type mockTokenRepo mockRepository

func (m *mockTokenRepo) Create(ctx context.Context, tx *gorm.DB, token *models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[token.JTI]; ok {
		return repositories.ErrDuplicate
	}
	copied := *token
	m.tokens[token.JTI] = &copied
	return nil
}

func (m *mockTokenRepo) GetByJTI(ctx context.Context, tx *gorm.DB, jti string) (*models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[jti]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *token
	return &copied, nil
}

func (m *mockTokenRepo) Revoke(ctx context.Context, tx *gorm.DB, jti string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[jti]
	if !ok || token.RevokedAt != nil {
		return repositories.ErrNotFound
	}
	revoked := at
	token.RevokedAt = &revoked
	return nil
}

func (m *mockTokenRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for jti, token := range m.tokens {
		if token.ExpiresAt.Before(cutoff) {
			delete(m.tokens, jti)
			deleted++
		}
	}
	return deleted, nil
}

// ----- courses -----

type mockCourseRepo mockRepository

func (m *mockCourseRepo) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *course
	m.courses[course.ID] = &copied
	return nil
}

func (m *mockCourseRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	course, ok := m.courses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *course
	return &copied, nil
}

func (m *mockCourseRepo) GetByIDWithContent(ctx context.Context, tx *gorm.DB, id string) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	course, ok := m.courses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *course
	copied.Modules = nil
	for _, module := range m.modules {
		if module.CourseID != id {
			continue
		}
		mc := *module
		mc.Lessons = nil
		for _, lesson := range m.lessons {
			if lesson.ModuleID == module.ID {
				mc.Lessons = append(mc.Lessons, *lesson)
			}
		}
		copied.Modules = append(copied.Modules, mc)
	}
	return &copied, nil
}

func (m *mockCourseRepo) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[course.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *course
	copied.Modules = nil
	m.courses[course.ID] = &copied
	return nil
}

func (m *mockCourseRepo) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Course
	for _, course := range m.courses {
		if filters.Published != nil && course.IsPublished != *filters.Published {
			continue
		}
		if filters.InstructorID != nil && course.InstructorID != *filters.InstructorID {
			continue
		}
		copied := *course
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (m *mockCourseRepo) AddModule(ctx context.Context, tx *gorm.DB, module *models.Module) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *module
	m.modules[module.ID] = &copied
	return nil
}

func (m *mockCourseRepo) GetModule(ctx context.Context, tx *gorm.DB, id string) (*models.Module, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	module, ok := m.modules[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *module
	return &copied, nil
}

func (m *mockCourseRepo) AddLesson(ctx context.Context, tx *gorm.DB, lesson *models.Lesson) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *lesson
	m.lessons[lesson.ID] = &copied
	return nil
}

// ----- enrollments -----

type mockEnrollmentRepo mockRepository

func (m *mockEnrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := enrollment.UserID + "/" + enrollment.CourseID
	if _, ok := m.enrollments[key]; ok {
		return repositories.ErrDuplicate
	}
	copied := *enrollment
	m.enrollments[key] = &copied
	return nil
}

func (m *mockEnrollmentRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Enrollment
	for _, enrollment := range m.enrollments {
		if enrollment.UserID == userID {
			copied := *enrollment
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockEnrollmentRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID string) (*models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	enrollment, ok := m.enrollments[userID+"/"+courseID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *enrollment
	return &copied, nil
}

// ----- progress -----

type mockProgressRepo mockRepository

func (m *mockProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, progress *models.Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := progress.UserID + "/" + progress.CourseID
	if existing, ok := m.progress[key]; ok {
		existing.Data = progress.Data
		existing.UpdatedAt = time.Now()
		return nil
	}
	copied := *progress
	m.progress[key] = &copied
	return nil
}

func (m *mockProgressRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Progress
	for _, progress := range m.progress {
		if progress.UserID == userID {
			copied := *progress
			out = append(out, &copied)
		}
	}
	return out, nil
}

// ----- accessibility -----

type mockAccessibilityRepo mockRepository

func (m *mockAccessibilityRepo) Get(ctx context.Context, tx *gorm.DB, userID string) (*models.AccessibilitySettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.settings[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (m *mockAccessibilityRepo) Upsert(ctx context.Context, tx *gorm.DB, settings *models.AccessibilitySettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *settings
	m.settings[settings.UserID] = &copied
	return nil
}

// ----- quizzes -----

type mockQuizRepo mockRepository

func (m *mockQuizRepo) Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *quiz
	m.quizzes[quiz.ID] = &copied
	return nil
}

func (m *mockQuizRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	quiz, ok := m.quizzes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *quiz
	return &copied, nil
}

func (m *mockQuizRepo) GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id string) (*models.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	quiz, ok := m.quizzes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *quiz
	copied.Questions = nil
	var ids []string
	for qid, question := range m.questions {
		if question.QuizID == id {
			ids = append(ids, qid)
		}
	}
	sort.Strings(ids)
	for _, qid := range ids {
		copied.Questions = append(copied.Questions, *m.questions[qid])
	}
	return &copied, nil
}

func (m *mockQuizRepo) ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Quiz
	for _, quiz := range m.quizzes {
		if quiz.CourseID == courseID {
			copied := *quiz
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockQuizRepo) AddQuestion(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *question
	m.questions[question.ID] = &copied
	return nil
}

func (m *mockQuizRepo) CreateSubmission(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *submission
	m.submissions[submission.ID] = &copied
	return nil
}

func (m *mockQuizRepo) ListSubmissions(ctx context.Context, tx *gorm.DB, quizID, userID string) ([]*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Submission
	for _, submission := range m.submissions {
		if submission.QuizID == quizID && submission.UserID == userID {
			copied := *submission
			out = append(out, &copied)
		}
	}
	return out, nil
}

// ----- mentorship -----

type mockMentorshipRepo mockRepository

func (m *mockMentorshipRepo) CreateGroup(ctx context.Context, tx *gorm.DB, group *models.MentorshipGroup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *group
	m.groups[group.ID] = &copied
	return nil
}

func (m *mockMentorshipRepo) GetGroup(ctx context.Context, tx *gorm.DB, id string) (*models.MentorshipGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	group, ok := m.groups[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *group
	return &copied, nil
}

func (m *mockMentorshipRepo) ListGroups(ctx context.Context, tx *gorm.DB) ([]*models.MentorshipGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.MentorshipGroup
	for _, group := range m.groups {
		copied := *group
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockMentorshipRepo) AddMember(ctx context.Context, tx *gorm.DB, membership *models.MentorshipMembership) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := membership.GroupID + "/" + membership.UserID
	if _, ok := m.memberships[key]; ok {
		return repositories.ErrDuplicate
	}
	copied := *membership
	m.memberships[key] = &copied
	return nil
}

func (m *mockMentorshipRepo) IsMember(ctx context.Context, tx *gorm.DB, groupID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.memberships[groupID+"/"+userID]
	return ok, nil
}

// ----- dashboard -----

type mockDashboardRepo mockRepository

func (m *mockDashboardRepo) PlatformStats(ctx context.Context) (*repositories.PlatformStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &repositories.PlatformStats{
		TotalUsers:       int64(len(m.users)),
		UsersByRole:      map[models.UserRole]int64{},
		TotalCourses:     int64(len(m.courses)),
		TotalEnrollments: int64(len(m.enrollments)),
		TotalSubmissions: int64(len(m.submissions)),
		TotalGroups:      int64(len(m.groups)),
	}
	for _, user := range m.users {
		stats.UsersByRole[user.Role]++
	}
	for _, course := range m.courses {
		if course.IsPublished {
			stats.PublishedCourses++
		}
	}
	return stats, nil
}
