package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/esther-lms/learning-service/internal/cache"
	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/repositories"
)

type CoursePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db, cacheManager: cacheManager}
}

func (r *CoursePostgreSQL) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	r.invalidate(ctx, course.ID)
	return nil
}

func (r *CoursePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Course, error) {
	db := getDB(r.db, tx)
	var course models.Course
	if err := db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return &course, nil
}

func (r *CoursePostgreSQL) GetByIDWithContent(ctx context.Context, tx *gorm.DB, id string) (*models.Course, error) {
	db := getDB(r.db, tx)

	fetch := func() (interface{}, error) {
		var dbCourse models.Course
		err := db.WithContext(ctx).
			Preload("Instructor").
			Preload("Modules", func(q *gorm.DB) *gorm.DB { return q.Order("position ASC") }).
			Preload("Modules.Lessons", func(q *gorm.DB) *gorm.DB { return q.Order("position ASC") }).
			First(&dbCourse, "id = ?", id).Error
		if err != nil {
			return nil, err
		}
		return &dbCourse, nil
	}

	if tx == nil && r.cacheManager != nil {
		var course models.Course
		err := r.cacheManager.Course.CacheOrExecute(ctx, "content:"+id, &course, cache.CourseCacheConfig.TTL, fetch)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, repositories.ErrNotFound
			}
			return nil, err
		}
		return &course, nil
	}

	v, err := fetch()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get course with content: %w", err)
	}
	return v.(*models.Course), nil
}

func (r *CoursePostgreSQL) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(course).Error; err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	r.invalidate(ctx, course.ID)
	return nil
}

func (r *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var courses []*models.Course
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Course{})
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}
	if filters.InstructorID != nil {
		query = query.Where("instructor_id = ?", *filters.InstructorID)
	}
	if filters.Published != nil {
		query = query.Where("is_published = ?", *filters.Published)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	query = applyPaginationAndSort(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder,
		map[string]bool{"created_at": true, "title": true, "category": true})
	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, total, nil
}

func (r *CoursePostgreSQL) AddModule(ctx context.Context, tx *gorm.DB, module *models.Module) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(module).Error; err != nil {
		return fmt.Errorf("failed to add module: %w", err)
	}
	r.invalidate(ctx, module.CourseID)
	return nil
}

func (r *CoursePostgreSQL) GetModule(ctx context.Context, tx *gorm.DB, id string) (*models.Module, error) {
	db := getDB(r.db, tx)
	var module models.Module
	if err := db.WithContext(ctx).First(&module, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get module: %w", err)
	}
	return &module, nil
}

func (r *CoursePostgreSQL) AddLesson(ctx context.Context, tx *gorm.DB, lesson *models.Lesson) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(lesson).Error; err != nil {
		return fmt.Errorf("failed to add lesson: %w", err)
	}
	var module models.Module
	if err := db.WithContext(ctx).Select("course_id").First(&module, "id = ?", lesson.ModuleID).Error; err == nil {
		r.invalidate(ctx, module.CourseID)
	}
	return nil
}

func (r *CoursePostgreSQL) invalidate(ctx context.Context, courseID string) {
	if r.cacheManager == nil {
		return
	}
	cache.SafeDelete(ctx, r.cacheManager.Course, "content:"+courseID)
}
