package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/esther-lms/learning-service/internal/models"
	"github.com/esther-lms/learning-service/internal/repositories"
)

type DashboardPostgreSQL struct {
	db *gorm.DB
}

func NewDashboardPostgreSQL(db *gorm.DB) repositories.DashboardRepository {
	return &DashboardPostgreSQL{db: db}
}

func (r *DashboardPostgreSQL) PlatformStats(ctx context.Context) (*repositories.PlatformStats, error) {
	stats := &repositories.PlatformStats{
		UsersByRole: make(map[models.UserRole]int64),
	}
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	type roleCount struct {
		Role  models.UserRole
		Count int64
	}
	var byRole []roleCount
	if err := db.Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&byRole).Error; err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	for _, rc := range byRole {
		stats.UsersByRole[rc.Role] = rc.Count
	}

	if err := db.Model(&models.Course{}).Count(&stats.TotalCourses).Error; err != nil {
		return nil, fmt.Errorf("failed to count courses: %w", err)
	}
	if err := db.Model(&models.Course{}).Where("is_published").Count(&stats.PublishedCourses).Error; err != nil {
		return nil, fmt.Errorf("failed to count published courses: %w", err)
	}
	if err := db.Model(&models.Enrollment{}).Count(&stats.TotalEnrollments).Error; err != nil {
		return nil, fmt.Errorf("failed to count enrollments: %w", err)
	}
	if err := db.Model(&models.Submission{}).Count(&stats.TotalSubmissions).Error; err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}
	if err := db.Model(&models.MentorshipGroup{}).Count(&stats.TotalGroups).Error; err != nil {
		return nil, fmt.Errorf("failed to count mentorship groups: %w", err)
	}

	return stats, nil
}
