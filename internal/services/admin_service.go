package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/esther-lms/learning-service/internal/repositories"
)

type adminService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewAdminService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) AdminService {
	return &adminService{repo: repo, db: db, logger: logger}
}

// PlatformStats aggregates platform-wide counts for the admin dashboard.
func (s *adminService) PlatformStats(ctx context.Context) (*repositories.PlatformStats, error) {
	stats, err := s.repo.Dashboard().PlatformStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("platform stats: %w", err)
	}
	return stats, nil
}

// ListUsers returns a filtered page of users.
func (s *adminService) ListUsers(ctx context.Context, filters repositories.UserFilters) (*UserListResult, error) {
	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &UserListResult{Users: users, Total: total}, nil
}

// ExportUsers renders the filtered user list as an xlsx workbook and returns
// the file bytes with a suggested filename.
func (s *adminService) ExportUsers(ctx context.Context, filters repositories.UserFilters) ([]byte, string, error) {
	// Export everything matching the filter, not just one page.
	filters.Limit = 10000
	filters.Offset = 0

	users, _, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, "", fmt.Errorf("list users: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Users"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Email", "Name", "Role", "Created At"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", fmt.Errorf("write header: %w", err)
		}
	}

	for row, user := range users {
		name := ""
		if user.Name != nil {
			name = *user.Name
		}
		values := []interface{}{
			user.ID,
			user.Email,
			name,
			string(user.Role),
			user.CreatedAt.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, "", fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", fmt.Errorf("write cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	filename := fmt.Sprintf("users_%s.xlsx", time.Now().Format("20060102_150405"))
	s.logger.Info("Users exported", "count", len(users), "filename", filename)
	return buf.Bytes(), filename, nil
}
