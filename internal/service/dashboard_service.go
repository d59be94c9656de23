package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/web-academy/academy-api/internal/models"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
)

const recentCourseCount = 5

type statsRepository interface {
	CountStudents(ctx context.Context, tenant string) (int, error)
	CountStudentsSince(ctx context.Context, tenant string, since time.Time) (int, error)
	CountInstructors(ctx context.Context, tenant string) (int, error)
	CountCourses(ctx context.Context, tenant string) (int, error)
	RecentCourses(ctx context.Context, tenant string, n int) ([]models.Course, error)
	CategoryCourseCounts(ctx context.Context, tenant string) ([]models.CategoryCourseStat, error)
}

// DashboardService assembles the admin landing page numbers, scoped to the
// acting admin's tenant.
type DashboardService struct {
	repo   statsRepository
	logger *zap.Logger
}

// NewDashboardService constructs a DashboardService instance.
func NewDashboardService(repo statsRepository, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, logger: logger}
}

// Stats computes the dashboard summary for the acting admin.
func (s *DashboardService) Stats(ctx context.Context, actor *models.User) (*models.DashboardStats, error) {
	tenant := actor.Tenant()
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	stats := &models.DashboardStats{}
	var err error

	if stats.TotalStudents, err = s.repo.CountStudents(ctx, tenant); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	if stats.NewStudentsThisMonth, err = s.repo.CountStudentsSince(ctx, tenant, monthStart); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	if stats.TotalInstructors, err = s.repo.CountInstructors(ctx, tenant); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	if stats.TotalCourses, err = s.repo.CountCourses(ctx, tenant); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	if stats.RecentCourses, err = s.repo.RecentCourses(ctx, tenant, recentCourseCount); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	if stats.Categories, err = s.repo.CategoryCourseCounts(ctx, tenant); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}

	return stats, nil
}
