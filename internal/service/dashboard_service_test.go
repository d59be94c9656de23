package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web-academy/academy-api/internal/models"
)

type mockStatsRepo struct {
	tenants []string
	since   time.Time
}

func (m *mockStatsRepo) CountStudents(_ context.Context, tenant string) (int, error) {
	m.tenants = append(m.tenants, tenant)
	return 42, nil
}

func (m *mockStatsRepo) CountStudentsSince(_ context.Context, tenant string, since time.Time) (int, error) {
	m.tenants = append(m.tenants, tenant)
	m.since = since
	return 7, nil
}

func (m *mockStatsRepo) CountInstructors(_ context.Context, tenant string) (int, error) {
	m.tenants = append(m.tenants, tenant)
	return 5, nil
}

func (m *mockStatsRepo) CountCourses(_ context.Context, tenant string) (int, error) {
	m.tenants = append(m.tenants, tenant)
	return 12, nil
}

func (m *mockStatsRepo) RecentCourses(_ context.Context, tenant string, n int) ([]models.Course, error) {
	m.tenants = append(m.tenants, tenant)
	courses := make([]models.Course, n)
	for i := range courses {
		courses[i] = models.Course{ID: "c-1", Title: "Algèbre"}
	}
	return courses, nil
}

func (m *mockStatsRepo) CategoryCourseCounts(_ context.Context, tenant string) ([]models.CategoryCourseStat, error) {
	m.tenants = append(m.tenants, tenant)
	return []models.CategoryCourseStat{{ID: "cat-1", Name: "Informatique", CourseCount: 8}}, nil
}

func TestDashboardStatsScopedToTenant(t *testing.T) {
	repo := &mockStatsRepo{}
	svc := NewDashboardService(repo, nil)

	stats, err := svc.Stats(context.Background(), instituteAdmin("DGI"))

	require.NoError(t, err)
	assert.Equal(t, 42, stats.TotalStudents)
	assert.Equal(t, 7, stats.NewStudentsThisMonth)
	assert.Equal(t, 5, stats.TotalInstructors)
	assert.Equal(t, 12, stats.TotalCourses)
	assert.Len(t, stats.RecentCourses, 5)
	require.Len(t, stats.Categories, 1)
	assert.Equal(t, "Informatique", stats.Categories[0].Name)

	require.Len(t, repo.tenants, 6)
	for _, tenant := range repo.tenants {
		assert.Equal(t, "DGI", tenant)
	}

	now := time.Now().UTC()
	assert.Equal(t, time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), repo.since)
}

func TestDashboardStatsSuperAdminUnscoped(t *testing.T) {
	repo := &mockStatsRepo{}
	svc := NewDashboardService(repo, nil)

	_, err := svc.Stats(context.Background(), superAdmin())

	require.NoError(t, err)
	for _, tenant := range repo.tenants {
		assert.Empty(t, tenant)
	}
}
