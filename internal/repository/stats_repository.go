package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/web-academy/academy-api/internal/models"
)

// StatsRepository computes the admin dashboard aggregates. Every query takes
// an optional tenant; empty means platform-wide.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new instance of StatsRepository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) countUsers(ctx context.Context, role models.Role, tenant string, since *time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE role = $1`
	args := []interface{}{role}
	if tenant != "" {
		query += fmt.Sprintf(" AND institute = $%d", len(args)+1)
		args = append(args, tenant)
	}
	if since != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", len(args)+1)
		args = append(args, *since)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return count, nil
}

// CountStudents returns student accounts in the tenant.
func (r *StatsRepository) CountStudents(ctx context.Context, tenant string) (int, error) {
	return r.countUsers(ctx, models.RoleStudent, tenant, nil)
}

// CountStudentsSince returns student accounts created at or after since.
func (r *StatsRepository) CountStudentsSince(ctx context.Context, tenant string, since time.Time) (int, error) {
	return r.countUsers(ctx, models.RoleStudent, tenant, &since)
}

// CountInstructors returns instructor accounts in the tenant.
func (r *StatsRepository) CountInstructors(ctx context.Context, tenant string) (int, error) {
	return r.countUsers(ctx, models.RoleInstructor, tenant, nil)
}

// CountCourses returns courses in the tenant.
func (r *StatsRepository) CountCourses(ctx context.Context, tenant string) (int, error) {
	query := `SELECT COUNT(*) FROM courses`
	args := []interface{}{}
	if tenant != "" {
		query += " WHERE institute = $1"
		args = append(args, tenant)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count courses: %w", err)
	}
	return count, nil
}

// RecentCourses returns the n newest courses in the tenant.
func (r *StatsRepository) RecentCourses(ctx context.Context, tenant string, n int) ([]models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses c LEFT JOIN users u ON u.id = c.created_by`, courseColumns)
	args := []interface{}{}
	if tenant != "" {
		query += " WHERE c.institute = $1"
		args = append(args, tenant)
	}
	query += fmt.Sprintf(" ORDER BY c.created_at DESC LIMIT %d", n)

	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("recent courses: %w", err)
	}
	return courses, nil
}

// CategoryCourseCounts returns each tenant category with its course count.
// Courses reference categories by name, matching how they are created.
func (r *StatsRepository) CategoryCourseCounts(ctx context.Context, tenant string) ([]models.CategoryCourseStat, error) {
	query := `SELECT cat.id, cat.name, COUNT(c.id) AS course_count FROM categories cat LEFT JOIN courses c ON c.category = cat.name`
	args := []interface{}{}
	if tenant != "" {
		query += " AND c.institute = $1 WHERE (cat.institute = $1 OR cat.institute IS NULL)"
		args = append(args, tenant)
	}
	query += " GROUP BY cat.id, cat.name ORDER BY cat.name ASC"

	stats := []models.CategoryCourseStat{}
	if err := r.db.SelectContext(ctx, &stats, query, args...); err != nil {
		return nil, fmt.Errorf("category course counts: %w", err)
	}
	return stats, nil
}
