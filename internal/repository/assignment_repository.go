package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/web-academy/academy-api/internal/models"
)

const assignmentColumns = `a.id, a.user_id, u.name AS user_name, u.email AS user_email, a.institute, a.semester, a.academic_year, a.course_id, c.title AS course_title, a.created_at, a.updated_at`

// AssignmentRepository provides database access for instructor assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new instance of AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// FindByID returns an assignment with instructor and course joined in.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.InstructorAssignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM instructor_assignments a LEFT JOIN users u ON u.id = a.user_id LEFT JOIN courses c ON c.id = a.course_id WHERE a.id = $1 LIMIT 1`, assignmentColumns)
	var assignment models.InstructorAssignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment by id: %w", err)
	}
	return &assignment, nil
}

// List returns assignments matching the filter with the total count.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.InstructorAssignment, int, error) {
	baseQuery := `FROM instructor_assignments a LEFT JOIN users u ON u.id = a.user_id LEFT JOIN courses c ON c.id = a.course_id WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Tenant != "" {
		conditions = append(conditions, fmt.Sprintf("a.institute = $%d", len(args)+1))
		args = append(args, filter.Tenant)
	}
	if filter.Institute != "" {
		conditions = append(conditions, fmt.Sprintf("a.institute = $%d", len(args)+1))
		args = append(args, filter.Institute)
	}
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("a.semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.AcademicYear != nil {
		conditions = append(conditions, fmt.Sprintf("a.academic_year = $%d", len(args)+1))
		args = append(args, *filter.AcademicYear)
	}
	if filter.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("a.user_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY a.academic_year DESC, a.semester ASC, a.institute ASC%s", assignmentColumns, baseQuery, pageClause(filter.Page))

	assignments := []models.InstructorAssignment{}
	if err := r.db.SelectContext(ctx, &assignments, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}

	return assignments, total, nil
}

// ExistsForCourse reports whether the user is assigned to the course in any
// term.
func (r *AssignmentRepository) ExistsForCourse(ctx context.Context, userID, courseID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM instructor_assignments WHERE user_id = $1 AND course_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, courseID); err != nil {
		return false, fmt.Errorf("check assignment: %w", err)
	}
	return exists, nil
}

// Create inserts an assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.InstructorAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now

	const query = `INSERT INTO instructor_assignments (id, user_id, institute, semester, academic_year, course_id, created_at, updated_at) VALUES (:id, :user_id, :institute, :semester, :academic_year, :course_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// Update persists the mutable assignment fields.
func (r *AssignmentRepository) Update(ctx context.Context, assignment *models.InstructorAssignment) error {
	assignment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE instructor_assignments SET user_id = :user_id, institute = :institute, semester = :semester, academic_year = :academic_year, course_id = :course_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("update assignment: %w", err)
	}
	return nil
}

// Delete removes an assignment.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM instructor_assignments WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}
