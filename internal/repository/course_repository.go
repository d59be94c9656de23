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

const courseColumns = `c.id, c.title, c.category, c.filiere, c.niveau, c.institute, c.semester, c.academic_year, c.institution, c.description, c.thumbnail, c.video_url, c.status, c.created_by, u.name AS created_by_name, u.email AS created_by_email, c.created_at, c.updated_at`

// CourseRepository provides database access for courses and their resources.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new instance of CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByID returns a course with its creator joined in.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses c LEFT JOIN users u ON u.id = c.created_by WHERE c.id = $1 LIMIT 1`, courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course by id: %w", err)
	}
	return &course, nil
}

// List returns courses matching the filter with the total count.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	baseQuery := `FROM courses c LEFT JOIN users u ON u.id = c.created_by WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Tenant != "" {
		conditions = append(conditions, fmt.Sprintf("c.institute = $%d", len(args)+1))
		args = append(args, filter.Tenant)
	}
	if filter.Institute != "" {
		conditions = append(conditions, fmt.Sprintf("c.institute = $%d", len(args)+1))
		args = append(args, filter.Institute)
	}
	if filter.Filiere != "" {
		conditions = append(conditions, fmt.Sprintf("c.filiere = $%d", len(args)+1))
		args = append(args, filter.Filiere)
	}
	if filter.Niveau != "" {
		conditions = append(conditions, fmt.Sprintf("c.niveau = $%d", len(args)+1))
		args = append(args, filter.Niveau)
	}
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("c.semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.AcademicYear != nil {
		conditions = append(conditions, fmt.Sprintf("c.academic_year = $%d", len(args)+1))
		args = append(args, *filter.AcademicYear)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("c.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(c.title) LIKE LOWER($%d) OR LOWER(c.category) LIKE LOWER($%d) OR LOWER(c.description) LIKE LOWER($%d))", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, likePattern(filter.Search))
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY c.created_at DESC%s", courseColumns, baseQuery, pageClause(filter.Page))

	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	return courses, total, nil
}

// ListByInstructor returns the courses the user created, plus those assigned
// to them unless CreatedOnly is set, newest first.
func (r *CourseRepository) ListByInstructor(ctx context.Context, filter models.InstructorCourseFilter) ([]models.Course, error) {
	ownership := "c.created_by = $1"
	if !filter.CreatedOnly {
		ownership += " OR c.id IN (SELECT course_id FROM instructor_assignments WHERE user_id = $1)"
	}
	conditions := []string{"(" + ownership + ")"}
	args := []interface{}{filter.UserID}

	if filter.Tenant != "" {
		conditions = append(conditions, fmt.Sprintf("c.institute = $%d", len(args)+1))
		args = append(args, filter.Tenant)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(c.title) LIKE LOWER($%d) OR LOWER(c.category) LIKE LOWER($%d) OR LOWER(c.description) LIKE LOWER($%d))", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, likePattern(filter.Search))
	}

	query := fmt.Sprintf(`SELECT %s FROM courses c LEFT JOIN users u ON u.id = c.created_by WHERE %s ORDER BY c.created_at DESC`, courseColumns, strings.Join(conditions, " AND "))
	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("list instructor courses: %w", err)
	}
	return courses, nil
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	const query = `INSERT INTO courses (id, title, category, filiere, niveau, institute, semester, academic_year, institution, description, thumbnail, video_url, status, created_by, created_at, updated_at) VALUES (:id, :title, :category, :filiere, :niveau, :institute, :semester, :academic_year, :institution, :description, :thumbnail, :video_url, :status, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update persists the mutable course fields.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET title = :title, category = :category, filiere = :filiere, niveau = :niveau, semester = :semester, academic_year = :academic_year, description = :description, thumbnail = :thumbnail, video_url = :video_url, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// Delete removes a course. Resources cascade via the foreign key.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM courses WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}

// ListResources returns the uploaded resources of a course, oldest first.
func (r *CourseRepository) ListResources(ctx context.Context, courseID string) ([]models.CourseResource, error) {
	const query = `SELECT id, course_id, name, type, url, created_at FROM course_resources WHERE course_id = $1 ORDER BY created_at ASC`
	resources := []models.CourseResource{}
	if err := r.db.SelectContext(ctx, &resources, query, courseID); err != nil {
		return nil, fmt.Errorf("list course resources: %w", err)
	}
	return resources, nil
}

// FindResource returns a single resource of a course.
func (r *CourseRepository) FindResource(ctx context.Context, courseID, resourceID string) (*models.CourseResource, error) {
	const query = `SELECT id, course_id, name, type, url, created_at FROM course_resources WHERE id = $1 AND course_id = $2 LIMIT 1`
	var resource models.CourseResource
	if err := r.db.GetContext(ctx, &resource, query, resourceID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course resource: %w", err)
	}
	return &resource, nil
}

// AddResource attaches an uploaded file to a course.
func (r *CourseRepository) AddResource(ctx context.Context, resource *models.CourseResource) error {
	if resource.ID == "" {
		resource.ID = uuid.NewString()
	}
	resource.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO course_resources (id, course_id, name, type, url, created_at) VALUES (:id, :course_id, :name, :type, :url, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, resource); err != nil {
		return fmt.Errorf("add course resource: %w", err)
	}
	return nil
}

// DeleteResource detaches a resource from a course.
func (r *CourseRepository) DeleteResource(ctx context.Context, courseID, resourceID string) error {
	const query = `DELETE FROM course_resources WHERE id = $1 AND course_id = $2`
	if _, err := r.db.ExecContext(ctx, query, resourceID, courseID); err != nil {
		return fmt.Errorf("delete course resource: %w", err)
	}
	return nil
}
