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

const timetableColumns = `t.id, t.institute, t.filiere, t.niveau, t.course_id, c.title AS course_title, t.day_of_week, t.start_time, t.end_time, t.room, t.instructor, t.semester, t.academic_year, t.created_at, t.updated_at`

// TimetableRepository provides database access for weekly class slots.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository creates a new instance of TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// FindByID returns a timetable entry with its course title joined in.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.Timetable, error) {
	query := fmt.Sprintf(`SELECT %s FROM timetables t LEFT JOIN courses c ON c.id = t.course_id WHERE t.id = $1 LIMIT 1`, timetableColumns)
	var entry models.Timetable
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find timetable by id: %w", err)
	}
	return &entry, nil
}

// List returns timetable entries matching the filter with the total count.
func (r *TimetableRepository) List(ctx context.Context, filter models.TimetableFilter) ([]models.Timetable, int, error) {
	baseQuery := `FROM timetables t LEFT JOIN courses c ON c.id = t.course_id WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Institute != "" {
		conditions = append(conditions, fmt.Sprintf("t.institute = $%d", len(args)+1))
		args = append(args, filter.Institute)
	}
	if filter.Filiere != "" {
		conditions = append(conditions, fmt.Sprintf("t.filiere = $%d", len(args)+1))
		args = append(args, filter.Filiere)
	}
	if filter.Niveau != "" {
		conditions = append(conditions, fmt.Sprintf("t.niveau = $%d", len(args)+1))
		args = append(args, filter.Niveau)
	}
	if filter.DayOfWeek != "" {
		conditions = append(conditions, fmt.Sprintf("t.day_of_week = $%d", len(args)+1))
		args = append(args, filter.DayOfWeek)
	}
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("t.semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.AcademicYear != nil {
		conditions = append(conditions, fmt.Sprintf("t.academic_year = $%d", len(args)+1))
		args = append(args, *filter.AcademicYear)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY t.day_of_week ASC, t.start_time ASC%s", timetableColumns, baseQuery, pageClause(filter.Page))

	entries := []models.Timetable{}
	if err := r.db.SelectContext(ctx, &entries, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list timetables: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count timetables: %w", err)
	}

	return entries, total, nil
}

// Create inserts a timetable entry.
func (r *TimetableRepository) Create(ctx context.Context, entry *models.Timetable) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	const query = `INSERT INTO timetables (id, institute, filiere, niveau, course_id, day_of_week, start_time, end_time, room, instructor, semester, academic_year, created_at, updated_at) VALUES (:id, :institute, :filiere, :niveau, :course_id, :day_of_week, :start_time, :end_time, :room, :instructor, :semester, :academic_year, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create timetable: %w", err)
	}
	return nil
}

// Update persists the mutable timetable fields.
func (r *TimetableRepository) Update(ctx context.Context, entry *models.Timetable) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE timetables SET filiere = :filiere, niveau = :niveau, course_id = :course_id, day_of_week = :day_of_week, start_time = :start_time, end_time = :end_time, room = :room, instructor = :instructor, semester = :semester, academic_year = :academic_year, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("update timetable: %w", err)
	}
	return nil
}

// Delete removes a timetable entry.
func (r *TimetableRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM timetables WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete timetable: %w", err)
	}
	return nil
}

const evaluationColumns = `e.id, e.title, e.description, e.institute, e.filiere, e.niveau, e.evaluation_date, e.start_time, e.end_time, e.location, e.type, e.course_id, c.title AS course_title, e.semester, e.academic_year, e.created_at, e.updated_at`

// EvaluationCalendarRepository provides database access for scheduled
// assessments.
type EvaluationCalendarRepository struct {
	db *sqlx.DB
}

// NewEvaluationCalendarRepository creates a new instance of EvaluationCalendarRepository.
func NewEvaluationCalendarRepository(db *sqlx.DB) *EvaluationCalendarRepository {
	return &EvaluationCalendarRepository{db: db}
}

// FindByID returns an evaluation entry with its course title joined in.
func (r *EvaluationCalendarRepository) FindByID(ctx context.Context, id string) (*models.EvaluationCalendar, error) {
	query := fmt.Sprintf(`SELECT %s FROM evaluation_calendars e LEFT JOIN courses c ON c.id = e.course_id WHERE e.id = $1 LIMIT 1`, evaluationColumns)
	var entry models.EvaluationCalendar
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find evaluation by id: %w", err)
	}
	return &entry, nil
}

// List returns evaluation entries matching the filter with the total count.
func (r *EvaluationCalendarRepository) List(ctx context.Context, filter models.EvaluationCalendarFilter) ([]models.EvaluationCalendar, int, error) {
	baseQuery := `FROM evaluation_calendars e LEFT JOIN courses c ON c.id = e.course_id WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Institute != "" {
		conditions = append(conditions, fmt.Sprintf("e.institute = $%d", len(args)+1))
		args = append(args, filter.Institute)
	}
	if filter.Filiere != "" {
		conditions = append(conditions, fmt.Sprintf("e.filiere = $%d", len(args)+1))
		args = append(args, filter.Filiere)
	}
	if filter.Niveau != "" {
		conditions = append(conditions, fmt.Sprintf("e.niveau = $%d", len(args)+1))
		args = append(args, filter.Niveau)
	}
	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("e.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("e.semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.AcademicYear != nil {
		conditions = append(conditions, fmt.Sprintf("e.academic_year = $%d", len(args)+1))
		args = append(args, *filter.AcademicYear)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY e.evaluation_date ASC%s", evaluationColumns, baseQuery, pageClause(filter.Page))

	entries := []models.EvaluationCalendar{}
	if err := r.db.SelectContext(ctx, &entries, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list evaluations: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count evaluations: %w", err)
	}

	return entries, total, nil
}

// Create inserts an evaluation entry.
func (r *EvaluationCalendarRepository) Create(ctx context.Context, entry *models.EvaluationCalendar) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	const query = `INSERT INTO evaluation_calendars (id, title, description, institute, filiere, niveau, evaluation_date, start_time, end_time, location, type, course_id, semester, academic_year, created_at, updated_at) VALUES (:id, :title, :description, :institute, :filiere, :niveau, :evaluation_date, :start_time, :end_time, :location, :type, :course_id, :semester, :academic_year, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create evaluation: %w", err)
	}
	return nil
}

// Update persists the mutable evaluation fields.
func (r *EvaluationCalendarRepository) Update(ctx context.Context, entry *models.EvaluationCalendar) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE evaluation_calendars SET title = :title, description = :description, filiere = :filiere, niveau = :niveau, evaluation_date = :evaluation_date, start_time = :start_time, end_time = :end_time, location = :location, type = :type, course_id = :course_id, semester = :semester, academic_year = :academic_year, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("update evaluation: %w", err)
	}
	return nil
}

// Delete removes an evaluation entry.
func (r *EvaluationCalendarRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM evaluation_calendars WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete evaluation: %w", err)
	}
	return nil
}
