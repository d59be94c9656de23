package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web-academy/academy-api/internal/models"
)

func courseRows(ids ...string) *sqlmock.Rows {
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "category", "filiere", "niveau", "institute", "semester", "academic_year", "institution", "description", "thumbnail", "video_url", "status", "created_by", "created_by_name", "created_by_email", "created_at", "updated_at"})
	for _, id := range ids {
		rows.AddRow(id, "Course "+id, "Informatique", nil, nil, "DGI", nil, nil, "UCAO-UUT", "desc", nil, nil, models.CoursePublished, "f1", "Marc", "marc@example.com", now, now)
	}
	return rows
}

func TestCourseListFiltersCombine(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND c.institute = $1 AND c.status = $2 ORDER BY c.created_at DESC")).
		WithArgs("DGI", models.CoursePublished).
		WillReturnRows(courseRows("c1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("DGI", models.CoursePublished).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	courses, total, err := repo.List(context.Background(), models.CourseFilter{
		Tenant: "DGI",
		Status: models.CoursePublished,
	})
	require.NoError(t, err)
	assert.Len(t, courses, 1)
	assert.Equal(t, 1, total)
	require.NotNil(t, courses[0].CreatedByName)
	assert.Equal(t, "Marc", *courses[0].CreatedByName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseListSearchCoversCategory(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("(LOWER(c.title) LIKE LOWER($1) OR LOWER(c.category) LIKE LOWER($1) OR LOWER(c.description) LIKE LOWER($1))")).
		WithArgs("%réseaux%").
		WillReturnRows(courseRows("c1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("%réseaux%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	courses, total, err := repo.List(context.Background(), models.CourseFilter{Search: "réseaux"})
	require.NoError(t, err)
	assert.Len(t, courses, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseListByInstructorCoversAssignments(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE (c.created_by = $1 OR c.id IN (SELECT course_id FROM instructor_assignments WHERE user_id = $1)) AND c.institute = $2")).
		WithArgs("f1", "DGI").
		WillReturnRows(courseRows("c1", "c2"))

	courses, err := repo.ListByInstructor(context.Background(), models.InstructorCourseFilter{UserID: "f1", Tenant: "DGI"})
	require.NoError(t, err)
	assert.Len(t, courses, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseListByInstructorCreatedOnlySearches(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE (c.created_by = $1) AND c.institute = $2 AND (LOWER(c.title) LIKE LOWER($3) OR LOWER(c.category) LIKE LOWER($3) OR LOWER(c.description) LIKE LOWER($3))")).
		WithArgs("admin-1", "DGI", "%algo%").
		WillReturnRows(courseRows("c1"))

	courses, err := repo.ListByInstructor(context.Background(), models.InstructorCourseFilter{
		UserID:      "admin-1",
		Tenant:      "DGI",
		Search:      "algo",
		CreatedOnly: true,
	})
	require.NoError(t, err)
	assert.Len(t, courses, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseDeleteResourceScopedToCourse(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM course_resources WHERE id = $1 AND course_id = $2")).
		WithArgs("r1", "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DeleteResource(context.Background(), "c1", "r1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
