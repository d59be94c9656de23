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

func assignmentRows(ids ...string) *sqlmock.Rows {
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "user_name", "user_email", "institute", "semester", "academic_year", "course_id", "course_title", "created_at", "updated_at"})
	for _, id := range ids {
		rows.AddRow(id, "f1", "Marc", "marc@example.com", "DGI", "mousson", 2025, "c1", "Algorithmique", now, now)
	}
	return rows
}

func TestAssignmentListSortsByTerm(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND a.institute = $1 ORDER BY a.academic_year DESC, a.semester ASC, a.institute ASC")).
		WithArgs("DGI").
		WillReturnRows(assignmentRows("a1", "a2"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("DGI").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	assignments, total, err := repo.List(context.Background(), models.AssignmentFilter{Tenant: "DGI"})
	require.NoError(t, err)
	assert.Len(t, assignments, 2)
	assert.Equal(t, 2, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
