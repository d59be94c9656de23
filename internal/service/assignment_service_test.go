package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web-academy/academy-api/internal/models"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
)

type mockAssignmentRepo struct {
	assignments map[string]*models.InstructorAssignment
	createErr   error
	updateErr   error
	lastFilter  models.AssignmentFilter
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: map[string]*models.InstructorAssignment{}}
}

func (m *mockAssignmentRepo) FindByID(_ context.Context, id string) (*models.InstructorAssignment, error) {
	if a, ok := m.assignments[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAssignmentRepo) List(_ context.Context, filter models.AssignmentFilter) ([]models.InstructorAssignment, int, error) {
	m.lastFilter = filter
	var out []models.InstructorAssignment
	for _, a := range m.assignments {
		if filter.Tenant != "" && a.Institute != filter.Tenant {
			continue
		}
		if filter.UserID != "" && a.UserID != filter.UserID {
			continue
		}
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *models.InstructorAssignment) error {
	if m.createErr != nil {
		return m.createErr
	}
	assignment.ID = "a-new"
	m.assignments[assignment.ID] = assignment
	return nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, assignment *models.InstructorAssignment) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.assignments[assignment.ID] = assignment
	return nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	delete(m.assignments, id)
	return nil
}

type mockAssignmentUsers struct {
	users map[string]*models.User
}

func (m *mockAssignmentUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func instructorIn(institute string) *models.User {
	return &models.User{ID: "f-1", Role: models.RoleInstructor, Institute: strPtr(institute)}
}

func TestAssignmentCreateRequiresInstructorRole(t *testing.T) {
	repo := newMockAssignmentRepo()
	users := &mockAssignmentUsers{users: map[string]*models.User{
		"s-1": {ID: "s-1", Role: models.RoleStudent, Institute: strPtr("DGI")},
	}}
	svc := NewAssignmentService(repo, users, nil, nil)

	_, err := svc.Create(context.Background(), instituteAdmin("DGI"), models.CreateAssignmentRequest{
		UserID:       "s-1",
		Institute:    "DGI",
		Semester:     "mousson",
		AcademicYear: 2026,
		CourseID:     "c-1",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Equal(t, "L'utilisateur n'est pas un formateur", appErrors.FromError(err).Message)
}

func TestAssignmentCreateMasksCrossTenantInstructor(t *testing.T) {
	repo := newMockAssignmentRepo()
	users := &mockAssignmentUsers{users: map[string]*models.User{
		"f-1": instructorIn("ISEG"),
	}}
	svc := NewAssignmentService(repo, users, nil, nil)

	_, err := svc.Create(context.Background(), instituteAdmin("DGI"), models.CreateAssignmentRequest{
		UserID:       "f-1",
		Institute:    "ISEG",
		Semester:     "harmattan",
		AcademicYear: 2026,
		CourseID:     "c-1",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAssignmentCreateStampsAdminInstitute(t *testing.T) {
	repo := newMockAssignmentRepo()
	users := &mockAssignmentUsers{users: map[string]*models.User{
		"f-1": instructorIn("DGI"),
	}}
	svc := NewAssignmentService(repo, users, nil, nil)

	created, err := svc.Create(context.Background(), instituteAdmin("DGI"), models.CreateAssignmentRequest{
		UserID:       "f-1",
		Institute:    "ISEG",
		Semester:     "mousson",
		AcademicYear: 2026,
		CourseID:     "c-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "DGI", created.Institute)
	assert.Equal(t, "a-new", created.ID)
}

func TestAssignmentCreateDuplicateReadsAsConflict(t *testing.T) {
	repo := newMockAssignmentRepo()
	repo.createErr = &pq.Error{Code: "23505"}
	users := &mockAssignmentUsers{users: map[string]*models.User{
		"f-1": instructorIn("DGI"),
	}}
	svc := NewAssignmentService(repo, users, nil, nil)

	_, err := svc.Create(context.Background(), instituteAdmin("DGI"), models.CreateAssignmentRequest{
		UserID:       "f-1",
		Institute:    "DGI",
		Semester:     "mousson",
		AcademicYear: 2026,
		CourseID:     "c-1",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Equal(t, "Cette affectation existe déjà", appErrors.FromError(err).Message)
}

func TestAssignmentListScopedToTenant(t *testing.T) {
	repo := newMockAssignmentRepo()
	repo.assignments["a-1"] = &models.InstructorAssignment{ID: "a-1", UserID: "f-1", Institute: "DGI", CourseID: "c-1"}
	repo.assignments["a-2"] = &models.InstructorAssignment{ID: "a-2", UserID: "f-2", Institute: "ISEG", CourseID: "c-2"}
	svc := NewAssignmentService(repo, &mockAssignmentUsers{}, nil, nil)

	list, total, err := svc.List(context.Background(), instituteAdmin("DGI"), models.AssignmentFilter{})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "a-1", list[0].ID)
	assert.Equal(t, "DGI", repo.lastFilter.Tenant)
}

func TestAssignmentUpdateInstituteReservedToSuperAdmin(t *testing.T) {
	repo := newMockAssignmentRepo()
	repo.assignments["a-1"] = &models.InstructorAssignment{ID: "a-1", UserID: "f-1", Institute: "DGI", Semester: "mousson", AcademicYear: 2026, CourseID: "c-1"}
	svc := NewAssignmentService(repo, &mockAssignmentUsers{}, nil, nil)

	updated, err := svc.Update(context.Background(), instituteAdmin("DGI"), "a-1", models.UpdateAssignmentRequest{
		Institute: strPtr("ISEG"),
		Semester:  strPtr("harmattan"),
	})

	require.NoError(t, err)
	assert.Equal(t, "DGI", updated.Institute)
	assert.Equal(t, "harmattan", updated.Semester)

	updated, err = svc.Update(context.Background(), superAdmin(), "a-1", models.UpdateAssignmentRequest{
		Institute: strPtr("ISEG"),
	})

	require.NoError(t, err)
	assert.Equal(t, "ISEG", updated.Institute)
}

func TestAssignmentDeleteMasksCrossTenant(t *testing.T) {
	repo := newMockAssignmentRepo()
	repo.assignments["a-1"] = &models.InstructorAssignment{ID: "a-1", UserID: "f-1", Institute: "ISEG", CourseID: "c-1"}
	svc := NewAssignmentService(repo, &mockAssignmentUsers{}, nil, nil)

	err := svc.Delete(context.Background(), instituteAdmin("DGI"), "a-1")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Contains(t, repo.assignments, "a-1")
}

func TestAssignmentGetScopedToTenant(t *testing.T) {
	repo := newMockAssignmentRepo()
	repo.assignments["a-1"] = &models.InstructorAssignment{ID: "a-1", UserID: "f-1", Institute: "DGI", CourseID: "c-1"}
	repo.assignments["a-2"] = &models.InstructorAssignment{ID: "a-2", UserID: "f-2", Institute: "ISEG", CourseID: "c-2"}
	svc := NewAssignmentService(repo, &mockAssignmentUsers{}, nil, nil)

	assignment, err := svc.Get(context.Background(), instituteAdmin("DGI"), "a-1")
	require.NoError(t, err)
	assert.Equal(t, "a-1", assignment.ID)

	_, err = svc.Get(context.Background(), instituteAdmin("DGI"), "a-2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAssignmentListForUser(t *testing.T) {
	repo := newMockAssignmentRepo()
	repo.assignments["a-1"] = &models.InstructorAssignment{ID: "a-1", UserID: "f-1", Institute: "DGI", CourseID: "c-1"}
	repo.assignments["a-2"] = &models.InstructorAssignment{ID: "a-2", UserID: "f-2", Institute: "DGI", CourseID: "c-2"}
	svc := NewAssignmentService(repo, &mockAssignmentUsers{}, nil, nil)

	list, err := svc.ListForUser(context.Background(), "f-1")

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a-1", list[0].ID)
}
