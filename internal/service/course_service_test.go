package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/web-academy/academy-api/internal/models"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
)

type mockCourseRepo struct {
	courses        map[string]*models.Course
	lastFilter     models.CourseFilter
	lastMineFilter models.InstructorCourseFilter
	resources      map[string][]models.CourseResource
	deleted    []string
	created    *models.Course
	updated    *models.Course
}

func newMockCourseRepo(courses ...*models.Course) *mockCourseRepo {
	m := &mockCourseRepo{courses: map[string]*models.Course{}, resources: map[string][]models.CourseResource{}}
	for _, c := range courses {
		m.courses[c.ID] = c
	}
	return m
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	course, ok := m.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *course
	return &copied, nil
}

func (m *mockCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	m.lastFilter = filter
	var out []models.Course
	for _, c := range m.courses {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockCourseRepo) ListByInstructor(ctx context.Context, filter models.InstructorCourseFilter) ([]models.Course, error) {
	m.lastMineFilter = filter
	var out []models.Course
	for _, c := range m.courses {
		if c.CreatedBy == filter.UserID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	course.ID = "c-new"
	m.created = course
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	m.updated = course
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockCourseRepo) ListResources(ctx context.Context, courseID string) ([]models.CourseResource, error) {
	return m.resources[courseID], nil
}

func (m *mockCourseRepo) FindResource(ctx context.Context, courseID, resourceID string) (*models.CourseResource, error) {
	for _, r := range m.resources[courseID] {
		if r.ID == resourceID {
			return &r, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) AddResource(ctx context.Context, resource *models.CourseResource) error {
	m.resources[resource.CourseID] = append(m.resources[resource.CourseID], *resource)
	return nil
}

func (m *mockCourseRepo) DeleteResource(ctx context.Context, courseID, resourceID string) error {
	return nil
}

type mockAssignmentChecker struct {
	assigned map[string]bool
}

func (m *mockAssignmentChecker) ExistsForCourse(ctx context.Context, userID, courseID string) (bool, error) {
	return m.assigned[userID+"/"+courseID], nil
}

type mockResourceStorage struct {
	deleted []string
}

func (m *mockResourceStorage) Delete(filename string) error {
	m.deleted = append(m.deleted, filename)
	return nil
}

func newCourseService(repo *mockCourseRepo, checker *mockAssignmentChecker, store *mockResourceStorage) *CourseService {
	if checker == nil {
		checker = &mockAssignmentChecker{}
	}
	return NewCourseService(repo, checker, store, validator.New(), zap.NewNop())
}

func instituteAdmin(institute string) *models.User {
	return &models.User{ID: "admin-1", Role: models.RoleAdmin, Institute: &institute}
}

func superAdmin() *models.User {
	return &models.User{ID: "root-1", Role: models.RoleAdmin}
}

func TestCourseListAnonymousSeesPublishedOnly(t *testing.T) {
	repo := newMockCourseRepo()
	svc := newCourseService(repo, nil, nil)

	_, _, err := svc.List(context.Background(), nil, models.CourseFilter{})
	require.NoError(t, err)
	assert.Equal(t, models.CoursePublished, repo.lastFilter.Status)
	assert.Empty(t, repo.lastFilter.Tenant)
}

func TestCourseListScopedToViewerTenant(t *testing.T) {
	repo := newMockCourseRepo()
	svc := newCourseService(repo, nil, nil)

	_, _, err := svc.List(context.Background(), instituteAdmin("DGI"), models.CourseFilter{})
	require.NoError(t, err)
	assert.Equal(t, "DGI", repo.lastFilter.Tenant)
	assert.Empty(t, repo.lastFilter.Status)
}

func TestCourseGetMasksCrossTenant(t *testing.T) {
	inst := "ISSJ"
	repo := newMockCourseRepo(&models.Course{ID: "c1", Institute: &inst, Status: models.CoursePublished})
	svc := newCourseService(repo, nil, nil)

	_, err := svc.Get(context.Background(), instituteAdmin("DGI"), "c1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestCourseGetHidesDraftFromStudents(t *testing.T) {
	repo := newMockCourseRepo(&models.Course{ID: "c1", Status: models.CourseDraft, CreatedBy: "someone-else"})
	svc := newCourseService(repo, nil, nil)

	student := &models.User{ID: "s1", Role: models.RoleStudent}
	_, err := svc.Get(context.Background(), student, "c1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCourseGetDraftVisibleToCreator(t *testing.T) {
	repo := newMockCourseRepo(&models.Course{ID: "c1", Status: models.CourseDraft, CreatedBy: "f1"})
	svc := newCourseService(repo, nil, nil)

	creator := &models.User{ID: "f1", Role: models.RoleInstructor}
	course, err := svc.Get(context.Background(), creator, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", course.ID)
}

func TestCourseCreateStampsAdminInstitute(t *testing.T) {
	repo := newMockCourseRepo()
	svc := newCourseService(repo, nil, nil)

	other := "ISEG"
	course, err := svc.Create(context.Background(), instituteAdmin("DGI"), models.CreateCourseRequest{
		Title:       "Algorithmique",
		Category:    "Informatique",
		Description: "Bases des algorithmes",
		Institute:   &other,
	})
	require.NoError(t, err)
	require.NotNil(t, course.Institute)
	assert.Equal(t, "DGI", *course.Institute)
	assert.Equal(t, models.CourseDraft, course.Status)
	assert.Equal(t, DefaultInstitution, course.Institution)
}

func TestCourseUpdateByAssignedInstructor(t *testing.T) {
	repo := newMockCourseRepo(&models.Course{ID: "c1", Title: "Old", Status: models.CoursePublished, CreatedBy: "someone-else"})
	checker := &mockAssignmentChecker{assigned: map[string]bool{"f1/c1": true}}
	svc := newCourseService(repo, checker, nil)

	instructor := &models.User{ID: "f1", Role: models.RoleInstructor}
	course, err := svc.Update(context.Background(), instructor, "c1", models.UpdateCourseRequest{Title: strPtr("New")})
	require.NoError(t, err)
	assert.Equal(t, "New", course.Title)
}

func TestCourseUpdateForbiddenForUnassignedInstructor(t *testing.T) {
	repo := newMockCourseRepo(&models.Course{ID: "c1", Status: models.CoursePublished, CreatedBy: "someone-else"})
	svc := newCourseService(repo, &mockAssignmentChecker{}, nil)

	instructor := &models.User{ID: "f1", Role: models.RoleInstructor}
	_, err := svc.Update(context.Background(), instructor, "c1", models.UpdateCourseRequest{Title: strPtr("New")})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestCourseDeleteRemovesFiles(t *testing.T) {
	repo := newMockCourseRepo(&models.Course{ID: "c1", Status: models.CoursePublished, CreatedBy: "root-1"})
	repo.resources["c1"] = []models.CourseResource{
		{ID: "r1", CourseID: "c1", URL: "/uploads/courses/c1/doc.pdf"},
		{ID: "r2", CourseID: "c1", URL: "https://cdn.example.com/external.pdf"},
	}
	store := &mockResourceStorage{}
	svc := newCourseService(repo, nil, store)

	err := svc.Delete(context.Background(), superAdmin(), "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, repo.deleted)
	assert.Equal(t, []string{"courses/c1/doc.pdf"}, store.deleted)
}

func TestCourseDeleteDeniedToAssignedInstructor(t *testing.T) {
	repo := newMockCourseRepo(&models.Course{ID: "c1", Status: models.CoursePublished, CreatedBy: "someone-else"})
	checker := &mockAssignmentChecker{assigned: map[string]bool{"f1/c1": true}}
	svc := newCourseService(repo, checker, nil)

	instructor := &models.User{ID: "f1", Role: models.RoleInstructor}
	err := svc.Delete(context.Background(), instructor, "c1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestCourseDeleteAllowedForCreator(t *testing.T) {
	repo := newMockCourseRepo(&models.Course{ID: "c1", Status: models.CoursePublished, CreatedBy: "f1"})
	svc := newCourseService(repo, nil, nil)

	instructor := &models.User{ID: "f1", Role: models.RoleInstructor}
	err := svc.Delete(context.Background(), instructor, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, repo.deleted)
}

func TestCourseMineScopesInstructorToTenant(t *testing.T) {
	repo := newMockCourseRepo()
	svc := newCourseService(repo, nil, nil)

	inst := "DGI"
	instructor := &models.User{ID: "f1", Role: models.RoleInstructor, Institute: &inst}
	_, err := svc.Mine(context.Background(), instructor, "algo")
	require.NoError(t, err)
	assert.Equal(t, "f1", repo.lastMineFilter.UserID)
	assert.Equal(t, "DGI", repo.lastMineFilter.Tenant)
	assert.Equal(t, "algo", repo.lastMineFilter.Search)
	assert.False(t, repo.lastMineFilter.CreatedOnly)
}

func TestCourseMineAdminGetsCreatedOnly(t *testing.T) {
	repo := newMockCourseRepo()
	svc := newCourseService(repo, nil, nil)

	_, err := svc.Mine(context.Background(), instituteAdmin("DGI"), "")
	require.NoError(t, err)
	assert.True(t, repo.lastMineFilter.CreatedOnly)
	assert.Equal(t, "DGI", repo.lastMineFilter.Tenant)
}

func TestCourseSuperAdminEditsAnyInstitute(t *testing.T) {
	inst := "ISSJ"
	repo := newMockCourseRepo(&models.Course{ID: "c1", Institute: &inst, Status: models.CoursePublished, CreatedBy: "someone"})
	svc := newCourseService(repo, nil, nil)

	ok, err := svc.CanEdit(context.Background(), superAdmin(), "c1")
	require.NoError(t, err)
	assert.True(t, ok)
}
