package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/web-academy/academy-api/internal/models"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
)

type mockFiliereRepo struct {
	filieres   map[string]*models.Filiere
	lastFilter models.FiliereFilter
	createErr  error
	created    *models.Filiere
}

func newMockFiliereRepo(filieres ...*models.Filiere) *mockFiliereRepo {
	m := &mockFiliereRepo{filieres: map[string]*models.Filiere{}}
	for _, f := range filieres {
		m.filieres[f.ID] = f
	}
	return m
}

func (m *mockFiliereRepo) FindByID(ctx context.Context, id string) (*models.Filiere, error) {
	f, ok := m.filieres[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *f
	return &copied, nil
}

func (m *mockFiliereRepo) List(ctx context.Context, filter models.FiliereFilter) ([]models.Filiere, int, error) {
	m.lastFilter = filter
	var out []models.Filiere
	for _, f := range m.filieres {
		out = append(out, *f)
	}
	return out, len(out), nil
}

func (m *mockFiliereRepo) Create(ctx context.Context, filiere *models.Filiere) error {
	if m.createErr != nil {
		return m.createErr
	}
	filiere.ID = "f-new"
	m.created = filiere
	return nil
}

func (m *mockFiliereRepo) Update(ctx context.Context, filiere *models.Filiere) error {
	m.filieres[filiere.ID] = filiere
	return nil
}

func (m *mockFiliereRepo) Delete(ctx context.Context, id string) error {
	delete(m.filieres, id)
	return nil
}

func newFiliereService(repo *mockFiliereRepo) *FiliereService {
	return NewFiliereService(repo, validator.New(), zap.NewNop())
}

func TestFiliereListPublicUnscoped(t *testing.T) {
	repo := newMockFiliereRepo()
	svc := newFiliereService(repo)

	_, _, err := svc.List(context.Background(), nil, models.FiliereFilter{Institute: "DGI"})
	require.NoError(t, err)
	assert.Empty(t, repo.lastFilter.Tenant)
	assert.Equal(t, "DGI", repo.lastFilter.Institute)
}

func TestFiliereCreateUsesActorInstitute(t *testing.T) {
	repo := newMockFiliereRepo()
	svc := newFiliereService(repo)

	filiere, err := svc.Create(context.Background(), instituteAdmin("DGI"), models.CreateFiliereRequest{
		Name: "Génie Logiciel", Institute: "ISEG",
	})
	require.NoError(t, err)
	assert.Equal(t, "DGI", filiere.Institute)
}

func TestFiliereCreateSuperAdminNeedsExplicitInstitute(t *testing.T) {
	repo := newMockFiliereRepo()
	svc := newFiliereService(repo)

	_, err := svc.Create(context.Background(), superAdmin(), models.CreateFiliereRequest{Name: "Droit"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	filiere, err := svc.Create(context.Background(), superAdmin(), models.CreateFiliereRequest{Name: "Droit", Institute: "ISSJ"})
	require.NoError(t, err)
	assert.Equal(t, "ISSJ", filiere.Institute)
}

func TestFiliereCreateDuplicateReadsAsConflict(t *testing.T) {
	repo := newMockFiliereRepo()
	repo.createErr = &pq.Error{Code: "23505"}
	svc := newFiliereService(repo)

	_, err := svc.Create(context.Background(), instituteAdmin("DGI"), models.CreateFiliereRequest{Name: "Génie Logiciel"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Cette filière existe déjà", appErr.Message)
}

func TestFiliereGetScopedToTenant(t *testing.T) {
	repo := newMockFiliereRepo(
		&models.Filiere{ID: "f1", Institute: "DGI", Name: "Génie Logiciel"},
		&models.Filiere{ID: "f2", Institute: "ISSJ", Name: "Droit"},
	)
	svc := newFiliereService(repo)

	filiere, err := svc.Get(context.Background(), instituteAdmin("DGI"), "f1")
	require.NoError(t, err)
	assert.Equal(t, "f1", filiere.ID)

	_, err = svc.Get(context.Background(), instituteAdmin("DGI"), "f2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestFiliereDeleteMasksCrossTenant(t *testing.T) {
	repo := newMockFiliereRepo(&models.Filiere{ID: "f1", Institute: "ISSJ", Name: "Droit"})
	svc := newFiliereService(repo)

	err := svc.Delete(context.Background(), instituteAdmin("DGI"), "f1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

type mockCategoryRepo struct {
	categories map[string]*models.Category
	lastFilter models.CategoryFilter
	deleted    []string
}

func newMockCategoryRepo(categories ...*models.Category) *mockCategoryRepo {
	m := &mockCategoryRepo{categories: map[string]*models.Category{}}
	for _, c := range categories {
		m.categories[c.ID] = c
	}
	return m
}

func (m *mockCategoryRepo) FindByID(ctx context.Context, id string) (*models.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *c
	return &copied, nil
}

func (m *mockCategoryRepo) List(ctx context.Context, filter models.CategoryFilter) ([]models.Category, int, error) {
	m.lastFilter = filter
	var out []models.Category
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	category.ID = "cat-new"
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepo) Update(ctx context.Context, category *models.Category) error {
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.categories, id)
	return nil
}

func newCategoryService(repo *mockCategoryRepo) *CategoryService {
	return NewCategoryService(repo, validator.New(), zap.NewNop())
}

func TestCategoryGlobalManageableByInstituteAdmin(t *testing.T) {
	repo := newMockCategoryRepo(&models.Category{ID: "cat1", Name: "Informatique"})
	svc := newCategoryService(repo)

	category, err := svc.Get(context.Background(), instituteAdmin("DGI"), "cat1")
	require.NoError(t, err)
	assert.Equal(t, "cat1", category.ID)

	updated, err := svc.Update(context.Background(), instituteAdmin("DGI"), "cat1", models.UpdateCategoryRequest{Name: strPtr("Réseaux")})
	require.NoError(t, err)
	assert.Equal(t, "Réseaux", updated.Name)

	err = svc.Delete(context.Background(), instituteAdmin("DGI"), "cat1")
	require.NoError(t, err)
	assert.Equal(t, []string{"cat1"}, repo.deleted)
}

func TestCategoryCrossTenantReadsAsMissing(t *testing.T) {
	inst := "ISSJ"
	repo := newMockCategoryRepo(&models.Category{ID: "cat1", Institute: &inst, Name: "Droit"})
	svc := newCategoryService(repo)

	_, err := svc.Get(context.Background(), instituteAdmin("DGI"), "cat1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "Catégorie non trouvée", appErr.Message)
}
