package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web-academy/academy-api/internal/models"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
)

type mockOutilRepo struct {
	outils     map[string]*models.Outil
	lastFilter models.OutilFilter
}

func newMockOutilRepo() *mockOutilRepo {
	return &mockOutilRepo{outils: map[string]*models.Outil{}}
}

func (m *mockOutilRepo) FindByID(_ context.Context, id string) (*models.Outil, error) {
	if o, ok := m.outils[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockOutilRepo) List(_ context.Context, filter models.OutilFilter) ([]models.Outil, int, error) {
	m.lastFilter = filter
	var out []models.Outil
	for _, o := range m.outils {
		if filter.TenantOrGlobal != "" && o.Institute != nil && *o.Institute != filter.TenantOrGlobal {
			continue
		}
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (m *mockOutilRepo) Create(_ context.Context, outil *models.Outil) error {
	outil.ID = "o-new"
	m.outils[outil.ID] = outil
	return nil
}

func (m *mockOutilRepo) Update(_ context.Context, outil *models.Outil) error {
	m.outils[outil.ID] = outil
	return nil
}

func (m *mockOutilRepo) Delete(_ context.Context, id string) error {
	delete(m.outils, id)
	return nil
}

func TestOutilCreateRejectsInvalidURL(t *testing.T) {
	svc := NewOutilService(newMockOutilRepo(), nil, nil)

	_, err := svc.Create(context.Background(), superAdmin(), models.CreateOutilRequest{
		Title: "Moodle",
		URL:   "pas-une-url",
	})

	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "Données d'outil invalides", appErr.Message)
}

func TestOutilCreateStampsAdminInstitute(t *testing.T) {
	repo := newMockOutilRepo()
	svc := NewOutilService(repo, nil, nil)

	created, err := svc.Create(context.Background(), instituteAdmin("DGI"), models.CreateOutilRequest{
		Title: "Moodle",
		URL:   "https://moodle.example.com",
	})

	require.NoError(t, err)
	require.NotNil(t, created.Institute)
	assert.Equal(t, "DGI", *created.Institute)
}

func TestOutilGetGlobalVisibleToEveryone(t *testing.T) {
	repo := newMockOutilRepo()
	repo.outils["o-1"] = &models.Outil{ID: "o-1", Institute: nil, URL: "https://example.com"}
	repo.outils["o-2"] = &models.Outil{ID: "o-2", Institute: strPtr("ISEG"), URL: "https://example.com"}
	svc := NewOutilService(repo, nil, nil)

	outil, err := svc.Get(context.Background(), nil, "o-1")
	require.NoError(t, err)
	assert.Equal(t, "o-1", outil.ID)

	_, err = svc.Get(context.Background(), instituteAdmin("DGI"), "o-2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestOutilListScopedToViewerTenant(t *testing.T) {
	repo := newMockOutilRepo()
	repo.outils["o-1"] = &models.Outil{ID: "o-1", Institute: strPtr("DGI")}
	repo.outils["o-2"] = &models.Outil{ID: "o-2", Institute: strPtr("ISEG")}
	repo.outils["o-3"] = &models.Outil{ID: "o-3"}
	svc := NewOutilService(repo, nil, nil)

	list, total, err := svc.List(context.Background(), instituteAdmin("DGI"), models.OutilFilter{})

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, list, 2)
	assert.Equal(t, "DGI", repo.lastFilter.TenantOrGlobal)
}

func TestOutilDeleteMasksCrossTenant(t *testing.T) {
	repo := newMockOutilRepo()
	repo.outils["o-1"] = &models.Outil{ID: "o-1", Institute: strPtr("ISEG")}
	svc := NewOutilService(repo, nil, nil)

	err := svc.Delete(context.Background(), instituteAdmin("DGI"), "o-1")

	require.Error(t, err)
	assert.Equal(t, "Outil non trouvé", appErrors.FromError(err).Message)
	assert.Contains(t, repo.outils, "o-1")
}
