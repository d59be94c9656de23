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

type mockGuideRepo struct {
	guides     map[string]*models.Guide
	lastFilter models.GuideFilter
}

func newMockGuideRepo() *mockGuideRepo {
	return &mockGuideRepo{guides: map[string]*models.Guide{}}
}

func (m *mockGuideRepo) FindByID(_ context.Context, id string) (*models.Guide, error) {
	if g, ok := m.guides[id]; ok {
		copied := *g
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockGuideRepo) List(_ context.Context, filter models.GuideFilter) ([]models.Guide, int, error) {
	m.lastFilter = filter
	var out []models.Guide
	for _, g := range m.guides {
		if filter.Status != "" && g.Status != filter.Status {
			continue
		}
		if filter.TenantOrGlobal != "" && g.Institute != nil && *g.Institute != filter.TenantOrGlobal {
			continue
		}
		out = append(out, *g)
	}
	return out, len(out), nil
}

func (m *mockGuideRepo) Create(_ context.Context, guide *models.Guide) error {
	guide.ID = "g-new"
	m.guides[guide.ID] = guide
	return nil
}

func (m *mockGuideRepo) Update(_ context.Context, guide *models.Guide) error {
	m.guides[guide.ID] = guide
	return nil
}

func (m *mockGuideRepo) Delete(_ context.Context, id string) error {
	delete(m.guides, id)
	return nil
}

func TestGuideListForcesPublishedForStudents(t *testing.T) {
	repo := newMockGuideRepo()
	repo.guides["g-1"] = &models.Guide{ID: "g-1", Status: models.ContentPublished}
	repo.guides["g-2"] = &models.Guide{ID: "g-2", Status: models.ContentDraft}
	svc := NewGuideService(repo, nil, nil)

	student := &models.User{ID: "s-1", Role: models.RoleStudent, Institute: strPtr("DGI")}
	list, _, err := svc.List(context.Background(), student, models.GuideFilter{})

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "g-1", list[0].ID)
	assert.Equal(t, "DGI", repo.lastFilter.TenantOrGlobal)
}

func TestGuideCreateStampsTenantAndOrder(t *testing.T) {
	repo := newMockGuideRepo()
	svc := NewGuideService(repo, nil, nil)

	created, err := svc.Create(context.Background(), instituteAdmin("ISSJ"), models.CreateGuideRequest{
		Title:   "Inscription",
		Content: "Comment s'inscrire pas à pas.",
		Order:   intPtr(3),
	})

	require.NoError(t, err)
	require.NotNil(t, created.Institute)
	assert.Equal(t, "ISSJ", *created.Institute)
	assert.Equal(t, 3, created.Order)
	assert.Equal(t, models.ContentPublished, created.Status)
}

func TestGuideUpdateMasksCrossTenant(t *testing.T) {
	repo := newMockGuideRepo()
	repo.guides["g-1"] = &models.Guide{ID: "g-1", Institute: strPtr("ISEG"), Status: models.ContentPublished}
	svc := NewGuideService(repo, nil, nil)

	_, err := svc.Update(context.Background(), instituteAdmin("DGI"), "g-1", models.UpdateGuideRequest{Title: strPtr("Nouveau titre")})

	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "Guide non trouvé", appErr.Message)
}

func TestGuideGetPublishedVisibleToAnonymous(t *testing.T) {
	repo := newMockGuideRepo()
	repo.guides["g-1"] = &models.Guide{ID: "g-1", Institute: nil, Status: models.ContentPublished}
	repo.guides["g-2"] = &models.Guide{ID: "g-2", Institute: strPtr("DGI"), Status: models.ContentPublished}
	repo.guides["g-3"] = &models.Guide{ID: "g-3", Institute: strPtr("DGI"), Status: models.ContentDraft}
	svc := NewGuideService(repo, nil, nil)

	guide, err := svc.Get(context.Background(), nil, "g-1")
	require.NoError(t, err)
	assert.Equal(t, "g-1", guide.ID)

	guide, err = svc.Get(context.Background(), nil, "g-2")
	require.NoError(t, err)
	assert.Equal(t, "g-2", guide.ID)

	_, err = svc.Get(context.Background(), nil, "g-3")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
