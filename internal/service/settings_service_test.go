package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/web-academy/academy-api/internal/models"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
)

type mockSettingsRepo struct {
	settings *models.Settings
	created  *models.Settings
	updated  *models.Settings
}

func (m *mockSettingsRepo) Get(ctx context.Context) (*models.Settings, error) {
	if m.settings == nil {
		return nil, sql.ErrNoRows
	}
	copied := *m.settings
	return &copied, nil
}

func (m *mockSettingsRepo) Create(ctx context.Context, settings *models.Settings) error {
	settings.ID = "s1"
	m.created = settings
	m.settings = settings
	return nil
}

func (m *mockSettingsRepo) Update(ctx context.Context, settings *models.Settings) error {
	m.updated = settings
	m.settings = settings
	return nil
}

func newSettingsService(repo *mockSettingsRepo) *SettingsService {
	return NewSettingsService(repo, validator.New(), zap.NewNop())
}

func TestSettingsGetCreatesDefaultRow(t *testing.T) {
	repo := &mockSettingsRepo{}
	svc := newSettingsService(repo)

	settings, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SemesterHarmattan, settings.CurrentSemester)
	assert.Equal(t, time.Now().UTC().Year(), settings.CurrentAcademicYear)
	assert.Equal(t, defaultMaxUploadSizeMB, settings.MaxUploadSizeMB)
	assert.NotNil(t, repo.created)
}

func TestSettingsUpdateReservedToSuperAdmin(t *testing.T) {
	repo := &mockSettingsRepo{settings: &models.Settings{ID: "s1", CurrentSemester: models.SemesterHarmattan, CurrentAcademicYear: 2026, MaxUploadSizeMB: 50}}
	svc := newSettingsService(repo)

	_, err := svc.Update(context.Background(), instituteAdmin("DGI"), models.UpdateSettingsRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestSettingsUpdateClampsUploadCeiling(t *testing.T) {
	repo := &mockSettingsRepo{settings: &models.Settings{ID: "s1", CurrentSemester: models.SemesterHarmattan, CurrentAcademicYear: 2026, MaxUploadSizeMB: 50}}
	svc := newSettingsService(repo)

	settings, err := svc.Update(context.Background(), superAdmin(), models.UpdateSettingsRequest{MaxUploadSizeMB: intPtr(10000)})
	require.NoError(t, err)
	assert.Equal(t, maxUploadSizeMB, settings.MaxUploadSizeMB)

	settings, err = svc.Update(context.Background(), superAdmin(), models.UpdateSettingsRequest{MaxUploadSizeMB: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, minUploadSizeMB, settings.MaxUploadSizeMB)
}

func TestSettingsMaxUploadBytes(t *testing.T) {
	repo := &mockSettingsRepo{settings: &models.Settings{ID: "s1", MaxUploadSizeMB: 2}}
	svc := newSettingsService(repo)

	n, err := svc.MaxUploadBytes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2<<20), n)
}

func TestSettingsPublicViewHidesUploadCeiling(t *testing.T) {
	repo := &mockSettingsRepo{settings: &models.Settings{ID: "s1", CurrentSemester: models.SemesterMousson, CurrentAcademicYear: 2026, MaxUploadSizeMB: 50}}
	svc := newSettingsService(repo)

	public, err := svc.Public(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SemesterMousson, public.CurrentSemester)
	assert.Equal(t, 2026, public.CurrentAcademicYear)
}
