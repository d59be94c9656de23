package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/web-academy/academy-api/internal/models"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
)

const (
	defaultMaxUploadSizeMB = 50
	minUploadSizeMB        = 1
	maxUploadSizeMB        = 500
)

type settingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Create(ctx context.Context, settings *models.Settings) error
	Update(ctx context.Context, settings *models.Settings) error
}

// SettingsService manages the platform singleton. The row is created lazily
// on first read with the current academic year and the harmattan semester.
type SettingsService struct {
	repo      settingsRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService constructs a SettingsService instance.
func NewSettingsService(repo settingsRepository, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SettingsService{repo: repo, validator: validate, logger: logger}
}

// Get returns the settings, creating the default row when missing.
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}

	settings = &models.Settings{
		CurrentSemester:     models.SemesterHarmattan,
		CurrentAcademicYear: time.Now().UTC().Year(),
		MaxUploadSizeMB:     defaultMaxUploadSizeMB,
	}
	if err := s.repo.Create(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return settings, nil
}

// Public returns the unauthenticated view of the settings.
func (s *SettingsService) Public(ctx context.Context) (*models.PublicSettings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &models.PublicSettings{
		CurrentSemester:     settings.CurrentSemester,
		CurrentAcademicYear: settings.CurrentAcademicYear,
	}, nil
}

// Update patches the singleton. Only the super-admin reaches this; the
// upload ceiling is clamped to keep the platform operable.
func (s *SettingsService) Update(ctx context.Context, actor *models.User, req models.UpdateSettingsRequest) (*models.Settings, error) {
	if !actor.IsSuperAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Seul le super-administrateur peut modifier les paramètres")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données de paramètres invalides")
	}

	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if req.CurrentSemester != nil {
		settings.CurrentSemester = *req.CurrentSemester
	}
	if req.CurrentAcademicYear != nil {
		settings.CurrentAcademicYear = *req.CurrentAcademicYear
	}
	if req.MaxUploadSizeMB != nil {
		size := *req.MaxUploadSizeMB
		if size < minUploadSizeMB {
			size = minUploadSizeMB
		}
		if size > maxUploadSizeMB {
			size = maxUploadSizeMB
		}
		settings.MaxUploadSizeMB = size
	}

	if err := s.repo.Update(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return settings, nil
}

// MaxUploadBytes converts the configured ceiling for upload handlers.
func (s *SettingsService) MaxUploadBytes(ctx context.Context) (int64, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return 0, err
	}
	return int64(settings.MaxUploadSizeMB) << 20, nil
}
