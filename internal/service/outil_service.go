package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/web-academy/academy-api/internal/models"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
)

type outilRepository interface {
	FindByID(ctx context.Context, id string) (*models.Outil, error)
	List(ctx context.Context, filter models.OutilFilter) ([]models.Outil, int, error)
	Create(ctx context.Context, outil *models.Outil) error
	Update(ctx context.Context, outil *models.Outil) error
	Delete(ctx context.Context, id string) error
}

// OutilService manages external tool links.
type OutilService struct {
	repo      outilRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewOutilService constructs an OutilService instance.
func NewOutilService(repo outilRepository, validate *validator.Validate, logger *zap.Logger) *OutilService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &OutilService{repo: repo, validator: validate, logger: logger}
}

// List returns the tools visible to the viewer.
func (s *OutilService) List(ctx context.Context, viewer *models.User, filter models.OutilFilter) ([]models.Outil, int, error) {
	if viewer != nil {
		if tenant := viewer.Tenant(); tenant != "" {
			filter.TenantOrGlobal = tenant
		}
	}
	outils, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return outils, total, nil
}

// Get returns one tool if the viewer can see it.
func (s *OutilService) Get(ctx context.Context, viewer *models.User, id string) (*models.Outil, error) {
	outil, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Outil non trouvé")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	// Only a viewer bound to another institute is masked; anonymous
	// visitors read any published tool.
	visible := viewer == nil || outil.Institute == nil
	if !visible {
		tenant := viewer.Tenant()
		visible = tenant == "" || sameTenant(tenant, outil.Institute)
	}
	if !visible {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Outil non trouvé")
	}
	return outil, nil
}

// Create adds a tool link in the actor's reach.
func (s *OutilService) Create(ctx context.Context, actor *models.User, req models.CreateOutilRequest) (*models.Outil, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données d'outil invalides")
	}

	outil := &models.Outil{
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		Institute:   req.Institute,
	}
	if req.Order != nil {
		outil.Order = *req.Order
	}
	if tenant := actor.Tenant(); tenant != "" {
		outil.Institute = &tenant
	}

	if err := s.repo.Create(ctx, outil); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return outil, nil
}

// Update applies a tool patch within the actor's reach.
func (s *OutilService) Update(ctx context.Context, actor *models.User, id string, req models.UpdateOutilRequest) (*models.Outil, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données d'outil invalides")
	}

	outil, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		outil.Title = *req.Title
	}
	if req.Description != nil {
		outil.Description = *req.Description
	}
	if req.URL != nil {
		outil.URL = *req.URL
	}
	if req.Order != nil {
		outil.Order = *req.Order
	}

	if err := s.repo.Update(ctx, outil); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return outil, nil
}

// Delete removes a tool within the actor's reach.
func (s *OutilService) Delete(ctx context.Context, actor *models.User, id string) error {
	outil, err := s.authorize(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, outil.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return nil
}

func (s *OutilService) authorize(ctx context.Context, actor *models.User, id string) (*models.Outil, error) {
	outil, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Outil non trouvé")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	if !canManage(actor, outil.Institute) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Outil non trouvé")
	}
	return outil, nil
}
