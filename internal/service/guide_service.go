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

type guideRepository interface {
	FindByID(ctx context.Context, id string) (*models.Guide, error)
	List(ctx context.Context, filter models.GuideFilter) ([]models.Guide, int, error)
	Create(ctx context.Context, guide *models.Guide) error
	Update(ctx context.Context, guide *models.Guide) error
	Delete(ctx context.Context, id string) error
}

// GuideService manages help pages.
type GuideService struct {
	repo      guideRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGuideService constructs a GuideService instance.
func NewGuideService(repo guideRepository, validate *validator.Validate, logger *zap.Logger) *GuideService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GuideService{repo: repo, validator: validate, logger: logger}
}

// List returns the guides visible to the viewer.
func (s *GuideService) List(ctx context.Context, viewer *models.User, filter models.GuideFilter) ([]models.Guide, int, error) {
	if viewer == nil || !viewer.IsAdmin() {
		filter.Status = models.ContentPublished
	}
	if viewer != nil {
		if tenant := viewer.Tenant(); tenant != "" {
			filter.TenantOrGlobal = tenant
		}
	}
	guides, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return guides, total, nil
}

// Get returns one guide under the list visibility rules.
func (s *GuideService) Get(ctx context.Context, viewer *models.User, id string) (*models.Guide, error) {
	guide, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	// Only a viewer bound to another institute is masked; anonymous
	// visitors read any published guide.
	visible := viewer == nil || guide.Institute == nil
	if !visible {
		tenant := viewer.Tenant()
		visible = tenant == "" || sameTenant(tenant, guide.Institute)
	}
	if !visible {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Guide non trouvé")
	}
	if guide.Status != models.ContentPublished && (viewer == nil || !canManage(viewer, guide.Institute)) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Guide non trouvé")
	}
	return guide, nil
}

// Create adds a guide in the actor's reach.
func (s *GuideService) Create(ctx context.Context, actor *models.User, req models.CreateGuideRequest) (*models.Guide, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données de guide invalides")
	}

	status := req.Status
	if status == "" {
		status = models.ContentPublished
	}

	guide := &models.Guide{
		Title:     req.Title,
		Content:   req.Content,
		Institute: req.Institute,
		Status:    status,
	}
	if req.Order != nil {
		guide.Order = *req.Order
	}
	if tenant := actor.Tenant(); tenant != "" {
		guide.Institute = &tenant
	}

	if err := s.repo.Create(ctx, guide); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return guide, nil
}

// Update applies a guide patch within the actor's reach.
func (s *GuideService) Update(ctx context.Context, actor *models.User, id string, req models.UpdateGuideRequest) (*models.Guide, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données de guide invalides")
	}

	guide, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		guide.Title = *req.Title
	}
	if req.Content != nil {
		guide.Content = *req.Content
	}
	if req.Order != nil {
		guide.Order = *req.Order
	}
	if req.Status != nil {
		guide.Status = *req.Status
	}

	if err := s.repo.Update(ctx, guide); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return guide, nil
}

// Delete removes a guide within the actor's reach.
func (s *GuideService) Delete(ctx context.Context, actor *models.User, id string) error {
	guide, err := s.authorize(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, guide.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return nil
}

func (s *GuideService) authorize(ctx context.Context, actor *models.User, id string) (*models.Guide, error) {
	guide, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, guide.Institute) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Guide non trouvé")
	}
	return guide, nil
}

func (s *GuideService) load(ctx context.Context, id string) (*models.Guide, error) {
	guide, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Guide non trouvé")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return guide, nil
}
