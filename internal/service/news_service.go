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

type newsRepository interface {
	FindByID(ctx context.Context, id string) (*models.News, error)
	List(ctx context.Context, filter models.NewsFilter) ([]models.News, int, error)
	Create(ctx context.Context, news *models.News) error
	Update(ctx context.Context, news *models.News) error
	Delete(ctx context.Context, id string) error
}

// NewsService manages announcements. Readers see their institute's published
// news plus the global feed; drafts stay admin-only.
type NewsService struct {
	repo      newsRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNewsService constructs a NewsService instance.
func NewNewsService(repo newsRepository, validate *validator.Validate, logger *zap.Logger) *NewsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &NewsService{repo: repo, validator: validate, logger: logger}
}

// List returns the feed for the viewer. Non-admins only see published
// entries of their institute or the global feed.
func (s *NewsService) List(ctx context.Context, viewer *models.User, filter models.NewsFilter) ([]models.News, int, error) {
	if viewer == nil || !viewer.IsAdmin() {
		filter.Status = models.ContentPublished
	}
	if viewer != nil {
		if tenant := viewer.Tenant(); tenant != "" {
			filter.Institute = ""
			filter.TenantOrGlobal = tenant
		}
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return items, total, nil
}

// Get returns one announcement under the same visibility rules as List.
func (s *NewsService) Get(ctx context.Context, viewer *models.User, id string) (*models.News, error) {
	news, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	// Only a viewer bound to another institute is masked; anonymous
	// visitors read any published announcement.
	visible := viewer == nil || news.Institute == nil
	if !visible {
		tenant := viewer.Tenant()
		visible = tenant == "" || sameTenant(tenant, news.Institute)
	}
	if !visible {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Actualité non trouvée")
	}
	if news.Status != models.ContentPublished && (viewer == nil || !canManage(viewer, news.Institute)) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Actualité non trouvée")
	}
	return news, nil
}

// Create publishes or drafts an announcement in the actor's reach.
func (s *NewsService) Create(ctx context.Context, actor *models.User, req models.CreateNewsRequest) (*models.News, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données d'actualité invalides")
	}

	status := req.Status
	if status == "" {
		status = models.ContentPublished
	}

	news := &models.News{
		Title:     req.Title,
		Content:   req.Content,
		Image:     req.Image,
		Institute: req.Institute,
		Status:    status,
		CreatedBy: actor.ID,
	}
	if tenant := actor.Tenant(); tenant != "" {
		news.Institute = &tenant
	}

	if err := s.repo.Create(ctx, news); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return news, nil
}

// Update applies a patch within the actor's reach.
func (s *NewsService) Update(ctx context.Context, actor *models.User, id string, req models.UpdateNewsRequest) (*models.News, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données d'actualité invalides")
	}

	news, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		news.Title = *req.Title
	}
	if req.Content != nil {
		news.Content = *req.Content
	}
	if req.Image != nil {
		news.Image = req.Image
	}
	if req.Status != nil {
		news.Status = *req.Status
	}

	if err := s.repo.Update(ctx, news); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return news, nil
}

// Delete removes an announcement within the actor's reach.
func (s *NewsService) Delete(ctx context.Context, actor *models.User, id string) error {
	news, err := s.authorize(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, news.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return nil
}

func (s *NewsService) authorize(ctx context.Context, actor *models.User, id string) (*models.News, error) {
	news, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, news.Institute) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Actualité non trouvée")
	}
	return news, nil
}

func (s *NewsService) load(ctx context.Context, id string) (*models.News, error) {
	news, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Actualité non trouvée")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return news, nil
}
