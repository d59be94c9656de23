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

type categoryRepository interface {
	FindByID(ctx context.Context, id string) (*models.Category, error)
	List(ctx context.Context, filter models.CategoryFilter) ([]models.Category, int, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
}

// CategoryService manages the per-institute course taxonomy.
type CategoryService struct {
	repo      categoryRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCategoryService constructs a CategoryService instance.
func NewCategoryService(repo categoryRepository, validate *validator.Validate, logger *zap.Logger) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CategoryService{repo: repo, validator: validate, logger: logger}
}

// List returns the categories visible to the acting admin.
func (s *CategoryService) List(ctx context.Context, actor *models.User, filter models.CategoryFilter) ([]models.Category, int, error) {
	if tenant := actor.Tenant(); tenant != "" {
		filter.Tenant = tenant
	}
	categories, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return categories, total, nil
}

// Get returns one category within the actor's reach.
func (s *CategoryService) Get(ctx context.Context, actor *models.User, id string) (*models.Category, error) {
	return s.load(ctx, actor, id)
}

// Create adds a category in the actor's institute. A duplicate name within
// the same institute is rejected.
func (s *CategoryService) Create(ctx context.Context, actor *models.User, req models.CreateCategoryRequest) (*models.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données de catégorie invalides")
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Order != nil {
		category.Order = *req.Order
	}
	if tenant := actor.Tenant(); tenant != "" {
		category.Institute = &tenant
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if isUnique(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Cette catégorie existe déjà")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return category, nil
}

// Update applies a category patch within the actor's reach.
func (s *CategoryService) Update(ctx context.Context, actor *models.User, id string, req models.UpdateCategoryRequest) (*models.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données de catégorie invalides")
	}

	category, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Order != nil {
		category.Order = *req.Order
	}

	if err := s.repo.Update(ctx, category); err != nil {
		if isUnique(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Cette catégorie existe déjà")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return category, nil
}

// Delete removes a category within the actor's reach.
func (s *CategoryService) Delete(ctx context.Context, actor *models.User, id string) error {
	category, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, category.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return nil
}

func (s *CategoryService) load(ctx context.Context, actor *models.User, id string) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Catégorie non trouvée")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	// Global categories have no institute and stay within every admin's reach.
	if tenant := actor.Tenant(); tenant != "" && category.Institute != nil && !sameTenant(tenant, category.Institute) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Catégorie non trouvée")
	}
	return category, nil
}

type filiereRepository interface {
	FindByID(ctx context.Context, id string) (*models.Filiere, error)
	List(ctx context.Context, filter models.FiliereFilter) ([]models.Filiere, int, error)
	Create(ctx context.Context, filiere *models.Filiere) error
	Update(ctx context.Context, filiere *models.Filiere) error
	Delete(ctx context.Context, id string) error
}

// FiliereService manages academic tracks. Reads are public, writes are
// admin-scoped.
type FiliereService struct {
	repo      filiereRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFiliereService constructs a FiliereService instance.
func NewFiliereService(repo filiereRepository, validate *validator.Validate, logger *zap.Logger) *FiliereService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &FiliereService{repo: repo, validator: validate, logger: logger}
}

// List returns filieres, optionally filtered by institute. The public
// catalogue passes no actor.
func (s *FiliereService) List(ctx context.Context, actor *models.User, filter models.FiliereFilter) ([]models.Filiere, int, error) {
	if actor != nil {
		if tenant := actor.Tenant(); tenant != "" {
			filter.Tenant = tenant
		}
	}
	filieres, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return filieres, total, nil
}

// Get returns one filiere within the actor's reach.
func (s *FiliereService) Get(ctx context.Context, actor *models.User, id string) (*models.Filiere, error) {
	return s.load(ctx, actor, id)
}

// Create adds a filiere. Institute admins create in their own institute; the
// super-admin must name one explicitly.
func (s *FiliereService) Create(ctx context.Context, actor *models.User, req models.CreateFiliereRequest) (*models.Filiere, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données de filière invalides")
	}

	institute := req.Institute
	if tenant := actor.Tenant(); tenant != "" {
		institute = tenant
	}
	if institute == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "L'institut est requis")
	}

	filiere := &models.Filiere{
		Institute: institute,
		Name:      req.Name,
	}
	if req.Order != nil {
		filiere.Order = *req.Order
	}

	if err := s.repo.Create(ctx, filiere); err != nil {
		if isUnique(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Cette filière existe déjà")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return filiere, nil
}

// Update applies a filiere patch within the actor's reach.
func (s *FiliereService) Update(ctx context.Context, actor *models.User, id string, req models.UpdateFiliereRequest) (*models.Filiere, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données de filière invalides")
	}

	filiere, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		filiere.Name = *req.Name
	}
	if req.Order != nil {
		filiere.Order = *req.Order
	}

	if err := s.repo.Update(ctx, filiere); err != nil {
		if isUnique(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Cette filière existe déjà")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return filiere, nil
}

// Delete removes a filiere within the actor's reach.
func (s *FiliereService) Delete(ctx context.Context, actor *models.User, id string) error {
	filiere, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, filiere.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return nil
}

func (s *FiliereService) load(ctx context.Context, actor *models.User, id string) (*models.Filiere, error) {
	filiere, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Filière non trouvée")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	if tenant := actor.Tenant(); tenant != "" && filiere.Institute != tenant {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Filière non trouvée")
	}
	return filiere, nil
}
