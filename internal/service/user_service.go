package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/web-academy/academy-api/internal/models"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	SetIdentityVerified(ctx context.Context, id string, verified bool) error
	Delete(ctx context.Context, id string) error
}

type userNotifier interface {
	AccountCreated(user *models.User)
	IdentityConfirmed(user *models.User)
}

// UserService implements the admin roster. Every operation takes the acting
// admin: institute admins are confined to their own tenant and a lookup
// outside it reads as a missing resource, never as a denied one.
type UserService struct {
	repo      userRepository
	notifier  userNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(repo userRepository, notifier userNotifier, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, notifier: notifier, validator: validate, logger: logger}
}

// List returns the roster visible to the acting admin.
func (s *UserService) List(ctx context.Context, actor *models.User, filter models.UserFilter) ([]models.User, int, error) {
	if tenant := actor.Tenant(); tenant != "" {
		filter.Tenant = tenant
	}
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return users, total, nil
}

// Get returns one user from the actor's tenant.
func (s *UserService) Get(ctx context.Context, actor *models.User, id string) (*models.User, error) {
	return s.load(ctx, actor, id)
}

// Create provisions an account on behalf of an admin. Institute admins can
// only populate their own institute and may not mint other admins.
func (s *UserService) Create(ctx context.Context, actor *models.User, req models.CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données utilisateur invalides")
	}

	role := models.Role(req.Role)
	if role == models.RoleAdmin && !actor.IsSuperAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Seul le super-administrateur peut créer des administrateurs")
	}

	institute := req.Institute
	if tenant := actor.Tenant(); tenant != "" {
		institute = &tenant
	}
	// An admin account without an institute would be a second super-admin.
	if role == models.RoleAdmin && (institute == nil || *institute == "") {
		return nil, appErrors.Clone(appErrors.ErrValidation, "L'institut est requis pour un compte administrateur")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}

	user := &models.User{
		Name:             req.Name,
		Email:            normalizeEmail(req.Email),
		PasswordHash:     string(hash),
		Role:             role,
		Institute:        institute,
		Filiere:          req.Filiere,
		Niveau:           req.Niveau,
		StudentNumber:    req.StudentNumber,
		Phone:            req.Phone,
		Address:          req.Address,
		IdentityVerified: true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if isUnique(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Un compte avec cet email existe déjà")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}

	if s.notifier != nil {
		s.notifier.AccountCreated(user)
	}
	return user, nil
}

// Update applies an admin roster patch.
func (s *UserService) Update(ctx context.Context, actor *models.User, id string, req models.AdminUpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données utilisateur invalides")
	}

	user, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() && !actor.IsSuperAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Seul le super-administrateur peut modifier un administrateur")
	}
	if req.Role != nil && models.Role(*req.Role) == models.RoleAdmin && !actor.IsSuperAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Seul le super-administrateur peut promouvoir un administrateur")
	}
	if req.Institute != nil && !actor.IsSuperAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Seul le super-administrateur peut changer l'institut d'un compte")
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
	}
	if req.Role != nil {
		user.Role = models.Role(*req.Role)
	}
	if req.Institute != nil {
		user.Institute = req.Institute
	}
	if req.Filiere != nil {
		user.Filiere = req.Filiere
	}
	if req.Niveau != nil {
		user.Niveau = req.Niveau
	}
	if req.StudentNumber != nil {
		user.StudentNumber = req.StudentNumber
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
		}
		user.PasswordHash = string(hash)
	}

	if (req.Role != nil || req.Institute != nil) && user.Role == models.RoleAdmin && (user.Institute == nil || *user.Institute == "") {
		return nil, appErrors.Clone(appErrors.ErrValidation, "L'institut est requis pour un compte administrateur")
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if isUnique(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Un compte avec cet email existe déjà")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return user, nil
}

// VerifyIdentity confirms a student account. The flag only ever moves to
// true; there is no un-verify.
func (s *UserService) VerifyIdentity(ctx context.Context, actor *models.User, id string) (*models.User, error) {
	user, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Seuls les comptes étudiants nécessitent une vérification d'identité")
	}
	if user.IdentityVerified {
		return nil, appErrors.Clone(appErrors.ErrValidation, "L'identité de ce compte est déjà confirmée")
	}

	if err := s.repo.SetIdentityVerified(ctx, id, true); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	user.IdentityVerified = true

	if s.notifier != nil {
		s.notifier.IdentityConfirmed(user)
	}
	return user, nil
}

// Delete removes a user from the actor's tenant.
func (s *UserService) Delete(ctx context.Context, actor *models.User, id string) error {
	user, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if user.ID == actor.ID {
		return appErrors.Clone(appErrors.ErrForbidden, "Vous ne pouvez pas supprimer votre propre compte")
	}
	if user.IsAdmin() && !actor.IsSuperAdmin() {
		return appErrors.Clone(appErrors.ErrForbidden, "Seul le super-administrateur peut supprimer un administrateur")
	}
	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return nil
}

// ExportDataset returns every user visible to the actor, for CSV/PDF export.
func (s *UserService) ExportDataset(ctx context.Context, actor *models.User) ([]models.User, error) {
	users, _, err := s.List(ctx, actor, models.UserFilter{})
	return users, err
}

func (s *UserService) load(ctx context.Context, actor *models.User, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Utilisateur non trouvé")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	// Cross-tenant reads are indistinguishable from missing rows.
	if tenant := actor.Tenant(); tenant != "" && !sameTenant(tenant, user.Institute) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Utilisateur non trouvé")
	}
	return user, nil
}
