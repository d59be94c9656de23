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

type assignmentRepository interface {
	FindByID(ctx context.Context, id string) (*models.InstructorAssignment, error)
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.InstructorAssignment, int, error)
	Create(ctx context.Context, assignment *models.InstructorAssignment) error
	Update(ctx context.Context, assignment *models.InstructorAssignment) error
	Delete(ctx context.Context, id string) error
}

type assignmentUserLoader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// AssignmentService manages instructor course assignments. Assignments are
// tenant-bound: an institute admin only sees and writes their own.
type AssignmentService struct {
	repo      assignmentRepository
	users     assignmentUserLoader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(repo assignmentRepository, users assignmentUserLoader, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AssignmentService{repo: repo, users: users, validator: validate, logger: logger}
}

// List returns assignments within the acting admin's reach.
func (s *AssignmentService) List(ctx context.Context, actor *models.User, filter models.AssignmentFilter) ([]models.InstructorAssignment, int, error) {
	if tenant := actor.Tenant(); tenant != "" {
		filter.Tenant = tenant
	}
	assignments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return assignments, total, nil
}

// Get returns one assignment within the actor's reach.
func (s *AssignmentService) Get(ctx context.Context, actor *models.User, id string) (*models.InstructorAssignment, error) {
	return s.load(ctx, actor, id)
}

// ListForUser returns the signed-in instructor's own assignments.
func (s *AssignmentService) ListForUser(ctx context.Context, userID string) ([]models.InstructorAssignment, error) {
	assignments, _, err := s.repo.List(ctx, models.AssignmentFilter{UserID: userID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return assignments, nil
}

// Create assigns an instructor to a course for a term. The target user must
// hold the instructor role and sit inside the actor's reach.
func (s *AssignmentService) Create(ctx context.Context, actor *models.User, req models.CreateAssignmentRequest) (*models.InstructorAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données d'affectation invalides")
	}

	institute := req.Institute
	if tenant := actor.Tenant(); tenant != "" {
		institute = tenant
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Formateur non trouvé")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	if !user.IsInstructor() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "L'utilisateur n'est pas un formateur")
	}
	if tenant := actor.Tenant(); tenant != "" && !sameTenant(tenant, user.Institute) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Formateur non trouvé")
	}

	assignment := &models.InstructorAssignment{
		UserID:       req.UserID,
		Institute:    institute,
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
		CourseID:     req.CourseID,
	}

	if err := s.repo.Create(ctx, assignment); err != nil {
		if isUnique(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Cette affectation existe déjà")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return assignment, nil
}

// Update patches an assignment within the actor's reach.
func (s *AssignmentService) Update(ctx context.Context, actor *models.User, id string, req models.UpdateAssignmentRequest) (*models.InstructorAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données d'affectation invalides")
	}

	assignment, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.UserID != nil {
		assignment.UserID = *req.UserID
	}
	if req.Institute != nil && actor.IsSuperAdmin() {
		assignment.Institute = *req.Institute
	}
	if req.Semester != nil {
		assignment.Semester = *req.Semester
	}
	if req.AcademicYear != nil {
		assignment.AcademicYear = *req.AcademicYear
	}
	if req.CourseID != nil {
		assignment.CourseID = *req.CourseID
	}

	if err := s.repo.Update(ctx, assignment); err != nil {
		if isUnique(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Cette affectation existe déjà")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return assignment, nil
}

// Delete removes an assignment within the actor's reach.
func (s *AssignmentService) Delete(ctx context.Context, actor *models.User, id string) error {
	assignment, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, assignment.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return nil
}

func (s *AssignmentService) load(ctx context.Context, actor *models.User, id string) (*models.InstructorAssignment, error) {
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Affectation non trouvée")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	if tenant := actor.Tenant(); tenant != "" && assignment.Institute != tenant {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Affectation non trouvée")
	}
	return assignment, nil
}
