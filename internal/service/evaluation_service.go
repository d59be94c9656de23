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

type evaluationRepository interface {
	FindByID(ctx context.Context, id string) (*models.EvaluationCalendar, error)
	List(ctx context.Context, filter models.EvaluationCalendarFilter) ([]models.EvaluationCalendar, int, error)
	Create(ctx context.Context, entry *models.EvaluationCalendar) error
	Update(ctx context.Context, entry *models.EvaluationCalendar) error
	Delete(ctx context.Context, id string) error
}

// EvaluationService manages the assessment calendar.
type EvaluationService struct {
	repo      evaluationRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEvaluationService constructs an EvaluationService instance.
func NewEvaluationService(repo evaluationRepository, validate *validator.Validate, logger *zap.Logger) *EvaluationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EvaluationService{repo: repo, validator: validate, logger: logger}
}

// List returns the calendar visible to the viewer.
func (s *EvaluationService) List(ctx context.Context, viewer *models.User, filter models.EvaluationCalendarFilter) ([]models.EvaluationCalendar, int, error) {
	if viewer != nil {
		if tenant := viewer.Tenant(); tenant != "" {
			filter.Institute = tenant
		}
	}
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return entries, total, nil
}

// Get returns one assessment if the viewer can see it.
func (s *EvaluationService) Get(ctx context.Context, viewer *models.User, id string) (*models.EvaluationCalendar, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Évaluation non trouvée")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	if entry.Institute != nil && viewer != nil {
		if tenant := viewer.Tenant(); tenant != "" && !sameTenant(tenant, entry.Institute) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Évaluation non trouvée")
		}
	}
	return entry, nil
}

// Create schedules an assessment in the actor's reach.
func (s *EvaluationService) Create(ctx context.Context, actor *models.User, req models.CreateEvaluationCalendarRequest) (*models.EvaluationCalendar, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données d'évaluation invalides")
	}

	evalType := req.Type
	if evalType == "" {
		evalType = models.EvaluationExamen
	}

	entry := &models.EvaluationCalendar{
		Title:          req.Title,
		Description:    req.Description,
		Institute:      req.Institute,
		Filiere:        req.Filiere,
		Niveau:         req.Niveau,
		EvaluationDate: req.EvaluationDate,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Location:       req.Location,
		Type:           evalType,
		CourseID:       req.CourseID,
		Semester:       req.Semester,
		AcademicYear:   req.AcademicYear,
	}
	if tenant := actor.Tenant(); tenant != "" {
		entry.Institute = &tenant
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return entry, nil
}

// Update applies an assessment patch within the actor's reach.
func (s *EvaluationService) Update(ctx context.Context, actor *models.User, id string, req models.UpdateEvaluationCalendarRequest) (*models.EvaluationCalendar, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données d'évaluation invalides")
	}

	entry, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		entry.Title = *req.Title
	}
	if req.Description != nil {
		entry.Description = req.Description
	}
	if req.Filiere != nil {
		entry.Filiere = req.Filiere
	}
	if req.Niveau != nil {
		entry.Niveau = req.Niveau
	}
	if req.EvaluationDate != nil {
		entry.EvaluationDate = *req.EvaluationDate
	}
	if req.StartTime != nil {
		entry.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		entry.EndTime = req.EndTime
	}
	if req.Location != nil {
		entry.Location = req.Location
	}
	if req.Type != nil {
		entry.Type = *req.Type
	}
	if req.CourseID != nil {
		entry.CourseID = req.CourseID
	}
	if req.Semester != nil {
		entry.Semester = req.Semester
	}
	if req.AcademicYear != nil {
		entry.AcademicYear = req.AcademicYear
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return entry, nil
}

// Delete removes an assessment within the actor's reach.
func (s *EvaluationService) Delete(ctx context.Context, actor *models.User, id string) error {
	entry, err := s.authorize(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entry.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return nil
}

func (s *EvaluationService) authorize(ctx context.Context, actor *models.User, id string) (*models.EvaluationCalendar, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Évaluation non trouvée")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	if !canManage(actor, entry.Institute) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Évaluation non trouvée")
	}
	return entry, nil
}
