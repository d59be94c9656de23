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

type timetableRepository interface {
	FindByID(ctx context.Context, id string) (*models.Timetable, error)
	List(ctx context.Context, filter models.TimetableFilter) ([]models.Timetable, int, error)
	Create(ctx context.Context, entry *models.Timetable) error
	Update(ctx context.Context, entry *models.Timetable) error
	Delete(ctx context.Context, id string) error
}

// TimetableService manages weekly class slots.
type TimetableService struct {
	repo      timetableRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService constructs a TimetableService instance.
func NewTimetableService(repo timetableRepository, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TimetableService{repo: repo, validator: validate, logger: logger}
}

// List returns the timetable visible to the viewer, scoped to their
// institute when they are bound to one.
func (s *TimetableService) List(ctx context.Context, viewer *models.User, filter models.TimetableFilter) ([]models.Timetable, int, error) {
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

// Get returns one slot if the viewer can see it.
func (s *TimetableService) Get(ctx context.Context, viewer *models.User, id string) (*models.Timetable, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Créneau non trouvé")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	if entry.Institute != nil && viewer != nil {
		if tenant := viewer.Tenant(); tenant != "" && !sameTenant(tenant, entry.Institute) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Créneau non trouvé")
		}
	}
	return entry, nil
}

// Create adds a slot in the actor's reach.
func (s *TimetableService) Create(ctx context.Context, actor *models.User, req models.CreateTimetableRequest) (*models.Timetable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données d'emploi du temps invalides")
	}

	entry := &models.Timetable{
		Institute:    req.Institute,
		Filiere:      req.Filiere,
		Niveau:       req.Niveau,
		CourseID:     req.CourseID,
		DayOfWeek:    req.DayOfWeek,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Room:         req.Room,
		Instructor:   req.Instructor,
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
	}
	if tenant := actor.Tenant(); tenant != "" {
		entry.Institute = &tenant
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return entry, nil
}

// Update applies a slot patch within the actor's reach.
func (s *TimetableService) Update(ctx context.Context, actor *models.User, id string, req models.UpdateTimetableRequest) (*models.Timetable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données d'emploi du temps invalides")
	}

	entry, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.CourseID != nil {
		entry.CourseID = *req.CourseID
	}
	if req.Filiere != nil {
		entry.Filiere = req.Filiere
	}
	if req.Niveau != nil {
		entry.Niveau = req.Niveau
	}
	if req.DayOfWeek != nil {
		entry.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		entry.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		entry.EndTime = *req.EndTime
	}
	if req.Room != nil {
		entry.Room = req.Room
	}
	if req.Instructor != nil {
		entry.Instructor = req.Instructor
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

// Delete removes a slot within the actor's reach.
func (s *TimetableService) Delete(ctx context.Context, actor *models.User, id string) error {
	entry, err := s.authorize(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entry.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return nil
}

func (s *TimetableService) authorize(ctx context.Context, actor *models.User, id string) (*models.Timetable, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Créneau non trouvé")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	if !canManage(actor, entry.Institute) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Créneau non trouvé")
	}
	return entry, nil
}
