package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/web-academy/academy-api/internal/models"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
)

// DefaultInstitution is stamped on courses that do not name one.
const DefaultInstitution = "UCAO-UUT"

type courseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	ListByInstructor(ctx context.Context, filter models.InstructorCourseFilter) ([]models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
	ListResources(ctx context.Context, courseID string) ([]models.CourseResource, error)
	FindResource(ctx context.Context, courseID, resourceID string) (*models.CourseResource, error)
	AddResource(ctx context.Context, resource *models.CourseResource) error
	DeleteResource(ctx context.Context, courseID, resourceID string) error
}

type courseAssignmentChecker interface {
	ExistsForCourse(ctx context.Context, userID, courseID string) (bool, error)
}

type resourceStorage interface {
	Delete(filename string) error
}

// CourseService implements the course catalogue with per-tenant visibility
// and the shared edit rule: an admin within reach, the creator, or an
// assigned instructor.
type CourseService struct {
	repo        courseRepository
	assignments courseAssignmentChecker
	storage     resourceStorage
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(repo courseRepository, assignments courseAssignmentChecker, storage resourceStorage, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{repo: repo, assignments: assignments, storage: storage, validator: validate, logger: logger}
}

// List returns the catalogue visible to the viewer. Anonymous callers and
// non-admins only see published courses; institute members are confined to
// their own institute.
func (s *CourseService) List(ctx context.Context, viewer *models.User, filter models.CourseFilter) ([]models.Course, int, error) {
	if viewer == nil || !viewer.IsAdmin() {
		filter.Status = models.CoursePublished
	}
	if viewer != nil {
		if tenant := viewer.Tenant(); tenant != "" {
			filter.Tenant = tenant
		}
	}
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return courses, total, nil
}

// Get returns one course with its resources. Unpublished courses are only
// visible to principals who could edit them.
func (s *CourseService) Get(ctx context.Context, viewer *models.User, id string) (*models.Course, error) {
	course, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if viewer != nil {
		if tenant := viewer.Tenant(); tenant != "" && course.Institute != nil && *course.Institute != tenant {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Formation non trouvée")
		}
	}
	if course.Status != models.CoursePublished {
		ok, err := s.canEdit(ctx, viewer, course)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Formation non trouvée")
		}
	}

	resources, err := s.repo.ListResources(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	course.Resources = resources
	return course, nil
}

// Mine returns the courses the actor created or is assigned to, within
// their institute. Assignments only concern instructors, so admins get the
// courses they created themselves.
func (s *CourseService) Mine(ctx context.Context, actor *models.User, search string) ([]models.Course, error) {
	filter := models.InstructorCourseFilter{
		UserID:      actor.ID,
		Tenant:      actor.Tenant(),
		Search:      search,
		CreatedOnly: actor.IsAdmin(),
	}
	courses, err := s.repo.ListByInstructor(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return courses, nil
}

// Create adds a course. An institute-bound creator stamps their own
// institute on it regardless of the payload.
func (s *CourseService) Create(ctx context.Context, actor *models.User, req models.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données de formation invalides")
	}

	status := req.Status
	if status == "" {
		status = models.CourseDraft
	}

	course := &models.Course{
		Title:        req.Title,
		Category:     req.Category,
		Description:  req.Description,
		Filiere:      req.Filiere,
		Niveau:       req.Niveau,
		Institute:    req.Institute,
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
		Institution:  DefaultInstitution,
		Thumbnail:    req.Thumbnail,
		VideoURL:     req.VideoURL,
		Status:       status,
		CreatedBy:    actor.ID,
	}
	if tenant := actor.Tenant(); tenant != "" {
		course.Institute = &tenant
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	course.Resources = []models.CourseResource{}
	return course, nil
}

// Update applies a course patch from anyone holding edit rights.
func (s *CourseService) Update(ctx context.Context, actor *models.User, id string, req models.UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données de formation invalides")
	}

	course, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Filiere != nil {
		course.Filiere = req.Filiere
	}
	if req.Niveau != nil {
		course.Niveau = req.Niveau
	}
	if req.Semester != nil {
		course.Semester = req.Semester
	}
	if req.AcademicYear != nil {
		course.AcademicYear = req.AcademicYear
	}
	if req.Thumbnail != nil {
		course.Thumbnail = req.Thumbnail
	}
	if req.VideoURL != nil {
		course.VideoURL = req.VideoURL
	}
	if req.Status != nil {
		course.Status = *req.Status
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return course, nil
}

// Delete removes a course along with its stored resource files. Assignment
// only grants edit rights, so deletion stays with the creator or an admin
// within reach.
func (s *CourseService) Delete(ctx context.Context, actor *models.User, id string) error {
	course, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	allowed := course.CreatedBy == actor.ID || (actor.IsAdmin() && sameTenant(actor.Tenant(), course.Institute))
	if !allowed {
		return appErrors.Clone(appErrors.ErrForbidden, "Vous n'avez pas le droit de supprimer cette formation")
	}

	resources, err := s.repo.ListResources(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	if err := s.repo.Delete(ctx, course.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}

	for _, res := range resources {
		s.removeFile(res.URL)
	}
	return nil
}

// AddResource attaches an already uploaded file to a course.
func (s *CourseService) AddResource(ctx context.Context, actor *models.User, courseID string, resource *models.CourseResource) (*models.CourseResource, error) {
	if _, err := s.authorize(ctx, actor, courseID); err != nil {
		return nil, err
	}
	resource.CourseID = courseID
	if err := s.repo.AddResource(ctx, resource); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return resource, nil
}

// DeleteResource detaches a resource and removes its file.
func (s *CourseService) DeleteResource(ctx context.Context, actor *models.User, courseID, resourceID string) error {
	if _, err := s.authorize(ctx, actor, courseID); err != nil {
		return err
	}

	resource, err := s.repo.FindResource(ctx, courseID, resourceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Ressource non trouvée")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	if err := s.repo.DeleteResource(ctx, courseID, resourceID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	s.removeFile(resource.URL)
	return nil
}

// CanEdit exposes the edit rule for callers outside the service.
func (s *CourseService) CanEdit(ctx context.Context, actor *models.User, courseID string) (bool, error) {
	course, err := s.load(ctx, courseID)
	if err != nil {
		return false, err
	}
	return s.canEdit(ctx, actor, course)
}

func (s *CourseService) authorize(ctx context.Context, actor *models.User, courseID string) (*models.Course, error) {
	course, err := s.load(ctx, courseID)
	if err != nil {
		return nil, err
	}
	ok, err := s.canEdit(ctx, actor, course)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Vous n'avez pas le droit de modifier cette formation")
	}
	return course, nil
}

func (s *CourseService) canEdit(ctx context.Context, actor *models.User, course *models.Course) (bool, error) {
	if actor == nil {
		return false, nil
	}
	if actor.IsAdmin() {
		return sameTenant(actor.Tenant(), course.Institute), nil
	}
	if course.CreatedBy == actor.ID {
		return true, nil
	}
	if actor.IsInstructor() {
		assigned, err := s.assignments.ExistsForCourse(ctx, actor.ID, course.ID)
		if err != nil {
			return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
		}
		return assigned, nil
	}
	return false, nil
}

func (s *CourseService) load(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Formation non trouvée")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return course, nil
}

func (s *CourseService) removeFile(url string) {
	if s.storage == nil || !strings.HasPrefix(url, "/uploads/") {
		return
	}
	rel := strings.TrimPrefix(url, "/uploads/")
	if err := s.storage.Delete(rel); err != nil {
		s.logger.Warn("failed to remove resource file", zap.String("url", url), zap.Error(err))
	}
}
