package handler

import (
	"bytes"
	"context"
	"database/sql"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web-academy/academy-api/internal/middleware"
	"github.com/web-academy/academy-api/internal/models"
	"github.com/web-academy/academy-api/internal/service"
	"github.com/web-academy/academy-api/pkg/storage"
)

type stubCourseRepo struct {
	course *models.Course
	added  []*models.CourseResource
}

func (s *stubCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if s.course == nil || s.course.ID != id {
		return nil, sql.ErrNoRows
	}
	copied := *s.course
	return &copied, nil
}

func (s *stubCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	return nil, 0, nil
}

func (s *stubCourseRepo) ListByInstructor(ctx context.Context, filter models.InstructorCourseFilter) ([]models.Course, error) {
	return nil, nil
}

func (s *stubCourseRepo) Create(ctx context.Context, course *models.Course) error { return nil }
func (s *stubCourseRepo) Update(ctx context.Context, course *models.Course) error { return nil }
func (s *stubCourseRepo) Delete(ctx context.Context, id string) error             { return nil }

func (s *stubCourseRepo) ListResources(ctx context.Context, courseID string) ([]models.CourseResource, error) {
	return nil, nil
}

func (s *stubCourseRepo) FindResource(ctx context.Context, courseID, resourceID string) (*models.CourseResource, error) {
	return nil, sql.ErrNoRows
}

func (s *stubCourseRepo) AddResource(ctx context.Context, resource *models.CourseResource) error {
	s.added = append(s.added, resource)
	return nil
}

func (s *stubCourseRepo) DeleteResource(ctx context.Context, courseID, resourceID string) error {
	return nil
}

type stubAssignmentChecker struct{}

func (stubAssignmentChecker) ExistsForCourse(ctx context.Context, userID, courseID string) (bool, error) {
	return false, nil
}

type stubSettingsRepo struct{}

func (stubSettingsRepo) Get(ctx context.Context) (*models.Settings, error) {
	return &models.Settings{MaxUploadSizeMB: 10}, nil
}

func (stubSettingsRepo) Create(ctx context.Context, settings *models.Settings) error { return nil }
func (stubSettingsRepo) Update(ctx context.Context, settings *models.Settings) error { return nil }

func multipartPDF(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="cours.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 contenu"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadResourceChecksRightsBeforeWriting(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	repo := &stubCourseRepo{course: &models.Course{ID: "c1", CreatedBy: "someone-else", Status: models.CoursePublished}}
	courses := service.NewCourseService(repo, stubAssignmentChecker{}, nil, nil, nil)
	settings := service.NewSettingsService(stubSettingsRepo{}, nil, nil)
	h := NewUploadHandler(courses, settings, nil, store)

	r := gin.New()
	r.POST("/courses/:id/resources", func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, &models.User{ID: "f1", Role: models.RoleInstructor})
		h.UploadResource(c)
	})

	body, contentType := multipartPDF(t)
	req := httptest.NewRequest(http.MethodPost, "/courses/c1/resources", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, repo.added)

	// The refused upload must leave nothing behind on disk.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
