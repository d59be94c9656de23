package handler

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/web-academy/academy-api/internal/models"
	"github.com/web-academy/academy-api/internal/service"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
	"github.com/web-academy/academy-api/pkg/response"
	"github.com/web-academy/academy-api/pkg/storage"
)

// Accepted upload MIME types: images, PDF, Word, Excel and archives.
var allowedUploadTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/gif":          true,
	"image/webp":         true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/zip":              true,
	"application/x-zip-compressed": true,
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// UploadHandler streams course resource files to local storage.
type UploadHandler struct {
	courses  *service.CourseService
	settings *service.SettingsService
	metrics  *service.MetricsService
	storage  *storage.LocalStorage
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(courses *service.CourseService, settings *service.SettingsService, metrics *service.MetricsService, store *storage.LocalStorage) *UploadHandler {
	return &UploadHandler{courses: courses, settings: settings, metrics: metrics, storage: store}
}

// UploadResource godoc
// @Summary Attach an uploaded file to a course
// @Tags Courses
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param file formData file true "Resource file"
// @Success 201 {object} models.CourseResource
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Router /courses/{id}/resources [post]
func (h *UploadHandler) UploadResource(c *gin.Context) {
	courseID := c.Param("id")
	actor := userFromContext(c)

	maxBytes, err := h.settings.MaxUploadBytes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Aucun fichier fourni"))
		return
	}
	if fileHeader.Size > maxBytes {
		response.Error(c, appErrors.New("FILE_TOO_LARGE", 413, fmt.Sprintf("Le fichier dépasse la taille maximale de %d Mo", maxBytes>>20)))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Type de fichier non autorisé"))
		return
	}

	// Authorize before anything touches the disk.
	ok, err := h.courses.CanEdit(c.Request.Context(), actor, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "Vous n'avez pas le droit de modifier cette formation"))
		return
	}

	relPath := fmt.Sprintf("courses/%s/%d-%s", courseID, time.Now().UTC().UnixMilli(), sanitizeFilename(fileHeader.Filename))
	if err := h.saveFile(fileHeader, relPath); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, ""))
		return
	}

	resource := &models.CourseResource{
		Name: fileHeader.Filename,
		Type: resourceType(contentType),
		URL:  "/uploads/" + relPath,
	}
	created, err := h.courses.AddResource(c.Request.Context(), actor, courseID, resource)
	if err != nil {
		// The course rejected the attachment, do not keep an orphan file.
		_ = h.storage.Delete(relPath)
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveUploadBytes(fileHeader.Size)
	}
	response.Created(c, created)
}

func (h *UploadHandler) saveFile(fileHeader *multipart.FileHeader, relPath string) error {
	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close() //nolint:errcheck
	_, err = h.storage.SaveStream(relPath, file)
	return err
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	cleaned := unsafeFilenameChars.ReplaceAllString(base, "_")
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return "fichier"
	}
	return cleaned
}

func resourceType(contentType string) string {
	if strings.HasPrefix(contentType, "image/") {
		return "image"
	}
	return "file"
}
