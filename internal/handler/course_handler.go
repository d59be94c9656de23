package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/web-academy/academy-api/internal/models"
	"github.com/web-academy/academy-api/internal/service"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
	"github.com/web-academy/academy-api/pkg/response"
)

// CourseHandler exposes the course catalogue.
type CourseHandler struct {
	service *service.CourseService
}

// NewCourseHandler creates a new course handler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param filiere query string false "Filiere filter"
// @Param niveau query string false "Niveau filter"
// @Param institute query string false "Institute filter"
// @Param semester query string false "Semester filter"
// @Param academic_year query int false "Academic year filter"
// @Param search query string false "Search term"
// @Param limit query int false "Page size (1-100), omit for the full list"
// @Param page query int false "Page number"
// @Success 200 {object} response.Paginated
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	filter := models.CourseFilter{
		Filiere:      c.Query("filiere"),
		Niveau:       c.Query("niveau"),
		Institute:    c.Query("institute"),
		Semester:     c.Query("semester"),
		AcademicYear: intQuery(c, "academic_year"),
		Status:       c.Query("status"),
		Search:       c.Query("search"),
		Page:         pageFromQuery(c),
	}

	courses, total, err := h.service.List(c.Request.Context(), userFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, courses, total, filter.Page.Paginated())
}

// Mine godoc
// @Summary Courses created by or assigned to the caller
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search in title, category and description"
// @Success 200 {array} models.Course
// @Router /courses/mine [get]
func (h *CourseHandler) Mine(c *gin.Context) {
	courses, err := h.service.Mine(c.Request.Context(), userFromContext(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}

// Get godoc
// @Summary Course detail with resources
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} models.Course
// @Failure 404 {object} map[string]string
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.service.Get(c.Request.Context(), userFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateCourseRequest true "Course payload"
// @Success 201 {object} models.Course
// @Failure 400 {object} map[string]string
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req models.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}

	course, err := h.service.Create(c.Request.Context(), userFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Update course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param payload body models.UpdateCourseRequest true "Course patch"
// @Success 200 {object} models.Course
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	var req models.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}

	course, err := h.service.Update(c.Request.Context(), userFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// Delete godoc
// @Summary Delete course
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 204 {string} string ""
// @Failure 403 {object} map[string]string
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), userFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteResource godoc
// @Summary Remove an uploaded resource from a course
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param resourceId path string true "Resource ID"
// @Success 204 {string} string ""
// @Failure 404 {object} map[string]string
// @Router /courses/{id}/resources/{resourceId} [delete]
func (h *CourseHandler) DeleteResource(c *gin.Context) {
	if err := h.service.DeleteResource(c.Request.Context(), userFromContext(c), c.Param("id"), c.Param("resourceId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
