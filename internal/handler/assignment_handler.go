package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/web-academy/academy-api/internal/models"
	"github.com/web-academy/academy-api/internal/service"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
	"github.com/web-academy/academy-api/pkg/response"
)

// AssignmentHandler exposes instructor assignment administration.
type AssignmentHandler struct {
	service *service.AssignmentService
}

// NewAssignmentHandler creates a new assignment handler.
func NewAssignmentHandler(svc *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// List godoc
// @Summary List instructor assignments
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param institute query string false "Institute"
// @Param semester query string false "Semester"
// @Param academic_year query int false "Academic year"
// @Param user_id query string false "Instructor ID"
// @Success 200 {object} response.Paginated
// @Router /admin/assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	filter := models.AssignmentFilter{
		Institute:    c.Query("institute"),
		Semester:     c.Query("semester"),
		AcademicYear: intQuery(c, "academic_year"),
		UserID:       c.Query("user_id"),
		Page:         pageFromQuery(c),
	}
	assignments, total, err := h.service.List(c.Request.Context(), userFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, assignments, total, filter.Page.Paginated())
}

// Get godoc
// @Summary Assignment detail
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Success 200 {object} models.InstructorAssignment
// @Failure 404 {object} map[string]string
// @Router /admin/assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	assignment, err := h.service.Get(c.Request.Context(), userFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment)
}

// Create godoc
// @Summary Assign an instructor to a course
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} models.InstructorAssignment
// @Failure 400 {object} map[string]string
// @Router /admin/assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req models.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}
	assignment, err := h.service.Create(c.Request.Context(), userFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Update godoc
// @Summary Update an instructor assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Param payload body models.UpdateAssignmentRequest true "Assignment patch"
// @Success 200 {object} models.InstructorAssignment
// @Router /admin/assignments/{id} [put]
func (h *AssignmentHandler) Update(c *gin.Context) {
	var req models.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}
	assignment, err := h.service.Update(c.Request.Context(), userFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment)
}

// Delete godoc
// @Summary Delete an instructor assignment
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Success 204 {string} string ""
// @Router /admin/assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), userFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
