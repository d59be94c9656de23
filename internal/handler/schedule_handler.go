package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/web-academy/academy-api/internal/models"
	"github.com/web-academy/academy-api/internal/service"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
	"github.com/web-academy/academy-api/pkg/response"
)

// TimetableHandler exposes weekly timetable slots.
type TimetableHandler struct {
	service *service.TimetableService
}

// NewTimetableHandler creates a new timetable handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// List godoc
// @Summary List timetable slots
// @Tags Timetables
// @Produce json
// @Param filiere query string false "Filiere"
// @Param niveau query string false "Niveau"
// @Param day_of_week query string false "Day of week"
// @Param semester query string false "Semester"
// @Param academic_year query int false "Academic year"
// @Success 200 {object} response.Paginated
// @Router /timetables [get]
func (h *TimetableHandler) List(c *gin.Context) {
	filter := models.TimetableFilter{
		Institute:    c.Query("institute"),
		Filiere:      c.Query("filiere"),
		Niveau:       c.Query("niveau"),
		DayOfWeek:    c.Query("day_of_week"),
		Semester:     c.Query("semester"),
		AcademicYear: intQuery(c, "academic_year"),
		Page:         pageFromQuery(c),
	}
	slots, total, err := h.service.List(c.Request.Context(), userFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, slots, total, filter.Page.Paginated())
}

// Get godoc
// @Summary Get a timetable slot
// @Tags Timetables
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} models.Timetable
// @Failure 404 {object} map[string]string
// @Router /timetables/{id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	slot, err := h.service.Get(c.Request.Context(), userFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot)
}

// Create godoc
// @Summary Create timetable slot
// @Tags Timetables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateTimetableRequest true "Slot payload"
// @Success 201 {object} models.Timetable
// @Router /timetables [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	var req models.CreateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}
	slot, err := h.service.Create(c.Request.Context(), userFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// Update godoc
// @Summary Update timetable slot
// @Tags Timetables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Param payload body models.UpdateTimetableRequest true "Slot patch"
// @Success 200 {object} models.Timetable
// @Router /timetables/{id} [put]
func (h *TimetableHandler) Update(c *gin.Context) {
	var req models.UpdateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}
	slot, err := h.service.Update(c.Request.Context(), userFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot)
}

// Delete godoc
// @Summary Delete timetable slot
// @Tags Timetables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 204 {string} string ""
// @Router /timetables/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), userFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// EvaluationHandler exposes the evaluation calendar.
type EvaluationHandler struct {
	service *service.EvaluationService
}

// NewEvaluationHandler creates a new evaluation calendar handler.
func NewEvaluationHandler(svc *service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{service: svc}
}

// List godoc
// @Summary List scheduled evaluations
// @Tags Evaluations
// @Produce json
// @Param filiere query string false "Filiere"
// @Param niveau query string false "Niveau"
// @Param course_id query string false "Course ID"
// @Param semester query string false "Semester"
// @Param academic_year query int false "Academic year"
// @Success 200 {object} response.Paginated
// @Router /evaluation-calendars [get]
func (h *EvaluationHandler) List(c *gin.Context) {
	filter := models.EvaluationCalendarFilter{
		Institute:    c.Query("institute"),
		Filiere:      c.Query("filiere"),
		Niveau:       c.Query("niveau"),
		CourseID:     c.Query("course_id"),
		Semester:     c.Query("semester"),
		AcademicYear: intQuery(c, "academic_year"),
		Page:         pageFromQuery(c),
	}
	evaluations, total, err := h.service.List(c.Request.Context(), userFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, evaluations, total, filter.Page.Paginated())
}

// Get godoc
// @Summary Get a scheduled evaluation
// @Tags Evaluations
// @Produce json
// @Param id path string true "Evaluation ID"
// @Success 200 {object} models.EvaluationCalendar
// @Failure 404 {object} map[string]string
// @Router /evaluation-calendars/{id} [get]
func (h *EvaluationHandler) Get(c *gin.Context) {
	evaluation, err := h.service.Get(c.Request.Context(), userFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, evaluation)
}

// Create godoc
// @Summary Schedule an evaluation
// @Tags Evaluations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateEvaluationCalendarRequest true "Evaluation payload"
// @Success 201 {object} models.EvaluationCalendar
// @Router /evaluation-calendars [post]
func (h *EvaluationHandler) Create(c *gin.Context) {
	var req models.CreateEvaluationCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}
	evaluation, err := h.service.Create(c.Request.Context(), userFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, evaluation)
}

// Update godoc
// @Summary Update a scheduled evaluation
// @Tags Evaluations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Evaluation ID"
// @Param payload body models.UpdateEvaluationCalendarRequest true "Evaluation patch"
// @Success 200 {object} models.EvaluationCalendar
// @Router /evaluation-calendars/{id} [put]
func (h *EvaluationHandler) Update(c *gin.Context) {
	var req models.UpdateEvaluationCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}
	evaluation, err := h.service.Update(c.Request.Context(), userFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, evaluation)
}

// Delete godoc
// @Summary Delete a scheduled evaluation
// @Tags Evaluations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Evaluation ID"
// @Success 204 {string} string ""
// @Router /evaluation-calendars/{id} [delete]
func (h *EvaluationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), userFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
