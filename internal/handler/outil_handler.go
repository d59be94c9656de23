package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/web-academy/academy-api/internal/models"
	"github.com/web-academy/academy-api/internal/service"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
	"github.com/web-academy/academy-api/pkg/response"
)

// OutilHandler exposes the shared tool directory.
type OutilHandler struct {
	service *service.OutilService
}

// NewOutilHandler creates a new outil handler.
func NewOutilHandler(svc *service.OutilService) *OutilHandler {
	return &OutilHandler{service: svc}
}

// List godoc
// @Summary List tools
// @Tags Outils
// @Produce json
// @Success 200 {object} response.Paginated
// @Router /outils [get]
func (h *OutilHandler) List(c *gin.Context) {
	filter := models.OutilFilter{
		Page: pageFromQuery(c),
	}
	outils, total, err := h.service.List(c.Request.Context(), userFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, outils, total, filter.Page.Paginated())
}

// Get godoc
// @Summary Tool detail
// @Tags Outils
// @Produce json
// @Param id path string true "Tool ID"
// @Success 200 {object} models.Outil
// @Failure 404 {object} map[string]string
// @Router /outils/{id} [get]
func (h *OutilHandler) Get(c *gin.Context) {
	outil, err := h.service.Get(c.Request.Context(), userFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outil)
}

// Create godoc
// @Summary Create tool
// @Tags Outils
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateOutilRequest true "Tool payload"
// @Success 201 {object} models.Outil
// @Router /outils [post]
func (h *OutilHandler) Create(c *gin.Context) {
	var req models.CreateOutilRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}
	outil, err := h.service.Create(c.Request.Context(), userFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, outil)
}

// Update godoc
// @Summary Update tool
// @Tags Outils
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tool ID"
// @Param payload body models.UpdateOutilRequest true "Tool patch"
// @Success 200 {object} models.Outil
// @Router /outils/{id} [put]
func (h *OutilHandler) Update(c *gin.Context) {
	var req models.UpdateOutilRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}
	outil, err := h.service.Update(c.Request.Context(), userFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outil)
}

// Delete godoc
// @Summary Delete tool
// @Tags Outils
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tool ID"
// @Success 204 {string} string ""
// @Router /outils/{id} [delete]
func (h *OutilHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), userFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
