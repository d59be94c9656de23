package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/web-academy/academy-api/internal/models"
	"github.com/web-academy/academy-api/internal/service"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
	"github.com/web-academy/academy-api/pkg/response"
)

// GuideHandler exposes help pages.
type GuideHandler struct {
	service *service.GuideService
}

// NewGuideHandler creates a new guide handler.
func NewGuideHandler(svc *service.GuideService) *GuideHandler {
	return &GuideHandler{service: svc}
}

// List godoc
// @Summary List guides
// @Tags Guides
// @Produce json
// @Success 200 {object} response.Paginated
// @Router /guides [get]
func (h *GuideHandler) List(c *gin.Context) {
	filter := models.GuideFilter{
		Status: c.Query("status"),
		Page:   pageFromQuery(c),
	}
	guides, total, err := h.service.List(c.Request.Context(), userFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, guides, total, filter.Page.Paginated())
}

// Get godoc
// @Summary Guide detail
// @Tags Guides
// @Produce json
// @Param id path string true "Guide ID"
// @Success 200 {object} models.Guide
// @Failure 404 {object} map[string]string
// @Router /guides/{id} [get]
func (h *GuideHandler) Get(c *gin.Context) {
	guide, err := h.service.Get(c.Request.Context(), userFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guide)
}

// Create godoc
// @Summary Create guide
// @Tags Guides
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateGuideRequest true "Guide payload"
// @Success 201 {object} models.Guide
// @Router /guides [post]
func (h *GuideHandler) Create(c *gin.Context) {
	var req models.CreateGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}
	guide, err := h.service.Create(c.Request.Context(), userFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, guide)
}

// Update godoc
// @Summary Update guide
// @Tags Guides
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Guide ID"
// @Param payload body models.UpdateGuideRequest true "Guide patch"
// @Success 200 {object} models.Guide
// @Router /guides/{id} [put]
func (h *GuideHandler) Update(c *gin.Context) {
	var req models.UpdateGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}
	guide, err := h.service.Update(c.Request.Context(), userFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guide)
}

// Delete godoc
// @Summary Delete guide
// @Tags Guides
// @Produce json
// @Security BearerAuth
// @Param id path string true "Guide ID"
// @Success 204 {string} string ""
// @Router /guides/{id} [delete]
func (h *GuideHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), userFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
