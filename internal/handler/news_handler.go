package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/web-academy/academy-api/internal/models"
	"github.com/web-academy/academy-api/internal/service"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
	"github.com/web-academy/academy-api/pkg/response"
)

// NewsHandler exposes announcements.
type NewsHandler struct {
	service *service.NewsService
}

// NewNewsHandler creates a new news handler.
func NewNewsHandler(svc *service.NewsService) *NewsHandler {
	return &NewsHandler{service: svc}
}

// List godoc
// @Summary List news
// @Tags News
// @Produce json
// @Param institute query string false "Institute filter"
// @Param limit query int false "Page size (1-100), omit for the full list"
// @Param page query int false "Page number"
// @Success 200 {object} response.Paginated
// @Router /news [get]
func (h *NewsHandler) List(c *gin.Context) {
	filter := models.NewsFilter{
		Institute: c.Query("institute"),
		Status:    c.Query("status"),
		Page:      pageFromQuery(c),
	}
	items, total, err := h.service.List(c.Request.Context(), userFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, items, total, filter.Page.Paginated())
}

// Get godoc
// @Summary News detail
// @Tags News
// @Produce json
// @Param id path string true "News ID"
// @Success 200 {object} models.News
// @Failure 404 {object} map[string]string
// @Router /news/{id} [get]
func (h *NewsHandler) Get(c *gin.Context) {
	news, err := h.service.Get(c.Request.Context(), userFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, news)
}

// Create godoc
// @Summary Create news
// @Tags News
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateNewsRequest true "News payload"
// @Success 201 {object} models.News
// @Router /news [post]
func (h *NewsHandler) Create(c *gin.Context) {
	var req models.CreateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}
	news, err := h.service.Create(c.Request.Context(), userFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, news)
}

// Update godoc
// @Summary Update news
// @Tags News
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "News ID"
// @Param payload body models.UpdateNewsRequest true "News patch"
// @Success 200 {object} models.News
// @Router /news/{id} [put]
func (h *NewsHandler) Update(c *gin.Context) {
	var req models.UpdateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}
	news, err := h.service.Update(c.Request.Context(), userFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, news)
}

// Delete godoc
// @Summary Delete news
// @Tags News
// @Produce json
// @Security BearerAuth
// @Param id path string true "News ID"
// @Success 204 {string} string ""
// @Router /news/{id} [delete]
func (h *NewsHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), userFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
