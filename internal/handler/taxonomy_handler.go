package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/web-academy/academy-api/internal/models"
	"github.com/web-academy/academy-api/internal/service"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
	"github.com/web-academy/academy-api/pkg/response"
)

// CategoryHandler exposes the admin category taxonomy.
type CategoryHandler struct {
	service *service.CategoryService
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: svc}
}

// List godoc
// @Summary List categories
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Paginated
// @Router /admin/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	filter := models.CategoryFilter{
		Search: c.Query("search"),
		Page:   pageFromQuery(c),
	}
	categories, total, err := h.service.List(c.Request.Context(), userFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, categories, total, filter.Page.Paginated())
}

// Get godoc
// @Summary Category detail
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} models.Category
// @Failure 404 {object} map[string]string
// @Router /admin/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.service.Get(c.Request.Context(), userFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, category)
}

// Create godoc
// @Summary Create category
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateCategoryRequest true "Category payload"
// @Success 201 {object} models.Category
// @Failure 400 {object} map[string]string
// @Router /admin/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}
	category, err := h.service.Create(c.Request.Context(), userFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, category)
}

// Update godoc
// @Summary Update category
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param payload body models.UpdateCategoryRequest true "Category patch"
// @Success 200 {object} models.Category
// @Router /admin/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}
	category, err := h.service.Update(c.Request.Context(), userFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, category)
}

// Delete godoc
// @Summary Delete category
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 204 {string} string ""
// @Router /admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), userFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// FiliereHandler exposes academic tracks: public reads, admin writes.
type FiliereHandler struct {
	service *service.FiliereService
}

// NewFiliereHandler creates a new filiere handler.
func NewFiliereHandler(svc *service.FiliereService) *FiliereHandler {
	return &FiliereHandler{service: svc}
}

// ListPublic godoc
// @Summary List filieres
// @Tags Filieres
// @Produce json
// @Param institute query string false "Institute filter"
// @Success 200 {array} models.Filiere
// @Router /filieres [get]
func (h *FiliereHandler) ListPublic(c *gin.Context) {
	filter := models.FiliereFilter{
		Institute: c.Query("institute"),
		Search:    c.Query("search"),
		Page:      pageFromQuery(c),
	}
	filieres, total, err := h.service.List(c.Request.Context(), nil, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, filieres, total, filter.Page.Paginated())
}

// List godoc
// @Summary List filieres in the admin's reach
// @Tags Filieres
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Paginated
// @Router /admin/filieres [get]
func (h *FiliereHandler) List(c *gin.Context) {
	filter := models.FiliereFilter{
		Institute: c.Query("institute"),
		Search:    c.Query("search"),
		Page:      pageFromQuery(c),
	}
	filieres, total, err := h.service.List(c.Request.Context(), userFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, filieres, total, filter.Page.Paginated())
}

// Get godoc
// @Summary Filiere detail
// @Tags Filieres
// @Produce json
// @Security BearerAuth
// @Param id path string true "Filiere ID"
// @Success 200 {object} models.Filiere
// @Failure 404 {object} map[string]string
// @Router /admin/filieres/{id} [get]
func (h *FiliereHandler) Get(c *gin.Context) {
	filiere, err := h.service.Get(c.Request.Context(), userFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, filiere)
}

// Create godoc
// @Summary Create filiere
// @Tags Filieres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateFiliereRequest true "Filiere payload"
// @Success 201 {object} models.Filiere
// @Failure 400 {object} map[string]string
// @Router /admin/filieres [post]
func (h *FiliereHandler) Create(c *gin.Context) {
	var req models.CreateFiliereRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}
	filiere, err := h.service.Create(c.Request.Context(), userFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, filiere)
}

// Update godoc
// @Summary Update filiere
// @Tags Filieres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Filiere ID"
// @Param payload body models.UpdateFiliereRequest true "Filiere patch"
// @Success 200 {object} models.Filiere
// @Router /admin/filieres/{id} [put]
func (h *FiliereHandler) Update(c *gin.Context) {
	var req models.UpdateFiliereRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}
	filiere, err := h.service.Update(c.Request.Context(), userFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, filiere)
}

// Delete godoc
// @Summary Delete filiere
// @Tags Filieres
// @Produce json
// @Security BearerAuth
// @Param id path string true "Filiere ID"
// @Success 204 {string} string ""
// @Router /admin/filieres/{id} [delete]
func (h *FiliereHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), userFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
