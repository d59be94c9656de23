package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/web-academy/academy-api/internal/models"
	"github.com/web-academy/academy-api/internal/service"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
	"github.com/web-academy/academy-api/pkg/response"
)

// DiscussionHandler exposes the community forum.
type DiscussionHandler struct {
	service *service.DiscussionService
}

// NewDiscussionHandler creates a new discussion handler.
func NewDiscussionHandler(svc *service.DiscussionService) *DiscussionHandler {
	return &DiscussionHandler{service: svc}
}

// List godoc
// @Summary List discussions
// @Tags Discussions
// @Produce json
// @Param course_id query string false "Course ID"
// @Param search query string false "Search term"
// @Success 200 {object} response.Paginated
// @Router /discussions [get]
func (h *DiscussionHandler) List(c *gin.Context) {
	filter := models.DiscussionFilter{
		CourseID: c.Query("course_id"),
		Search:   c.Query("search"),
		Page:     pageFromQuery(c),
	}
	discussions, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, discussions, total, filter.Page.Paginated())
}

// Get godoc
// @Summary Discussion detail with replies
// @Tags Discussions
// @Produce json
// @Param id path string true "Discussion ID"
// @Success 200 {object} models.Discussion
// @Failure 404 {object} map[string]string
// @Router /discussions/{id} [get]
func (h *DiscussionHandler) Get(c *gin.Context) {
	discussion, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, discussion)
}

// Create godoc
// @Summary Open a discussion
// @Tags Discussions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateDiscussionRequest true "Discussion payload"
// @Success 201 {object} models.Discussion
// @Router /discussions [post]
func (h *DiscussionHandler) Create(c *gin.Context) {
	var req models.CreateDiscussionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}
	discussion, err := h.service.Create(c.Request.Context(), userFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, discussion)
}

// Update godoc
// @Summary Update a discussion
// @Tags Discussions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Discussion ID"
// @Param payload body models.UpdateDiscussionRequest true "Discussion patch"
// @Success 200 {object} models.Discussion
// @Router /discussions/{id} [put]
func (h *DiscussionHandler) Update(c *gin.Context) {
	var req models.UpdateDiscussionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}
	discussion, err := h.service.Update(c.Request.Context(), userFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, discussion)
}

// Delete godoc
// @Summary Delete a discussion and its replies
// @Tags Discussions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Discussion ID"
// @Success 204 {string} string ""
// @Router /discussions/{id} [delete]
func (h *DiscussionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), userFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Reply godoc
// @Summary Reply to a discussion
// @Tags Discussions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Discussion ID"
// @Param payload body models.CreateReplyRequest true "Reply payload"
// @Success 201 {object} models.DiscussionReply
// @Router /discussions/{id}/replies [post]
func (h *DiscussionHandler) Reply(c *gin.Context) {
	var req models.CreateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, ""))
		return
	}
	reply, err := h.service.Reply(c.Request.Context(), userFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, reply)
}

// DeleteReply godoc
// @Summary Delete a reply
// @Tags Discussions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Discussion ID"
// @Param replyId path string true "Reply ID"
// @Success 204 {string} string ""
// @Router /discussions/{id}/replies/{replyId} [delete]
func (h *DiscussionHandler) DeleteReply(c *gin.Context) {
	if err := h.service.DeleteReply(c.Request.Context(), userFromContext(c), c.Param("id"), c.Param("replyId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
