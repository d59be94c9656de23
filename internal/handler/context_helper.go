package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/web-academy/academy-api/internal/middleware"
	"github.com/web-academy/academy-api/internal/models"
)

func userFromContext(c *gin.Context) *models.User {
	return middleware.CurrentUser(c)
}

// pageFromQuery parses limit/page. An absent or invalid limit disables
// pagination, which makes the endpoint answer with a bare array.
func pageFromQuery(c *gin.Context) models.PageQuery {
	limitRaw := c.Query("limit")
	if limitRaw == "" {
		return models.PageQuery{}
	}
	limit, err := strconv.Atoi(limitRaw)
	if err != nil || limit <= 0 {
		return models.PageQuery{}
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	return models.NewPageQuery(limit, page)
}

func intQuery(c *gin.Context, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}
