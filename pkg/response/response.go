package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/web-academy/academy-api/pkg/errors"
)

// Paginated is the response shape used when a limit query parameter was
// supplied on a list endpoint.
type Paginated struct {
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
}

// JSON sends a plain success payload.
func JSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// List sends either a bare array or a {data,total} envelope. Clients detect
// the shape from whether they asked for pagination, so both forms are kept.
func List(c *gin.Context, items interface{}, total int, paginated bool) {
	if paginated {
		c.JSON(http.StatusOK, Paginated{Data: items, Total: total})
		return
	}
	c.JSON(http.StatusOK, items)
}

// Created responds with HTTP 201 Created and the created entity as body.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message sends a {"message": ...} body.
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// Error converts the error into its HTTP status and French message body.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.JSON(appErr.Status, gin.H{"message": appErr.Message})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
