package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jan-server/services/model-browser/internal/interfaces/httpserver/middlewares"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// BadRequest aborts with 400 and the binding error.
func BadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:     err.Error(),
		RequestID: middlewares.RequestIDFromContext(c),
	})
}

// NotFound aborts with 404.
func NotFound(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{
		Error:     message,
		RequestID: middlewares.RequestIDFromContext(c),
	})
}

// InternalError aborts with 500 without leaking err to the client.
func InternalError(c *gin.Context, err error, message string) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:     message,
		RequestID: middlewares.RequestIDFromContext(c),
	})
}
