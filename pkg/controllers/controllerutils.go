package controllers

import (
	"context"
	"time"

	"propt-api-io/api/internal/common"

	"github.com/gin-gonic/gin"
)

// RequestTimeout bounds every handler's work. The container overrides it from config.
var RequestTimeout = common.REQUEST_TIMEOUT_SECS

// WithTimeout derives the handler context from the request so a client
// disconnect cancels in-flight work.
func WithTimeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), RequestTimeout)
}

// SetRequestTimeout replaces the handler deadline; non-positive values are ignored.
func SetRequestTimeout(d time.Duration) {
	if d > 0 {
		RequestTimeout = d
	}
}
