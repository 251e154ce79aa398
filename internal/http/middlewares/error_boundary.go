package middlewares

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "Internal server error."

// ErrorBoundary turns panics and errors pushed with ctx.Error into a generic
// 500. The detail only goes to the log.
func ErrorBoundary(log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.ErrorContext(c.Request.Context(), "An unhandled exception occurred",
					"err", fmt.Sprint(rec),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)
				writeInternal(c)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		log.ErrorContext(c.Request.Context(), "An unhandled exception occurred",
			"err", c.Errors.Last().Err,
			"errors", c.Errors.String(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		if c.Writer.Written() {
			return
		}

		writeInternal(c)
	}
}

func writeInternal(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
}
