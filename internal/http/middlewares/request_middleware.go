package middlewares

import (
	"log/slog"
	"time"

	"github.com/geocoder89/techhive/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		// keep a caller supplied id so logs line up across services
		id := ctx.GetHeader(requestIDHeader)

		if id == "" {
			id = uuid.NewString()
		}

		ctx.Writer.Header().Set(requestIDHeader, id)

		ctx.Set(CtxRequestID, id)
		// slog picks it up from the request context
		ctx.Request = ctx.Request.WithContext(observability.WithRequestID(ctx.Request.Context(), id))

		ctx.Next()
	}
}

// AccessLog writes one line before the request runs and one after. It never
// touches the response. Run it behind RequestID so both lines carry the id.
func AccessLog(log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx *gin.Context) {
		start := time.Now()
		method := ctx.Request.Method
		path := ctx.Request.URL.Path

		log.InfoContext(ctx.Request.Context(), "incoming_request",
			"method", method,
			"path", path,
			"request_time", start.UTC(),
		)

		ctx.Next()

		// request_id comes from the context handler
		log.InfoContext(ctx.Request.Context(), "outgoing_response",
			"method", method,
			"path", path,
			"status", ctx.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
