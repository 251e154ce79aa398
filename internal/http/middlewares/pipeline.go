package middlewares

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// Stage is one named step of the request pipeline.
type Stage struct {
	Name    string
	Handler gin.HandlerFunc
}

// Pipeline returns the stages every request passes through, outermost first:
// error boundary, the ambient stages in the given order, token auth, access log.
// Only the error boundary sits outside ambient, so a panic in any of them
// still ends as the generic 500.
func Pipeline(log *slog.Logger, secret string, ambient ...Stage) []Stage {
	stages := make([]Stage, 0, len(ambient)+3)
	stages = append(stages, Stage{Name: "error_boundary", Handler: ErrorBoundary(log)})
	stages = append(stages, ambient...)
	return append(stages,
		Stage{Name: "auth", Handler: NewTokenAuth(secret, log).RequireToken()},
		Stage{Name: "access_log", Handler: AccessLog(log)},
	)
}

func Handlers(stages []Stage) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(stages))
	for _, s := range stages {
		out = append(out, s.Handler)
	}
	return out
}
