package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency answers.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	log      *slog.Logger
	checks   map[string]Pinger
	draining func() bool
}

// checks maps a dependency name (store, cache) to its ping. draining may be
// nil; once it reports true the instance stops advertising readiness.
// Ping errors go to log only; readyz answers with the failing names.
func NewHealthHandler(log *slog.Logger, checks map[string]Pinger, draining func() bool) *HealthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &HealthHandler{log: log, checks: checks, draining: draining}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(ctx *gin.Context) {
	if h.draining != nil && h.draining() {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	var failed []string
	for name, ping := range h.checks {
		if ping == nil {
			continue
		}
		if err := ping(cctx); err != nil {
			h.log.WarnContext(ctx.Request.Context(), "readiness check failed", "check", name, "err", err)
			failed = append(failed, name)
		}
	}

	if len(failed) > 0 {
		sort.Strings(failed)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": failed})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}
