package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is a readiness dependency.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	checks       map[string]Pinger
	shuttingDown func() bool
}

// create a new instance of the health handler
func NewHealthHandler(checks map[string]Pinger, shuttingDown func() bool) *HealthHandler {
	if shuttingDown == nil {
		shuttingDown = func() bool { return false }
	}
	return &HealthHandler{checks: checks, shuttingDown: shuttingDown}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(ctx *gin.Context) {
	if h.shuttingDown() {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), time.Second)
	defer cancel()

	failed := gin.H{}
	for name, ping := range h.checks {
		if ping == nil {
			continue
		}
		if err := ping(cctx); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "failed": failed})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}
