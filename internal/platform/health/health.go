package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is a dependency that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the liveness and readiness probes.
type Handler struct {
	pinger  Pinger
	service string
}

// NewHandler creates a health handler. A nil pinger is always ready.
func NewHandler(pinger Pinger, service string) *Handler {
	return &Handler{pinger: pinger, service: service}
}

// RegisterRoutes mounts GET /, /health and /ready.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Root)
	r.GET("/health", h.Live)
	r.GET("/ready", h.Ready)
}

// Root answers the plain-text banner.
func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Hello World!")
}

// Live always answers ok while the process is serving.
func (h *Handler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.service})
}

// Ready pings the store and answers 503 when it is unreachable.
func (h *Handler) Ready(c *gin.Context) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unavailable",
				"service": h.service,
				"error":   err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "service": h.service})
}
