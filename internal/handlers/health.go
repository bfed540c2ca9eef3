package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/carparks/internal/logger"
	"github.com/stwalsh4118/carparks/internal/middleware"
)

const (
	// APIVersion is reported by GET /api/v1/info.
	APIVersion = "0.1.0"
	// HealthCheckTimeout bounds a single record store ping.
	HealthCheckTimeout = 2 * time.Second
)

var errNoStore = errors.New("no record store configured")

// Pinger is a store that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness, readiness and build information.
type HealthHandler struct {
	store     Pinger
	driver    string
	env       string
	startTime time.Time
}

func NewHealthHandler(store Pinger, driver, env string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		driver:    driver,
		env:       env,
		startTime: time.Now(),
	}
}

type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse reports whether the record store answered, and how fast.
type ReadyResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Driver   string `json:"driver"`
	Latency  string `json:"latency,omitempty"`
}

type InfoResponse struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Store       string `json:"store"`
	Uptime      string `json:"uptime"`
}

// Health is the liveness probe; it never touches the store.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy"})
}

// Ready answers 200 when the record store responds to a ping within
// HealthCheckTimeout and 503 otherwise.
func (h *HealthHandler) Ready(c *gin.Context) {
	latency, err := h.ping(c.Request.Context())
	if err != nil {
		if log := middleware.GetLogger(c); log != nil {
			log.Warn("Record store ping failed", logger.Fields{
				"driver": h.driver,
				"error":  err.Error(),
			})
		}
		c.JSON(http.StatusServiceUnavailable, ReadyResponse{
			Status:   "not_ready",
			Database: "disconnected",
			Driver:   h.driver,
		})
		return
	}

	c.JSON(http.StatusOK, ReadyResponse{
		Status:   "ready",
		Database: "connected",
		Driver:   h.driver,
		Latency:  latency.String(),
	})
}

func (h *HealthHandler) ping(ctx context.Context) (time.Duration, error) {
	if h.store == nil {
		return 0, errNoStore
	}

	ctx, cancel := context.WithTimeout(ctx, HealthCheckTimeout)
	defer cancel()

	start := time.Now()
	if err := h.store.Ping(ctx); err != nil {
		return 0, err
	}
	return time.Since(start).Round(time.Microsecond), nil
}

// Info handles GET /api/v1/info.
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, InfoResponse{
		Version:     APIVersion,
		Environment: h.env,
		Store:       h.driver,
		Uptime:      formatUptime(time.Since(h.startTime)),
	})
}

// formatUptime renders d as "1d 2h 3m 4s", dropping the day part below 24h.
func formatUptime(d time.Duration) string {
	d = d.Truncate(time.Second)
	const day = 24 * time.Hour

	days := d / day
	d -= days * day
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	seconds := (d - minutes*time.Minute) / time.Second

	clock := fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	if days > 0 {
		return fmt.Sprintf("%dd %s", days, clock)
	}
	return clock
}
