package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthChecker answers GET /health by pinging every registered dependency.
type HealthChecker struct {
	checks  map[string]Pinger
	timeout time.Duration
}

func NewHealthChecker(checks map[string]Pinger) *HealthChecker {
	return &HealthChecker{checks: checks, timeout: 2 * time.Second}
}

func (h *HealthChecker) Handle(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	response := HealthResponse{
		Status:     statusHealthy,
		Checks:     make(map[string]string, len(h.checks)),
		ReportedAt: time.Now().UTC(),
	}
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			response.Status = statusUnhealthy
			response.Checks[name] = err.Error()
			continue
		}
		response.Checks[name] = statusHealthy
	}

	if response.Status != statusHealthy {
		return c.JSON(http.StatusServiceUnavailable, response)
	}
	return c.JSON(http.StatusOK, response)
}
