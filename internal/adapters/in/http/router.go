package http

import (
	"fulfillment/api"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.uber.org/zap"
)

const serviceName = "fulfillment"

// NewRouter builds the echo instance with tracing, request logging, panic
// recovery, the /api/v1 routes, /health, /metrics and the swagger UI.
func NewRouter(server *Server, health *HealthChecker, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware(serviceName))
	e.Use(requestLogger(logger))

	e.GET("/health", health.Handle)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	RegisterRoutes(e.Group(api.BasePath), server)

	return e
}

func RegisterRoutes(g *echo.Group, s *Server) {
	g.PUT("/catalog/skus/:sku/collection", s.CategorizeSku)

	g.GET("/fingerprints/unmapped", s.GetUnmappedFingerprints)
	g.PUT("/fingerprints/packaging", s.BulkAssignPackaging)
	g.PUT("/fingerprints/:id/packaging", s.AssignPackaging)

	g.POST("/shipments/:id/hydrate", s.HydrateShipment)
	g.POST("/shipments/:id/fingerprint", s.CalculateFingerprint)
	g.GET("/shipments/:orderNumber/readiness", s.GetReadiness)

	g.POST("/sessions/build", s.BuildSessions)
	g.GET("/sessions/preview", s.PreviewSessions)
	g.PATCH("/sessions/status", s.BulkUpdateSessionStatus)
	g.PATCH("/sessions/:id/status", s.UpdateSessionStatus)
	g.DELETE("/sessions/:id", s.DeleteSession)

	g.POST("/maintenance/lifecycle/repair", s.RepairLifecycle)
	g.POST("/maintenance/fingerprints/recalculate", s.RecalculateFingerprints)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	logger = logger.With(zap.String("component", "http"))
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		Skipper: func(c echo.Context) bool {
			switch c.Path() {
			case "/health", "/metrics", "/swagger/*":
				return true
			}
			return false
		},
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.RequestID != "" {
				fields = append(fields, zap.String("request_id", v.RequestID))
			}
			if v.Error != nil {
				logger.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}
