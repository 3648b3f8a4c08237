package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"serverless-bridge/internal/handlers"
	"serverless-bridge/internal/middleware"
)

// NewEngine builds the HTTP inbound transport: middleware, the hello and
// health endpoints, metrics, and the bridged application under its mount path
func NewEngine(c *Container, reg *prometheus.Registry) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger())
	router.Use(middleware.NewMetrics(reg).Handler())
	router.Use(middleware.RateLimiter(c.Config.RateLimit.RequestsPerSecond, c.Config.RateLimit.Burst))

	handlers.SetupRoutes(router, &handlers.RouterConfig{
		Bridge:    c.Bridge,
		MountPath: c.Config.Bridge.MountPath,
		Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	return router
}
