package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"serverless-bridge/pkg/bridge"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	Bridge    *bridge.Bridge
	MountPath string
	Metrics   http.Handler
}

// SetupRoutes configures all routes
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	bridgeHandler := NewBridgeHandler(config.Bridge)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "serverless-bridge",
			"timestamp": time.Now().UTC(),
		})
	})

	if config.Metrics != nil {
		router.GET("/metrics", gin.WrapH(config.Metrics))
	}

	router.GET("/hello", Hello)

	// Everything under the mount path belongs to the bridged application. A
	// root mount cannot share the tree with a catch-all, so it takes every
	// unmatched route instead.
	mount := strings.TrimSuffix(config.MountPath, "/")
	if mount == "" {
		router.NoRoute(bridgeHandler.Serve)
		return
	}
	router.Any(mount, bridgeHandler.Serve)
	router.Any(mount+"/*path", bridgeHandler.Serve)
}
