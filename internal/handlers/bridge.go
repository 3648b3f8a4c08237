package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"serverless-bridge/internal/middleware"
	"serverless-bridge/pkg/bridge"
)

// BridgeHandler serves gin requests through a bridge.Bridge
type BridgeHandler struct {
	bridge *bridge.Bridge
}

// NewBridgeHandler creates a new bridge handler
func NewBridgeHandler(b *bridge.Bridge) *BridgeHandler {
	return &BridgeHandler{bridge: b}
}

// Serve hands the exchange to the bridge. The bridge writes no response of
// its own on failure, so one is written here unless the sink already went out.
func (h *BridgeHandler) Serve(c *gin.Context) {
	sink, err := h.bridge.ServeHTTPRequest(c.Writer, c.Request)
	if err == nil {
		return
	}

	_ = c.Error(err)
	logrus.WithFields(logrus.Fields{
		"request_id": c.GetString(middleware.RequestIDKey),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"error":      err.Error(),
		"stage":      stage(err),
	}).Error("Bridge request failed")

	if sink.Finalized() {
		return
	}

	status := http.StatusBadGateway
	if bridge.IsConstructionError(err) {
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, middleware.NewErrorResponse(c,
		http.StatusText(status),
		"The request could not be bridged to the application",
	))
}

func stage(err error) string {
	switch {
	case bridge.IsConstructionError(err):
		return bridge.OpConstruct
	case bridge.IsHandlerError(err):
		return bridge.OpHandle
	case bridge.IsProjectionError(err):
		return bridge.OpProject
	default:
		return "unknown"
	}
}
