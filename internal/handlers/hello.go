package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"serverless-bridge/internal/middleware"
)

// HelloMessage is the plain-text answer of the hello endpoint
const HelloMessage = "Hello from serverless-bridge!"

// Hello is a callback-style endpoint served without the bridge
func Hello(c *gin.Context) {
	logrus.WithFields(logrus.Fields{
		"request_id":      c.GetString(middleware.RequestIDKey),
		"structured_data": true,
	}).Info("Hello logs!")

	c.String(http.StatusOK, HelloMessage)
}
