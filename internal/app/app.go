// Package app is the message-style application served through the bridge.
// It is an ordinary gin router whose requests arrive as immutable message
// values, so it never sees the inbound transport directly.
package app

import (
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"serverless-bridge/pkg/message"
)

// NewRouter builds the application routes under mountPath.
func NewRouter(mountPath string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	base := router.Group(strings.TrimSuffix(mountPath, "/"))
	{
		base.GET("/", greet)
		base.POST("/echo", echo)
		base.GET("/headers", listHeaders)
		base.GET("/url", requestURL)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return router
}

// NewHandler returns the application as a message.Handler.
func NewHandler(mountPath string) message.Handler {
	return message.FromHTTPHandler(NewRouter(mountPath))
}

func greet(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello from the bridged app!"})
}

// echo answers with the request body and content type unchanged.
func echo(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	contentType := c.GetHeader("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, body)
}

type headerEntry struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

func listHeaders(c *gin.Context) {
	names := make([]string, 0, len(c.Request.Header))
	for name := range c.Request.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]headerEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, headerEntry{Name: name, Values: c.Request.Header[name]})
	}
	c.JSON(http.StatusOK, gin.H{"host": c.Request.Host, "headers": entries})
}

// requestURL reports the absolute URL the request was addressed to.
func requestURL(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"method": c.Request.Method,
		"url":    c.Request.URL.String(),
	})
}
