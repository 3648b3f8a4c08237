package server

import (
	"fmt"

	"serverless-bridge/internal/app"
	"serverless-bridge/internal/config"
	"serverless-bridge/pkg/bridge"
	"serverless-bridge/pkg/message"
)

// Container holds all application dependencies. Everything in it is built
// once and never mutated afterwards.
type Container struct {
	Config *config.Config
	App    message.Handler
	Bridge *bridge.Bridge
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	handler := app.NewHandler(cfg.Bridge.MountPath)

	container := &Container{
		Config: cfg,
		App:    handler,
		Bridge: bridge.New(handler,
			bridge.WithDefaultScheme(cfg.Bridge.DefaultScheme),
			bridge.WithDefaultHost(cfg.Bridge.DefaultHost),
		),
	}

	return container, nil
}
