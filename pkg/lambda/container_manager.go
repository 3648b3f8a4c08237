package lambda

import (
	"context"
	"sync"

	"serverless-bridge/internal/config"
	"serverless-bridge/pkg/server"
)

// ContainerManager keeps the service container alive across warm invocations
type ContainerManager struct {
	mu        sync.Mutex
	container *server.Container
	load      func() (*config.Config, error)
}

var (
	globalContainerManager *ContainerManager
	containerManagerOnce   sync.Once
)

// GetContainerManager returns the global container manager instance
func GetContainerManager() *ContainerManager {
	containerManagerOnce.Do(func() {
		globalContainerManager = NewContainerManager(config.GetOptimizedConfig)
	})
	return globalContainerManager
}

// NewContainerManager creates a manager that builds its container from the
// configuration returned by load
func NewContainerManager(load func() (*config.Config, error)) *ContainerManager {
	return &ContainerManager{load: load}
}

// GetContainer returns the service container, initializing it on first use.
// A failed initialization is retried on the next call. Initialization is
// skipped when ctx is already done.
func (cm *ContainerManager) GetContainer(ctx context.Context) (*server.Container, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		return cm.container, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}

	container, err := server.NewContainer(cfg)
	if err != nil {
		return nil, err
	}

	cm.container = container
	return container, nil
}
