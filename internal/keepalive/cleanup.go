package keepalive

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrCleanupTimeout is joined into the cleanup error when resources did not
// finish in time.
var ErrCleanupTimeout = errors.New("cleanup timeout exceeded")

// CleanupManager runs registered shutdown steps once, in registration order,
// bounded by a timeout.
type CleanupManager struct {
	mu          sync.Mutex
	resources   []CleanupResource
	timeout     time.Duration
	logger      *zap.Logger
	cleanupOnce sync.Once
	err         error
}

// CleanupResource represents a resource that needs cleanup.
type CleanupResource interface {
	Cleanup() error
	Name() string
}

// CleanupFunc is a function-based cleanup resource.
type CleanupFunc struct {
	name string
	fn   func() error
}

func (c *CleanupFunc) Cleanup() error {
	return c.fn()
}

func (c *CleanupFunc) Name() string {
	return c.name
}

// NewCleanupManager creates a cleanup manager. A non-positive timeout means 5s.
func NewCleanupManager(timeout time.Duration, logger *zap.Logger) *CleanupManager {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CleanupManager{
		timeout: timeout,
		logger:  logger.Named("cleanup"),
	}
}

// Register adds a resource to be cleaned up.
func (cm *CleanupManager) Register(resource CleanupResource) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.resources = append(cm.resources, resource)
}

// RegisterFunc registers a cleanup function.
func (cm *CleanupManager) RegisterFunc(name string, fn func() error) {
	cm.Register(&CleanupFunc{name: name, fn: fn})
}

// Execute cleans up every registered resource. Only the first call does work;
// later calls return the same error.
func (cm *CleanupManager) Execute() error {
	cm.cleanupOnce.Do(func() {
		cm.err = cm.executeWithTimeout()
	})
	return cm.err
}

func (cm *CleanupManager) executeWithTimeout() error {
	cm.mu.Lock()
	resources := make([]CleanupResource, len(cm.resources))
	copy(resources, cm.resources)
	cm.mu.Unlock()

	if len(resources) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cm.timeout)
	defer cancel()

	done := make(chan struct{})
	var errs []error
	var mu sync.Mutex

	go func() {
		defer close(done)
		for _, resource := range resources {
			func() {
				defer func() {
					if r := recover(); r != nil {
						mu.Lock()
						errs = append(errs, fmt.Errorf("%s: panic during cleanup: %v", resource.Name(), r))
						mu.Unlock()
						cm.logger.Error("panic cleaning up", zap.String("resource", resource.Name()), zap.Any("panic", r))
					}
				}()

				if err := resource.Cleanup(); err != nil {
					mu.Lock()
					errs = append(errs, fmt.Errorf("%s: %w", resource.Name(), err))
					mu.Unlock()
					cm.logger.Warn("error cleaning up", zap.String("resource", resource.Name()), zap.Error(err))
				} else {
					cm.logger.Debug("cleaned up", zap.String("resource", resource.Name()))
				}
			}()
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		cm.logger.Warn("timeout, some resources may not have been cleaned up", zap.Duration("timeout", cm.timeout))
		mu.Lock()
		errs = append(errs, ErrCleanupTimeout)
		mu.Unlock()
	}

	mu.Lock()
	defer mu.Unlock()
	return errors.Join(errs...)
}

// Clear removes all registered resources without executing cleanup.
func (cm *CleanupManager) Clear() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.resources = cm.resources[:0]
}
