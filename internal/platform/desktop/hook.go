//go:build cgo

package desktop

import (
	"context"
	"errors"
	"sync"
	"time"

	hook "github.com/robotn/gohook"
	"go.uber.org/zap"
)

// HookSource implements platform.ActivitySource on top of gohook's global
// keyboard and mouse listener.
type HookSource struct {
	mu      sync.Mutex
	logger  *zap.Logger
	timeout time.Duration
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewHookSource creates an unregistered hook source.
func NewHookSource(logger *zap.Logger) *HookSource {
	return &HookSource{logger: logger, timeout: hookEnableTimeout}
}

// Start registers the global hook and pumps events to onActivity until ctx is
// done or Stop is called. It fails with ErrHookUnavailable when the hook does not
// report itself enabled in time.
func (h *HookSource) Start(ctx context.Context, onActivity func()) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running {
		return errors.New("hook already running")
	}

	events := hook.Start()

	timer := time.NewTimer(h.timeout)
	defer timer.Stop()

wait:
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return ErrHookUnavailable
			}
			if ev.Kind == hook.HookEnabled {
				break wait
			}
		case <-timer.C:
			hook.End()
			return ErrHookUnavailable
		case <-ctx.Done():
			hook.End()
			return ctx.Err()
		}
	}

	ctx, h.cancel = context.WithCancel(ctx)
	h.done = make(chan struct{})
	h.running = true
	go h.pump(ctx, events, onActivity)

	h.logger.Debug("global input hook registered")
	return nil
}

func (h *HookSource) pump(ctx context.Context, events chan hook.Event, onActivity func()) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if isUserInput(ev.Kind) {
				onActivity()
			}
		}
	}
}

func isUserInput(kind uint8) bool {
	switch kind {
	case hook.KeyDown, hook.KeyHold, hook.KeyUp,
		hook.MouseUp, hook.MouseHold, hook.MouseDown,
		hook.MouseMove, hook.MouseDrag, hook.MouseWheel:
		return true
	}
	return false
}

// Stop deregisters the hook. It is safe to call more than once.
func (h *HookSource) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return nil
	}
	h.cancel()
	hook.End()
	<-h.done
	h.running = false
	h.logger.Debug("global input hook deregistered")
	return nil
}
