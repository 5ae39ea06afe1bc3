// Package desktop drives the real desktop: robotgo for the cursor and screen,
// gohook for global keyboard and mouse notifications. Both need cgo.
package desktop

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/stigoleg/mousemover/internal/platform"
)

var (
	// ErrHookUnavailable is returned when the global input hook did not report
	// itself enabled, typically for lack of OS permission.
	ErrHookUnavailable = errors.New("global input hook unavailable")

	// ErrCursorStuck is returned when a cursor move was requested but the cursor
	// stayed where it was.
	ErrCursorStuck = errors.New("cursor did not move")
)

// hookEnableTimeout bounds how long Start waits for the hook to come up.
const hookEnableTimeout = 2 * time.Second

// New returns the desktop collaborators for this build.
func New(logger *zap.Logger) (platform.Desktop, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return newDesktop(logger.Named("desktop"))
}
