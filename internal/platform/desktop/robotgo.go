//go:build cgo

package desktop

import (
	"fmt"
	"sync"

	"github.com/go-vgo/robotgo"
	"go.uber.org/zap"

	"github.com/stigoleg/mousemover/internal/platform"
)

func newDesktop(logger *zap.Logger) (platform.Desktop, error) {
	return platform.Desktop{
		Pointer:  &RobotPointer{logger: logger},
		Screen:   RobotScreen{},
		Activity: NewHookSource(logger),
	}, nil
}

// RobotPointer implements platform.Pointer with robotgo.
type RobotPointer struct {
	mu     sync.Mutex
	logger *zap.Logger
}

// Position returns the current cursor location.
func (r *RobotPointer) Position() (platform.Point, error) {
	x, y := robotgo.Location()
	return platform.Point{X: x, Y: y}, nil
}

// SetPosition warps the cursor to p and reads it back. robotgo.Move has no error
// return, so a cursor that stays put while a different target was requested is
// reported as ErrCursorStuck.
func (r *RobotPointer) SetPosition(p platform.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bx, by := robotgo.Location()
	before := platform.Point{X: bx, Y: by}

	robotgo.Move(p.X, p.Y)

	ax, ay := robotgo.Location()
	after := platform.Point{X: ax, Y: ay}
	if after == before && p != before {
		r.logger.Debug("cursor move had no effect",
			zap.Stringer("requested", p), zap.Stringer("at", after))
		return fmt.Errorf("move to %v: %w", p, ErrCursorStuck)
	}
	return nil
}

// RobotScreen implements platform.Screen with robotgo.
type RobotScreen struct{}

// Bounds returns the main display size.
func (RobotScreen) Bounds() (platform.Bounds, error) {
	w, h := robotgo.GetScreenSize()
	b := platform.Bounds{Width: w, Height: h}
	if !b.Valid() {
		return b, fmt.Errorf("screen size %v: %w", b, platform.ErrUnsupported)
	}
	return b, nil
}
