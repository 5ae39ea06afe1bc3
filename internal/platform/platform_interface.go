// Package platform defines the contracts between the idle loop and the desktop:
// cursor query/set, screen bounds and global activity notifications.
package platform

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnsupported is returned by backends that cannot drive the desktop on this build.
var ErrUnsupported = errors.New("unsupported platform")

// Point is an absolute pointer coordinate in screen pixels.
type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Bounds is the rectangular screen area [0,Width) x [0,Height).
type Bounds struct {
	Width  int
	Height int
}

// Valid reports whether both dimensions are positive.
func (b Bounds) Valid() bool {
	return b.Width > 0 && b.Height > 0
}

// Contains reports whether p lies inside the bounds.
func (b Bounds) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < b.Width && p.Y < b.Height
}

// Clamp returns p moved to the nearest coordinate inside the bounds.
func (b Bounds) Clamp(p Point) Point {
	return Point{X: clamp(p.X, 0, b.Width-1), Y: clamp(p.Y, 0, b.Height-1)}
}

func (b Bounds) String() string {
	return fmt.Sprintf("%dx%d", b.Width, b.Height)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Pointer reads and moves the OS cursor.
type Pointer interface {
	Position() (Point, error)
	SetPosition(p Point) error
}

// Screen reports the screen bounds. It is queried once at startup.
type Screen interface {
	Bounds() (Bounds, error)
}

// ActivitySource delivers global keyboard and mouse activity notifications.
//
// Start registers the subscription and invokes onActivity, possibly from another
// goroutine, for every input event until ctx is done or Stop is called. A Start
// error is not fatal to callers: they fall back to pointer polling.
type ActivitySource interface {
	Start(ctx context.Context, onActivity func()) error
	Stop() error
}

// Desktop bundles the collaborators a backend provides.
type Desktop struct {
	Pointer  Pointer
	Screen   Screen
	Activity ActivitySource
}
