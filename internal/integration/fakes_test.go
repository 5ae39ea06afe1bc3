package integration

import (
	"bytes"
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/stigoleg/mousemover/internal/platform"
)

// screen is the in-memory display every integration test uses.
var screen = platform.Bounds{Width: 1280, Height: 800}

type memPointer struct {
	mu    sync.Mutex
	pos   platform.Point
	moves int
	// outside counts moves that landed off screen.
	outside int
}

func (p *memPointer) Position() (platform.Point, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos, nil
}

func (p *memPointer) SetPosition(pt platform.Point) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = pt
	p.moves++
	if !screen.Contains(pt) {
		p.outside++
	}
	return nil
}

// userMove moves the cursor without counting it as a synthesized move.
func (p *memPointer) userMove(pt platform.Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = pt
}

func (p *memPointer) counts() (moves, outside int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.moves, p.outside
}

type memScreen struct{}

func (memScreen) Bounds() (platform.Bounds, error) { return screen, nil }

// memHook delivers input notifications on demand, like a global hook would.
type memHook struct {
	mu     sync.Mutex
	notify func()
}

func (h *memHook) Start(ctx context.Context, onActivity func()) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notify = onActivity
	return nil
}

func (h *memHook) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notify = nil
	return nil
}

func (h *memHook) keypress() {
	h.mu.Lock()
	notify := h.notify
	h.mu.Unlock()
	if notify != nil {
		notify()
	}
}

func newMemDesktop() (platform.Desktop, *memPointer, *memHook) {
	pointer := &memPointer{pos: platform.Point{X: 640, Y: 400}}
	hook := &memHook{}
	return platform.Desktop{Pointer: pointer, Screen: memScreen{}, Activity: hook}, pointer, hook
}

func memDesktopFactory(*zap.Logger) (platform.Desktop, error) {
	d, _, _ := newMemDesktop()
	return d, nil
}

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a polling reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
