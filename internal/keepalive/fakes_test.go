package keepalive

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stigoleg/mousemover/internal/platform"
)

var t0 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

// fakeClock advances only when slept on. Reaching the deadline cancels the run.
type fakeClock struct {
	mu        sync.Mutex
	now       time.Time
	deadline  time.Time
	cancel    context.CancelFunc
	onAdvance func(from, to time.Time)
	// realStep is slept for real on every Sleep to keep background loops from spinning.
	realStep time.Duration
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.realStep > 0 {
		time.Sleep(c.realStep)
	}

	c.mu.Lock()
	from := c.now
	to := from.Add(d)
	stop := !c.deadline.IsZero() && !to.Before(c.deadline)
	if stop {
		to = c.deadline
	}
	c.now = to
	hook := c.onAdvance
	cancel := c.cancel
	c.mu.Unlock()

	if hook != nil {
		hook(from, to)
	}
	if stop && cancel != nil {
		cancel()
		return context.Canceled
	}
	return ctx.Err()
}

// runUntil returns a context cancelled once the clock reaches deadline.
func (c *fakeClock) runUntil(deadline time.Time) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.deadline = deadline
	c.cancel = cancel
	c.mu.Unlock()
	return ctx, cancel
}

type move struct {
	at    time.Time
	point platform.Point
}

// fakePointer is an in-memory cursor.
type fakePointer struct {
	mu    sync.Mutex
	pos   platform.Point
	clock *fakeClock
	moves []move

	// failFrom makes the n-th and later SetPosition calls fail (1-based, 0 = never).
	failFrom int
	calls    int
	// panicOnce panics on the next Position call.
	panicOnce bool
	// onSet runs after every successful SetPosition with the call count.
	onSet func(n int)
}

var errNoCursor = errors.New("no cursor")

func (p *fakePointer) Position() (platform.Point, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.panicOnce {
		p.panicOnce = false
		panic("display went away")
	}
	return p.pos, nil
}

func (p *fakePointer) SetPosition(pt platform.Point) error {
	p.mu.Lock()
	p.calls++
	n := p.calls
	if p.failFrom > 0 && n >= p.failFrom {
		p.mu.Unlock()
		return errNoCursor
	}
	p.pos = pt
	var at time.Time
	if p.clock != nil {
		at = p.clock.Now()
	}
	p.moves = append(p.moves, move{at: at, point: pt})
	hook := p.onSet
	p.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	return nil
}

func (p *fakePointer) moveTo(pt platform.Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = pt
}

func (p *fakePointer) recorded() []move {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]move, len(p.moves))
	copy(out, p.moves)
	return out
}

type fakeScreen struct {
	bounds platform.Bounds
	err    error
}

func (s fakeScreen) Bounds() (platform.Bounds, error) {
	return s.bounds, s.err
}

// fakeSource records registration and lets tests fire activity.
type fakeSource struct {
	mu       sync.Mutex
	startErr error
	started  int
	stopped  int
	notify   func()

	// stopBlock, when set, holds Stop until it is closed.
	stopBlock chan struct{}
}

func (s *fakeSource) Start(ctx context.Context, onActivity func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startErr != nil {
		return s.startErr
	}
	s.started++
	s.notify = onActivity
	return nil
}

func (s *fakeSource) Stop() error {
	if s.stopBlock != nil {
		<-s.stopBlock
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped++
	s.notify = nil
	return nil
}

func (s *fakeSource) fire() bool {
	s.mu.Lock()
	notify := s.notify
	s.mu.Unlock()
	if notify == nil {
		return false
	}
	notify()
	return true
}

func (s *fakeSource) counts() (started, stopped int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started, s.stopped
}
