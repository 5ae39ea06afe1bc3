// Package keepalive runs the idle loop: it watches for user inactivity and keeps
// the session alive with synthesized cursor movement.
package keepalive

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/stigoleg/mousemover/internal/activity"
	"github.com/stigoleg/mousemover/internal/motion"
	"github.com/stigoleg/mousemover/internal/platform"
)

var (
	// ErrAlreadyRunning is returned when starting a running keeper.
	ErrAlreadyRunning = errors.New("keep-alive already running")

	// ErrStillStopping is returned when starting a keeper whose previous run
	// timed out in Stop and has not finished yet.
	ErrStillStopping = errors.New("previous run is still shutting down")
)

// Options configures a Keeper beyond the loop tunables.
type Options struct {
	// Clock defaults to the system clock.
	Clock Clock
	// Source defaults to a time-seeded LockedSource.
	Source motion.Source
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Keeper manages the lifecycle of the idle loop and the activity subscription.
type Keeper struct {
	mu      sync.Mutex
	running bool
	timer   *time.Timer
	cancel  context.CancelFunc
	done    chan struct{}
	runErr  error
	endTime time.Time

	loop     *Loop
	tracker  *activity.Tracker
	activity platform.ActivitySource
	clock    Clock
	logger   *zap.Logger

	activityLog rate.Sometimes
}

// NewKeeper queries the screen bounds and the pointer once, creates the activity
// tracker at "now" and wires the loop. desktop.Activity may be nil, in which case
// the keeper runs poll-only.
func NewKeeper(cfg LoopConfig, desktop platform.Desktop, opts Options) (*Keeper, error) {
	if desktop.Pointer == nil || desktop.Screen == nil {
		return nil, fmt.Errorf("desktop backend: %w", platform.ErrUnsupported)
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Source == nil {
		opts.Source = motion.NewLockedSource(0)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	bounds, err := desktop.Screen.Bounds()
	if err != nil {
		return nil, fmt.Errorf("query screen bounds: %w", err)
	}
	pos, err := desktop.Pointer.Position()
	if err != nil {
		return nil, fmt.Errorf("query pointer: %w", err)
	}

	tracker := activity.New(opts.Clock.Now(), pos)
	loop, err := NewLoop(cfg, tracker, motion.New(opts.Source), desktop.Pointer, bounds,
		opts.Clock, opts.Logger.Named("loop"))
	if err != nil {
		return nil, err
	}

	return &Keeper{
		loop:        loop,
		tracker:     tracker,
		activity:    desktop.Activity,
		clock:       opts.Clock,
		logger:      opts.Logger.Named("keeper"),
		activityLog: rate.Sometimes{Interval: 5 * time.Second},
	}, nil
}

// IsRunning returns whether the keep-alive is currently active.
func (k *Keeper) IsRunning() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.running
}

// StartIndefinite starts the loop until Stop is called.
func (k *Keeper) StartIndefinite() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.running {
		return ErrAlreadyRunning
	}
	if k.stoppingLocked() {
		return ErrStillStopping
	}

	ctx, cancel := context.WithCancel(context.Background())
	k.startLocked(ctx, cancel)
	k.endTime = time.Time{}

	k.logger.Info("started (indefinite)")
	return nil
}

// StartTimed starts the loop and stops it after d.
func (k *Keeper) StartTimed(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if k.running {
		return ErrAlreadyRunning
	}
	if k.stoppingLocked() {
		return ErrStillStopping
	}

	ctx, cancel := context.WithTimeout(context.Background(), d)
	k.startLocked(ctx, cancel)
	k.endTime = time.Now().Add(d)
	k.timer = time.AfterFunc(d, func() {
		k.Stop()
	})

	k.logger.Info("started (timed)", zap.Duration("duration", d))
	return nil
}

// stoppingLocked reports whether a stopped run's goroutines are still exiting.
func (k *Keeper) stoppingLocked() bool {
	if k.done == nil {
		return false
	}
	select {
	case <-k.done:
		return false
	default:
		return true
	}
}

// startLocked registers the activity source and runs the loop. Registration
// failure leaves the loop in poll-only mode.
func (k *Keeper) startLocked(ctx context.Context, cancel context.CancelFunc) {
	k.cancel = cancel
	k.done = make(chan struct{})
	k.runErr = nil
	k.running = true

	g, gctx := errgroup.WithContext(ctx)

	if k.registerActivity(gctx) {
		k.loop.SetMode(ModeEventAndPoll)
		g.Go(func() error {
			<-gctx.Done()
			if err := k.activity.Stop(); err != nil {
				return fmt.Errorf("deregister activity hook: %w", err)
			}
			return nil
		})
	} else {
		k.loop.SetMode(ModePollOnly)
	}

	g.Go(func() error {
		return k.loop.Run(gctx)
	})

	go func(done chan struct{}) {
		err := g.Wait()
		k.mu.Lock()
		k.runErr = err
		k.mu.Unlock()
		close(done)
	}(k.done)
}

func (k *Keeper) registerActivity(ctx context.Context) bool {
	if k.activity == nil {
		k.logger.Warn("no activity source; detecting activity by pointer polling only")
		return false
	}
	if err := k.activity.Start(ctx, k.onActivity); err != nil {
		k.logger.Warn("could not register global input hook; falling back to pointer polling",
			zap.Error(err))
		return false
	}
	return true
}

func (k *Keeper) onActivity() {
	k.tracker.RecordActivity(k.clock.Now())
	k.activityLog.Do(func() {
		k.logger.Debug("mouse/keyboard activity detected globally, resetting idle timer")
	})
}

// Stop stops the loop.
func (k *Keeper) Stop() error {
	return k.StopWithTimeout(0)
}

// StopWithTimeout stops the loop and waits up to timeout for it to finish.
func (k *Keeper) StopWithTimeout(timeout time.Duration) error {
	k.mu.Lock()
	if !k.running {
		k.mu.Unlock()
		return nil
	}

	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	if k.timer != nil {
		k.timer.Stop()
		k.timer = nil
	}
	if k.cancel != nil {
		k.cancel()
		k.cancel = nil
	}

	done := k.done
	k.running = false
	k.mu.Unlock()

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-done:
		k.mu.Lock()
		err := k.runErr
		k.mu.Unlock()
		if err != nil {
			k.logger.Error("stopped with error", zap.Error(err))
			return err
		}
		k.logger.Info("stopped")
		return nil
	case <-t.C:
		k.logger.Warn("stop timeout exceeded", zap.Duration("timeout", timeout))
		return context.DeadlineExceeded
	}
}

// Done is closed when the current run ends, either through Stop or because a
// timed run expired. It returns nil before the first start.
func (k *Keeper) Done() <-chan struct{} {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.done
}

// TimeRemaining returns the remaining duration for timed mode.
func (k *Keeper) TimeRemaining() time.Duration {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.running || k.endTime.IsZero() {
		return 0
	}

	remaining := time.Until(k.endTime)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SetSimulateActivity pauses or resumes cursor movement without stopping
// activity tracking.
func (k *Keeper) SetSimulateActivity(simulate bool) {
	k.loop.SetEnabled(simulate)
}

// SimulateActivity reports whether cursor movement is enabled.
func (k *Keeper) SimulateActivity() bool {
	return k.loop.Enabled()
}

// Snapshot returns the loop status.
func (k *Keeper) Snapshot() Status {
	return k.loop.Snapshot()
}

// GetSimulationHealth returns the current health of cursor injection.
func (k *Keeper) GetSimulationHealth() SimulationHealth {
	return k.loop.Health()
}
