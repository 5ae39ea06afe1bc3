package keepalive

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/stigoleg/mousemover/internal/activity"
	"github.com/stigoleg/mousemover/internal/motion"
	"github.com/stigoleg/mousemover/internal/platform"
)

// ActiveLogInterval is how often to log while skipping because the user is active.
const ActiveLogInterval = 2 * time.Minute

// ErrEpisodeAbandoned wraps cursor failures that cut an episode short.
var ErrEpisodeAbandoned = errors.New("episode abandoned")

// SimulationHealth represents the runtime health of cursor injection.
type SimulationHealth int

const (
	SimulationHealthUnknown SimulationHealth = iota
	SimulationHealthOK
	SimulationHealthFailed
)

func (h SimulationHealth) String() string {
	switch h {
	case SimulationHealthOK:
		return "ok"
	case SimulationHealthFailed:
		return "failing"
	default:
		return "unknown"
	}
}

// DetectionMode says which activity producers are feeding the tracker.
type DetectionMode int

const (
	ModeUnknown DetectionMode = iota
	// ModeEventAndPoll means global input events and pointer polling.
	ModeEventAndPoll
	// ModePollOnly means the input hook could not be registered.
	ModePollOnly
)

func (m DetectionMode) String() string {
	switch m {
	case ModeEventAndPoll:
		return "events+poll"
	case ModePollOnly:
		return "poll-only"
	default:
		return "unknown"
	}
}

// LoopConfig holds the loop's tunables.
type LoopConfig struct {
	IdleThreshold time.Duration
	PollInterval  time.Duration
	Jitter        int
}

// Validate checks the tunables.
func (c LoopConfig) Validate() error {
	if c.IdleThreshold <= 0 {
		return fmt.Errorf("idle threshold must be positive, got %v", c.IdleThreshold)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.PollInterval)
	}
	if c.Jitter < 0 {
		return fmt.Errorf("jitter must not be negative, got %d", c.Jitter)
	}
	if c.Jitter > motion.MaxJitter {
		return fmt.Errorf("jitter must be at most %d, got %d", motion.MaxJitter, c.Jitter)
	}
	return nil
}

// Status is a point-in-time view of the loop.
type Status struct {
	Enabled        bool
	Intervening    bool
	Idle           time.Duration
	Threshold      time.Duration
	Mode           DetectionMode
	Health         SimulationHealth
	Episodes       int
	FailedEpisodes int
	LastEpisode    time.Time
	LastError      string
	Activity       activity.Stats
}

// Loop polls the pointer on a fixed cadence and, once the user has been idle
// for the threshold, plays a synthesized drag and restarts the idle clock.
type Loop struct {
	cfg     LoopConfig
	tracker *activity.Tracker
	synth   *motion.Synthesizer
	pointer platform.Pointer
	bounds  platform.Bounds
	clock   Clock
	logger  *zap.Logger

	enabled     atomic.Bool
	intervening atomic.Bool
	wasIdle     atomic.Bool
	mode        atomic.Int32
	activeLog   rate.Sometimes

	// failCount tracks consecutive failed episodes.
	failCount atomic.Int64

	mu          sync.Mutex
	episodes    int
	failed      int
	lastEpisode time.Time
	lastErr     error
}

// NewLoop wires a loop. clock and logger may be nil.
func NewLoop(cfg LoopConfig, tracker *activity.Tracker, synth *motion.Synthesizer,
	pointer platform.Pointer, bounds platform.Bounds, clock Clock, logger *zap.Logger) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if tracker == nil || synth == nil || pointer == nil {
		return nil, errors.New("loop needs a tracker, a synthesizer and a pointer")
	}
	if !bounds.Valid() {
		return nil, fmt.Errorf("invalid screen bounds %v", bounds)
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Loop{
		cfg:       cfg,
		tracker:   tracker,
		synth:     synth,
		pointer:   pointer,
		bounds:    bounds,
		clock:     clock,
		logger:    logger,
		activeLog: rate.Sometimes{Interval: ActiveLogInterval},
	}
	l.enabled.Store(true)
	return l, nil
}

// Run ticks immediately and then at a fixed rate of one tick per poll interval
// until ctx is done. A tick that overruns its slot, usually because of an
// episode, skips the missed slots instead of firing them back to back.
// Cancellation is the normal way to stop and is not reported as an error.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Debug("monitoring",
		zap.Duration("idle_threshold", l.cfg.IdleThreshold),
		zap.Duration("poll_interval", l.cfg.PollInterval),
		zap.Int("jitter", l.cfg.Jitter),
		zap.Stringer("bounds", l.bounds))

	next := l.clock.Now()
	for ctx.Err() == nil {
		l.safeTick(ctx)

		now := l.clock.Now()
		next = next.Add(l.cfg.PollInterval)
		if !next.After(now) {
			skipped := now.Sub(next)/l.cfg.PollInterval + 1
			next = next.Add(skipped * l.cfg.PollInterval)
		}
		if err := l.clock.Sleep(ctx, next.Sub(now)); err != nil {
			break
		}
	}
	l.logger.Debug("monitoring stopped")
	return nil
}

// safeTick runs one tick and contains any failure to it.
func (l *Loop) safeTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("tick panicked", zap.Any("panic", r))
		}
	}()

	if err := l.Tick(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		l.logger.Error("tick failed", zap.Error(err))
	}
}

// Tick performs one Monitoring evaluation and, when the idle threshold has been
// reached, one Intervening episode.
func (l *Loop) Tick(ctx context.Context) error {
	pos, err := l.pointer.Position()
	if err != nil {
		return fmt.Errorf("query pointer: %w", err)
	}

	now := l.clock.Now()
	if l.tracker.ObservePointer(pos, now) {
		l.logger.Debug("pointer moved, resetting idle timer", zap.Stringer("at", pos))
	}

	idle := l.tracker.IdleDuration(now)
	if idle < l.cfg.IdleThreshold {
		l.noteActive(idle)
		return nil
	}
	l.noteIdle(idle)

	if !l.enabled.Load() {
		return nil
	}
	return l.intervene(ctx, pos)
}

func (l *Loop) noteActive(idle time.Duration) {
	l.wasIdle.Store(false)
	l.activeLog.Do(func() {
		l.logger.Debug("user is active; skipping movement", zap.Duration("idle", idle))
	})
}

func (l *Loop) noteIdle(idle time.Duration) {
	if !l.wasIdle.Swap(true) {
		l.logger.Info("user became idle", zap.Duration("idle", idle))
	}
}

func (l *Loop) intervene(ctx context.Context, start platform.Point) error {
	l.intervening.Store(true)
	defer l.intervening.Store(false)

	id := uuid.NewString()
	plan := l.synth.Plan(start, l.bounds, l.cfg.Jitter)
	log := l.logger.With(zap.String("episode", id))

	log.Debug("moving mouse",
		zap.Stringer("from", plan.Start),
		zap.Stringer("to", plan.Target),
		zap.Int("steps", plan.Len()),
		zap.Duration("duration", plan.Duration()),
		zap.Float64("path_px", plan.PathLength()))

	step, err := l.play(ctx, plan)
	if ctx.Err() != nil {
		log.Debug("episode interrupted by shutdown", zap.Int("step", step))
		return ctx.Err()
	}

	now := l.clock.Now()
	if pos, perr := l.pointer.Position(); perr == nil {
		l.tracker.ObservePointer(pos, now)
	}
	l.tracker.Reset(now)
	l.wasIdle.Store(false)

	l.mu.Lock()
	l.episodes++
	l.lastEpisode = now
	if err != nil {
		l.failed++
		l.lastErr = err
	}
	l.mu.Unlock()

	if err != nil {
		l.failCount.Add(1)
		return fmt.Errorf("%w: episode %s at step %d/%d: %w", ErrEpisodeAbandoned, id, step+1, plan.Len(), err)
	}

	l.failCount.Store(0)
	log.Info("moved mouse to keep session active", zap.Stringer("to", plan.Last()))
	return nil
}

// play moves through every step, sleeping each step's delay. It returns the index
// of the step it stopped at and the error that stopped it.
func (l *Loop) play(ctx context.Context, plan motion.Plan) (int, error) {
	for i, st := range plan.Steps {
		if err := l.pointer.SetPosition(l.bounds.Clamp(st.Point)); err != nil {
			return i, fmt.Errorf("set pointer: %w", err)
		}
		if err := l.clock.Sleep(ctx, st.Delay); err != nil {
			return i, err
		}
	}
	return len(plan.Steps), nil
}

// SetEnabled pauses or resumes interventions. A paused loop keeps tracking.
func (l *Loop) SetEnabled(enabled bool) {
	if l.enabled.Swap(enabled) != enabled {
		l.logger.Info("movement toggled", zap.Bool("enabled", enabled))
	}
}

// Enabled reports whether interventions are allowed.
func (l *Loop) Enabled() bool {
	return l.enabled.Load()
}

// SetMode records which producers feed the tracker.
func (l *Loop) SetMode(m DetectionMode) {
	l.mode.Store(int32(m))
}

// Health derives cursor health from the last episode outcomes.
func (l *Loop) Health() SimulationHealth {
	l.mu.Lock()
	episodes := l.episodes
	l.mu.Unlock()

	switch {
	case l.failCount.Load() > 0:
		return SimulationHealthFailed
	case episodes == 0:
		return SimulationHealthUnknown
	default:
		return SimulationHealthOK
	}
}

// Snapshot returns the loop status as of now.
func (l *Loop) Snapshot() Status {
	now := l.clock.Now()
	s := Status{
		Enabled:     l.enabled.Load(),
		Intervening: l.intervening.Load(),
		Idle:        l.tracker.IdleDuration(now),
		Threshold:   l.cfg.IdleThreshold,
		Mode:        DetectionMode(l.mode.Load()),
		Health:      l.Health(),
		Activity:    l.tracker.Stats(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	s.Episodes = l.episodes
	s.FailedEpisodes = l.failed
	s.LastEpisode = l.lastEpisode
	if l.lastErr != nil {
		s.LastError = l.lastErr.Error()
	}
	return s
}
