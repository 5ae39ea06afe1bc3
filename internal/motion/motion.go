// Package motion synthesizes human-looking cursor drags.
package motion

import (
	"math"
	"time"

	"github.com/stigoleg/mousemover/internal/platform"
)

// Path shape and timing constants.
const (
	// MinSteps is the smallest number of steps in a plan.
	MinSteps = 30
	// StepSpread is the size of the random range added to MinSteps, giving [30, 69].
	StepSpread = 40

	// MinStepDelay is the shortest pause after a step.
	MinStepDelay = 10 * time.Millisecond
	// StepDelaySpread is the number of extra milliseconds drawn per step, giving [10, 39] ms.
	StepDelaySpread = 30

	// MaxJitter is the largest per-step offset a plan honors. Larger values are
	// clamped to it.
	MaxJitter = 10000
)

// Step is one point of a plan and the pause to take after reaching it.
type Step struct {
	Point platform.Point
	Delay time.Duration
}

// Plan is an ordered, timed drag from Start towards Target. Steps approach the
// target by truncated linear increments, so the last step may fall short of it.
type Plan struct {
	Start  platform.Point
	Target platform.Point
	Steps  []Step
}

// Len returns the number of steps.
func (p Plan) Len() int {
	return len(p.Steps)
}

// Last returns the final step's point, or Start for an empty plan.
func (p Plan) Last() platform.Point {
	if len(p.Steps) == 0 {
		return p.Start
	}
	return p.Steps[len(p.Steps)-1].Point
}

// Duration returns the sum of all step delays.
func (p Plan) Duration() time.Duration {
	var d time.Duration
	for _, s := range p.Steps {
		d += s.Delay
	}
	return d
}

// PathLength returns the travelled distance in pixels, starting at Start.
func (p Plan) PathLength() float64 {
	var total float64
	prev := p.Start
	for _, s := range p.Steps {
		total += math.Hypot(float64(s.Point.X-prev.X), float64(s.Point.Y-prev.Y))
		prev = s.Point
	}
	return total
}

// Synthesizer builds plans. It holds no state besides its random source, so it
// is safe for concurrent use when the source is.
type Synthesizer struct {
	rnd Source
}

// New creates a synthesizer drawing all randomness from src.
func New(src Source) *Synthesizer {
	return &Synthesizer{rnd: src}
}

// Plan produces a drag from start to a uniformly random point inside bounds.
//
// Each step advances by (target-start)/N using integer division and adds an
// independent offset in [-jitter, jitter] on both axes. The offset is not carried
// into the next step: step i sits at start + i*d + offset rather than on a random
// walk that sums every earlier offset. The drag is slightly less wandering, but
// every point stays within jitter of the ideal line and the end of the drag does
// not drift by up to N*jitter.
//
// Non-positive bounds are treated as 1. Jitter is clamped to [0, MaxJitter].
func (s *Synthesizer) Plan(start platform.Point, bounds platform.Bounds, jitter int) Plan {
	w, h := max(bounds.Width, 1), max(bounds.Height, 1)
	jitter = min(max(jitter, 0), MaxJitter)

	target := platform.Point{X: s.rnd.Intn(w), Y: s.rnd.Intn(h)}
	n := MinSteps + s.rnd.Intn(StepSpread)

	dx := (target.X - start.X) / n
	dy := (target.Y - start.Y) / n

	steps := make([]Step, 0, n)
	for i := 1; i <= n; i++ {
		jx := s.offset(jitter)
		jy := s.offset(jitter)
		steps = append(steps, Step{
			Point: platform.Point{
				X: start.X + i*dx + jx,
				Y: start.Y + i*dy + jy,
			},
			Delay: s.stepDelay(),
		})
	}

	return Plan{Start: start, Target: target, Steps: steps}
}

func (s *Synthesizer) offset(jitter int) int {
	return s.rnd.Intn(2*jitter+1) - jitter
}

func (s *Synthesizer) stepDelay() time.Duration {
	return MinStepDelay + time.Duration(s.rnd.Intn(StepDelaySpread))*time.Millisecond
}
