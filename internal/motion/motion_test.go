package motion

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stigoleg/mousemover/internal/platform"
)

// seqSource replays a fixed sequence of draws, clamped into [0, n).
type seqSource struct {
	vals []int
	i    int
}

func (s *seqSource) Intn(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	if v >= n {
		return n - 1
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestPlanStepCountRange(t *testing.T) {
	syn := New(rand.New(rand.NewSource(42)))
	bounds := platform.Bounds{Width: 1920, Height: 1080}

	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		p := syn.Plan(platform.Point{X: 500, Y: 500}, bounds, 1)
		if p.Len() < 30 || p.Len() > 69 {
			t.Fatalf("plan has %d steps, want [30, 69]", p.Len())
		}
		seen[p.Len()] = true
	}
	if !seen[30] || !seen[69] {
		t.Errorf("expected both extremes of the step range to occur, got 30:%v 69:%v", seen[30], seen[69])
	}
}

func TestPlanStepCountExtremes(t *testing.T) {
	bounds := platform.Bounds{Width: 100, Height: 100}

	low := New(&seqSource{vals: []int{0}}).Plan(platform.Point{}, bounds, 0)
	if low.Len() != MinSteps {
		t.Errorf("all-zero draws gave %d steps, want %d", low.Len(), MinSteps)
	}

	high := New(&seqSource{vals: []int{1000}}).Plan(platform.Point{}, bounds, 0)
	if high.Len() != MinSteps+StepSpread-1 {
		t.Errorf("all-max draws gave %d steps, want %d", high.Len(), MinSteps+StepSpread-1)
	}
}

func TestPlanJitterBound(t *testing.T) {
	bounds := platform.Bounds{Width: 1920, Height: 1080}
	start := platform.Point{X: 500, Y: 500}

	for _, jitter := range []int{0, 1, 3, 10} {
		syn := New(rand.New(rand.NewSource(int64(jitter) + 7)))
		for i := 0; i < 200; i++ {
			p := syn.Plan(start, bounds, jitter)
			n := p.Len()
			dx := (p.Target.X - start.X) / n
			dy := (p.Target.Y - start.Y) / n

			for k, st := range p.Steps {
				idealX := start.X + (k+1)*dx
				idealY := start.Y + (k+1)*dy
				if abs(st.Point.X-idealX) > jitter || abs(st.Point.Y-idealY) > jitter {
					t.Fatalf("jitter=%d step %d at %v, ideal (%d,%d)", jitter, k, st.Point, idealX, idealY)
				}
				if st.Point.X < -jitter || st.Point.X > bounds.Width-1+jitter ||
					st.Point.Y < -jitter || st.Point.Y > bounds.Height-1+jitter {
					t.Fatalf("jitter=%d step %d at %v outside padded bounds", jitter, k, st.Point)
				}
			}
		}
	}
}

func TestPlanDelays(t *testing.T) {
	syn := New(rand.New(rand.NewSource(1)))
	bounds := platform.Bounds{Width: 800, Height: 600}

	var sawMin, sawMax bool
	for i := 0; i < 500; i++ {
		p := syn.Plan(platform.Point{X: 10, Y: 10}, bounds, 1)
		var total time.Duration
		for _, st := range p.Steps {
			if st.Delay < 10*time.Millisecond || st.Delay > 39*time.Millisecond {
				t.Fatalf("delay %v outside [10ms, 39ms]", st.Delay)
			}
			sawMin = sawMin || st.Delay == 10*time.Millisecond
			sawMax = sawMax || st.Delay == 39*time.Millisecond
			total += st.Delay
		}
		if p.Duration() != total {
			t.Fatalf("Duration() = %v, want %v", p.Duration(), total)
		}
	}
	if !sawMin || !sawMax {
		t.Errorf("expected both delay extremes, got min:%v max:%v", sawMin, sawMax)
	}
}

func TestPlanTargetInsideBounds(t *testing.T) {
	syn := New(rand.New(rand.NewSource(99)))
	bounds := platform.Bounds{Width: 640, Height: 480}
	for i := 0; i < 1000; i++ {
		p := syn.Plan(platform.Point{X: 320, Y: 240}, bounds, 2)
		if !bounds.Contains(p.Target) {
			t.Fatalf("target %v outside %v", p.Target, bounds)
		}
	}
}

func TestPlanDegenerateStartEqualsTarget(t *testing.T) {
	// 1x1 screen: target is always (0,0), the start.
	syn := New(rand.New(rand.NewSource(5)))
	start := platform.Point{X: 0, Y: 0}
	bounds := platform.Bounds{Width: 1, Height: 1}

	for i := 0; i < 100; i++ {
		p := syn.Plan(start, bounds, 2)
		if p.Target != start {
			t.Fatalf("target = %v, want %v", p.Target, start)
		}
		if p.Len() < MinSteps || p.Len() >= MinSteps+StepSpread {
			t.Fatalf("degenerate plan has %d steps", p.Len())
		}
		for k, st := range p.Steps {
			if abs(st.Point.X-start.X) > 2 || abs(st.Point.Y-start.Y) > 2 {
				t.Fatalf("step %d at %v drifted beyond jitter from %v", k, st.Point, start)
			}
		}
	}
}

func TestPlanTruncationUndershoots(t *testing.T) {
	// Draws: target x=99, target y=0, steps 30+0, then zeros for jitter and delays.
	src := &seqSource{vals: []int{99, 0, 0}}
	src.vals = append(src.vals, make([]int, 200)...)
	p := New(src).Plan(platform.Point{X: 0, Y: 0}, platform.Bounds{Width: 100, Height: 100}, 0)

	if p.Target != (platform.Point{X: 99, Y: 0}) {
		t.Fatalf("target = %v, want (99,0)", p.Target)
	}
	// 99/30 truncates to 3, so the drag ends at 90 rather than 99.
	if got := p.Last(); got != (platform.Point{X: 90, Y: 0}) {
		t.Errorf("Last() = %v, want (90,0)", got)
	}
}

func TestPlanDeterministicForSeed(t *testing.T) {
	bounds := platform.Bounds{Width: 1920, Height: 1080}
	start := platform.Point{X: 100, Y: 900}

	p1 := New(rand.New(rand.NewSource(12345))).Plan(start, bounds, 1)
	p2 := New(rand.New(rand.NewSource(12345))).Plan(start, bounds, 1)

	if p1.Len() != p2.Len() || p1.Target != p2.Target {
		t.Fatalf("plans differ: %d/%v vs %d/%v", p1.Len(), p1.Target, p2.Len(), p2.Target)
	}
	for i := range p1.Steps {
		if p1.Steps[i] != p2.Steps[i] {
			t.Errorf("step %d differs: %v vs %v", i, p1.Steps[i], p2.Steps[i])
		}
	}
}

func TestPlanNegativeJitterTreatedAsZero(t *testing.T) {
	syn := New(rand.New(rand.NewSource(3)))
	start := platform.Point{X: 50, Y: 50}
	p := syn.Plan(start, platform.Bounds{Width: 100, Height: 100}, -4)

	n := p.Len()
	dx := (p.Target.X - start.X) / n
	dy := (p.Target.Y - start.Y) / n
	for k, st := range p.Steps {
		want := platform.Point{X: start.X + (k+1)*dx, Y: start.Y + (k+1)*dy}
		if st.Point != want {
			t.Fatalf("step %d = %v, want %v", k, st.Point, want)
		}
	}
}

func TestPlanClampsHugeJitter(t *testing.T) {
	bounds := platform.Bounds{Width: 10, Height: 10}
	start := platform.Point{X: 5, Y: 5}

	for _, jitter := range []int{MaxJitter + 1, math.MaxInt / 2, math.MaxInt} {
		p := New(rand.New(rand.NewSource(9))).Plan(start, bounds, jitter)

		n := p.Len()
		dx := (p.Target.X - start.X) / n
		dy := (p.Target.Y - start.Y) / n
		for k, st := range p.Steps {
			idealX, idealY := start.X+(k+1)*dx, start.Y+(k+1)*dy
			if abs(st.Point.X-idealX) > MaxJitter || abs(st.Point.Y-idealY) > MaxJitter {
				t.Fatalf("jitter=%d step %d at %v exceeds MaxJitter around (%d,%d)", jitter, k, st.Point, idealX, idealY)
			}
		}
	}
}

func TestPathLength(t *testing.T) {
	p := Plan{
		Start: platform.Point{X: 0, Y: 0},
		Steps: []Step{
			{Point: platform.Point{X: 3, Y: 4}},
			{Point: platform.Point{X: 6, Y: 8}},
		},
	}
	if got := p.PathLength(); got != 10 {
		t.Errorf("PathLength() = %v, want 10", got)
	}
	if got := (Plan{Start: platform.Point{X: 1, Y: 1}}).Last(); got != (platform.Point{X: 1, Y: 1}) {
		t.Errorf("Last() of empty plan = %v, want start", got)
	}
}

func TestLockedSourceConcurrent(t *testing.T) {
	src := NewLockedSource(42)
	syn := New(src)
	bounds := platform.Bounds{Width: 1920, Height: 1080}

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				if p := syn.Plan(platform.Point{X: 1, Y: 1}, bounds, 1); p.Len() < MinSteps {
					t.Errorf("short plan: %d", p.Len())
				}
			}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}
}
