package motion

import (
	"math/rand"
	"sync"
	"time"
)

// Source is the single random source behind a plan: target, step count, jitter
// and delays are all drawn from it. *rand.Rand satisfies it.
type Source interface {
	// Intn returns a uniform value in [0, n). n is always positive.
	Intn(n int) int
}

// LockedSource is a mutex-guarded *rand.Rand, safe for concurrent use.
type LockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewLockedSource seeds a new source. A zero seed picks a time-based one.
func NewLockedSource(seed int64) *LockedSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &LockedSource{rnd: rand.New(rand.NewSource(seed))}
}

// Intn implements Source.
func (l *LockedSource) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Intn(n)
}
