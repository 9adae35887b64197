package engine

import (
	"sync"
	"time"
)

// rateMeter measures an event rate over a sliding window. Tick is called from
// one producer; Rate may be called from any goroutine.
type rateMeter struct {
	mu     sync.Mutex
	window time.Duration
	stamps []time.Time // ring
	head   int
	n      int
}

func newRateMeter(window time.Duration, capacity int) *rateMeter {
	return &rateMeter{
		window: window,
		stamps: make([]time.Time, capacity),
	}
}

func (m *rateMeter) Tick(now time.Time) {
	m.mu.Lock()
	m.stamps[m.head] = now
	m.head = (m.head + 1) % len(m.stamps)
	if m.n < len(m.stamps) {
		m.n++
	}
	m.mu.Unlock()
}

// Rate returns events per second within the window ending at now.
func (m *rateMeter) Rate(now time.Time) float64 {
	cutoff := now.Add(-m.window)

	m.mu.Lock()
	count := 0
	for i := 0; i < m.n; i++ {
		idx := (m.head - 1 - i + len(m.stamps)) % len(m.stamps)
		if m.stamps[idx].Before(cutoff) {
			// Ring is time-ordered newest first; stop at the first stale stamp.
			break
		}
		count++
	}
	m.mu.Unlock()

	return float64(count) / m.window.Seconds()
}

// ewma is an exponentially weighted moving average. Seeded with the first
// observation so early values are not dragged toward zero.
type ewma struct {
	mu    sync.Mutex
	alpha float64
	val   float64
	init  bool
}

func newEWMA(alpha float64) *ewma {
	return &ewma{alpha: alpha}
}

func (e *ewma) Observe(x float64) {
	e.mu.Lock()
	if !e.init {
		e.val, e.init = x, true
	} else {
		e.val = e.alpha*x + (1-e.alpha)*e.val
	}
	e.mu.Unlock()
}

func (e *ewma) Value() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.val
}
