package engine

import (
	"testing"
	"time"
)

// TestRateMeterCountsWindow verifies Rate counts only stamps inside the window.
func TestRateMeterCountsWindow(t *testing.T) {
	m := newRateMeter(time.Second, 16)
	t0 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		m.Tick(t0.Add(time.Duration(i) * 100 * time.Millisecond))
	}

	if got := m.Rate(t0.Add(400 * time.Millisecond)); got != 5.0 {
		t.Errorf("Expected rate 5.0 with all stamps in window, got %v", got)
	}

	// 1.2s later only the stamps at t0+200ms and newer remain in window.
	if got := m.Rate(t0.Add(1200 * time.Millisecond)); got != 3.0 {
		t.Errorf("Expected rate 3.0 after window slid, got %v", got)
	}

	// Far in the future nothing remains.
	if got := m.Rate(t0.Add(time.Hour)); got != 0.0 {
		t.Errorf("Expected rate 0.0 once stamps aged out, got %v", got)
	}
}

// TestRateMeterRingWrap verifies old stamps are overwritten, not double counted.
func TestRateMeterRingWrap(t *testing.T) {
	m := newRateMeter(time.Minute, 4)
	t0 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		m.Tick(t0.Add(time.Duration(i) * time.Millisecond))
	}

	// Capacity bounds the count even though all 10 stamps fit the window.
	if got := m.Rate(t0.Add(time.Second)); got != 4.0/60.0 {
		t.Errorf("Expected rate capped at ring capacity, got %v", got)
	}
}

// TestRateMeterEmpty verifies a fresh meter reads zero.
func TestRateMeterEmpty(t *testing.T) {
	m := newRateMeter(time.Second, 8)
	if got := m.Rate(time.Now()); got != 0.0 {
		t.Errorf("Expected rate 0.0 on fresh meter, got %v", got)
	}
}

// TestEWMASeedsWithFirstObservation verifies the average starts at the first
// sample instead of decaying up from zero.
func TestEWMASeedsWithFirstObservation(t *testing.T) {
	e := newEWMA(0.5)

	if got := e.Value(); got != 0.0 {
		t.Errorf("Expected 0.0 before any observation, got %v", got)
	}

	e.Observe(10)
	if got := e.Value(); got != 10.0 {
		t.Errorf("Expected first observation to seed the average, got %v", got)
	}

	e.Observe(20)
	if got := e.Value(); got != 15.0 {
		t.Errorf("Expected 15.0 after alpha=0.5 blend, got %v", got)
	}

	e.Observe(15)
	if got := e.Value(); got != 15.0 {
		t.Errorf("Expected steady value to hold, got %v", got)
	}
}
