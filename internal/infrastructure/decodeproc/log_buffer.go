package decodeproc

import "sync"

const logRingSize = 256

// logBuffer is a thread-safe ring of the child's stderr lines. One ring per
// camera source; it survives process restarts so the tail shows the history
// across reconnects.
type logBuffer struct {
	mu      sync.RWMutex
	entries [logRingSize]string
	head    int // next write position
	size    int
	full    bool
}

// Append adds a line, overwriting the oldest once full.
func (b *logBuffer) Append(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.head] = line
	b.head = (b.head + 1) % logRingSize
	if b.full {
		return
	}
	b.size++
	if b.size == logRingSize {
		b.full = true
	}
}

// Tail returns up to n lines, newest first. n <= 0 or n beyond the ring
// size returns everything retained. The result is a fresh slice.
func (b *logBuffer) Tail(n int) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.size == 0 {
		return nil
	}
	if n <= 0 || n > logRingSize {
		n = logRingSize
	}
	if n > b.size {
		n = b.size
	}

	var newest int
	if b.full {
		newest = (b.head - 1 + logRingSize) % logRingSize
	} else {
		newest = b.size - 1
	}

	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = b.entries[(newest-i+logRingSize)%logRingSize]
	}
	return out
}
