package decodeproc

import (
	"fmt"
	"testing"
)

// TestLogBufferTailNewestFirst verifies ordering and the n<=0 "everything"
// form.
func TestLogBufferTailNewestFirst(t *testing.T) {
	var b logBuffer
	b.Append("a")
	b.Append("b")
	b.Append("c")

	got := b.Tail(2)
	if len(got) != 2 || got[0] != "c" || got[1] != "b" {
		t.Errorf("Tail(2): expected [c b], got %v", got)
	}

	got = b.Tail(0)
	if len(got) != 3 || got[0] != "c" || got[2] != "a" {
		t.Errorf("Tail(0): expected [c b a], got %v", got)
	}

	got = b.Tail(10)
	if len(got) != 3 {
		t.Errorf("Tail(10): expected 3 lines, got %d", len(got))
	}
}

// TestLogBufferEmpty verifies a fresh ring returns nothing.
func TestLogBufferEmpty(t *testing.T) {
	var b logBuffer
	if got := b.Tail(5); got != nil {
		t.Errorf("Expected nil from empty ring, got %v", got)
	}
}

// TestLogBufferWraps verifies the oldest entries are overwritten once the
// ring is full.
func TestLogBufferWraps(t *testing.T) {
	var b logBuffer
	total := logRingSize + 44
	for i := 0; i < total; i++ {
		b.Append(fmt.Sprintf("line-%d", i))
	}

	got := b.Tail(1)
	if len(got) != 1 || got[0] != fmt.Sprintf("line-%d", total-1) {
		t.Errorf("Expected newest line-%d, got %v", total-1, got)
	}

	all := b.Tail(0)
	if len(all) != logRingSize {
		t.Fatalf("Expected %d retained lines, got %d", logRingSize, len(all))
	}
	if all[logRingSize-1] != "line-44" {
		t.Errorf("Expected oldest retained line-44, got %s", all[logRingSize-1])
	}
}
