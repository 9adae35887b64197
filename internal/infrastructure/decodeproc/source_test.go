//go:build linux

package decodeproc

import (
	"bytes"
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

// shSource builds a Source that runs a shell one-liner instead of FFmpeg.
func shSource(script string) *Source {
	return NewSource(zap.NewNop(), []string{"/bin/sh", "-c", script})
}

// TestSourceReadsFrameFromChild verifies a child's stdout is split into
// frames and the reader drains cleanly when the child exits.
func TestSourceReadsFrameFromChild(t *testing.T) {
	// Octal for FF D8 'A' 'B' FF D9.
	src := shSource(`printf '\377\330AB\377\331'`)

	r, err := src.Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	frame, err := r.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	want := []byte{0xFF, 0xD8, 'A', 'B', 0xFF, 0xD9}
	if !bytes.Equal(frame, want) {
		t.Errorf("Expected % X, got % X", want, frame)
	}

	if _, err := r.ReadFrame(); err == nil {
		t.Error("Expected error after the child exited")
	}
}

// TestSourceTailCapturesStderr verifies child diagnostics land in the ring.
func TestSourceTailCapturesStderr(t *testing.T) {
	src := shSource(`echo boom >&2; printf '\377\330\377\331'`)

	r, err := src.Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := r.ReadFrame(); err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	// Close joins the reap, and the reap waits for the stderr drain.
	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	tail := src.Tail(10)
	found := false
	for _, line := range tail {
		if line == "boom" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected 'boom' in tail, got %v", tail)
	}
}

// TestSourceCancelTerminatesChild verifies ctx cancellation kills a silent
// child and unblocks the pending read.
func TestSourceCancelTerminatesChild(t *testing.T) {
	src := shSource(`sleep 30`)

	ctx, cancel := context.WithCancel(context.Background())
	r, err := src.Open(ctx)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	readErr := make(chan error, 1)
	go func() {
		_, err := r.ReadFrame()
		readErr <- err
	}()

	cancel()

	select {
	case err := <-readErr:
		if err == nil {
			t.Error("Expected read error after cancellation")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ReadFrame still blocked after cancellation")
	}

	done := make(chan struct{})
	go func() {
		r.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not reap the child")
	}
}

// TestSourceOpenRejectsCanceledContext verifies no child is spawned when
// the session is already over.
func TestSourceOpenRejectsCanceledContext(t *testing.T) {
	src := shSource(`sleep 30`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.Open(ctx); err == nil {
		t.Fatal("Expected error from Open under canceled context")
	}
}

// TestSourceOpenMissingBinary verifies a clear startup error.
func TestSourceOpenMissingBinary(t *testing.T) {
	src := NewSource(zap.NewNop(), []string{"/nonexistent/decoder-binary"})
	if _, err := src.Open(context.Background()); err == nil {
		t.Fatal("Expected error for missing binary")
	}
}
