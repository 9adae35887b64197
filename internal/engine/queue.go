package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/edirooss/vision-server/internal/domain/vision"
)

// queue is the bounded handoff between decode sessions and dispatch workers.
//
// Submission never blocks: when the queue is full the incoming frame is
// dropped (newest-first policy) and counted. A stalled or slow model
// therefore backs up at most Capacity frames; decoders keep running at
// full rate regardless.
type queue struct {
	frames    chan *vision.Frame
	submitted atomic.Uint64
	dropped   atomic.Uint64
}

func newQueue(capacity int) *queue {
	return &queue{frames: make(chan *vision.Frame, capacity)}
}

// TrySubmit enqueues f without blocking. Returns false when the queue is
// full; the caller keeps ownership of the frame and must release it.
func (q *queue) TrySubmit(f *vision.Frame) bool {
	select {
	case q.frames <- f:
		q.submitted.Add(1)
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Drain collects up to max frames, waiting at most wait for the batch to
// form. Returns nil when nothing arrived within the window. Ownership of the
// returned frames passes to the caller.
func (q *queue) Drain(ctx context.Context, max int, wait time.Duration) []*vision.Frame {
	if max <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	var batch []*vision.Frame
	select {
	case f := <-q.frames:
		batch = append(make([]*vision.Frame, 0, max), f)
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return nil
	}

	for len(batch) < max {
		select {
		case f := <-q.frames:
			batch = append(batch, f)
		case <-timer.C:
			return batch
		case <-ctx.Done():
			return batch
		}
	}
	return batch
}

func (q *queue) Depth() int    { return len(q.frames) }
func (q *queue) Capacity() int { return cap(q.frames) }

func (q *queue) Submitted() uint64 { return q.submitted.Load() }
func (q *queue) Dropped() uint64   { return q.dropped.Load() }
