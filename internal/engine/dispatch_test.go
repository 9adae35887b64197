package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edirooss/vision-server/internal/domain/vision"
	"go.uber.org/zap"
)

// funcModel adapts a function to the Model interface.
type funcModel struct {
	infer func(ctx context.Context, frames []*vision.Frame) ([]vision.InferenceResult, error)
}

func (m funcModel) InferBatch(ctx context.Context, frames []*vision.Frame) ([]vision.InferenceResult, error) {
	return m.infer(ctx, frames)
}

type applied struct {
	frame *vision.Frame
	res   vision.InferenceResult
}

func startTestDispatcher(t *testing.T, q *queue, model Model, cfg Config) (*dispatcher, chan applied, context.CancelFunc) {
	t.Helper()
	out := make(chan applied, 64)
	d := newDispatcher(zap.NewNop(), q, model, cfg, func(f *vision.Frame, res vision.InferenceResult) {
		out <- applied{frame: f, res: res}
	})
	ctx, cancel := context.WithCancel(context.Background())
	d.start(ctx)
	t.Cleanup(func() {
		cancel()
		d.wait()
	})
	return d, out, cancel
}

// TestDispatcherStampsIdentityFromFrames verifies results carry the
// submitted frame's channel and sequence even when the model echoes garbage,
// so results can never land on the wrong channel.
func TestDispatcherStampsIdentityFromFrames(t *testing.T) {
	q := newQueue(8)
	model := funcModel{infer: func(_ context.Context, frames []*vision.Frame) ([]vision.InferenceResult, error) {
		out := make([]vision.InferenceResult, len(frames))
		for i := range frames {
			out[i] = vision.InferenceResult{
				Channel:  999, // wrong on purpose
				Sequence: 999,
				Detections: []vision.Detection{
					{Label: fmt.Sprintf("obj-%d", i), Confidence: 0.5},
				},
			}
		}
		return out, nil
	}}
	_, out, _ := startTestDispatcher(t, q, model, Config{Workers: 1, BatchSize: 2, BatchTimeout: 20 * time.Millisecond})

	var rel1, rel2 atomic.Bool
	f1 := &vision.Frame{Channel: 5, Sequence: 11}
	f1.OnRelease(func() { rel1.Store(true) })
	f2 := &vision.Frame{Channel: 9, Sequence: 3}
	f2.OnRelease(func() { rel2.Store(true) })

	q.TrySubmit(f1)
	q.TrySubmit(f2)

	got := make(map[int64]applied, 2)
	for i := 0; i < 2; i++ {
		select {
		case a := <-out:
			got[a.res.Channel] = a
		case <-time.After(2 * time.Second):
			t.Fatal("Timeout waiting for applied results")
		}
	}

	a5, ok := got[5]
	if !ok {
		t.Fatal("No result for channel 5")
	}
	if a5.res.Sequence != 11 {
		t.Errorf("Channel 5: expected sequence 11, got %d", a5.res.Sequence)
	}
	a9, ok := got[9]
	if !ok {
		t.Fatal("No result for channel 9")
	}
	if a9.res.Sequence != 3 {
		t.Errorf("Channel 9: expected sequence 3, got %d", a9.res.Sequence)
	}

	for ch, a := range got {
		if a.res.CompletedAt.IsZero() {
			t.Errorf("Channel %d: CompletedAt not stamped", ch)
		}
		if len(a.res.Detections) != 1 {
			t.Errorf("Channel %d: expected 1 detection, got %d", ch, len(a.res.Detections))
		}
	}

	if !rel1.Load() || !rel2.Load() {
		t.Error("Frames not released after apply")
	}
}

// TestDispatcherDropsFailedBatch verifies a failed model call drops the
// batch: no results applied, frames released, failure counted.
func TestDispatcherDropsFailedBatch(t *testing.T) {
	q := newQueue(8)
	model := funcModel{infer: func(context.Context, []*vision.Frame) ([]vision.InferenceResult, error) {
		return nil, fmt.Errorf("model unavailable")
	}}
	d, out, _ := startTestDispatcher(t, q, model, Config{Workers: 1, BatchSize: 2, BatchTimeout: 10 * time.Millisecond})

	var released atomic.Int32
	for i := 0; i < 2; i++ {
		f := &vision.Frame{Channel: 1, Sequence: uint64(i + 1)}
		f.OnRelease(func() { released.Add(1) })
		q.TrySubmit(f)
	}

	deadline := time.Now().Add(2 * time.Second)
	for d.failedBatches.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Timeout waiting for failed batch")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if got := released.Load(); got != 2 {
		t.Errorf("Expected 2 frames released, got %d", got)
	}
	select {
	case a := <-out:
		t.Fatalf("Result applied from a failed batch: %+v", a.res)
	default:
	}
	if d.batches.Load() != 0 {
		t.Errorf("Expected 0 successful batches, got %d", d.batches.Load())
	}
}

// TestDispatcherRejectsCountMismatch verifies a model returning the wrong
// number of results is treated as a failed batch.
func TestDispatcherRejectsCountMismatch(t *testing.T) {
	q := newQueue(8)
	model := funcModel{infer: func(_ context.Context, frames []*vision.Frame) ([]vision.InferenceResult, error) {
		return make([]vision.InferenceResult, len(frames)+1), nil
	}}
	d, out, _ := startTestDispatcher(t, q, model, Config{Workers: 1, BatchSize: 1, BatchTimeout: 10 * time.Millisecond})

	q.TrySubmit(&vision.Frame{Channel: 1, Sequence: 1})

	deadline := time.Now().Add(2 * time.Second)
	for d.failedBatches.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Timeout waiting for failed batch")
		}
		time.Sleep(5 * time.Millisecond)
	}
	select {
	case <-out:
		t.Fatal("Result applied despite count mismatch")
	default:
	}
}

// TestDispatcherBatchesByTimeout verifies a lone frame is dispatched when
// the batch window closes instead of waiting for a full batch.
func TestDispatcherBatchesByTimeout(t *testing.T) {
	q := newQueue(8)
	model := funcModel{infer: func(_ context.Context, frames []*vision.Frame) ([]vision.InferenceResult, error) {
		return make([]vision.InferenceResult, len(frames)), nil
	}}
	_, out, _ := startTestDispatcher(t, q, model, Config{Workers: 1, BatchSize: 64, BatchTimeout: 30 * time.Millisecond})

	start := time.Now()
	q.TrySubmit(&vision.Frame{Channel: 2, Sequence: 1})

	select {
	case a := <-out:
		if a.res.Channel != 2 {
			t.Errorf("Expected channel 2, got %d", a.res.Channel)
		}
		// One batch window plus scheduling slack.
		if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
			t.Errorf("Lone frame took %v, expected about the 30ms window", elapsed)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for lone frame result")
	}
}

// TestDispatcherStopsOnCancel verifies workers exit and release in-flight
// batches when the engine shuts down.
func TestDispatcherStopsOnCancel(t *testing.T) {
	q := newQueue(8)
	model := funcModel{infer: func(_ context.Context, frames []*vision.Frame) ([]vision.InferenceResult, error) {
		return make([]vision.InferenceResult, len(frames)), nil
	}}
	d, _, cancel := startTestDispatcher(t, q, model, Config{Workers: 2, BatchSize: 4, BatchTimeout: 10 * time.Millisecond})

	cancel()
	done := make(chan struct{})
	go func() {
		d.wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Workers did not exit after cancel")
	}
}
