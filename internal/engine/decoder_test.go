package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edirooss/vision-server/internal/domain/vision"
	"go.uber.org/zap"
)

var errStream = errors.New("stream gone")

// funcSource adapts a function to the vision.Source interface.
type funcSource struct {
	open func(ctx context.Context) (vision.FrameReader, error)
}

func (s funcSource) Open(ctx context.Context) (vision.FrameReader, error) { return s.open(ctx) }

// scriptReader serves count frames, then fails with err. ReadFrame honors
// the session context like a real source.
type scriptReader struct {
	ctx   context.Context
	count int
	data  []byte
	err   error
}

func (r *scriptReader) ReadFrame() ([]byte, error) {
	if r.ctx.Err() != nil {
		return nil, r.ctx.Err()
	}
	if r.count <= 0 {
		return nil, r.err
	}
	r.count--
	return r.data, nil
}

func (r *scriptReader) Close() error { return nil }

func testDecoderConfig() Config {
	return Config{
		MaxRetries:    3,
		RetryDelay:    time.Millisecond,
		MaxRetryDelay: 4 * time.Millisecond,
	}
}

// TestDecoderTerminalAfterConsecutiveOpenFailures verifies the retry budget:
// with MaxRetries=3, the third failed connect is terminal and the loop exits
// without further attempts.
func TestDecoderTerminalAfterConsecutiveOpenFailures(t *testing.T) {
	var opens atomic.Int32
	src := funcSource{open: func(ctx context.Context) (vision.FrameReader, error) {
		opens.Add(1)
		return nil, errStream
	}}

	terminal := make(chan error, 1)
	d := newDecoder(zap.NewNop(), src, testDecoderConfig(), decoderHooks{
		onFrame:      func([]byte) {},
		onStreamUp:   func() {},
		onStreamDown: func(error) {},
		onTerminal:   func(err error) { terminal <- err },
	})
	d.start(context.Background())
	defer d.stop()

	select {
	case err := <-terminal:
		if !errors.Is(err, errStream) {
			t.Errorf("Expected terminal cause %v, got %v", errStream, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for terminal")
	}

	<-d.done
	if got := opens.Load(); got != 3 {
		t.Errorf("Expected exactly 3 open attempts, got %d", got)
	}
}

// TestDecoderBackoffDoubles verifies the delay schedule doubles per attempt
// and caps at MaxRetryDelay.
func TestDecoderBackoffDoubles(t *testing.T) {
	d := &decoder{retryDelay: time.Second, maxRetryDelay: 10 * time.Second}

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second},
		{9, 10 * time.Second},
	}
	for _, tc := range cases {
		if got := d.backoff(tc.attempt); got != tc.want {
			t.Errorf("Attempt %d: expected backoff %v, got %v", tc.attempt, tc.want, got)
		}
	}
}

// TestDecoderFramesResetRetryBudget verifies a stream that delivered frames
// resets the failure count: repeated short-lived streams never hit terminal,
// while a connect that delivers nothing still burns budget.
func TestDecoderFramesResetRetryBudget(t *testing.T) {
	cfg := testDecoderConfig()
	cfg.MaxRetries = 2

	var opens atomic.Int32
	src := funcSource{open: func(ctx context.Context) (vision.FrameReader, error) {
		n := opens.Add(1)
		if n <= 3 {
			// Delivers one frame, then drops.
			return &scriptReader{ctx: ctx, count: 1, data: []byte{0xFF}, err: errStream}, nil
		}
		// Connects but delivers nothing.
		return &scriptReader{ctx: ctx, count: 0, err: errStream}, nil
	}}

	var frames, ups, downs atomic.Int32
	terminal := make(chan error, 1)
	d := newDecoder(zap.NewNop(), src, cfg, decoderHooks{
		onFrame:      func([]byte) { frames.Add(1) },
		onStreamUp:   func() { ups.Add(1) },
		onStreamDown: func(error) { downs.Add(1) },
		onTerminal:   func(err error) { terminal <- err },
	})
	d.start(context.Background())
	defer d.stop()

	select {
	case <-terminal:
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for terminal")
	}
	<-d.done

	// Streams 1-3 each delivered a frame, so each drop restarted the budget
	// and the decoder kept reconnecting past MaxRetries=2. Stream 4 delivered
	// nothing on a count of 1, which exhausted the budget.
	if got := opens.Load(); got != 4 {
		t.Errorf("Expected 4 open attempts, got %d", got)
	}
	if got := frames.Load(); got != 3 {
		t.Errorf("Expected 3 frames, got %d", got)
	}
	if got := ups.Load(); got != 3 {
		t.Errorf("Expected 3 stream-up events, got %d", got)
	}
	if got := downs.Load(); got != 3 {
		t.Errorf("Expected 3 stream-down events, got %d", got)
	}
}

// TestDecoderStopJoins verifies stop cancels a blocked read and returns only
// after the loop exits.
func TestDecoderStopJoins(t *testing.T) {
	src := funcSource{open: func(ctx context.Context) (vision.FrameReader, error) {
		return blockingReader{ctx: ctx}, nil
	}}

	d := newDecoder(zap.NewNop(), src, testDecoderConfig(), decoderHooks{
		onFrame:      func([]byte) {},
		onStreamUp:   func() {},
		onStreamDown: func(error) {},
		onTerminal:   func(error) {},
	})
	d.start(context.Background())
	time.Sleep(10 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		d.stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stop did not join the decode loop")
	}
}

// blockingReader parks in ReadFrame until the session context ends.
type blockingReader struct{ ctx context.Context }

func (r blockingReader) ReadFrame() ([]byte, error) {
	<-r.ctx.Done()
	return nil, r.ctx.Err()
}

func (r blockingReader) Close() error { return nil }
