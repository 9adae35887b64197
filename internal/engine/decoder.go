package engine

import (
	"context"
	"time"

	"github.com/edirooss/vision-server/internal/domain/vision"
	"go.uber.org/zap"
)

// decoderHooks are the session-side callbacks of a decode loop. All hooks are
// invoked from the decoder goroutine and must not block.
type decoderHooks struct {
	// onFrame receives each decoded frame payload.
	onFrame func(jpeg []byte)
	// onStreamUp fires on the first frame of each (re)connected stream.
	onStreamUp func()
	// onStreamDown fires when a connected stream drops; reconnect follows.
	onStreamDown func(err error)
	// onTerminal fires once when the retry budget is exhausted. The loop
	// exits afterwards.
	onTerminal func(err error)
}

// decoder runs one camera's decode loop: open the source, pump frames,
// reconnect with exponential backoff, give up after maxRetries consecutive
// failures.
type decoder struct {
	log   *zap.Logger
	src   vision.Source
	hooks decoderHooks

	maxRetries    int
	retryDelay    time.Duration
	maxRetryDelay time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newDecoder(log *zap.Logger, src vision.Source, cfg Config, hooks decoderHooks) *decoder {
	return &decoder{
		log:           log,
		src:           src,
		hooks:         hooks,
		maxRetries:    cfg.MaxRetries,
		retryDelay:    cfg.RetryDelay,
		maxRetryDelay: cfg.MaxRetryDelay,
		done:          make(chan struct{}),
	}
}

// start launches the decode loop under parent.
func (d *decoder) start(parent context.Context) {
	d.ctx, d.cancel = context.WithCancel(parent)
	go d.run()
}

// stop cancels the loop and joins it. Idempotent.
func (d *decoder) stop() {
	d.cancel()
	<-d.done
}

func (d *decoder) run() {
	defer close(d.done)

	attempt := 0
	for {
		if d.ctx.Err() != nil {
			return
		}

		r, err := d.src.Open(d.ctx)
		if err != nil {
			if d.ctx.Err() != nil {
				return
			}
			attempt++
			if attempt >= d.maxRetries {
				d.hooks.onTerminal(err)
				return
			}
			d.log.Warn("source open failed",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", d.backoff(attempt)),
				zap.Error(err),
			)
			if !d.sleep(d.backoff(attempt)) {
				return
			}
			continue
		}

		frames, err := d.consume(r)
		_ = r.Close()
		if d.ctx.Err() != nil {
			return
		}

		// A stream that delivered frames resets the failure budget.
		if frames > 0 {
			attempt = 0
		}
		attempt++
		if attempt >= d.maxRetries {
			d.hooks.onTerminal(err)
			return
		}

		d.hooks.onStreamDown(err)
		d.log.Warn("stream dropped",
			zap.Uint64("frames", frames),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", d.backoff(attempt)),
			zap.Error(err),
		)
		if !d.sleep(d.backoff(attempt)) {
			return
		}
	}
}

// consume pumps frames from r until the stream errors or the decoder stops.
// Returns the number of frames delivered.
func (d *decoder) consume(r vision.FrameReader) (uint64, error) {
	var n uint64
	first := true
	for {
		if d.ctx.Err() != nil {
			return n, nil
		}
		data, err := r.ReadFrame()
		if err != nil {
			return n, err
		}
		if first {
			d.hooks.onStreamUp()
			first = false
		}
		n++
		d.hooks.onFrame(data)
	}
}

// backoff doubles per attempt from retryDelay, capped at maxRetryDelay.
func (d *decoder) backoff(attempt int) time.Duration {
	delay := d.retryDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= d.maxRetryDelay {
			return d.maxRetryDelay
		}
	}
	if delay > d.maxRetryDelay {
		return d.maxRetryDelay
	}
	return delay
}

// sleep waits for dur or until the decoder stops. Returns false on stop.
func (d *decoder) sleep(dur time.Duration) bool {
	timer := time.NewTimer(dur)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-d.ctx.Done():
		return false
	}
}
