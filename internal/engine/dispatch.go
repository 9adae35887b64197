package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/edirooss/vision-server/internal/domain/vision"
	"go.uber.org/zap"
)

// Model is the opaque inference backend: one call per assembled batch.
// Implementations must be safe for concurrent calls; the engine runs one
// call per worker at a time.
type Model interface {
	InferBatch(ctx context.Context, frames []*vision.Frame) ([]vision.InferenceResult, error)
}

const batchErrLogInterval = 15 * time.Second

// dispatcher owns the fixed worker pool between the queue and the model.
// Each worker drains a batch (full or timeout, whichever first), runs one
// model call and applies the per-frame results.
type dispatcher struct {
	log          *zap.Logger
	queue        *queue
	model        Model
	workers      int
	batchSize    int
	batchTimeout time.Duration
	apply        func(*vision.Frame, vision.InferenceResult)

	wg sync.WaitGroup

	batches       atomic.Uint64
	failedBatches atomic.Uint64
	infMS         *ewma

	errLogMu   sync.Mutex
	lastErrLog time.Time
}

func newDispatcher(log *zap.Logger, q *queue, model Model, cfg Config, apply func(*vision.Frame, vision.InferenceResult)) *dispatcher {
	return &dispatcher{
		log:          log.Named("dispatch"),
		queue:        q,
		model:        model,
		workers:      cfg.Workers,
		batchSize:    cfg.BatchSize,
		batchTimeout: cfg.BatchTimeout,
		apply:        apply,
		infMS:        newEWMA(0.2),
	}
}

func (d *dispatcher) start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
}

func (d *dispatcher) wait() { d.wg.Wait() }

func (d *dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()
	log := d.log.With(zap.Int("worker", id))
	log.Debug("worker started")

	for {
		batch := d.queue.Drain(ctx, d.batchSize, d.batchTimeout)
		if ctx.Err() != nil {
			releaseAll(batch)
			log.Debug("worker stopped")
			return
		}
		if len(batch) == 0 {
			continue
		}

		start := time.Now()
		results, err := d.model.InferBatch(ctx, batch)
		elapsed := time.Since(start)

		if err == nil && len(results) != len(batch) {
			err = fmt.Errorf("model returned %d results for %d frames", len(results), len(batch))
		}
		if err != nil {
			// Failed batches are dropped, never retried. The cache keeps
			// serving each channel's previous result.
			d.failedBatches.Add(1)
			releaseAll(batch)
			d.logBatchFailure(log, err, len(batch))
			continue
		}

		d.batches.Add(1)
		d.infMS.Observe(float64(elapsed) / float64(time.Millisecond))

		completed := time.Now()
		for i, f := range batch {
			res := results[i]
			// Identity comes from the submitted frame, not the model echo:
			// results cannot cross channels even if the backend misbehaves.
			res.Channel = f.Channel
			res.Sequence = f.Sequence
			res.InferenceTime = elapsed
			res.CompletedAt = completed
			d.apply(f, res)
			f.Release()
		}
	}
}

func releaseAll(frames []*vision.Frame) {
	for _, f := range frames {
		f.Release()
	}
}

// logBatchFailure emits at most one error per interval; a dead model would
// otherwise flood the log at worker rate.
func (d *dispatcher) logBatchFailure(log *zap.Logger, err error, size int) {
	d.errLogMu.Lock()
	defer d.errLogMu.Unlock()
	if time.Since(d.lastErrLog) < batchErrLogInterval {
		return
	}
	d.lastErrLog = time.Now()
	log.Error("batch inference failed",
		zap.Int("batch_size", size),
		zap.Uint64("failed_batches", d.failedBatches.Load()),
		zap.Error(err),
	)
}
