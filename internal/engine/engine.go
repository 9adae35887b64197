// Package engine implements the serving core: per-camera decode sessions
// feeding a bounded queue, a fixed worker pool batching frames into an
// opaque detection model, and a per-channel last-result cache.
//
// Design invariants:
//
//   - Exactly one session per channel. Start is exclusive, stop idempotent
//     at the service layer (second stop reports ErrNotFound).
//   - Frame submission never blocks. A full queue drops the incoming frame.
//   - A channel has at most one frame in flight, so its results apply in
//     submission order without any reordering machinery.
//   - Reads (stream, stats) never wait on inference; they see the last
//     completed result.
//   - One channel's failure never touches another channel's session.
package engine

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/edirooss/vision-server/internal/domain/camera"
	"github.com/edirooss/vision-server/internal/domain/vision"
	"github.com/edirooss/vision-server/pkg/avurl"
	"go.uber.org/zap"
)

var (
	ErrAlreadyRunning = errors.New("channel already running")
	ErrNotFound       = errors.New("channel not found")
	ErrClosed         = errors.New("engine closed")
)

// Config sizes the engine. Zero values fall back to serving defaults.
type Config struct {
	Workers      int
	BatchSize    int
	BatchTimeout time.Duration
	// QueueCapacity bounds decode-to-inference backpressure.
	QueueCapacity int
	// TargetFPS is the default per-channel submit cap; a camera's own
	// TargetFPS overrides it.
	TargetFPS     float64
	MaxRetries    int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
	JPEGQuality   int
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 3
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 4
	}
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = 100 * time.Millisecond
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = 100
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 10
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Second
	}
	if c.MaxRetryDelay <= 0 {
		c.MaxRetryDelay = 30 * time.Second
	}
	if c.JPEGQuality <= 0 {
		c.JPEGQuality = 85
	}
	return c
}

// SourceFactory builds the frame source for a camera at session start.
type SourceFactory func(cam *camera.Camera) vision.Source

// LogTailer is implemented by sources that retain a diagnostic tail of the
// decode process output.
type LogTailer interface {
	Tail(n int) []string
}

// Engine is the serving core. One Engine per process; all dependencies are
// explicit constructor arguments.
type Engine struct {
	log       *zap.Logger
	cfg       Config
	model     Model
	newSource SourceFactory

	// resultHook, when set, receives every applied result. Set before the
	// first StartChannel; not synchronized afterwards.
	resultHook func(vision.InferenceResult)

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[int64]*session
	closed   bool

	queue *queue
	cache *resultCache
	disp  *dispatcher

	startedAt time.Time
}

// New builds the engine and starts its worker pool. Decoding starts per
// channel via StartChannel.
func New(log *zap.Logger, cfg Config, model Model, newSource SourceFactory) *Engine {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	e := &Engine{
		log:       log.Named("engine"),
		cfg:       cfg,
		model:     model,
		newSource: newSource,
		ctx:       ctx,
		cancel:    cancel,
		sessions:  make(map[int64]*session),
		queue:     newQueue(cfg.QueueCapacity),
		cache:     newResultCache(),
		startedAt: time.Now(),
	}
	e.disp = newDispatcher(e.log, e.queue, model, cfg, e.applyResult)
	e.disp.start(ctx)

	e.log.Info("engine started",
		zap.Int("workers", cfg.Workers),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Duration("batch_timeout", cfg.BatchTimeout),
		zap.Int("queue_capacity", cfg.QueueCapacity),
	)
	return e
}

// OnResult registers a hook invoked for every applied inference result.
// Must be called before the first StartChannel.
func (e *Engine) OnResult(fn func(vision.InferenceResult)) { e.resultHook = fn }

// StartChannel spins up a decode session for the camera. Returns
// ErrAlreadyRunning when the channel has a live session.
func (e *Engine) StartChannel(cam *camera.Camera) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if _, ok := e.sessions[cam.Channel]; ok {
		return ErrAlreadyRunning
	}

	s := newSession(e.log, cam, e.newSource(cam), e.queue, e.cfg)
	e.cache.Register(cam.Channel, s.id)
	s.start(e.ctx)
	e.sessions[cam.Channel] = s

	e.log.Info("channel started",
		zap.Int64("channel", cam.Channel),
		zap.String("session_id", s.id),
		zap.String("source", avurl.Redacted(cam.Source.URL)),
	)
	return nil
}

// StopChannel tears the channel's session down and joins its decode loop.
// Returns ErrNotFound when no session exists, which makes a repeated stop
// observably idempotent.
func (e *Engine) StopChannel(channel int64) error {
	e.mu.Lock()
	s, ok := e.sessions[channel]
	if ok {
		delete(e.sessions, channel)
	}
	e.mu.Unlock()

	if !ok {
		return ErrNotFound
	}

	// Join the decode loop first; afterwards the cache slot can go. Results
	// still in flight fail the session-ID check on apply and are discarded.
	s.stop()
	e.cache.Deregister(channel, s.id)

	e.log.Info("channel stopped",
		zap.Int64("channel", channel),
		zap.String("session_id", s.id),
	)
	return nil
}

// Close stops all sessions, then the worker pool. Safe to call twice.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	sessions := make([]*session, 0, len(e.sessions))
	for _, s := range e.sessions {
		sessions = append(sessions, s)
	}
	e.sessions = make(map[int64]*session)
	e.mu.Unlock()

	for _, s := range sessions {
		s.stop()
		e.cache.Deregister(s.cam.Channel, s.id)
	}

	e.cancel()
	e.disp.wait()
	e.log.Info("engine closed")
}

// Active reports whether the channel has a live session.
func (e *Engine) Active(channel int64) bool {
	return e.session(channel) != nil
}

// ListActive returns the channels with live sessions in ascending order.
func (e *Engine) ListActive() []int64 {
	e.mu.Lock()
	channels := make([]int64, 0, len(e.sessions))
	for ch := range e.sessions {
		channels = append(channels, ch)
	}
	e.mu.Unlock()

	sort.Slice(channels, func(i, j int) bool { return channels[i] < channels[j] })
	return channels
}

// Latest returns the channel's most recent completed result, if any.
// Never blocks on inference.
func (e *Engine) Latest(channel int64) (*Record, bool) {
	return e.cache.Read(channel)
}

// SessionLogs returns the trailing decode diagnostics for a channel, newest
// first. Channels whose source keeps no logs return an empty slice.
func (e *Engine) SessionLogs(channel int64, n int) ([]string, error) {
	s := e.session(channel)
	if s == nil {
		return nil, ErrNotFound
	}
	if t, ok := s.src.(LogTailer); ok {
		if lines := t.Tail(n); lines != nil {
			return lines, nil
		}
	}
	return []string{}, nil
}

func (e *Engine) session(channel int64) *session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessions[channel]
}

// applyResult runs on a dispatch worker for each completed frame: annotate,
// publish to the cache (session-fenced), update session meters, notify the
// hook.
func (e *Engine) applyResult(f *vision.Frame, res vision.InferenceResult) {
	out := f.JPEG
	annotated, err := annotateJPEG(f.JPEG, res.Detections, e.cfg.JPEGQuality)
	if err == nil {
		out = annotated
	} else {
		e.log.Warn("annotate failed, serving raw frame", zap.Int64("channel", f.Channel), zap.Error(err))
	}

	rec := &Record{
		Result:    res,
		JPEG:      out,
		Width:     f.Width,
		Height:    f.Height,
		UpdatedAt: res.CompletedAt,
	}
	if !e.cache.Apply(f.Channel, f.SessionID, rec) {
		// Session ended while the batch was in flight; result discarded.
		return
	}

	if s := e.session(f.Channel); s != nil && s.id == f.SessionID {
		s.noteResult(res)
	}

	if e.resultHook != nil {
		e.resultHook(res)
	}
}
