package engine

import (
	"bytes"
	"context"
	"image/jpeg"
	"sync"
	"sync/atomic"
	"time"

	"github.com/edirooss/vision-server/internal/domain/camera"
	"github.com/edirooss/vision-server/internal/domain/vision"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	fpsWindow   = 5 * time.Second
	fpsMeterCap = 1024
)

// session is one running camera channel: its decode loop, status machine and
// counters. The session ID fences cache writes, so results from a stopped
// session can never land in a restarted channel's slot.
type session struct {
	log *zap.Logger
	id  string
	cam *camera.Camera
	src vision.Source

	queue     *queue
	dec       *decoder
	targetFPS float64
	startedAt time.Time

	mu      sync.Mutex
	status  vision.Status
	lastErr string

	// Decoder-goroutine state; single writer, no locking.
	seq        uint64
	lastSubmit time.Time

	inFlight atomic.Bool

	framesDecoded   atomic.Uint64
	framesSkipped   atomic.Uint64
	framesInvalid   atomic.Uint64
	framesSubmitted atomic.Uint64
	results         atomic.Uint64
	queueDrops      atomic.Uint64

	width  atomic.Int32
	height atomic.Int32

	fps   *rateMeter
	infMS *ewma
}

func newSession(log *zap.Logger, cam *camera.Camera, src vision.Source, q *queue, cfg Config) *session {
	s := &session{
		log:       log.Named("session").With(zap.Int64("channel", cam.Channel)),
		id:        uuid.NewString(),
		cam:       cam,
		src:       src,
		queue:     q,
		targetFPS: cam.TargetFPS,
		startedAt: time.Now(),
		status:    vision.StatusStarting,
		fps:       newRateMeter(fpsWindow, fpsMeterCap),
		infMS:     newEWMA(0.2),
	}
	if s.targetFPS == 0 {
		s.targetFPS = cfg.TargetFPS
	}
	s.dec = newDecoder(s.log, src, cfg, decoderHooks{
		onFrame:      s.handleFrame,
		onStreamUp:   func() { s.transition(vision.StatusRunning, nil) },
		onStreamDown: func(err error) { s.transition(vision.StatusDegraded, err) },
		onTerminal:   func(err error) { s.transition(vision.StatusError, err) },
	})
	return s
}

func (s *session) start(parent context.Context) { s.dec.start(parent) }

// stop joins the decode loop; no frame callbacks run after it returns.
func (s *session) stop() {
	s.dec.stop()
	s.transition(vision.StatusStopped, nil)
}

// handleFrame runs on the decoder goroutine for every decoded frame:
// throttle to the target rate, enforce one frame in flight per channel,
// then hand off to the shared queue.
func (s *session) handleFrame(data []byte) {
	now := time.Now()
	s.framesDecoded.Add(1)

	if s.targetFPS > 0 {
		interval := time.Duration(float64(time.Second) / s.targetFPS)
		if !s.lastSubmit.IsZero() && now.Sub(s.lastSubmit) < interval {
			s.framesSkipped.Add(1)
			return
		}
	}
	s.lastSubmit = now

	// At most one frame in flight per channel: keeps per-channel results
	// ordered and bounds each channel's queue share.
	if !s.inFlight.CompareAndSwap(false, true) {
		s.framesSkipped.Add(1)
		return
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		s.framesInvalid.Add(1)
		s.inFlight.Store(false)
		s.log.Debug("invalid frame skipped", zap.Error(err))
		return
	}
	s.width.Store(int32(cfg.Width))
	s.height.Store(int32(cfg.Height))

	f := &vision.Frame{
		Channel:    s.cam.Channel,
		SessionID:  s.id,
		Sequence:   s.seq + 1,
		CapturedAt: now,
		Width:      cfg.Width,
		Height:     cfg.Height,
		JPEG:       data,
	}
	f.OnRelease(func() { s.inFlight.Store(false) })

	if !s.queue.TrySubmit(f) {
		s.queueDrops.Add(1)
		f.Release()
		return
	}
	s.seq++
	s.framesSubmitted.Add(1)
	s.fps.Tick(now)
}

func (s *session) noteResult(res vision.InferenceResult) {
	s.results.Add(1)
	s.infMS.Observe(res.InferenceMS())
}

// transition applies a lifecycle step, refusing illegal ones. Connect
// retries before the first frame keep the session in Starting: the
// Starting->Degraded refusal here is what enforces that.
func (s *session) transition(next vision.Status, cause error) {
	s.mu.Lock()
	cur := s.status
	if !cur.CanTransition(next) {
		s.mu.Unlock()
		s.log.Debug("status transition refused", zap.Stringer("from", cur), zap.Stringer("to", next))
		return
	}
	s.status = next
	if cause != nil {
		s.lastErr = cause.Error()
	}
	s.mu.Unlock()

	fields := []zap.Field{zap.Stringer("from", cur), zap.Stringer("to", next)}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	if next == vision.StatusError {
		s.log.Error("channel entered terminal error", fields...)
	} else {
		s.log.Info("channel status changed", fields...)
	}
}

func (s *session) currentStatus() (vision.Status, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.lastErr
}

func (s *session) statsView(now time.Time) ChannelStats {
	status, lastErr := s.currentStatus()
	return ChannelStats{
		Channel:         s.cam.Channel,
		Status:          status,
		LastError:       lastErr,
		FPS:             s.fps.Rate(now),
		AvgInferenceMS:  s.infMS.Value(),
		Detections:      map[string]int{},
		Width:           int(s.width.Load()),
		Height:          int(s.height.Load()),
		FramesDecoded:   s.framesDecoded.Load(),
		FramesSkipped:   s.framesSkipped.Load(),
		FramesInvalid:   s.framesInvalid.Load(),
		FramesSubmitted: s.framesSubmitted.Load(),
		FramesDropped:   s.queueDrops.Load(),
		Results:         s.results.Load(),
		UptimeS:         int64(now.Sub(s.startedAt).Seconds()),
	}
}
