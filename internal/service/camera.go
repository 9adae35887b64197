package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/edirooss/vision-server/internal/domain/camera"
	"github.com/edirooss/vision-server/internal/engine"
	"github.com/edirooss/vision-server/internal/repo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// -----------------------------------------------------------------------------
// CameraService
// -----------------------------------------------------------------------------
//
// Runtime model
//   • Single process, many concurrent requests.
//   • Mutations for the SAME channel are serialized via a per-channel gate;
//     a second mutation in flight fast-fails with ErrLocked.
//   • Reads (stats, stream, logs) are lock-free.
//
// Contract (runtime-first)
//   • The engine is the source of truth for what is running. Side-effects
//     land first, then the registry is updated.
//   • The Redis registry is advisory: it feeds resume-on-boot and survives
//     restarts, but a registry failure never fails a start or stop.

// CameraStore persists the camera registry.
type CameraStore interface {
	Upsert(ctx context.Context, cam *camera.Camera) error
	GetByID(ctx context.Context, channel int64) (*camera.Camera, error)
	GetAll(ctx context.Context) ([]*camera.Camera, error)
	Delete(ctx context.Context, channel int64) error
}

// ErrLocked signals a concurrent mutation is already in flight for this
// channel.
var ErrLocked = errors.New("channel locked")

// CameraService coordinates the engine (runtime) and the registry (Redis).
type CameraService struct {
	log         *zap.Logger
	engine      *engine.Engine
	store       CameraStore
	defaults    camera.Defaults
	maxChannels int

	// per-channel locks to serialize mutating requests on the same ID
	muxes sync.Map // map[int64]*gate
}

// gate is a tiny 1-token semaphore with TryLock semantics (non-blocking fast-fail).
type gate struct{ ch chan struct{} }

func newGate() *gate {
	g := &gate{ch: make(chan struct{}, 1)}
	g.ch <- struct{}{} // token present => unlocked
	return g
}
func (g *gate) TryLock() bool {
	select {
	case <-g.ch:
		return true
	default:
		return false
	}
}
func (g *gate) Unlock() {
	select {
	case g.ch <- struct{}{}:
	default:
		panic("unlock of unlocked gate")
	}
}

func NewCameraService(log *zap.Logger, eng *engine.Engine, store CameraStore, defaults camera.Defaults, maxChannels int) *CameraService {
	return &CameraService{
		log:         log.Named("camera_service"),
		engine:      eng,
		store:       store,
		defaults:    defaults,
		maxChannels: maxChannels,
	}
}

// tryLock attempts to acquire the per-channel gate without blocking.
func (s *CameraService) tryLock(channel int64) (func(), error) {
	v, _ := s.muxes.LoadOrStore(channel, newGate())
	g := v.(*gate)
	if !g.TryLock() {
		return func() {}, fmt.Errorf("channel %d: %w", channel, ErrLocked)
	}
	return func() { g.Unlock() }, nil
}

// Start brings the channel up. The camera spec comes from the registry when
// present, otherwise it is derived from the configured defaults. Returns
// already=true when the channel was running before the call.
func (s *CameraService) Start(ctx context.Context, channel int64) (already bool, err error) {
	unlock, err := s.tryLock(channel)
	if err != nil {
		return false, err
	}
	defer unlock()

	if err := camera.ValidateChannel(channel, s.maxChannels); err != nil {
		return false, err
	}

	cam := s.lookup(ctx, channel)

	if err := s.engine.StartChannel(cam); err != nil {
		if errors.Is(err, engine.ErrAlreadyRunning) {
			return true, nil
		}
		return false, fmt.Errorf("start channel: %w", err)
	}

	// Best-effort registry write; the channel is already running.
	if err := s.store.Upsert(ctx, cam); err != nil {
		s.log.Warn("camera registry upsert failed", zap.Int64("channel", channel), zap.Error(err))
	}
	return false, nil
}

// lookup resolves the camera spec for a channel. Registry misses and
// registry errors both fall back to defaults; an unreachable registry must
// not block starting a camera.
func (s *CameraService) lookup(ctx context.Context, channel int64) *camera.Camera {
	cam, err := s.store.GetByID(ctx, channel)
	if err == nil {
		return cam
	}
	if !errors.Is(err, repo.ErrCameraNotFound) && !errors.Is(err, context.Canceled) {
		s.log.Warn("camera registry lookup failed, using defaults",
			zap.Int64("channel", channel), zap.Error(err))
	}
	return s.defaults.Camera(channel)
}

// Stop tears the channel down. engine.ErrNotFound propagates so a repeated
// stop is observably idempotent.
func (s *CameraService) Stop(ctx context.Context, channel int64) error {
	unlock, err := s.tryLock(channel)
	if err != nil {
		return err
	}
	defer unlock()

	if err := camera.ValidateChannel(channel, s.maxChannels); err != nil {
		return err
	}

	if err := s.engine.StopChannel(channel); err != nil {
		return err
	}

	// Best-effort registry removal.
	if err := s.store.Delete(ctx, channel); err != nil && !errors.Is(err, repo.ErrCameraNotFound) {
		s.log.Warn("camera registry delete failed", zap.Int64("channel", channel), zap.Error(err))
	}
	return nil
}

// resumeParallelism bounds concurrent channel bring-up on boot.
const resumeParallelism = 8

// Resume starts every camera found in the registry. Individual failures are
// logged and skipped; the count of started channels is returned.
func (s *CameraService) Resume(ctx context.Context) (int, error) {
	cams, err := s.store.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load camera registry: %w", err)
	}
	if len(cams) == 0 {
		return 0, nil
	}

	var mu sync.Mutex
	started := 0

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(resumeParallelism)
	for _, cam := range cams {
		// The registry outlives config changes; entries outside the
		// current channel range are skipped, not fatal.
		if err := camera.ValidateChannel(cam.Channel, s.maxChannels); err != nil {
			s.log.Warn("skipping persisted camera", zap.Int64("channel", cam.Channel), zap.Error(err))
			continue
		}
		cam := cam
		g.Go(func() error {
			if err := s.engine.StartChannel(cam); err != nil {
				if !errors.Is(err, engine.ErrAlreadyRunning) {
					s.log.Warn("resume failed", zap.Int64("channel", cam.Channel), zap.Error(err))
				}
				return nil
			}
			mu.Lock()
			started++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return started, nil
}

// Logs returns the channel's trailing decode diagnostics, newest first.
func (s *CameraService) Logs(channel int64, n int) ([]string, error) {
	if err := camera.ValidateChannel(channel, s.maxChannels); err != nil {
		return nil, err
	}
	return s.engine.SessionLogs(channel, n)
}

// Active reports whether the channel is currently running.
func (s *CameraService) Active(channel int64) bool {
	return s.engine.Active(channel)
}
