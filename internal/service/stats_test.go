package service

import (
	"testing"
	"time"

	"github.com/edirooss/vision-server/internal/domain/camera"
	"github.com/edirooss/vision-server/internal/domain/vision"
	"github.com/edirooss/vision-server/internal/engine"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	payload := encodeFrame(t)
	eng := engine.New(zap.NewNop(), engine.Config{
		Workers:       1,
		BatchSize:     2,
		BatchTimeout:  10 * time.Millisecond,
		QueueCapacity: 8,
		MaxRetries:    3,
		RetryDelay:    time.Millisecond,
		MaxRetryDelay: 2 * time.Millisecond,
	}, noopModel{}, func(*camera.Camera) vision.Source {
		return &frameSource{data: payload, interval: 3 * time.Millisecond}
	})
	t.Cleanup(eng.Close)
	return eng
}

// TestStatsGetCachesWithinTTL verifies back-to-back reads share one snapshot.
func TestStatsGetCachesWithinTTL(t *testing.T) {
	svc := NewStatsService(newTestEngine(t))

	first, cached := svc.Get()
	if first == nil {
		t.Fatal("Expected a snapshot")
	}
	if cached {
		t.Error("Lone first read should assemble, not hit the cache")
	}

	second, cached := svc.Get()
	if !cached {
		t.Error("Second read within the TTL should be cached")
	}
	if second != first {
		t.Error("Cached read should return the same snapshot")
	}
}

// TestStatsGetRefreshesAfterTTL verifies the cache expires.
func TestStatsGetRefreshesAfterTTL(t *testing.T) {
	svc := &StatsService{engine: newTestEngine(t), ttl: 20 * time.Millisecond}

	first, _ := svc.Get()
	time.Sleep(30 * time.Millisecond)

	second, cached := svc.Get()
	if cached {
		t.Error("Read past the TTL should assemble a fresh snapshot")
	}
	if second == first {
		t.Error("Expected a fresh snapshot after the TTL")
	}
}

// TestStatsSnapshotReflectsEngine verifies the snapshot carries live engine
// state, not a canned shape.
func TestStatsSnapshotReflectsEngine(t *testing.T) {
	eng := newTestEngine(t)
	defaults := camera.Defaults{URLTemplate: "rtsp://198.51.100.9:554/unicast/c%d/s0/live"}
	if err := eng.StartChannel(defaults.Camera(6)); err != nil {
		t.Fatalf("StartChannel failed: %v", err)
	}

	svc := NewStatsService(eng)
	snap, _ := svc.Get()
	if snap.Summary.ActiveCameras != 1 {
		t.Errorf("Expected 1 active camera, got %d", snap.Summary.ActiveCameras)
	}
	if snap.Summary.QueueCapacity != 8 {
		t.Errorf("Expected queue capacity 8, got %d", snap.Summary.QueueCapacity)
	}
	if len(snap.Cameras) != 1 || snap.Cameras[0].Channel != 6 {
		t.Errorf("Expected camera 6 in snapshot, got %+v", snap.Cameras)
	}
}
