package engine

import (
	"sort"
	"time"

	"github.com/edirooss/vision-server/internal/domain/vision"
)

// ChannelStats is one camera's line in a stats snapshot.
type ChannelStats struct {
	Channel        int64         `json:"channel"`
	Status         vision.Status `json:"status"`
	LastError      string        `json:"last_error,omitempty"`
	FPS            float64       `json:"fps"`
	AvgInferenceMS float64       `json:"avg_inference_ms"`
	// Detections counts labels in the most recent completed result.
	Detections      map[string]int `json:"detections"`
	Width           int            `json:"width"`
	Height          int            `json:"height"`
	FramesDecoded   uint64         `json:"frames_decoded"`
	FramesSkipped   uint64         `json:"frames_skipped"`
	FramesInvalid   uint64         `json:"frames_invalid,omitempty"`
	FramesSubmitted uint64         `json:"frames_submitted"`
	FramesDropped   uint64         `json:"frames_dropped"`
	Results         uint64         `json:"results"`
	UptimeS         int64          `json:"uptime_s"`
}

// Summary aggregates across all live channels plus the shared pipeline.
type Summary struct {
	ActiveCameras     int     `json:"active_cameras"`
	TotalFPS          float64 `json:"total_fps"`
	AvgInferenceMS    float64 `json:"avg_inference_ms"`
	QueueDepth        int     `json:"queue_depth"`
	QueueCapacity     int     `json:"queue_capacity"`
	FramesDropped     uint64  `json:"frames_dropped"`
	BatchesDispatched uint64  `json:"batches_dispatched"`
	FailedBatches     uint64  `json:"failed_batches"`
	UptimeS           int64   `json:"uptime_s"`
}

// Snapshot is a point-in-time view of the engine.
type Snapshot struct {
	Cameras     []ChannelStats `json:"cameras"`
	Summary     Summary        `json:"summary"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// Snapshot assembles stats without pausing decode or inference. Counters
// are read individually, so values from a busy pipeline can be slightly
// skewed against each other; each counter is itself exact.
func (e *Engine) Snapshot() *Snapshot {
	now := time.Now()

	e.mu.Lock()
	sessions := make([]*session, 0, len(e.sessions))
	for _, s := range e.sessions {
		sessions = append(sessions, s)
	}
	e.mu.Unlock()

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].cam.Channel < sessions[j].cam.Channel })

	cameras := make([]ChannelStats, 0, len(sessions))
	var totalFPS float64
	for _, s := range sessions {
		cs := s.statsView(now)
		if rec, ok := e.cache.Read(s.cam.Channel); ok {
			cs.Detections = rec.Result.CountByLabel()
			if cs.Width == 0 {
				cs.Width, cs.Height = rec.Width, rec.Height
			}
		}
		totalFPS += cs.FPS
		cameras = append(cameras, cs)
	}

	return &Snapshot{
		Cameras: cameras,
		Summary: Summary{
			ActiveCameras:     len(cameras),
			TotalFPS:          totalFPS,
			AvgInferenceMS:    e.disp.infMS.Value(),
			QueueDepth:        e.queue.Depth(),
			QueueCapacity:     e.queue.Capacity(),
			FramesDropped:     e.queue.Dropped(),
			BatchesDispatched: e.disp.batches.Load(),
			FailedBatches:     e.disp.failedBatches.Load(),
			UptimeS:           int64(now.Sub(e.startedAt).Seconds()),
		},
		GeneratedAt: now,
	}
}
