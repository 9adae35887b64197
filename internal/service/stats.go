package service

import (
	"sync"
	"time"

	"github.com/edirooss/vision-server/internal/engine"
	"golang.org/x/sync/singleflight"
)

// statsTTL is how long one snapshot serves pollers before a fresh one is
// assembled. Dashboards tend to poll in herds; the TTL plus singleflight
// keeps that at one snapshot per window.
const statsTTL = 250 * time.Millisecond

// StatsService caches engine snapshots for the read endpoints.
type StatsService struct {
	engine *engine.Engine
	ttl    time.Duration

	mu   sync.RWMutex
	snap *engine.Snapshot
	at   time.Time

	sf singleflight.Group
}

func NewStatsService(eng *engine.Engine) *StatsService {
	return &StatsService{engine: eng, ttl: statsTTL}
}

// Get returns the current snapshot. cached is true when the snapshot was
// served from the TTL window or joined another caller's assembly.
func (s *StatsService) Get() (snap *engine.Snapshot, cached bool) {
	s.mu.RLock()
	snap, at := s.snap, s.at
	s.mu.RUnlock()
	if snap != nil && time.Since(at) < s.ttl {
		return snap, true
	}

	v, _, shared := s.sf.Do("snapshot", func() (any, error) {
		fresh := s.engine.Snapshot()
		s.mu.Lock()
		s.snap, s.at = fresh, time.Now()
		s.mu.Unlock()
		return fresh, nil
	})
	return v.(*engine.Snapshot), shared
}
