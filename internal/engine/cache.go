package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/edirooss/vision-server/internal/domain/vision"
)

// Record is the most recent completed result for a channel: the annotated
// frame plus the detections that produced it.
type Record struct {
	Result vision.InferenceResult
	// JPEG is the annotated frame, ready to serve.
	JPEG      []byte
	Width     int
	Height    int
	UpdatedAt time.Time
}

// resultCache holds the last result per channel with last-write-wins
// semantics. Reads never block on inference: consumers load an immutable
// snapshot pointer and work with that.
//
// A slot is owned by exactly one decode session. Apply drops results whose
// session ID no longer matches, so a restarted channel can never be painted
// with frames from its previous life.
type resultCache struct {
	mu    sync.RWMutex
	slots map[int64]*cacheSlot
}

type cacheSlot struct {
	sessionID string
	rec       atomic.Pointer[Record]
}

func newResultCache() *resultCache {
	return &resultCache{slots: make(map[int64]*cacheSlot)}
}

// Register claims the channel slot for a session. Any record from a previous
// session is discarded.
func (c *resultCache) Register(channel int64, sessionID string) {
	c.mu.Lock()
	c.slots[channel] = &cacheSlot{sessionID: sessionID}
	c.mu.Unlock()
}

// Deregister removes the slot if it is still owned by the given session.
func (c *resultCache) Deregister(channel int64, sessionID string) {
	c.mu.Lock()
	if slot, ok := c.slots[channel]; ok && slot.sessionID == sessionID {
		delete(c.slots, channel)
	}
	c.mu.Unlock()
}

// Apply stores rec as the channel's latest record. Returns false when the
// slot is gone or owned by a different session; the record is then discarded.
func (c *resultCache) Apply(channel int64, sessionID string, rec *Record) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	slot, ok := c.slots[channel]
	if !ok || slot.sessionID != sessionID {
		return false
	}
	slot.rec.Store(rec)
	return true
}

// Read returns the latest record for the channel. ok is false when the
// channel has no slot or no result has completed yet.
func (c *resultCache) Read(channel int64) (*Record, bool) {
	c.mu.RLock()
	slot, ok := c.slots[channel]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	rec := slot.rec.Load()
	if rec == nil {
		return nil, false
	}
	return rec, true
}
