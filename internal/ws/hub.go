// Package ws fans per-frame detection results out to WebSocket subscribers.
//
// Delivery is best-effort: each subscriber has a bounded send buffer and a
// subscriber that cannot keep up loses events instead of stalling the result
// path. The cache, not this feed, is the source of truth for latest state.
package ws

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/edirooss/vision-server/internal/domain/vision"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// sendBuffer bounds the per-subscriber event backlog. At 25 fps per camera a
// full buffer means the peer is more than a second behind.
const sendBuffer = 32

// Event is one per-frame detection message.
type Event struct {
	Type        string             `json:"type"`
	Channel     int64              `json:"channel"`
	Sequence    uint64             `json:"sequence"`
	Detections  []vision.Detection `json:"detections"`
	Counts      map[string]int     `json:"counts"`
	InferenceMS float64            `json:"inference_ms"`
	TS          time.Time          `json:"ts"`
}

// client is one connected subscriber. channel 0 subscribes to every camera.
type client struct {
	conn    *websocket.Conn
	send    chan []byte
	channel int64
}

// Hub tracks subscribers and broadcasts marshaled events to them.
type Hub struct {
	log *zap.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}

	dropped atomic.Uint64
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:     log.Named("ws"),
		clients: make(map[*client]struct{}),
	}
}

// Publish fans one inference result out to matching subscribers. It never
// blocks; a subscriber with a full buffer skips this event.
func (h *Hub) Publish(res vision.InferenceResult) {
	h.mu.RLock()
	n := len(h.clients)
	h.mu.RUnlock()
	if n == 0 {
		return
	}

	evt := Event{
		Type:        "detections",
		Channel:     res.Channel,
		Sequence:    res.Sequence,
		Detections:  res.Detections,
		Counts:      res.CountByLabel(),
		InferenceMS: res.InferenceMS(),
		TS:          res.CompletedAt,
	}
	if evt.Detections == nil {
		evt.Detections = []vision.Detection{}
	}
	data, err := json.Marshal(evt)
	if err != nil {
		h.log.Error("marshal event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.channel != 0 && c.channel != res.Channel {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.dropped.Add(1)
		}
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every subscriber. Meant for shutdown; a registration
// racing Close keeps its connection until the process exits.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	if n := h.dropped.Load(); n > 0 {
		h.log.Debug("hub closed", zap.Uint64("events_dropped", n))
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("subscriber connected", zap.Int64("channel", c.channel), zap.Int("subscribers", n))
}

// unregister is idempotent; read and write pumps both funnel through it.
// close(c.send) is safe here: Publish sends under RLock, so it cannot be
// mid-send while we hold the write lock.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}
