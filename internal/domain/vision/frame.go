// Package vision holds the shared domain types of the serving pipeline:
// frames, detections, inference results and the per-channel status machine.
package vision

import "time"

// Frame is one decoded camera frame on its way through the pipeline.
//
// A frame has a single owner at any point in time. The decode side hands it
// to the queue, a dispatch worker hands it to the model, and whoever holds it
// last must call Release exactly once so the originating channel may put its
// next frame in flight.
type Frame struct {
	// Channel is the originating camera channel.
	Channel int64
	// SessionID identifies the decode session that produced the frame.
	// Results carrying a stale SessionID are discarded on apply.
	SessionID string
	// Sequence is the per-session submission counter, starting at 1.
	Sequence uint64
	// CapturedAt is the local receive time of the encoded frame.
	CapturedAt time.Time
	// Width and Height are the pixel dimensions parsed from the JPEG header.
	Width, Height int
	// JPEG is the encoded frame as read from the decoder.
	JPEG []byte

	release func()
}

// OnRelease registers the release hook. Set once by the producer before the
// frame enters the queue.
func (f *Frame) OnRelease(fn func()) { f.release = fn }

// Release signals that the frame has left the pipeline. Safe to call when no
// hook is registered; must not be called twice.
func (f *Frame) Release() {
	if f.release != nil {
		fn := f.release
		f.release = nil
		fn()
	}
}
