package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/edirooss/vision-server/internal/engine"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// streamPollInterval paces the cache poll between frames. 20ms keeps up
// with sources well past the usual inference rate without busy-waiting.
const streamPollInterval = 20 * time.Millisecond

// StreamHandler serves annotated frames from the result cache.
//
// Supported operations:
//   - GET /stream/{channel}            → multipart/x-mixed-replace MJPEG
//   - GET /camera/{channel}/snapshot   → single annotated JPEG
//
// Both read the last completed result; neither ever waits on inference. A
// camera that is reconnecting keeps serving its last frame (stale but
// valid) until a fresh one lands.
type StreamHandler struct {
	log    *zap.Logger
	engine *engine.Engine
}

// NewStreamHandler constructs a StreamHandler instance.
func NewStreamHandler(log *zap.Logger, eng *engine.Engine) *StreamHandler {
	return &StreamHandler{
		log:    log.Named("stream"),
		engine: eng,
	}
}

func (h *StreamHandler) Stream(c *gin.Context) {
	// Path param already validated by middleware.
	channel, _ := strconv.ParseInt(c.Param("channel"), 10, 64)

	if !h.engine.Active(channel) {
		c.JSON(http.StatusNotFound, gin.H{"message": "channel not running"})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "streaming unsupported"})
		return
	}

	header := c.Writer.Header()
	header.Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.log.Debug("stream client connected",
		zap.Int64("channel", channel),
		zap.String("client_ip", c.ClientIP()),
	)

	ticker := time.NewTicker(streamPollInterval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	var last *engine.Record
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		rec, ok := h.engine.Latest(channel)
		if !ok {
			if !h.engine.Active(channel) {
				// Channel stopped; end the stream cleanly.
				return
			}
			// Running but nothing inferred yet.
			continue
		}
		// Records are immutable; a fresh pointer means a fresh frame. This
		// also survives a session restart, where sequence numbers reset.
		if rec == last {
			continue
		}
		last = rec

		if err := writeFramePart(c.Writer, rec.JPEG); err != nil {
			return
		}
		flusher.Flush()
	}
}

func writeFramePart(w io.Writer, jpeg []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(jpeg)); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

func (h *StreamHandler) Snapshot(c *gin.Context) {
	channel, _ := strconv.ParseInt(c.Param("channel"), 10, 64)

	rec, ok := h.engine.Latest(channel)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "no frame available"})
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "image/jpeg", rec.JPEG)
}
