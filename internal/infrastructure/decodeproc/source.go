//go:build linux

package decodeproc

import (
	"context"
	"fmt"

	"github.com/edirooss/vision-server/internal/domain/vision"
	"go.uber.org/zap"
)

// Source spawns a decode child per Open and reads its MJPEG stdout. One
// Source per camera; the log ring is shared across reconnects.
type Source struct {
	log    *zap.Logger
	argv   []string
	logBuf *logBuffer
}

func NewSource(log *zap.Logger, argv []string) *Source {
	return &Source{
		log:    log,
		argv:   argv,
		logBuf: &logBuffer{},
	}
}

// Open starts the decode child. Cancelling ctx terminates the child, which
// unblocks any pending ReadFrame with a stream error.
func (s *Source) Open(ctx context.Context) (vision.FrameReader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := startProcess(s.log, s.logBuf, s.argv)
	if err != nil {
		return nil, err
	}

	go func() {
		select {
		case <-ctx.Done():
			p.terminate()
		case <-p.done:
		}
	}()

	return &Reader{proc: p, frames: newFrameSplitter(p.stdout)}, nil
}

// Tail returns the child's most recent stderr lines, newest first.
func (s *Source) Tail(n int) []string { return s.logBuf.Tail(n) }

// Reader reads frames from one decode child. Not safe for concurrent use;
// the decode loop is the single consumer.
type Reader struct {
	proc   *process
	frames *frameSplitter
}

// ReadFrame blocks until the next complete JPEG arrives. A dead or corrupt
// stream returns an error; the reader is unusable afterwards.
func (r *Reader) ReadFrame() ([]byte, error) {
	frame, err := r.frames.Next()
	if err != nil {
		r.proc.finishStdout()
		return nil, fmt.Errorf("mjpeg stream: %w", err)
	}
	return frame, nil
}

// Close tears the child down and blocks until it is reaped.
func (r *Reader) Close() error {
	r.proc.finishStdout()
	r.proc.terminate()
	<-r.proc.done
	return nil
}
