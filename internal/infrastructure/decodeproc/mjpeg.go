// Package decodeproc supervises one FFmpeg decode child per camera and
// exposes its stdout MJPEG stream as a frame source. The child runs in its
// own process group, dies with the parent, and is torn down with
// SIGTERM, a grace period, then SIGKILL.
package decodeproc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// maxFrameBytes bounds a single JPEG. A stream that exceeds it is treated
// as corrupt and the read fails, which triggers a reconnect upstream.
const maxFrameBytes = 8 << 20

var errFrameTooLarge = errors.New("frame exceeds size limit")

// frameSplitter cuts a raw MJPEG byte stream into individual JPEGs by
// scanning for SOI (FFD8) and EOI (FFD9) markers. JPEG byte stuffing
// guarantees FFD9 cannot occur inside entropy-coded data, so the scan
// needs no real decoder.
type frameSplitter struct {
	r *bufio.Reader
}

func newFrameSplitter(r io.Reader) *frameSplitter {
	return &frameSplitter{r: bufio.NewReaderSize(r, 256*1024)}
}

// Next returns the following complete frame, including its SOI and EOI
// markers. The returned slice is freshly allocated and owned by the caller.
func (s *frameSplitter) Next() ([]byte, error) {
	if err := s.seekSOI(); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, 64*1024)
	buf = append(buf, 0xFF, 0xD8)
	prev := byte(0)
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return nil, err
		}
		buf = append(buf, b)
		if prev == 0xFF && b == 0xD9 {
			return buf, nil
		}
		prev = b
		if len(buf) > maxFrameBytes {
			return nil, fmt.Errorf("%w (%d bytes)", errFrameTooLarge, len(buf))
		}
	}
}

// seekSOI discards garbage until the next FFD8 pair is consumed.
func (s *frameSplitter) seekSOI() error {
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return err
		}
		if b != 0xFF {
			continue
		}
		b, err = s.r.ReadByte()
		if err != nil {
			return err
		}
		if b == 0xD8 {
			return nil
		}
		if b == 0xFF {
			// Could be the first byte of SOI; give it another chance.
			_ = s.r.UnreadByte()
		}
	}
}
