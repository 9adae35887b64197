package vision

import "context"

// Source opens a connected frame stream for one camera. Implementations own
// the transport (a decode subprocess, a test fixture) and must release it when
// the returned reader is closed or ctx is canceled.
type Source interface {
	Open(ctx context.Context) (FrameReader, error)
}

// FrameReader yields one encoded JPEG frame per call. ReadFrame returns an
// error once the stream ends; the reader must unblock pending reads when the
// Open context is canceled.
type FrameReader interface {
	ReadFrame() ([]byte, error)
	Close() error
}
