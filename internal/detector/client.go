// Package detector is the gRPC client for the external detection service.
// The model stays opaque: frames in, per-frame detection lists out.
package detector

import (
	"context"
	"fmt"
	"time"

	"github.com/edirooss/vision-server/internal/domain/vision"
	"github.com/edirooss/vision-server/pkg/pb"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

const (
	// maxMsgSize bounds a batch of JPEG frames in either direction.
	maxMsgSize = 50 * 1024 * 1024

	callTimeout   = 5 * time.Second
	healthTimeout = 2 * time.Second
)

// Client is a thin wrapper over the Detector gRPC service.
type Client struct {
	log    *zap.Logger
	conn   *grpc.ClientConn
	client pb.DetectorClient
}

// New dials the detector endpoint. The connection is lazy; use Ping to verify
// the service is actually reachable and serving.
func New(log *zap.Logger, addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(maxMsgSize),
			grpc.MaxCallSendMsgSize(maxMsgSize),
		),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                10 * time.Second,
			Timeout:             3 * time.Second,
			PermitWithoutStream: true,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("dial detector %s: %w", addr, err)
	}

	return &Client{
		log:    log.Named("detector"),
		conn:   conn,
		client: pb.NewDetectorClient(conn),
	}, nil
}

// InferBatch runs one detection call for the given frames. Results are
// positional with the input; a count mismatch fails the whole batch.
func (c *Client) InferBatch(ctx context.Context, frames []*vision.Frame) ([]vision.InferenceResult, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	req := &pb.DetectBatchRequest{Frames: make([]*pb.Frame, len(frames))}
	for i, f := range frames {
		req.Frames[i] = &pb.Frame{
			Channel:  f.Channel,
			Sequence: f.Sequence,
			Jpeg:     f.JPEG,
		}
	}

	resp, err := c.client.DetectBatch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("detect batch (%d frames): %w", len(frames), err)
	}
	if len(resp.Results) != len(frames) {
		return nil, fmt.Errorf("detect batch: got %d results for %d frames", len(resp.Results), len(frames))
	}

	out := make([]vision.InferenceResult, len(frames))
	for i, r := range resp.Results {
		dets := make([]vision.Detection, len(r.Detections))
		for j, d := range r.Detections {
			dets[j] = vision.Detection{
				X1:         d.X1,
				Y1:         d.Y1,
				X2:         d.X2,
				Y2:         d.Y2,
				Confidence: d.Confidence,
				ClassID:    d.ClassId,
				Label:      d.Label,
			}
		}
		out[i] = vision.InferenceResult{Detections: dets}
	}
	return out, nil
}

// Ping performs a health call and fails unless the model is loaded.
// Used at boot: the server refuses to start against a dead or empty model.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.Health(ctx, &pb.HealthRequest{})
	if err != nil {
		return fmt.Errorf("detector health: %w", err)
	}
	if !resp.ModelLoaded {
		return fmt.Errorf("detector up but model not loaded")
	}
	c.log.Debug("detector health ok",
		zap.String("model", resp.ModelName),
		zap.Duration("rtt", time.Since(start)),
	)
	return nil
}

// Loaded reports whether the detector answers health checks with a loaded
// model. Never errors; health endpoints want a boolean.
func (c *Client) Loaded(ctx context.Context) bool {
	return c.Ping(ctx) == nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
