// Package dto defines the request and response bodies of the control API.
package dto

import (
	"errors"

	"github.com/edirooss/vision-server/pkg/jsonx"
)

// CameraStartRequest is the body of POST /camera/start.
//   - channel: required; int > 0
type CameraStartRequest struct {
	Channel jsonx.Field[int64] `json:"channel"`
}

func (r *CameraStartRequest) Validate() error {
	if !r.Channel.IsSet() || r.Channel.IsNull() {
		return errors.New("channel is required")
	}
	return nil
}

// CameraStopRequest is the body of POST /camera/stop.
//   - channel: required; int > 0
type CameraStopRequest struct {
	Channel jsonx.Field[int64] `json:"channel"`
}

func (r *CameraStopRequest) Validate() error {
	if !r.Channel.IsSet() || r.Channel.IsNull() {
		return errors.New("channel is required")
	}
	return nil
}

// CameraStartResponse acknowledges a start. Status is "started" for a fresh
// session and "already_running" for an idempotent repeat.
type CameraStartResponse struct {
	Success   bool   `json:"success"`
	Channel   int64  `json:"channel"`
	Status    string `json:"status"`
	StreamURL string `json:"stream_url"`
}

// CameraStopResponse acknowledges a stop.
type CameraStopResponse struct {
	Success bool  `json:"success"`
	Channel int64 `json:"channel"`
}

// CameraLogsResponse carries the decode-process diagnostics tail, newest
// line first.
type CameraLogsResponse struct {
	Channel int64    `json:"channel"`
	Lines   []string `json:"lines"`
}

// HealthResponse is the liveness/readiness body of GET /health.
type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}
