package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vision-server.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.Engine.Workers != 3 || cfg.Engine.BatchSize != 4 || cfg.Engine.QueueCapacity != 100 {
		t.Errorf("engine defaults = %+v", cfg.Engine)
	}
	if cfg.Engine.BatchTimeoutMS != 100 {
		t.Errorf("batch_timeout_ms = %d", cfg.Engine.BatchTimeoutMS)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
port: "9090"
model_address: "gpu-node:50051"
source:
  url_template: "rtsp://10.0.0.5:554/ch%d"
  username: "admin"
engine:
  workers: 5
  batch_size: 8
  queue_capacity: 64
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" || cfg.ModelAddress != "gpu-node:50051" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Engine.Workers != 5 || cfg.Engine.BatchSize != 8 {
		t.Errorf("engine overrides not applied: %+v", cfg.Engine)
	}
	// Untouched keys keep their defaults.
	if cfg.Engine.MaxRetries != 10 {
		t.Errorf("max_retries default lost: %d", cfg.Engine.MaxRetries)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name, body, wantErr string
	}{
		{"missing file", "", "read config"},
		{"bad template", "source:\n  url_template: \"rtsp://h/live\"\n", "exactly one"},
		{"bad transport", "source:\n  transport: \"quic\"\n", "transport"},
		{"queue smaller than batch", "engine:\n  queue_capacity: 2\n", "queue_capacity"},
		{"bad model address", "model_address: \"no-port\"\n", "model_address"},
		{"zero workers", "engine:\n  workers: -1\n", "workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing.yaml")
			if tt.body != "" {
				path = writeConfig(t, tt.body)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("got %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}
