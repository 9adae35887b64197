// Package config loads the server configuration file and carries build
// metadata.
package config

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/edirooss/vision-server/pkg/avurl"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk server configuration (vision-server.yaml).
type Config struct {
	// ListenAddress is the bind host for the HTTP API. Empty means all
	// interfaces.
	ListenAddress string `yaml:"listen_address"`
	Port          string `yaml:"port"`
	// RedisAddress is the camera registry backend (host:port).
	RedisAddress string `yaml:"redis_address"`
	// ModelAddress is the gRPC endpoint of the detector service.
	ModelAddress string `yaml:"model_address"`
	FFmpegPath   string `yaml:"ffmpeg_path"`

	Source SourceConfig `yaml:"source"`
	Engine EngineConfig `yaml:"engine"`
}

// SourceConfig derives stream URLs for channels without a registry entry.
type SourceConfig struct {
	// URLTemplate must contain exactly one %d verb (the channel number).
	URLTemplate string `yaml:"url_template"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	Transport   string `yaml:"transport"`
}

// EngineConfig sizes the serving pipeline.
type EngineConfig struct {
	MaxChannels     int     `yaml:"max_channels"`
	Workers         int     `yaml:"workers"`
	BatchSize       int     `yaml:"batch_size"`
	BatchTimeoutMS  int     `yaml:"batch_timeout_ms"`
	QueueCapacity   int     `yaml:"queue_capacity"`
	TargetFPS       float64 `yaml:"target_fps"`
	MaxRetries      int     `yaml:"max_retries"`
	RetryDelayMS    int     `yaml:"retry_delay_ms"`
	MaxRetryDelayMS int     `yaml:"max_retry_delay_ms"`
	JPEGQuality     int     `yaml:"jpeg_quality"`
}

// Load reads and validates the configuration at path. A missing file is an
// error: the server refuses to guess its model endpoint.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Port:         "8080",
		RedisAddress: "127.0.0.1:6379",
		ModelAddress: "127.0.0.1:50051",
		FFmpegPath:   "ffmpeg",
		Source: SourceConfig{
			URLTemplate: "rtsp://192.168.0.64:554/unicast/c%d/s0/live",
			Transport:   "tcp",
		},
		Engine: EngineConfig{
			MaxChannels:     30,
			Workers:         3,
			BatchSize:       4,
			BatchTimeoutMS:  100,
			QueueCapacity:   100,
			TargetFPS:       5,
			MaxRetries:      10,
			RetryDelayMS:    1000,
			MaxRetryDelayMS: 30000,
			JPEGQuality:     85,
		},
	}
}

func (c *Config) validate() error {
	if c.ListenAddress != "" {
		if err := avurl.ValidateHost(c.ListenAddress); err != nil {
			return fmt.Errorf("listen_address: %w", err)
		}
	}
	if err := validateHostPort("redis_address", c.RedisAddress); err != nil {
		return err
	}
	if err := validateHostPort("model_address", c.ModelAddress); err != nil {
		return err
	}
	if strings.Count(c.Source.URLTemplate, "%d") != 1 {
		return fmt.Errorf("source.url_template %q must contain exactly one %%d", c.Source.URLTemplate)
	}
	switch c.Source.Transport {
	case "", "tcp", "udp":
	default:
		return fmt.Errorf("source.transport must be tcp or udp, got %q", c.Source.Transport)
	}

	e := c.Engine
	switch {
	case e.MaxChannels < 1:
		return fmt.Errorf("engine.max_channels must be >= 1")
	case e.Workers < 1:
		return fmt.Errorf("engine.workers must be >= 1")
	case e.BatchSize < 1:
		return fmt.Errorf("engine.batch_size must be >= 1")
	case e.BatchTimeoutMS < 1:
		return fmt.Errorf("engine.batch_timeout_ms must be >= 1")
	case e.QueueCapacity < e.BatchSize:
		return fmt.Errorf("engine.queue_capacity must be >= engine.batch_size")
	case e.MaxRetries < 1:
		return fmt.Errorf("engine.max_retries must be >= 1")
	case e.RetryDelayMS < 1:
		return fmt.Errorf("engine.retry_delay_ms must be >= 1")
	case e.MaxRetryDelayMS < e.RetryDelayMS:
		return fmt.Errorf("engine.max_retry_delay_ms must be >= engine.retry_delay_ms")
	case e.JPEGQuality < 1 || e.JPEGQuality > 100:
		return fmt.Errorf("engine.jpeg_quality must be in [1, 100]")
	}
	return nil
}

func validateHostPort(field, addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if err := avurl.ValidateHost(host); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}
