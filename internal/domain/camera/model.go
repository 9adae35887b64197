// Package camera defines the camera entity: a numbered channel bound to a
// stream source, persisted in the registry and resumed at boot.
package camera

import (
	"errors"
	"fmt"
	"strings"

	"github.com/edirooss/vision-server/pkg/avurl"
)

// ErrChannelRange marks a channel number outside the configured range.
var ErrChannelRange = errors.New("channel out of range")

type Camera struct {
	Channel int64        `json:"channel"` //
	Name    *string      `json:"name"`    // nullable
	Source  CameraSource `json:"source"`  //
	// TargetFPS caps the decode-to-inference rate for this channel.
	// Zero means uncapped.
	TargetFPS float64 `json:"target_fps"`
}

type CameraSource struct {
	URL       string  `json:"url"`       //
	Username  *string `json:"username"`  // nullable (on non-null, embedded into the URL at spawn)
	Password  *string `json:"password"`  // nullable (on non-null, username required)
	Transport *string `json:"transport"` // nullable ("tcp" or "udp")
}

// ValidateChannel checks that id is a usable channel number in [1, max].
func ValidateChannel(id int64, max int) error {
	if id < 1 || id > int64(max) {
		return fmt.Errorf("%w: channel %d, valid range 1..%d", ErrChannelRange, id, max)
	}
	return nil
}

func (c *Camera) Validate(maxChannels int) error {
	if err := ValidateChannel(c.Channel, maxChannels); err != nil {
		return err
	}

	// name: nullable, minLength 1, maxLength 100
	if c.Name != nil {
		if len(*c.Name) < 1 {
			return errors.New("name must be at least 1 character")
		}
		if len(*c.Name) > 100 {
			return errors.New("name must be at most 100 characters")
		}
	}

	// source.url: uri, maxLength 2048
	if c.Source.URL == "" {
		return errors.New("source.url is required")
	}
	if len(c.Source.URL) > 2048 {
		return errors.New("source.url must be at most 2048 characters")
	}
	if err := avurl.Validate(c.Source.URL); err != nil {
		return fmt.Errorf("invalid source.url: %s", err)
	}

	// source.username: nullable, minLength 1, maxLength 128
	if c.Source.Username != nil {
		if len(*c.Source.Username) < 1 {
			return errors.New("source.username must be at least 1 character")
		}
		if len(*c.Source.Username) > 128 {
			return errors.New("source.username must be at most 128 characters")
		}
	}

	// source.password: nullable, minLength 1, maxLength 128; requires username
	if c.Source.Password != nil {
		if c.Source.Username == nil {
			return errors.New("source.password requires source.username")
		}
		if len(*c.Source.Password) < 1 {
			return errors.New("source.password must be at least 1 character")
		}
		if len(*c.Source.Password) > 128 {
			return errors.New("source.password must be at most 128 characters")
		}
	}

	if c.Source.Transport != nil {
		switch *c.Source.Transport {
		case "tcp", "udp":
		default:
			return fmt.Errorf("source.transport must be tcp or udp, got %q", *c.Source.Transport)
		}
	}

	if c.TargetFPS < 0 || c.TargetFPS > 120 {
		return errors.New("target_fps must be in [0, 120]")
	}

	return nil
}

// SpawnURL is the source URL with credentials embedded, ready for the decode
// process. Credentials are percent-encoded per component.
func (c *Camera) SpawnURL() string {
	return avurl.EmbeddUserinfo(c.Source.URL, c.Source.Username, c.Source.Password)
}

// Defaults derives cameras for channels that have no registry entry.
type Defaults struct {
	// URLTemplate must contain exactly one %d verb, substituted with the
	// channel number.
	URLTemplate string
	Username    string
	Password    string
	Transport   string
	TargetFPS   float64
}

func (d Defaults) Validate() error {
	if strings.Count(d.URLTemplate, "%d") != 1 {
		return fmt.Errorf("url template %q must contain exactly one %%d", d.URLTemplate)
	}
	return nil
}

// Camera materializes the default camera for the given channel.
func (d Defaults) Camera(channel int64) *Camera {
	cam := &Camera{
		Channel:   channel,
		Source:    CameraSource{URL: fmt.Sprintf(d.URLTemplate, channel)},
		TargetFPS: d.TargetFPS,
	}
	if d.Username != "" {
		cam.Source.Username = ptr(d.Username)
	}
	if d.Password != "" {
		cam.Source.Password = ptr(d.Password)
	}
	if d.Transport != "" {
		cam.Source.Transport = ptr(d.Transport)
	}
	return cam
}

func ptr[T any](v T) *T { return &v }
