package camera

import (
	"errors"
	"strings"
	"testing"
)

func validCamera() *Camera {
	return &Camera{
		Channel: 3,
		Source:  CameraSource{URL: "rtsp://192.168.0.64:554/unicast/c3/s0/live"},
	}
}

func TestValidateChannel(t *testing.T) {
	if err := ValidateChannel(1, 30); err != nil {
		t.Errorf("channel 1: %v", err)
	}
	if err := ValidateChannel(30, 30); err != nil {
		t.Errorf("channel 30: %v", err)
	}
	for _, id := range []int64{0, -1, 31} {
		err := ValidateChannel(id, 30)
		if !errors.Is(err, ErrChannelRange) {
			t.Errorf("channel %d: got %v, want ErrChannelRange", id, err)
		}
	}
}

func TestCameraValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Camera)
		wantErr string
	}{
		{"valid", func(c *Camera) {}, ""},
		{"empty url", func(c *Camera) { c.Source.URL = "" }, "source.url is required"},
		{"long url", func(c *Camera) { c.Source.URL = "rtsp://h/" + strings.Repeat("a", 2048) }, "at most 2048"},
		{"empty name", func(c *Camera) { c.Name = ptr("") }, "name must be at least"},
		{"password without username", func(c *Camera) { c.Source.Password = ptr("pw") }, "requires source.username"},
		{"bad transport", func(c *Camera) { c.Source.Transport = ptr("multicast") }, "must be tcp or udp"},
		{"negative fps", func(c *Camera) { c.TargetFPS = -1 }, "target_fps"},
		{"with creds", func(c *Camera) {
			c.Source.Username = ptr("admin")
			c.Source.Password = ptr("secret")
			c.Source.Transport = ptr("tcp")
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := validCamera()
			tt.mutate(cam)
			err := cam.Validate(30)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("got %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultsCamera(t *testing.T) {
	d := Defaults{
		URLTemplate: "rtsp://192.168.0.64:554/unicast/c%d/s0/live",
		Username:    "admin",
		Transport:   "tcp",
		TargetFPS:   5,
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("defaults validate: %v", err)
	}

	cam := d.Camera(7)
	if cam.Source.URL != "rtsp://192.168.0.64:554/unicast/c7/s0/live" {
		t.Errorf("url = %q", cam.Source.URL)
	}
	if cam.Source.Username == nil || *cam.Source.Username != "admin" {
		t.Errorf("username = %v", cam.Source.Username)
	}
	if cam.Source.Password != nil {
		t.Errorf("password should stay nil when unset")
	}
	if cam.TargetFPS != 5 {
		t.Errorf("target fps = %v", cam.TargetFPS)
	}
	if err := cam.Validate(30); err != nil {
		t.Errorf("derived camera invalid: %v", err)
	}
}

func TestDefaultsValidateRejectsBadTemplate(t *testing.T) {
	for _, tpl := range []string{"rtsp://host/live", "rtsp://h/c%d/s%d"} {
		if err := (Defaults{URLTemplate: tpl}).Validate(); err == nil {
			t.Errorf("template %q: expected error", tpl)
		}
	}
}
