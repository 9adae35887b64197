package vision

import (
	"encoding/json"
	"testing"
)

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusStarting: "starting",
		StatusRunning:  "running",
		StatusDegraded: "degraded",
		StatusError:    "error",
		StatusStopped:  "stopped",
		Status(42):     "status(42)",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", int8(s), got, want)
		}
	}
}

func TestStatusMarshalJSON(t *testing.T) {
	b, err := json.Marshal(StatusDegraded)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"degraded"` {
		t.Errorf("got %s, want %q", b, `"degraded"`)
	}
}

func TestStatusCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusStarting, StatusRunning, true},
		{StatusStarting, StatusError, true},
		{StatusStarting, StatusStopped, true},
		{StatusStarting, StatusDegraded, false},
		{StatusRunning, StatusDegraded, true},
		{StatusRunning, StatusStopped, true},
		{StatusRunning, StatusStarting, false},
		{StatusDegraded, StatusRunning, true},
		{StatusDegraded, StatusError, true},
		{StatusError, StatusStopped, true},
		{StatusError, StatusRunning, false},
		{StatusError, StatusStarting, false},
		{StatusStopped, StatusRunning, false},
		{StatusRunning, StatusRunning, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
