package decodecmd

import (
	"strconv"
	"strings"

	"github.com/edirooss/vision-server/internal/domain/camera"
)

// Options are the host-side knobs that are not part of the camera entity.
type Options struct {
	// FFmpegPath is argv[0]. Defaults to "ffmpeg" (resolved via PATH).
	FFmpegPath string
	// TargetFPS throttles decode output at the source. Zero disables the
	// fps filter; the pipeline still enforces its own submit cap.
	TargetFPS float64
	// QScale is the MJPEG encoder quality (2 best .. 31 worst). Zero means 3.
	QScale int
}

func (o Options) withDefaults() Options {
	if o.FFmpegPath == "" {
		o.FFmpegPath = "ffmpeg"
	}
	if o.QScale == 0 {
		o.QScale = 3
	}
	return o
}

// FromCamera constructs the canonical decode invocation for one camera:
//
//	ffmpeg [global flags] [input flags] -i <url> [filter/output flags] pipe:1
//
// Credentials are embedded into the input URL here; the resulting argv is the
// only place they appear in clear text.
func FromCamera(cam *camera.Camera, opts Options) *Builder {
	opts = opts.withDefaults()

	b := NewBuilder(opts.FFmpegPath).
		WithFlag("-hide_banner").
		WithStringFlag("-loglevel", "warning").
		WithFlag("-nostdin")

	// Input flags must precede -i.
	if strings.HasPrefix(cam.Source.URL, "rtsp://") {
		b.WithStringPFlag("-rtsp_transport", cam.Source.Transport)
	}

	b.WithStringFlag("-i", cam.SpawnURL()).
		WithFlag("-an").
		WithFlag("-sn")

	fps := cam.TargetFPS
	if fps == 0 {
		fps = opts.TargetFPS
	}
	if fps > 0 {
		b.WithStringFlag("-vf", "fps="+strconv.FormatFloat(fps, 'g', -1, 64))
	}

	return b.
		WithStringFlag("-f", "mjpeg").
		WithIntFlag("-q:v", opts.QScale).
		WithString("pipe:1")
}

// BuildArgv constructs the canonical decode argv for a camera.
// Pure convenience over FromCamera(cam, opts).BuildArgv().
func BuildArgv(cam *camera.Camera, opts Options) []string {
	return FromCamera(cam, opts).BuildArgv()
}

// BuildString constructs the canonical shell-quoted decode command string.
func BuildString(cam *camera.Camera, opts Options) string {
	return FromCamera(cam, opts).BuildString()
}
