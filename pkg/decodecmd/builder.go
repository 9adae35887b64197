// Package decodecmd builds canonical ffmpeg invocations for the decode side
// of the pipeline: one camera stream in, an MJPEG frame sequence on stdout.
//
// This layer is pure "command construction": no execution, no I/O. It returns
// two projections of the same intent: argv (process argument vector) or a
// shell-quoted command string for logging.
//
// Emission policy is deterministic and explicit:
//
//   - Numeric flags are ALWAYS emitted (including 0).
//   - Optional strings (pointers) are emitted only when non-nil AND non-empty.
//   - argv[0] is always the ffmpeg binary path, mirroring POSIX/Go norms.
//
// Process lifecycle belongs in a higher layer (decodeproc).
package decodecmd

import (
	"strconv"
	"strings"
)

// Builder constructs argv and shell-safe command strings for ffmpeg.
//
// The Builder implements a fluent API; it is NOT concurrency-safe.
// Callers should treat a Builder as single-use, short-lived value objects.
//
// Invariants:
//   - argv[0] is always the binary path given to NewBuilder.
//   - All With* methods are deterministic and order-preserving.
//   - BuildArgv returns a defensive copy.
type Builder struct {
	args []string // argv including binary path at index 0
}

// NewBuilder returns a Builder pre-seeded with the ffmpeg binary path.
//
// This is the lowest-level entrypoint for manual composition; most callers
// should prefer FromCamera + Build* conveniences.
func NewBuilder(bin string) *Builder {
	return &Builder{args: []string{bin}}
}

// WithFlag appends a bare flag with no value ("-an", "-nostdin").
func (b *Builder) WithFlag(flag string) *Builder {
	b.args = append(b.args, flag)
	return b
}

// WithStringFlag appends a flag with a string value if non-empty.
// Empty string is considered invalid and skipped to avoid surprising empties.
func (b *Builder) WithStringFlag(flag, val string) *Builder {
	if val != "" {
		b.args = append(b.args, flag, val)
	}
	return b
}

// WithStringPFlag appends a flag with a *string value if non-nil and non-empty.
func (b *Builder) WithStringPFlag(flag string, pVal *string) *Builder {
	if pVal != nil && *pVal != "" {
		b.args = append(b.args, flag, *pVal)
	}
	return b
}

// WithIntFlag appends a flag with a base-10 int value (always emitted).
func (b *Builder) WithIntFlag(flag string, val int) *Builder {
	b.args = append(b.args, flag, strconv.Itoa(val))
	return b
}

// WithFloatFlag appends a flag with a shortest-form float value (always emitted).
func (b *Builder) WithFloatFlag(flag string, val float64) *Builder {
	b.args = append(b.args, flag, strconv.FormatFloat(val, 'g', -1, 64))
	return b
}

// WithString appends a positional string argument if non-empty.
// Used for positionals like the input URL and the pipe: output.
func (b *Builder) WithString(arg string) *Builder {
	if arg != "" {
		b.args = append(b.args, arg)
	}
	return b
}

// BuildArgv returns a defensive copy of the constructed argument vector.
func (b *Builder) BuildArgv() []string {
	out := make([]string, len(b.args))
	copy(out, b.args)
	return out
}

// BuildString returns a single shell-quoted command string.
//
// Quoting strategy:
//   - Single-quote wrapping with inner single quotes escaped as:  ' -> '\”
//   - Safe for POSIX shells and systemd ExecStart lines.
func (b *Builder) BuildString() string {
	quoted := make([]string, len(b.args))
	for i, a := range b.args {
		quoted[i] = shQuote(a)
	}
	return strings.Join(quoted, " ")
}

// shQuote returns a POSIX/systemd-safe single-quoted token.
//
// Empty strings become "”" to preserve round-trippability.
func shQuote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
