package clip

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

var commandContext = exec.CommandContext

// Trimmer produces dest from the [start, end] second range of src,
// overwriting dest if it exists.
type Trimmer interface {
	Trim(ctx context.Context, src string, start, end float64, dest string) error
}

// Option configures the FFmpeg trimmer.
type Option func(*FFmpeg)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(f *FFmpeg) {
		if strings.TrimSpace(binary) != "" {
			f.binary = strings.TrimSpace(binary)
		}
	}
}

// WithTimeout bounds a single trim. Zero disables the limit.
func WithTimeout(timeout time.Duration) Option {
	return func(f *FFmpeg) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithSampleRate resamples clips. Zero keeps the source rate.
func WithSampleRate(rate int) Option {
	return func(f *FFmpeg) {
		if rate > 0 {
			f.sampleRate = rate
		}
	}
}

// WithChannels downmixes clips. Zero keeps the source layout.
func WithChannels(channels int) Option {
	return func(f *FFmpeg) {
		if channels > 0 {
			f.channels = channels
		}
	}
}

// FFmpeg trims audio with the atrim filter.
type FFmpeg struct {
	binary     string
	timeout    time.Duration
	sampleRate int
	channels   int
}

// NewFFmpeg constructs a trimmer using defaults.
func NewFFmpeg(opts ...Option) *FFmpeg {
	f := &FFmpeg{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Binary returns the ffmpeg executable in use.
func (f *FFmpeg) Binary() string {
	return f.binary
}

// Trim implements Trimmer.
func (f *FFmpeg) Trim(ctx context.Context, src string, start, end float64, dest string) error {
	if strings.TrimSpace(src) == "" {
		return errors.New("ffmpeg trim: source path required")
	}
	if strings.TrimSpace(dest) == "" {
		return errors.New("ffmpeg trim: destination path required")
	}
	if start < 0 || end <= start {
		return fmt.Errorf("ffmpeg trim: invalid range %s-%s", formatSeconds(start), formatSeconds(end))
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	cmd := commandContext(ctx, f.binary, f.args(src, start, end, dest)...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("ffmpeg trim: %w", ctxErr)
		}
		return fmt.Errorf("ffmpeg trim: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (f *FFmpeg) args(src string, start, end float64, dest string) []string {
	filter := "atrim=start=" + formatSeconds(start) + ":end=" + formatSeconds(end) + ",asetpts=PTS-STARTPTS"
	args := []string{
		"-y",
		"-hide_banner",
		"-nostdin",
		"-loglevel", "error",
		"-i", src,
		"-vn",
		"-sn",
		"-dn",
		"-af", filter,
	}
	if f.sampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(f.sampleRate))
	}
	if f.channels > 0 {
		args = append(args, "-ac", strconv.Itoa(f.channels))
	}
	return append(args, dest)
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
