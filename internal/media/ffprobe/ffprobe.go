package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

const defaultBinary = "ffprobe"

// entries limits ffprobe to the fields the media gate reads.
const entries = "stream=index,codec_name,codec_type,sample_rate,channels,duration:format=filename,nb_streams,duration,format_name"

// Result is the subset of ffprobe's JSON report eafcut consumes.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream is one elementary stream of the probed file.
type Stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Duration   string `json:"duration"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// Format is the container section of the report.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// Inspect runs binary against path and decodes its JSON report.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}
	if binary = strings.TrimSpace(binary); binary == "" {
		binary = defaultBinary
	}

	cmd := commandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_entries", entries, "-of", "json", "--", path)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return Result{}, fmt.Errorf("ffprobe %s: %w: %s", path, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Result{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("decode ffprobe report for %s: %w", path, err)
	}
	return result, nil
}

// Prober binds a binary so the media gate can probe through an interface.
type Prober struct {
	Binary string
}

func (p Prober) Probe(ctx context.Context, path string) (Result, error) {
	return Inspect(ctx, p.Binary, path)
}

// AudioStreamCount returns how many audio streams the file carries.
func (r Result) AudioStreamCount() int {
	count := 0
	for _, stream := range r.Streams {
		if stream.isAudio() {
			count++
		}
	}
	return count
}

// DurationSeconds returns the container duration. Containers that do not
// report one fall back to the longest audio stream; 0 means unknown.
func (r Result) DurationSeconds() float64 {
	if d, ok := seconds(r.Format.Duration); ok {
		return d
	}
	longest := 0.0
	for _, stream := range r.Streams {
		if !stream.isAudio() {
			continue
		}
		if d, ok := seconds(stream.Duration); ok && d > longest {
			longest = d
		}
	}
	return longest
}

func (s Stream) isAudio() bool {
	return strings.EqualFold(s.CodecType, "audio")
}

func seconds(value string) (float64, bool) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
