package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"eafcut/internal/eaf"
	"eafcut/internal/media/ffprobe"
	"eafcut/internal/services"
)

var (
	ErrNoMedia              = fmt.Errorf("%w: no media reference", services.ErrValidation)
	ErrMediaMissing         = fmt.Errorf("%w: media file does not exist", services.ErrValidation)
	ErrUnsupportedContainer = fmt.Errorf("%w: unsupported media container", services.ErrValidation)
	ErrNoAudioStream        = fmt.Errorf("%w: media has no audio stream", services.ErrValidation)
)

const fileURLPrefix = "file:///"

// Prober inspects a media file. ffprobe.Prober satisfies it.
type Prober interface {
	Probe(ctx context.Context, path string) (ffprobe.Result, error)
}

// Locator applies the media gates to parsed documents.
type Locator struct {
	PreferredMIMETypes []string
	ExcludedExtensions []string
	ResolveRelative    bool
	Prober             Prober
}

// Media is a recording that passed every gate.
type Media struct {
	Path       string
	Descriptor eaf.MediaDescriptor
	// Duration is the probed length in seconds, 0 when not probed.
	Duration float64
}

// Locate resolves and validates the media file referenced by doc. docPath is
// the annotation file itself and anchors RELATIVE_MEDIA_URL lookups.
func (l Locator) Locate(ctx context.Context, doc *eaf.Document, docPath string) (Media, error) {
	desc, ok := doc.MediaReference(l.PreferredMIMETypes...)
	if !ok || (strings.TrimSpace(desc.MediaURL) == "" && strings.TrimSpace(desc.RelativeMediaURL) == "") {
		return Media{}, ErrNoMedia
	}

	path := PathFromURL(desc.MediaURL)
	if !exists(path) {
		relative := ""
		if l.ResolveRelative && desc.RelativeMediaURL != "" {
			relative = filepath.Join(filepath.Dir(docPath), PathFromURL(desc.RelativeMediaURL))
		}
		if relative == "" || !exists(relative) {
			return Media{}, fmt.Errorf("%w: %s", ErrMediaMissing, path)
		}
		path = relative
	}

	if l.isExcluded(path) {
		return Media{}, fmt.Errorf("%w: %s", ErrUnsupportedContainer, path)
	}

	media := Media{Path: path, Descriptor: desc}
	if l.Prober == nil {
		return media, nil
	}
	result, err := l.Prober.Probe(ctx, path)
	if err != nil {
		return Media{}, services.Wrap(services.ErrExternalTool, "locate", "ffprobe", path, err)
	}
	if result.AudioStreamCount() == 0 {
		return Media{}, fmt.Errorf("%w: %s", ErrNoAudioStream, path)
	}
	if duration := result.DurationSeconds(); duration > 0 {
		media.Duration = duration
	}
	return media, nil
}

// SkipReason returns a short label for a gate error, or "" for other errors.
func SkipReason(err error) string {
	switch {
	case errors.Is(err, ErrNoMedia):
		return "no media"
	case errors.Is(err, ErrMediaMissing):
		return "missing file"
	case errors.Is(err, ErrUnsupportedContainer):
		return "unsupported container"
	case errors.Is(err, ErrNoAudioStream):
		return "no audio stream"
	default:
		return ""
	}
}

func (l Locator) isExcluded(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range l.ExcludedExtensions {
		if ext != "" && strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// PathFromURL converts a MEDIA_URL value into a filesystem path. For file
// URLs the path is the text after the last "file:///", percent-decoded with
// '#' and '?' kept as ordinary characters. Anything else is returned
// unchanged.
func PathFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "file:") {
		return raw
	}

	var path string
	switch {
	case strings.Contains(lower, fileURLPrefix):
		path = "/" + raw[strings.LastIndex(lower, fileURLPrefix)+len(fileURLPrefix):]
	case strings.HasPrefix(lower, "file://localhost/"):
		path = raw[len("file://localhost"):]
	case strings.HasPrefix(lower, "file://"):
		// file://server/share is a UNC path.
		path = "//" + raw[len("file://"):]
	default:
		// file:relative/path.wav or file:/abs/path.wav
		path = raw[len("file:"):]
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	if runtime.GOOS == "windows" && len(path) > 2 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path)
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
