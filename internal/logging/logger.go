package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"eafcut/internal/config"
)

// LogFileName is the file written inside logging.dir when one is configured.
const LogFileName = "eafcut.log"

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Writer receives every line. Nil means os.Stderr.
	Writer io.Writer
	// File, when set, receives a copy of every line.
	File string
	// Development forces source locations at every level.
	Development bool
}

// New constructs a slog logger from opts.
func New(opts Options) (*slog.Logger, error) {
	levelVar := new(slog.LevelVar)
	levelVar.Set(ParseLevel(opts.Level))

	writer, err := opts.output()
	if err != nil {
		return nil, err
	}
	addSource := opts.Development || levelVar.Level() <= slog.LevelDebug

	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "json":
		return slog.New(newJSONHandler(writer, levelVar, addSource)), nil
	case "", "console":
		return slog.New(newPrettyHandler(writer, levelVar, addSource)), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// NewFromConfig builds the logger for a batch run. Lines go to console and,
// when logging.dir is set, are appended to LogFileName inside it.
func NewFromConfig(cfg *config.Config, console io.Writer) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Writer: console})
	}
	opts := Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: console,
	}
	if cfg.Logging.Dir != "" {
		opts.File = filepath.Join(cfg.Logging.Dir, LogFileName)
	}
	return New(opts)
}

// ParseLevel maps a configured level name to a slog level. Unknown names
// fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (o Options) output() (io.Writer, error) {
	var console io.Writer = os.Stderr
	if o.Writer != nil {
		console = o.Writer
	}
	path := strings.TrimSpace(o.File)
	if path == "" {
		return console, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return io.MultiWriter(console, file), nil
}
