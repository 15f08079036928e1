package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Annotation controls which input files are treated as annotation documents
// and how their media references are chosen.
type Annotation struct {
	Extension          string   `toml:"extension"`
	PreferredMIMETypes []string `toml:"preferred_mime_types"`
}

// Media contains the gates applied to referenced recordings.
type Media struct {
	ExcludedExtensions []string `toml:"excluded_extensions"`
	ResolveRelative    bool     `toml:"resolve_relative"`
}

// FFmpeg contains settings for the external media cutter.
type FFmpeg struct {
	Binary         string `toml:"binary"`
	FFprobeBinary  string `toml:"ffprobe_binary"`
	ProbeMedia     bool   `toml:"probe_media"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	// SampleRate resamples clips when positive; 0 keeps the source rate.
	SampleRate int `toml:"sample_rate"`
	// Channels downmixes clips when positive; 0 keeps the source layout.
	Channels int `toml:"channels"`
}

// Manifest contains configuration for the SQLite clip ledger.
type Manifest struct {
	Enabled bool `toml:"enabled"`
	// Path defaults to manifest.db inside the output folder when empty.
	Path string `toml:"path"`
}

// Metrics contains configuration for the Prometheus textfile export.
type Metrics struct {
	TextfilePath string `toml:"textfile_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for eafcut.
//
// Configuration sections by subsystem:
//   - Annotation: input file matching and media descriptor preference
//   - Media: container exclusions and relative media lookup
//   - FFmpeg: cutter/prober binaries, timeouts, output audio shape
//   - Manifest: SQLite ledger of produced clips
//   - Metrics: Prometheus textfile export
//   - Logging: log format, level, and optional log directory
type Config struct {
	Annotation Annotation `toml:"annotation"`
	Media      Media      `toml:"media"`
	FFmpeg     FFmpeg     `toml:"ffmpeg"`
	Manifest   Manifest   `toml:"manifest"`
	Metrics    Metrics    `toml:"metrics"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("eafcut.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the optional log directory.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Logging.Dir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Logging.Dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Logging.Dir, err)
	}
	return nil
}

// ManifestPath returns the ledger location for a run writing into outputDir,
// or "" when the manifest is disabled.
func (c *Config) ManifestPath(outputDir string) string {
	if !c.Manifest.Enabled {
		return ""
	}
	return c.ManifestLocation(outputDir)
}

// ManifestLocation returns where the ledger for outputDir lives whether or not
// recording is enabled. Readers use it to inspect earlier runs.
func (c *Config) ManifestLocation(outputDir string) string {
	if c.Manifest.Path != "" {
		return c.Manifest.Path
	}
	return filepath.Join(outputDir, defaultManifestName)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() (string, error) {
	var b strings.Builder
	encoder := toml.NewEncoder(&b)
	encoder.SetIndentTables(true)
	if err := encoder.Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return b.String(), nil
}
