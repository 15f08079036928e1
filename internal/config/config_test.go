package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"eafcut/internal/config"
)

func TestLoadDefaultConfigWithoutFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	wantPath := filepath.Join(tempHome, ".config", "eafcut", "config.toml")
	if resolved != wantPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, wantPath)
	}
	if cfg.Annotation.Extension != ".eaf" {
		t.Fatalf("unexpected annotation extension: %q", cfg.Annotation.Extension)
	}
	if len(cfg.Annotation.PreferredMIMETypes) != 1 || cfg.Annotation.PreferredMIMETypes[0] != "audio/x-wav" {
		t.Fatalf("unexpected preferred mime types: %v", cfg.Annotation.PreferredMIMETypes)
	}
	if len(cfg.Media.ExcludedExtensions) != 1 || cfg.Media.ExcludedExtensions[0] != ".avi" {
		t.Fatalf("unexpected excluded extensions: %v", cfg.Media.ExcludedExtensions)
	}
	if cfg.FFmpeg.Binary != "ffmpeg" || cfg.FFmpeg.FFprobeBinary != "ffprobe" {
		t.Fatalf("unexpected binaries: %q %q", cfg.FFmpeg.Binary, cfg.FFmpeg.FFprobeBinary)
	}
	if cfg.Manifest.Enabled {
		t.Fatal("expected manifest disabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomConfigNormalizesValues(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := map[string]any{
		"annotation": map[string]any{
			"extension":            "EAF",
			"preferred_mime_types": []string{" Audio/X-WAV ", "audio/x-wav", "audio/wav"},
		},
		"media": map[string]any{
			"excluded_extensions": []string{"AVI", ".mpg", ""},
		},
		"manifest": map[string]any{
			"enabled": true,
			"path":    "~/ledger/clips.db",
		},
		"logging": map[string]any{
			"format": "JSON",
			"level":  " Debug ",
		},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Annotation.Extension != ".eaf" {
		t.Fatalf("expected normalized extension, got %q", cfg.Annotation.Extension)
	}
	if got := strings.Join(cfg.Annotation.PreferredMIMETypes, ","); got != "audio/x-wav,audio/wav" {
		t.Fatalf("unexpected mime types: %q", got)
	}
	if got := strings.Join(cfg.Media.ExcludedExtensions, ","); got != ".avi,.mpg" {
		t.Fatalf("unexpected excluded extensions: %q", got)
	}
	if want := filepath.Join(tempHome, "ledger", "clips.db"); cfg.ManifestPath("/out") != want {
		t.Fatalf("unexpected manifest path: got %q want %q", cfg.ManifestPath("/out"), want)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("EAFCUT_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("EAFCUT_FFPROBE", "/opt/ffmpeg/bin/ffprobe")
	t.Setenv("EAFCUT_LOG_LEVEL", "warn")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FFmpeg.Binary != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("expected ffmpeg override, got %q", cfg.FFmpeg.Binary)
	}
	if cfg.FFmpeg.FFprobeBinary != "/opt/ffmpeg/bin/ffprobe" {
		t.Fatalf("expected ffprobe override, got %q", cfg.FFmpeg.FFprobeBinary)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected log level override, got %q", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*config.Config){
		"negative timeout": func(c *config.Config) { c.FFmpeg.TimeoutSeconds = -1 },
		"negative rate":    func(c *config.Config) { c.FFmpeg.SampleRate = -8000 },
		"too many chans":   func(c *config.Config) { c.FFmpeg.Channels = 12 },
		"bad level":        func(c *config.Config) { c.Logging.Level = "verbose" },
		"empty extension":  func(c *config.Config) { c.Annotation.Extension = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestManifestPathDefaultsToOutputFolder(t *testing.T) {
	cfg := config.Default()
	if got := cfg.ManifestPath("/out"); got != "" {
		t.Fatalf("expected empty path when disabled, got %q", got)
	}
	if got := cfg.ManifestLocation("/out"); got != filepath.Join("/out", "manifest.db") {
		t.Fatalf("expected location regardless of toggle, got %q", got)
	}
	cfg.Manifest.Enabled = true
	if got := cfg.ManifestPath("/out"); got != filepath.Join("/out", "manifest.db") {
		t.Fatalf("unexpected manifest path: %q", got)
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Annotation.Extension != ".eaf" {
		t.Fatalf("unexpected extension from sample: %q", cfg.Annotation.Extension)
	}
	encoded, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !strings.Contains(encoded, "[ffmpeg]") {
		t.Fatalf("expected ffmpeg table in encoded config:\n%s", encoded)
	}
}
