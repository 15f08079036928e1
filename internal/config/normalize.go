package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeAnnotation()
	c.normalizeMedia()
	c.normalizeFFmpeg()
	if err := c.normalizeManifest(); err != nil {
		return err
	}
	if err := c.normalizeMetrics(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeAnnotation() {
	c.Annotation.Extension = normalizeExtension(c.Annotation.Extension)
	if c.Annotation.Extension == "" {
		c.Annotation.Extension = defaultAnnotationExtension
	}
	mimes := make([]string, 0, len(c.Annotation.PreferredMIMETypes))
	seen := make(map[string]struct{}, len(c.Annotation.PreferredMIMETypes))
	for _, mime := range c.Annotation.PreferredMIMETypes {
		normalized := strings.ToLower(strings.TrimSpace(mime))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		mimes = append(mimes, normalized)
	}
	c.Annotation.PreferredMIMETypes = mimes
}

func (c *Config) normalizeMedia() {
	exts := make([]string, 0, len(c.Media.ExcludedExtensions))
	seen := make(map[string]struct{}, len(c.Media.ExcludedExtensions))
	for _, ext := range c.Media.ExcludedExtensions {
		normalized := normalizeExtension(ext)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	c.Media.ExcludedExtensions = exts
}

func (c *Config) normalizeFFmpeg() {
	if value, ok := os.LookupEnv("EAFCUT_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.FFmpeg.Binary = value
	}
	if value, ok := os.LookupEnv("EAFCUT_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.FFmpeg.FFprobeBinary = value
	}
	c.FFmpeg.Binary = strings.TrimSpace(c.FFmpeg.Binary)
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = defaultFFmpegBinary
	}
	c.FFmpeg.FFprobeBinary = strings.TrimSpace(c.FFmpeg.FFprobeBinary)
	if c.FFmpeg.FFprobeBinary == "" {
		c.FFmpeg.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeManifest() error {
	var err error
	if c.Manifest.Path, err = expandPath(strings.TrimSpace(c.Manifest.Path)); err != nil {
		return fmt.Errorf("manifest.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeMetrics() error {
	var err error
	if c.Metrics.TextfilePath, err = expandPath(strings.TrimSpace(c.Metrics.TextfilePath)); err != nil {
		return fmt.Errorf("metrics.textfile_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	if value, ok := os.LookupEnv("EAFCUT_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

// normalizeExtension lowercases ext and ensures a leading dot.
func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
