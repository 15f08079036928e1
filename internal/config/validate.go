package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAnnotation(); err != nil {
		return err
	}
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAnnotation() error {
	if len(c.Annotation.Extension) < 2 {
		return errors.New("annotation.extension must be set")
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.TimeoutSeconds < 0 {
		return errors.New("ffmpeg.timeout_seconds must not be negative")
	}
	if c.FFmpeg.SampleRate < 0 {
		return errors.New("ffmpeg.sample_rate must not be negative")
	}
	if c.FFmpeg.Channels < 0 || c.FFmpeg.Channels > maxChannels {
		return fmt.Errorf("ffmpeg.channels must be between 0 and %d", maxChannels)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
