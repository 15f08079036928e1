// Package config loads, normalizes, and validates eafcut configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// EAFCUT_FFMPEG. The Config type centralizes every knob the batch pipeline and
// CLI need, so annotation matching, media gates, and ffmpeg settings are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized extensions, canonical log formats, and clear validation errors.
package config
