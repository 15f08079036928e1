// Package ffprobe asks ffprobe for the stream and container facts the media
// gate checks before any clip is cut: whether the file has audio and how long
// it runs.
package ffprobe
