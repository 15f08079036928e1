// Package transcript writes the utterance text that accompanies each clip.
package transcript

import (
	"fmt"

	"eafcut/internal/clip"
	"eafcut/internal/fileutil"
	"eafcut/internal/timeline"
)

// Result reports the outcome of writing one transcript.
type Result struct {
	Span timeline.Span
	Path string
	Err  error
}

// Write stores each span's text verbatim as UTF-8 in a file named after the
// span's clip. No trailing newline is added; an empty annotation produces an
// empty file. Existing files are replaced.
func Write(mediaPath string, spans []timeline.Span, outDir string) []Result {
	results := make([]Result, 0, len(spans))
	for _, span := range spans {
		path := clip.OutputName(outDir, mediaPath, span.StartSlot, span.EndSlot, clip.TextExt)
		var err error
		if writeErr := fileutil.WriteFileAtomic(path, []byte(span.Text), 0o644); writeErr != nil {
			err = fmt.Errorf("write transcript %s: %w", path, writeErr)
		}
		results = append(results, Result{Span: span, Path: path, Err: err})
	}
	return results
}
