package clip

import (
	"context"
	"log/slog"

	"eafcut/internal/logging"
	"eafcut/internal/services"
	"eafcut/internal/timeline"
)

// Result reports the outcome of cutting one span.
type Result struct {
	Span timeline.Span
	Path string
	Err  error
}

// Cutter runs a Trimmer over every span of a document.
type Cutter struct {
	trimmer Trimmer
	logger  *slog.Logger
}

// NewCutter wires a trimmer and logger together.
func NewCutter(trimmer Trimmer, logger *slog.Logger) *Cutter {
	return &Cutter{trimmer: trimmer, logger: logging.NewComponentLogger(logger, "clip")}
}

// Cut trims one clip per span in order. A failed trim is recorded and the
// next span is attempted; a cancelled context stops the loop and marks the
// remaining spans with the context error.
func (c *Cutter) Cut(ctx context.Context, mediaPath string, spans []timeline.Span, outDir string) []Result {
	logger := logging.WithContext(ctx, c.logger)
	results := make([]Result, 0, len(spans))
	for _, span := range spans {
		dest := OutputName(outDir, mediaPath, span.StartSlot, span.EndSlot, AudioExt)
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Span: span, Path: dest, Err: err})
			continue
		}
		logger.Debug("cutting clip",
			logging.String("clip", dest),
			logging.Seconds("start_seconds", span.Start),
			logging.Seconds("end_seconds", span.End),
		)
		var err error
		if trimErr := c.trimmer.Trim(ctx, mediaPath, span.Start, span.End, dest); trimErr != nil {
			err = services.Wrap(services.ErrExternalTool, "cut", "trim", span.StartSlot+"-"+span.EndSlot, trimErr)
		}
		results = append(results, Result{Span: span, Path: dest, Err: err})
	}
	return results
}
