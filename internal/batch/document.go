package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"eafcut/internal/clip"
	"eafcut/internal/eaf"
	"eafcut/internal/logging"
	"eafcut/internal/manifest"
	"eafcut/internal/media"
	"eafcut/internal/metrics"
	"eafcut/internal/services"
	"eafcut/internal/timeline"
	"eafcut/internal/transcript"
)

type documentPipeline struct {
	cutter  *clip.Cutter
	locator media.Locator
	logger  *slog.Logger
	metrics *metrics.BatchMetrics
	ledger  *manifest.Store
	runID   string
	request Request
}

// process runs one document end to end. It never panics and never returns
// an error; every problem is folded into the result.
func (p *documentPipeline) process(ctx context.Context, path string) (result DocumentResult) {
	ctx = services.WithDocument(ctx, path)
	logger := logging.WithContext(ctx, p.logger)
	result = DocumentResult{Path: path}

	defer func() {
		if rec := recover(); rec != nil {
			result.Outcome = services.OutcomeFailed
			result.Err = fmt.Errorf("panic while processing %s: %v", path, rec)
			logging.ErrorWithContext(logger, "document pipeline panicked", "document_panic",
				logging.Any("panic", rec),
				logging.String("stack", string(debug.Stack())),
			)
		}
	}()

	doc, err := eaf.Parse(path)
	if err != nil {
		return p.fail(logger, result, services.Wrap(services.ErrParse, "parse", "decode", "", err))
	}

	located, err := p.locator.Locate(services.WithStage(ctx, "locate"), doc, path)
	if err != nil {
		if reason := media.SkipReason(err); reason != "" {
			return p.skip(logger, result, reason, err)
		}
		return p.fail(logger, result, err)
	}
	result.Media = located.Path

	if !doc.HasTier(p.request.TierID) {
		err := services.Wrap(services.ErrNotFound, "resolve", "tier", fmt.Sprintf("%q", p.request.TierID), nil)
		logger.Info("available tiers", logging.String("tiers", strings.Join(doc.TierIDs(), ", ")))
		return p.skip(logger, result, "tier not found", err)
	}

	spans, failures := timeline.ResolveAll(doc.TimeSlots(), doc.Utterances(p.request.TierID))
	for _, failure := range failures {
		result.Failures++
		p.metrics.RecordUtteranceFailure(failureReason(failure.Err))
		logging.WarnWithContext(logger, "utterance skipped", "utterance_unresolved",
			logging.String("annotation_id", failure.Utterance.AnnotationID),
			logging.Slots(failure.Utterance.StartSlot, failure.Utterance.EndSlot),
			logging.Error(failure.Err),
			logging.String(logging.FieldErrorHint, "check the TIME_ORDER of the annotation document"),
			logging.String(logging.FieldImpact, "no clip produced for this utterance"),
		)
	}
	if located.Duration > 0 {
		for _, span := range spans {
			if span.End > located.Duration {
				logging.WarnWithContext(logger, "utterance ends past media end", "span_beyond_media",
					logging.Slots(span.StartSlot, span.EndSlot),
					logging.Seconds("end_seconds", span.End),
					logging.Seconds("media_seconds", located.Duration),
					logging.String(logging.FieldImpact, "clip will be shorter than annotated"),
				)
			}
		}
	}

	cut := p.cutter.Cut(services.WithStage(ctx, "cut"), located.Path, spans, p.request.OutputDir)
	var ready []timeline.Span
	for _, res := range cut {
		if res.Err != nil {
			result.Failures++
			p.metrics.RecordUtteranceFailure("trim_failed")
			logging.WarnWithContext(logger, "clip not cut", "trim_failed",
				logging.String("clip", res.Path),
				logging.String("annotation_id", res.Span.AnnotationID),
				logging.Error(res.Err),
				logging.String(logging.FieldErrorHint, "check ffmpeg output and the media file"),
				logging.String(logging.FieldImpact, "no clip produced for this utterance"),
			)
			continue
		}
		ready = append(ready, res.Span)
	}

	for _, written := range transcript.Write(located.Path, ready, p.request.OutputDir) {
		if written.Err != nil {
			result.Failures++
			p.metrics.RecordUtteranceFailure("transcript_failed")
			logging.WarnWithContext(logger, "transcript not written", "transcript_failed",
				logging.String("transcript", written.Path),
				logging.Error(written.Err),
				logging.String(logging.FieldImpact, "clip has no transcript"),
			)
			continue
		}
		result.Clips++
		wavPath := clip.OutputName(p.request.OutputDir, located.Path, written.Span.StartSlot, written.Span.EndSlot, clip.AudioExt)
		p.record(ctx, logger, path, located.Path, written.Span, wavPath, written.Path)
	}
	p.metrics.AddClips(result.Clips)

	if err := ctx.Err(); err != nil {
		result.Outcome = services.OutcomeFailed
		result.Err = err
		return result
	}

	switch {
	case result.Failures == 0:
		result.Outcome = services.OutcomePrepared
	case result.Clips > 0:
		result.Outcome = services.OutcomePartial
	default:
		result.Outcome = services.OutcomeFailed
		result.Err = fmt.Errorf("no utterance of %s produced a clip", path)
	}
	if result.Clips > 0 || result.Outcome == services.OutcomePrepared {
		logger.Info("Prepared files for "+path,
			logging.String(logging.FieldEventType, "document_prepared"),
			logging.Int("clips", result.Clips),
			logging.Int("failures", result.Failures),
		)
	}
	return result
}

func (p *documentPipeline) skip(logger *slog.Logger, result DocumentResult, reason string, err error) DocumentResult {
	result.Outcome = services.OutcomeSkipped
	result.Reason = reason
	result.Err = err
	logging.WarnWithContext(logger, fmt.Sprintf("Skipping %s: %s", result.Path, reason), "document_skipped",
		logging.String("reason", reason),
		logging.Error(err),
		logging.String(logging.FieldImpact, "no clips produced for this document"),
	)
	return result
}

func (p *documentPipeline) fail(logger *slog.Logger, result DocumentResult, err error) DocumentResult {
	result.Outcome = services.FailureOutcome(err)
	result.Err = err
	if result.Outcome == services.OutcomeSkipped {
		return p.skip(logger, result, "invalid media", err)
	}
	logging.ErrorWithContext(logger, "document failed", "document_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, failureHint(err)),
	)
	return result
}

func (p *documentPipeline) record(ctx context.Context, logger *slog.Logger, docPath, mediaPath string, span timeline.Span, wavPath, txtPath string) {
	if p.ledger == nil {
		return
	}
	err := p.ledger.RecordClip(ctx, manifest.Clip{
		RunID:        p.runID,
		Document:     docPath,
		Media:        mediaPath,
		StartSlot:    span.StartSlot,
		EndSlot:      span.EndSlot,
		StartSeconds: span.Start,
		EndSeconds:   span.End,
		WavPath:      wavPath,
		TxtPath:      txtPath,
		Text:         span.Text,
	})
	if err != nil {
		logger.Warn("failed to record clip in manifest", logging.String("clip", wavPath), logging.Error(err))
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, timeline.ErrMissingSlot):
		return "missing_slot"
	case errors.Is(err, timeline.ErrInvertedSpan):
		return "inverted_span"
	case errors.Is(err, timeline.ErrEmptySpan):
		return "empty_span"
	default:
		return "unresolved"
	}
}

func failureHint(err error) string {
	switch {
	case errors.Is(err, services.ErrParse):
		return "document is not valid annotation XML"
	case errors.Is(err, services.ErrExternalTool):
		return "check that ffprobe can read the media file"
	default:
		return "check logs for details"
	}
}
