package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"eafcut/internal/clip"
	"eafcut/internal/config"
	"eafcut/internal/fileutil"
	"eafcut/internal/logging"
	"eafcut/internal/manifest"
	"eafcut/internal/media"
	"eafcut/internal/media/ffprobe"
	"eafcut/internal/metrics"
	"eafcut/internal/preflight"
	"eafcut/internal/services"
)

const lockFileName = ".eafcut.lock"

// ErrOutputLocked is returned when another run holds the output folder.
var ErrOutputLocked = errors.New("output folder is locked by another eafcut run")

// Option customizes a Runner.
type Option func(*Runner)

// WithTrimmer replaces the ffmpeg trimmer.
func WithTrimmer(trimmer clip.Trimmer) Option {
	return func(r *Runner) {
		if trimmer != nil {
			r.trimmer = trimmer
		}
	}
}

// WithProber enables the media probe gate with the given prober.
func WithProber(prober media.Prober) Option {
	return func(r *Runner) {
		r.prober = prober
	}
}

// WithMetrics records counters into m instead of a private set.
func WithMetrics(m *metrics.BatchMetrics) Option {
	return func(r *Runner) {
		if m != nil {
			r.metrics = m
		}
	}
}

// Runner executes batch runs.
type Runner struct {
	cfg     *config.Config
	logger  *slog.Logger
	trimmer clip.Trimmer
	prober  media.Prober
	metrics *metrics.BatchMetrics
}

// NewRunner builds a runner from configuration. Without options it cuts with
// ffmpeg and probes with ffprobe when ffmpeg.probe_media is enabled.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "batch"),
		metrics: metrics.New(),
	}
	r.trimmer = clip.NewFFmpeg(
		clip.WithBinary(cfg.FFmpeg.Binary),
		clip.WithTimeout(time.Duration(cfg.FFmpeg.TimeoutSeconds)*time.Second),
		clip.WithSampleRate(cfg.FFmpeg.SampleRate),
		clip.WithChannels(cfg.FFmpeg.Channels),
	)
	if cfg.FFmpeg.ProbeMedia {
		r.prober = ffprobe.Prober{Binary: cfg.FFmpeg.FFprobeBinary}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Metrics returns the counters updated by Run.
func (r *Runner) Metrics() *metrics.BatchMetrics {
	return r.metrics
}

// Run processes every annotation document in req.InputDir.
func (r *Runner) Run(ctx context.Context, req Request) (Summary, error) {
	summary := Summary{Request: req, StartedAt: time.Now().UTC()}
	if err := validateRequest(req); err != nil {
		return summary, err
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	paths, err := r.listDocuments(req.InputDir)
	if err != nil {
		return summary, err
	}

	if err := fileutil.EnsureDir(req.OutputDir); err != nil {
		return summary, services.Wrap(services.ErrConfiguration, "batch", "output folder", req.OutputDir, err)
	}
	if check := preflight.CheckDirectoryAccess("Output folder", req.OutputDir); !check.Passed {
		return summary, services.Wrap(services.ErrConfiguration, "batch", "output folder", check.Detail, nil)
	}

	lock := flock.New(filepath.Join(req.OutputDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return summary, fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return summary, fmt.Errorf("%w: %s", ErrOutputLocked, req.OutputDir)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			r.logger.Warn("failed to release output lock", logging.Error(unlockErr))
			return
		}
		// The output folder holds only clip pairs once the run is over.
		if rmErr := os.Remove(lock.Path()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			r.logger.Warn("failed to remove output lock file", logging.Error(rmErr))
		}
	}()

	summary.RunID = uuid.NewString()
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)

	ledger := r.openLedger(ctx, logger, summary)
	if ledger != nil {
		defer ledger.Close()
	}

	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.String("input_dir", req.InputDir),
		logging.String("output_dir", req.OutputDir),
		logging.String("tier", req.TierID),
		logging.Int("documents", len(paths)),
	)

	pipeline := &documentPipeline{
		cutter: clip.NewCutter(r.trimmer, r.logger),
		locator: media.Locator{
			PreferredMIMETypes: r.cfg.Annotation.PreferredMIMETypes,
			ExcludedExtensions: r.cfg.Media.ExcludedExtensions,
			ResolveRelative:    r.cfg.Media.ResolveRelative,
			Prober:             r.prober,
		},
		logger:  r.logger,
		metrics: r.metrics,
		ledger:  ledger,
		runID:   summary.RunID,
		request: req,
	}

	var runErr error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		result := pipeline.process(ctx, path)
		r.metrics.RecordDocument(string(result.Outcome))
		summary.Documents = append(summary.Documents, result)
	}

	summary.FinishedAt = time.Now().UTC()
	r.metrics.ObserveRun(summary.Duration(), summary.FinishedAt)
	r.finish(ctx, logger, ledger, summary)

	if runErr != nil {
		return summary, fmt.Errorf("batch interrupted: %w", runErr)
	}
	return summary, nil
}

func validateRequest(req Request) error {
	switch {
	case strings.TrimSpace(req.InputDir) == "":
		return services.Wrap(services.ErrValidation, "batch", "request", "input folder required", nil)
	case strings.TrimSpace(req.OutputDir) == "":
		return services.Wrap(services.ErrValidation, "batch", "request", "output folder required", nil)
	case req.TierID == "":
		return services.Wrap(services.ErrValidation, "batch", "request", "tier id required", nil)
	}
	return nil
}

// listDocuments returns regular files in dir whose name ends in the
// annotation extension, case-insensitively. os.ReadDir sorts by file name.
func (r *Runner) listDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "batch", "list input folder", dir, err)
	}
	ext := strings.ToLower(r.cfg.Annotation.Extension)
	var paths []string
	for _, entry := range entries {
		if !strings.HasSuffix(strings.ToLower(entry.Name()), ext) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (r *Runner) openLedger(ctx context.Context, logger *slog.Logger, summary Summary) *manifest.Store {
	path := r.cfg.ManifestPath(summary.Request.OutputDir)
	if path == "" {
		return nil
	}
	store, err := manifest.Open(ctx, path)
	if err != nil {
		logging.WarnWithContext(logger, "manifest unavailable", "manifest_open_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check manifest.path permissions"),
			logging.String(logging.FieldImpact, "clips are written but not recorded"),
		)
		return nil
	}
	err = store.BeginRun(ctx, manifest.Run{
		ID:        summary.RunID,
		StartedAt: summary.StartedAt,
		InputDir:  summary.Request.InputDir,
		OutputDir: summary.Request.OutputDir,
		TierID:    summary.Request.TierID,
	})
	if err != nil {
		logging.WarnWithContext(logger, "manifest run not recorded", "manifest_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "clips are written but not recorded"),
		)
		_ = store.Close()
		return nil
	}
	return store
}

func (r *Runner) finish(ctx context.Context, logger *slog.Logger, ledger *manifest.Store, summary Summary) {
	if ledger != nil {
		totals := manifest.Totals{
			Documents: len(summary.Documents),
			Clips:     summary.Clips(),
			Failures:  summary.UtteranceFailures(),
		}
		// Record completion even when the run context was cancelled.
		if err := ledger.FinishRun(context.WithoutCancel(ctx), summary.RunID, totals); err != nil {
			logger.Warn("failed to finish manifest run", logging.Error(err))
		}
	}
	if path := r.cfg.Metrics.TextfilePath; path != "" {
		if err := r.metrics.WriteTextfile(path); err != nil {
			logging.WarnWithContext(logger, "metrics textfile not written", "metrics_write_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "run metrics unavailable to collectors"),
			)
		}
	}
	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("prepared", summary.Count(services.OutcomePrepared)),
		logging.Int("partial", summary.Count(services.OutcomePartial)),
		logging.Int("skipped", summary.Count(services.OutcomeSkipped)),
		logging.Int("failed", summary.Count(services.OutcomeFailed)),
		logging.Int("clips", summary.Clips()),
		logging.Duration("duration", summary.Duration()),
	)
}
