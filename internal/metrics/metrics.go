// Package metrics exports batch counters in the Prometheus text format so a
// node_exporter textfile collector can pick them up after each run.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BatchMetrics holds the counters updated by the batch driver.
type BatchMetrics struct {
	registry *prometheus.Registry

	DocumentsTotal         *prometheus.CounterVec
	ClipsWrittenTotal      prometheus.Counter
	UtteranceFailuresTotal *prometheus.CounterVec
	RunDurationSeconds     prometheus.Gauge
	LastRunTimestamp       prometheus.Gauge
}

// New creates the batch metrics on a private registry.
func New() *BatchMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &BatchMetrics{
		registry: reg,
		DocumentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eafcut_documents_total",
				Help: "Annotation documents processed by outcome",
			},
			[]string{"outcome"},
		),
		ClipsWrittenTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "eafcut_clips_written_total",
				Help: "Audio and transcript pairs written",
			},
		),
		UtteranceFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eafcut_utterance_failures_total",
				Help: "Utterances that produced no clip, by reason",
			},
			[]string{"reason"},
		),
		RunDurationSeconds: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "eafcut_run_duration_seconds",
				Help: "Wall-clock duration of the last batch run",
			},
		),
		LastRunTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "eafcut_last_run_timestamp_seconds",
				Help: "Unix time the last batch run finished",
			},
		),
	}
}

// Registry exposes the underlying gatherer.
func (m *BatchMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordDocument counts one processed document.
func (m *BatchMetrics) RecordDocument(outcome string) {
	m.DocumentsTotal.WithLabelValues(outcome).Inc()
}

// AddClips counts written pairs.
func (m *BatchMetrics) AddClips(n int) {
	if n > 0 {
		m.ClipsWrittenTotal.Add(float64(n))
	}
}

// RecordUtteranceFailure counts one dropped utterance.
func (m *BatchMetrics) RecordUtteranceFailure(reason string) {
	m.UtteranceFailuresTotal.WithLabelValues(reason).Inc()
}

// ObserveRun records the run duration and completion time.
func (m *BatchMetrics) ObserveRun(duration time.Duration, finished time.Time) {
	m.RunDurationSeconds.Set(duration.Seconds())
	m.LastRunTimestamp.Set(float64(finished.Unix()))
}

// WriteTextfile writes every metric to path in the text exposition format.
func (m *BatchMetrics) WriteTextfile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
