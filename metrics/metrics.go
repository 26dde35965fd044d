// Package metrics records per-run counters and writes them as a Prometheus
// textfile, suitable for node-exporter's textfile collector.
//
// Each Recorder owns a private registry so a run only exports its own series.
// All methods are safe to call on a nil *Recorder, which records nothing.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes.
const (
	OutcomeFound    = "found"
	OutcomeGuessed  = "guessed"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Frame results.
const (
	FrameResolved   = "resolved"
	FrameDenied     = "denied"
	FrameMissing    = "missing"
	FrameUnexplored = "unexplored"
)

// Recorder holds the metrics of one process.
type Recorder struct {
	registry *prometheus.Registry

	RunsTotal        *prometheus.CounterVec
	StrategyHits     *prometheus.CounterVec
	FramesTotal      *prometheus.CounterVec
	LevelsSearched   prometheus.Gauge
	RunDuration      prometheus.Histogram
	LastRunTimestamp prometheus.Gauge
}

// New creates a Recorder backed by a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,

		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "m3u8cmd_runs_total",
				Help: "Total number of extraction runs by outcome",
			},
			[]string{"outcome"},
		),

		StrategyHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "m3u8cmd_strategy_hits_total",
				Help: "Total number of playlist URLs accepted per locator strategy",
			},
			[]string{"strategy"},
		),

		FramesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "m3u8cmd_frames_total",
				Help: "Total number of frames encountered by result",
			},
			[]string{"result"},
		),

		LevelsSearched: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "m3u8cmd_levels_searched",
				Help: "Number of frame levels probed in the last run",
			},
		),

		RunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "m3u8cmd_run_duration_seconds",
				Help:    "Extraction run duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),

		LastRunTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "m3u8cmd_last_run_timestamp_seconds",
				Help: "Unix timestamp of the last run",
			},
		),
	}
}

// Registry returns the registry backing r.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveRun records a finished run.
func (r *Recorder) ObserveRun(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.RunsTotal.WithLabelValues(outcome).Inc()
	r.RunDuration.Observe(d.Seconds())
	r.LastRunTimestamp.SetToCurrentTime()
}

// StrategyHit counts an accepted candidate for strategy.
func (r *Recorder) StrategyHit(strategy string) {
	if r == nil {
		return
	}
	r.StrategyHits.WithLabelValues(strategy).Inc()
}

// ObserveFrames records the frame counts of a search.
func (r *Recorder) ObserveFrames(resolved, denied, missing, unexplored, levels int) {
	if r == nil {
		return
	}
	r.FramesTotal.WithLabelValues(FrameResolved).Add(float64(resolved))
	r.FramesTotal.WithLabelValues(FrameDenied).Add(float64(denied))
	r.FramesTotal.WithLabelValues(FrameMissing).Add(float64(missing))
	r.FramesTotal.WithLabelValues(FrameUnexplored).Add(float64(unexplored))
	r.LevelsSearched.Set(float64(levels))
}

// WriteTextfile writes every series to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
