// Package observability exports parse and comparison diagnostics as
// Prometheus metrics.
package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/crimson-sun/fluxdiff/internal/model"
)

// Recorder counts parse outcomes per source and dialect, and comparison
// outcomes per mode. It implements engine.Recorder.
type Recorder struct {
	reg         *prometheus.Registry
	lines       *prometheus.CounterVec
	classified  *prometheus.CounterVec
	dropped     *prometheus.CounterVec
	comparisons *prometheus.CounterVec
	mismatches  *prometheus.GaugeVec
}

// NewRecorder creates a Recorder on its own registry.
func NewRecorder() *Recorder {
	lines := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fluxdiff_lines_total",
		Help: "Trace lines read by the parser.",
	}, []string{"source", "dialect"})
	classified := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fluxdiff_lines_classified_total",
		Help: "Trace lines matched by a classifier rule.",
	}, []string{"source", "dialect", "rule"})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fluxdiff_lines_dropped_total",
		Help: "Trace lines no rule matched.",
	}, []string{"source", "dialect"})
	comparisons := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fluxdiff_comparisons_total",
		Help: "Completed comparisons by mode and outcome.",
	}, []string{"mode", "status"})
	mismatches := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fluxdiff_mismatches",
		Help: "Mismatching pairs in the last comparison of each mode.",
	}, []string{"mode"})

	reg := prometheus.NewRegistry()
	reg.MustRegister(lines, classified, dropped, comparisons, mismatches)

	return &Recorder{
		reg:         reg,
		lines:       lines,
		classified:  classified,
		dropped:     dropped,
		comparisons: comparisons,
		mismatches:  mismatches,
	}
}

// ObserveParse records the stats of one parse.
func (r *Recorder) ObserveParse(src model.Source, dialect string, stats model.ParseStats) {
	s := string(src)
	r.lines.WithLabelValues(s, dialect).Add(float64(stats.Lines))
	r.dropped.WithLabelValues(s, dialect).Add(float64(stats.Dropped))
	for rule, n := range stats.ByRule {
		r.classified.WithLabelValues(s, dialect, rule).Add(float64(n))
	}
}

// ObserveReport records the outcome of one comparison.
func (r *Recorder) ObserveReport(rep model.Report) {
	r.comparisons.WithLabelValues(rep.Mode, rep.Status).Inc()
	r.mismatches.WithLabelValues(rep.Mode).Set(float64(rep.Mismatches))
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.reg }

// WriteTextfile writes every metric in the text exposition format, for the
// node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("observability: write textfile: %w", err)
	}
	return nil
}
