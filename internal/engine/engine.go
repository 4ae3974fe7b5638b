package engine

import (
	"strings"

	"github.com/crimson-sun/fluxdiff/internal/engine/classifier"
	"github.com/crimson-sun/fluxdiff/internal/model"
)

// Recorder receives per-parse line counts. Implementations must be safe for
// concurrent use when one Engine parses several traces at once.
type Recorder interface {
	ObserveParse(src model.Source, dialect string, stats model.ParseStats)
}

// Dialect names passed to Recorder.
const (
	DialectController = "controller"
	DialectFlux       = "flux"
	DialectCPU        = "cpu"
)

// Engine parses trace lines into typed event streams. It holds no per-parse
// state and may be shared.
type Engine struct {
	recorder Recorder
	maxTrack int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder reports parse statistics to r.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithMaxTrack sets the highest track reachable by sources that only log
// step commands.
func WithMaxTrack(n int) Option {
	return func(e *Engine) { e.maxTrack = n }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{maxTrack: classifier.DefaultMaxTrack}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Parse classifies controller-level lines of src. Lines no rule matches are
// counted as dropped and otherwise ignored.
func (e *Engine) Parse(src model.Source, lines []string) model.Trace {
	d := classifier.MAME()
	if src == model.Vsim {
		d = classifier.Vsim()
	}
	events, stats := run(d, src, lines, e.maxTrack)
	e.observe(src, DialectController, stats)
	return model.Trace{Source: src, Events: events, Stats: stats}
}

// ParseFlux classifies bit-level flux lines. Both sources share one format.
func (e *Engine) ParseFlux(src model.Source, lines []string) model.FluxTrace {
	events, stats := run(classifier.Flux(), src, lines, e.maxTrack)
	e.observe(src, DialectFlux, stats)
	return model.FluxTrace{Source: src, Events: events, Stats: stats}
}

// ParseCPU extracts "BB:AAAA: text" instruction lines.
func (e *Engine) ParseCPU(src model.Source, lines []string) model.CPUTrace {
	ins, stats := run(classifier.CPU(), src, lines, e.maxTrack)
	e.observe(src, DialectCPU, stats)
	return model.CPUTrace{Source: src, Instructions: ins, Stats: stats}
}

func (e *Engine) observe(src model.Source, dialect string, stats model.ParseStats) {
	if e.recorder != nil {
		e.recorder.ObserveParse(src, dialect, stats)
	}
}

func run[E any](d classifier.Dialect[E], src model.Source, lines []string, maxTrack int) ([]E, model.ParseStats) {
	c := classifier.NewCursor(src, maxTrack)
	stats := model.ParseStats{ByRule: make(map[string]int)}
	var out []E

	for i, line := range lines {
		c.Line = i + 1
		stats.Lines++

		ev, rule, ok := d.Classify(strings.TrimSpace(line), c)
		if rule == "" {
			stats.Dropped++
			continue
		}
		stats.Classified++
		stats.ByRule[rule]++
		if ok {
			out = append(out, ev)
		}
	}
	return out, stats
}

// SplitLines splits decoded trace text on '\n'. Every piece counts as a line,
// including an empty one after a trailing newline, so line numbers match an
// editor's.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}
