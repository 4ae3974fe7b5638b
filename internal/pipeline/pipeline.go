package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/crimson-sun/fluxdiff/internal/config"
	"github.com/crimson-sun/fluxdiff/internal/connector"
	"github.com/crimson-sun/fluxdiff/internal/engine"
	"github.com/crimson-sun/fluxdiff/internal/model"
	"github.com/crimson-sun/fluxdiff/internal/output"
)

// Mode names one comparison.
type Mode string

const (
	ModeBytes         Mode = "bytes"
	ModeCPUData       Mode = "cpu-data"
	ModeHeaders       Mode = "headers"
	ModeSectors       Mode = "sectors"
	ModeFrames        Mode = "frames"
	ModeFlux          Mode = "flux"
	ModeStatus        Mode = "status"
	ModeTracks        Mode = "tracks"
	ModeCPU           Mode = "cpu"
	ModeDataFields    Mode = "data-fields"
	ModeFluxVsCPU     Mode = "flux-vs-cpu"
	ModeRepeats       Mode = "repeats"
	ModeDiscrepancies Mode = "discrepancies"
	ModeSummary       Mode = "summary"
)

var modes = []Mode{
	ModeBytes, ModeCPUData, ModeHeaders, ModeSectors, ModeFrames, ModeFlux,
	ModeStatus, ModeTracks, ModeCPU, ModeDataFields, ModeFluxVsCPU,
	ModeRepeats, ModeDiscrepancies, ModeSummary,
}

// Modes returns every supported mode in display order.
func Modes() []Mode { return append([]Mode(nil), modes...) }

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode: %s", s)
}

// SingleTrace reports whether the mode inspects only the vsim trace.
func (m Mode) SingleTrace() bool {
	return m == ModeFluxVsCPU || m == ModeDiscrepancies
}

// Request selects a comparison and its inputs.
type Request struct {
	Mode  Mode
	Left  string // MAME trace path
	Right string // vsim trace path
	Start int
	Limit int // 0 means no limit
	// MotorOn restricts byte and status modes to reads with the motor on.
	MotorOn    bool
	StartFrame int
	EndFrame   int // 0 means no upper bound
}

// ReportObserver receives every completed report.
type ReportObserver interface {
	ObserveReport(model.Report)
}

// Pipeline connects a connector, engine, and output into one comparison run.
type Pipeline struct {
	connector connector.Connector
	engine    *engine.Engine
	output    output.Output
	policy    config.Policy
	observer  ReportObserver
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPolicy sets the comparison policy. Default: config.DefaultPolicy().
func WithPolicy(p config.Policy) Option {
	return func(pl *Pipeline) { pl.policy = p }
}

// WithObserver registers a ReportObserver.
func WithObserver(o ReportObserver) Option {
	return func(pl *Pipeline) { pl.observer = o }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(pl *Pipeline) { pl.logger = l }
}

// New creates a Pipeline from the given components. conn and out may be nil
// when only Evaluate is used.
func New(conn connector.Connector, eng *engine.Engine, out output.Output, opts ...Option) *Pipeline {
	p := &Pipeline{
		connector: conn,
		engine:    eng,
		output:    out,
		policy:    config.DefaultPolicy(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run loads the traces, compares them, and writes the report to the output.
func (p *Pipeline) Run(ctx context.Context, cfg connector.ConnectorConfig, req Request) (model.Report, error) {
	left, right, err := p.load(ctx, cfg, req)
	if err != nil {
		return model.Report{}, err
	}

	report := p.Evaluate(req, left, right)
	if err := p.output.Write(ctx, report); err != nil {
		return report, fmt.Errorf("pipeline output: %w", err)
	}
	return report, nil
}

func (p *Pipeline) load(ctx context.Context, cfg connector.ConnectorConfig, req Request) (left, right model.RawTrace, err error) {
	if !req.Mode.SingleTrace() {
		cfg.Source = model.MAME
		if left, err = p.connector.Load(ctx, cfg, req.Left); err != nil {
			return left, right, fmt.Errorf("pipeline load %s: %w", model.MAME, err)
		}
	}
	cfg.Source = model.Vsim
	if right, err = p.connector.Load(ctx, cfg, req.Right); err != nil {
		return left, right, fmt.Errorf("pipeline load %s: %w", model.Vsim, err)
	}
	return left, right, nil
}

// Evaluate runs the comparison named by req.Mode over already loaded
// traces. Unknown modes produce a no-data report with a note.
func (p *Pipeline) Evaluate(req Request, left, right model.RawTrace) model.Report {
	e := &evaluation{p: p, req: req, left: left, right: right}
	var r model.Report
	switch req.Mode {
	case ModeBytes, "":
		r = e.bytes(e.gate())
	case ModeCPUData:
		r = e.bytes(gateActive)
	case ModeHeaders:
		r = e.headers()
	case ModeSectors:
		r = e.sectors()
	case ModeFrames:
		r = e.frames()
	case ModeFlux:
		r = e.flux()
	case ModeStatus:
		r = e.status()
	case ModeTracks:
		r = e.tracks()
	case ModeCPU:
		r = e.cpu()
	case ModeDataFields:
		r = e.dataFields()
	case ModeFluxVsCPU:
		r = e.fluxVsCPU()
	case ModeRepeats:
		r = e.repeats()
	case ModeDiscrepancies:
		r = e.discrepancies()
	case ModeSummary:
		r = e.summary()
	default:
		r = model.Report{Status: "no-data", FirstDivergence: -1, Notes: []string{"unknown mode"}}
	}
	r.Mode = string(req.Mode)
	if r.Mode == "" {
		r.Mode = string(ModeBytes)
	}
	if r.Left.Path == "" {
		r.Left.Path = left.Path
	}
	if r.Right.Path == "" {
		r.Right.Path = right.Path
	}

	p.logger.Info("comparison complete",
		"mode", r.Mode,
		"status", r.Status,
		"compared", r.Compared,
		"mismatches", r.Mismatches,
		"first_divergence", r.FirstDivergence,
	)
	if p.observer != nil {
		p.observer.ObserveReport(r)
	}
	return r
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	if p.output == nil {
		return nil
	}
	return p.output.Close()
}
