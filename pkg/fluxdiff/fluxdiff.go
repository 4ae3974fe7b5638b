package fluxdiff

import (
	"fmt"

	"github.com/crimson-sun/fluxdiff/internal/config"
	"github.com/crimson-sun/fluxdiff/internal/engine"
	"github.com/crimson-sun/fluxdiff/internal/engine/compactor"
	"github.com/crimson-sun/fluxdiff/internal/model"
	"github.com/crimson-sun/fluxdiff/internal/pipeline"
)

// Differ compares MAME and vsim trace text.
type Differ struct {
	engine    *engine.Engine
	pipeline  *pipeline.Pipeline
	compactor *compactor.Compactor
	opts      options
}

// New creates a Differ. It fails when the policy file cannot be read or
// the resulting settings are invalid.
func New(opts ...Option) (*Differ, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pol := config.DefaultPolicy()
	if o.policyPath != "" {
		var err error
		if pol, err = config.LoadPolicy(o.policyPath); err != nil {
			return nil, fmt.Errorf("fluxdiff: %w", err)
		}
	}
	if o.trackBits != 0 {
		pol.TrackBits = o.trackBits
	}
	if o.frameRatio != 0 {
		pol.FrameMatchRatio = o.frameRatio
	}
	if err := pol.Validate(); err != nil {
		return nil, fmt.Errorf("fluxdiff: %w", err)
	}

	eng := engine.New(engine.WithMaxTrack(pol.MaxTrack))
	return &Differ{
		engine:    eng,
		pipeline:  pipeline.New(nil, eng, nil, pipeline.WithPolicy(pol), pipeline.WithLogger(o.logger)),
		compactor: compactor.New(compactor.ParseVerbosity(o.verbosity), pol.RowLimit),
		opts:      o,
	}, nil
}

// Modes lists the comparison modes Compare accepts.
func Modes() []string {
	var out []string
	for _, m := range pipeline.Modes() {
		out = append(out, string(m))
	}
	return out
}

// Compare runs one comparison over the text of a MAME trace and a vsim
// trace. Modes that inspect only the vsim trace ignore left.
func (d *Differ) Compare(mode, left, right string) (Report, error) {
	m, err := pipeline.ParseMode(mode)
	if err != nil {
		return Report{}, fmt.Errorf("fluxdiff: %w", err)
	}
	req := pipeline.Request{
		Mode:    m,
		Start:   d.opts.start,
		Limit:   d.opts.limit,
		MotorOn: d.opts.motorOn,
	}
	r := d.pipeline.Evaluate(req, rawTrace(model.MAME, left), rawTrace(model.Vsim, right))
	return reportFromModel(d.compactor.Compact(r)), nil
}

// Parse classifies the lines of one controller trace. source is "mame" or
// "vsim".
func (d *Differ) Parse(source, text string) (Trace, error) {
	src := model.Source(source)
	if src != model.MAME && src != model.Vsim {
		return Trace{}, fmt.Errorf("fluxdiff: unknown source: %s", source)
	}
	return traceFromModel(d.engine.Parse(src, engine.SplitLines(text))), nil
}

func rawTrace(src model.Source, text string) model.RawTrace {
	if text == "" {
		return model.RawTrace{Source: src}
	}
	return model.RawTrace{Source: src, Lines: engine.SplitLines(text)}
}
