package fluxdiff

import "log/slog"

type options struct {
	policyPath string
	trackBits  int
	frameRatio float64
	verbosity  string
	start      int
	limit      int
	motorOn    bool
	logger     *slog.Logger
}

// Option configures a Differ.
type Option func(*options)

// WithPolicy loads comparison settings from a YAML policy file.
func WithPolicy(path string) Option {
	return func(o *options) {
		o.policyPath = path
	}
}

// WithTrackBits sets the track length in bits used to convert vsim bit
// positions to angles. Overrides the policy. Default: 75215.
func WithTrackBits(n int) Option {
	return func(o *options) {
		o.trackBits = n
	}
}

// WithFrameRatio sets the minimum valid-byte ratio for two frames to match.
// Overrides the policy. Default: 0.8.
func WithFrameRatio(r float64) Option {
	return func(o *options) {
		o.frameRatio = r
	}
}

// WithVerbosity sets how many rows reports keep: "minimal", "standard", "full".
// Default: "standard".
func WithVerbosity(v string) Option {
	return func(o *options) {
		o.verbosity = v
	}
}

// WithWindow restricts sequence comparisons to limit indices starting at
// start. A limit of zero means no limit.
func WithWindow(start, limit int) Option {
	return func(o *options) {
		o.start = start
		o.limit = limit
	}
}

// WithMotorOn restricts byte and status comparisons to reads with the
// drive motor on.
func WithMotorOn(on bool) Option {
	return func(o *options) {
		o.motorOn = on
	}
}

// WithLogger sets the logger comparisons are reported to. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func defaultOptions() options {
	return options{
		verbosity: "standard",
		logger:    slog.New(slog.DiscardHandler),
	}
}
