package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/crimson-sun/fluxdiff/internal/config"
	"github.com/crimson-sun/fluxdiff/internal/connector"
	"github.com/crimson-sun/fluxdiff/internal/engine"
	"github.com/crimson-sun/fluxdiff/internal/engine/compactor"
	"github.com/crimson-sun/fluxdiff/internal/logging"
	"github.com/crimson-sun/fluxdiff/internal/observability"
	"github.com/crimson-sun/fluxdiff/internal/output"
	fileout "github.com/crimson-sun/fluxdiff/internal/output/file"
	"github.com/crimson-sun/fluxdiff/internal/output/multi"
	jsonout "github.com/crimson-sun/fluxdiff/internal/output/stdout"
	"github.com/crimson-sun/fluxdiff/internal/output/text"
	"github.com/crimson-sun/fluxdiff/internal/pipeline"

	// Register connector implementations.
	_ "github.com/crimson-sun/fluxdiff/internal/connector/file"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type flags struct {
	req       pipeline.Request
	mode      string
	policy    string
	json      bool
	verbosity string
}

func parseFlags(args []string, cfg config.Config, stderr io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("fluxdiff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.mode, "mode", string(pipeline.ModeBytes), "comparison mode")
	fs.IntVar(&f.req.Start, "start", 0, "first index to compare")
	fs.IntVar(&f.req.Limit, "limit", 0, "number of indices to compare (0 = all)")
	fs.BoolVar(&f.req.MotorOn, "motor-on", false, "only use reads with the motor on")
	fs.IntVar(&f.req.StartFrame, "start-frame", 0, "first frame for frames mode")
	fs.IntVar(&f.req.EndFrame, "end-frame", 0, "last frame for frames mode (0 = no limit)")
	fs.StringVar(&f.policy, "policy", cfg.PolicyPath, "YAML comparison policy")
	fs.BoolVar(&f.json, "json", cfg.Output.Format == "json", "write the report as JSON")
	fs.StringVar(&f.verbosity, "verbosity", cfg.Output.Verbosity, "rows to keep: minimal, standard, full")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: fluxdiff [flags] <mame.log> <vsim.log>")
		fmt.Fprintln(stderr, "       fluxdiff -mode flux-vs-cpu|discrepancies [flags] <vsim.log>")
		fmt.Fprintf(stderr, "modes: %s\n", modeList())
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return f, err
	}

	m, err := pipeline.ParseMode(f.mode)
	if err != nil {
		fs.Usage()
		return f, err
	}
	f.req.Mode = m

	rest := fs.Args()
	switch {
	case len(rest) == 2:
		f.req.Left, f.req.Right = rest[0], rest[1]
	case len(rest) == 1 && m.SingleTrace():
		f.req.Right = rest[0]
	default:
		fs.Usage()
		return f, fmt.Errorf("expected two trace files, got %d", len(rest))
	}
	return f, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()

	f, err := parseFlags(args, cfg, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "fluxdiff: %v\n", err)
		return exitUsage
	}

	logger := logging.Init(stderr, f.json, logging.ParseLevel(cfg.LogLevel))

	cfg.PolicyPath = f.policy
	pol, err := cfg.Policy()
	if err != nil {
		logger.Error("failed to load policy", "error", err)
		return exitFatal
	}

	rec := observability.NewRecorder()
	eng := engine.New(engine.WithRecorder(rec), engine.WithMaxTrack(pol.MaxTrack))
	cmp := compactor.New(compactor.ParseVerbosity(f.verbosity), pol.RowLimit)

	out, err := buildOutput(cfg, f.json, cmp, stdout)
	if err != nil {
		logger.Error("failed to open output", "error", err)
		return exitFatal
	}

	ctor, err := connector.Get(cfg.Connector.Provider)
	if err != nil {
		logger.Error("failed to get connector", "error", err)
		return exitFatal
	}

	p := pipeline.New(ctor(), eng, out,
		pipeline.WithPolicy(pol),
		pipeline.WithObserver(rec),
		pipeline.WithLogger(logger),
	)
	defer p.Close()

	connCfg := connector.ConnectorConfig{Provider: cfg.Connector.Provider}
	if _, err := p.Run(ctx, connCfg, f.req); err != nil {
		logger.Error("comparison failed", "error", err)
		return exitFatal
	}

	if cfg.Output.MetricsFile != "" {
		if err := rec.WriteTextfile(cfg.Output.MetricsFile); err != nil {
			logger.Error("failed to write metrics", "error", err)
			return exitFatal
		}
	}
	return exitOK
}

func buildOutput(cfg config.Config, asJSON bool, cmp *compactor.Compactor, stdout io.Writer) (output.Output, error) {
	var outs []output.Output
	if asJSON {
		outs = append(outs, jsonout.NewWriter(stdout, cmp, cfg.Output.Pretty))
	} else {
		outs = append(outs, text.NewWriter(stdout, cmp))
	}
	if cfg.Output.File != "" {
		// the file copy keeps every row
		fo, err := fileout.New(cfg.Output.File, nil,
			fileout.WithMaxSize(int64(cfg.Output.MaxSize)),
			fileout.WithKeep(cfg.Output.Keep),
		)
		if err != nil {
			return nil, err
		}
		outs = append(outs, fo)
	}
	if len(outs) == 1 {
		return outs[0], nil
	}
	return multi.New(outs...), nil
}

func modeList() string {
	names := make([]string, 0, len(pipeline.Modes()))
	for _, m := range pipeline.Modes() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}
