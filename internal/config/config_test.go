package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var envKeys = []string{
	"FLUXDIFF_CONNECTOR", "FLUXDIFF_LOG_LEVEL", "FLUXDIFF_OUTPUT",
	"FLUXDIFF_OUTPUT_FILE", "FLUXDIFF_PRETTY", "FLUXDIFF_VERBOSITY",
	"FLUXDIFF_METRICS_FILE", "FLUXDIFF_TRACK_BITS", "FLUXDIFF_FRAME_RATIO",
	"FLUXDIFF_POLICY", "FLUXDIFF_OUTPUT_MAX_SIZE", "FLUXDIFF_OUTPUT_KEEP",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Connector.Provider != "file" {
		t.Fatalf("expected default provider 'file', got %q", cfg.Connector.Provider)
	}
	if cfg.Output.Format != "text" {
		t.Fatalf("expected default format 'text', got %q", cfg.Output.Format)
	}
	if cfg.Output.Pretty {
		t.Fatal("expected default Pretty=false")
	}
	if cfg.Output.Verbosity != "standard" {
		t.Fatalf("expected default verbosity 'standard', got %q", cfg.Output.Verbosity)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level 'info', got %q", cfg.LogLevel)
	}
	if cfg.TrackBits != 0 || cfg.FrameRatio != 0 || cfg.PolicyPath != "" {
		t.Fatalf("expected no overrides, got %+v", cfg)
	}
	if cfg.Output.MaxSize != 0 || cfg.Output.Keep != 3 {
		t.Fatalf("expected no rolling and keep 3, got %d/%d", cfg.Output.MaxSize, cfg.Output.Keep)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("FLUXDIFF_OUTPUT", "json")
	t.Setenv("FLUXDIFF_PRETTY", "true")
	t.Setenv("FLUXDIFF_OUTPUT_FILE", "/tmp/reports.jsonl")
	t.Setenv("FLUXDIFF_TRACK_BITS", "50000")
	t.Setenv("FLUXDIFF_FRAME_RATIO", "0.9")
	t.Setenv("FLUXDIFF_OUTPUT_MAX_SIZE", "1048576")
	t.Setenv("FLUXDIFF_OUTPUT_KEEP", "5")

	cfg := Load()

	if cfg.Output.MaxSize != 1<<20 || cfg.Output.Keep != 5 {
		t.Fatalf("unexpected rolling config %d/%d", cfg.Output.MaxSize, cfg.Output.Keep)
	}

	if cfg.Output.Format != "json" || !cfg.Output.Pretty || cfg.Output.File != "/tmp/reports.jsonl" {
		t.Fatalf("unexpected output config %+v", cfg.Output)
	}
	if cfg.TrackBits != 50000 || cfg.FrameRatio != 0.9 {
		t.Fatalf("unexpected overrides %d %g", cfg.TrackBits, cfg.FrameRatio)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("FLUXDIFF_TRACK_BITS", "lots")
	t.Setenv("FLUXDIFF_FRAME_RATIO", "most")
	t.Setenv("FLUXDIFF_PRETTY", "sure")

	cfg := Load()
	if cfg.TrackBits != 0 || cfg.FrameRatio != 0 || cfg.Output.Pretty {
		t.Fatalf("expected fallbacks, got %+v", cfg)
	}
}

func TestConfigPolicy_Overrides(t *testing.T) {
	cfg := Config{TrackBits: 60000, FrameRatio: 0.5}
	p, err := cfg.Policy()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.TrackBits != 60000 || p.FrameMatchRatio != 0.5 {
		t.Fatalf("overrides not applied: %+v", p)
	}
	if p.HeaderLimit != 10 {
		t.Fatalf("expected default header limit, got %d", p.HeaderLimit)
	}
}

func TestConfigPolicy_InvalidOverride(t *testing.T) {
	cfg := Config{FrameRatio: 1.5}
	if _, err := cfg.Policy(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestConfigPolicy_FromFile(t *testing.T) {
	path := writePolicy(t, "track_bits: 70000\nrow_limit: 5\n")
	p, err := Config{PolicyPath: path, TrackBits: 71000}.Policy()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.TrackBits != 71000 {
		t.Fatalf("env override should win, got %d", p.TrackBits)
	}
	if p.RowLimit != 5 {
		t.Fatalf("expected row_limit 5 from file, got %d", p.RowLimit)
	}
}

func writePolicy(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}
	return path
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	want := Policy{
		TrackBits: 75215, FrameMatchRatio: 0.8, HeaderBefore: 5, HeaderAfter: 15,
		DataFieldAfter: 20, HeaderCompareLen: 10, HeaderLimit: 10, NumSectors: 5,
		ByteContext: 2, MAMEDrive: 2, VsimDrive: 1, MaxTrack: 79, RowLimit: 50,
	}
	if p != want {
		t.Fatalf("DefaultPolicy() = %+v, want %+v", p, want)
	}
}

func TestLoadPolicyAppliesDefaults(t *testing.T) {
	path := writePolicy(t, `
frame_match_ratio: 0.75
header_after: 30
mame_drive: 3
`)
	p, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("load policy: %v", err)
	}
	if p.FrameMatchRatio != 0.75 || p.HeaderAfter != 30 || p.MAMEDrive != 3 {
		t.Fatalf("file values not applied: %+v", p)
	}
	if p.TrackBits != 75215 || p.NumSectors != 5 {
		t.Fatalf("defaults not applied: %+v", p)
	}
}

func TestLoadPolicyEmptyFile(t *testing.T) {
	p, err := LoadPolicy(writePolicy(t, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != DefaultPolicy() {
		t.Fatalf("expected defaults, got %+v", p)
	}
}

func TestLoadPolicyErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"unknown field", "track_bitz: 1\n", "track_bitz"},
		{"negative track bits", "track_bits: -5\n", "track_bits must be positive"},
		{"ratio above one", "frame_match_ratio: 1.2\n", "frame_match_ratio"},
		{"negative window", "header_before: -1\n", "header_before must not be negative"},
		{"bad yaml", "track_bits: [\n", "config policy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPolicy(writePolicy(t, tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadPolicyMissingFile(t *testing.T) {
	_, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}
