package config

import (
	"os"
	"strconv"
)

// Config holds all fluxdiff configuration read from the environment.
type Config struct {
	Connector ConnectorConfig
	Output    OutputConfig
	LogLevel  string
	// PolicyPath names a YAML comparison policy. Empty means built-in defaults.
	PolicyPath string
	// Overrides applied on top of the policy; zero keeps the policy value.
	TrackBits  int
	FrameRatio float64
}

// ConnectorConfig holds trace source settings.
type ConnectorConfig struct {
	Provider string
}

// OutputConfig holds report destination settings.
type OutputConfig struct {
	Format      string // "text" or "json"
	File        string // optional NDJSON copy of every report
	MaxSize     int    // bytes before File is rolled; 0 never rolls
	Keep        int    // rolled generations of File to keep
	Pretty      bool
	Verbosity   string // "minimal", "standard", "full"
	MetricsFile string // optional Prometheus textfile
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Connector: ConnectorConfig{
			Provider: getenv("FLUXDIFF_CONNECTOR", "file"),
		},
		Output: OutputConfig{
			Format:      getenv("FLUXDIFF_OUTPUT", "text"),
			File:        os.Getenv("FLUXDIFF_OUTPUT_FILE"),
			MaxSize:     getenvInt("FLUXDIFF_OUTPUT_MAX_SIZE", 0),
			Keep:        getenvInt("FLUXDIFF_OUTPUT_KEEP", 3),
			Pretty:      getenvBool("FLUXDIFF_PRETTY", false),
			Verbosity:   getenv("FLUXDIFF_VERBOSITY", "standard"),
			MetricsFile: os.Getenv("FLUXDIFF_METRICS_FILE"),
		},
		LogLevel:   getenv("FLUXDIFF_LOG_LEVEL", "info"),
		PolicyPath: os.Getenv("FLUXDIFF_POLICY"),
		TrackBits:  getenvInt("FLUXDIFF_TRACK_BITS", 0),
		FrameRatio: getenvFloat("FLUXDIFF_FRAME_RATIO", 0),
	}
}

// Policy loads the policy file named by PolicyPath, or the defaults, and
// applies the environment overrides.
func (c Config) Policy() (Policy, error) {
	p := DefaultPolicy()
	if c.PolicyPath != "" {
		var err error
		if p, err = LoadPolicy(c.PolicyPath); err != nil {
			return Policy{}, err
		}
	}
	if c.TrackBits != 0 {
		p.TrackBits = c.TrackBits
	}
	if c.FrameRatio != 0 {
		p.FrameMatchRatio = c.FrameRatio
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
