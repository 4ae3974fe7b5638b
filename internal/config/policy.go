package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy holds the tunable comparison parameters. The frame ratio and the
// header windows were tuned against one pair of emulators and are not
// universal truths, so they live here rather than in code.
type Policy struct {
	TrackBits        int     `yaml:"track_bits"`
	FrameMatchRatio  float64 `yaml:"frame_match_ratio"`
	HeaderBefore     int     `yaml:"header_before"`
	HeaderAfter      int     `yaml:"header_after"`
	DataFieldAfter   int     `yaml:"data_field_after"`
	HeaderCompareLen int     `yaml:"header_compare_len"`
	HeaderLimit      int     `yaml:"header_limit"`
	NumSectors       int     `yaml:"num_sectors"`
	ByteContext      int     `yaml:"byte_context"`
	MAMEDrive        int     `yaml:"mame_drive"`
	VsimDrive        int     `yaml:"vsim_drive"`
	MaxTrack         int     `yaml:"max_track"`
	RowLimit         int     `yaml:"row_limit"`
}

// DefaultPolicy returns the built-in policy.
func DefaultPolicy() Policy {
	var p Policy
	p.applyDefaults()
	return p
}

// LoadPolicy reads a YAML policy file. Missing fields take their defaults;
// unknown fields are rejected.
func LoadPolicy(path string) (Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("config policy: %w", err)
	}

	var p Policy
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Policy{}, fmt.Errorf("config policy %s: %w", path, err)
	}

	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return Policy{}, fmt.Errorf("config policy %s: %w", path, err)
	}
	return p, nil
}

func (p *Policy) applyDefaults() {
	if p.TrackBits == 0 {
		p.TrackBits = 75215
	}
	if p.FrameMatchRatio == 0 {
		p.FrameMatchRatio = 0.8
	}
	if p.HeaderBefore == 0 {
		p.HeaderBefore = 5
	}
	if p.HeaderAfter == 0 {
		p.HeaderAfter = 15
	}
	if p.DataFieldAfter == 0 {
		p.DataFieldAfter = 20
	}
	if p.HeaderCompareLen == 0 {
		p.HeaderCompareLen = 10
	}
	if p.HeaderLimit == 0 {
		p.HeaderLimit = 10
	}
	if p.NumSectors == 0 {
		p.NumSectors = 5
	}
	if p.ByteContext == 0 {
		p.ByteContext = 2
	}
	if p.MAMEDrive == 0 {
		p.MAMEDrive = 2
	}
	if p.VsimDrive == 0 {
		p.VsimDrive = 1
	}
	if p.MaxTrack == 0 {
		p.MaxTrack = 79
	}
	if p.RowLimit == 0 {
		p.RowLimit = 50
	}
}

// Validate rejects values no comparison can work with.
func (p Policy) Validate() error {
	if p.TrackBits <= 0 {
		return fmt.Errorf("track_bits must be positive, got %d", p.TrackBits)
	}
	if p.FrameMatchRatio <= 0 || p.FrameMatchRatio > 1 {
		return fmt.Errorf("frame_match_ratio must be in (0, 1], got %g", p.FrameMatchRatio)
	}
	for _, f := range []struct {
		name string
		v    int
	}{
		{"header_before", p.HeaderBefore},
		{"header_after", p.HeaderAfter},
		{"data_field_after", p.DataFieldAfter},
		{"header_compare_len", p.HeaderCompareLen},
		{"header_limit", p.HeaderLimit},
		{"num_sectors", p.NumSectors},
		{"byte_context", p.ByteContext},
		{"max_track", p.MaxTrack},
		{"row_limit", p.RowLimit},
	} {
		if f.v < 0 {
			return fmt.Errorf("%s must not be negative, got %d", f.name, f.v)
		}
	}
	return nil
}
