// Package dedup collapses consecutive identical byte reads into runs.
//
// The ROM polls the data register until it sees a new byte, so a healthy
// trace returns each disk byte a handful of times. Run lengths that differ
// sharply between two emulators point at a handshake problem rather than a
// decoding one.
package dedup

import (
	"github.com/crimson-sun/fluxdiff/internal/engine/pattern"
	"github.com/crimson-sun/fluxdiff/internal/model"
)

// Run is one stretch of identical consecutive reads.
type Run struct {
	Value     byte
	Count     int
	FirstLine int
}

// Runs collapses consecutive reads with the same value. Returns runs in
// stream order.
func Runs(reads []model.ByteRead) []Run {
	if len(reads) == 0 {
		return nil
	}

	out := []Run{{Value: reads[0].Value, Count: 1, FirstLine: reads[0].LineNo}}
	for _, r := range reads[1:] {
		last := &out[len(out)-1]
		if r.Value == last.Value {
			last.Count++
			continue
		}
		out = append(out, Run{Value: r.Value, Count: 1, FirstLine: r.LineNo})
	}
	return out
}

// Stats summarises a run list.
type Stats struct {
	Reads int
	Runs  int
	Avg   float64 // mean reads per run
	Max   int
}

// Summarize computes Stats over runs.
func Summarize(runs []Run) Stats {
	s := Stats{Runs: len(runs)}
	for _, r := range runs {
		s.Reads += r.Count
		s.Max = max(s.Max, r.Count)
	}
	if s.Runs > 0 {
		s.Avg = float64(s.Reads) / float64(s.Runs)
	}
	return s
}

// HeaderRun is a marker found in the collapsed stream with the repeat count
// of each of its three bytes.
type HeaderRun struct {
	Index  int // run index of the first marker byte
	Counts [3]int
}

// HeaderRuns finds m in the run values.
func HeaderRuns(runs []Run, m pattern.Marker) []HeaderRun {
	var out []HeaderRun
	for i := 0; i+2 < len(runs); i++ {
		if runs[i].Value == m[0] && runs[i+1].Value == m[1] && runs[i+2].Value == m[2] {
			out = append(out, HeaderRun{
				Index:  i,
				Counts: [3]int{runs[i].Count, runs[i+1].Count, runs[i+2].Count},
			})
		}
	}
	return out
}
