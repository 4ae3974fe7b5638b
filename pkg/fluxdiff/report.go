package fluxdiff

import (
	"maps"

	"github.com/crimson-sun/fluxdiff/internal/model"
)

// Report is the outcome of one comparison.
// This is the stable public type; internal representations may evolve
// independently without breaking consumers.
type Report struct {
	Mode            string             `json:"mode"`
	Status          string             `json:"status"` // match, diverged, no-data
	Left            Side               `json:"left"`
	Right           Side               `json:"right"`
	Compared        int                `json:"compared"`
	Mismatches      int                `json:"mismatches"`
	FirstDivergence int                `json:"first_divergence"` // -1 when none
	Rows            []Row              `json:"rows,omitempty"`
	Notes           []string           `json:"notes,omitempty"`
	Metrics         map[string]float64 `json:"metrics,omitempty"`
}

// Side describes one input trace.
type Side struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// Row is one aligned index.
type Row struct {
	Index     int    `json:"index"`
	Left      string `json:"left"`
	LeftLine  int    `json:"left_line,omitempty"`
	Right     string `json:"right"`
	RightLine int    `json:"right_line,omitempty"`
	Class     string `json:"class"` // match, diff, only-a, only-b
	Note      string `json:"note,omitempty"`
}

// Diverged reports whether the comparison found a disagreement.
func (r Report) Diverged() bool { return r.Status == "diverged" }

// Trace summarises one parsed controller trace.
type Trace struct {
	Source     string         `json:"source"`
	Lines      int            `json:"lines"`
	Classified int            `json:"classified"`
	Dropped    int            `json:"dropped"`
	Events     int            `json:"events"`
	ByKind     map[string]int `json:"by_kind"`
	ByRule     map[string]int `json:"by_rule"`
}

func reportFromModel(r model.Report) Report {
	out := Report{
		Mode:            r.Mode,
		Status:          r.Status,
		Left:            Side{Source: string(r.Left.Source), Count: r.Left.Count},
		Right:           Side{Source: string(r.Right.Source), Count: r.Right.Count},
		Compared:        r.Compared,
		Mismatches:      r.Mismatches,
		FirstDivergence: r.FirstDivergence,
		Notes:           append([]string(nil), r.Notes...),
		Metrics:         maps.Clone(r.Metrics),
	}
	if len(r.Rows) > 0 {
		out.Rows = make([]Row, len(r.Rows))
		for i, row := range r.Rows {
			out.Rows[i] = Row(row)
		}
	}
	return out
}

func traceFromModel(t model.Trace) Trace {
	out := Trace{
		Source:     string(t.Source),
		Lines:      t.Stats.Lines,
		Classified: t.Stats.Classified,
		Dropped:    t.Stats.Dropped,
		Events:     len(t.Events),
		ByKind:     make(map[string]int),
		ByRule:     maps.Clone(t.Stats.ByRule),
	}
	for _, e := range t.Events {
		out.ByKind[e.Kind().String()]++
	}
	return out
}
