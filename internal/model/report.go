package model

// Report is the structured outcome of one comparison, consumed by outputs.
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

// Side summarises one trace in a Report.
type Side struct {
	Source Source `json:"source"`
	Path   string `json:"path,omitempty"`
	Count  int    `json:"count"`
}

// Row is one aligned index of a comparison.
type Row struct {
	Index     int    `json:"index"`
	Left      string `json:"left"`
	LeftLine  int    `json:"left_line,omitempty"`
	Right     string `json:"right"`
	RightLine int    `json:"right_line,omitempty"`
	Class     string `json:"class"`
	Note      string `json:"note,omitempty"`
}

// Divergent reports whether the row is anything other than a match.
func (r Row) Divergent() bool {
	return r.Class != "match"
}
