// Package compactor trims comparison reports to the configured verbosity.
package compactor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/crimson-sun/fluxdiff/internal/model"
)

// Verbosity controls how many rows of a report are retained.
type Verbosity int

const (
	Minimal  Verbosity = iota // counts and first divergence only
	Standard                  // up to a row limit, centred on the first divergence
	Full                      // every row
)

// DefaultRowLimit is the number of rows Standard keeps when no limit is set.
const DefaultRowLimit = 50

func (v Verbosity) String() string {
	switch v {
	case Minimal:
		return "minimal"
	case Standard:
		return "standard"
	case Full:
		return "full"
	default:
		return "unknown"
	}
}

// ParseVerbosity maps a name to a Verbosity. Unknown names map to Standard.
func ParseVerbosity(s string) Verbosity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimal":
		return Minimal
	case "full":
		return Full
	default:
		return Standard
	}
}

// Compactor trims report rows.
type Compactor struct {
	Verbosity Verbosity
	RowLimit  int
}

// New creates a Compactor with the given verbosity level and row limit.
func New(v Verbosity, rowLimit int) *Compactor {
	if rowLimit <= 0 {
		rowLimit = DefaultRowLimit
	}
	return &Compactor{Verbosity: v, RowLimit: rowLimit}
}

// Compact returns r with its rows reduced to the configured verbosity.
// Counts, status and first divergence are never changed.
func (c *Compactor) Compact(r model.Report) model.Report {
	switch c.Verbosity {
	case Minimal:
		if len(r.Rows) > 0 {
			r.Notes = note(r.Notes, "%d rows omitted", len(r.Rows))
		}
		r.Rows = nil
	case Full:
	default:
		from, to := window(r.Rows, c.RowLimit)
		if from > 0 || to < len(r.Rows) {
			r.Notes = note(r.Notes, "showing rows %d-%d of %d", from, to-1, len(r.Rows))
			r.Rows = r.Rows[from:to]
		}
	}
	return r
}

// window picks limit rows, starting a quarter of the limit before the first
// divergent row so the lead-up stays visible.
func window(rows []model.Row, limit int) (from, to int) {
	if len(rows) <= limit {
		return 0, len(rows)
	}
	first := -1
	for i, row := range rows {
		if row.Divergent() {
			first = i
			break
		}
	}
	if first > 0 {
		from = max(0, first-limit/4)
	}
	to = min(len(rows), from+limit)
	from = max(0, to-limit)
	return from, to
}

func note(notes []string, format string, args ...any) []string {
	return append(slices.Clip(notes), fmt.Sprintf(format, args...))
}
