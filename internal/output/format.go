package output

import (
	"github.com/crimson-sun/fluxdiff/internal/engine/compactor"
	"github.com/crimson-sun/fluxdiff/internal/model"
)

// FormatReport returns a copy of the report with rows trimmed by c.
// A nil Compactor keeps every row.
func FormatReport(r model.Report, c *compactor.Compactor) model.Report {
	if c == nil {
		return r
	}
	return c.Compact(r)
}
