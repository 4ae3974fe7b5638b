package output

import (
	"context"

	"github.com/crimson-sun/fluxdiff/internal/model"
)

// Output defines the interface for comparison report destinations.
type Output interface {
	Write(ctx context.Context, report model.Report) error
	Close() error
}
