package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/crimson-sun/fluxdiff/internal/engine/compactor"
	"github.com/crimson-sun/fluxdiff/internal/model"
	"github.com/crimson-sun/fluxdiff/internal/output"
)

// Output writes JSON-encoded reports to stdout.
type Output struct {
	enc *json.Encoder
	c   *compactor.Compactor
}

// New creates a new stdout Output with row trimming and optional
// pretty-printed JSON.
func New(c *compactor.Compactor, pretty bool) *Output {
	return NewWriter(os.Stdout, c, pretty)
}

// NewWriter is New with an arbitrary destination.
func NewWriter(w io.Writer, c *compactor.Compactor, pretty bool) *Output {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Output{enc: enc, c: c}
}

func (o *Output) Write(_ context.Context, report model.Report) error {
	if err := o.enc.Encode(output.FormatReport(report, o.c)); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
