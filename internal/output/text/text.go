// Package text renders reports as aligned plain-text tables for a terminal.
package text

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/crimson-sun/fluxdiff/internal/engine/compactor"
	"github.com/crimson-sun/fluxdiff/internal/model"
	"github.com/crimson-sun/fluxdiff/internal/output"
)

// Output writes one table per report.
type Output struct {
	w io.Writer
	c *compactor.Compactor
}

// New creates a text Output on stdout.
func New(c *compactor.Compactor) *Output {
	return NewWriter(os.Stdout, c)
}

// NewWriter is New with an arbitrary destination.
func NewWriter(w io.Writer, c *compactor.Compactor) *Output {
	return &Output{w: w, c: c}
}

func (o *Output) Write(_ context.Context, report model.Report) error {
	if err := render(o.w, output.FormatReport(report, o.c)); err != nil {
		return fmt.Errorf("text output: %w", err)
	}
	return nil
}

func (o *Output) Close() error { return nil }

func render(w io.Writer, r model.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "mode:\t%s\n", r.Mode)
	fmt.Fprintf(tw, "status:\t%s\n", r.Status)
	fmt.Fprintf(tw, "%s:\t%d\t%s\n", r.Left.Source, r.Left.Count, r.Left.Path)
	if r.Right.Source != "" {
		fmt.Fprintf(tw, "%s:\t%d\t%s\n", r.Right.Source, r.Right.Count, r.Right.Path)
	}
	fmt.Fprintf(tw, "compared:\t%d\n", r.Compared)
	fmt.Fprintf(tw, "mismatches:\t%d\n", r.Mismatches)
	if r.FirstDivergence >= 0 {
		fmt.Fprintf(tw, "first divergence:\t%d\n", r.FirstDivergence)
	} else {
		fmt.Fprintf(tw, "first divergence:\tnone\n")
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Rows) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "IDX\t%s\tLINE\t%s\tLINE\tCLASS\tNOTE\n", label(r.Left.Source, "A"), label(r.Right.Source, "B"))
		for _, row := range r.Rows {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				row.Index, row.Left, lineNo(row.LeftLine), row.Right, lineNo(row.RightLine), marker(row), row.Note)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(r.Metrics) > 0 {
		fmt.Fprintln(w)
		keys := make([]string, 0, len(r.Metrics))
		for k := range r.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, k := range keys {
			fmt.Fprintf(tw, "%s:\t%g\n", k, r.Metrics[k])
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	for _, n := range r.Notes {
		if _, err := fmt.Fprintf(w, "note: %s\n", n); err != nil {
			return err
		}
	}
	return nil
}

func label(s model.Source, fallback string) string {
	if s == "" {
		return fallback
	}
	return string(s)
}

func lineNo(n int) string {
	if n <= 0 {
		return "-"
	}
	return fmt.Sprint(n)
}

func marker(row model.Row) string {
	if row.Divergent() {
		return "<< " + row.Class
	}
	return row.Class
}
