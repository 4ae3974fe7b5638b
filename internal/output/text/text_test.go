package text

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/crimson-sun/fluxdiff/internal/engine/compactor"
	"github.com/crimson-sun/fluxdiff/internal/model"
)

func testReport() model.Report {
	return model.Report{
		Mode:            "bytes",
		Status:          "diverged",
		Left:            model.Side{Source: model.MAME, Path: "mame.log", Count: 3},
		Right:           model.Side{Source: model.Vsim, Path: "vsim.log", Count: 3},
		Compared:        3,
		Mismatches:      1,
		FirstDivergence: 2,
		Rows: []model.Row{
			{Index: 0, Left: "D5", LeftLine: 10, Right: "D5", RightLine: 4, Class: "match", Note: "D5"},
			{Index: 1, Left: "AA", LeftLine: 11, Right: "AA", RightLine: 5, Class: "match", Note: "AA"},
			{Index: 2, Left: "96", LeftLine: 12, Right: "97", Class: "diff", Note: "96"},
		},
		Notes:   []string{"angles computed on 75215 bits"},
		Metrics: map[string]float64{"mean_angle": 1.5, "angle_pairs": 2},
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf, nil).Write(context.Background(), testReport()); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"mode:",
		"diverged",
		"first divergence:  2",
		"IDX  mame",
		"<< diff",
		"note: angles computed on 75215 bits",
		"angle_pairs:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "angle_pairs") > strings.Index(out, "mean_angle") {
		t.Error("metrics should be sorted by name")
	}
}

func TestWriteMissingLineIsDash(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, nil).Write(context.Background(), testReport())

	lines := strings.Split(buf.String(), "\n")
	var row string
	for _, l := range lines {
		if strings.HasPrefix(l, "2 ") {
			row = l
		}
	}
	if !strings.Contains(row, " - ") {
		t.Fatalf("expected '-' for the missing right line, got %q", row)
	}
}

func TestWriteNoDivergence(t *testing.T) {
	r := testReport()
	r.FirstDivergence = -1
	r.Rows = nil

	var buf bytes.Buffer
	NewWriter(&buf, compactor.New(compactor.Minimal, 0)).Write(context.Background(), r)
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("expected 'none', got:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "IDX") {
		t.Fatal("no row table expected")
	}
}
