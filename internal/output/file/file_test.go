package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crimson-sun/fluxdiff/internal/engine/compactor"
	"github.com/crimson-sun/fluxdiff/internal/model"
)

func testReport(mode string, rows int) model.Report {
	r := model.Report{
		Mode:            mode,
		Status:          "match",
		Left:            model.Side{Source: model.MAME, Path: "mame.log", Count: rows},
		Right:           model.Side{Source: model.Vsim, Path: "vsim.log", Count: rows},
		Compared:        rows,
		FirstDivergence: -1,
	}
	for i := range rows {
		r.Rows = append(r.Rows, model.Row{Index: i, Left: "D5", Right: "D5", Class: "match"})
	}
	return r
}

func TestWriteProducesValidNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	out, err := New(path, compactor.New(compactor.Standard, 0))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	for range 5 {
		if err := out.Write(context.Background(), testReport("bytes", 3)); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	out.Close()

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}
	for i, line := range lines {
		var r model.Report
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			t.Errorf("line %d: invalid JSON: %v", i, err)
		}
		if r.Mode != "bytes" || len(r.Rows) != 3 {
			t.Errorf("line %d: unexpected report %+v", i, r)
		}
	}
}

func TestAppendsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	for _, mode := range []string{"bytes", "frames"} {
		out, err := New(path, nil)
		if err != nil {
			t.Fatal(err)
		}
		out.Write(context.Background(), testReport(mode, 1))
		out.Close()
	}

	data, _ := os.ReadFile(path)
	if n := strings.Count(string(data), "\n"); n != 2 {
		t.Fatalf("expected 2 lines, got %d", n)
	}
}

func TestRollKeepsGenerations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	// every report line is larger than the limit, so each write rolls
	out, err := New(path, nil, WithMaxSize(200), WithKeep(2))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	for _, mode := range []string{"bytes", "frames", "status", "tracks"} {
		if err := out.Write(context.Background(), testReport(mode, 2)); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	out.Close()

	for _, tt := range []struct {
		path string
		mode string
	}{
		{path, "tracks"},
		{path + ".1", "status"},
		{path + ".2", "frames"},
	} {
		data, err := os.ReadFile(tt.path)
		if err != nil {
			t.Fatalf("read %s: %v", tt.path, err)
		}
		var r model.Report
		if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &r); err != nil {
			t.Fatalf("%s: want one report per generation: %v", tt.path, err)
		}
		if r.Mode != tt.mode {
			t.Errorf("%s holds %q, want %q", tt.path, r.Mode, tt.mode)
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Errorf("generation beyond keep should not exist, stat err = %v", err)
	}
}

func TestRollCountsExistingHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	if err := os.WriteFile(path, []byte(strings.Repeat("x", 150)+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := New(path, nil, WithMaxSize(200))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	out.Write(context.Background(), testReport("bytes", 1))
	out.Close()

	old, err := os.ReadFile(path + ".1")
	if err != nil {
		t.Fatalf("existing history was not rolled: %v", err)
	}
	if !strings.HasPrefix(string(old), "xxx") {
		t.Errorf("rolled generation = %q", old)
	}
}

func TestNoRollWithoutLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	out, err := New(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	for range 20 {
		out.Write(context.Background(), testReport("bytes", 5))
	}
	out.Close()

	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Errorf("unexpected rolled file, stat err = %v", err)
	}
}

func TestCloseFlushesData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	out, err := New(path, nil, WithBufSize(1<<20))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	out.Write(context.Background(), testReport("tracks", 1))
	out.Close()

	data, _ := os.ReadFile(path)
	if len(data) == 0 {
		t.Error("file is empty, Close did not flush buffered data")
	}
}

func TestMinimalOmitsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	out, err := New(path, compactor.New(compactor.Minimal, 0))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	out.Write(context.Background(), testReport("bytes", 4))
	out.Close()

	data, _ := os.ReadFile(path)
	var m map[string]any
	json.Unmarshal([]byte(strings.TrimSpace(string(data))), &m)

	if _, ok := m["rows"]; ok {
		t.Error("Minimal verbosity should omit rows")
	}
	if m["compared"] != float64(4) {
		t.Errorf("expected compared 4, got %v", m["compared"])
	}
}

func TestNewBadPath(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "out.jsonl"), nil)
	if err == nil || !strings.Contains(err.Error(), "file output: open") {
		t.Fatalf("expected open error, got %v", err)
	}
}
