// Package file appends reports to an NDJSON history file.
//
// Repeated runs against the same trace pair accumulate one line each. When
// a size limit is set, the history is rolled into numbered generations
// (path.1 newest) before a report would push it past the limit.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/crimson-sun/fluxdiff/internal/engine/compactor"
	"github.com/crimson-sun/fluxdiff/internal/model"
	"github.com/crimson-sun/fluxdiff/internal/output"
)

const (
	defaultBufSize = 64 * 1024
	defaultKeep    = 3
)

// Option configures a file Output.
type Option func(*Output)

// WithMaxSize rolls the history once it would exceed n bytes. 0 disables
// rolling.
func WithMaxSize(n int64) Option {
	return func(o *Output) { o.maxSize = n }
}

// WithKeep sets how many rolled generations are kept. Default: 3.
func WithKeep(n int) Option {
	return func(o *Output) {
		if n > 0 {
			o.keep = n
		}
	}
}

// WithBufSize sets the write buffer size. Default: 64KB.
func WithBufSize(n int) Option {
	return func(o *Output) { o.bufSize = n }
}

// Output writes one JSON report per line.
type Output struct {
	mu      sync.Mutex
	path    string
	c       *compactor.Compactor
	maxSize int64
	keep    int
	bufSize int

	f    *os.File
	w    *bufio.Writer
	size int64 // bytes in the current generation, buffered included
}

// New opens path for appending. c trims rows; nil keeps them all.
func New(path string, c *compactor.Compactor, opts ...Option) (*Output, error) {
	o := &Output{path: path, c: c, keep: defaultKeep, bufSize: defaultBufSize}
	for _, opt := range opts {
		opt(o)
	}
	if err := o.open(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Output) Write(_ context.Context, report model.Report) error {
	line, err := json.Marshal(output.FormatReport(report, o.c))
	if err != nil {
		return fmt.Errorf("file output: marshal: %w", err)
	}
	line = append(line, '\n')

	o.mu.Lock()
	defer o.mu.Unlock()

	// a single oversized report still gets a generation of its own
	if o.maxSize > 0 && o.size > 0 && o.size+int64(len(line)) > o.maxSize {
		if err := o.roll(); err != nil {
			return fmt.Errorf("file output: roll %s: %w", o.path, err)
		}
	}
	n, err := o.w.Write(line)
	o.size += int64(n)
	if err != nil {
		return fmt.Errorf("file output: write: %w", err)
	}
	return nil
}

// Close flushes buffered reports and closes the file.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.close()
}

func (o *Output) open() error {
	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("file output: open %s: %w", o.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("file output: stat %s: %w", o.path, err)
	}
	o.f, o.w, o.size = f, bufio.NewWriterSize(f, o.bufSize), info.Size()
	return nil
}

func (o *Output) close() error {
	flushErr := o.w.Flush()
	closeErr := o.f.Close()
	if flushErr != nil {
		return fmt.Errorf("file output: flush: %w", flushErr)
	}
	return closeErr
}

// roll shifts path.N-1 to path.N down to path to path.1, dropping the
// oldest generation, and reopens an empty path.
func (o *Output) roll() error {
	if err := o.close(); err != nil {
		return err
	}
	if err := os.Remove(o.generation(o.keep)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	for i := o.keep - 1; i >= 0; i-- {
		if err := os.Rename(o.generation(i), o.generation(i+1)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return o.open()
}

func (o *Output) generation(i int) string {
	if i == 0 {
		return o.path
	}
	return fmt.Sprintf("%s.%d", o.path, i)
}
