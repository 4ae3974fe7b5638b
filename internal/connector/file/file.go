// Package file loads traces from the local filesystem.
//
// Emulator logs are mostly ASCII but are occasionally captured through
// tools that prepend a byte order mark or re-encode as UTF-16, and a crash
// mid-write leaves torn bytes at the end. Decoding never fails: a BOM
// selects the encoding and invalid sequences become U+FFFD.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/crimson-sun/fluxdiff/internal/connector"
	"github.com/crimson-sun/fluxdiff/internal/engine"
	"github.com/crimson-sun/fluxdiff/internal/model"
)

func init() {
	connector.Register("file", func() connector.Connector {
		return &Connector{}
	})
	connector.Register("gzip", func() connector.Connector {
		return &Connector{Compressed: true}
	})
}

// Connector reads plain or gzip-compressed trace files. Paths ending in
// ".gz" are always decompressed.
type Connector struct {
	Compressed bool
}

func (c *Connector) Load(ctx context.Context, cfg connector.ConnectorConfig, path string) (model.RawTrace, error) {
	if err := ctx.Err(); err != nil {
		return model.RawTrace{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return model.RawTrace{}, fmt.Errorf("file connector: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if c.Compressed || strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return model.RawTrace{}, fmt.Errorf("file connector: gzip %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	text, err := Decode(r)
	if err != nil {
		return model.RawTrace{}, fmt.Errorf("file connector: read %s: %w", path, err)
	}
	return model.RawTrace{
		Source: cfg.Source,
		Path:   path,
		Lines:  engine.SplitLines(text),
	}, nil
}

// Decode reads r to the end as text.
func Decode(r io.Reader) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	b, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
