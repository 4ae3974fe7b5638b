package connector

import (
	"context"

	"github.com/crimson-sun/fluxdiff/internal/model"
)

// Connector defines the interface all trace sources must implement.
type Connector interface {
	// Load reads one trace in full and splits it into lines.
	Load(ctx context.Context, cfg ConnectorConfig, path string) (model.RawTrace, error)
}

// ConnectorConfig holds provider-specific settings.
type ConnectorConfig struct {
	Provider string
	Source   model.Source
	Extra    map[string]string
}
