package classifier

import (
	"regexp"

	"github.com/crimson-sun/fluxdiff/internal/model"
)

// Flux returns the rule set for bit-level IWM_FLUX debug lines. Both
// emulators log this level in the same format.
func Flux() Dialect[model.FluxEvent] { return fluxDialect }

var fluxDialect = Dialect[model.FluxEvent]{
	Rules: []Rule[model.FluxEvent]{
		{
			Name:    "shift",
			Pattern: regexp.MustCompile(`IWM_FLUX: SHIFT bit=(\d) rsh=([0-9a-f]{2})->([0-9a-f]{2}) state=(EDGE_[01]) endw=(\d+)`),
			Build: func(m []string, c *Cursor) (model.FluxEvent, bool) {
				edge := model.Edge0
				if m[4] == "EDGE_1" {
					edge = model.Edge1
				}
				return &model.ShiftEvent{
					Header:    c.Header(""),
					Bit:       uint8(decInt(m[1]) & 1),
					Before:    hexByte(m[2]),
					After:     hexByte(m[3]),
					Edge:      edge,
					WindowEnd: decInt(m[5]),
				}, true
			},
		},
		{
			Name:    "byte_complete",
			Pattern: regexp.MustCompile(`IWM_FLUX: BYTE_COMPLETE_(ASYNC|SYNC).*?data=([0-9a-f]{2}) pos=(\d+)`),
			Build: func(m []string, c *Cursor) (model.FluxEvent, bool) {
				return &model.ByteCompleteEvent{
					Header:   c.Header(""),
					Data:     hexByte(m[2]),
					Position: decInt(m[3]),
					Sync:     m[1] == "SYNC",
				}, true
			},
		},
		{
			Name:    "edge",
			Pattern: regexp.MustCompile(`IWM_FLUX: EDGE_0->EDGE_1 flux_at=(\d+) rsh=([0-9a-f]{2})`),
			Build: func(m []string, c *Cursor) (model.FluxEvent, bool) {
				return &model.EdgeEvent{Header: c.Header(""), FluxTime: decInt(m[1]), Before: hexByte(m[2])}, true
			},
		},
		{
			Name:    "start_read",
			Pattern: regexp.MustCompile(`IWM_FLUX: START_READ`),
			Build: func(m []string, c *Cursor) (model.FluxEvent, bool) {
				return &model.StartReadEvent{Header: c.Header("")}, true
			},
		},
	},
}
