package classifier

import (
	"regexp"
	"strings"

	"github.com/crimson-sun/fluxdiff/internal/model"
)

var (
	iwmAccess = regexp.MustCompile(`(?i)\$c0e[0-9a-f]|\$c031|DISKREG`)
	dataRead  = regexp.MustCompile(`(?i)\$c0ec`)
)

// CPU returns the single-rule dialect for "BB:AAAA: text" instruction lines.
func CPU() Dialect[model.Instruction] { return cpuDialect }

var cpuDialect = Dialect[model.Instruction]{
	Rules: []Rule[model.Instruction]{
		{
			Name:    "instruction",
			Pattern: regexp.MustCompile(`^([0-9A-F]{2}):([0-9A-F]{4}): (.+)$`),
			Build: func(m []string, c *Cursor) (model.Instruction, bool) {
				text := m[3]
				return model.Instruction{
					LineNo:    c.Line,
					Bank:      m[1],
					Addr:      m[2],
					Text:      text,
					IWMAccess: iwmAccess.MatchString(text),
					DataRead:  dataRead.MatchString(text) && !isStore(text),
				}, true
			},
		},
	},
}

func isStore(text string) bool {
	op := strings.ToLower(text)
	return strings.HasPrefix(op, "sta") || strings.HasPrefix(op, "stx") || strings.HasPrefix(op, "sty")
}
