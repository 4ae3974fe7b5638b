// Package classifier turns single trace lines into typed events.
//
// Each trace dialect is an ordered list of rules. Rules are tried in order and
// the first match wins, so a rule must come before any looser rule whose
// pattern would also accept its lines. Newer trace formats only ever add
// fields, which makes every older format's pattern a superset of the newer
// one: most specific first is the required order, not a preference.
package classifier

import (
	"regexp"
	"strconv"

	"github.com/crimson-sun/fluxdiff/internal/model"
)

// Rule pairs a line pattern with the constructor for the event it describes.
// Build may return false to consume a line without emitting an event (for
// lines that only update the cursor, such as frame markers).
type Rule[E any] struct {
	Name    string
	Pattern *regexp.Regexp
	Build   func(m []string, c *Cursor) (E, bool)
}

// Dialect is the ordered rule list of one trace source.
type Dialect[E any] struct {
	Source model.Source
	Rules  []Rule[E]
}

// Classify runs the rules against line in order. It returns the event, the
// name of the rule that matched ("" when none did) and whether an event was
// emitted.
func (d Dialect[E]) Classify(line string, c *Cursor) (E, string, bool) {
	var zero E
	for _, r := range d.Rules {
		m := r.Pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		ev, ok := r.Build(m, c)
		return ev, r.Name, ok
	}
	return zero, "", false
}

// RuleNames returns the rule names in match order.
func (d Dialect[E]) RuleNames() []string {
	names := make([]string, len(d.Rules))
	for i, r := range d.Rules {
		names[i] = r.Name
	}
	return names
}

// hexByte parses a hex field already validated by the rule pattern.
func hexByte(s string) byte {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return byte(v)
}

func hexInt(s string) int {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0
	}
	return int(v)
}

func decInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func flag(s string) bool {
	return s == "1"
}
