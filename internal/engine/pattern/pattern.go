// Package pattern locates GCR field markers in a decoded byte stream.
package pattern

import "github.com/crimson-sun/fluxdiff/internal/model"

// Marker is a three-byte sync sequence.
type Marker [3]byte

var (
	// AddressMark opens a sector address field.
	AddressMark = Marker{0xD5, 0xAA, 0x96}
	// DataMark opens a sector data field.
	DataMark = Marker{0xD5, 0xAA, 0xAD}
)

// Default context windows.
const (
	DefaultBefore         = 5
	DefaultAddressAfter   = 15
	DefaultDataFieldAfter = 20
)

func (m Marker) String() string {
	const hex = "0123456789ABCDEF"
	b := make([]byte, 0, 8)
	for i, v := range m {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, hex[v>>4], hex[v&0xf])
	}
	return string(b)
}

// Match is one marker occurrence. Before holds up to the requested number of
// bytes preceding the marker; After starts at the marker itself.
type Match struct {
	Index  int
	LineNo int
	Before []byte
	After  []byte
}

// Indices returns every i where seq[i:i+3] equals m, scanning left to right.
func Indices(seq []byte, m Marker) []int {
	var out []int
	for i := 0; i+2 < len(seq); i++ {
		if seq[i] == m[0] && seq[i+1] == m[1] && seq[i+2] == m[2] {
			out = append(out, i)
		}
	}
	return out
}

// Find returns every occurrence of m in seq with its context windows.
func Find(seq []byte, m Marker, before, after int) []Match {
	idx := Indices(seq, m)
	if idx == nil {
		return nil
	}
	out := make([]Match, len(idx))
	for n, i := range idx {
		out[n] = Match{
			Index:  i,
			Before: window(seq, i-before, i),
			After:  window(seq, i, i+after),
		}
	}
	return out
}

// Scan is Find over extracted reads; matches carry the line of the marker's
// first byte.
func Scan(reads []model.ByteRead, m Marker, before, after int) []Match {
	seq := make([]byte, len(reads))
	for i, r := range reads {
		seq[i] = r.Value
	}
	matches := Find(seq, m, before, after)
	for i := range matches {
		matches[i].LineNo = reads[matches[i].Index].LineNo
	}
	return matches
}

func window(seq []byte, from, to int) []byte {
	from = max(from, 0)
	to = min(to, len(seq))
	if from >= to {
		return []byte{}
	}
	out := make([]byte, to-from)
	copy(out, seq[from:to])
	return out
}
