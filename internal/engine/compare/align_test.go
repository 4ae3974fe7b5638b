package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignFirstDivergence(t *testing.T) {
	r := Align([]byte{0xD5, 0xAA, 0x96}, []byte{0xD5, 0xAA, 0x97}, Equal[byte], Window{})

	require.Len(t, r.Pairs, 3)
	assert.Equal(t, Match, r.Pairs[0].Class)
	assert.Equal(t, Match, r.Pairs[1].Class)
	assert.Equal(t, Diff, r.Pairs[2].Class)
	assert.Equal(t, 2, r.FirstDivergence)
	assert.Equal(t, 1, r.Mismatches)
	assert.Equal(t, 3, r.Compared)
	assert.Equal(t, StatusDiverged, r.Status)
}

func TestAlignIdentical(t *testing.T) {
	r := Align([]int{1, 2, 3}, []int{1, 2, 3}, Equal[int], Window{})
	assert.Equal(t, -1, r.FirstDivergence)
	assert.Equal(t, StatusMatch, r.Status)
	assert.Zero(t, r.Mismatches)
}

func TestAlignUnevenLengths(t *testing.T) {
	r := Align([]int{1, 2}, []int{1, 2, 3, 4}, Equal[int], Window{})

	require.Len(t, r.Pairs, 4)
	assert.Equal(t, OnlyB, r.Pairs[2].Class)
	assert.False(t, r.Pairs[2].HasA)
	assert.True(t, r.Pairs[2].HasB)
	assert.Equal(t, 2, r.FirstDivergence)
	assert.Zero(t, r.Mismatches, "only-b pairs are not value mismatches")

	r = Align([]int{1, 2, 3}, []int{1}, Equal[int], Window{})
	assert.Equal(t, OnlyA, r.Pairs[1].Class)
}

func TestAlignNoData(t *testing.T) {
	for _, tc := range []struct {
		name string
		a, b []int
	}{
		{"both empty", nil, nil},
		{"a empty", nil, []int{1}},
		{"b empty", []int{1}, []int{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := Align(tc.a, tc.b, Equal[int], Window{})
			assert.Equal(t, StatusNoData, r.Status)
			assert.Empty(t, r.Pairs)
			assert.Equal(t, -1, r.FirstDivergence)
		})
	}
}

func TestAlignWindow(t *testing.T) {
	a := []int{0, 1, 2, 3, 4, 5, 6, 7}
	b := []int{0, 1, 2, 3, 9, 5, 6, 7}

	r := Align(a, b, Equal[int], Window{Start: 2, Limit: 2})
	require.Len(t, r.Pairs, 2)
	assert.Equal(t, 2, r.Pairs[0].Index)
	assert.Equal(t, StatusMatch, r.Status, "divergence at 4 lies outside the window")

	r = Align(a, b, Equal[int], Window{Start: 3})
	require.Len(t, r.Pairs, 5)
	assert.Equal(t, 4, r.FirstDivergence)

	r = Align(a, b, Equal[int], Window{Start: 20})
	assert.Empty(t, r.Pairs)
	assert.Equal(t, StatusNoData, r.Status)
}

func TestAlignWindowPastEnd(t *testing.T) {
	r := Align([]int{1}, []int{1, 2}, Equal[int], Window{Start: 5})
	assert.Equal(t, StatusNoData, r.Status, "an empty window is not a match")
	assert.Equal(t, 0, r.Compared)
	assert.Equal(t, -1, r.FirstDivergence)
	assert.Equal(t, 1, r.LenA)
	assert.Equal(t, 2, r.LenB)
}

func TestBits(t *testing.T) {
	r := Bits([]uint8{1, 1, 0, 1}, []uint8{1, 1, 0, 0})
	assert.Equal(t, 3, r.FirstDivergence)
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "match", Match.String())
	assert.Equal(t, "diff", Diff.String())
	assert.Equal(t, "only-a", OnlyA.String())
	assert.Equal(t, "only-b", OnlyB.String())
}
