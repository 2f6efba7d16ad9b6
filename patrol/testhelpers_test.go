package patrol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var labExample = strings.Join([]string{
	"....#.....",
	".........#",
	"..........",
	"..#.......",
	".......#..",
	"..........",
	".#..^.....",
	"........#.",
	"#.........",
	"......#...",
}, "\n")

func mustParse(t *testing.T, text string) *Puzzle {
	t.Helper()
	p, err := ParseGrid(text)
	require.NoError(t, err)
	return p
}

func mustGrid(t *testing.T, rows, cols int, obstacles ...Coord) *Grid {
	t.Helper()
	g, err := NewGrid(rows, cols, obstacles)
	require.NoError(t, err)
	return g
}

// countingRecorder wraps a stateSet and counts distinct states.
type countingRecorder struct {
	set      *stateSet
	distinct int
}

func (r *countingRecorder) visit(s State) bool {
	if r.set.visit(s) {
		return true
	}
	r.distinct++
	return false
}
