package patrol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderVisitedPath(t *testing.T) {
	p := mustParse(t, labExample)
	visited, err := p.Visited()
	require.NoError(t, err)

	want := strings.Join([]string{
		"....#.....",
		"....XXXXX#",
		"....X...X.",
		"..#.X...X.",
		"..XXXXX#X.",
		"..X.X.X.X.",
		".#XX^XXXX.",
		".XXXXXXX#.",
		"#XXXXXXX..",
		"......#X..",
	}, "\n")
	assert.Equal(t, want, Render(p, visited, nil))
}

func TestRenderPlacements(t *testing.T) {
	p := mustParse(t, ".#...\n....#\n.....\n.^...\n...#.")
	out := Render(p, nil, []Coord{{Row: 3, Col: 0}})
	assert.Equal(t, ".#...\n....#\n.....\nO^...\n...#.", out)
}

func TestRenderWithoutMarksRoundTrips(t *testing.T) {
	p := mustParse(t, labExample)
	assert.Equal(t, labExample, Render(p, nil, nil))
}

func TestTruncateLines(t *testing.T) {
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = strings.Repeat(".", i+1)
	}
	text := strings.Join(lines, "\n")

	assert.Equal(t, text, TruncateLines(text, 0))
	assert.Equal(t, text, TruncateLines(text, 10))

	out := TruncateLines(text, 4)
	assert.True(t, strings.HasPrefix(out, ".\n..\n"))
	assert.True(t, strings.HasSuffix(out, strings.Repeat(".", 9)+"\n"+strings.Repeat(".", 10)))
	assert.Contains(t, out, "[... 6 rows omitted ...]")
}
