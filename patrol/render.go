package patrol

import (
	"fmt"
	"strings"
)

// Render markers.
const (
	MarkVisited   = 'X'
	MarkPlacement = 'O'
)

// Render draws the puzzle with visited cells as 'X' and placements as 'O'.
// The start marker is always kept. Either set may be nil.
func Render(p *Puzzle, visited VisitedCells, placements []Coord) string {
	b := p.Bounds()
	placed := make(map[Coord]struct{}, len(placements))
	for _, c := range placements {
		placed[c] = struct{}{}
	}

	var sb strings.Builder
	sb.Grow(b.Rows * (b.Cols + 1))
	for r := 0; r < b.Rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < b.Cols; c++ {
			cell := Coord{Row: r, Col: c}
			_, isPlacement := placed[cell]
			switch {
			case cell == p.Start.Pos:
				sb.WriteRune(p.Start.Heading.Marker())
			case p.Grid.Blocked(cell):
				sb.WriteRune(CellObstacle)
			case isPlacement:
				sb.WriteRune(MarkPlacement)
			case visited.Contains(cell):
				sb.WriteRune(MarkVisited)
			default:
				sb.WriteRune(CellFloor)
			}
		}
	}
	return sb.String()
}

// TruncateLines keeps the first and last lines of output when it exceeds
// maxLines, replacing the middle with an omission marker. maxLines <= 0
// disables truncation.
func TruncateLines(output string, maxLines int) string {
	if maxLines <= 0 {
		return output
	}
	lines := strings.Split(output, "\n")
	if len(lines) <= maxLines {
		return output
	}

	headCount := maxLines / 2
	tailCount := maxLines - headCount
	omitted := len(lines) - headCount - tailCount

	return strings.Join(lines[:headCount], "\n") +
		fmt.Sprintf("\n[... %d rows omitted ...]\n", omitted) +
		strings.Join(lines[len(lines)-tailCount:], "\n")
}
