package patrol

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Grid characters.
const (
	CellObstacle = '#'
	CellFloor    = '.'
)

// Puzzle is a validated grid together with the agent's start state.
type Puzzle struct {
	Grid  *Grid
	Start State
}

// NewPuzzle validates that start lies on a free in-bounds cell.
func NewPuzzle(grid *Grid, start State) (*Puzzle, error) {
	if grid == nil {
		return nil, &MalformedGridError{PatrolError: PatrolError{Message: "nil grid"}}
	}
	if err := checkStart(start, grid, grid.Bounds()); err != nil {
		return nil, err
	}
	return &Puzzle{Grid: grid, Start: start}, nil
}

// Bounds returns the grid extent.
func (p *Puzzle) Bounds() Bounds { return p.Grid.Bounds() }

// Visited runs the exit-path simulation for the puzzle.
func (p *Puzzle) Visited() (VisitedCells, error) {
	return RunUntilExit(p.Start, p.Grid, p.Bounds())
}

// VisitedCount returns the number of distinct cells visited before exit.
func (p *Puzzle) VisitedCount() (int, error) {
	v, err := p.Visited()
	if err != nil {
		return 0, err
	}
	return len(v), nil
}

// Candidates returns every free cell other than the start, row-major.
func (p *Puzzle) Candidates() []Coord {
	b := p.Bounds()
	out := make([]Coord, 0, b.Cells()-p.Grid.ObstacleCount())
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			cell := Coord{Row: r, Col: c}
			if cell == p.Start.Pos || p.Grid.Blocked(cell) {
				continue
			}
			out = append(out, cell)
		}
	}
	return out
}

// ParseGrid parses the text form of a puzzle: '#' obstacles, '.' floor and
// exactly one of '^', '>', 'v', '<' marking the start cell and heading.
func ParseGrid(text string) (*Puzzle, error) {
	return ReadPuzzle(strings.NewReader(text))
}

// ReadPuzzle parses a puzzle from r. Trailing blank lines and carriage
// returns are ignored.
func ReadPuzzle(r io.Reader) (*Puzzle, error) {
	var (
		lines     []string
		obstacles []Coord
		starts    []State
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, &MalformedGridError{PatrolError: PatrolError{Message: "read input", Cause: err}}
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, &MalformedGridError{PatrolError: PatrolError{Message: "empty input"}}
	}

	width := len([]rune(lines[0]))
	for row, line := range lines {
		runes := []rune(line)
		if len(runes) != width {
			return nil, &MalformedGridError{
				PatrolError: PatrolError{Message: fmt.Sprintf("row has %d cells, expected %d", len(runes), width)},
				Line:        row + 1,
			}
		}
		for col, ch := range runes {
			cell := Coord{Row: row, Col: col}
			switch ch {
			case CellObstacle:
				obstacles = append(obstacles, cell)
			case CellFloor:
			default:
				h, ok := HeadingFromMarker(ch)
				if !ok {
					return nil, &MalformedGridError{
						PatrolError: PatrolError{Message: fmt.Sprintf("unknown cell %q at column %d", ch, col+1)},
						Line:        row + 1,
					}
				}
				starts = append(starts, State{Pos: cell, Heading: h})
			}
		}
	}

	switch len(starts) {
	case 1:
	case 0:
		return nil, &StartMarkerError{PatrolError: PatrolError{Message: "no start marker"}}
	default:
		found := make([]Coord, len(starts))
		for i, s := range starts {
			found[i] = s.Pos
		}
		return nil, &StartMarkerError{PatrolError: PatrolError{Message: "multiple start markers"}, Found: found}
	}

	grid, err := NewGrid(len(lines), width, obstacles)
	if err != nil {
		return nil, err
	}
	return NewPuzzle(grid, starts[0])
}
