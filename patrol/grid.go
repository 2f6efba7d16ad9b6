package patrol

import (
	"fmt"
	"sort"
)

// Coord is a grid cell addressed by zero-based row and column.
type Coord struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// Step returns the neighbouring cell one step along h.
func (c Coord) Step(h Heading) Coord {
	d := h.Delta()
	return Coord{Row: c.Row + d.Row, Col: c.Col + d.Col}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// State is the position and heading of the agent. Two equal states always
// produce the same future, which is what makes it a valid cycle witness.
type State struct {
	Pos     Coord   `json:"pos"`
	Heading Heading `json:"heading"`
}

func (s State) String() string {
	return fmt.Sprintf("%s %s", s.Pos, s.Heading)
}

// Bounds is the extent of a rectangular grid.
type Bounds struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Contains reports whether c lies inside the grid.
func (b Bounds) Contains(c Coord) bool {
	return c.Row >= 0 && c.Row < b.Rows && c.Col >= 0 && c.Col < b.Cols
}

// Cells returns the total number of cells.
func (b Bounds) Cells() int {
	return b.Rows * b.Cols
}

// Edge returns the last in-bounds cell reached by walking from along h.
func (b Bounds) Edge(from Coord, h Heading) Coord {
	switch h {
	case Up:
		return Coord{Row: 0, Col: from.Col}
	case Down:
		return Coord{Row: b.Rows - 1, Col: from.Col}
	case Left:
		return Coord{Row: from.Row, Col: 0}
	default:
		return Coord{Row: from.Row, Col: b.Cols - 1}
	}
}

// ObstacleSet answers the two questions the walker asks about obstacles.
type ObstacleSet interface {
	// Blocked reports whether c holds an obstacle.
	Blocked(c Coord) bool

	// Nearest returns the closest obstacle strictly ahead of from along h,
	// or false when nothing lies ahead before the boundary.
	Nearest(from Coord, h Heading) (Coord, bool)
}

// Grid is an immutable rectangle of cells with a fixed set of obstacles.
// Obstacles are indexed per row and per column in ascending order so that
// Nearest is a binary search instead of a scan.
type Grid struct {
	bounds    Bounds
	obstacles map[Coord]struct{}
	byRow     map[int][]int // row -> sorted obstacle columns
	byCol     map[int][]int // col -> sorted obstacle rows
}

// NewGrid builds a grid. Duplicate obstacles are collapsed.
func NewGrid(rows, cols int, obstacles []Coord) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, &MalformedGridError{PatrolError: PatrolError{
			Message: fmt.Sprintf("grid must have positive dimensions, got %dx%d", rows, cols),
		}}
	}
	g := &Grid{
		bounds:    Bounds{Rows: rows, Cols: cols},
		obstacles: make(map[Coord]struct{}, len(obstacles)),
		byRow:     make(map[int][]int),
		byCol:     make(map[int][]int),
	}
	for _, o := range obstacles {
		if !g.bounds.Contains(o) {
			return nil, &MalformedGridError{PatrolError: PatrolError{
				Message: fmt.Sprintf("obstacle %s outside %dx%d grid", o, rows, cols),
			}}
		}
		if _, dup := g.obstacles[o]; dup {
			continue
		}
		g.obstacles[o] = struct{}{}
		g.byRow[o.Row] = append(g.byRow[o.Row], o.Col)
		g.byCol[o.Col] = append(g.byCol[o.Col], o.Row)
	}
	for _, idx := range g.byRow {
		sort.Ints(idx)
	}
	for _, idx := range g.byCol {
		sort.Ints(idx)
	}
	return g, nil
}

// Bounds returns the grid extent.
func (g *Grid) Bounds() Bounds { return g.bounds }

// ObstacleCount returns the number of distinct obstacles.
func (g *Grid) ObstacleCount() int { return len(g.obstacles) }

// Obstacles returns the obstacle coordinates in row-major order.
func (g *Grid) Obstacles() []Coord {
	out := make([]Coord, 0, len(g.obstacles))
	for c := range g.obstacles {
		out = append(out, c)
	}
	sortCoords(out)
	return out
}

// Blocked reports whether c holds an obstacle.
func (g *Grid) Blocked(c Coord) bool {
	_, ok := g.obstacles[c]
	return ok
}

// Nearest returns the closest obstacle strictly ahead of from along h.
func (g *Grid) Nearest(from Coord, h Heading) (Coord, bool) {
	switch h {
	case Up:
		rows := g.byCol[from.Col]
		// Last obstacle row strictly less than from.Row.
		i := sort.SearchInts(rows, from.Row) - 1
		if i >= 0 {
			return Coord{Row: rows[i], Col: from.Col}, true
		}
	case Down:
		rows := g.byCol[from.Col]
		i := sort.SearchInts(rows, from.Row+1)
		if i < len(rows) {
			return Coord{Row: rows[i], Col: from.Col}, true
		}
	case Left:
		cols := g.byRow[from.Row]
		i := sort.SearchInts(cols, from.Col) - 1
		if i >= 0 {
			return Coord{Row: from.Row, Col: cols[i]}, true
		}
	case Right:
		cols := g.byRow[from.Row]
		i := sort.SearchInts(cols, from.Col+1)
		if i < len(cols) {
			return Coord{Row: from.Row, Col: cols[i]}, true
		}
	}
	return Coord{}, false
}

// With returns the logical union of the grid's obstacles and extra. The
// baseline is shared, not copied, so trials can run concurrently against the
// same grid.
func (g *Grid) With(extra Coord) ObstacleSet {
	return withObstacle{base: g, extra: extra}
}

type withObstacle struct {
	base  *Grid
	extra Coord
}

func (w withObstacle) Blocked(c Coord) bool {
	return c == w.extra || w.base.Blocked(c)
}

func (w withObstacle) Nearest(from Coord, h Heading) (Coord, bool) {
	best, found := w.base.Nearest(from, h)
	if !ahead(from, w.extra, h) {
		return best, found
	}
	if !found || distance(from, w.extra) < distance(from, best) {
		return w.extra, true
	}
	return best, found
}

// ahead reports whether target lies strictly ahead of from along h.
func ahead(from, target Coord, h Heading) bool {
	switch h {
	case Up:
		return target.Col == from.Col && target.Row < from.Row
	case Down:
		return target.Col == from.Col && target.Row > from.Row
	case Left:
		return target.Row == from.Row && target.Col < from.Col
	default:
		return target.Row == from.Row && target.Col > from.Col
	}
}

// distance is the Manhattan distance; callers only compare cells on a line.
func distance(a, b Coord) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sortCoords(cs []Coord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Row != cs[j].Row {
			return cs[i].Row < cs[j].Row
		}
		return cs[i].Col < cs[j].Col
	})
}
