package patrol

// VisitedCells is the set of distinct cells the agent occupied during a run.
type VisitedCells map[Coord]struct{}

// Contains reports whether c was visited.
func (v VisitedCells) Contains(c Coord) bool {
	_, ok := v[c]
	return ok
}

// Sorted returns the visited cells in row-major order.
func (v VisitedCells) Sorted() []Coord {
	out := make([]Coord, 0, len(v))
	for c := range v {
		out = append(out, c)
	}
	sortCoords(out)
	return out
}

// stateSet is a dense set of states for one run, one slot per
// (cell, heading). It is never shared between runs.
type stateSet struct {
	cols int
	seen []bool
}

func newStateSet(b Bounds) *stateSet {
	return &stateSet{cols: b.Cols, seen: make([]bool, b.Cells()*4)}
}

func (s *stateSet) visit(st State) bool {
	i := (st.Pos.Row*s.cols+st.Pos.Col)*4 + int(st.Heading)
	if s.seen[i] {
		return true
	}
	s.seen[i] = true
	return false
}

// cellRecorder collects cells for the exit-path count. It still tracks full
// states underneath so a layout that traps the agent is reported instead of
// spinning forever.
type cellRecorder struct {
	cells  VisitedCells
	states *stateSet
}

func (r *cellRecorder) visit(st State) bool {
	r.cells[st.Pos] = struct{}{}
	return r.states.visit(st)
}

// RunUntilExit replays the agent's path from start until it leaves the grid
// and returns every distinct cell it occupied, start cell included. If the
// obstacles trap the agent a *CycleError is returned.
func RunUntilExit(start State, obstacles ObstacleSet, bounds Bounds) (VisitedCells, error) {
	return runUntilExit(start, obstacles, bounds, nil)
}

func runUntilExit(start State, obstacles ObstacleSet, bounds Bounds, onLeg legFunc) (VisitedCells, error) {
	if err := checkStart(start, obstacles, bounds); err != nil {
		runsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}
	rec := &cellRecorder{cells: make(VisitedCells), states: newStateSet(bounds)}
	outcome, last := walk(start, obstacles, bounds, rec, onLeg)
	if outcome == walkCycled {
		runsTotal.WithLabelValues("cycled").Inc()
		return rec.cells, &CycleError{
			PatrolError: PatrolError{Message: "agent is trapped by the obstacle layout"},
			State:       last,
		}
	}
	runsTotal.WithLabelValues("exited").Inc()
	visitedCells.Observe(float64(len(rec.cells)))
	return rec.cells, nil
}

// DetectsCycle reports whether the agent, starting at start, revisits a
// (cell, heading) state instead of leaving the grid. The start must lie in
// bounds on a free cell; an invalid start never cycles.
func DetectsCycle(start State, obstacles ObstacleSet, bounds Bounds) bool {
	if checkStart(start, obstacles, bounds) != nil {
		return false
	}
	outcome, _ := walk(start, obstacles, bounds, newStateSet(bounds), nil)
	return outcome == walkCycled
}

func checkStart(start State, obstacles ObstacleSet, bounds Bounds) error {
	if !bounds.Contains(start.Pos) {
		return &StartMarkerError{
			PatrolError: PatrolError{Message: "start " + start.Pos.String() + " is outside the grid"},
			Found:       []Coord{start.Pos},
		}
	}
	if !start.Heading.Valid() {
		return &StartMarkerError{
			PatrolError: PatrolError{Message: "start heading is not a cardinal direction"},
			Found:       []Coord{start.Pos},
		}
	}
	if obstacles.Blocked(start.Pos) {
		return &InvalidPlacementError{
			PatrolError: PatrolError{Message: "start cell holds an obstacle"},
			Cell:        start.Pos,
		}
	}
	return nil
}
