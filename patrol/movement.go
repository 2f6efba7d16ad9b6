package patrol

// NextBlockingObstacle returns the nearest obstacle strictly ahead of pos in
// the direction of travel, or false when the agent would reach the boundary.
func NextBlockingObstacle(pos Coord, h Heading, obstacles ObstacleSet) (Coord, bool) {
	return obstacles.Nearest(pos, h)
}

// stopCell is where a leg starting at pos ends: the cell before the blocking
// obstacle, or the boundary cell when nothing is ahead. The bool reports
// whether an obstacle was found.
func stopCell(pos Coord, h Heading, obstacles ObstacleSet, bounds Bounds) (Coord, bool) {
	obstacle, found := NextBlockingObstacle(pos, h, obstacles)
	if !found {
		return bounds.Edge(pos, h), false
	}
	return obstacle.Step(h.Reverse()), true
}

// visitRecorder accumulates what one run has seen. visit returns true when
// the state was already recorded during this run.
type visitRecorder interface {
	visit(s State) bool
}

// walkOutcome is how a walk ended.
type walkOutcome int

const (
	walkExited walkOutcome = iota
	walkCycled
)

// legFunc observes every leg of a walk. May be nil.
type legFunc func(from, to Coord, h Heading, blocked bool)

// walk is the single movement routine shared by both simulators. It records
// the start state before moving, then jumps leg by leg: every cell after the
// current one up to the stop cell is recorded with the travel heading. After
// a blocked leg the heading turns clockwise and the new state at the same
// cell is recorded before the next move. A repeated state ends the walk as a
// cycle; a leg with nothing ahead ends it as an exit.
func walk(start State, obstacles ObstacleSet, bounds Bounds, rec visitRecorder, onLeg legFunc) (walkOutcome, State) {
	pos, h := start.Pos, start.Heading
	rec.visit(start)
	for {
		stop, blocked := stopCell(pos, h, obstacles, bounds)
		for c := pos; c != stop; {
			c = c.Step(h)
			if s := (State{Pos: c, Heading: h}); rec.visit(s) {
				return walkCycled, s
			}
		}
		if onLeg != nil {
			onLeg(pos, stop, h, blocked)
		}
		if !blocked {
			return walkExited, State{Pos: stop, Heading: h}
		}
		pos, h = stop, h.TurnRight()
		if s := (State{Pos: pos, Heading: h}); rec.visit(s) {
			return walkCycled, s
		}
	}
}
