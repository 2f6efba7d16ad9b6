// Package patrol simulates a guard walking a bounded grid of obstacles and
// searches for obstacle placements that trap it in a loop.
//
// The guard walks straight until the cell ahead holds an obstacle, turns 90
// degrees clockwise, and carries on until a step would leave the grid.
// Movement is computed leg by leg: each leg jumps directly to the cell before
// the nearest obstacle ahead (a binary search over per-row and per-column
// obstacle indexes) instead of stepping cell by cell.
//
// # Architecture
//
//   - Grid, Bounds, Coord, Heading, State: the immutable board and the
//     (cell, heading) state that fully determines the guard's future.
//   - RunUntilExit: the exit-path simulation, returning every visited cell.
//   - DetectsCycle: the same walk, recording full states; a repeated state
//     proves the guard never leaves.
//   - FindCycleInducingPlacements: one DetectsCycle trial per free cell,
//     run on a bounded worker pool against a shared baseline grid.
//   - Session: runs both for one puzzle, records legs and streams events.
//
// # Quick Start
//
//	puzzle, err := patrol.ParseGrid(input)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	visited, err := puzzle.VisitedCount()
//	loops, err := patrol.CountCycleInducingPlacements(ctx, puzzle)
//
// Using a session for events and leg history:
//
//	session := patrol.NewSession(puzzle, nil)
//	defer session.Close()
//
//	report, err := session.Patrol(ctx)
//	for _, leg := range session.History() {
//	    fmt.Println(leg.From, "->", leg.To, leg.Heading)
//	}
package patrol
