package patrol

import "strings"

// ScenarioInfo describes a built-in puzzle with known answers.
type ScenarioInfo struct {
	ID                 string   `json:"id"`
	DisplayName        string   `json:"display_name"`
	Grid               string   `json:"grid"`
	ExpectedVisited    *int     `json:"expected_visited,omitempty"` // nil when the agent never exits
	ExpectedPlacements int      `json:"expected_placements"`
	Aliases            []string `json:"aliases,omitempty"`
}

func intPtr(v int) *int { return &v }

// Scenarios is the built-in scenario catalog.
var Scenarios = []ScenarioInfo{
	{
		ID: "lab-example", DisplayName: "Lab example (10x10)",
		Grid: strings.Join([]string{
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
		}, "\n"),
		ExpectedVisited: intPtr(41), ExpectedPlacements: 6,
		Aliases: []string{"example", "canonical"},
	},
	{
		ID: "ring-trap", DisplayName: "Agent boxed in by four obstacles",
		Grid: strings.Join([]string{
			".#.",
			"#^#",
			".#.",
		}, "\n"),
		ExpectedVisited: nil, ExpectedPlacements: 4,
		Aliases: []string{"ring"},
	},
	{
		ID: "edge-exit", DisplayName: "Start on the top edge facing out",
		Grid: strings.Join([]string{
			".^.",
			"...",
		}, "\n"),
		ExpectedVisited: intPtr(1), ExpectedPlacements: 0,
		Aliases: []string{"edge"},
	},
	{
		ID: "corridor", DisplayName: "Single row, facing right",
		Grid:            "..>..",
		ExpectedVisited: intPtr(3), ExpectedPlacements: 0,
	},
	{
		ID: "square-loop", DisplayName: "Three turns, one closing placement",
		Grid: strings.Join([]string{
			".#...",
			"....#",
			".....",
			".^...",
			"...#.",
		}, "\n"),
		ExpectedVisited: intPtr(9), ExpectedPlacements: 1,
		Aliases: []string{"square"},
	},
}

// GetScenario returns the catalog entry for an ID or alias, or nil.
func GetScenario(id string) *ScenarioInfo {
	for i := range Scenarios {
		if Scenarios[i].ID == id {
			return &Scenarios[i]
		}
		for _, alias := range Scenarios[i].Aliases {
			if alias == id {
				return &Scenarios[i]
			}
		}
	}
	return nil
}

// ListScenarios returns a copy of the catalog.
func ListScenarios() []ScenarioInfo {
	out := make([]ScenarioInfo, len(Scenarios))
	copy(out, Scenarios)
	return out
}

// Puzzle parses the scenario grid.
func (s ScenarioInfo) Puzzle() (*Puzzle, error) {
	return ParseGrid(s.Grid)
}
