package patrol

import "time"

// LegOutcome records why a leg ended.
type LegOutcome string

const (
	LegBlocked LegOutcome = "blocked"
	LegExited  LegOutcome = "exited"
)

// Leg is one straight-line segment of a patrol, from the cell where the
// agent started moving to the cell where it stopped.
type Leg struct {
	Index     int        `json:"index"`
	From      Coord      `json:"from"`
	To        Coord      `json:"to"`
	Heading   Heading    `json:"heading"`
	Outcome   LegOutcome `json:"outcome"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewLeg creates a Leg stamped with the current time.
func NewLeg(index int, from, to Coord, h Heading, blocked bool) Leg {
	outcome := LegExited
	if blocked {
		outcome = LegBlocked
	}
	return Leg{
		Index:     index,
		From:      from,
		To:        to,
		Heading:   h,
		Outcome:   outcome,
		Timestamp: time.Now(),
	}
}

// Steps returns how many cells the agent advanced on this leg. A leg that
// turns in place has zero steps.
func (l Leg) Steps() int {
	return distance(l.From, l.To)
}

// LegSummary aggregates a leg history.
type LegSummary struct {
	Legs      int             `json:"legs"`
	Turns     int             `json:"turns"`
	Steps     int             `json:"steps"`
	ByHeading map[Heading]int `json:"by_heading"`
}

// SummarizeLegs totals steps per heading and counts turns (blocked legs).
func SummarizeLegs(history []Leg) LegSummary {
	sum := LegSummary{Legs: len(history), ByHeading: make(map[Heading]int, 4)}
	for _, l := range history {
		steps := l.Steps()
		sum.Steps += steps
		sum.ByHeading[l.Heading] += steps
		if l.Outcome == LegBlocked {
			sum.Turns++
		}
	}
	return sum
}
