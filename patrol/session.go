package patrol

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SessionState represents the current lifecycle state of a session.
type SessionState string

const (
	StateIdle       SessionState = "idle"
	StatePatrolling SessionState = "patrolling"
	StateSearching  SessionState = "searching"
	StateClosed     SessionState = "closed"
)

// PatrolReport is the result of Session.Patrol.
type PatrolReport struct {
	SessionID string        `json:"session_id"`
	Visited   VisitedCells  `json:"-"`
	Count     int           `json:"count"`
	Summary   LegSummary    `json:"summary"`
	Exit      State         `json:"exit"`
	Elapsed   time.Duration `json:"elapsed"`
}

// SearchReport is the result of Session.SearchLoops.
type SearchReport struct {
	SessionID  string        `json:"session_id"`
	Placements []Coord       `json:"placements"`
	Count      int           `json:"count"`
	Candidates int           `json:"candidates"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Session runs the patrol and the cycle search for one puzzle, keeping the
// leg history of the last patrol and streaming events to the caller.
type Session struct {
	id      string
	puzzle  *Puzzle
	config  Config
	emitter *EventEmitter
	logger  *slog.Logger
	history []Leg
	state   SessionState
	mu      sync.Mutex
}

// NewSession creates a session for puzzle with an optional configuration.
func NewSession(puzzle *Puzzle, config *Config) *Session {
	sessionID := uuid.New().String()

	cfg := DefaultConfig()
	if config != nil {
		cfg = *config
	}

	s := &Session{
		id:      sessionID,
		puzzle:  puzzle,
		config:  cfg,
		emitter: NewEventEmitter(sessionID, cfg.EventBuffer),
		logger:  cfg.logger().With("session_id", sessionID),
		state:   StateIdle,
	}
	b := puzzle.Bounds()
	s.emitter.Emit(EventSessionStart, map[string]any{
		"rows":      b.Rows,
		"cols":      b.Cols,
		"obstacles": puzzle.Grid.ObstacleCount(),
		"start":     puzzle.Start.String(),
	})
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Puzzle returns the puzzle this session runs.
func (s *Session) Puzzle() *Puzzle { return s.puzzle }

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns a copy of the legs recorded by the last patrol.
func (s *Session) History() []Leg {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := make([]Leg, len(s.history))
	copy(h, s.history)
	return h
}

// Events returns the event channel for the caller.
func (s *Session) Events() <-chan SessionEvent {
	return s.emitter.Events()
}

// Close ends the session. Further work returns ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	s.mu.Unlock()

	s.emitter.Emit(EventSessionEnd, map[string]any{
		"state":          string(StateClosed),
		"dropped_events": s.emitter.Dropped(),
	})
	s.emitter.Close()
}

// begin moves the session from idle into next.
func (s *Session) begin(next SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateClosed:
		return ErrSessionClosed
	case StateIdle:
		s.state = next
		return nil
	default:
		return fmt.Errorf("session is busy (%s)", s.state)
	}
}

func (s *Session) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateClosed {
		s.state = StateIdle
	}
}

// Patrol replays the agent's path until it leaves the grid, recording each
// leg in the session history.
func (s *Session) Patrol(ctx context.Context) (*PatrolReport, error) {
	if err := s.begin(StatePatrolling); err != nil {
		return nil, err
	}
	defer s.finish()

	if err := ctx.Err(); err != nil {
		return nil, &AbortError{PatrolError: PatrolError{Message: "patrol cancelled", Cause: err}}
	}

	b := s.puzzle.Bounds()
	_, span := tracer.Start(ctx, "patrol.Session.Patrol",
		trace.WithAttributes(
			attribute.String("session_id", s.id),
			attribute.Int("rows", b.Rows),
			attribute.Int("cols", b.Cols),
		),
	)
	defer span.End()

	started := time.Now()
	var legs []Leg
	onLeg := func(from, to Coord, h Heading, blocked bool) {
		leg := NewLeg(len(legs), from, to, h, blocked)
		legs = append(legs, leg)
		s.emitter.Emit(EventLeg, map[string]any{
			"index":   leg.Index,
			"from":    from.String(),
			"to":      to.String(),
			"heading": h.String(),
			"steps":   leg.Steps(),
		})
		if blocked {
			s.emitter.Emit(EventTurn, map[string]any{
				"at":      to.String(),
				"heading": h.TurnRight().String(),
			})
		}
	}

	visited, err := runUntilExit(s.puzzle.Start, s.puzzle.Grid, b, onLeg)

	s.mu.Lock()
	s.history = legs
	s.mu.Unlock()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "patrol did not exit")
		var cycle *CycleError
		if errors.As(err, &cycle) {
			s.emitter.Emit(EventCycleDetected, map[string]any{
				"state": cycle.State.String(),
				"legs":  len(legs),
			})
			s.logger.Warn("agent trapped in baseline layout", "state", cycle.State.String(), "legs", len(legs))
		} else {
			s.emitter.Emit(EventError, map[string]any{"error": err.Error()})
		}
		return nil, err
	}

	last := legs[len(legs)-1]
	report := &PatrolReport{
		SessionID: s.id,
		Visited:   visited,
		Count:     len(visited),
		Summary:   SummarizeLegs(legs),
		Exit:      State{Pos: last.To, Heading: last.Heading},
		Elapsed:   time.Since(started),
	}
	span.SetAttributes(attribute.Int("visited", report.Count))
	s.emitter.Emit(EventExit, map[string]any{
		"at":      report.Exit.Pos.String(),
		"heading": report.Exit.Heading.String(),
		"visited": report.Count,
	})
	s.logger.Debug("patrol finished", "visited", report.Count, "legs", len(legs))
	return report, nil
}

// SearchLoops counts the obstacle placements that trap the agent, using the
// session's worker and progress settings.
func (s *Session) SearchLoops(ctx context.Context) (*SearchReport, error) {
	if err := s.begin(StateSearching); err != nil {
		return nil, err
	}
	defer s.finish()

	candidates := len(s.puzzle.Candidates())
	workers := s.config.EffectiveWorkers()
	s.emitter.Emit(EventSearchStart, map[string]any{
		"candidates": candidates,
		"workers":    workers,
	})

	started := time.Now()
	placements, err := FindCycleInducingPlacements(ctx, s.puzzle,
		WithWorkers(workers),
		WithLogger(s.logger),
		WithProgress(s.config.ProgressEvery, func(p SearchProgress) {
			s.emitter.Emit(EventSearchProgress, map[string]any{
				"done":  p.Done,
				"total": p.Total,
				"found": p.Found,
			})
		}),
	)
	if err != nil {
		s.emitter.Emit(EventError, map[string]any{"error": err.Error()})
		return nil, err
	}

	report := &SearchReport{
		SessionID:  s.id,
		Placements: placements,
		Count:      len(placements),
		Candidates: candidates,
		Elapsed:    time.Since(started),
	}
	s.emitter.Emit(EventSearchEnd, map[string]any{
		"placements": report.Count,
		"elapsed_ms": report.Elapsed.Milliseconds(),
	})
	return report, nil
}
