package patrol

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(s *Session) []SessionEvent {
	var events []SessionEvent
	for ev := range s.Events() {
		events = append(events, ev)
	}
	return events
}

func kinds(events []SessionEvent) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func countKind(events []SessionEvent, kind EventKind) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func TestNewSession(t *testing.T) {
	s := NewSession(mustParse(t, labExample), nil)
	defer s.Close()

	_, err := uuid.Parse(s.ID())
	assert.NoError(t, err)
	assert.Equal(t, StateIdle, s.State())
	assert.Empty(t, s.History())
}

func TestSessionPatrol(t *testing.T) {
	s := NewSession(mustParse(t, labExample), nil)

	report, err := s.Patrol(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 41, report.Count)
	assert.Equal(t, s.ID(), report.SessionID)
	assert.Equal(t, State{Pos: Coord{Row: 9, Col: 7}, Heading: Down}, report.Exit)
	assert.Equal(t, StateIdle, s.State())

	history := s.History()
	require.NotEmpty(t, history)
	assert.Equal(t, Coord{Row: 6, Col: 4}, history[0].From)
	assert.Equal(t, Coord{Row: 1, Col: 4}, history[0].To)
	assert.Equal(t, Up, history[0].Heading)
	assert.Equal(t, LegExited, history[len(history)-1].Outcome)
	for _, leg := range history[:len(history)-1] {
		assert.Equal(t, LegBlocked, leg.Outcome)
	}
	assert.Equal(t, len(history)-1, report.Summary.Turns)
	assert.Equal(t, len(history), report.Summary.Legs)

	s.Close()
	events := drain(s)
	k := kinds(events)
	assert.Equal(t, EventSessionStart, k[0])
	assert.Equal(t, EventSessionEnd, k[len(k)-1])
	assert.Equal(t, len(history), countKind(events, EventLeg))
	assert.Equal(t, len(history)-1, countKind(events, EventTurn))
	assert.Equal(t, 1, countKind(events, EventExit))
	for _, ev := range events {
		assert.Equal(t, s.ID(), ev.SessionID)
	}
}

func TestSessionPatrolTrapped(t *testing.T) {
	s := NewSession(mustParse(t, ".#.\n#^#\n.#."), nil)

	_, err := s.Patrol(context.Background())
	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Len(t, s.History(), 4)

	s.Close()
	events := drain(s)
	assert.Equal(t, 1, countKind(events, EventCycleDetected))
	assert.Equal(t, 0, countKind(events, EventExit))
}

func TestSessionSearchLoops(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 2
	cfg.ProgressEvery = 30
	s := NewSession(mustParse(t, labExample), &cfg)

	report, err := s.SearchLoops(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, report.Count)
	assert.Equal(t, labPlacements, report.Placements)
	assert.Equal(t, 91, report.Candidates)

	s.Close()
	events := drain(s)
	assert.Equal(t, 1, countKind(events, EventSearchStart))
	assert.Equal(t, 3, countKind(events, EventSearchProgress))
	assert.Equal(t, 1, countKind(events, EventSearchEnd))
}

func TestSessionSearchCancelled(t *testing.T) {
	s := NewSession(mustParse(t, labExample), nil)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.SearchLoops(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, StateIdle, s.State())

	_, err = s.Patrol(ctx)
	var abort *AbortError
	assert.ErrorAs(t, err, &abort)
}

func TestSessionClosedRejectsWork(t *testing.T) {
	s := NewSession(mustParse(t, labExample), nil)
	s.Close()
	s.Close()

	assert.Equal(t, StateClosed, s.State())
	_, err := s.Patrol(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = s.SearchLoops(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSessionRejectsConcurrentWork(t *testing.T) {
	s := NewSession(mustParse(t, labExample), nil)
	defer s.Close()

	require.NoError(t, s.begin(StateSearching))
	_, err := s.Patrol(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "busy")
	s.finish()
	assert.Equal(t, StateIdle, s.State())
}
