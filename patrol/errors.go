package patrol

import (
	"errors"
	"fmt"
)

// PatrolError is the base error type for all patrol errors.
type PatrolError struct {
	Message string
	Cause   error
}

func (e *PatrolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PatrolError) Unwrap() error {
	return e.Cause
}

// MalformedGridError reports input that does not describe a rectangular grid
// of known cell characters.
type MalformedGridError struct {
	PatrolError
	Line int // 1-based input line, 0 when not tied to a line
}

func (e *MalformedGridError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed grid (line %d): %s", e.Line, e.Message)
	}
	return "malformed grid: " + e.PatrolError.Error()
}

// StartMarkerError reports a grid with no start marker or more than one.
type StartMarkerError struct {
	PatrolError
	Found []Coord
}

func (e *StartMarkerError) Error() string {
	return fmt.Sprintf("start marker: %s (found %d)", e.Message, len(e.Found))
}

// InvalidPlacementError reports a trial obstacle that cannot be placed.
type InvalidPlacementError struct {
	PatrolError
	Cell Coord
}

func (e *InvalidPlacementError) Error() string {
	return fmt.Sprintf("invalid placement at %s: %s", e.Cell, e.Message)
}

// CycleError is returned by RunUntilExit when the baseline layout traps the
// agent and it never reaches the boundary.
type CycleError struct {
	PatrolError
	State State // first repeated state
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("agent never exits: state %s repeats", e.State)
}

// AbortError wraps context cancellation during a search or session.
type AbortError struct{ PatrolError }

// ConfigurationError reports invalid configuration values.
type ConfigurationError struct{ PatrolError }

// ErrSessionClosed is returned by work submitted to a closed session.
var ErrSessionClosed = errors.New("session is closed")

// IsInputError reports whether err is a precondition failure on the input
// grid, as opposed to a cancellation or configuration problem.
func IsInputError(err error) bool {
	if err == nil {
		return false
	}
	var (
		malformed *MalformedGridError
		start     *StartMarkerError
		placement *InvalidPlacementError
	)
	return errors.As(err, &malformed) || errors.As(err, &start) || errors.As(err, &placement)
}
