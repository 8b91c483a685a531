package pipeline

import (
	"fmt"
	"slices"
)

// State is a run's position in the pipeline state machine
type State uint8

// Run states
const (
	StateIdle State = iota
	StateExtracting
	StateTransforming
	StateLoading
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIdle:         "idle",
	StateExtracting:   "extracting",
	StateTransforming: "transforming",
	StateLoading:      "loading",
	StateDone:         "done",
	StateFailed:       "failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Terminal reports whether no further transition is possible
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }

// transitions lists the legal moves; Failed is reachable from any non-idle,
// non-terminal state. Transforming and Loading alternate while rows stream.
var transitions = map[State][]State{
	StateIdle:         {StateExtracting},
	StateExtracting:   {StateTransforming, StateDone, StateFailed},
	StateTransforming: {StateLoading, StateDone, StateFailed},
	StateLoading:      {StateTransforming, StateDone, StateFailed},
}

// CanTransition reports whether from -> to is a legal move
func CanTransition(from, to State) bool {
	return slices.Contains(transitions[from], to)
}
