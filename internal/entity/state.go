package entity

import (
	"fmt"
	"strings"
)

// State represents the lifecycle of a record as it moves through the
// pipeline. The main lifecycle runs uninitialized → index → details →
// created; error is terminal and reachable from any non-terminal state.
// Dashboard-style records follow the separate index → reverted lifecycle and
// never pass through details.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateIndex         State = "index"
	StateDetails       State = "details"
	StateCreated       State = "created"
	StateError         State = "error"
	StateReverted      State = "reverted"
)

var allStates = []State{
	StateUninitialized,
	StateIndex,
	StateDetails,
	StateCreated,
	StateError,
	StateReverted,
}

// stateRank orders the forward lifecycle. Terminal states that sit outside
// the chain (error, reverted) are not ranked.
var stateRank = map[State]int{
	StateUninitialized: 0,
	StateIndex:         1,
	StateDetails:       2,
	StateCreated:       3,
}

// AllStates returns the ordered list of known states.
func AllStates() []State {
	cp := make([]State, len(allStates))
	copy(cp, allStates)
	return cp
}

// ParseState converts a string into a known State.
func ParseState(value string) (State, bool) {
	normalized := State(strings.ToLower(strings.TrimSpace(value)))
	for _, s := range allStates {
		if s == normalized {
			return s, true
		}
	}
	return "", false
}

// IsTerminal reports whether no further transition is legal from s.
func (s State) IsTerminal() bool {
	switch s {
	case StateCreated, StateError, StateReverted:
		return true
	default:
		return false
	}
}

// CanAdvance reports whether moving from s to next is a legal forward step in
// the main lifecycle.
func CanAdvance(s, next State) bool {
	from, ok := stateRank[s]
	if !ok {
		return false
	}
	to, ok := stateRank[next]
	if !ok {
		return false
	}
	return to == from+1
}

// Advance moves the record one step forward through the main lifecycle.
// Skipping steps or moving backward is rejected.
func (c *Core) Advance(next State) error {
	if !CanAdvance(c.State, next) {
		return fmt.Errorf("illegal state transition %s -> %s", c.State, next)
	}
	c.State = next
	return nil
}

// MarkError moves the record into the terminal error state, retaining the
// triggering message for operator inspection. Records already in a terminal
// state keep it.
func (c *Core) MarkError(message string) {
	if c.State.IsTerminal() {
		return
	}
	c.State = StateError
	c.ErrorNote = strings.TrimSpace(message)
}

// MarkReverted completes the alternate dashboard lifecycle. Only records
// still at the index state can be reverted.
func (c *Core) MarkReverted() error {
	if c.State != StateIndex {
		return fmt.Errorf("cannot revert from state %s", c.State)
	}
	c.State = StateReverted
	return nil
}
