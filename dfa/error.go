// Package dfa builds a deterministic automaton from a tagged NFA via
// parallel subset construction, and executes it either as a minimal
// matcher (no captures, three-way advance contract) or a standard matcher
// (tagged submatches via double-buffered register groups).
package dfa

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by construction and matching.
var (
	// ErrStateInProgress indicates a state was requested recursively while
	// its own subset-construction step was still executing — a
	// construction bug, since the DFA graph's recursion is meant to bottom
	// out at the transition-collection step, never loop back into a state
	// still being computed.
	ErrStateInProgress = errors.New("dfa: state requested while still being computed")

	// ErrCloneUnsupported indicates Clone was called on a StandardMatcher,
	// which carries capture state that cannot be cheaply duplicated.
	ErrCloneUnsupported = errors.New("dfa: standard matcher does not support Clone")
)

// ConstructionError wraps a failure encountered while computing a
// particular DFA state.
type ConstructionError struct {
	State StateID
	Err   error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("dfa: state %d: %v", e.State, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }
