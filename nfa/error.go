// Package nfa builds tagged non-deterministic finite automata over
// character classes from the ccl package.
//
// An NFA is constructed by the small algebra of Empty, FromCCL, Concat,
// Alternative, and Iterate, grounded directly on the Thompson-style
// construction of the original regex engine this package descends from.
// Capture group boundaries are recorded as tags (register/priority pairs)
// carried on transitions rather than as separate state kinds, so that
// RemoveEpsilons can fold them into the surviving non-epsilon transitions
// during epsilon elimination.
package nfa

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Context and builder operations.
var (
	// ErrForeignNFA indicates an operation combined two NFAs built from
	// different contexts.
	ErrForeignNFA = errors.New("nfa: operands belong to different contexts")

	// ErrInvalidRepeat indicates an Iterate call with max < min (and
	// max != -1, the unbounded marker).
	ErrInvalidRepeat = errors.New("nfa: max repeat count less than min")
)

// StateError wraps a failure tied to a specific state.
type StateError struct {
	State StateID
	Msg   string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("nfa: state %d: %s", e.State, e.Msg)
}
