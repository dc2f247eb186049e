package dfa

import (
	"hash/fnv"
	"sort"

	"github.com/coregx/corerx/ccl"
	"github.com/coregx/corerx/nfa"
)

// StateID identifies a state within a DFA.
type StateID uint32

// InvalidState marks the absence of a state reference.
const InvalidState StateID = 0xFFFFFFFF

// TagGroupID indexes one of a DFA state's live capture-register groups.
// It is positional, not a stable global id: the same TagGroupID value
// means different things in different states.
type TagGroupID uint16

// noReg marks a tag operation that only copies a group forward without
// stamping a register, mirroring the original construction's {-1, 0}
// placeholder tag.
const noReg int8 = -1

// TagOp describes one step of updating a state's tag groups when crossing
// a transition: copy the register array from group TOld into group TNew,
// then, if Reg is non-negative, stamp the current input offset into
// register Reg of the new group.
type TagOp struct {
	TOld, TNew TagGroupID
	Reg        int8
}

// DStateElem pairs an NFA state with the tag group its registers are
// tracked in, within one DFA state's subset.
type DStateElem struct {
	NFAState nfa.StateID
	TID      TagGroupID
}

// DState is the (unordered, by construction) set of NFA-state/tag-group
// pairs a single DFA state represents. Canonicalize sorts it into the
// stable key form used for cache lookups and structural comparison.
type DState []DStateElem

// Canonicalize returns a sorted copy of d suitable for hashing and
// equality comparison. The order elements were produced in during subset
// construction is otherwise insignificant.
func (d DState) Canonicalize() DState {
	out := make(DState, len(d))
	copy(out, d)
	sort.Slice(out, func(i, j int) bool {
		if out[i].NFAState != out[j].NFAState {
			return out[i].NFAState < out[j].NFAState
		}
		return out[i].TID < out[j].TID
	})
	return out
}

// StateKey is a hash of a canonicalized DState, used to deduplicate
// structurally-equal DFA states during subset construction.
type StateKey uint64

// ComputeStateKey hashes a canonicalized DState with FNV-1a.
func ComputeStateKey(d DState) StateKey {
	h := fnv.New64a()
	var buf [8]byte
	for _, e := range d {
		putUint32(buf[0:4], uint32(e.NFAState))
		putUint32(buf[4:8], uint32(e.TID))
		h.Write(buf[:])
	}
	return StateKey(h.Sum64())
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// Transition is one outgoing edge of a DFA state: consuming a character
// matched by CCL moves to Succ, applying Ops to update tag groups.
type Transition struct {
	CCL  ccl.CCL
	Succ StateID
	Ops  []TagOp
}

// Accept records that this DFA state accepts alternative ID once
// FinalAssertions are satisfied at the current position, applying
// FinalOps to stamp any trailing capture boundary (e.g. the implicit
// close of group 0) before the registers in tag group TID are read out.
type Accept struct {
	FinalAssertions ccl.Assertion
	ID              nfa.AcceptID
	TID             TagGroupID
	FinalOps        []TagOp
}

// State is a single computed DFA state.
type State struct {
	Trans   []Transition
	Accepts []Accept

	// NumGroups is the number of tag groups (len of the DState this state
	// was built from) live simultaneously while in this state.
	NumGroups int
}
