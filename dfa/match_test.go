package dfa

import (
	"testing"

	"github.com/coregx/corerx/ccl"
)

// TestStandardMatcherDonePrefersSmallerStart builds a single DFA state by
// hand with two simultaneously-viable accepts sharing one accept id but
// different tag groups, the way subset construction can merge two live
// NFA threads that both reach acceptance under the same alternative. The
// thread with the smaller capture-0 start must win, regardless of which
// one appears first in State.Accepts.
func TestStandardMatcherDonePrefersSmallerStart(t *testing.T) {
	state := &State{
		NumGroups: 2,
		Accepts: []Accept{
			{ID: 5, TID: 0, FinalOps: []TagOp{{TOld: 0, TNew: 0, Reg: 1}}},
			{ID: 5, TID: 1, FinalOps: []TagOp{{TOld: 1, TNew: 1, Reg: 1}}},
		},
	}
	d := &DFA{
		maxTag: 1,
		states: []*State{state},
		status: []status{ready},
		cfg:    DefaultConfig(),
	}

	sm := NewStandardMatcher(d)
	// TID 0 started later (offset 2) than TID 1 (offset 0); both groups
	// leave register 1 (the close) unset until FinalOps stamps it below.
	sm.groups = [][]int32{
		{2, -1},
		{0, -1},
	}
	sm.ms.offset = 5

	match, ok, err := sm.Done(0, ccl.AssertionEOD)
	if err != nil {
		t.Fatalf("done: %v", err)
	}
	if !ok {
		t.Fatalf("expected a completed match")
	}
	if match.ID != 5 {
		t.Fatalf("expected accept id 5, got %d", match.ID)
	}
	if match.Offsets[0] != 0 || match.Offsets[1] != 5 {
		t.Fatalf("expected the smaller-start candidate [0,5), got [%d,%d)",
			match.Offsets[0], match.Offsets[1])
	}
}

// TestStandardMatcherDonePrefersLargerEnd covers the tie-break half: two
// same-id accepts with equal starts but different already-stamped ends
// must resolve to the larger end.
func TestStandardMatcherDonePrefersLargerEnd(t *testing.T) {
	state := &State{
		NumGroups: 2,
		Accepts: []Accept{
			{ID: 5, TID: 0, FinalOps: nil},
			{ID: 5, TID: 1, FinalOps: nil},
		},
	}
	d := &DFA{
		maxTag: 1,
		states: []*State{state},
		status: []status{ready},
		cfg:    DefaultConfig(),
	}

	sm := NewStandardMatcher(d)
	sm.groups = [][]int32{
		{0, 3}, // same start, shorter end
		{0, 7}, // same start, longer end
	}
	sm.ms.offset = 9

	match, ok, err := sm.Done(0, ccl.AssertionEOD)
	if err != nil {
		t.Fatalf("done: %v", err)
	}
	if !ok {
		t.Fatalf("expected a completed match")
	}
	if match.Offsets[0] != 0 || match.Offsets[1] != 7 {
		t.Fatalf("expected the larger-end candidate [0,7), got [%d,%d)",
			match.Offsets[0], match.Offsets[1])
	}
}

// TestStandardMatcherDoneDifferentIDPrefersLowerPriority confirms accepts
// with distinct ids still fall back to plain id-priority ordering,
// independent of whichever tags their groups happen to carry.
func TestStandardMatcherDoneDifferentIDPrefersLowerPriority(t *testing.T) {
	state := &State{
		NumGroups: 2,
		Accepts: []Accept{
			{ID: 9, TID: 0},
			{ID: 2, TID: 1},
		},
	}
	d := &DFA{
		maxTag: 1,
		states: []*State{state},
		status: []status{ready},
		cfg:    DefaultConfig(),
	}

	sm := NewStandardMatcher(d)
	sm.groups = [][]int32{
		{0, 1},
		{5, 9},
	}
	sm.ms.offset = 9

	match, ok, err := sm.Done(0, ccl.AssertionEOD)
	if err != nil {
		t.Fatalf("done: %v", err)
	}
	if !ok {
		t.Fatalf("expected a completed match")
	}
	if match.ID != 2 {
		t.Fatalf("expected the lower accept id (2) to win, got %d", match.ID)
	}
}
