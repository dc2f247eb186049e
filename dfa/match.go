package dfa

import (
	"github.com/coregx/corerx/ccl"
	"github.com/coregx/corerx/internal/conv"
	"github.com/coregx/corerx/nfa"
)

// matchState carries the fields common to both matcher flavors: which DFA
// a match is running against, the current state, and enough history
// (offset, previous codepoint) to resolve word-boundary assertions and
// to report capture offsets.
type matchState struct {
	dfa      *DFA
	state    StateID
	offset   int
	previous rune
	hasPrev  bool
}

func newMatchState(d *DFA) matchState {
	return matchState{dfa: d, state: d.Initial()}
}

func (m *matchState) prevPtr() *rune {
	if !m.hasPrev {
		return nil
	}
	return &m.previous
}

func (m *matchState) advanceCommon(cp rune) {
	m.offset++
	m.previous = cp
	m.hasPrev = true
}

// MinimalMatcher runs a DFA without tracking captures. It implements the
// three-way advance contract: Advance returns a positive accept ID the
// instant a transition lands on an accepting state, -1 when a transition
// succeeds but the new state isn't (yet) accepting, and 0 when no
// transition consumes the input symbol and the current state does not
// accept either. When no transition consumes the symbol but the current
// state accepts, its accept ID is returned and nothing is consumed.
type MinimalMatcher struct {
	ms matchState
}

// NewMinimalMatcher creates a matcher positioned at d's initial state.
func NewMinimalMatcher(d *DFA) *MinimalMatcher {
	return &MinimalMatcher{ms: newMatchState(d)}
}

// Clone returns an independent copy of the matcher, positioned identically
// to the receiver. Unlike StandardMatcher, this is cheap: there is no
// capture state to duplicate.
func (m *MinimalMatcher) Clone() *MinimalMatcher {
	c := *m
	return &c
}

// Advance feeds one codepoint to the matcher under the given externally
// -known assertion bits (e.g. AssertionBOL/AssertionEOD from stream
// position). See the type doc for the three-way return contract.
func (m *MinimalMatcher) Advance(cp rune, assertions ccl.Assertion) (nfa.AcceptID, error) {
	state, err := m.ms.dfa.State(m.ms.state)
	if err != nil {
		return 0, err
	}

	for _, tr := range state.Trans {
		if !tr.CCL.Matches(cp, m.ms.prevPtr(), assertions) {
			continue
		}

		succID := tr.Succ
		succ, err := m.ms.dfa.State(succID)
		if err != nil {
			return 0, err
		}

		m.ms.advanceCommon(cp)
		m.ms.dfa.cfg.Tracer.Step(m.ms.state, cp, succID)
		m.ms.state = succID

		if len(succ.Accepts) > 0 {
			return succ.Accepts[0].ID, nil
		}
		return -1, nil
	}

	// No transition: check whether the state we failed to leave was
	// itself accepting.
	if len(state.Accepts) > 0 {
		return state.Accepts[0].ID, nil
	}
	return 0, nil
}

// Offset returns how many codepoints have been consumed so far.
func (m *MinimalMatcher) Offset() int { return m.ms.offset }

// Done checks whether the matcher's current state accepts under the
// given (end-of-input) assertion bits, without consuming anything. This
// matcher tracks no capture registers, so left-most-longest
// disambiguation over capture group 0 (see StandardMatcher.Done) can't
// apply here: every live candidate in a single run necessarily shares
// the same start (the run's fixed starting offset) and the same end
// (the current offset, identical for every accept checked in this same
// call) — there is nothing left to compare but accept-id priority.
func (m *MinimalMatcher) Done(cp rune, assertions ccl.Assertion) (nfa.AcceptID, bool, error) {
	state, err := m.ms.dfa.State(m.ms.state)
	if err != nil {
		return 0, false, err
	}
	var best *Accept
	for i := range state.Accepts {
		acc := &state.Accepts[i]
		if !ccl.MatchAssertions(cp, m.ms.prevPtr(), assertions, acc.FinalAssertions) {
			continue
		}
		if best == nil || acc.ID < best.ID {
			best = acc
		}
	}
	if best == nil {
		return 0, false, nil
	}
	return best.ID, true, nil
}

// StandardMatcher runs a DFA while tracking tagged captures via
// double-buffered tag-group register arrays: each Advance call computes
// the next generation of groups from the previous one (copy then stamp),
// so the matcher never mutates a register array another live group still
// references.
type StandardMatcher struct {
	ms    matchState
	groups [][]int32 // indexed by TagGroupID for the current state
}

// NewStandardMatcher creates a matcher positioned at d's initial state,
// with tag group 0 seeded from d.InitialOps().
func NewStandardMatcher(d *DFA) *StandardMatcher {
	m := &StandardMatcher{ms: newMatchState(d)}
	regSize := int(d.MaxTag()) + 1
	group := make([]int32, regSize)
	for i := range group {
		group[i] = -1
	}
	for _, op := range d.InitialOps() {
		if op.Reg >= 0 {
			group[op.Reg] = 0
		}
	}
	m.groups = [][]int32{group}
	return m
}

// Clone is unsupported: the original implementation raises an internal
// error on the same operation for the standard matcher, since ping-ponging
// tag buffers in place make a cheap structural copy unsafe to share.
func (m *StandardMatcher) Clone() (*StandardMatcher, error) {
	return nil, ErrCloneUnsupported
}

func (m *StandardMatcher) zeroGroup() []int32 {
	g := make([]int32, int(m.ms.dfa.MaxTag())+1)
	for i := range g {
		g[i] = -1
	}
	return g
}

func (m *StandardMatcher) applyOps(ops []TagOp, numGroups int) [][]int32 {
	next := make([][]int32, numGroups)
	for _, op := range ops {
		var src []int32
		if int(op.TOld) < len(m.groups) && m.groups[op.TOld] != nil {
			src = append([]int32(nil), m.groups[op.TOld]...)
		} else {
			src = m.zeroGroup()
		}
		if op.Reg >= 0 {
			src[op.Reg] = conv.IntToInt32(m.ms.offset)
		}
		if int(op.TNew) < len(next) {
			next[op.TNew] = src
		}
	}
	return next
}

// Advance feeds one codepoint to the matcher, updating tag groups along
// whichever transition matches. Reports whether a transition was found.
func (m *StandardMatcher) Advance(cp rune, assertions ccl.Assertion) (bool, error) {
	state, err := m.ms.dfa.State(m.ms.state)
	if err != nil {
		return false, err
	}

	for _, tr := range state.Trans {
		if !tr.CCL.Matches(cp, m.ms.prevPtr(), assertions) {
			continue
		}
		succ, err := m.ms.dfa.State(tr.Succ)
		if err != nil {
			return false, err
		}

		nextGroups := m.applyOps(tr.Ops, succ.NumGroups)

		m.ms.advanceCommon(cp)
		m.ms.dfa.cfg.Tracer.Step(m.ms.state, cp, tr.Succ)
		m.ms.state = tr.Succ
		m.groups = nextGroups
		return true, nil
	}
	return false, nil
}

// Match is one completed match: which alternative accepted and the
// capture register array (register 0/1 are the overall match's start/end;
// register 2g/2g+1 are capture group g's start/end; -1 marks an unset
// register).
type Match struct {
	ID      nfa.AcceptID
	Offsets []int32
}

// resolveTags computes acc's final capture register array: a copy of its
// tag group with FinalOps applied to stamp any trailing boundary (e.g.
// the implicit close of group 0) at the current offset.
func (m *StandardMatcher) resolveTags(acc *Accept) []int32 {
	var tags []int32
	if int(acc.TID) < len(m.groups) && m.groups[acc.TID] != nil {
		tags = append([]int32(nil), m.groups[acc.TID]...)
	} else {
		tags = m.zeroGroup()
	}
	for _, op := range acc.FinalOps {
		if op.Reg >= 0 {
			tags[op.Reg] = conv.IntToInt32(m.ms.offset)
		}
	}
	return tags
}

// preferTags reports whether candidate a should win over b under
// left-most-longest disambiguation of capture group 0: the smaller start
// offset wins, ties broken by the larger end offset. Unset (-1)
// registers never win a tie; they only arise if FinalOps never stamped
// group 0, which shouldn't happen for a real accept.
func preferTags(a, b []int32) bool {
	if len(a) < 2 || len(b) < 2 {
		return false
	}
	if a[0] < 0 || b[0] < 0 {
		return false
	}
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] > b[1]
}

// Done checks whether the matcher's current state accepts, given the
// assertion bits known to hold at the current (end) position. Among
// several simultaneously-satisfied accepts sharing the same alternative
// ID, the winner is picked by left-most-longest over capture group 0
// (smaller start, then larger end); a differing ID is decided by
// priority, lower wins, matching how alternatives are assigned IDs
// during construction.
func (m *StandardMatcher) Done(cp rune, assertions ccl.Assertion) (Match, bool, error) {
	state, err := m.ms.dfa.State(m.ms.state)
	if err != nil {
		return Match{}, false, err
	}

	var best *Accept
	var bestTags []int32
	for i := range state.Accepts {
		acc := &state.Accepts[i]
		if !ccl.MatchAssertions(cp, m.ms.prevPtr(), assertions, acc.FinalAssertions) {
			continue
		}

		tags := m.resolveTags(acc)
		switch {
		case best == nil:
			best, bestTags = acc, tags
		case acc.ID != best.ID:
			if acc.ID < best.ID {
				best, bestTags = acc, tags
			}
		case preferTags(tags, bestTags):
			best, bestTags = acc, tags
		}
	}
	if best == nil {
		return Match{}, false, nil
	}

	return Match{ID: best.ID, Offsets: bestTags}, true, nil
}

// Offset returns how many codepoints have been consumed so far.
func (m *StandardMatcher) Offset() int { return m.ms.offset }
