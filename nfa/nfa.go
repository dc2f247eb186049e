package nfa

import "github.com/coregx/corerx/ccl"

// StateID identifies a state within the Context that owns it.
type StateID uint32

// InvalidState marks the absence of a state reference.
const InvalidState StateID = 0xFFFFFFFF

// AcceptID identifies which alternative of a combined pattern matched. 0
// means "no accept"; dfa.MinimalMatcher.Advance additionally returns -1
// for "no accept yet, more input may produce one".
type AcceptID int32

// TagElem is a single (register, priority) pair. Tags mark capture-group
// boundaries: a transition or accept record carrying a tag instructs the
// matcher to snapshot the current input offset into the tag's register.
// When several simultaneously-reachable transitions would set the same
// register to different offsets, the one with the larger Priority wins.
type TagElem struct {
	Reg      int8
	Priority int8
}

// TagSet is an unordered collection of tags, deduplicated by register with
// the higher-priority entry kept on conflict.
type TagSet []TagElem

// Join merges other into ts, keeping the higher-priority entry for any
// register present in both. Returns the (possibly reallocated) result.
func (ts TagSet) Join(other TagSet) TagSet {
	for _, o := range other {
		found := false
		for i, t := range ts {
			if t.Reg == o.Reg {
				found = true
				if o.Priority > t.Priority {
					ts[i] = o
				}
				break
			}
		}
		if !found {
			ts = append(ts, o)
		}
	}
	return ts
}

// Clone returns an independent copy of ts.
func (ts TagSet) Clone() TagSet {
	if ts == nil {
		return nil
	}
	out := make(TagSet, len(ts))
	copy(out, ts)
	return out
}

// CaptureReg computes the pair of tag registers marking the open and close
// boundary of capture group group: open is always even, close always odd.
func CaptureReg(group uint8) (open, close int8) {
	return int8(group * 2), int8(group*2 + 1)
}

// Open/close tag priorities. These intentionally differ so that, when a
// zero-width iteration (`x*`) re-enters a capture group without consuming
// input, the boundary recorded on the transition that closes the group
// outranks one that would re-open it at the same offset.
const (
	tagOpenPriority  int8 = -5
	tagClosePriority int8 = 5
)

// Transition is a single outgoing edge: consume a character matched by CCL
// and move to Target, applying Tags.
type Transition struct {
	CCL    ccl.CCL
	Target StateID
	Tags   TagSet
}

// Accept records that reaching this state with Assertions satisfied
// completes alternative ID, applying Tags as the final capture snapshot.
type Accept struct {
	Assertions ccl.Assertion
	ID         AcceptID
	Tags       TagSet
}

// State is a single NFA state: zero or more outgoing transitions, plus
// zero or more accept records if the state is (also) accepting.
type State struct {
	id      StateID
	Trans   []Transition
	Accepts []Accept
}

// ID returns the state's identifier within its owning Context.
func (s *State) ID() StateID { return s.id }

// Context owns every state and CCL created for a family of NFAs that are
// combined with each other. NFAs from different contexts cannot be
// combined.
type Context struct {
	Group      *ccl.Group
	NMatch     int8 // max number of captures the caller wants tagged
	MaxTag     int8
	MaxCapture uint8
	MaxAccept  AcceptID

	states []*State
}

// NewContext creates an empty Context. nmatch bounds how many capture
// groups SetCapture will actually tag; groups at or beyond nmatch are
// accepted syntactically but never produce tags (mirrors the "uninteresting
// group" skip of the construction this package is grounded on).
func NewContext(nmatch int8) *Context {
	if nmatch < 0 {
		nmatch = 127
	}
	return &Context{
		Group:  ccl.NewGroup(),
		NMatch: nmatch,
		MaxTag: -1,
	}
}

func (c *Context) newState() *State {
	s := &State{id: StateID(len(c.states))}
	c.states = append(c.states, s)
	return s
}

// State returns the state with the given id. Panics if id is out of range.
func (c *Context) State(id StateID) *State {
	return c.states[id]
}

// NumStates returns how many states the context currently owns.
func (c *Context) NumStates() int {
	return len(c.states)
}

// NFA is a fragment with a single initial and single final state, plus
// tags that apply to whatever enters the fragment at Initial.
type NFA struct {
	Ctx         *Context
	Initial     StateID
	Final       StateID
	InitialTags TagSet
}

// deepCopy clones every state reachable from nfa's initial and final
// states into fresh states in the same context, preserving internal
// structure (including cycles). Used by Iterate to stamp out independent
// copies of a sub-pattern for bounded repetition counts.
func deepCopy(nfa *NFA) *NFA {
	copies := make(map[StateID]StateID)
	var copyState func(id StateID) StateID
	copyState = func(id StateID) StateID {
		if nid, ok := copies[id]; ok {
			return nid
		}
		ns := nfa.Ctx.newState()
		copies[id] = ns.ID()

		orig := nfa.Ctx.State(id)
		if orig.Accepts != nil {
			ns.Accepts = make([]Accept, len(orig.Accepts))
			for i, a := range orig.Accepts {
				ns.Accepts[i] = Accept{Assertions: a.Assertions, ID: a.ID, Tags: a.Tags.Clone()}
			}
		}
		for _, t := range orig.Trans {
			nsucc := copyState(t.Target)
			ns.Trans = append(ns.Trans, Transition{CCL: t.CCL, Target: nsucc, Tags: t.Tags.Clone()})
		}
		return ns.ID()
	}

	ninitial := copyState(nfa.Initial)
	nfinal := copyState(nfa.Final)
	return &NFA{Ctx: nfa.Ctx, Initial: ninitial, Final: nfinal, InitialTags: nfa.InitialTags.Clone()}
}
