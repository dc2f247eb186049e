package nfa

import (
	"github.com/coregx/corerx/ccl"
	"github.com/coregx/corerx/internal/sparse"
)

// Empty returns a zero-width fragment: a single state serving as both its
// own initial and final state. Concatenating anything with Empty is a
// no-op other than carrying tags across the join.
func (c *Context) Empty() *NFA {
	s := c.newState()
	return &NFA{Ctx: c, Initial: s.ID(), Final: s.ID()}
}

// FromCCL returns a fragment that consumes one character matched by cc.
func (c *Context) FromCCL(cc ccl.CCL) *NFA {
	return c.concatVia(c.Empty(), c.Empty(), cc)
}

// Concat returns a fragment equivalent to nfa1 followed by nfa2, joined by
// an epsilon transition. nfa2's InitialTags move onto that transition.
func (c *Context) Concat(nfa1, nfa2 *NFA) (*NFA, error) {
	if nfa1.Ctx != c || nfa2.Ctx != c {
		return nil, ErrForeignNFA
	}
	return c.concatVia(nfa1, nfa2, ccl.CCL{}), nil
}

// concatVia splices nfa1 and nfa2 together through a transition consuming
// cc (or, if cc is the zero value, an epsilon transition), carrying
// nfa2.InitialTags on that transition. nfa2 is consumed: only nfa1's
// (extended) identity survives.
func (c *Context) concatVia(nfa1, nfa2 *NFA, cc ccl.CCL) *NFA {
	if cc.IsZero() {
		cc = c.Group.Epsilon()
	}
	final1 := c.State(nfa1.Final)
	final1.Trans = append(final1.Trans, Transition{CCL: cc, Target: nfa2.Initial, Tags: nfa2.InitialTags})
	nfa1.Final = nfa2.Final
	return nfa1
}

// Alternative returns a fragment matching nfa1 or nfa2. Each operand's
// InitialTags is carried on the epsilon transition leading into it.
func (c *Context) Alternative(nfa1, nfa2 *NFA) (*NFA, error) {
	if nfa1.Ctx != c || nfa2.Ctx != c {
		return nil, ErrForeignNFA
	}

	eps := c.Group.Epsilon()

	entry := c.newState()
	entry.Trans = append(entry.Trans,
		Transition{CCL: eps, Target: nfa1.Initial, Tags: nfa1.InitialTags},
		Transition{CCL: eps, Target: nfa2.Initial, Tags: nfa2.InitialTags},
	)

	exit := c.newState()
	f1, f2 := c.State(nfa1.Final), c.State(nfa2.Final)
	f1.Trans = append(f1.Trans, Transition{CCL: eps, Target: exit.ID()})
	if nfa1.Final != nfa2.Final {
		f2.Trans = append(f2.Trans, Transition{CCL: eps, Target: exit.ID()})
	}

	return &NFA{Ctx: c, Initial: entry.ID(), Final: exit.ID()}, nil
}

// Iterate returns a fragment matching nfa repeated between min and max
// times, inclusive. max == -1 means unbounded. Bounded and optional repeats
// are expanded by deep-copying nfa's template once per repetition (rather
// than sharing a single sub-fragment via a counter), so that tags recorded
// by distinct repetitions don't alias each other; only the unbounded tail,
// when present, closes over a single copy with an epsilon back-edge.
func (c *Context) Iterate(in *NFA, min, max int) (*NFA, error) {
	if max < min && max != -1 {
		return nil, ErrInvalidRepeat
	}
	if min < 0 {
		min = 0
	}

	templ := deepCopy(in)

	if min == 0 && max == 0 {
		return c.Empty(), nil
	}

	var all *NFA
	if min > 1 {
		all = in
		for i := 0; i < min-1; i++ {
			all = c.concatVia(all, deepCopy(templ), ccl.CCL{})
		}
	} else if min == 0 {
		all = nil
	} else {
		all = in
	}

	if max >= 0 {
		optional, err := c.Alternative(deepCopy(templ), c.Empty())
		if err != nil {
			return nil, err
		}
		for i := max - min; i > 0; i-- {
			if all != nil {
				all = c.concatVia(all, deepCopy(optional), ccl.CCL{})
			} else {
				all = optional
			}
		}
	} else {
		closure := deepCopy(templ)
		final := c.State(closure.Final)
		final.Trans = append(final.Trans, Transition{CCL: c.Group.Epsilon(), Target: closure.Initial})
		if all != nil {
			star, err := c.Alternative(closure, c.Empty())
			if err != nil {
				return nil, err
			}
			all = c.concatVia(all, star, ccl.CCL{})
		} else {
			all = closure
		}
	}

	if min == 0 {
		opt, err := c.Alternative(all, c.Empty())
		if err != nil {
			return nil, err
		}
		all = opt
	}

	return all, nil
}

// SetAccept marks nfa's final state as accepting alternative id. A fragment
// may accumulate more than one accept record (e.g. after Alternative) when
// several alternatives share a final state.
func (c *Context) SetAccept(in *NFA, id AcceptID) *NFA {
	final := c.State(in.Final)
	final.Accepts = append(final.Accepts, Accept{ID: id})
	if id > c.MaxAccept {
		c.MaxAccept = id
	}
	return in
}

// SetCapture wraps in so that entering it records the opening boundary of
// capture group, and leaving it records the closing boundary. Groups at or
// beyond the context's NMatch are accepted but never tagged (they are
// "uninteresting": the caller asked for fewer captures than the pattern
// has groups).
func (c *Context) SetCapture(in *NFA, group uint8) *NFA {
	if int(group) >= int(c.NMatch) {
		return in
	}

	open, close := CaptureReg(group)
	if close > c.MaxTag {
		c.MaxTag = close
	}

	in.InitialTags = in.InitialTags.Join(TagSet{{Reg: open, Priority: tagOpenPriority}})

	tail := c.Empty()
	tail.InitialTags = TagSet{{Reg: close, Priority: tagClosePriority}}

	return c.concatVia(in, tail, ccl.CCL{})
}

// RemoveEpsilons eliminates every epsilon transition in the context
// reachable from nfa, folding the tags and assertions they carried into
// the surviving non-epsilon transitions and accept records. After this
// call nfa's states form the basis for parallel subset construction: every
// transition consumes exactly one character class.
func (c *Context) RemoveEpsilons(in *NFA) {
	for _, state := range c.states {
		var ntrans []Transition
		for _, tr := range state.Trans {
			if !tr.CCL.IsEpsilon() {
				ntrans = append(ntrans, tr)
				continue
			}
			closure := sparse.New(uint32(len(c.states)))
			tags := tr.Tags.Clone()
			succ := c.State(tr.Target)
			c.followEpsilons(succ, state.id, closure, &ntrans, &tags, &state.Accepts, tr.CCL.Assertions())
			if tags != nil && state.id == in.Initial {
				in.InitialTags = in.InitialTags.Join(tags)
			}
		}
		state.Trans = ntrans
	}
}

// followEpsilons recursively collects the non-epsilon transitions and
// accept records reachable from state by epsilon transitions alone,
// folding tags and assertions along the way. ownerID identifies the state
// this traversal started from, so that an epsilon cycle leading back to it
// doesn't double-count its own accept records.
func (c *Context) followEpsilons(state *State, ownerID StateID, closure *sparse.Set, ntrans *[]Transition, tags *TagSet, accepts *[]Accept, assertions ccl.Assertion) {
	if closure.Contains(uint32(state.id)) {
		return
	}
	closure.Insert(uint32(state.id))

	if len(state.Accepts) > 0 && state.id != ownerID {
		for _, acc := range state.Accepts {
			var ntags TagSet
			if acc.Tags != nil || *tags != nil {
				ntags = acc.Tags.Clone()
				ntags = ntags.Join(*tags)
			}
			*accepts = append(*accepts, Accept{Assertions: acc.Assertions | assertions, ID: acc.ID, Tags: ntags})
		}
	}

	for _, tr := range state.Trans {
		if !tr.CCL.IsEpsilon() {
			cc := tr.CCL
			if assertions != 0 {
				cc = c.Group.AddAssertions(cc, assertions)
			}
			if tr.Tags != nil {
				*tags = (*tags).Join(tr.Tags)
			}
			*ntrans = append(*ntrans, Transition{CCL: cc, Target: tr.Target, Tags: (*tags).Clone()})
			continue
		}

		ntags := (*tags).Clone()
		if tr.Tags != nil {
			ntags = ntags.Join(tr.Tags)
		}
		succ := c.State(tr.Target)
		c.followEpsilons(succ, ownerID, closure, ntrans, &ntags, accepts, assertions|tr.CCL.Assertions())
	}
}
