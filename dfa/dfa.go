package dfa

import (
	"github.com/coregx/corerx/ccl"
	"github.com/coregx/corerx/nfa"
)

// status tags the construction state of a reserved-but-maybe-not-yet-built
// DFA state. This is the Go idiom substituting for the original's sentinel
// pointer value used to break recursion while a state is mid-computation:
// a tagged variant is explicit where a pointer in a disguised third state
// is not.
type status uint8

const (
	unreserved status = iota
	inProgress
	ready
)

// DFA is a deterministic automaton built by parallel subset construction
// over a tagged NFA. States are identified by StateID and may be expanded
// eagerly at construction time or lazily on first visit, per Config.Lazy.
type DFA struct {
	ctx *nfa.Context
	src *nfa.NFA

	nmatch int8
	maxTag int8

	initial    StateID
	initialOps []TagOp

	status []status
	states []*State
	elems  []DState
	index  map[StateKey][]StateID // hash bucket; equality resolved by Canonicalize comparison

	cfg Config
}

// FromNFA builds a DFA whose initial state is the epsilon-free NFA n's
// initial state, tracking up to nmatch captures. n must already have had
// its epsilon transitions eliminated via ctx.RemoveEpsilons.
func FromNFA(ctx *nfa.Context, n *nfa.NFA, nmatch int8, cfg Config) (*DFA, error) {
	cfg = cfg.Validate()

	d := &DFA{
		ctx:    ctx,
		src:    n,
		nmatch: nmatch,
		maxTag: ctx.MaxTag,
		index:  make(map[StateKey][]StateID),
		cfg:    cfg,
	}

	initDState := DState{{NFAState: n.Initial, TID: 0}}
	d.initialOps = initOpsFor(n.InitialTags)
	d.initial = d.reserve(initDState)

	if !cfg.Lazy {
		if err := d.computeState(d.initial); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// initOpsFor turns an NFA fragment's InitialTags into the tag operations
// applied when seeding tag group 0 at the very start of matching (there is
// no prior group to copy from, so TOld is unused).
func initOpsFor(tags nfa.TagSet) []TagOp {
	if len(tags) == 0 {
		return nil
	}
	ops := make([]TagOp, len(tags))
	for i, t := range tags {
		ops[i] = TagOp{TOld: 0, TNew: 0, Reg: t.Reg}
	}
	return ops
}

// Initial returns the DFA's start state.
func (d *DFA) Initial() StateID { return d.initial }

// InitialOps returns the tag operations that seed tag group 0 before any
// input has been consumed.
func (d *DFA) InitialOps() []TagOp { return d.initialOps }

// MaxTag returns the highest tag register index used by any capture in
// the source pattern, or -1 if the pattern has no captures.
func (d *DFA) MaxTag() int8 { return d.maxTag }

// reserve allocates a fresh StateID for dstate, recording it in the
// dedup index, without computing its transitions yet.
func (d *DFA) reserve(dstate DState) StateID {
	id := StateID(len(d.states))
	d.states = append(d.states, nil)
	d.status = append(d.status, unreserved)
	d.elems = append(d.elems, dstate)

	key := ComputeStateKey(dstate.Canonicalize())
	d.index[key] = append(d.index[key], id)
	return id
}

// findOrReserve returns the id of a state structurally equal to dstate,
// reserving a new one if none exists yet.
func (d *DFA) findOrReserve(dstate DState) StateID {
	canon := dstate.Canonicalize()
	key := ComputeStateKey(canon)
	for _, id := range d.index[key] {
		if dstateEqual(d.elems[id].Canonicalize(), canon) {
			return id
		}
	}
	return d.reserve(dstate)
}

func dstateEqual(a, b DState) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// State returns the computed state for id, computing it on first use if
// the DFA was built lazily.
func (d *DFA) State(id StateID) (*State, error) {
	if d.status[id] == ready {
		return d.states[id], nil
	}
	if err := d.computeState(id); err != nil {
		return nil, err
	}
	return d.states[id], nil
}

// BuildEager forces every reachable state to be computed immediately,
// matching the original construction's recurse=1 code path. Safe to call
// on an already-eager DFA (a no-op once everything is ready).
func (d *DFA) BuildEager() error {
	for id := 0; id < len(d.states); id++ {
		if err := d.computeState(StateID(id)); err != nil {
			return err
		}
	}
	return nil
}

// computeState fills in d.states[id]'s transitions and accepts from
// d.elems[id], recursing into successor states when the DFA is configured
// for eager expansion.
func (d *DFA) computeState(id StateID) error {
	switch d.status[id] {
	case ready:
		return nil
	case inProgress:
		return &ConstructionError{State: id, Err: ErrStateInProgress}
	}
	d.status[id] = inProgress

	dstate := d.elems[id]
	var transitions []Transition

	for _, cc := range d.ctx.Group.All() {
		if cc.IsEmpty() || cc.IsEpsilon() {
			continue
		}
		succ, ops := d.transitionWith(dstate, cc)
		if len(succ) == 0 {
			continue
		}
		succID := d.findOrReserve(succ)
		transitions = append(transitions, Transition{CCL: cc, Succ: succID, Ops: ops})

		if !d.cfg.Lazy && d.status[succID] != inProgress {
			if err := d.computeState(succID); err != nil {
				return err
			}
		}
	}

	accepts := d.collectAccepts(dstate)

	st := &State{Trans: transitions, Accepts: accepts, NumGroups: len(dstate)}
	d.states[id] = st
	d.status[id] = ready
	d.cfg.Tracer.StateComputed(id, len(transitions), len(accepts))
	return nil
}

// collectAccepts gathers the accept records of every NFA state in dstate,
// rewriting their tags into the DFA-level TagOp form addressed by this
// state's own tag groups.
func (d *DFA) collectAccepts(dstate DState) []Accept {
	var accepts []Accept
	for _, elem := range dstate {
		nstate := d.ctx.State(elem.NFAState)
		for _, acc := range nstate.Accepts {
			var ops []TagOp
			for _, t := range acc.Tags {
				ops = append(ops, TagOp{TOld: elem.TID, TNew: elem.TID, Reg: t.Reg})
			}
			accepts = append(accepts, Accept{
				FinalAssertions: acc.Assertions,
				ID:              acc.ID,
				TID:             elem.TID,
				FinalOps:        ops,
			})
		}
	}
	return accepts
}

// nidTagOp mirrors the original's _nid_tag_op: a candidate tag operation
// discovered while scanning dstate's outgoing transitions for cc, still
// carrying the target NFA state id and tag priority needed to disambiguate
// against competing operations before it is accepted into the result.
type nidTagOp struct {
	nid      nfa.StateID
	told     TagGroupID
	tnew     TagGroupID
	reg      int8
	priority int8
}

// transitionWith computes the successor DState reachable from dstate by
// consuming a character in cc, plus the tag operations needed to get
// there. When several elements of dstate (or several transitions from the
// same element) reach the same NFA state, the tag group whose incoming
// tag has the highest priority wins; ties keep the last one scanned,
// matching the originating algorithm's linear scan with ">=".
func (d *DFA) transitionWith(dstate DState, cc ccl.CCL) (DState, []TagOp) {
	var candidates []nidTagOp
	var order []nfa.StateID
	seen := make(map[nfa.StateID]bool)

	var tid TagGroupID
	for _, elem := range dstate {
		nstate := d.ctx.State(elem.NFAState)
		for _, tr := range nstate.Trans {
			if !d.ctx.Group.DoIntersect(tr.CCL, cc) {
				continue
			}
			tid++
			if !seen[tr.Target] {
				seen[tr.Target] = true
				order = append(order, tr.Target)
			}
			if len(tr.Tags) > 0 {
				for _, tg := range tr.Tags {
					candidates = append(candidates, nidTagOp{
						nid: tr.Target, told: elem.TID, tnew: tid, reg: tg.Reg, priority: tg.Priority,
					})
				}
			} else {
				candidates = append(candidates, nidTagOp{
					nid: tr.Target, told: elem.TID, tnew: tid, reg: noReg, priority: 0,
				})
			}
		}
	}

	var ndstate DState
	var ops []TagOp
	for _, nid := range order {
		var maxPrio int8 = -127
		var maxTnew TagGroupID
		for _, c := range candidates {
			if c.nid == nid && c.priority >= maxPrio {
				maxPrio = c.priority
				maxTnew = c.tnew
			}
		}
		added := false
		for _, c := range candidates {
			if c.nid != nid || c.tnew != maxTnew {
				continue
			}
			if !added {
				ndstate = append(ndstate, DStateElem{NFAState: nid, TID: c.tnew})
				added = true
			}
			ops = append(ops, TagOp{TOld: c.told, TNew: c.tnew, Reg: c.reg})
		}
	}

	// The raw tnew values assigned above come from a counter incremented
	// once per matching NFA transition scanned, so they are unique but not
	// contiguous. Renumber them to dense 0..len(ndstate)-1 positions so a
	// matcher's tag-group buffer can be sized exactly to State.NumGroups.
	remap := make(map[TagGroupID]TagGroupID, len(ndstate))
	for i, elem := range ndstate {
		remap[elem.TID] = TagGroupID(i)
		ndstate[i].TID = TagGroupID(i)
	}
	for i := range ops {
		ops[i].TNew = remap[ops[i].TNew]
	}

	return ndstate, ops
}
