package corerx

import (
	"github.com/coregx/corerx/ccl"
	"github.com/coregx/corerx/dfa"
)

// MatchState drives a compiled Regex incrementally across any number of
// PartialExec calls, for callers feeding data as it arrives from a
// stream.Chain rather than all at once. Unlike Exec, a MatchState always
// starts pinned at its creation offset — unanchored search across
// multiple candidate start positions is the caller's responsibility when
// driving a stream (e.g. retry with a new MatchState at the next offset
// once this one reports no possible match).
type MatchState struct {
	re *Regex
	mm *dfa.MinimalMatcher
	sm *dfa.StandardMatcher

	last   dfa.Match
	hasRun bool
}

// NewMatchState creates a state positioned at re's initial DFA state,
// using the minimal matcher if re was compiled with NoSub (and without
// StdMatcher), the standard (tagged) matcher otherwise.
func NewMatchState(re *Regex) *MatchState {
	ms := &MatchState{re: re}
	if re.opts&NoSub != 0 && re.opts&StdMatcher == 0 {
		ms.mm = dfa.NewMinimalMatcher(re.d)
	} else {
		ms.sm = dfa.NewStandardMatcher(re.d)
	}
	return ms
}

// PartialExec feeds buffer to the matcher. first is OR'd into the
// assertion bits checked at buffer[0] (set AssertionBOD there if this is
// the very first chunk of the stream); last is OR'd in at buffer's final
// byte (set AssertionEOD there if this is the stream's last chunk).
//
// Returns a positive accept ID if a match completes within this call, 0
// if the input fed so far (plus anything that could still follow) can
// never match, and -1 if more data is needed before the outcome is known.
//
// When findPartial is false, PartialExec returns as soon as any
// accepting state is reached (first-match semantics, matching
// FirstMatch's effect on the minimal matcher); when true, it keeps
// feeding input looking for a longer match, only stopping at a dead end
// or the end of buffer.
func (ms *MatchState) PartialExec(buffer []byte, first, last ccl.Assertion, findPartial bool) (int, error) {
	for i, b := range buffer {
		var assertions ccl.Assertion
		if i == 0 {
			assertions |= first
		}
		if i == len(buffer)-1 {
			assertions |= last
		}
		cp := rune(uint8(b))

		if ms.mm != nil {
			id, err := ms.mm.Advance(cp, assertions)
			if err != nil {
				return 0, err
			}
			switch {
			case id > 0:
				return int(id), nil
			case id == 0:
				return 0, nil
			}
			continue
		}

		ok, err := ms.sm.Advance(cp, assertions)
		if err != nil {
			return 0, err
		}
		if !ok {
			m, accepted, derr := ms.sm.Done(cp, assertions)
			if derr != nil {
				return 0, derr
			}
			if accepted {
				ms.last, ms.hasRun = m, true
				return int(m.ID), nil
			}
			return 0, nil
		}
		if !findPartial {
			if m, accepted, derr := ms.sm.Done(previewByteAfter(buffer, i), assertions); derr != nil {
				return 0, derr
			} else if accepted {
				ms.last, ms.hasRun = m, true
				return int(m.ID), nil
			}
		}
	}

	if ms.mm != nil {
		id, ok, err := ms.mm.Done(0, last)
		if err != nil {
			return 0, err
		}
		if ok {
			return int(id), nil
		}
		return -1, nil
	}

	m, ok, err := ms.sm.Done(0, last)
	if err != nil {
		return 0, err
	}
	if ok {
		ms.last, ms.hasRun = m, true
		return int(m.ID), nil
	}
	return -1, nil
}

func previewByteAfter(buffer []byte, i int) rune {
	if i+1 >= len(buffer) {
		return 0
	}
	return rune(uint8(buffer[i+1]))
}

// Groups reports the most recently completed match's submatch offsets,
// relative to wherever this MatchState started. Only meaningful after
// PartialExec has returned a positive accept ID with a standard (tagged)
// matcher; ok is false otherwise.
func (ms *MatchState) Groups() (groups [][2]int, ok bool) {
	if ms.sm == nil || !ms.hasRun {
		return nil, false
	}
	m := toMatch(ms.last, 0, ms.re.nsub)
	return m.Groups, true
}
