package corerx

import (
	"fmt"
	"os"

	"github.com/coregx/corerx/ccl"
	"github.com/coregx/corerx/dfa"
	"github.com/coregx/corerx/nfa"
)

// Match reports where a pattern matched within an input buffer, plus
// submatch offsets when the regex was compiled with captures enabled.
// Groups[0] is always the overall match span; Groups[i] for i>0 is
// capture group i, with both offsets -1 if that group didn't participate.
type Match struct {
	Start, End int
	Groups     [][2]int
}

// Regex is a compiled pattern: an NFA, reduced to an epsilon-free form
// and built into a DFA (expanded eagerly at Compile time, or lazily on
// first visit when compiled with Lazy).
type Regex struct {
	pattern string
	opts    Options

	ctx  *nfa.Context
	d    *dfa.DFA
	nsub int // number of capture groups, not counting group 0

	lastCode Code
	lastErr  string
}

// Compile compiles pattern under opts. Extended must be set (basic BRE
// syntax is not supported); ICase/Newline/NotEOL/NotBOL are rejected
// outright, matching the library this package is modeled on never having
// implemented them.
func Compile(pattern string, opts Options) (*Regex, error) {
	if opts&Extended == 0 {
		return nil, &Error{Code: NotSupported, Message: "basic (non-extended) syntax is not supported"}
	}
	if opts&unsupported != 0 {
		return nil, &Error{Code: NotSupported, Message: "ICase/Newline/NotEOL/NotBOL are not supported"}
	}

	ctx, frag, err := compilePattern(pattern, opts)
	if err != nil {
		return nil, err
	}

	cfg := dfa.Config{Lazy: opts&Lazy != 0}
	if opts&Debug != 0 {
		cfg.Tracer = debugTracer{}
	}

	nmatch := ctx.NMatch
	if opts&NoSub != 0 {
		nmatch = 0
	}

	d, err := dfa.FromNFA(ctx, frag, nmatch, cfg.Validate())
	if err != nil {
		return nil, &Error{Code: EMem, Message: err.Error()}
	}

	nsub := int(nmatch) - 1
	if nsub < 0 {
		nsub = 0
	}

	return &Regex{
		pattern: pattern,
		opts:    opts,
		ctx:     ctx,
		d:       d,
		nsub:    nsub,
	}, nil
}

// MustCompile is like Compile but panics on error, for pattern literals
// known good at compile time.
func MustCompile(pattern string, opts Options) *Regex {
	re, err := Compile(pattern, opts)
	if err != nil {
		panic(err)
	}
	return re
}

// LastError returns the most recent error's textual explanation, or ""
// if the last operation succeeded.
func (r *Regex) LastError() string { return r.lastErr }

// NumGroups returns the number of capture groups the pattern defines, not
// counting the overall match (group 0).
func (r *Regex) NumGroups() int { return r.nsub }

// Free releases the regex's compiled state. Go's garbage collector makes
// this unnecessary for memory safety, but the method is kept for parity
// with the POSIX-style facade this API mirrors, and to let callers drop
// large DFA tables deterministically rather than waiting on GC.
func (r *Regex) Free() {
	r.ctx = nil
	r.d = nil
}

// Exec runs the pattern against the whole of input, searching for the
// leftmost match (unless Anchor was set at compile time, which only
// tries position 0). Returns ok == false with a nil error if no match
// exists anywhere in input.
func (r *Regex) Exec(input []byte) (Match, bool, error) {
	anchored := r.opts&Anchor != 0
	captures := r.opts&NoSub == 0

	for start := 0; start <= len(input); start++ {
		m, ok, err := r.execFrom(input, start, captures)
		if err != nil {
			r.lastCode, r.lastErr = EMem, err.Error()
			return Match{}, false, err
		}
		if ok {
			r.lastCode, r.lastErr = OK, ""
			return m, true, nil
		}
		if anchored {
			break
		}
	}
	r.lastCode, r.lastErr = NoMatch, "no match"
	return Match{}, false, nil
}

func (r *Regex) execFrom(input []byte, start int, captures bool) (Match, bool, error) {
	if captures {
		return r.execFromStandard(input, start)
	}
	return r.execFromMinimal(input, start)
}

func (r *Regex) execFromStandard(input []byte, start int) (Match, bool, error) {
	sm := dfa.NewStandardMatcher(r.d)
	var best dfa.Match
	found := false

	pos := start
	for {
		assertions := boundaryAssertions(pos, len(input))
		if m, ok, err := sm.Done(previewRune(input, pos), assertions); err != nil {
			return Match{}, false, err
		} else if ok {
			best, found = m, true
		}
		if pos >= len(input) {
			break
		}
		cp := rune(uint8(input[pos]))
		if ok, err := sm.Advance(cp, boundaryAssertions(pos, len(input))); err != nil {
			return Match{}, false, err
		} else if !ok {
			break
		}
		pos++
	}

	if !found {
		return Match{}, false, nil
	}
	return toMatch(best, start, r.nsub), true, nil
}

func (r *Regex) execFromMinimal(input []byte, start int) (Match, bool, error) {
	mm := dfa.NewMinimalMatcher(r.d)
	var lastEnd int
	found := false

	pos := start
	for {
		assertions := boundaryAssertions(pos, len(input))
		if _, ok, err := mm.Done(previewRune(input, pos), assertions); err != nil {
			return Match{}, false, err
		} else if ok {
			lastEnd, found = pos, true
		}
		if pos >= len(input) {
			break
		}
		cp := rune(uint8(input[pos]))
		id, err := mm.Advance(cp, boundaryAssertions(pos, len(input)))
		if err != nil {
			return Match{}, false, err
		}
		if mm.Offset() == pos-start {
			// No transition consumed cp; Done above already checked
			// whether the current state accepts at pos.
			break
		}
		pos++
		if id > 0 {
			lastEnd, found = pos, true
			if r.opts&FirstMatch != 0 {
				break
			}
		}
	}

	if !found {
		return Match{}, false, nil
	}
	return Match{Start: start, End: lastEnd}, true, nil
}

// boundaryAssertions computes which statically-known assertion bits hold
// at position pos within a buffer of length n (beginning/end of data;
// beginning/end of line is not modeled since REG_NEWLINE is unsupported).
func boundaryAssertions(pos, n int) ccl.Assertion {
	var a ccl.Assertion
	if pos == 0 {
		a |= ccl.AssertionBOD | ccl.AssertionBOL
	}
	if pos == n {
		a |= ccl.AssertionEOD | ccl.AssertionEOL
	}
	return a
}

// previewRune returns the not-yet-consumed byte at pos widened to a rune,
// for Done's word-boundary lookahead; 0 past the end of input (harmless,
// since Done only uses it to resolve \b/\B, and pos==n is exactly the
// "no further word character" case word boundaries care about).
func previewRune(input []byte, pos int) rune {
	if pos >= len(input) {
		return 0
	}
	return rune(uint8(input[pos]))
}

func toMatch(m dfa.Match, start, nsub int) Match {
	out := Match{Groups: make([][2]int, nsub+1)}
	for g := 0; g <= nsub; g++ {
		open, close := nfa.CaptureReg(uint8(g))
		lo, hi := int32(-1), int32(-1)
		if int(open) < len(m.Offsets) {
			lo = m.Offsets[open]
		}
		if int(close) < len(m.Offsets) {
			hi = m.Offsets[close]
		}
		if lo < 0 || hi < 0 {
			out.Groups[g] = [2]int{-1, -1}
			continue
		}
		out.Groups[g] = [2]int{start + int(lo), start + int(hi)}
	}
	out.Start, out.End = out.Groups[0][0], out.Groups[0][1]
	return out
}

// debugTracer writes construction and matching events to stderr, enabled
// by the Debug option (the equivalent of REG_DEBUG: "enable debugging
// output to stderr").
type debugTracer struct{}

func (debugTracer) StateComputed(id dfa.StateID, numTransitions, numAccepts int) {
	fmt.Fprintf(os.Stderr, "corerx: state %d computed (%d transitions, %d accepts)\n",
		id, numTransitions, numAccepts)
}

func (debugTracer) Step(from dfa.StateID, cp rune, to dfa.StateID) {
	fmt.Fprintf(os.Stderr, "corerx: state %d --%q--> state %d\n", from, cp, to)
}
