package dfa

import (
	"testing"

	"github.com/coregx/corerx/ccl"
	"github.com/coregx/corerx/nfa"
)

// buildPattern constructs the NFA for "a(b)c", tagging capture group 1
// around 'b' and group 0 (the whole match) around the entire pattern, then
// eliminates epsilons and returns both the context and fragment.
func buildPattern(t *testing.T) (*nfa.Context, *nfa.NFA) {
	t.Helper()
	ctx := nfa.NewContext(2) // group 0 (whole match) + group 1

	a := ctx.FromCCL(ctx.Group.FromRange('a', 'a'+1))
	b := ctx.FromCCL(ctx.Group.FromRange('b', 'b'+1))
	b = ctx.SetCapture(b, 1)
	c := ctx.FromCCL(ctx.Group.FromRange('c', 'c'+1))

	ab, err := ctx.Concat(a, b)
	if err != nil {
		t.Fatalf("concat: %v", err)
	}
	abc, err := ctx.Concat(ab, c)
	if err != nil {
		t.Fatalf("concat: %v", err)
	}
	abc = ctx.SetCapture(abc, 0)
	abc = ctx.SetAccept(abc, 1)

	ctx.RemoveEpsilons(abc)
	return ctx, abc
}

func TestLazyAndEagerAgree(t *testing.T) {
	ctx, n := buildPattern(t)

	lazyDFA, err := FromNFA(ctx, n, 2, Config{Lazy: true})
	if err != nil {
		t.Fatalf("FromNFA lazy: %v", err)
	}
	if err := lazyDFA.BuildEager(); err != nil {
		t.Fatalf("BuildEager on lazy DFA: %v", err)
	}

	eagerDFA, err := FromNFA(ctx, n, 2, Config{Lazy: false})
	if err != nil {
		t.Fatalf("FromNFA eager: %v", err)
	}

	if len(lazyDFA.states) != len(eagerDFA.states) {
		t.Fatalf("expected equal state counts, got lazy=%d eager=%d", len(lazyDFA.states), len(eagerDFA.states))
	}
}

func TestMinimalMatcherAccepts(t *testing.T) {
	ctx, n := buildPattern(t)
	d, err := FromNFA(ctx, n, 0, DefaultConfig())
	if err != nil {
		t.Fatalf("FromNFA: %v", err)
	}

	mm := NewMinimalMatcher(d)
	var last nfa.AcceptID
	for _, cp := range []rune("abc") {
		id, err := mm.Advance(cp, ccl.AssertionNone)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if id > 0 {
			last = id
		}
	}
	if last != 1 {
		t.Fatalf("expected accept id 1 after consuming \"abc\", got %d", last)
	}
}

func TestMinimalMatcherRejectsWrongInput(t *testing.T) {
	ctx, n := buildPattern(t)
	d, err := FromNFA(ctx, n, 0, DefaultConfig())
	if err != nil {
		t.Fatalf("FromNFA: %v", err)
	}

	mm := NewMinimalMatcher(d)
	id, err := mm.Advance('x', ccl.AssertionNone)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if id != 0 {
		t.Fatalf("expected no transition (0) for unmatched input, got %d", id)
	}
}

func TestStandardMatcherCapturesGroup(t *testing.T) {
	ctx, n := buildPattern(t)
	d, err := FromNFA(ctx, n, 2, DefaultConfig())
	if err != nil {
		t.Fatalf("FromNFA: %v", err)
	}

	sm := NewStandardMatcher(d)
	input := []rune("abc")
	for i, cp := range input {
		ok, err := sm.Advance(cp, ccl.AssertionNone)
		if err != nil {
			t.Fatalf("advance at %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("expected transition to be found consuming %q at position %d", cp, i)
		}
	}

	match, ok, err := sm.Done(0, ccl.AssertionEOD)
	if err != nil {
		t.Fatalf("done: %v", err)
	}
	if !ok {
		t.Fatalf("expected a completed match")
	}
	if match.ID != 1 {
		t.Fatalf("expected accept id 1, got %d", match.ID)
	}

	// Group 1 ('b') should span offsets [1,2).
	open, close := nfa.CaptureReg(1)
	if match.Offsets[open] != 1 || match.Offsets[close] != 2 {
		t.Fatalf("expected group 1 to span [1,2), got [%d,%d)", match.Offsets[open], match.Offsets[close])
	}
}

func TestStandardMatcherCloneUnsupported(t *testing.T) {
	ctx, n := buildPattern(t)
	d, err := FromNFA(ctx, n, 2, DefaultConfig())
	if err != nil {
		t.Fatalf("FromNFA: %v", err)
	}
	sm := NewStandardMatcher(d)
	if _, err := sm.Clone(); err != ErrCloneUnsupported {
		t.Fatalf("expected ErrCloneUnsupported, got %v", err)
	}
}

func TestMinimalMatcherCloneIndependent(t *testing.T) {
	ctx, n := buildPattern(t)
	d, err := FromNFA(ctx, n, 0, DefaultConfig())
	if err != nil {
		t.Fatalf("FromNFA: %v", err)
	}

	mm := NewMinimalMatcher(d)
	if _, err := mm.Advance('a', ccl.AssertionNone); err != nil {
		t.Fatalf("advance: %v", err)
	}

	clone := mm.Clone()
	if _, err := clone.Advance('b', ccl.AssertionNone); err != nil {
		t.Fatalf("advance on clone: %v", err)
	}
	if mm.Offset() == clone.Offset() {
		t.Fatalf("expected clone to diverge from original after independent advances")
	}
}
