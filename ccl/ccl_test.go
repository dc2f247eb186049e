package ccl

import "testing"

func TestGroupCanonicalization(t *testing.T) {
	g := NewGroup()

	c1 := g.FromRange('a', 'z'+1)
	c2 := g.FromRange('a', 'z'+1)

	if c1.ID() != c2.ID() {
		t.Fatalf("expected structurally-equal classes to canonicalize to the same id, got %d and %d", c1.ID(), c2.ID())
	}
	if g.Len() != 1 {
		t.Fatalf("expected exactly one registered class, got %d", g.Len())
	}
}

func TestGroupCanonicalizationDifferentAssertions(t *testing.T) {
	g := NewGroup()

	c1 := g.FromRange('a', 'z'+1)
	c2 := g.AddAssertions(c1, AssertionBOL)

	if c1.ID() == c2.ID() {
		t.Fatalf("expected classes with different assertion masks to be distinct")
	}
	if g.Len() != 2 {
		t.Fatalf("expected two registered classes, got %d", g.Len())
	}
}

func TestAnyCoversFullRange(t *testing.T) {
	g := NewGroup()
	any := g.Any()

	if !any.Matches(0, nil, AssertionNone) {
		t.Fatalf("expected any() to match codepoint 0")
	}
	if !any.Matches(CharMax-1, nil, AssertionNone) {
		t.Fatalf("expected any() to match the last valid codepoint")
	}
}

func TestEpsilonMatchesNothing(t *testing.T) {
	g := NewGroup()
	eps := g.Epsilon()

	if !eps.IsEpsilon() {
		t.Fatalf("expected Epsilon() to report IsEpsilon")
	}
	if eps.Matches('a', nil, AssertionNone) {
		t.Fatalf("epsilon class must not match any character")
	}
}

func TestEmptyVsEpsilon(t *testing.T) {
	g := NewGroup()
	empty := g.Empty()
	eps := g.Epsilon()

	if empty.ID() == eps.ID() {
		t.Fatalf("empty and epsilon classes must be distinct")
	}
	if !empty.IsEmpty() {
		t.Fatalf("expected Empty() to report IsEmpty")
	}
	if empty.IsEpsilon() {
		t.Fatalf("empty range set is not the epsilon class")
	}
}

func TestNegate(t *testing.T) {
	g := NewGroup()
	digits := g.FromRange('0', '9'+1)

	neg, err := g.Negate(digits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if neg.Matches('5', nil, AssertionNone) {
		t.Fatalf("negated class must not match a digit")
	}
	if !neg.Matches('a', nil, AssertionNone) {
		t.Fatalf("negated class must match a non-digit")
	}
	if !neg.Matches(0, nil, AssertionNone) {
		t.Fatalf("negated class must match codepoint 0")
	}
}

func TestNegateEmptyYieldsAny(t *testing.T) {
	g := NewGroup()
	empty := g.Empty()

	neg, err := g.Negate(empty)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if neg.ID() != g.Any().ID() {
		t.Fatalf("negating the empty class must yield the canonical any() class")
	}
}

func TestNegateEpsilonFails(t *testing.T) {
	g := NewGroup()
	eps := g.Epsilon()

	if _, err := g.Negate(eps); err != ErrNegateEpsilon {
		t.Fatalf("expected ErrNegateEpsilon, got %v", err)
	}
}

func TestIntersectRequiresMatchingAssertions(t *testing.T) {
	g := NewGroup()
	a := g.FromRange('a', 'z'+1)
	b := g.AddAssertions(g.FromRange('h', 'p'), AssertionBOL)

	if _, ok := g.Intersect(a, b); ok {
		t.Fatalf("expected no intersection across differing assertion masks")
	}
}

func TestIntersectOverlap(t *testing.T) {
	g := NewGroup()
	a := g.FromRange('a', 'm'+1)
	b := g.FromRange('h', 'z'+1)

	inter, ok := g.Intersect(a, b)
	if !ok {
		t.Fatalf("expected an intersection")
	}
	if !inter.Matches('k', nil, AssertionNone) {
		t.Fatalf("expected intersection to contain 'k'")
	}
	if inter.Matches('c', nil, AssertionNone) {
		t.Fatalf("intersection must not contain 'c'")
	}
	if inter.Matches('x', nil, AssertionNone) {
		t.Fatalf("intersection must not contain 'x'")
	}
}

func TestDoIntersectEpsilon(t *testing.T) {
	g := NewGroup()
	e1 := g.Epsilon()

	if !g.DoIntersect(e1, e1) {
		t.Fatalf("two epsilon classes must always intersect")
	}
}

// TestDisambiguate reproduces scenario S6: a group with [a-m] and [h-z]
// (equal, empty assertion masks) disambiguates into three pairwise-disjoint
// classes [a-g], [h-m], [n-z].
func TestDisambiguate(t *testing.T) {
	g := NewGroup()
	g.FromRange('a', 'm'+1)
	g.FromRange('h', 'z'+1)

	g.Disambiguate()

	if g.Len() != 3 {
		t.Fatalf("expected 3 classes after disambiguation, got %d", g.Len())
	}

	for i := 0; i < g.Len(); i++ {
		ci := g.At(ID(i))
		for j := i + 1; j < g.Len(); j++ {
			cj := g.At(ID(j))
			if ci.Assertions() != cj.Assertions() {
				continue
			}
			if _, ok := g.Intersect(ci, cj); ok {
				t.Fatalf("classes %d and %d still overlap after disambiguation", i, j)
			}
		}
	}

	wantRanges := map[rune]bool{'a': false, 'g': false, 'h': false, 'm': false, 'n': false, 'z': false}
	for cp := range wantRanges {
		found := false
		for i := 0; i < g.Len(); i++ {
			if g.At(ID(i)).Matches(cp, nil, AssertionNone) {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected some class to cover %q after disambiguation", cp)
		}
	}

	a := g.At(0)
	if !a.Matches('a', nil, AssertionNone) || !a.Matches('g', nil, AssertionNone) || a.Matches('h', nil, AssertionNone) {
		t.Fatalf("expected first class to be exactly [a-g], got ranges %v", a.Ranges())
	}
}

func TestWordBoundary(t *testing.T) {
	a, sp := rune('a'), rune(' ')

	if !WordBoundary(&sp, 'b') {
		t.Fatalf("expected a boundary between a non-word and a word character")
	}
	if WordBoundary(&a, 'b') {
		t.Fatalf("expected no boundary between two word characters")
	}
	if !WordBoundary(nil, 'b') {
		t.Fatalf("expected start-of-data before a word character to be a boundary")
	}
	if WordBoundary(nil, ' ') {
		t.Fatalf("expected no boundary at start-of-data before a non-word character")
	}
}

func TestFromPredefined(t *testing.T) {
	g := NewGroup()

	word := g.FromPredefined(StdWord)
	if !word.Matches('_', nil, AssertionNone) || !word.Matches('9', nil, AssertionNone) {
		t.Fatalf("expected WORD class to include '_' and digits")
	}
	if word.Matches(' ', nil, AssertionNone) {
		t.Fatalf("expected WORD class to exclude space")
	}

	blank := g.FromPredefined(StdBlank)
	if !blank.Matches(' ', nil, AssertionNone) || !blank.Matches('\t', nil, AssertionNone) {
		t.Fatalf("expected BLANK class to include space and tab")
	}
}
