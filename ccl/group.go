package ccl

import "sort"

// Group is a factory and owning store for CCLs. It deduplicates
// structurally-equal classes: two factory calls that would produce the
// same set of ranges under the same assertion mask return the same handle.
type Group struct {
	entries []*entry
	std     map[StdClass]ID
}

// NewGroup creates an empty CCL group.
func NewGroup() *Group {
	return &Group{}
}

// Len returns the number of distinct classes registered in the group.
func (g *Group) Len() int { return len(g.entries) }

// At returns the class with the given id. Panics if id is out of range.
func (g *Group) At(id ID) CCL {
	_ = g.entries[id] // bounds check with the same panic message style as a slice index
	return CCL{group: g, id: id}
}

// All returns handles for every class currently in the group, in id order.
func (g *Group) All() []CCL {
	out := make([]CCL, len(g.entries))
	for i := range g.entries {
		out[i] = CCL{group: g, id: ID(i)}
	}
	return out
}

// canonicalize finds a structurally-equal existing entry, or registers cand
// as a new one. It always returns a handle bound to g.
func (g *Group) canonicalize(cand *entry) CCL {
	for _, e := range g.entries {
		if structurallyEqual(e, cand) {
			return CCL{group: g, id: e.id}
		}
	}
	cand.id = ID(len(g.entries))
	g.entries = append(g.entries, cand)
	return CCL{group: g, id: cand.id}
}

// structurallyEqual implements the bidirectional subset check: two classes
// with equal assertion masks are equal iff each is a subset of the other's
// ranges.
func structurallyEqual(a, b *entry) bool {
	if a.assertions != b.assertions {
		return false
	}
	return isPartOf(a.ranges, b.ranges) && isPartOf(b.ranges, a.ranges)
}

// isPartOf reports whether every range in a is covered by some single range
// in b. The epsilon class (nil ranges) is a part of anything; nothing
// non-epsilon is a part of epsilon.
func isPartOf(a, b []Range) bool {
	if a == nil {
		return true
	}
	if b == nil {
		return false
	}
	for _, r1 := range a {
		found := false
		for _, r2 := range b {
			if r1.Begin >= r2.Begin && r1.End <= r2.End {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Empty returns the canonical empty class (matches no character).
func (g *Group) Empty() CCL {
	return g.canonicalize(&entry{ranges: []Range{}})
}

// Epsilon returns the canonical ε class (matches nothing; used for
// ε-transitions in the NFA).
func (g *Group) Epsilon() CCL {
	return g.fromStd(StdEpsilon, func() *entry { return &entry{ranges: nil} })
}

// Any returns the canonical class covering every codepoint [0, CharMax).
func (g *Group) Any() CCL {
	return g.fromStd(StdAny, func() *entry { return &entry{ranges: []Range{{0, CharMax}}} })
}

// fromStd caches kind so repeated calls return the same handle without
// re-scanning the group.
func (g *Group) fromStd(kind StdClass, build func() *entry) CCL {
	if g.std != nil {
		if id, ok := g.std[kind]; ok {
			return CCL{group: g, id: id}
		}
	}
	c := g.canonicalize(build())
	if g.std == nil {
		g.std = make(map[StdClass]ID)
	}
	g.std[kind] = c.id
	return c
}

// FromRange returns the class with the single half-open range [lo, hi).
func (g *Group) FromRange(lo, hi rune) CCL {
	return g.canonicalize(&entry{ranges: []Range{{lo, hi}}})
}

// FromPredefined returns the cached class for a predefined kind, using
// ASCII semantics.
func (g *Group) FromPredefined(kind StdClass) CCL {
	switch kind {
	case StdEpsilon:
		return g.Epsilon()
	case StdAny:
		return g.Any()
	case StdLower:
		return g.fromStd(StdLower, func() *entry {
			return &entry{ranges: []Range{{'a', 'z' + 1}}}
		})
	case StdUpper:
		return g.fromStd(StdUpper, func() *entry {
			return &entry{ranges: []Range{{'A', 'Z' + 1}}}
		})
	case StdDigit:
		return g.fromStd(StdDigit, func() *entry {
			return &entry{ranges: []Range{{'0', '9' + 1}}}
		})
	case StdWord:
		return g.fromStd(StdWord, func() *entry {
			return &entry{ranges: []Range{{'0', '9' + 1}, {'A', 'Z' + 1}, {'_', '_' + 1}, {'a', 'z' + 1}}}
		})
	case StdBlank:
		return g.fromStd(StdBlank, func() *entry {
			return &entry{ranges: []Range{{'\t', '\t' + 1}, {' ', ' ' + 1}}}
		})
	default:
		panic("ccl: unknown predefined class")
	}
}

// Negate returns a class containing the complement of c within
// [0, CharMax), inheriting c's assertions. Fails if c is ε.
//
// Negating an already-empty class yields the canonical "any" class: see
// DESIGN.md for why this, rather than the original C implementation's
// "return the original empty object" quirk, is the intended behavior.
func (g *Group) Negate(c CCL) (CCL, error) {
	if c.group != g {
		return CCL{}, ErrForeignGroup
	}
	if c.IsEpsilon() {
		return CCL{}, ErrNegateEpsilon
	}
	e := c.entry()
	if len(e.ranges) == 0 {
		return g.Any(), nil
	}

	sorted := copyRanges(e.ranges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Begin != sorted[j].Begin {
			return sorted[i].Begin < sorted[j].Begin
		}
		return sorted[i].End < sorted[j].End
	})

	var out []Range
	last := rune(0)
	for _, r := range sorted {
		if last < r.Begin {
			out = append(out, Range{last, r.Begin})
		}
		if r.End > last {
			last = r.End
		}
	}
	if last < CharMax {
		out = append(out, Range{last, CharMax})
	}
	out = cleanup(out)
	if out == nil {
		out = []Range{}
	}

	return g.canonicalize(&entry{ranges: out, assertions: e.assertions}), nil
}

// AddAssertions returns a class equal to c with extra assertion bits OR'd
// in.
func (g *Group) AddAssertions(c CCL, mask Assertion) CCL {
	e := c.entry()
	return g.canonicalize(&entry{ranges: copyRanges(e.ranges), assertions: e.assertions | mask})
}

// Join returns the union of c1 and c2's range sets. Requires equal
// assertion masks.
//
// The result is not guaranteed canonical: per the original implementation's
// documented limitation, overlapping ranges from c1 and c2 are not merged
// here. Call Group.Disambiguate afterwards if a disjoint partition is
// required.
func (g *Group) Join(c1, c2 CCL) (CCL, error) {
	if c1.group != g || c2.group != g {
		return CCL{}, ErrForeignGroup
	}
	e1, e2 := c1.entry(), c2.entry()
	if e1.assertions != e2.assertions {
		return CCL{}, ErrIncompatibleAssertions
	}
	out := []Range{}
	if e1.ranges != nil {
		out = append(out, e1.ranges...)
	}
	if e2.ranges != nil {
		out = append(out, e2.ranges...)
	}
	return g.canonicalize(&entry{ranges: out, assertions: e1.assertions}), nil
}

// Intersect returns the intersection of c1 and c2's range sets, or
// (zero, false) if either is ε, the masks differ, or the intersection is
// empty.
func (g *Group) Intersect(c1, c2 CCL) (CCL, bool) {
	e1, e2 := c1.entry(), c2.entry()
	ranges, ok := intersectRanges(e1, e2)
	if !ok {
		return CCL{}, false
	}
	return g.canonicalize(&entry{ranges: ranges, assertions: e1.assertions}), true
}

// DoIntersect reports whether c1 and c2 share any codepoint. Two ε classes
// always do.
func (g *Group) DoIntersect(c1, c2 CCL) bool {
	if c1.IsEpsilon() && c2.IsEpsilon() {
		return true
	}
	_, ok := intersectRanges(c1.entry(), c2.entry())
	return ok
}

// intersectRanges computes the pairwise-overlap fragments of e1 and e2's
// ranges (not a fully merged result — see Join's doc comment on the same
// non-canonicality), cleaned of empty fragments. ok is false if either
// class is ε, the masks differ, or no overlap exists.
func intersectRanges(e1, e2 *entry) ([]Range, bool) {
	if e1.ranges == nil || e2.ranges == nil {
		return nil, false
	}
	if e1.assertions != e2.assertions {
		return nil, false
	}

	var out []Range
	for _, r1 := range e1.ranges {
		for _, r2 := range e2.ranges {
			switch {
			case r2.Begin >= r1.Begin && r2.Begin <= r1.End:
				end := r1.End
				if r2.End < end {
					end = r2.End
				}
				out = append(out, Range{r2.Begin, end})
			case r2.End >= r1.Begin && r2.End <= r1.End:
				out = append(out, Range{r1.Begin, r2.End})
			case r1.Begin >= r2.Begin && r1.Begin <= r2.End:
				end := r2.End
				if r1.End < end {
					end = r1.End
				}
				out = append(out, Range{r1.Begin, end})
			case r1.End >= r2.Begin && r1.End <= r2.End:
				out = append(out, Range{r2.Begin, r1.End})
			}
		}
	}
	out = cleanup(out)
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// cleanup drops degenerate (empty) ranges.
func cleanup(rs []Range) []Range {
	out := rs[:0]
	for _, r := range rs {
		if !r.Empty() {
			out = append(out, r)
		}
	}
	return out
}

// subtractRange removes a single range sub from every range in rs,
// splitting ranges as necessary to preserve half-open semantics.
func subtractRange(rs []Range, sub Range) []Range {
	if rs == nil {
		return nil
	}
	var out []Range
	for _, r := range rs {
		switch {
		case sub.Begin >= r.Begin && sub.Begin <= r.End && sub.End >= r.Begin && sub.End <= r.End:
			out = append(out, Range{r.Begin, sub.Begin}, Range{sub.End, r.End})
		case sub.Begin >= r.Begin && sub.Begin <= r.End:
			out = append(out, Range{r.Begin, sub.Begin})
		case sub.End >= r.Begin && sub.End <= r.End:
			out = append(out, Range{sub.End, r.End})
		case sub.Begin <= r.Begin && sub.End >= r.End:
			out = append(out, Range{r.Begin, r.Begin})
		default:
			out = append(out, r)
		}
	}
	return cleanup(out)
}

// subtractRanges removes every range in sub from rs.
func subtractRanges(rs []Range, sub []Range) []Range {
	for _, s := range sub {
		rs = subtractRange(rs, s)
	}
	return rs
}

// Disambiguate repeatedly finds two classes in the group with equal
// assertion masks whose ranges overlap, replaces each with its set
// difference against the other, and registers their intersection as a new
// class. It iterates to a fixed point: afterwards no two classes with
// equal assertion masks overlap.
func (g *Group) Disambiguate() {
	changed := true
	for changed {
		changed = false
		for i := 0; i < len(g.entries); i++ {
			for j := i + 1; j < len(g.entries); j++ {
				e1, e2 := g.entries[i], g.entries[j]
				if e1.ranges == nil || e2.ranges == nil {
					continue // epsilon never participates
				}
				if len(e1.ranges) == 0 || len(e2.ranges) == 0 {
					continue // empty class never participates
				}
				inter, ok := intersectRanges(e1, e2)
				if !ok {
					continue
				}

				orig1 := copyRanges(e1.ranges)
				e1.ranges = subtractRanges(e1.ranges, e2.ranges)
				e2.ranges = subtractRanges(e2.ranges, orig1)

				g.canonicalize(&entry{ranges: inter, assertions: e1.assertions})
				changed = true
			}
		}
	}
}
