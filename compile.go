package corerx

import (
	"regexp/syntax"

	"github.com/coregx/corerx/ccl"
	"github.com/coregx/corerx/nfa"
)

// syntaxFlags is the regexp/syntax dialect accepted by Compile: POSIX
// "extended" grammar (leftmost-longest semantics, no non-greedy
// quantifiers), with '.' matching newlines per REG_NEWLINE not being
// supported (so there is no special-casing of '\n' to turn off). PerlX is
// enabled so that the \b and \B word-boundary assertions parse; a
// non-greedy marker it also admits is ignored, since every quantifier is
// compiled as a leftmost-longest repetition. Parsing regex source text is
// deliberately outsourced to the standard library rather than
// hand-written here.
const syntaxFlags = syntax.POSIX | syntax.ClassNL | syntax.DotNL | syntax.PerlX

// compiler walks a parsed syntax.Regexp tree and emits the equivalent
// fragment via ctx's NFA builder algebra.
type compiler struct {
	ctx *nfa.Context
}

func compilePattern(pattern string, opts Options) (*nfa.Context, *nfa.NFA, error) {
	re, err := syntax.Parse(pattern, syntaxFlags)
	if err != nil {
		return nil, nil, &Error{Code: BadPattern, Message: err.Error()}
	}

	nmatch := int8(-1)
	if opts&NoSub != 0 {
		nmatch = 0
	} else if max := maxCaptureIndex(re); max >= 0 {
		nmatch = int8(max + 1)
	} else {
		nmatch = 1 // group 0 only
	}

	ctx := nfa.NewContext(nmatch)
	c := &compiler{ctx: ctx}

	frag, err := c.compile(re)
	if err != nil {
		return nil, nil, err
	}

	if opts&Anchor != 0 {
		anchorCC := ctx.Group.AddAssertions(ctx.Group.Epsilon(), ccl.AssertionBOD)
		anchor := ctx.FromCCL(anchorCC)
		frag, err = ctx.Concat(anchor, frag)
		if err != nil {
			return nil, nil, &Error{Code: BadPattern, Message: err.Error()}
		}
	}

	if opts&NoSub == 0 {
		frag = ctx.SetCapture(frag, 0)
	}
	frag = ctx.SetAccept(frag, 1)

	ctx.Group.Disambiguate()
	ctx.RemoveEpsilons(frag)

	return ctx, frag, nil
}

// maxCaptureIndex returns the largest OpCapture.Cap found in re, or -1 if
// the pattern has no capturing groups.
func maxCaptureIndex(re *syntax.Regexp) int {
	max := -1
	if re.Op == syntax.OpCapture && re.Cap > max {
		max = re.Cap
	}
	for _, sub := range re.Sub {
		if m := maxCaptureIndex(sub); m > max {
			max = m
		}
	}
	return max
}

func (c *compiler) compile(re *syntax.Regexp) (*nfa.NFA, error) {
	switch re.Op {
	case syntax.OpLiteral:
		return c.compileLiteral(re)
	case syntax.OpCharClass:
		return c.compileCharClass(re)
	case syntax.OpAnyChar:
		return c.ctx.FromCCL(c.ctx.Group.Any()), nil
	case syntax.OpAnyCharNotNL:
		return c.compileAnyCharNotNL()
	case syntax.OpConcat:
		return c.compileConcat(re.Sub)
	case syntax.OpAlternate:
		return c.compileAlternate(re.Sub)
	case syntax.OpStar:
		return c.compileRepeat(re.Sub[0], 0, -1)
	case syntax.OpPlus:
		return c.compileRepeat(re.Sub[0], 1, -1)
	case syntax.OpQuest:
		return c.compileRepeat(re.Sub[0], 0, 1)
	case syntax.OpRepeat:
		return c.compileRepeat(re.Sub[0], re.Min, re.Max)
	case syntax.OpCapture:
		return c.compileCapture(re)
	case syntax.OpBeginText:
		return c.assertionFragment(ccl.AssertionBOD), nil
	case syntax.OpEndText:
		return c.assertionFragment(ccl.AssertionEOD), nil
	case syntax.OpBeginLine:
		return c.assertionFragment(ccl.AssertionBOL), nil
	case syntax.OpEndLine:
		return c.assertionFragment(ccl.AssertionEOL), nil
	case syntax.OpWordBoundary:
		return c.assertionFragment(ccl.AssertionWordBoundary), nil
	case syntax.OpNoWordBoundary:
		return c.assertionFragment(ccl.AssertionNotWordBoundary), nil
	case syntax.OpEmptyMatch:
		return c.ctx.Empty(), nil
	default:
		return nil, &Error{Code: NotSupported, Message: "unsupported regex operation: " + re.Op.String()}
	}
}

func (c *compiler) assertionFragment(mask ccl.Assertion) *nfa.NFA {
	cc := c.ctx.Group.AddAssertions(c.ctx.Group.Epsilon(), mask)
	return c.ctx.FromCCL(cc)
}

func (c *compiler) compileLiteral(re *syntax.Regexp) (*nfa.NFA, error) {
	if len(re.Rune) == 0 {
		return c.ctx.Empty(), nil
	}
	var frag *nfa.NFA
	for _, r := range re.Rune {
		next := c.ctx.FromCCL(c.ctx.Group.FromRange(r, r+1))
		if frag == nil {
			frag = next
			continue
		}
		var err error
		frag, err = c.ctx.Concat(frag, next)
		if err != nil {
			return nil, &Error{Code: BadPattern, Message: err.Error()}
		}
	}
	return frag, nil
}

// compileCharClass builds a fragment from re.Rune, a flattened list of
// [lo, hi] inclusive pairs as regexp/syntax always represents character
// classes.
func (c *compiler) compileCharClass(re *syntax.Regexp) (*nfa.NFA, error) {
	if len(re.Rune) == 0 {
		return c.ctx.FromCCL(c.ctx.Group.Empty()), nil
	}
	cc := c.ctx.Group.FromRange(re.Rune[0], re.Rune[1]+1)
	for i := 2; i+1 < len(re.Rune); i += 2 {
		next := c.ctx.Group.FromRange(re.Rune[i], re.Rune[i+1]+1)
		joined, err := c.ctx.Group.Join(cc, next)
		if err != nil {
			return nil, &Error{Code: BadPattern, Message: err.Error()}
		}
		cc = joined
	}
	return c.ctx.FromCCL(cc), nil
}

func (c *compiler) compileAnyCharNotNL() (*nfa.NFA, error) {
	before := c.ctx.Group.FromRange(0, '\n')
	after := c.ctx.Group.FromRange('\n'+1, ccl.CharMax)
	joined, err := c.ctx.Group.Join(before, after)
	if err != nil {
		return nil, &Error{Code: BadPattern, Message: err.Error()}
	}
	return c.ctx.FromCCL(joined), nil
}

func (c *compiler) compileConcat(subs []*syntax.Regexp) (*nfa.NFA, error) {
	if len(subs) == 0 {
		return c.ctx.Empty(), nil
	}
	frag, err := c.compile(subs[0])
	if err != nil {
		return nil, err
	}
	for _, sub := range subs[1:] {
		next, err := c.compile(sub)
		if err != nil {
			return nil, err
		}
		frag, err = c.ctx.Concat(frag, next)
		if err != nil {
			return nil, &Error{Code: BadPattern, Message: err.Error()}
		}
	}
	return frag, nil
}

func (c *compiler) compileAlternate(subs []*syntax.Regexp) (*nfa.NFA, error) {
	if len(subs) == 0 {
		return c.ctx.Empty(), nil
	}
	frag, err := c.compile(subs[0])
	if err != nil {
		return nil, err
	}
	for _, sub := range subs[1:] {
		next, err := c.compile(sub)
		if err != nil {
			return nil, err
		}
		frag, err = c.ctx.Alternative(frag, next)
		if err != nil {
			return nil, &Error{Code: BadPattern, Message: err.Error()}
		}
	}
	return frag, nil
}

func (c *compiler) compileRepeat(sub *syntax.Regexp, min, max int) (*nfa.NFA, error) {
	frag, err := c.compile(sub)
	if err != nil {
		return nil, err
	}
	out, err := c.ctx.Iterate(frag, min, max)
	if err != nil {
		return nil, &Error{Code: BadPattern, Message: err.Error()}
	}
	return out, nil
}

func (c *compiler) compileCapture(re *syntax.Regexp) (*nfa.NFA, error) {
	frag, err := c.compile(re.Sub[0])
	if err != nil {
		return nil, err
	}
	return c.ctx.SetCapture(frag, uint8(re.Cap)), nil
}
