package corerx

// Options is a bitset of compile-time flags, passed to Compile.
type Options uint16

const (
	// Extended selects POSIX "extended" regex syntax; the only syntax
	// this package supports. Compile rejects any pattern without it set.
	Extended Options = 1 << 0

	// NoSub disables capture-group tracking: Exec/PartialExec still
	// report whether (and where) the overall pattern matched, but Groups
	// is unavailable and the (cheaper) minimal matcher is used.
	NoSub Options = 1 << 1

	// StdMatcher makes NewMatchState use the standard (tagged) matcher
	// even when NoSub is set, for callers who want capture offsets
	// ignored but timing identical to a captured match (e.g.
	// benchmarking). Exec does not consult it: with NoSub set, Exec always
	// runs the minimal matcher.
	StdMatcher Options = 1 << 2

	// Anchor implicitly prepends ^ to the pattern.
	Anchor Options = 1 << 3

	// Lazy builds the DFA incrementally, one state at a time, as input is
	// matched rather than eagerly up front.
	Lazy Options = 1 << 4

	// FirstMatch makes the minimal matcher stop at the first accepting
	// state reached rather than continuing for a possibly-longer one.
	FirstMatch Options = 1 << 5

	// Debug enables the dfa package's Tracer hooks.
	Debug Options = 1 << 6

	// ICase, Newline, NotEOL and NotBOL are recognized but rejected:
	// Compile fails with NotSupported if any is set, exactly as the
	// library this package is modeled on never implemented them.
	ICase   Options = 1 << 7
	Newline Options = 1 << 8
	NotEOL  Options = 1 << 9
	NotBOL  Options = 1 << 10
)

// unsupported is the mask of options Compile always rejects.
const unsupported = ICase | Newline | NotEOL | NotBOL
