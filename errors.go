// Package corerx provides a regex engine built from parallel NFA→DFA
// construction with tagged submatches, plus a chunked streaming-input
// abstraction for feeding it data incrementally.
//
// Compile a pattern once, then either run it to completion against a
// whole buffer with Exec, or drive it across arbitrarily many chunks of
// a live stream with PartialExec and a MatchState.
//
//	re, err := corerx.Compile(`[a-z]+@[a-z]+\.[a-z]+`, corerx.Extended)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer re.Free()
//
//	m, ok, err := re.Exec([]byte("contact: ab@cd.ef"))
package corerx

import "fmt"

// Code is the numeric POSIX-style error code attached to a failed
// compile or match. Values are chosen to match the originating C
// library's REG_* constants rather than iota, so they remain stable
// if new codes are added out of order.
type Code int

const (
	OK            Code = 0
	NotSupported  Code = 1
	BadPattern    Code = 3
	NoMatch       Code = 4
	EMem          Code = 5
)

func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case NotSupported:
		return "not supported"
	case BadPattern:
		return "bad pattern"
	case NoMatch:
		return "no match"
	case EMem:
		return "out of memory"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// Error is returned by Compile and wraps a Code with a human-readable
// explanation, mirroring the compiled handle's separate numeric-code /
// textual-message pair in the originating library.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("corerx: %s: %s", e.Code, e.Message)
}
