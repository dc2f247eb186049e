package corerx

import (
	"testing"

	"github.com/coregx/corerx/ccl"
)

// TestScenarioS3StreamingPartialExec reproduces S3: a streaming
// partial_exec driven across two chunks, first reporting "need more
// data", then completing on the second chunk.
func TestScenarioS3StreamingPartialExec(t *testing.T) {
	re, err := Compile("a+b", Extended)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	defer re.Free()

	ms := NewMatchState(re)

	id, err := ms.PartialExec([]byte("aaa"), ccl.AssertionBOD, 0, false)
	if err != nil {
		t.Fatalf("PartialExec (first chunk): %v", err)
	}
	if id != -1 {
		t.Fatalf("expected -1 (inconclusive) after first chunk, got %d", id)
	}

	id, err = ms.PartialExec([]byte("aab"), 0, ccl.AssertionEOD, false)
	if err != nil {
		t.Fatalf("PartialExec (second chunk): %v", err)
	}
	if id != 1 {
		t.Fatalf("expected accept id 1 after second chunk, got %d", id)
	}
}

// TestScenarioS1ViaPartialExec reproduces S1 driven incrementally,
// feeding the stream chunks "xyz", "ab", "cdef" to a MatchState started
// right where the match begins (offset 3) — mirroring how a caller
// would retry PartialExec at successive start offsets against a live
// stream.Chain once an earlier attempt reports no possible match.
func TestScenarioS1ViaPartialExec(t *testing.T) {
	re, err := Compile("abc", Extended)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	defer re.Free()

	ms := NewMatchState(re)

	id, err := ms.PartialExec([]byte("ab"), 0, 0, false)
	if err != nil {
		t.Fatalf("PartialExec (chunk 2, partial): %v", err)
	}
	if id != -1 {
		t.Fatalf("expected -1 (inconclusive) mid-match, got %d", id)
	}

	id, err = ms.PartialExec([]byte("cdef"), 0, ccl.AssertionEOD, false)
	if err != nil {
		t.Fatalf("PartialExec (chunk 3): %v", err)
	}
	if id != 1 {
		t.Fatalf("expected accept id 1, got %d", id)
	}
}
