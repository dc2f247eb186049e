package corerx

import (
	"io"
	"os"
	"strings"
	"testing"
)

// TestScenarioS1FixedStringMatch reproduces S1: a fixed-string pattern
// found at its expected offset within a whole-buffer Exec (the
// chunked-stream variant of this scenario is covered in matchstate_test.go
// via PartialExec, since Exec itself only ever runs on a contiguous
// buffer).
func TestScenarioS1FixedStringMatch(t *testing.T) {
	re, err := Compile("abc", Extended)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	defer re.Free()

	m, ok, err := re.Exec([]byte("xyzabcdef"))
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Start != 3 || m.End != 6 {
		t.Fatalf("expected match [3,6), got [%d,%d)", m.Start, m.End)
	}
}

// TestScenarioS2CaptureGroups reproduces S2: two numeric capture groups
// separated by a literal hyphen.
func TestScenarioS2CaptureGroups(t *testing.T) {
	re, err := Compile(`([0-9]+)-([0-9]+)`, Extended)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	defer re.Free()

	m, ok, err := re.Exec([]byte("rev 12-3456"))
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if !ok {
		t.Fatal("expected a match")
	}
	if len(m.Groups) != 3 {
		t.Fatalf("expected 3 groups (incl. group 0), got %d", len(m.Groups))
	}
	want := [][2]int{{4, 11}, {4, 6}, {7, 11}}
	for i, w := range want {
		if m.Groups[i] != w {
			t.Errorf("group %d: expected %v, got %v", i, w, m.Groups[i])
		}
	}
}

func TestExecNoMatch(t *testing.T) {
	re, err := Compile("xyz", Extended)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	defer re.Free()

	_, ok, err := re.Exec([]byte("abcdef"))
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if ok {
		t.Fatal("expected no match")
	}
	if re.LastError() == "" {
		t.Fatal("expected LastError to be set after a failed Exec")
	}
}

func TestCompileRejectsBasicSyntax(t *testing.T) {
	if _, err := Compile("abc", 0); err == nil {
		t.Fatal("expected an error without Extended set")
	}
}

func TestCompileRejectsUnsupportedOptions(t *testing.T) {
	if _, err := Compile("abc", Extended|ICase); err == nil {
		t.Fatal("expected an error with ICase set")
	}
}

func TestMustCompilePanicsOnBadPattern(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected MustCompile to panic on a bad pattern")
		}
	}()
	MustCompile("(unterminated", Extended)
}

func TestNumGroups(t *testing.T) {
	re, err := Compile(`([0-9]+)-([0-9]+)`, Extended)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	defer re.Free()
	if re.NumGroups() != 2 {
		t.Fatalf("expected 2 groups, got %d", re.NumGroups())
	}
}

// TestDebugOptionWritesToStderr verifies the Debug option produces real
// diagnostic output rather than being a silent no-op: compiling with it
// set computes the initial state eagerly, which traces at least one
// state to stderr via debugTracer.
func TestDebugOptionWritesToStderr(t *testing.T) {
	real := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stderr = w
	defer func() { os.Stderr = real }()

	re, err := Compile("abc", Extended|Debug)
	if err != nil {
		w.Close()
		t.Fatalf("Compile: %v", err)
	}
	defer re.Free()

	if _, _, err := re.Exec([]byte("abc")); err != nil {
		w.Close()
		t.Fatalf("Exec: %v", err)
	}

	w.Close()
	os.Stderr = real
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read pipe: %v", err)
	}

	if !strings.Contains(string(out), "corerx:") {
		t.Fatalf("expected Debug to trace to stderr, got %q", out)
	}
}

func TestExecAnchor(t *testing.T) {
	re, err := Compile("abc", Extended|Anchor)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	defer re.Free()

	if _, ok, _ := re.Exec([]byte("xabc")); ok {
		t.Fatal("expected anchored pattern not to match when not at position 0")
	}
	if _, ok, _ := re.Exec([]byte("abcx")); !ok {
		t.Fatal("expected anchored pattern to match at position 0")
	}
}
