package scan

import (
	"strings"
	"testing"
)

func TestIndexByte(t *testing.T) {
	cases := []struct {
		data string
		b    byte
		want int
	}{
		{"", 'x', -1},
		{"a", 'a', 0},
		{"abcdefgh", 'h', 7},
		{"abcdefghij", 'j', 9},
		{"aaaaaaaa", 'a', 0},
		{"aaaaaaab", 'b', 7},
		{strings.Repeat("x", 100) + "y", 'y', 100},
		{"no-match-here", 'z', -1},
	}
	for _, c := range cases {
		if got := IndexByte([]byte(c.data), c.b); got != c.want {
			t.Errorf("IndexByte(%q, %q) = %d, want %d", c.data, c.b, got, c.want)
		}
	}
}

func TestIndexByteScalarMatchesSWAR(t *testing.T) {
	data := []byte(strings.Repeat("abcdefgh", 17) + "Z")
	for _, b := range []byte{'a', 'h', 'Z', 'q'} {
		want := indexByteScalar(data, b)
		got := indexByteSWAR(data, b)
		if want != got {
			t.Errorf("scalar/SWAR disagree for %q: scalar=%d swar=%d", b, want, got)
		}
	}
}
