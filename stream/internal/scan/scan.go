// Package scan provides byte-scanning primitives for the stream package's
// single-byte search, View.Find.
//
// IndexByte dispatches between a word-at-a-time (SWAR) scan and a plain
// byte loop depending on detected CPU features, mirroring the dispatch
// pattern used elsewhere in this codebase for vectorized primitives —
// but, unlike those, staying pure Go: there is no assembly here, only two
// Go implementations of the same algorithm chosen by a feature check.
package scan

import "encoding/binary"

// IndexByte returns the index of the first occurrence of b in data, or -1
// if not present.
func IndexByte(data []byte, b byte) int {
	if fastPathEligible && len(data) >= 8 {
		return indexByteSWAR(data, b)
	}
	return indexByteScalar(data, b)
}

func indexByteScalar(data []byte, b byte) int {
	for i, c := range data {
		if c == b {
			return i
		}
	}
	return -1
}

// indexByteSWAR checks 8 bytes at a time by broadcasting b across a word
// and looking for a zero byte in the XOR, using the standard
// has-zero-byte bit trick.
func indexByteSWAR(data []byte, b byte) int {
	n := len(data)
	i := 0
	broadcast := uint64(b) * 0x0101010101010101

	for ; i+8 <= n; i += 8 {
		word := binary.LittleEndian.Uint64(data[i:])
		x := word ^ broadcast
		// hasZeroByte(x): non-zero iff some byte of x is 0
		t := (x - 0x0101010101010101) &^ x & 0x8080808080808080
		if t != 0 {
			for j := 0; j < 8; j++ {
				if data[i+j] == b {
					return i + j
				}
			}
		}
	}
	for ; i < n; i++ {
		if data[i] == b {
			return i
		}
	}
	return -1
}
