package stream

// Chunk is one immutable, contiguously-stored span of a stream, positioned
// at a fixed offset from the start of the chain it belongs to. Chunks are
// linked into a singly-linked list by Chain.Append; once linked, a
// chunk's Offset, Size and content never change — only Next can move
// forward, as later chunks are appended and earlier ones trimmed.
//
// A gap chunk represents a span of the stream whose bytes are known to
// exist (they count towards offsets and Size) but were never provided —
// e.g. a byte range the producer explicitly skipped. Its data is nil and
// any attempt to read it returns ErrMissingData.
type Chunk struct {
	offset   int64
	data     []byte
	gapLen   int
	isGap    bool
	// owning is a holdover from the non-owning-buffer origins of this
	// design (the stream this is modeled on lets a Chunk wrap caller
	// memory it didn't copy). In Go, where the garbage collector keeps
	// any referenced slice alive for as long as something points into
	// it, "non-owning" only means "this chunk shares backing storage
	// with something the caller also holds a handle to" — MakeOwning
	// takes its own copy so later writes through that other handle
	// can't be observed here.
	owning bool
	next   *Chunk
}

// newDataChunk builds a chunk holding data verbatim (no copy) starting at
// offset. owning marks whether this chunk already has exclusive title to
// data's backing array.
func newDataChunk(offset int64, data []byte, owning bool) *Chunk {
	return &Chunk{offset: offset, data: data, owning: owning}
}

// newGapChunk builds a gap chunk of length bytes starting at offset.
func newGapChunk(offset int64, length int) *Chunk {
	if length < 0 {
		length = 0
	}
	return &Chunk{offset: offset, isGap: true, owning: true, gapLen: length}
}

// Offset returns the chunk's starting position within its chain.
func (c *Chunk) Offset() int64 { return c.offset }

// Size returns how many bytes the chunk spans, whether data-backed or a
// gap.
func (c *Chunk) Size() int {
	if c.isGap {
		return c.gapLen
	}
	return len(c.data)
}

// EndOffset returns the offset one past the chunk's last byte.
func (c *Chunk) EndOffset() int64 {
	return c.offset + int64(c.Size())
}

// IsGap reports whether this chunk represents a span of skipped data.
func (c *Chunk) IsGap() bool { return c.isGap }

// IsOwning reports whether the chunk holds an exclusive copy of its data.
func (c *Chunk) IsOwning() bool { return c.owning }

// IsLast reports whether this is the final chunk currently linked into
// its chain. Appending to the chain can turn a last chunk into a
// non-last one.
func (c *Chunk) IsLast() bool { return c.next == nil }

// Next returns the chunk following this one, or nil if this is the last
// chunk linked so far.
func (c *Chunk) Next() *Chunk { return c.next }

// Contains reports whether offset falls within [Offset, EndOffset).
func (c *Chunk) Contains(offset int64) bool {
	return offset >= c.offset && offset < c.EndOffset()
}

// At returns the byte at the given absolute offset. offset must satisfy
// Contains(offset); callers are expected to have located the right chunk
// first (via Chain.findChunk), mirroring the direct-index access pattern
// this design assumes once a chunk is in hand.
func (c *Chunk) At(offset int64) (byte, error) {
	if c.isGap {
		return 0, ErrMissingData
	}
	return c.data[offset-c.offset], nil
}

// Slice returns the sub-slice of the chunk's data spanning the absolute
// offset range [from, to). Both bounds must fall within the chunk.
func (c *Chunk) Slice(from, to int64) ([]byte, error) {
	if c.isGap {
		return nil, ErrMissingData
	}
	lo := from - c.offset
	hi := to - c.offset
	return c.data[lo:hi], nil
}

// MakeOwning ensures the chunk holds an exclusive copy of its data,
// copying lazily (only on first call) if it doesn't already. Mirrors the
// original design's "promote to owning on demand" rule used when a chunk
// needs to outlive the caller-supplied buffer it was built from.
func (c *Chunk) MakeOwning() {
	if c.owning || c.isGap {
		return
	}
	owned := make([]byte, len(c.data))
	copy(owned, c.data)
	c.data = owned
	c.owning = true
}
