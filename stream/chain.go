package stream

import "fmt"

// ChainState is the lifecycle state of a Chain.
type ChainState uint8

const (
	// Mutable chains accept further Append calls.
	Mutable ChainState = iota
	// Frozen chains have received all their data; Append now fails.
	// Trim still works.
	Frozen
	// Invalid chains belong to a Stream that has been closed; every
	// operation on them fails with ErrInvalidChain.
	Invalid
)

func (s ChainState) String() string {
	switch s {
	case Mutable:
		return "mutable"
	case Frozen:
		return "frozen"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Statistics accumulates counts of data that has ever passed through a
// Chain. Unlike the Chain's head offset and chunk list, these counters
// never decrease: trimming data out of the chain does not erase it from
// the statistics, since the bytes genuinely were seen.
type Statistics struct {
	NumDataBytes  int64
	NumDataChunks int64
	NumGapBytes   int64
	NumGapChunks  int64
}

// Merge adds other's counts into s, for combining statistics from chains
// that have been spliced together or reported independently.
func (s *Statistics) Merge(other Statistics) {
	s.NumDataBytes += other.NumDataBytes
	s.NumDataChunks += other.NumDataChunks
	s.NumGapBytes += other.NumGapBytes
	s.NumGapChunks += other.NumGapChunks
}

// Chain is a linked list of Chunks representing one logical stream of
// input. New data is appended at the tail; consumed data is trimmed from
// the head. head reflects the offset of the earliest byte the chain
// still has available — trimmed bytes are gone for good: a SafeIterator
// still pointing at them reports ErrExpired, while an UnsafeIterator or
// a View reading them gets ErrMissingData.
type Chain struct {
	state ChainState

	head *Chunk // first chunk still linked, or nil if chain is empty
	tail *Chunk // last chunk linked, for O(1) Append

	headOffset int64 // offset of the first byte still available
	tailOffset int64 // offset one past the last byte ever appended

	stats Statistics
}

// NewChain creates an empty, Mutable chain starting at absolute offset 0.
func NewChain() *Chain {
	return &Chain{}
}

// State returns the chain's current lifecycle state.
func (c *Chain) State() ChainState { return c.state }

// Size returns how many bytes are currently available between Head and
// the tail offset (i.e. not yet trimmed).
func (c *Chain) Size() int64 {
	return c.tailOffset - c.headOffset
}

// Head returns the offset of the earliest byte still available in the
// chain (data before this has been trimmed and is unrecoverable).
func (c *Chain) Head() int64 { return c.headOffset }

// TailOffset returns the offset one past the last byte ever appended.
func (c *Chain) TailOffset() int64 { return c.tailOffset }

// Statistics returns a snapshot of the chain's cumulative byte/chunk
// counts.
func (c *Chain) Statistics() Statistics { return c.stats }

// IsEmpty reports whether the chain currently holds no available bytes.
func (c *Chain) IsEmpty() bool { return c.headOffset == c.tailOffset }

// Append links a new data chunk onto the tail of the chain. owning
// indicates whether data is already an exclusive copy; if not, the chunk
// is created non-owning and aliases data directly until the next Append
// or AppendGap call forces it to copy via MakeOwning, since only the
// last chunk in a chain may stay non-owning.
func (c *Chain) Append(data []byte, owning bool) error {
	if c.state == Invalid {
		return ErrInvalidChain
	}
	if c.state == Frozen {
		return ErrFrozen
	}
	if len(data) == 0 {
		return nil
	}

	chunk := newDataChunk(c.tailOffset, data, owning)
	c.link(chunk)

	c.stats.NumDataBytes += int64(len(data))
	c.stats.NumDataChunks++
	return nil
}

// AppendGap links a gap of length bytes onto the tail of the chain,
// advancing TailOffset without holding any actual content for that span.
func (c *Chain) AppendGap(length int) error {
	if c.state == Invalid {
		return ErrInvalidChain
	}
	if c.state == Frozen {
		return ErrFrozen
	}
	if length <= 0 {
		return nil
	}

	chunk := newGapChunk(c.tailOffset, length)
	c.link(chunk)

	c.stats.NumGapBytes += int64(length)
	c.stats.NumGapChunks++
	return nil
}

// link appends chunk as the new tail. Only the last chunk in a chain may
// be non-owning, so whatever was the tail until now must become owning
// before it stops being last.
func (c *Chain) link(chunk *Chunk) {
	if c.tail != nil {
		c.tail.MakeOwning()
		c.tail.next = chunk
	} else {
		c.head = chunk
	}
	c.tail = chunk
	c.tailOffset = chunk.EndOffset()
}

// Freeze marks the chain as having received all its data. Further Append
// or AppendGap calls fail with ErrFrozen; Trim still works.
func (c *Chain) Freeze() error {
	if c.state == Invalid {
		return ErrInvalidChain
	}
	c.state = Frozen
	return nil
}

// Invalidate marks the chain Invalid, as if its owning Stream had been
// closed. Every subsequent operation on the chain or any iterator bound
// to it fails with ErrInvalidChain.
func (c *Chain) Invalidate() {
	c.state = Invalid
}

// IsFrozen reports whether the chain is Frozen or, trivially, Invalid
// (an invalid chain can no longer accept data either).
func (c *Chain) IsFrozen() bool {
	return c.state == Frozen || c.state == Invalid
}

// Trim discards every chunk (or partial chunk) entirely before offset,
// advancing Head to offset. offset must be >= Head; trimming never moves
// Head backwards. Trimming beyond TailOffset is an error — a chain can
// only discard data it has actually seen.
func (c *Chain) Trim(offset int64) error {
	if c.state == Invalid {
		return ErrInvalidChain
	}
	if offset <= c.headOffset {
		return nil
	}
	if offset > c.tailOffset {
		return fmt.Errorf("stream: trim offset %d beyond tail offset %d", offset, c.tailOffset)
	}

	for c.head != nil && c.head.EndOffset() <= offset {
		c.head = c.head.next
	}
	if c.head == nil {
		c.tail = nil
	}
	c.headOffset = offset
	return nil
}

// findChunk locates the chunk containing offset, or nil if offset has
// been trimmed or is beyond the tail. Linear in the number of chunks
// currently linked, matching the original design's walk-from-head
// lookup (chains are expected to be short-lived and chunk counts small
// relative to chunk sizes).
func (c *Chain) findChunk(offset int64) *Chunk {
	if offset < c.headOffset || offset >= c.tailOffset {
		return nil
	}
	for cur := c.head; cur != nil; cur = cur.next {
		if cur.Contains(offset) {
			return cur
		}
	}
	return nil
}
