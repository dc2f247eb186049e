package stream

// UnsafeIterator walks a Chain by raw offset, caching a direct pointer to
// the chunk it currently sits in for O(1) dereference and advance in the
// common case of staying within one chunk. It performs none of
// SafeIterator's cross-chain or expiry checks: the caller must guarantee
// the chain outlives the iterator and that trimmed offsets are never
// dereferenced. Intended for hot inner loops (e.g. the DFA matcher
// driving input one codepoint at a time) where the safety checks would
// dominate the cost of the loop body.
type UnsafeIterator struct {
	chain  *Chain
	offset int64
	chunk  *Chunk // cached chunk containing offset, or nil if unknown/past-end
}

// NewUnsafeIterator returns an iterator positioned at offset within
// chain. offset must currently be available (not trimmed, not beyond the
// tail) or the first dereference will fail.
func NewUnsafeIterator(chain *Chain, offset int64) *UnsafeIterator {
	it := &UnsafeIterator{chain: chain, offset: offset}
	it.chunk = chain.findChunk(offset)
	return it
}

// Offset returns the iterator's current absolute stream offset.
func (it *UnsafeIterator) Offset() int64 { return it.offset }

// IsEnd reports whether the iterator has advanced to or past the
// chain's current tail offset.
func (it *UnsafeIterator) IsEnd() bool { return it.offset >= it.chain.tailOffset }

// Deref returns the byte at the iterator's current position.
func (it *UnsafeIterator) Deref() (byte, error) {
	if it.chunk == nil || !it.chunk.Contains(it.offset) {
		it.chunk = it.chain.findChunk(it.offset)
	}
	if it.chunk == nil {
		if it.offset < it.chain.headOffset {
			return 0, ErrMissingData
		}
		return 0, ErrWouldBlock
	}
	return it.chunk.At(it.offset)
}

// Advance moves the iterator forward by n bytes (n may be negative to
// move backward, as long as the result stays >= the chain's head).
func (it *UnsafeIterator) Advance(n int64) {
	it.offset += n
	if it.chunk != nil && !it.chunk.Contains(it.offset) {
		if it.chunk.next != nil && it.chunk.next.Contains(it.offset) {
			it.chunk = it.chunk.next
		} else {
			it.chunk = nil // re-resolved lazily on next Deref
		}
	}
}

// SafeIterator walks a Chain the same way UnsafeIterator does, but binds
// to the chain by reference and validates on every operation: dereferencing
// or advancing an iterator whose chain has gone Invalid, or whose current
// offset has been trimmed out from under it, returns an error instead of
// reading garbage.
type SafeIterator struct {
	chain  *Chain
	offset int64
	unset  bool
}

// NewSafeIterator returns a safe iterator positioned at offset within
// chain.
func NewSafeIterator(chain *Chain, offset int64) *SafeIterator {
	return &SafeIterator{chain: chain, offset: offset}
}

// IsUnset reports whether the iterator was default-constructed (bound to
// no chain).
func (it *SafeIterator) IsUnset() bool { return it.chain == nil || it.unset }

// IsExpired reports whether the iterator's position has been trimmed
// from its chain.
func (it *SafeIterator) IsExpired() bool {
	if it.IsUnset() {
		return false
	}
	return it.offset < it.chain.headOffset
}

func (it *SafeIterator) ensureValid() error {
	if it.IsUnset() {
		return ErrInvalidChain
	}
	if it.chain.state == Invalid {
		return ErrInvalidChain
	}
	if it.IsExpired() {
		return ErrExpired
	}
	return nil
}

func (it *SafeIterator) ensureSameChain(other *SafeIterator) error {
	if it.chain != other.chain {
		return ErrDifferentChain
	}
	return nil
}

// Offset returns the iterator's current absolute stream offset.
func (it *SafeIterator) Offset() int64 { return it.offset }

// IsEnd reports whether the iterator sits at or past its chain's current
// tail offset.
func (it *SafeIterator) IsEnd() bool {
	if it.IsUnset() {
		return true
	}
	return it.offset >= it.chain.tailOffset
}

// Deref returns the byte at the iterator's current position, validating
// the chain and offset first.
func (it *SafeIterator) Deref() (byte, error) {
	if err := it.ensureValid(); err != nil {
		return 0, err
	}
	chunk := it.chain.findChunk(it.offset)
	if chunk == nil {
		return 0, ErrWouldBlock
	}
	return chunk.At(it.offset)
}

// Advance moves the iterator forward by n bytes, validating first. n may
// be negative to move backward, but the result may never go below 0.
func (it *SafeIterator) Advance(n int64) error {
	if err := it.ensureValid(); err != nil {
		return err
	}
	if it.offset+n < 0 {
		return ErrBeforeBeginning
	}
	it.offset += n
	return nil
}

// Sub returns the number of bytes between it and other (it - other).
// Both iterators must belong to the same chain.
func (it *SafeIterator) Sub(other *SafeIterator) (int64, error) {
	if err := it.ensureSameChain(other); err != nil {
		return 0, err
	}
	return it.offset - other.offset, nil
}

// Equal reports whether it and other are at the same offset in the same
// chain.
func (it *SafeIterator) Equal(other *SafeIterator) bool {
	return it.chain == other.chain && it.offset == other.offset
}

// Less reports whether it sits before other. Both must share a chain.
func (it *SafeIterator) Less(other *SafeIterator) (bool, error) {
	if err := it.ensureSameChain(other); err != nil {
		return false, err
	}
	return it.offset < other.offset, nil
}
