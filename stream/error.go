// Package stream implements a chunked, append-only input abstraction:
// data arrives as a linked chain of immutable Chunks, and callers walk it
// through iterators and Views without ever needing the whole input
// buffered contiguously in memory.
//
// A Chain starts Mutable (chunks may be appended) and is later frozen,
// after which no more data can arrive; trimming data off the front can
// happen at any point in either state. Views are either bounded by two
// iterators or open-ended, in which case they auto-expand to track the
// chain's growth.
package stream

import "errors"

var (
	// ErrMissingData indicates an operation needs data at an offset that
	// can never be read: either it has already been trimmed from the
	// chain, or it lies inside a gap chunk.
	ErrMissingData = errors.New("stream: data not available (trimmed or gap)")

	// ErrWouldBlock indicates an operation needs data beyond what the
	// chain currently holds. On a Mutable chain the data may arrive later;
	// the same error is returned for a Frozen chain, where it cannot.
	// Distinct from ErrMissingData, which is returned for data that was
	// trimmed or is a gap.
	ErrWouldBlock = errors.New("stream: would block waiting for more data")

	// ErrExpired indicates a SafeIterator was used after the chain it was
	// bound to had chunks trimmed out from under its position.
	ErrExpired = errors.New("stream: iterator position has expired")

	// ErrInvalidChain indicates an operation on a Chain or iterator that
	// has been marked Invalid (its owning Stream was closed).
	ErrInvalidChain = errors.New("stream: chain is invalid")

	// ErrFrozen indicates Append was called on a Chain that has already
	// been frozen.
	ErrFrozen = errors.New("stream: cannot append to a frozen chain")

	// ErrDifferentChain indicates two iterators bound to different
	// chains were compared or subtracted.
	ErrDifferentChain = errors.New("stream: iterators belong to different chains")

	// ErrBeforeBeginning indicates a SafeIterator was advanced by a
	// negative amount large enough to take its offset below zero.
	ErrBeforeBeginning = errors.New("stream: offset before beginning")
)
