package stream

import "github.com/coregx/corerx/stream/internal/scan"

// Block is one contiguous, chunk-aligned span of a View's data, handed
// out by FirstBlock/NextBlock without copying: Data aliases the
// underlying Chunk's storage directly.
type Block struct {
	Data    []byte
	Offset  int64 // absolute stream offset of Data[0]
	IsFirst bool
	IsLast  bool
}

// View is a bounded or open-ended window onto a Chain. A bounded view
// spans [Begin, End) and never grows; an open-ended view spans
// [Begin, chain-tail) and automatically tracks the chain as more data is
// appended, per this design's "view that grows with its stream" model.
type View struct {
	chain     *Chain
	begin     int64
	end       int64 // meaningful only when !openEnded
	openEnded bool
}

// NewView returns an open-ended view starting at begin and tracking
// chain's tail offset as it grows.
func NewView(chain *Chain, begin int64) *View {
	return &View{chain: chain, begin: begin, openEnded: true}
}

// NewBoundedView returns a view fixed to [begin, end).
func NewBoundedView(chain *Chain, begin, end int64) *View {
	if end < begin {
		end = begin
	}
	return &View{chain: chain, begin: begin, end: end}
}

// Begin returns the view's starting offset.
func (v *View) Begin() int64 { return v.begin }

// End returns the view's ending offset: the chain's current tail offset
// if the view is open-ended, else its fixed bound.
func (v *View) End() int64 {
	if v.openEnded {
		return v.chain.TailOffset()
	}
	return v.end
}

// IsOpenEnded reports whether the view auto-expands with its chain.
func (v *View) IsOpenEnded() bool { return v.openEnded }

// Size returns how many bytes the view currently spans.
func (v *View) Size() int64 {
	end := v.End()
	if end < v.begin {
		return 0
	}
	return end - v.begin
}

// Available reports how many of the view's bytes are actually present in
// the chain right now (the rest may still be ErrWouldBlock-pending for a
// Mutable chain, or permanently ErrMissingData for trimmed data).
func (v *View) Available() int64 {
	end := v.End()
	if end > v.chain.TailOffset() {
		end = v.chain.TailOffset()
	}
	begin := v.begin
	if begin < v.chain.Head() {
		begin = v.chain.Head()
	}
	if end < begin {
		return 0
	}
	return end - begin
}

// Advance returns a new view with Begin moved forward by n bytes. An
// open-ended view stays open-ended; a bounded view keeps its End fixed
// (so Advance can only shrink it, never grow it past End).
func (v *View) Advance(n int64) *View {
	nv := *v
	nv.begin += n
	if !nv.openEnded && nv.begin > nv.end {
		nv.begin = nv.end
	}
	return &nv
}

// Limit returns a bounded view of at most n bytes starting at Begin,
// truncating an open-ended view or a bounded view that currently spans
// more than n bytes. Never extends a shorter bounded view.
func (v *View) Limit(n int64) *View {
	maxEnd := v.begin + n
	if !v.openEnded && v.end < maxEnd {
		maxEnd = v.end
	}
	return NewBoundedView(v.chain, v.begin, maxEnd)
}

// Sub returns a bounded view of [begin, end), both given as offsets
// absolute within the chain (not relative to v). The result is clamped to
// v's own bounds: it can never extend further than the current view.
func (v *View) Sub(begin, end int64) *View {
	if begin < v.begin {
		begin = v.begin
	}
	if vEnd := v.End(); end > vEnd {
		end = vEnd
	}
	if end < begin {
		end = begin
	}
	return NewBoundedView(v.chain, begin, end)
}

// Trim returns a view with its Begin advanced to offset if offset is
// further along than the view's current Begin; otherwise returns the
// view unchanged. Mirrors Chain.Trim's "never move backward" rule at the
// view level.
func (v *View) Trim(offset int64) *View {
	if offset <= v.begin {
		return v
	}
	return v.Advance(offset - v.begin)
}

// Find scans forward from Begin for the first occurrence of b, returning
// its absolute offset. Returns ErrWouldBlock if b isn't found within the
// data currently available but the chain could still grow into it (view
// is open-ended or its End exceeds what's been trimmed-in); returns found
// == false with no error if the view is bounded, fully available, and
// simply doesn't contain b.
func (v *View) Find(b byte) (offset int64, found bool, err error) {
	limit := v.End()
	if limit > v.chain.TailOffset() {
		limit = v.chain.TailOffset()
	}

	pos := v.begin
	if pos < v.chain.Head() {
		return 0, false, ErrMissingData
	}

	for pos < limit {
		chunk := v.chain.findChunk(pos)
		if chunk == nil {
			break
		}
		chunkEnd := chunk.EndOffset()
		if chunkEnd > limit {
			chunkEnd = limit
		}
		if !chunk.IsGap() {
			slice, serr := chunk.Slice(pos, chunkEnd)
			if serr != nil {
				return 0, false, serr
			}
			if idx := scan.IndexByte(slice, b); idx >= 0 {
				return pos + int64(idx), true, nil
			}
		}
		pos = chunkEnd
	}

	if v.openEnded || v.end > v.chain.TailOffset() {
		return 0, false, ErrWouldBlock
	}
	return 0, false, nil
}

// Direction selects which way View.FindBytes searches.
type Direction int

const (
	// Forward searches from the view's beginning.
	Forward Direction = iota
	// Backward searches from the view's end.
	Backward
)

// byteAt returns the byte at pos, wherever it falls relative to v (it does
// not check pos against v's own bounds, only against the chain's).
func (v *View) byteAt(pos int64) (byte, error) {
	if pos < v.chain.Head() {
		return 0, ErrMissingData
	}
	if pos >= v.chain.TailOffset() {
		return 0, ErrWouldBlock
	}
	chunk := v.chain.findChunk(pos)
	if chunk == nil {
		return 0, ErrWouldBlock
	}
	return chunk.At(pos)
}

// FindBytes searches for the first occurrence of needle, in the given
// direction. Forward searches from Begin; Backward walks the available
// data from the end back towards Begin. If not found going forward, the
// returned offset is the earliest position at which a match could still
// begin once more data arrives: the start of a trailing partial match of
// needle, or the end of the available data if there is none. A caller
// that appends more data and retries from that offset won't miss a match
// straddling the old boundary.
func (v *View) FindBytes(needle []byte, dir Direction) (offset int64, found bool, err error) {
	if len(needle) == 0 {
		return v.begin, true, nil
	}
	if dir == Backward {
		return v.findBackward(needle)
	}
	return v.findForward(needle)
}

func (v *View) findForward(needle []byte) (int64, bool, error) {
	if v.begin < v.chain.Head() {
		return 0, false, ErrMissingData
	}

	limit := v.End()
	tail := v.chain.TailOffset()
	avail := limit
	if avail > tail {
		avail = tail
	}
	n := int64(len(needle))

	pos := v.begin
	for pos < avail {
		span := n
		if avail-pos < span {
			span = avail - pos
		}

		match := true
		for i := int64(0); i < span; i++ {
			b, err := v.byteAt(pos + i)
			if err != nil {
				return 0, false, err
			}
			if b != needle[i] {
				match = false
				break
			}
		}
		if match {
			if span == n {
				return pos, true, nil
			}
			// A partial prefix match reaching the end of available
			// data: this is the earliest position that could still
			// become a match once more data arrives.
			break
		}
		pos++
	}

	if v.openEnded || v.end > tail {
		return pos, false, ErrWouldBlock
	}
	return pos, false, nil
}

func (v *View) findBackward(needle []byte) (int64, bool, error) {
	if v.begin < v.chain.Head() {
		return 0, false, ErrMissingData
	}

	limit := v.End()
	tail := v.chain.TailOffset()
	// A rightmost search can't be trusted until the view's whole span has
	// arrived: an open-ended view could always grow a later occurrence,
	// and a bounded view with its end still pending hasn't exposed its
	// newest data yet, which backward search would need to check first.
	if v.openEnded || limit > tail {
		return 0, false, ErrWouldBlock
	}

	head := v.chain.Head()
	if head < v.begin {
		head = v.begin
	}
	n := int64(len(needle))

	for pos := limit - n; pos >= head; pos-- {
		match := true
		for i := int64(0); i < n; i++ {
			b, err := v.byteAt(pos + i)
			if err != nil {
				return 0, false, err
			}
			if b != needle[i] {
				match = false
				break
			}
		}
		if match {
			return pos, true, nil
		}
	}
	return head, false, nil
}

// AdvanceToNextData returns a new view with Begin moved past the gap
// chunk it currently sits in, or by one byte if it isn't in a gap at
// all — this always advances by at least one byte.
func (v *View) AdvanceToNextData() (*View, error) {
	chunk := v.chain.findChunk(v.begin)
	if chunk == nil {
		if v.begin < v.chain.Head() {
			return nil, ErrMissingData
		}
		return nil, ErrWouldBlock
	}

	next := v.begin + 1
	if chunk.IsGap() {
		next = chunk.EndOffset()
	}
	return v.Advance(next - v.begin), nil
}

// Extract materializes the view's bytes into a single contiguous slice.
// Returns ErrMissingData if any part of the span has been trimmed, or
// ErrWouldBlock if the view's end extends beyond data the chain has
// received so far.
func (v *View) Extract() ([]byte, error) {
	end := v.End()
	if v.begin < v.chain.Head() {
		return nil, ErrMissingData
	}
	if end > v.chain.TailOffset() {
		return nil, ErrWouldBlock
	}
	if end <= v.begin {
		return []byte{}, nil
	}

	out := make([]byte, 0, end-v.begin)
	pos := v.begin
	for pos < end {
		chunk := v.chain.findChunk(pos)
		if chunk == nil {
			return nil, ErrMissingData
		}
		chunkEnd := chunk.EndOffset()
		if chunkEnd > end {
			chunkEnd = end
		}
		slice, err := chunk.Slice(pos, chunkEnd)
		if err != nil {
			return nil, err
		}
		out = append(out, slice...)
		pos = chunkEnd
	}
	return out, nil
}

// FirstBlock returns the first chunk-aligned block of the view's data
// without copying; pass the returned Block to NextBlock to continue. A
// block inside a gap chunk has nil Data. ok is false if the view
// currently has no data available at all.
func (v *View) FirstBlock() (Block, bool, error) {
	return v.blockAt(v.begin)
}

// NextBlock returns the block following one previously returned by
// FirstBlock or NextBlock.
func (v *View) NextBlock(prev Block) (Block, bool, error) {
	next := prev.Offset + int64(len(prev.Data))
	if prev.Data == nil {
		// A gap block carries no data; skip to the end of its chunk.
		if chunk := v.chain.findChunk(prev.Offset); chunk != nil && chunk.IsGap() {
			next = chunk.EndOffset()
		}
	}
	return v.blockAt(next)
}

func (v *View) blockAt(pos int64) (Block, bool, error) {
	end := v.End()
	if end > v.chain.TailOffset() {
		end = v.chain.TailOffset()
	}
	if pos >= end {
		return Block{}, false, nil
	}
	if pos < v.chain.Head() {
		return Block{}, false, ErrMissingData
	}

	chunk := v.chain.findChunk(pos)
	if chunk == nil {
		return Block{}, false, ErrWouldBlock
	}
	chunkEnd := chunk.EndOffset()
	if chunkEnd > end {
		chunkEnd = end
	}

	var data []byte
	if !chunk.IsGap() {
		var err error
		data, err = chunk.Slice(pos, chunkEnd)
		if err != nil {
			return Block{}, false, err
		}
	}

	return Block{
		Data:    data,
		Offset:  pos,
		IsFirst: pos == v.begin,
		IsLast:  chunkEnd >= end,
	}, true, nil
}
