package ohistory

import "fmt"

// StateBlockSize is the offset granularity at which Store forces a fresh
// FONT/STYLE/COLOUR triple into the buffer, bounding how far a Cursor
// ever has to scan backwards to resolve a paragraph's starting State.
const StateBlockSize = 256

// RepeatParagraphBufSize bounds how much text RepeatParagraphs stages
// before handing it to the Target in one EmitText call. It matches the
// fixed-size staging buffer of the interpreter this package is modelled
// on, rather than growing without bound for a single very long line.
const RepeatParagraphBufSize = 1280

// ParagraphRemovalFunc is invoked once for every ParaAttrRecord that
// falls off the back of the live region, so callers can keep their own
// paragraph-indexed bookkeeping (e.g. line numbers) in sync with the
// buffer.
type ParagraphRemovalFunc func(a1, a2 int)

// Store is a bounded, wrap-around buffer of rendered output interleaved
// with in-band font/style/colour/paragraph-attribute metadata, for a
// single interpreter window.
type Store struct {
	buf       []rune
	maxSize   int
	increment int

	front int
	back  int
	wraps uint64

	frontState State
	backState  State

	lastMetadataBlockIndex int

	nextNewlineAfterBack int
	haveNextNewline      bool

	removal ParagraphRemovalFunc
}

// NewStore creates an empty Store for one window. maxSize bounds how
// large the underlying buffer may grow; increment is the step size used
// when growing it. fg, bg, font and style seed both the front and back
// running State, since the buffer starts with no recorded history.
func NewStore(maxSize, increment int, fg, bg, font, style int) *Store {
	st := State{Font: font, Style: style, Fg: fg, Bg: bg}
	return &Store{
		maxSize:    maxSize,
		increment:  increment,
		frontState: st,
		backState:  st,
	}
}

// SetParagraphRemovalFunc installs the callback invoked whenever a
// PARA_ATTR record is dropped off the back of the live region.
func (s *Store) SetParagraphRemovalFunc(fn ParagraphRemovalFunc) {
	s.removal = fn
}

// Destroy releases the buffer. It is idempotent.
func (s *Store) Destroy() {
	s.buf = nil
	s.front, s.back, s.wraps = 0, 0, 0
}

// AllocatedSize returns the buffer's current usable capacity in code
// units (not counting any implementation scratch space).
func (s *Store) AllocatedSize() int { return len(s.buf) }

// SpaceUsed returns how many code units of the live region are
// currently occupied.
func (s *Store) SpaceUsed() int {
	if len(s.buf) == 0 {
		return 0
	}
	if s.wraps == 0 {
		return s.front - s.back
	}
	return len(s.buf) - (s.back - s.front)
}

// SpaceAvailable returns how many code units can still be written before
// the buffer must wrap or grow.
func (s *Store) SpaceAvailable() int {
	if len(s.buf) == 0 {
		return 0
	}
	if s.wraps == 0 {
		return len(s.buf) - s.front
	}
	return s.back - s.front
}

// advance moves offset p one position forward, wrapping from the end of
// the buffer back to its start.
func (s *Store) advance(p int) int {
	if p == len(s.buf)-1 {
		return 0
	}
	return p + 1
}

// decrement moves offset p one position backward, wrapping through the
// buffer's start/end and adjusting localWraps. It reports false once the
// walk has reached the end of the live region and cannot go further.
func (s *Store) decrement(p int, localWraps *int) (int, bool) {
	if p == s.back && p == s.front && *localWraps > 0 {
		return 0, false
	}
	if p == 0 {
		if s.wraps == 0 {
			return 0, false
		}
		*localWraps--
		return len(s.buf) - 1, true
	}
	return p - 1, true
}

// tryGrow reallocates the buffer to hold at least target code units,
// capped at maxSize, preserving every offset already recorded against
// it. Growth always succeeds up to maxSize; it is a no-op once the
// buffer has reached that cap.
func (s *Store) tryGrow(target int) {
	if target > s.maxSize {
		target = s.maxSize
	}
	if target <= len(s.buf) {
		return
	}
	next := make([]rune, target)
	copy(next, s.buf)
	s.buf = next
}

// drainBack scans the next k code units past the back of the live
// region, rolling any FONT/STYLE/COLOUR record it crosses into backState
// and invoking the paragraph-removal callback for every PARA_ATTR record
// it crosses, before those units are overwritten by an incoming write.
func (s *Store) drainBack(k int) {
	if k <= 0 {
		return
	}
	idx := s.back
	remaining := k
	for {
		if s.haveNextNewline && s.nextNewlineAfterBack == idx {
			s.haveNextNewline = false
		}
		if s.buf[idx] == escapeUnit {
			idx = s.advance(idx)
			remaining--
			tag := s.buf[idx]
			switch tag {
			case escapeUnit:
				// A literal escape can't occur in real text; ignore.
			case typeFontTag:
				idx = s.advance(idx)
				remaining--
				s.backState.Font = int(s.buf[idx]) - paramOffset
			case typeStyleTag:
				idx = s.advance(idx)
				remaining--
				s.backState.Style = int(s.buf[idx]) - paramOffset
			case typeColourTag:
				idx = s.advance(idx)
				remaining--
				s.backState.Fg = int(s.buf[idx]) - paramOffset
				idx = s.advance(idx)
				remaining--
				s.backState.Bg = int(s.buf[idx]) - paramOffset
			case typeParaAttrTag:
				idx = s.advance(idx)
				remaining--
				a1 := int(s.buf[idx]) - paramOffset
				idx = s.advance(idx)
				remaining--
				a2 := int(s.buf[idx]) - paramOffset
				if s.removal != nil && !s.haveNextNewline {
					s.removal(a1, a2)
				}
			default:
				Fatal("corrupt metadata type %d found while draining history buffer", tag)
			}
		}
		idx = s.advance(idx)
		remaining--
		if remaining <= 0 {
			break
		}
	}

	if s.haveNextNewline {
		return
	}
	s.nextNewlineAfterBack = idx
	s.haveNextNewline = true
	for s.buf[idx] != '\n' {
		if idx == s.front {
			break
		}
		idx = s.advance(idx)
		if s.buf[idx] == escapeUnit {
			idx = s.advance(idx)
			tag := s.buf[idx]
			idx = s.advance(idx)
			p1 := s.buf[idx]
			if tag == typeColourTag || tag == typeParaAttrTag {
				idx = s.advance(idx)
				p2 := s.buf[idx]
				if tag == typeParaAttrTag && s.removal != nil {
					s.removal(int(p1)-paramOffset, int(p2)-paramOffset)
				}
			}
		}
	}
	s.nextNewlineAfterBack = idx
}

// StoreChars appends raw code units to the buffer, draining and growing
// as necessary. evaluateStateBlock controls whether this write may
// trigger the periodic FONT/STYLE/COLOUR anchor; writer-facing calls
// pass true, metadata-record writes pass false so that writing an anchor
// can't recursively trigger another one.
func (s *Store) StoreChars(data []rune, evaluateStateBlock bool) {
	if len(data) == 0 {
		return
	}

	if len(data) >= s.maxSize {
		s.drainBack(s.SpaceUsed())
		if len(s.buf) < s.maxSize {
			s.tryGrow(s.maxSize)
		}
		tail := data[len(data)-len(s.buf):]
		copy(s.buf, tail)
		s.back = 0
		s.front = 0
		s.wraps++
		if evaluateStateBlock {
			s.maybeWriteStateBlock()
		}
		return
	}

	if s.SpaceAvailable() < len(data) {
		missing := len(data) - s.SpaceAvailable()
		steps := missing/s.increment + 1
		desired := len(s.buf) + steps*s.increment
		if desired > s.maxSize {
			desired = s.maxSize
		}
		if desired > len(s.buf) {
			s.tryGrow(desired)
		}
	}
	if len(s.buf) < len(data) {
		// Still too small even at maxSize: only the tail fits.
		data = data[len(data)-len(s.buf):]
	}

	if s.wraps == 0 {
		spaceToEnd := len(s.buf) - s.front
		writeLen := len(data)
		if writeLen > spaceToEnd {
			writeLen = spaceToEnd
		}
		if writeLen > 0 {
			copy(s.buf[s.front:], data[:writeLen])
			s.front += writeLen
		}
		data = data[writeLen:]
		if len(data) == 0 {
			if evaluateStateBlock {
				s.maybeWriteStateBlock()
			}
			return
		}
		s.wraps++
		s.front = 0
	}

	for len(data) > 0 {
		writeLen := len(data)
		if s.front+writeLen > len(s.buf) {
			writeLen = len(s.buf) - s.front
		}
		s.drainBack(writeLen)
		copy(s.buf[s.front:], data[:writeLen])
		s.front += writeLen
		if s.front == len(s.buf) {
			s.front = 0
		}
		data = data[writeLen:]
		s.back = s.front
	}

	if evaluateStateBlock {
		s.maybeWriteStateBlock()
	}
}

// StoreText is StoreChars for ordinary rendered text.
func (s *Store) StoreText(text []rune) {
	s.StoreChars(text, true)
}

// StoreMetadata appends a FONT, STYLE, COLOUR or PARA_ATTR record. For
// FontRecord and StyleRecord, p2 is ignored. FONT/STYLE/COLOUR also
// immediately update the running frontState; PARA_ATTR carries opaque
// caller-defined values and has no effect on frontState.
func (s *Store) StoreMetadata(kind MetadataKind, p1, p2 int) error {
	switch kind {
	case FontRecord:
		s.frontState.Font = p1
	case StyleRecord:
		s.frontState.Style = p1
	case ColourRecord:
		if p1 < ColourUndefined || p1 > 15 || p2 < ColourUndefined || p2 > 15 {
			Fatal("colour parameters (%d, %d) outside the valid range [-2,15]", p1, p2)
		}
		s.frontState.Fg = p1
		s.frontState.Bg = p2
	case ParaAttrRecord:
		// Stored verbatim; does not affect running state.
	default:
		return fmt.Errorf("%w: %d", ErrUnknownMetadataKind, kind)
	}
	s.StoreChars(encodeRecord(kind, p1, p2), false)
	return nil
}

// maybeWriteStateBlock forces a fresh FONT/STYLE/COLOUR triple reflecting
// backState whenever front has crossed into a new StateBlockSize-sized
// block since the last one was written, bounding how far back a Cursor
// ever needs to scan to resolve a paragraph's starting attributes.
func (s *Store) maybeWriteStateBlock() {
	blockIndex := s.front - (s.front % StateBlockSize)
	if blockIndex == s.lastMetadataBlockIndex {
		return
	}
	s.lastMetadataBlockIndex = blockIndex
	st := s.backState
	s.StoreMetadata(FontRecord, st.Font, 0)
	s.StoreMetadata(StyleRecord, st.Style, 0)
	s.StoreMetadata(ColourRecord, st.Fg, st.Bg)
}

// RemoveChars walks front back by n logical characters, skipping over
// (and not counting) any metadata record it crosses, shrinking the live
// region without emitting a removal callback for any PARA_ATTR it
// crosses. It exists to let a caller discard preloaded input echoed into
// the history before the player has actually seen it.
func (s *Store) RemoveChars(n int) error {
	if n <= 0 || len(s.buf) == 0 {
		return nil
	}
	p := s.front
	localWraps := int(s.wraps)
	var lastUnit rune
	remaining := n
	for remaining > 0 {
		np, ok := s.decrement(p, &localWraps)
		if !ok {
			return ErrCannotRewind
		}
		p = np
		cur := s.buf[p]
		if cur == escapeUnit && lastUnit != 0 {
			remaining += recordWidth(lastUnit)
		} else {
			lastUnit = cur
			remaining--
		}
	}
	s.front = p
	s.wraps = uint64(localWraps)
	return nil
}

// AtFront reports whether offset p is the Store's current front offset.
func (s *Store) AtFront(p int) bool { return p == s.front }

// alterParagraphAttributesAt rewrites the two parameters of a PARA_ATTR
// record already in the buffer in place, used by a Cursor to update the
// attributes of the last paragraph it passed without appending a new
// record.
func (s *Store) alterParagraphAttributesAt(idx, a1, a2 int) {
	s.buf[idx] = rune(a1 + paramOffset)
	idx = s.advance(idx)
	s.buf[idx] = rune(a2 + paramOffset)
}
