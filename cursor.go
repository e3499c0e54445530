package ohistory

// Target is the rendering capability set a Cursor replays paragraphs
// into: it never sees raw buffer offsets, only text and attribute
// changes in the order they occurred.
type Target interface {
	EmitText(text []rune)
	SetFont(font int)
	SetTextStyle(style int)
	SetColour(fg, bg, reserved int)
}

// CursorFlags controls how a Cursor is created.
type CursorFlags int

const (
	// FromFront starts the cursor at the Store's front, just past the
	// most recently written paragraph (the default).
	FromFront CursorFlags = 0
	// FromBack starts the cursor at the oldest paragraph still held in
	// the Store.
	FromBack CursorFlags = 1 << 0
	// NoValidation disables the write-invalidation check, for a cursor
	// that is deliberately kept in use while the Store is written to.
	NoValidation CursorFlags = 1 << 1
)

// Rewind status codes returned by RewindParagraph.
const (
	RewindDelivered   = 0
	RewindEndOfBuffer = 1
)

// cursorSnapshot is the entire mutable state of a Cursor, captured
// wholesale by Remember and restored wholesale by Restore.
type cursorSnapshot struct {
	currentParagraphIndex       int
	nofWraparounds              int
	foundEndOfBuffer            bool
	rewoundNewlineTerminated    bool
	metadataEvaluated           bool
	state                       State
	cacheValid                  bool
	cacheBlockIndex             int
	cachedState                 State
	lastParagraphAttributeIndex int
}

// Cursor walks a Store's buffer backwards a paragraph at a time and can
// replay forward segments into a Target. It is a point-in-time snapshot:
// any write to the Store that changes its wrap count or front offset
// invalidates every Cursor not created with NoValidation.
type Cursor struct {
	store              *Store
	target             Target
	validationDisabled bool

	validityWraps uint64
	validityFront int

	snap cursorSnapshot

	saved     cursorSnapshot
	haveSaved bool
}

// NewCursor opens a Cursor against store. It reports (nil, nil) if store
// is nil or empty, matching the "nothing to walk yet" case rather than
// treating it as an error.
func NewCursor(store *Store, target Target, flags CursorFlags) (*Cursor, error) {
	if store == nil || len(store.buf) == 0 {
		return nil, nil
	}
	c := &Cursor{
		store:              store,
		target:             target,
		validationDisabled: flags&NoValidation != 0,
		validityWraps:      store.wraps,
		validityFront:      store.front,
	}
	c.snap.lastParagraphAttributeIndex = -1

	if flags&FromBack != 0 {
		c.snap.currentParagraphIndex = store.back
		c.snap.state = store.backState
		c.snap.foundEndOfBuffer = true
		if store.wraps > 0 {
			c.snap.nofWraparounds = int(store.wraps) - 1
		}
		return c, nil
	}

	// FromFront starts one past the most recently written paragraph:
	// nothing has been rewound yet, so RepeatParagraphs from here would
	// emit nothing. RewindParagraph moves it back one paragraph at a
	// time.
	c.snap.currentParagraphIndex = store.front
	c.snap.state = store.frontState
	return c, nil
}

// Destroy releases the cursor. It exists for symmetry with NewCursor;
// there is nothing for it to free.
func (c *Cursor) Destroy() {}

func (c *Cursor) validate() {
	if c.validationDisabled {
		return
	}
	if c.store.wraps != c.validityWraps || c.store.front != c.validityFront {
		Fatal("history cursor used after its store was written to")
	}
}

// AtFront reports whether the cursor is positioned at the Store's
// current front offset, i.e. it has caught up to live output.
func (c *Cursor) AtFront() bool {
	c.validate()
	return c.store.AtFront(c.snap.currentParagraphIndex)
}

// RewoundParagraphWasNewlineTerminated reports whether the paragraph
// most recently delivered by RewindParagraph ended in an actual
// newline, as opposed to being cut off by the live front (the case for
// text still being composed, with no trailing newline yet).
func (c *Cursor) RewoundParagraphWasNewlineTerminated() bool {
	c.validate()
	return c.snap.rewoundNewlineTerminated
}

// RewindParagraph moves the cursor one paragraph further from front. It
// returns the number of characters in the paragraph just stepped over,
// excluding its trailing newline, the two PARA_ATTR parameters recorded
// for it (zero if none was present), and a status: RewindDelivered on
// success, or RewindEndOfBuffer once the oldest paragraph has already
// been delivered. RewoundParagraphWasNewlineTerminated reports whether
// that trailing newline existed at all.
func (c *Cursor) RewindParagraph() (charCount, pa1, pa2, status int) {
	c.validate()
	if c.snap.foundEndOfBuffer {
		return 0, 0, 0, RewindEndOfBuffer
	}

	index := c.snap.currentParagraphIndex
	wraps := c.snap.nofWraparounds
	var li1, li2, li3 int
	nchars := 0
	first := true
	for {
		li3, li2, li1 = li2, li1, index
		nidx, ok := c.store.decrement(index, &wraps)
		if !ok {
			if first {
				c.snap.foundEndOfBuffer = true
				return 0, 0, 0, RewindEndOfBuffer
			}
			c.snap.currentParagraphIndex = c.store.back
			c.snap.nofWraparounds = wraps
			c.snap.foundEndOfBuffer = true
			c.snap.metadataEvaluated = false
			c.evaluateMetadataForParagraph()
			return nchars, pa1, pa2, RewindDelivered
		}
		index = nidx
		if first {
			first = false
			if c.store.buf[index] == '\n' {
				c.snap.rewoundNewlineTerminated = true
				continue
			}
			// The paragraph is still open (no trailing newline yet):
			// this unit is real content, not a terminator to skip.
			c.snap.rewoundNewlineTerminated = false
		} else if c.store.buf[index] == '\n' {
			break
		}
		nchars++
		if c.store.buf[index] == escapeUnit {
			switch c.store.buf[li1] {
			case typeColourTag:
				nchars -= 4
			case typeParaAttrTag:
				pa1 = int(c.store.buf[li2]) - paramOffset
				pa2 = int(c.store.buf[li3]) - paramOffset
				c.snap.lastParagraphAttributeIndex = li2
				nchars -= 4
			default:
				nchars -= 3
			}
		}
	}
	c.snap.currentParagraphIndex = c.store.advance(index)
	c.snap.nofWraparounds = wraps
	c.snap.metadataEvaluated = false
	c.evaluateMetadataForParagraph()
	return nchars, pa1, pa2, RewindDelivered
}

// evaluateMetadataForParagraph resolves the State in effect at the start
// of the paragraph the cursor currently sits on, scanning backwards at
// most one StateBlockSize block (since Store forces a fresh
// FONT/STYLE/COLOUR triple at every block boundary) and caching the
// result per block so that repeated rewinds within the same block don't
// rescan.
func (c *Cursor) evaluateMetadataForParagraph() {
	if c.snap.metadataEvaluated {
		return
	}
	idx := c.snap.currentParagraphIndex
	blockIndex := idx - (idx % StateBlockSize)

	if c.snap.cacheValid && c.snap.cacheBlockIndex == blockIndex {
		c.snap.state = c.snap.cachedState
		c.snap.metadataEvaluated = true
		return
	}

	font, style, fg, bg := unset, unset, ColourUndefined, ColourUndefined
	wraps := c.snap.nofWraparounds
	index := idx
	var i2, i3, i4 int

	for font == unset || style == unset || fg == ColourUndefined || bg == ColourUndefined {
		i4, i3, i2 = i3, i2, index
		nidx, ok := c.store.decrement(index, &wraps)
		if !ok {
			if font == unset {
				font = c.store.backState.Font
			}
			if style == unset {
				style = c.store.backState.Style
			}
			if fg == ColourUndefined {
				fg = c.store.backState.Fg
			}
			if bg == ColourUndefined {
				bg = c.store.frontState.Bg
			}
			break
		}
		index = nidx
		if c.store.buf[index] == escapeUnit {
			tag := c.store.buf[i2]
			param := int(c.store.buf[i3]) - paramOffset
			switch {
			case tag == typeFontTag && font == unset:
				font = param
			case tag == typeStyleTag && style == unset:
				style = param
			case tag == typeColourTag && (fg == ColourUndefined || bg == ColourUndefined):
				fg = param
				bg = int(c.store.buf[i4]) - paramOffset
			}
		}
	}

	c.snap.state = State{Font: font, Style: style, Fg: fg, Bg: bg}
	c.snap.cachedState = c.snap.state
	c.snap.cacheBlockIndex = blockIndex
	c.snap.cacheValid = true
	c.snap.metadataEvaluated = true
}

// RepeatParagraphs replays up to n paragraphs forward from the cursor's
// current position into its Target, in one or more EmitText calls
// staged through a fixed RepeatParagraphBufSize buffer. If
// includeMetadata is set, SetFont/SetTextStyle/SetColour are called as
// records are crossed; otherwise only the initial State is applied. If
// advance is set, the cursor's position moves past what was delivered,
// and if that lands it on the Store's front,
// RewoundParagraphWasNewlineTerminated is refreshed from the byte just
// behind it. It returns the number of paragraphs that could not be
// delivered because front was reached first.
func (c *Cursor) RepeatParagraphs(n int, includeMetadata, advance bool) int {
	c.validate()
	if includeMetadata {
		c.evaluateMetadataForParagraph()
	}
	ptr := c.snap.currentParagraphIndex

	c.target.SetFont(c.snap.state.Font)
	c.target.SetTextStyle(c.snap.state.Style)
	c.target.SetColour(c.snap.state.Fg, c.snap.state.Bg, -1)

	if advance {
		c.snap.foundEndOfBuffer = false
	}

	buf := make([]rune, 0, RepeatParagraphBufSize)
	flush := func() {
		if len(buf) > 0 {
			c.target.EmitText(buf)
			buf = buf[:0]
		}
	}

	for n > 0 && ptr != c.store.front {
		if c.store.buf[ptr] == escapeUnit {
			flush()
			ptr = c.store.advance(ptr)
			tag := c.store.buf[ptr]
			ptr = c.store.advance(ptr)
			paramIdx := ptr
			p1 := int(c.store.buf[ptr]) - paramOffset
			switch tag {
			case typeFontTag:
				c.snap.state.Font = p1
				if includeMetadata {
					c.target.SetFont(p1)
				}
			case typeStyleTag:
				c.snap.state.Style = p1
				if includeMetadata {
					c.target.SetTextStyle(p1)
				}
			case typeColourTag:
				ptr = c.store.advance(ptr)
				p2 := int(c.store.buf[ptr]) - paramOffset
				c.snap.state.Fg = p1
				c.snap.state.Bg = p2
				if includeMetadata {
					c.target.SetColour(p1, p2, -1)
				}
			case typeParaAttrTag:
				ptr = c.store.advance(ptr)
				c.snap.lastParagraphAttributeIndex = paramIdx
			default:
				Fatal("invalid metadata type %d while repeating paragraphs", tag)
			}
			ptr = c.store.advance(ptr)
			continue
		}

		buf = append(buf, c.store.buf[ptr])
		atNewline := c.store.buf[ptr] == '\n'
		ptr = c.store.advance(ptr)
		if atNewline {
			n--
		}
		if len(buf) == RepeatParagraphBufSize || n == 0 {
			flush()
		}
	}
	flush()

	if advance {
		c.snap.currentParagraphIndex = ptr
		if ptr == c.store.front {
			prev := ptr - 1
			if prev < 0 {
				prev = len(c.store.buf) - 1
			}
			c.snap.rewoundNewlineTerminated = c.store.buf[prev] == '\n'
		}
	}

	if n < 0 {
		return 0
	}
	return n
}

// Remember snapshots the cursor's entire mutable state so a later call
// to Restore can undo any RewindParagraph/RepeatParagraphs since.
func (c *Cursor) Remember() {
	c.validate()
	c.saved = c.snap
	c.haveSaved = true
}

// Restore returns the cursor to the position captured by the most
// recent Remember. It is a no-op if Remember was never called.
func (c *Cursor) Restore() {
	c.validate()
	if c.haveSaved {
		c.snap = c.saved
	}
}

// AlterLastParagraphAttributes rewrites the PARA_ATTR record most
// recently crossed by this cursor in place. It returns
// ErrNoParagraphAttribute if the cursor hasn't crossed one yet.
func (c *Cursor) AlterLastParagraphAttributes(a1, a2 int) error {
	c.validate()
	if c.snap.lastParagraphAttributeIndex < 0 {
		return ErrNoParagraphAttribute
	}
	c.store.alterParagraphAttributesAt(c.snap.lastParagraphAttributeIndex, a1, a2)
	return nil
}
