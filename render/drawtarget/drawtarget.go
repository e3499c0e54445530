// Package drawtarget adapts edwood's own Display/Image/Font abstraction
// (the root-level draw package, backed by either 9fans.net/go/draw or
// github.com/ktye/duitdraw depending on build tag) into an
// ohistory.Target, so a replayed paragraph can actually be painted
// rather than merely collected.
package drawtarget

import (
	"image"
	"unicode/utf8"

	"github.com/fizmo-if/ohistory"
	"github.com/fizmo-if/ohistory/draw"
)

// Config wires a DrawTarget to a destination image and the font/colour
// palettes the history's FONT/STYLE/COLOUR records index into. Fonts and
// Colours are looked up by the integer the interpreter used when it
// called Store.StoreMetadata; a missing entry keeps whatever was
// selected previously rather than panicking, since an interpreter may
// reference fonts a particular frontend never bothered to load.
type Config struct {
	Dst     draw.Image
	Fonts   map[int]draw.Font
	Colours map[int]draw.Image

	DefaultFont draw.Font
	DefaultFg   draw.Image
	DefaultBg   draw.Image

	Origin     image.Point
	LineHeight int
}

// DrawTarget paints replayed paragraphs into a destination image,
// tracking a pen position the way rich.Frame tracks its own cursor.
type DrawTarget struct {
	cfg  Config
	pen  image.Point
	font draw.Font
	fg   draw.Image
	bg   draw.Image
}

// New creates a DrawTarget positioned at cfg.Origin.
func New(cfg Config) *DrawTarget {
	t := &DrawTarget{
		cfg:  cfg,
		pen:  cfg.Origin,
		font: cfg.DefaultFont,
		fg:   cfg.DefaultFg,
		bg:   cfg.DefaultBg,
	}
	return t
}

// Pen reports the current paint position.
func (t *DrawTarget) Pen() image.Point { return t.pen }

func (t *DrawTarget) lineHeight() int {
	if t.cfg.LineHeight > 0 {
		return t.cfg.LineHeight
	}
	if t.font != nil {
		return t.font.Height()
	}
	return 1
}

// SetFont implements ohistory.Target.
func (t *DrawTarget) SetFont(font int) {
	if f, ok := t.cfg.Fonts[font]; ok {
		t.font = f
	}
}

// SetTextStyle implements ohistory.Target. Bold/italic/reverse variants
// are expected to be registered as distinct fonts under SetFont by the
// caller; this adapter has no separate style-to-glyph mapping of its
// own, matching how edwood resolves one draw.Font per run rather than
// compositing style bits onto a base font.
func (t *DrawTarget) SetTextStyle(style int) {}

// SetColour implements ohistory.Target. reserved is accepted for
// interface-compatibility with the richer caller-side colour model but
// unused here, matching the two-colour (fg/bg) draw.Image model.
// ohistory.ColourDefault selects cfg.DefaultFg/cfg.DefaultBg rather than
// a palette entry, since it means "whatever the frontend considers
// default", not a specific index into Colours.
func (t *DrawTarget) SetColour(fg, bg, reserved int) {
	if fg == ohistory.ColourDefault {
		t.fg = t.cfg.DefaultFg
	} else if im, ok := t.cfg.Colours[fg]; ok {
		t.fg = im
	}
	if bg == ohistory.ColourDefault {
		t.bg = t.cfg.DefaultBg
	} else if im, ok := t.cfg.Colours[bg]; ok {
		t.bg = im
	}
}

// EmitText implements ohistory.Target, drawing text at the pen and
// advancing it, wrapping to a new line at each embedded newline.
func (t *DrawTarget) EmitText(text []rune) {
	if t.cfg.Dst == nil || t.font == nil {
		return
	}
	start := 0
	for i, r := range text {
		if r != '\n' {
			continue
		}
		t.drawRun(text[start:i])
		t.pen.X = t.cfg.Origin.X
		t.pen.Y += t.lineHeight()
		start = i + 1
	}
	if start < len(text) {
		t.drawRun(text[start:])
	}
}

func (t *DrawTarget) drawRun(run []rune) {
	if len(run) == 0 {
		return
	}
	b := make([]byte, 0, len(run)*utf8.UTFMax)
	for _, r := range run {
		b = utf8.AppendRune(b, r)
	}
	next := t.cfg.Dst.Bytes(t.pen, t.fg, image.Point{}, t.font, b)
	t.pen = next
}
