// Package render collects ohistory.Target implementations that don't
// need a real display: a plain-text recorder for tests and headless
// tools, alongside the drawtarget subpackage for actual painting.
package render

import "strings"

// Attr is the font/style/colour attribute change recorded alongside a
// run of text by TextTarget.
type Attr struct {
	Font, Style, Fg, Bg int
}

// Run is one EmitText call, tagged with the attributes in effect when it
// was emitted.
type Run struct {
	Text []rune
	Attr Attr
}

// TextTarget is an ohistory.Target that records every call it receives
// instead of painting anything, in the spirit of edwood's edwoodtest
// mock Display used to exercise GUI-facing code without a real window.
type TextTarget struct {
	Runs []Run
	cur  Attr
}

// SetFont implements ohistory.Target.
func (t *TextTarget) SetFont(font int) { t.cur.Font = font }

// SetTextStyle implements ohistory.Target.
func (t *TextTarget) SetTextStyle(style int) { t.cur.Style = style }

// SetColour implements ohistory.Target.
func (t *TextTarget) SetColour(fg, bg, reserved int) {
	t.cur.Fg = fg
	t.cur.Bg = bg
}

// EmitText implements ohistory.Target.
func (t *TextTarget) EmitText(text []rune) {
	cp := make([]rune, len(text))
	copy(cp, text)
	t.Runs = append(t.Runs, Run{Text: cp, Attr: t.cur})
}

// String concatenates every run's text, ignoring attribute changes.
func (t *TextTarget) String() string {
	var b strings.Builder
	for _, r := range t.Runs {
		b.WriteString(string(r.Text))
	}
	return b.String()
}

// Reset clears recorded runs so the target can be reused across calls
// to Cursor.RepeatParagraphs.
func (t *TextTarget) Reset() {
	t.Runs = nil
}
