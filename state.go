package ohistory

// State is the set of rendering attributes in effect at some point in the
// buffer: a font index, a style bitmask, and a foreground/background
// colour pair. Colour values: -2 is "undefined", -1 is "default", and
// 0-15 select a palette entry.
type State struct {
	Font, Style, Fg, Bg int
}

// Sentinel values used while resolving a paragraph's starting State.
const (
	unset           = -1
	ColourUndefined = -2
	ColourDefault   = -1
)
