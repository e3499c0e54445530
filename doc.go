// Package ohistory implements a per-window output history for a
// Z-Machine interpreter: a bounded, wrap-around buffer of rendered
// character output interleaved with in-band font, style, colour and
// paragraph-attribute metadata, together with a cursor that walks the
// buffer backwards a paragraph at a time and replays forward segments
// into a caller-supplied rendering target.
//
// A Store owns the buffer for one window. Writers append through
// StoreChars/StoreText/StoreMetadata; readers open a Cursor against the
// Store and use RewindParagraph/RepeatParagraphs to walk and replay its
// contents. A Cursor is a snapshot: any write that changes the Store's
// wrap count or front offset invalidates every Cursor that isn't running
// with validation disabled.
package ohistory
