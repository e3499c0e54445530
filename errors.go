package ohistory

import (
	"errors"
	"fmt"
	"log"
)

// FatalError reports a broken invariant: corrupted in-band metadata, an
// out-of-range parameter, or a cursor used after the store it watches has
// moved. A correctly-behaving caller never triggers one.
type FatalError struct {
	Msg string
}

func (e *FatalError) Error() string { return e.Msg }

// FatalHook is invoked for every fatal invariant violation. The default
// logs and then panics with a *FatalError, mirroring edwood's
// util.AcmeError; embedders that want to translate-and-exit instead of
// panicking may replace it.
var FatalHook = func(msg string) {
	log.Print("ohistory: ", msg)
	panic(&FatalError{Msg: msg})
}

// Fatal reports a ProgrammingError through FatalHook.
func Fatal(format string, args ...interface{}) {
	FatalHook(fmt.Sprintf(format, args...))
}

// ErrCannotRewind is returned when a caller asks to remove or rewind past
// the oldest data the Store still holds.
var ErrCannotRewind = errors.New("ohistory: cannot rewind that many characters")

// ErrNoParagraphAttribute is returned by AlterLastParagraphAttributes when
// the cursor has not yet passed a PARA_ATTR record it could rewrite.
var ErrNoParagraphAttribute = errors.New("ohistory: no paragraph attribute recorded for this cursor")

// ErrUnknownMetadataKind is returned by Store.StoreMetadata for an
// unrecognised MetadataKind.
var ErrUnknownMetadataKind = errors.New("ohistory: unknown metadata kind")
