package ohistory

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sanity-io/litter"
)

func newTestStore() *Store {
	return NewStore(64, 16, -1, -1, 1, 0)
}

func TestStoreTextRoundTrip(t *testing.T) {
	s := newTestStore()
	s.StoreText([]rune("hello\n"))

	want := []rune("hello\n")
	got := s.buf[s.back:s.front]
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("buffer mismatch (-want +got):\n%s\nbuffer: %s", diff, litter.Sdump(s.buf))
	}
	if used := s.SpaceUsed(); used != len(want) {
		t.Errorf("SpaceUsed() = %d, want %d", used, len(want))
	}
}

func TestSpaceAvailableShrinksAsBufferFills(t *testing.T) {
	s := newTestStore()
	s.StoreText([]rune("0123456789"))
	if got, want := s.SpaceAvailable(), s.AllocatedSize()-10; got != want {
		t.Errorf("SpaceAvailable() = %d, want %d", got, want)
	}
}

func TestStoreCharsGrowsBelowMaxSize(t *testing.T) {
	s := newTestStore()
	s.StoreText([]rune("this line is longer than the initial increment size\n"))
	if s.AllocatedSize() == 0 {
		t.Fatal("expected buffer to have grown from zero")
	}
	if s.AllocatedSize() > s.maxSize {
		t.Errorf("AllocatedSize() = %d, exceeds maxSize %d", s.AllocatedSize(), s.maxSize)
	}
}

func TestStoreCharsWrapsAndDrainsBack(t *testing.T) {
	s := newTestStore()
	// Fill well past maxSize so the buffer wraps multiple times.
	for i := 0; i < 20; i++ {
		s.StoreText([]rune("0123456789\n"))
	}
	if s.wraps == 0 {
		t.Fatal("expected the store to have wrapped at least once")
	}
	if used := s.SpaceUsed(); used < 0 || used > s.AllocatedSize() {
		t.Errorf("SpaceUsed() = %d out of range [0, %d]", used, s.AllocatedSize())
	}
}

func TestStoreMetadataUpdatesFrontState(t *testing.T) {
	s := newTestStore()
	if err := s.StoreMetadata(FontRecord, 3, 0); err != nil {
		t.Fatal(err)
	}
	if s.frontState.Font != 3 {
		t.Errorf("frontState.Font = %d, want 3", s.frontState.Font)
	}
	if err := s.StoreMetadata(ColourRecord, 2, -1); err != nil {
		t.Fatal(err)
	}
	want := State{Font: 3, Style: 0, Fg: 2, Bg: -1}
	if diff := cmp.Diff(want, s.frontState); diff != "" {
		t.Errorf("frontState mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreMetadataColourOutOfRangeIsFatal(t *testing.T) {
	s := newTestStore()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic for an out-of-range colour")
		}
		if _, ok := r.(*FatalError); !ok {
			t.Errorf("recovered %v (%T), want *FatalError", r, r)
		}
	}()
	s.StoreMetadata(ColourRecord, 99, 0)
}

func TestStoreMetadataUnknownKind(t *testing.T) {
	s := newTestStore()
	if err := s.StoreMetadata(MetadataKind(99), 0, 0); err == nil {
		t.Fatal("expected an error for an unknown metadata kind")
	}
}

func TestRemoveCharsSkipsMetadataWidth(t *testing.T) {
	s := newTestStore()
	s.StoreText([]rune("abc"))
	s.StoreMetadata(FontRecord, 2, 0)
	s.StoreText([]rune("def"))

	frontBefore := s.front
	if err := s.RemoveChars(3); err != nil {
		t.Fatal(err)
	}
	if s.front == frontBefore {
		t.Fatal("RemoveChars didn't move front")
	}

	// front should now sit right after the FONT record: "abc" plus the
	// 3-unit record remain, "def" is gone.
	if got := string(s.buf[:3]); got != "abc" {
		t.Errorf("text before the record = %q, want %q", got, "abc")
	}
	if s.buf[s.front-3] != escapeUnit {
		t.Errorf("front-3 = %q, want the FONT record's escape unit", s.buf[s.front-3])
	}
}

func TestRemoveCharsPastBackFails(t *testing.T) {
	s := newTestStore()
	s.StoreText([]rune("ab"))
	if err := s.RemoveChars(10); err != ErrCannotRewind {
		t.Errorf("RemoveChars(10) = %v, want ErrCannotRewind", err)
	}
}

func TestParagraphRemovalCallbackFiresOnDrain(t *testing.T) {
	s := newTestStore()
	var removed [][2]int
	s.SetParagraphRemovalFunc(func(a1, a2 int) {
		removed = append(removed, [2]int{a1, a2})
	})

	s.StoreMetadata(ParaAttrRecord, 1, 100)
	s.StoreText([]rune("first\n"))
	s.StoreMetadata(ParaAttrRecord, 2, 200)
	s.StoreText([]rune("second\n"))

	// Force enough additional writes to wrap the buffer and push the
	// earliest PARA_ATTR record off the back.
	for i := 0; i < 10; i++ {
		s.StoreText([]rune("0123456789\n"))
	}

	if len(removed) == 0 {
		t.Fatal("expected at least one paragraph-removal callback")
	}
	if removed[0] != [2]int{1, 100} {
		t.Errorf("first removal = %v, want [1 100]", removed[0])
	}
}
