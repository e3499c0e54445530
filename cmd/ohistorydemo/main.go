// Command ohistorydemo exercises an ohistory.Store the way an
// interpreter's screen/output window would: it writes a few paragraphs
// of text and metadata, then walks the result backwards with a Cursor,
// printing each paragraph as it's rewound. With -gui it opens a real
// window (via the draw package, 9fans.net/go/draw or ktye/duitdraw
// depending on the duitdraw build tag) and paints into it instead.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"

	"github.com/fizmo-if/ohistory"
	"github.com/fizmo-if/ohistory/draw"
	"github.com/fizmo-if/ohistory/render"
	"github.com/fizmo-if/ohistory/render/drawtarget"
)

func sampleStore() *ohistory.Store {
	s := ohistory.NewStore(4096, 512, -1, -1, 1, 0)
	s.StoreText([]rune("You are standing in an open field west of a white house.\n"))
	s.StoreMetadata(ohistory.StyleRecord, 1, 0)
	s.StoreText([]rune("There is a small mailbox here.\n"))
	s.StoreMetadata(ohistory.StyleRecord, 0, 0)
	s.StoreMetadata(ohistory.ColourRecord, 2, -1)
	s.StoreText([]rune("A warning flag snaps in the wind.\n"))
	s.StoreMetadata(ohistory.ColourRecord, -1, -1)
	s.StoreText([]rune("Open the mailbox? "))
	return s
}

func runHeadless(s *ohistory.Store) {
	target := &render.TextTarget{}
	cur, err := ohistory.NewCursor(s, target, ohistory.FromFront)
	if err != nil || cur == nil {
		log.Fatal("no history to walk")
	}
	for {
		_, _, _, status := cur.RewindParagraph()
		if status == ohistory.RewindEndOfBuffer {
			break
		}
		if status < 0 {
			log.Fatalf("history buffer invariant violated: status %d", status)
		}
		target.Reset()
		cur.RepeatParagraphs(1, true, false)
		fmt.Print(target.String())
	}
}

func runGUI(s *ohistory.Store) {
	dev := new(draw.Device)
	d, err := dev.NewDisplay(nil, "", "ohistorydemo", "")
	if err != nil {
		log.Fatal(err)
	}
	font, err := d.OpenFont("/mnt/font/Go-Regular/13a/font")
	if err != nil {
		log.Fatal(err)
	}
	cfg := drawtarget.Config{
		Dst:         d.ScreenImage(),
		DefaultFont: font,
		DefaultFg:   d.Black(),
		DefaultBg:   d.White(),
		Origin:      image.Pt(10, 10),
	}
	target := drawtarget.New(cfg)
	cur, err := ohistory.NewCursor(s, target, ohistory.FromBack)
	if err != nil || cur == nil {
		log.Fatal("no history to walk")
	}
	cur.RepeatParagraphs(1<<30, true, true)
	d.Flush()
}

func main() {
	gui := flag.Bool("gui", false, "open a real window instead of printing to stdout")
	flag.Parse()

	s := sampleStore()
	if *gui {
		runGUI(s)
		return
	}
	runHeadless(s)
}
