package draw

import "image"

// Display is the subset of a Plan-9-style display connection a replay
// target needs: open a font, reach the screen image and the two stock
// inks, and flush what's been drawn to the window.
type Display interface {
	ScreenImage() Image
	White() Image
	Black() Image
	OpenFont(name string) (Font, error)
	Flush() error
}

// Image is the subset of a Plan-9-style image a replay target draws
// into.
type Image interface {
	Bytes(pt image.Point, src Image, sp image.Point, f Font, b []byte) image.Point
}

// Font is the subset of a Plan-9-style font a replay target needs to
// lay out lines.
type Font interface {
	Height() int
}

// displayImpl implements Display.
type displayImpl struct {
	*drawDisplay
}

var _ = Display((*displayImpl)(nil))

func (d *displayImpl) ScreenImage() Image { return &imageImpl{d.drawDisplay.ScreenImage} }
func (d *displayImpl) White() Image       { return &imageImpl{d.drawDisplay.White} }
func (d *displayImpl) Black() Image       { return &imageImpl{d.drawDisplay.Black} }

func (d *displayImpl) OpenFont(name string) (Font, error) {
	f, err := d.drawDisplay.OpenFont(name)
	if err != nil {
		return nil, err
	}
	return &fontImpl{f}, nil
}

// imageImpl implements Image.
type imageImpl struct {
	*drawImage
}

var _ = Image((*imageImpl)(nil))

func (dst *imageImpl) Bytes(pt image.Point, src Image, sp image.Point, f Font, b []byte) image.Point {
	return dst.drawImage.Bytes(pt, toDrawImage(src), sp, f.(*fontImpl).drawFont, b)
}

func toDrawImage(i Image) *drawImage {
	if i == nil {
		return nil
	}
	return i.(*imageImpl).drawImage
}

// fontImpl implements Font.
type fontImpl struct {
	*drawFont
}

var _ = Font((*fontImpl)(nil))

func (f *fontImpl) Height() int { return f.drawFont.Height }
