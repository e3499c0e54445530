//go:build duitdraw
// +build duitdraw

package draw

import (
	draw "github.com/ktye/duitdraw"
)

type (
	drawDisplay = draw.Display
	drawFont    = draw.Font
	drawImage   = draw.Image
)

var Init = draw.Init

func Main(f func(*Device)) {
	f(new(Device))
}

type Device struct{}

func (dev *Device) NewDisplay(errch chan<- error, fontname, label, winsize string) (Display, error) {
	d, err := Init(errch, fontname, label, winsize)
	if err != nil {
		return nil, err
	}
	return &displayImpl{d}, nil
}
