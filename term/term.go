// Package term renders an LED strip as a row of colored blocks on a
// terminal. It stands in for the hardware when no SPI port is around,
// which keeps animation code runnable on a workstation.
package term

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Dev draws pixels to a writer with 24 bit ANSI colors. It implements
// display.Drawer the same way a real strip does, so callers can swap
// one for the other.
type Dev struct {
	mu sync.Mutex
	w  io.Writer
	n  int
}

// New returns a Dev printing numPixels blocks to w. A nil w means
// stdout, wrapped so the escapes survive on Windows consoles.
func New(w io.Writer, numPixels int) *Dev {
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Dev{w: w, n: numPixels}
}

// String implements conn.Resource.
func (d *Dev) String() string {
	return fmt.Sprintf("term{%d}", d.n)
}

// Halt clears the strip line. It implements conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := fmt.Fprint(d.w, "\r\x1b[0m\x1b[2K")
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.n, 1)
}

// Draw redraws the strip line from the intersecting row of src. It
// implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	r = r.Intersect(d.Bounds())
	if _, err := fmt.Fprint(d.w, "\r"); err != nil {
		return err
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		c := color.NRGBAModel.Convert(src.At(sp.X+x-r.Min.X, sp.Y)).(color.NRGBA)
		if _, err := fmt.Fprintf(d.w, "\x1b[38;2;%d;%d;%dm█", c.R, c.G, c.B); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(d.w, "\x1b[0m")
	return err
}

var _ display.Drawer = &Dev{}
