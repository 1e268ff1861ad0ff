package neospi

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"periph.io/x/conn/v3/display"

	"github.com/coreman2200/neospi/wire"
)

// String implements conn.Resource.
func (s *Strip) String() string {
	return fmt.Sprintf("neospi{%s}", s.c)
}

// Halt blanks the chain. It implements conn.Resource.
func (s *Strip) Halt() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.pixels {
		s.pixels[i] = wire.Pixel{}
	}
	return s.flush()
}

// ColorModel returns the model drawn images convert through. It
// implements display.Drawer.
func (s *Strip) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds returns the strip as a one pixel tall line. It implements
// display.Drawer.
func (s *Strip) Bounds() image.Rectangle {
	return image.Rect(0, 0, len(s.pixels), 1)
}

// Draw stages the intersecting row of src and shows it. It implements
// display.Drawer.
func (s *Strip) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r = r.Intersect(s.Bounds())
	for x := r.Min.X; x < r.Max.X; x++ {
		c := color.NRGBAModel.Convert(src.At(sp.X+x-r.Min.X, sp.Y)).(color.NRGBA)
		s.pixels[x] = wire.Pixel{R: c.R, G: c.G, B: c.B}
	}
	return s.flush()
}

var (
	_ display.Drawer = &Strip{}
	_ io.Writer      = &Strip{}
)
