package wire

import (
	"image/color"
	"math"
)

// Pixel is one LED's color, 8 bits per channel. The wire order of the
// channels is decided by a ColorOrder at encode time, not here.
type Pixel struct {
	R, G, B uint8
}

// PixelFromColor converts any color to a Pixel, dropping alpha.
func PixelFromColor(c color.Color) Pixel {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Pixel{R: n.R, G: n.G, B: n.B}
}

// NRGBA returns the pixel as an opaque color.
func (p Pixel) NRGBA() color.NRGBA {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: 0xff}
}

// HSVPixel builds a pixel from hue, saturation and value, each in
// 0..1. Hue wraps around.
func HSVPixel(h, s, v float64) Pixel {
	h = h - math.Floor(h)
	i := int(h * 6.0)
	f := h*6.0 - float64(i)
	p := v * (1.0 - s)
	q := v * (1.0 - f*s)
	t := v * (1.0 - (1.0-f)*s)
	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return Pixel{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255)}
}
