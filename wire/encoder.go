package wire

import (
	"github.com/pkg/errors"
)

// Encoder expands pixel data into the SPI bitstream for one fixed
// Timings and ColorOrder pair. Building it precomputes a 256 entry
// lookup table, so encoding itself is a copy per channel and cannot
// fail. An Encoder is safe for concurrent use.
type Encoder struct {
	timings Timings
	order   ColorOrder
	// lut holds the encoded form of every byte value, chanLen bytes
	// per entry.
	lut     []byte
	chanLen int
	reset   []byte
}

// NewEncoder validates t and builds the lookup table for it.
func NewEncoder(t Timings, order ColorOrder) (*Encoder, error) {
	if err := t.Validate(); err != nil {
		return nil, errors.Wrap(err, "wire: bad timings")
	}
	e := &Encoder{
		timings: t,
		order:   order,
		chanLen: t.PulseBits,
		reset:   make([]byte, t.ResetBytes()),
	}
	e.lut = buildLUT(t)
	return e, nil
}

// buildLUT encodes all 256 byte values. Data bits go out MSB first and
// each expands to the PulseBits wide pulse pattern, so one byte becomes
// exactly PulseBits output bytes.
func buildLUT(t Timings) []byte {
	n := t.PulseBits
	lut := make([]byte, 256*n)
	for v := 0; v < 256; v++ {
		out := lut[v*n : (v+1)*n]
		var cur byte
		var nbits, idx int
		for bit := 7; bit >= 0; bit-- {
			pat := t.Zero
			if v&(1<<uint(bit)) != 0 {
				pat = t.One
			}
			for k := n - 1; k >= 0; k-- {
				cur <<= 1
				if pat&(1<<uint(k)) != 0 {
					cur |= 1
				}
				nbits++
				if nbits == 8 {
					out[idx] = cur
					idx++
					cur, nbits = 0, 0
				}
			}
		}
	}
	return lut
}

// Timings returns the timings the encoder was built with.
func (e *Encoder) Timings() Timings { return e.timings }

// Order returns the color order the encoder was built with.
func (e *Encoder) Order() ColorOrder { return e.order }

// ChannelLen returns the encoded size of one 8 bit channel in bytes.
func (e *Encoder) ChannelLen() int { return e.chanLen }

// PixelLen returns the encoded size of one pixel in bytes.
func (e *Encoder) PixelLen() int { return 3 * e.chanLen }

// ResetLen returns the size of the latch padding in bytes.
func (e *Encoder) ResetLen() int { return len(e.reset) }

// FrameLen returns the encoded size of a frame of numPixels pixels,
// including the latch padding when reset is set.
func (e *Encoder) FrameLen(numPixels int, reset bool) int {
	l := numPixels * e.PixelLen()
	if reset {
		l += len(e.reset)
	}
	return l
}

// AppendChannel appends the encoding of one channel value to dst.
func (e *Encoder) AppendChannel(dst []byte, v uint8) []byte {
	i := int(v) * e.chanLen
	return append(dst, e.lut[i:i+e.chanLen]...)
}

// AppendPixel appends the encoding of one pixel to dst, channels in
// the encoder's color order.
func (e *Encoder) AppendPixel(dst []byte, p Pixel) []byte {
	for _, v := range e.order.channels(p) {
		dst = e.AppendChannel(dst, v)
	}
	return dst
}

// AppendReset appends the latch padding to dst: enough zero bytes to
// keep the line low for the reset duration.
func (e *Encoder) AppendReset(dst []byte) []byte {
	return append(dst, e.reset...)
}

// Frame encodes a whole chain in one allocation. An empty chain yields
// only the latch padding, or an empty buffer without reset. The returned buffer
// must reach the bus as a single transfer, a pause mid frame reads as
// a latch.
func (e *Encoder) Frame(pixels []Pixel, reset bool) []byte {
	buf := make([]byte, 0, e.FrameLen(len(pixels), reset))
	for _, p := range pixels {
		buf = e.AppendPixel(buf, p)
	}
	if reset {
		buf = e.AppendReset(buf)
	}
	return buf
}
