// Package neospi drives chains of WS28xx addressable LEDs through a
// SPI port.
//
// The chips speak a clockless one wire protocol, so the driver abuses
// the SPI MOSI line as a waveform generator: package wire expands every
// color byte into pulse patterns and the strip pushes the whole frame
// out in a single transfer. Splitting a frame across transfers is not
// an option, any pause with the line low latches the chain early.
//
// A Strip implements display.Drawer and io.Writer, so it slots in
// wherever periph devices do.
package neospi

import (
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/coreman2200/neospi/wire"
)

// Opts holds the strip geometry and signal shape.
type Opts struct {
	// NumPixels is the number of LEDs on the chain.
	NumPixels int
	// Timings selects the waveform profile. The zero value means
	// wire.WS2812.
	Timings wire.Timings
	// Order is the chip's channel order. The zero value is GRB, which
	// is what WS28xx family chips use.
	Order wire.ColorOrder
}

// DefaultOpts matches a common 64 LED WS2812 chain.
var DefaultOpts = Opts{
	NumPixels: 64,
	Timings:   wire.WS2812,
	Order:     wire.GRB,
}

// Strip is an open LED chain on a SPI connection. It is safe for
// concurrent use.
type Strip struct {
	mu     sync.Mutex
	c      spi.Conn
	enc    *wire.Encoder
	pixels []wire.Pixel
	// frame is the encode scratch buffer, reused across flushes so a
	// steady animation does not allocate.
	frame []byte
	port  spi.PortCloser
}

// New connects to p and prepares a strip on it. A nil opts means
// DefaultOpts.
func New(p spi.Port, opts *Opts) (*Strip, error) {
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	if o.NumPixels <= 0 {
		return nil, errors.Wrapf(ErrPixelCount, "%d", o.NumPixels)
	}
	if o.Timings == (wire.Timings{}) {
		o.Timings = wire.WS2812
	}
	enc, err := wire.NewEncoder(o.Timings, o.Order)
	if err != nil {
		return nil, err
	}
	c, err := p.Connect(o.Timings.SPIClock, spi.Mode0|spi.NoCS, 8)
	if err != nil {
		return nil, errors.Wrap(err, "neospi: connect")
	}
	n := enc.FrameLen(o.NumPixels, true)
	if l, ok := c.(conn.Limits); ok {
		if max := l.MaxTxSize(); max != 0 && n > max {
			return nil, errors.Wrapf(ErrFrameSize, "%d bytes > %d", n, max)
		}
	}
	return &Strip{
		c:      c,
		enc:    enc,
		pixels: make([]wire.Pixel, o.NumPixels),
		frame:  make([]byte, 0, n),
	}, nil
}

// Open initializes the host, opens the SPI port registered under dev
// (use "" for the first one) and prepares a strip on it. Close releases
// the port.
func Open(dev string, opts *Opts) (*Strip, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "neospi: host init")
	}
	p, err := spireg.Open(dev)
	if err != nil {
		return nil, errors.Wrap(err, "neospi: open spi port")
	}
	s, err := New(p, opts)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	s.port = p
	return s, nil
}

// NumPixels returns the length of the chain.
func (s *Strip) NumPixels() int {
	return len(s.pixels)
}

// Timings returns the waveform profile the strip drives.
func (s *Strip) Timings() wire.Timings {
	return s.enc.Timings()
}

// SetPixel stages one pixel. The strip shows it on the next Flush.
func (s *Strip) SetPixel(i int, p wire.Pixel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.pixels) {
		return errors.Wrapf(ErrPixelIndex, "%d of %d", i, len(s.pixels))
	}
	s.pixels[i] = p
	return nil
}

// Pixel returns the staged color of one pixel.
func (s *Strip) Pixel(i int) (wire.Pixel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.pixels) {
		return wire.Pixel{}, errors.Wrapf(ErrPixelIndex, "%d of %d", i, len(s.pixels))
	}
	return s.pixels[i], nil
}

// SetAll stages the same color on every pixel.
func (s *Strip) SetAll(p wire.Pixel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.pixels {
		s.pixels[i] = p
	}
}

// Pixels returns a copy of the staged colors.
func (s *Strip) Pixels() []wire.Pixel {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]wire.Pixel, len(s.pixels))
	copy(out, s.pixels)
	return out
}

// Flush encodes the staged pixels and pushes them to the chain.
func (s *Strip) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush()
}

// flush must run with s.mu held. The latch padding rides in the same
// buffer as the pixel data so the frame is one Tx on the bus.
func (s *Strip) flush() error {
	buf := s.frame[:0]
	for _, p := range s.pixels {
		buf = s.enc.AppendPixel(buf, p)
	}
	buf = s.enc.AppendReset(buf)
	s.frame = buf
	return errors.Wrap(s.c.Tx(buf, nil), "neospi: write frame")
}

// Write stages and shows a whole frame of RGB triplets, red first,
// one triplet per pixel. It implements io.Writer.
func (s *Strip) Write(rgb []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(rgb) != 3*len(s.pixels) {
		return 0, errors.Wrapf(ErrLength, "%d bytes for %d pixels", len(rgb), len(s.pixels))
	}
	for i := range s.pixels {
		s.pixels[i] = wire.Pixel{R: rgb[3*i], G: rgb[3*i+1], B: rgb[3*i+2]}
	}
	if err := s.flush(); err != nil {
		return 0, err
	}
	return len(rgb), nil
}

// Close releases the SPI port when the strip owns one, after Open. A
// strip built with New leaves the port to its caller.
func (s *Strip) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}
