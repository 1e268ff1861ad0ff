package wire

import (
	"math/bits"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/physic"
)

// Timings describes how one chip bit is stretched over the SPI bus.
//
// PulseBits SPI bits are spent per chip bit. Zero and One hold the bit
// patterns for a logical 0 and 1, right aligned in PulseBits bits, each
// a run of highs followed by a run of lows. At 15.6MHz one SPI bit lasts
// 64ns, so a 16 bit pattern covers the 1.25us cycle of a WS2812 and the
// length of the high run picks the duty cycle.
type Timings struct {
	// Name tags the profile in logs and config files.
	Name string
	// SPIClock is the bus frequency the patterns are designed for.
	SPIClock physic.Frequency
	// PulseBits is the number of SPI bits per chip bit, 2 to 32.
	PulseBits int
	// Zero is the pulse pattern for a logical 0.
	Zero uint32
	// One is the pulse pattern for a logical 1.
	One uint32
	// Reset is how long the line must stay low to latch the chain.
	Reset time.Duration
}

// Built in profiles. The 16 bit patterns target the datasheet pulse
// windows at 15.6MHz, which Raspberry Pi SPI hardware can clock exactly.
// WS2812Compact trades resolution for buffer space with 3 SPI bits per
// chip bit at 2.4MHz, for controllers with small spidev buffers.
var (
	// WS2812 covers WS2812 and WS2812B chains. A zero stays high for
	// 5 of 16 bits (320ns) and a one for 9 (576ns).
	WS2812 = Timings{
		Name:      "ws2812",
		SPIClock:  15600 * physic.KiloHertz,
		PulseBits: 16,
		Zero:      0xf800,
		One:       0xff80,
		Reset:     300 * time.Microsecond,
	}

	// WS2813 uses the tighter zero window of the WS2813: 4 of 16 bits
	// high (256ns) for a zero, 10 (640ns) for a one.
	WS2813 = Timings{
		Name:      "ws2813",
		SPIClock:  15600 * physic.KiloHertz,
		PulseBits: 16,
		Zero:      0xf000,
		One:       0xffc0,
		Reset:     300 * time.Microsecond,
	}

	// WS2812Compact drives WS2812 chains with a third of the buffer:
	// one chip bit is 3 SPI bits at 2.4MHz, 0b100 for zero, 0b110 for
	// one. The pulse edges land within the datasheet tolerances but
	// with less margin than the 16 bit profile.
	WS2812Compact = Timings{
		Name:      "ws2812-compact",
		SPIClock:  2400 * physic.KiloHertz,
		PulseBits: 3,
		Zero:      0b100,
		One:       0b110,
		Reset:     300 * time.Microsecond,
	}
)

// Profiles returns the built in timing profiles.
func Profiles() []Timings {
	return []Timings{WS2812, WS2813, WS2812Compact}
}

// ProfileByName returns the built in profile with the given name.
func ProfileByName(name string) (Timings, bool) {
	for _, t := range Profiles() {
		if t.Name == name {
			return t, true
		}
	}
	return Timings{}, false
}

// Validate reports whether the timings describe a usable waveform.
func (t Timings) Validate() error {
	if t.PulseBits < 2 || t.PulseBits > 32 {
		return errors.Wrapf(ErrPulseWidth, "%d", t.PulseBits)
	}
	if t.SPIClock <= 0 {
		return ErrClockRate
	}
	if err := checkPulse(t.Zero, t.PulseBits); err != nil {
		return errors.Wrap(err, "zero")
	}
	if err := checkPulse(t.One, t.PulseBits); err != nil {
		return errors.Wrap(err, "one")
	}
	if t.One&1 != 0 {
		// Without a low tail on a one, back to back ones merge into a
		// long high level and the chip loses the bit boundary.
		return errors.Wrap(ErrPulseTail, "one")
	}
	if bits.OnesCount32(t.One) <= bits.OnesCount32(t.Zero) {
		return ErrPulseRatio
	}
	return nil
}

// checkPulse verifies p is a nonempty run of high bits anchored at the
// pattern MSB, optionally followed by lows, within width bits.
func checkPulse(p uint32, width int) error {
	if p == 0 || p>>uint(width) != 0 {
		return ErrPulseShape
	}
	if p&(1<<uint(width-1)) == 0 {
		return ErrPulseShape
	}
	run := p >> uint(bits.TrailingZeros32(p))
	if run&(run+1) != 0 {
		return ErrPulseShape
	}
	return nil
}

// BitPeriod returns the on wire duration of one chip bit.
func (t Timings) BitPeriod() time.Duration {
	return t.SPIClock.Duration() * time.Duration(t.PulseBits)
}

// ResetBytes returns how many zero bytes must follow a frame so the
// line stays low for at least the Reset duration, plus one byte of
// margin. Zero when no reset is configured.
func (t Timings) ResetBytes() int {
	if t.Reset <= 0 || t.SPIClock <= 0 {
		return 0
	}
	byteTime := t.SPIClock.Duration() * 8
	if byteTime <= 0 {
		return 0
	}
	return int(t.Reset/byteTime) + 1
}
