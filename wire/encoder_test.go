package wire_test

import (
	"bytes"
	"math/bits"
	"strconv"
	"testing"

	. "github.com/coreman2200/neospi/wire"
	"github.com/stretchr/testify/assert"
)

var TestChannelValueEncodesToExpectedBytes = []struct {
	Profile Timings
	Value   uint8
	Expect  []byte
}{
	{WS2812, 0x00, bytes.Repeat([]byte{0xf8, 0x00}, 8)},
	{WS2812, 0xff, bytes.Repeat([]byte{0xff, 0x80}, 8)},
	{WS2812, 0xaa, bytes.Repeat([]byte{0xff, 0x80, 0xf8, 0x00}, 4)},
	{WS2812, 0x55, bytes.Repeat([]byte{0xf8, 0x00, 0xff, 0x80}, 4)},
	{WS2813, 0x00, bytes.Repeat([]byte{0xf0, 0x00}, 8)},
	{WS2813, 0xff, bytes.Repeat([]byte{0xff, 0xc0}, 8)},
	{WS2812Compact, 0x00, []byte{0x92, 0x49, 0x24}},
	{WS2812Compact, 0xff, []byte{0xdb, 0x6d, 0xb6}},
	{WS2812Compact, 0xaa, []byte{0xd3, 0x4d, 0x34}},
	{WS2812Compact, 0x55, []byte{0x9a, 0x69, 0xa6}},
}

func TestChannelFixtures(t *testing.T) {
	for k, v := range TestChannelValueEncodesToExpectedBytes {
		t.Run("Given "+v.Profile.Name+" value "+strconv.FormatUint(uint64(v.Value), 16), func(t *testing.T) {
			e, err := NewEncoder(v.Profile, GRB)
			if err != nil {
				t.Fatal(err)
			}
			got := e.AppendChannel(nil, v.Value)
			assert.Equal(t, got, v.Expect, "case %d should encode to fixture", k)
			assert.Equal(t, len(got), e.ChannelLen(), "channel length should match")
		})
	}
}

// decodeChannel reads one encoded channel back by counting the high
// bits in each pulse group and comparing against the midpoint between
// the zero and one duty cycles.
func decodeChannel(t *testing.T, tm Timings, enc []byte) uint8 {
	t.Helper()
	if len(enc) != tm.PulseBits {
		t.Fatalf("encoded channel is %d bytes, want %d", len(enc), tm.PulseBits)
	}
	bit := func(i int) uint32 {
		if enc[i/8]&(1<<uint(7-i%8)) != 0 {
			return 1
		}
		return 0
	}
	mid := bits.OnesCount32(tm.Zero) + bits.OnesCount32(tm.One)
	var v uint8
	for g := 0; g < 8; g++ {
		var ones int
		for i := 0; i < tm.PulseBits; i++ {
			if bit(g*tm.PulseBits+i) == 1 {
				ones++
			}
		}
		v <<= 1
		if 2*ones > mid {
			v |= 1
		}
	}
	return v
}

func TestChannelRoundTrip(t *testing.T) {
	for _, tm := range Profiles() {
		t.Run(tm.Name, func(t *testing.T) {
			e, err := NewEncoder(tm, GRB)
			if err != nil {
				t.Fatal(err)
			}
			for v := 0; v < 256; v++ {
				enc := e.AppendChannel(nil, uint8(v))
				if got := decodeChannel(t, tm, enc); got != uint8(v) {
					t.Fatalf("value %#02x decoded back as %#02x", v, got)
				}
			}
		})
	}
}

var TestOrderPlacesChannels = []struct {
	Order  ColorOrder
	Expect [3]uint8
}{
	{GRB, [3]uint8{0x22, 0x11, 0x33}},
	{GBR, [3]uint8{0x22, 0x33, 0x11}},
	{RGB, [3]uint8{0x11, 0x22, 0x33}},
	{RBG, [3]uint8{0x11, 0x33, 0x22}},
	{BGR, [3]uint8{0x33, 0x22, 0x11}},
	{BRG, [3]uint8{0x33, 0x11, 0x22}},
}

func TestPixelChannelOrder(t *testing.T) {
	p := Pixel{R: 0x11, G: 0x22, B: 0x33}
	for _, v := range TestOrderPlacesChannels {
		t.Run("Given order "+v.Order.String(), func(t *testing.T) {
			e, err := NewEncoder(WS2812Compact, v.Order)
			if err != nil {
				t.Fatal(err)
			}
			assert.Equal(t, e.Order(), v.Order, "encoder should report the order it was built with")
			got := e.AppendPixel(nil, p)
			want := e.AppendChannel(nil, v.Expect[0])
			want = e.AppendChannel(want, v.Expect[1])
			want = e.AppendChannel(want, v.Expect[2])
			assert.Equal(t, got, want, "pixel should be three channels in wire order")
			assert.Equal(t, len(got), e.PixelLen(), "pixel length should match")
		})
	}
}

func TestFrameLayout(t *testing.T) {
	e, err := NewEncoder(WS2812, GRB)
	if err != nil {
		t.Fatal(err)
	}
	pixels := []Pixel{
		{R: 0xff, G: 0x00, B: 0x00},
		{R: 0x00, G: 0xff, B: 0x00},
		{R: 0x12, G: 0x34, B: 0x56},
	}

	frame := e.Frame(pixels, true)
	assert.Equal(t, len(frame), e.FrameLen(len(pixels), true), "frame length should match FrameLen")

	var want []byte
	for _, p := range pixels {
		want = e.AppendPixel(want, p)
	}
	assert.Equal(t, frame[:len(want)], want, "frame should be the pixels back to back")

	tail := frame[len(want):]
	assert.Equal(t, len(tail), e.ResetLen(), "tail should be the latch padding")
	for i, b := range tail {
		if b != 0 {
			t.Fatalf("latch padding byte %d is %#02x, want 0", i, b)
		}
	}

	bare := e.Frame(pixels, false)
	assert.Equal(t, bare, want, "frame without reset should omit the padding")
}

func TestFrameEmptyChain(t *testing.T) {
	e, err := NewEncoder(WS2812, GRB)
	if err != nil {
		t.Fatal(err)
	}
	if got := e.Frame(nil, false); len(got) != 0 {
		t.Fatalf("empty chain encoded to %d bytes", len(got))
	}
	got := e.Frame(nil, true)
	assert.Equal(t, len(got), e.ResetLen(), "empty chain with reset should be padding only")
}

func TestFrameDeterministic(t *testing.T) {
	pixels := []Pixel{{R: 1, G: 2, B: 3}, {R: 250, G: 128, B: 7}}
	a, err := NewEncoder(WS2813, BGR)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewEncoder(WS2813, BGR)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, a.Frame(pixels, true), b.Frame(pixels, true), "same input should give identical frames")
	assert.Equal(t, a.Frame(pixels, true), a.Frame(pixels, true), "encoding should not keep state between frames")
}

func TestAppendKeepsPrefix(t *testing.T) {
	e, err := NewEncoder(WS2812Compact, GRB)
	if err != nil {
		t.Fatal(err)
	}
	prefix := []byte{0xde, 0xad}
	got := e.AppendChannel(append([]byte(nil), prefix...), 0x00)
	assert.Equal(t, got[:2], prefix, "append should extend, not overwrite")
	assert.Equal(t, got[2:], []byte{0x92, 0x49, 0x24}, "appended channel should follow the prefix")
}

func BenchmarkFrame(b *testing.B) {
	e, err := NewEncoder(WS2812, GRB)
	if err != nil {
		b.Fatal(err)
	}
	pixels := make([]Pixel, 300)
	for i := range pixels {
		pixels[i] = Pixel{R: uint8(i), G: uint8(i * 3), B: uint8(i * 7)}
	}
	buf := make([]byte, 0, e.FrameLen(len(pixels), true))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = buf[:0]
		for _, p := range pixels {
			buf = e.AppendPixel(buf, p)
		}
		buf = e.AppendReset(buf)
	}
}
