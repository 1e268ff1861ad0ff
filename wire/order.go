package wire

import (
	"strings"

	"github.com/pkg/errors"
)

// ColorOrder is the order in which a chip expects its three color
// channels. WS28xx family chips shift green first, so GRB is the zero
// value and the default.
type ColorOrder int

const (
	GRB ColorOrder = iota
	GBR
	RGB
	RBG
	BGR
	BRG
)

var orderNames = map[ColorOrder]string{
	GRB: "GRB",
	GBR: "GBR",
	RGB: "RGB",
	RBG: "RBG",
	BGR: "BGR",
	BRG: "BRG",
}

func (o ColorOrder) String() string {
	if n, ok := orderNames[o]; ok {
		return n
	}
	return "GRB"
}

// ParseColorOrder maps a name like "grb" to its ColorOrder. Matching is
// case insensitive.
func ParseColorOrder(name string) (ColorOrder, error) {
	for o, n := range orderNames {
		if strings.EqualFold(n, name) {
			return o, nil
		}
	}
	return GRB, errors.Wrap(ErrColorOrder, name)
}

// channels returns p's channel values in transmission order.
func (o ColorOrder) channels(p Pixel) [3]uint8 {
	switch o {
	case GBR:
		return [3]uint8{p.G, p.B, p.R}
	case RGB:
		return [3]uint8{p.R, p.G, p.B}
	case RBG:
		return [3]uint8{p.R, p.B, p.G}
	case BGR:
		return [3]uint8{p.B, p.G, p.R}
	case BRG:
		return [3]uint8{p.B, p.R, p.G}
	default:
		return [3]uint8{p.G, p.R, p.B}
	}
}
