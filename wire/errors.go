package wire

import "errors"

var (
	// ErrPulseWidth is returned when the number of SPI bits per chip bit is unusable.
	ErrPulseWidth = errors.New("pulse width must be between 2 and 32 spi bits")
	// ErrPulseShape is returned when a pulse pattern is not a high run followed by a low run.
	ErrPulseShape = errors.New("pulse pattern must be contiguous high bits from the msb")
	// ErrPulseRatio is returned when the one pattern does not stay high longer than the zero pattern.
	ErrPulseRatio = errors.New("one pulse must be longer than zero pulse")
	// ErrPulseTail is returned when the one pattern has no trailing low time.
	ErrPulseTail = errors.New("pulse pattern must end low")
	// ErrClockRate is returned when no SPI clock frequency is set.
	ErrClockRate = errors.New("spi clock frequency must be positive")
	// ErrColorOrder is returned when a color order name is not recognized.
	ErrColorOrder = errors.New("unknown color order")
)
