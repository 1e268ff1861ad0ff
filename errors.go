package neospi

import "errors"

var (
	// ErrPixelCount is returned when a strip is built with no pixels.
	ErrPixelCount = errors.New("pixel count must be positive")
	// ErrPixelIndex is returned when a pixel index is outside the strip.
	ErrPixelIndex = errors.New("pixel index out of range")
	// ErrFrameSize is returned when an encoded frame cannot reach the bus
	// in one transfer.
	ErrFrameSize = errors.New("frame does not fit the spi transfer limit")
	// ErrLength is returned when a raw write does not carry exactly three
	// bytes per pixel.
	ErrLength = errors.New("rgb payload length mismatch")
)
