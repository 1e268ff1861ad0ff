// Package wire converts RGB pixel data into the bitstream a WS28xx LED
// chain expects on its data line.
//
// WS28xx chips have no clock input. Each data bit is a fixed-width pulse
// and the duty cycle of the pulse decides whether it is a zero or a one.
// Driving that from a SPI bus works by running the clock several times
// faster than the chip's bit rate and spending a fixed number of SPI bits
// per chip bit: a run of high SPI bits followed by a run of low SPI bits
// approximates the pulse shape. A long gap with the line low latches the
// chain, so a frame has to reach the bus as one uninterrupted transfer.
//
// The package is pure computation. A Timings value pins down the SPI
// clock and the pulse patterns, an Encoder expands bytes through a
// lookup table, and the resulting []byte goes to whatever writes the
// bus. Encoding never fails once the Encoder is built.
package wire
