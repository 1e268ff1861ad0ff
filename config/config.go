// Package config reads and writes the strip description shared by the
// commands: which chip, how many pixels, which port and how fast.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/neospi"
	"github.com/coreman2200/neospi/wire"
)

// ErrUnknownChip is returned when the chip name matches no timing
// profile.
var ErrUnknownChip = errors.New("unknown chip profile")

// SPI selects the port and optional overrides for the profile's bus
// settings. Raising speed_hz shortens every pulse proportionally, the
// 2.4 to 3.2MHz band tends to work for the compact profile.
type SPI struct {
	Dev     string `yaml:"dev"`                // e.g. /dev/spidev0.0, or SPI0.0
	SpeedHz int64  `yaml:"speed_hz,omitempty"` // e.g. 2400000
	ResetUs int    `yaml:"reset_us,omitempty"` // e.g. 300
}

type Config struct {
	Chip       string `yaml:"chip"` // "ws2812" | "ws2813" | "ws2812-compact"
	NumPixels  int    `yaml:"num_pixels"`
	ColorOrder string `yaml:"color_order"`
	FPS        int    `yaml:"fps"`

	SPI SPI `yaml:"spi"`
}

// Default returns the setup most chains ship with.
func Default() *Config {
	return &Config{
		Chip:       wire.WS2812.Name,
		NumPixels:  64,
		ColorOrder: wire.GRB.String(),
		FPS:        60,
		SPI:        SPI{Dev: ""},
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: read")
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrap(err, "config: parse")
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "config: encode")
	}
	return errors.Wrap(os.WriteFile(path, b, 0644), "config: write")
}

// Timings resolves the chip name to its profile and applies the SPI
// overrides.
func (c *Config) Timings() (wire.Timings, error) {
	t, ok := wire.ProfileByName(strings.ToLower(c.Chip))
	if !ok {
		known := make([]string, 0, len(wire.Profiles()))
		for _, p := range wire.Profiles() {
			known = append(known, p.Name)
		}
		return wire.Timings{}, errors.Wrapf(ErrUnknownChip, "%q, have %s", c.Chip, strings.Join(known, ", "))
	}
	if c.SPI.SpeedHz > 0 {
		t.SPIClock = physic.Frequency(c.SPI.SpeedHz) * physic.Hertz
	}
	if c.SPI.ResetUs > 0 {
		t.Reset = time.Duration(c.SPI.ResetUs) * time.Microsecond
	}
	return t, nil
}

// Order resolves the configured channel order.
func (c *Config) Order() (wire.ColorOrder, error) {
	if c.ColorOrder == "" {
		return wire.GRB, nil
	}
	o, err := wire.ParseColorOrder(c.ColorOrder)
	return o, errors.Wrap(err, "config")
}

// StripOpts turns the config into options for neospi.New or Open.
func (c *Config) StripOpts() (*neospi.Opts, error) {
	t, err := c.Timings()
	if err != nil {
		return nil, err
	}
	o, err := c.Order()
	if err != nil {
		return nil, err
	}
	return &neospi.Opts{NumPixels: c.NumPixels, Timings: t, Order: o}, nil
}
