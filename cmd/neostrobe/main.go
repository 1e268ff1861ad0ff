package main

import (
	"flag"
	"image"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"

	"github.com/coreman2200/neospi"
	"github.com/coreman2200/neospi/config"
	"github.com/coreman2200/neospi/term"
	"github.com/coreman2200/neospi/wire"
)

func main() {
	// ---- Flags (remain usable; strip.yaml can override most) ----
	var (
		configPath = flag.String("config", "", "path to strip.yaml")
		dev        = flag.String("dev", "", "SPI port name, empty picks the first one")
		pixels     = flag.Int("pixels", 64, "number of LEDs on the chain")
		chip       = flag.String("chip", "ws2812", "timing profile: ws2812 | ws2813 | ws2812-compact")
		colorOrder = flag.String("color", "GRB", "LED color order (e.g. GRB, RGB)")
		fps        = flag.Int("fps", 40, "frames per second")
		effect     = flag.String("effect", "strobe", "effect: strobe | rainbow")
		termOnly   = flag.Bool("term-only", false, "skip the hardware and draw to the terminal")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Effective params (config overrides flags where available) ----
	cfg := config.Default()
	cfg.NumPixels = *pixels
	cfg.Chip = *chip
	cfg.ColorOrder = *colorOrder
	cfg.FPS = *fps
	cfg.SPI.Dev = *dev
	if *configPath != "" {
		if c, err := config.Load(*configPath); err != nil {
			log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
		} else {
			if c.NumPixels > 0 {
				cfg.NumPixels = c.NumPixels
			}
			if c.Chip != "" {
				cfg.Chip = c.Chip
			}
			if c.ColorOrder != "" {
				cfg.ColorOrder = c.ColorOrder
			}
			if c.FPS > 0 {
				cfg.FPS = c.FPS
			}
			if c.SPI.Dev != "" {
				cfg.SPI.Dev = c.SPI.Dev
			}
			if c.SPI.SpeedHz > 0 {
				cfg.SPI.SpeedHz = c.SPI.SpeedHz
			}
			if c.SPI.ResetUs > 0 {
				cfg.SPI.ResetUs = c.SPI.ResetUs
			}
		}
	}

	opts, err := cfg.StripOpts()
	if err != nil {
		log.Fatal().Err(err).Msg("bad strip setup")
	}

	// ---- Open the strip, or draw at the terminal without one ----
	var drawer display.Drawer
	var strip *neospi.Strip
	if *termOnly {
		drawer = term.New(nil, opts.NumPixels)
	} else if s, err := neospi.Open(cfg.SPI.Dev, opts); err != nil {
		log.Warn().Err(err).Msg("no SPI port, drawing at the terminal")
		drawer = term.New(nil, opts.NumPixels)
	} else {
		strip = s
		drawer = s
	}
	if err := drawer.Halt(); err != nil {
		log.Fatal().Err(err).Msg("clear failed")
	}
	log.Info().
		Int("pixels", opts.NumPixels).
		Str("chip", cfg.Chip).
		Str("effect", *effect).
		Str("on", drawer.String()).
		Msg("running")

	// ---- Frame loop & graceful shutdown ----
	frame := image.NewNRGBA(drawer.Bounds())
	ticker := time.NewTicker(time.Second / time.Duration(max(1, cfg.FPS)))
	defer ticker.Stop()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var on bool
	var phase float64
	for {
		select {
		case s := <-quit:
			log.Info().Str("signal", s.String()).Msg("shutting down")
			if err := drawer.Halt(); err != nil {
				log.Warn().Err(err).Msg("clear failed")
			}
			if strip != nil {
				_ = strip.Close()
			}
			return
		case <-ticker.C:
			switch *effect {
			case "rainbow":
				for x := 0; x < opts.NumPixels; x++ {
					h := math.Mod(float64(x)/float64(opts.NumPixels)+phase, 1.0)
					frame.SetNRGBA(x, 0, wire.HSVPixel(h, 1, 1).NRGBA())
				}
				phase += 0.01
			default:
				on = !on
				var p wire.Pixel
				if on {
					p = wire.Pixel{R: 0xff, G: 0xff, B: 0xff}
				}
				for x := 0; x < opts.NumPixels; x++ {
					frame.SetNRGBA(x, 0, p.NRGBA())
				}
			}
			if err := drawer.Draw(drawer.Bounds(), frame, image.Point{}); err != nil {
				log.Fatal().Err(err).Msg("draw failed")
			}
		}
	}
}
