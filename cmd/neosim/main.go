package main

import (
	"flag"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/neospi/preview"
	"github.com/coreman2200/neospi/wire"
)

func main() {
	var (
		addr   = flag.String("addr", ":8080", "HTTP listen address")
		pixels = flag.Int("pixels", 64, "number of LEDs on the simulated chain")
		fps    = flag.Int("fps", 30, "frames per second for the demo effect")
		demo   = flag.Bool("demo", true, "feed a rotating rainbow into the preview")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	srv := preview.NewServer(*pixels, log.Logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.HandleFrames)
	mux.HandleFunc("/health", srv.HandleHealth)

	web := &http.Server{
		Addr:         *addr,
		Handler:      withCORS(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan struct{})
	if *demo {
		go runDemo(srv, *fps, stop)
	}
	go func() {
		log.Info().Str("addr", *addr).Int("pixels", *pixels).Msg("preview server starting")
		if err := web.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")

	close(stop)
	_ = web.Close()
	_ = srv.Close()
}

// runDemo feeds a rotating rainbow into the preview so clients have
// something to look at without a producer attached.
func runDemo(srv *preview.Server, fps int, stop <-chan struct{}) {
	n := srv.NumPixels()
	rgb := make([]byte, n*3)
	ticker := time.NewTicker(time.Second / time.Duration(max(1, fps)))
	defer ticker.Stop()
	phase := 0.0
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			for i := 0; i < n; i++ {
				h := math.Mod(float64(i)/float64(max(1, n))+phase, 1.0)
				p := wire.HSVPixel(h, 1.0, 0.8)
				rgb[i*3+0] = p.R
				rgb[i*3+1] = p.G
				rgb[i*3+2] = p.B
			}
			phase += 0.01
			if _, err := srv.Write(rgb); err != nil {
				log.Warn().Err(err).Msg("demo frame dropped")
			}
		}
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
