// Package preview mirrors LED frames to websocket clients, so a strip
// can be watched from a browser while the hardware is elsewhere or
// absent. A Server accepts the same RGB triplet frames a real strip
// does, which makes the two interchangeable behind io.Writer.
package preview

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrLength is returned when a frame does not carry exactly three
// bytes per pixel.
var ErrLength = errors.New("rgb payload length mismatch")

const writeWait = 200 * time.Millisecond

// Server fans frames out to connected clients. Handlers can serve
// concurrently; frames are expected from a single producer.
type Server struct {
	mu        sync.RWMutex
	log       zerolog.Logger
	numPixels int
	rgb       []byte
	frameID   uint64
	start     time.Time
	clients   map[*websocket.Conn]bool
}

// NewServer returns a Server for a chain of numPixels LEDs.
func NewServer(numPixels int, lg zerolog.Logger) *Server {
	return &Server{
		log:       lg,
		numPixels: numPixels,
		rgb:       make([]byte, numPixels*3),
		start:     time.Now(),
		clients:   map[*websocket.Conn]bool{},
	}
}

// NumPixels returns the length of the mirrored chain.
func (s *Server) NumPixels() int {
	return s.numPixels
}

type frameMsg struct {
	T       int64  `json:"t"`
	FrameID uint64 `json:"frame_id"`
	RGB     []byte `json:"rgb"`
}

type helloMsg struct {
	Pixels int `json:"pixels"`
}

// Write takes a frame of RGB triplets, red first, one triplet per
// pixel, and pushes it to every connected client. The frame state is
// only locked for the copy, not for the fan out. It implements
// io.Writer.
func (s *Server) Write(rgb []byte) (int, error) {
	if len(rgb) != 3*s.numPixels {
		return 0, errors.Wrapf(ErrLength, "%d bytes for %d pixels", len(rgb), s.numPixels)
	}
	s.mu.Lock()
	copy(s.rgb, rgb)
	s.frameID++
	id := s.frameID
	buf := append([]byte{}, s.rgb...)
	s.mu.Unlock()

	s.broadcastFrame(id, buf)
	return len(rgb), nil
}

// broadcastFrame pushes one snapshotted frame to every connected
// client. Write failures only get logged, the per client read loop
// reaps dead connections.
func (s *Server) broadcastFrame(id uint64, rgb []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, _ := json.Marshal(frameMsg{T: time.Now().UnixNano(), FrameID: id, RGB: rgb})
	for c := range s.clients {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			s.log.Debug().Err(err).Msg("write frame")
		}
	}
}

// HandleFrames upgrades the request and streams frames to the client
// until it goes away. The first message tells the client the chain
// length.
func (s *Server) HandleFrames(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("upgrade")
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	b, _ := json.Marshal(helloMsg{Pixels: s.numPixels})
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		s.log.Debug().Err(err).Msg("write hello")
	}
	s.mu.Unlock()
	s.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("preview client connected")

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// HandleHealth reports liveness and frame progress as JSON.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp := map[string]any{
		"frame_id": s.frameID,
		"uptime_s": time.Since(s.start).Seconds(),
		"pixels":   s.numPixels,
		"clients":  len(s.clients),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// Close drops every connected client.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.Close()
	}
	s.clients = map[*websocket.Conn]bool{}
	return nil
}
