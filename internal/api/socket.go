package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// heartbeatMessage is sent on connect and at every heartbeat.
const heartbeatMessage = "ok"

// StatusSocket is the WebSocket clients hold open to show the server as
// reachable. It never reads anything meaningful from the client.
type StatusSocket struct {
	upgrader  websocket.Upgrader
	heartbeat time.Duration
	logger    zerolog.Logger

	mu      sync.Mutex
	clients int
}

func NewStatusSocket(heartbeat time.Duration, logger zerolog.Logger) *StatusSocket {
	return &StatusSocket{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		heartbeat: heartbeat,
		logger:    logger,
	}
}

// Clients is the number of open connections.
func (s *StatusSocket) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients
}

func (s *StatusSocket) track(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients += delta
	return s.clients
}

func (s *StatusSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer func() { _ = conn.Close() }()

	log := s.logger.With().Str("remote", r.RemoteAddr).Logger()
	log.Info().Int("clients", s.track(1)).Msg("client connected")
	defer func() {
		log.Info().Int("clients", s.track(-1)).Msg("client disconnected")
	}()

	// the reader only notices the close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Debug().Err(err).Msg("websocket read error")
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()
	for {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(heartbeatMessage)); err != nil {
			return
		}
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
