// Package server exposes running matches to spectators over WebSocket.
// It is a state feed: clients get the handshake and then every hub event
// their connection can keep up with. Rendering is the client's problem.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/kumite/kumite/internal/core/action"
	"github.com/kumite/kumite/internal/core/events"
	"github.com/kumite/kumite/internal/core/observability/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Spectating is read only; any origin may watch.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Handshake is the first frame every spectator receives. Catalog is the
// hex fingerprint of the action catalog driving the matches, so a client
// can tell which id table the frame events refer to.
type Handshake struct {
	Catalog string   `json:"catalog"`
	Buttons []string `json:"buttons"`
	Actions int      `json:"actions"`
}

// Config tunes the spectate server. The zero value listens on :8420 with
// a 64 event buffer per spectator.
type Config struct {
	Addr string `yaml:"addr" json:"addr"`
	// Buffer is the per-spectator queue; a client lagging past it loses
	// frames instead of stalling the match loop.
	Buffer int `yaml:"buffer" json:"buffer"`
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = ":8420"
	}
	if c.Buffer <= 0 {
		c.Buffer = 64
	}
	return c
}

// SpectateServer streams hub events to WebSocket clients on /watch.
type SpectateServer struct {
	hub     *events.Hub
	catalog *action.Catalog
	cfg     Config
	log     log.Log

	server *http.Server
	lis    net.Listener
}

func NewSpectateServer(hub *events.Hub, catalog *action.Catalog, cfg Config, logger log.Log) *SpectateServer {
	if logger == nil {
		logger = log.Nop()
	}
	return &SpectateServer{
		hub:     hub,
		catalog: catalog,
		cfg:     cfg.withDefaults(),
		log:     logger.Named("spectate"),
	}
}

// Start binds the listen address and serves in the background. Bind
// errors surface here; serve errors only hit the log.
func (s *SpectateServer) Start() error {
	lis, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	s.lis = lis
	s.server = &http.Server{Handler: s}

	go func() {
		if err := s.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("spectate server stopped", log.Error(err))
		}
	}()
	s.log.Info("spectate server listening", log.String("addr", lis.Addr().String()))
	return nil
}

// Addr reports the bound address, useful when Config.Addr used port 0.
func (s *SpectateServer) Addr() string {
	if s.lis == nil {
		return ""
	}
	return s.lis.Addr().String()
}

func (s *SpectateServer) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *SpectateServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/watch" {
		s.handleWatch(w, r)
		return
	}
	http.NotFound(w, r)
}

func (s *SpectateServer) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("spectator upgrade failed", log.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	// Subscribe before the handshake goes out, so a client that saw the
	// handshake never misses events published right after it.
	feed, cancel := s.hub.Subscribe(s.cfg.Buffer)
	defer cancel()

	if err = conn.WriteJSON(Handshake{
		Catalog: fmt.Sprintf("%016x", s.catalog.Fingerprint()),
		Buttons: s.catalog.Buttons(),
		Actions: s.catalog.Len(),
	}); err != nil {
		s.log.Debug("spectator handshake failed", log.Error(err))
		return
	}
	s.log.Debug("spectator joined", log.String("remote", conn.RemoteAddr().String()))

	// Spectators never send data; the read loop just notices the hangup.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for ev := range feed {
		if err := conn.WriteJSON(ev); err != nil {
			s.log.Debug("spectator write failed", log.Error(err))
			return
		}
	}
}
