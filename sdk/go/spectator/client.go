// Package spectator provides a client SDK for the arena's watch feed.
package spectator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kumite/kumite/internal/core/events"
	"github.com/kumite/kumite/internal/core/observability/log"
	"github.com/kumite/kumite/internal/server"
)

// Config holds configuration for the spectator client.
type Config struct {
	// ServerAddr is the arena host:port; the client dials its /watch
	// endpoint.
	ServerAddr string

	ConnectTimeout       time.Duration
	ReconnectInterval    time.Duration
	MaxReconnectAttempts int

	// EventBuffer is the local queue; the client drops events past it
	// rather than stall the feed.
	EventBuffer int

	LogLevel log.Level
}

// DefaultConfig returns the stock client configuration.
func DefaultConfig() Config {
	return Config{
		ServerAddr:           "localhost:8420",
		ConnectTimeout:       10 * time.Second,
		ReconnectInterval:    2 * time.Second,
		MaxReconnectAttempts: 5,
		EventBuffer:          256,
		LogLevel:             log.LevelInfo,
	}
}

// Client follows one arena's matches over WebSocket. Events arrive on
// Events() in publish order; on a dropped connection the client redials
// by itself until MaxReconnectAttempts runs out.
type Client struct {
	cfg Config
	log log.Log

	mu   sync.Mutex
	conn *websocket.Conn

	handshake server.Handshake

	connected int32 // atomic bool
	closed    int32 // atomic bool

	eventCh chan events.Event
	done    chan struct{}

	workerGroup sync.WaitGroup
}

// NewClient creates a spectator client. Connect starts the feed.
func NewClient(cfg Config) *Client {
	if cfg.EventBuffer < 1 {
		cfg.EventBuffer = 1
	}
	logger := log.New(cfg.LogLevel)

	return &Client{
		cfg:     cfg,
		log:     logger.Named("spectator"),
		eventCh: make(chan events.Event, cfg.EventBuffer),
		done:    make(chan struct{}),
	}
}

// Connect dials the arena and reads the handshake. The receive worker
// starts once the handshake is in.
func (c *Client) Connect(ctx context.Context) error {
	if atomic.LoadInt32(&c.closed) == 1 {
		return ErrClientClosed
	}
	if !atomic.CompareAndSwapInt32(&c.connected, 0, 1) {
		return ErrAlreadyConnected
	}

	if err := c.dial(ctx); err != nil {
		atomic.StoreInt32(&c.connected, 0)
		return err
	}

	c.workerGroup.Add(1)
	go func() {
		defer c.workerGroup.Done()
		c.receive()
	}()
	return nil
}

func (c *Client) dial(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
	defer cancel()

	url := "ws://" + c.cfg.ServerAddr + "/watch"
	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}

	var hello server.Handshake
	if err = conn.ReadJSON(&hello); err != nil {
		_ = conn.Close()
		return fmt.Errorf("read handshake: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.handshake = hello
	c.mu.Unlock()

	c.log.Info("connected to arena",
		log.String("addr", c.cfg.ServerAddr),
		log.String("catalog", hello.Catalog),
		log.Int("actions", hello.Actions),
	)
	return nil
}

// Handshake reports the catalog the arena announced on connect.
func (c *Client) Handshake() (server.Handshake, error) {
	if atomic.LoadInt32(&c.connected) == 0 {
		return server.Handshake{}, ErrNotConnected
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handshake, nil
}

// Events returns the feed channel. It closes when the client shuts down
// or reconnection gives up.
func (c *Client) Events() <-chan events.Event {
	return c.eventCh
}

// IsConnected reports whether the feed is currently live.
func (c *Client) IsConnected() bool {
	return atomic.LoadInt32(&c.connected) == 1
}

// Close shuts the client down. Safe to call more than once.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	close(c.done)

	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.mu.Unlock()

	c.workerGroup.Wait()
	atomic.StoreInt32(&c.connected, 0)
	return nil
}

func (c *Client) receive() {
	defer close(c.eventCh)

	for atomic.LoadInt32(&c.closed) == 0 {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()

		var ev events.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if atomic.LoadInt32(&c.closed) == 1 {
				return
			}
			c.log.Warn("feed lost", log.Error(err))
			atomic.StoreInt32(&c.connected, 0)
			if err := c.reconnect(); err != nil {
				c.log.Error("giving up on the feed", log.Error(err))
				return
			}
			continue
		}

		select {
		case c.eventCh <- ev:
		default:
			// A slow consumer loses events, same deal as on the server.
		}
	}
}

func (c *Client) reconnect() error {
	for attempt := 1; attempt <= c.cfg.MaxReconnectAttempts; attempt++ {
		select {
		case <-c.done:
			return ErrClientClosed
		case <-time.After(c.cfg.ReconnectInterval):
		}

		c.log.Info("reconnecting", log.Int("attempt", attempt))
		if err := c.dial(context.Background()); err != nil {
			c.log.Warn("reconnect attempt failed", log.Error(err))
			continue
		}
		atomic.StoreInt32(&c.connected, 1)
		return nil
	}
	return fmt.Errorf("%w after %d attempts", ErrReconnectFailed, c.cfg.MaxReconnectAttempts)
}
