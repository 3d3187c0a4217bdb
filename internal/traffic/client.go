package traffic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	DefaultMinBackoff = 250 * time.Millisecond
	DefaultMaxBackoff = 10 * time.Second
)

type ClientConfig struct {
	// Address is host[:port] of the Stratux web server.
	Address string

	MinBackoff time.Duration
	MaxBackoff time.Duration

	Dialer *websocket.Dialer
}

// Client follows the Stratux /traffic websocket and feeds a Store.
type Client struct {
	cfg   ClientConfig
	url   string
	store *Store
	log   *slog.Logger

	started atomic.Bool

	messages   atomic.Uint64
	rejected   atomic.Uint64
	reconnects atomic.Uint64

	mu        sync.RWMutex
	connected bool
	lastErr   string
	lastSeen  time.Time
}

// ClientSnapshot is the client's connection status.
type ClientSnapshot struct {
	URL         string `json:"url"`
	Connected   bool   `json:"connected"`
	Messages    uint64 `json:"messages"`
	Rejected    uint64 `json:"rejected"`
	Reconnects  uint64 `json:"reconnects"`
	LastError   string `json:"last_error,omitempty"`
	LastSeenUTC string `json:"last_seen_utc,omitempty"`
}

func NewClient(cfg ClientConfig, store *Store, logger *slog.Logger) (*Client, error) {
	cfg.Address = strings.TrimSpace(cfg.Address)
	if cfg.Address == "" {
		return nil, fmt.Errorf("traffic client address is required")
	}
	if store == nil {
		return nil, fmt.Errorf("traffic client store is nil")
	}
	if cfg.MinBackoff <= 0 {
		cfg.MinBackoff = DefaultMinBackoff
	}
	if cfg.MaxBackoff < cfg.MinBackoff {
		cfg.MaxBackoff = max(DefaultMaxBackoff, cfg.MinBackoff)
	}
	if cfg.Dialer == nil {
		cfg.Dialer = &websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	url := "ws://" + cfg.Address + "/traffic"
	return &Client{
		cfg:   cfg,
		url:   url,
		store: store,
		log:   logger.With(slog.String("component", "traffic"), slog.String("url", url)),
	}, nil
}

// Run connects and reconnects until ctx is done. It returns nil on
// cancellation.
func (c *Client) Run(ctx context.Context) error {
	if c.started.Swap(true) {
		return fmt.Errorf("traffic client already started")
	}

	backoff := c.cfg.MinBackoff
	for {
		connectedAt := time.Now()
		err := c.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		c.setDisconnected(err)
		c.log.Warn("traffic stream lost", slog.Any("err", err), slog.Duration("retry_in", backoff))

		// A session that stayed up for a while starts over from the floor.
		if time.Since(connectedAt) > c.cfg.MaxBackoff {
			backoff = c.cfg.MinBackoff
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		c.reconnects.Add(1)
		backoff = min(backoff*2, c.cfg.MaxBackoff)
	}
}

func (c *Client) session(ctx context.Context) error {
	conn, _, err := c.cfg.Dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	c.setConnected()
	c.log.Info("traffic stream connected")

	for {
		ty, data, err := conn.ReadMessage()
		if err != nil {
			var cerr *websocket.CloseError
			if errors.As(err, &cerr) {
				return fmt.Errorf("closed by server: %w", err)
			}
			return fmt.Errorf("read: %w", err)
		}
		if ty != websocket.TextMessage {
			c.rejected.Add(1)
			continue
		}
		r, ok := ParseTrafficInfo(data, time.Now())
		if !ok {
			c.rejected.Add(1)
			continue
		}
		c.messages.Add(1)
		c.store.Upsert(r)
		c.touch()
	}
}

func (c *Client) setConnected() {
	c.mu.Lock()
	c.connected = true
	c.lastErr = ""
	c.mu.Unlock()
}

func (c *Client) setDisconnected(err error) {
	c.mu.Lock()
	c.connected = false
	if err != nil {
		c.lastErr = err.Error()
	}
	c.mu.Unlock()
}

func (c *Client) touch() {
	c.mu.Lock()
	c.lastSeen = time.Now()
	c.mu.Unlock()
}

func (c *Client) Snapshot() ClientSnapshot {
	if c == nil {
		return ClientSnapshot{}
	}
	c.mu.RLock()
	connected, lastErr, lastSeen := c.connected, c.lastErr, c.lastSeen
	c.mu.RUnlock()

	out := ClientSnapshot{
		URL:        c.url,
		Connected:  connected,
		Messages:   c.messages.Load(),
		Rejected:   c.rejected.Load(),
		Reconnects: c.reconnects.Load(),
		LastError:  lastErr,
	}
	if !lastSeen.IsZero() {
		out.LastSeenUTC = lastSeen.UTC().Format(time.RFC3339Nano)
	}
	return out
}
