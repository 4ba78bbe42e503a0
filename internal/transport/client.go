// Package transport implements the real-time connection over WebSocket.
package transport

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zhubert/widgetchat/internal/config"
	"github.com/zhubert/widgetchat/internal/connection"
	"github.com/zhubert/widgetchat/internal/errors"
	"github.com/zhubert/widgetchat/internal/logger"
	"github.com/zhubert/widgetchat/internal/message"
	"github.com/zhubert/widgetchat/internal/metrics"
)

const (
	// EventBuffer is the capacity of the events channel.
	EventBuffer = 64

	// MessageBuffer is the capacity of the incoming messages channel.
	MessageBuffer = 128

	writeWait = 10 * time.Second
)

// Config holds the connection parameters handed to the client.
type Config struct {
	URL            string
	ConnectTimeout time.Duration
	ReconnectMin   time.Duration
	ReconnectMax   time.Duration
	MaxReconnects  int
}

// ConfigFrom builds a transport Config from the application config.
func ConfigFrom(cfg *config.Config) Config {
	conn := cfg.GetConnection()
	return Config{
		URL:            cfg.GetServerURL(),
		ConnectTimeout: conn.ConnectTimeout(),
		ReconnectMin:   conn.ReconnectMin(),
		ReconnectMax:   conn.ReconnectMax(),
		MaxReconnects:  conn.MaxReconnects,
	}
}

// Backoff returns the delay before the given reconnect attempt (1-based):
// min doubled per attempt and capped at max.
func (c Config) Backoff(attempt int) time.Duration {
	d := c.ReconnectMin
	if d <= 0 {
		d = time.Duration(config.DefaultReconnectMinMs) * time.Millisecond
	}
	for i := 1; i < attempt; i++ {
		d *= 2
		if c.ReconnectMax > 0 && d >= c.ReconnectMax {
			return c.ReconnectMax
		}
	}
	if c.ReconnectMax > 0 && d > c.ReconnectMax {
		return c.ReconnectMax
	}
	return d
}

// Client is a WebSocket client implementing connection.Transport.
type Client struct {
	cfg    Config
	dialer *websocket.Dialer
	log    *slog.Logger

	events   chan connection.TransportEvent
	messages chan message.Message

	mu           sync.Mutex
	conn         *websocket.Conn
	reconnecting bool
	attempts     int
	closed       bool

	writeMu   sync.Mutex
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a client. Nothing is dialed until Connect.
func New(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.ConnectTimeout,
		},
		log:      logger.ComponentLogger("transport").With("url", cfg.URL),
		events:   make(chan connection.TransportEvent, EventBuffer),
		messages: make(chan message.Message, MessageBuffer),
		done:     make(chan struct{}),
	}
}

// Events implements connection.Transport.
func (c *Client) Events() <-chan connection.TransportEvent {
	return c.events
}

// Messages returns decoded incoming messages. Frames that fail to decode are
// dropped and logged.
func (c *Client) Messages() <-chan message.Message {
	return c.messages
}

// Connect dials the server. It emits EventConnectRequested before dialing and
// EventTransportOpen or EventTransportError afterwards.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errors.TransportClosed()
	}
	if c.conn != nil {
		c.mu.Unlock()
		c.emit(connection.TransportEvent{Type: connection.EventTransportOpen})
		return nil
	}
	c.mu.Unlock()

	c.emit(connection.TransportEvent{Type: connection.EventConnectRequested})

	conn, err := c.dial(ctx)
	if err != nil {
		c.log.Warn("dial failed", "error", err)
		c.emit(connection.TransportEvent{Type: connection.EventTransportError, Err: err})
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return errors.TransportClosed()
	}
	if c.conn != nil {
		// A concurrent attempt won; the open event is repeated for observers
		// that entered connecting after it.
		c.mu.Unlock()
		conn.Close()
		c.emit(connection.TransportEvent{Type: connection.EventTransportOpen})
		return nil
	}
	c.conn = conn
	c.attempts = 0
	c.mu.Unlock()

	c.log.Info("connected")
	c.emit(connection.TransportEvent{Type: connection.EventTransportOpen})

	c.wg.Add(1)
	go c.readLoop(conn)
	return nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	if c.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.ConnectTimeout)
		defer cancel()
	}

	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errors.ConnectTimeout(c.cfg.URL)
		}
		return nil, errors.TransportDialFailed(c.cfg.URL, err)
	}
	return conn, nil
}

func (c *Client) readLoop(conn *websocket.Conn) {
	defer c.wg.Done()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleReadError(conn, err)
			return
		}

		m, err := message.Decode(data)
		if err != nil {
			metrics.TransportFrames.WithLabelValues("dropped").Inc()
			c.log.Warn("dropping undecodable frame", "error", err, "bytes", len(data))
			continue
		}
		metrics.TransportFrames.WithLabelValues("decoded").Inc()

		select {
		case c.messages <- m:
		case <-c.done:
			return
		}
	}
}

func (c *Client) handleReadError(conn *websocket.Conn, err error) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	closed := c.closed
	c.mu.Unlock()
	conn.Close()

	if closed {
		return
	}

	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		c.log.Info("server closed connection")
		c.emit(connection.TransportEvent{Type: connection.EventTransportClose})
		return
	}

	c.log.Warn("connection lost", "error", err)
	c.emit(connection.TransportEvent{Type: connection.EventTransportError, Err: err})
	c.startReconnect()
}

func (c *Client) startReconnect() {
	c.mu.Lock()
	if c.reconnecting || c.closed || c.cfg.MaxReconnects <= 0 {
		c.mu.Unlock()
		return
	}
	c.reconnecting = true
	c.mu.Unlock()

	c.wg.Add(1)
	go c.reconnectLoop()
}

func (c *Client) reconnectLoop() {
	defer c.wg.Done()
	defer func() {
		c.mu.Lock()
		c.reconnecting = false
		c.mu.Unlock()
	}()

	for {
		c.mu.Lock()
		if c.conn != nil || c.closed {
			c.mu.Unlock()
			return
		}
		if c.attempts >= c.cfg.MaxReconnects {
			attempts := c.attempts
			c.mu.Unlock()
			c.log.Error("giving up reconnecting", "attempts", attempts)
			return
		}
		c.attempts++
		attempt := c.attempts
		c.mu.Unlock()

		delay := c.cfg.Backoff(attempt)
		c.log.Info("reconnecting", "attempt", attempt, "max", c.cfg.MaxReconnects, "delay", delay)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-c.done:
			timer.Stop()
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			select {
			case <-c.done:
				cancel()
			case <-ctx.Done():
			}
		}()
		err := c.Connect(ctx)
		cancel()
		if err == nil {
			return
		}
	}
}

// Attempts returns the number of reconnect attempts since the last success.
func (c *Client) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

// Send writes m as a JSON text frame.
func (c *Client) Send(ctx context.Context, m message.Message) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return errors.TransportClosed()
	}

	data, err := json.Marshal(m)
	if err != nil {
		return errors.E(errors.Op("transport.Send"), errors.KindInvalid, err)
	}

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(deadline)
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return errors.E(errors.Op("transport.Send"), errors.KindTransport, err)
	}
	return nil
}

// emit delivers ev unless the client has been closed.
func (c *Client) emit(ev connection.TransportEvent) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

// Close sends a normal closure frame, stops reconnecting and waits for the
// client's goroutines to exit.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		conn := c.conn
		c.conn = nil
		c.mu.Unlock()

		close(c.done)

		if conn != nil {
			c.writeMu.Lock()
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			c.writeMu.Unlock()
			err = conn.Close()
		}
		c.wg.Wait()
	})
	return err
}
