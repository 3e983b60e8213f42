package transport

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/kalo-labs/hkb/internal/wireevent"
)

// reconnectBackoff is the fixed delay between reconnect attempts.
const reconnectBackoff = 3 * time.Second

const outboundBuffer = 64

// Client dials the daemon's socket and keeps a single cooperative
// connection task alive, reconnecting with a fixed backoff on disconnect.
// The outbound channel survives reconnects, so events queued while the
// daemon is down flush once the dial succeeds.
type Client struct {
	socketPath string
	logger     *slog.Logger
	onEvent    func(wireevent.Event)
	outbound   chan wireevent.Event
}

// NewClient configures a Client. onEvent fires from the connection's own
// goroutine for each reassembled event; callers bridge it back to the UI
// thread themselves (e.g. a bubbletea tea.Cmd channel).
func NewClient(socketPath string, logger *slog.Logger, onEvent func(wireevent.Event)) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		socketPath: socketPath,
		logger:     logger,
		onEvent:    onEvent,
		outbound:   make(chan wireevent.Event, outboundBuffer),
	}
}

// SetOnEvent replaces the event callback. Safe to call before Run starts;
// not safe to call concurrently with an active connection.
func (c *Client) SetOnEvent(onEvent func(wireevent.Event)) {
	c.onEvent = onEvent
}

// Send enqueues e for the daemon without blocking; the UI thread never
// awaits socket I/O. A full buffer drops the event and logs rather than
// stalling the caller.
func (c *Client) Send(e wireevent.Event) {
	select {
	case c.outbound <- e:
	default:
		c.logger.Warn("transport: outbound buffer full, dropping event", "kind", e.Kind)
	}
}

// Run dials and services the connection until ctx is canceled, reconnecting
// on every disconnect.
func (c *Client) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		raw, err := net.Dial("unix", c.socketPath)
		if err != nil {
			c.logger.Warn("transport: dial failed, retrying", "err", err, "backoff", reconnectBackoff)
			if !sleepOrDone(ctx, reconnectBackoff) {
				return ctx.Err()
			}
			continue
		}

		conn := NewConn(raw, c.logger)
		runErr := c.runConnection(ctx, conn)
		conn.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Info("transport: disconnected, reconnecting", "err", runErr, "backoff", reconnectBackoff)
		if !sleepOrDone(ctx, reconnectBackoff) {
			return ctx.Err()
		}
	}
}

func (c *Client) runConnection(ctx context.Context, conn *Conn) error {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	frameCh := make(chan wireevent.Event)
	errCh := make(chan error, 1)
	go readLoop(conn, frameCh, errCh)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := conn.Flush(); err != nil && !errors.Is(err, ErrWritesTemporarilyBlocked) {
				return err
			}
		case e := <-frameCh:
			if c.onEvent != nil {
				c.onEvent(e)
			}
		case err := <-errCh:
			return err
		case e := <-c.outbound:
			conn.QueueEvent(e)
		}
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
