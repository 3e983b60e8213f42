package transport

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/kalo-labs/hkb/internal/frame"
	"github.com/kalo-labs/hkb/internal/wireevent"
)

// Conn wraps one accepted or dialed Unix-domain connection with queued
// egress and reassembled ingress. Both the server and client roles share
// this type; only how a Conn is obtained differs.
type Conn struct {
	raw    net.Conn
	logger *slog.Logger
	id     string

	mu       sync.Mutex
	pending  []wireevent.Event
	inFlight []frame.Frame

	reassembler frame.Reassembler
}

// NewConn wraps raw. logger receives a "conn" attribute carrying a
// correlation id so log lines from one connection stay grepable across
// reconnects.
func NewConn(raw net.Conn, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &Conn{raw: raw, logger: logger.With("conn", id), id: id}
}

// ID returns this connection's correlation id.
func (c *Conn) ID() string { return c.id }

// Close closes the underlying socket.
func (c *Conn) Close() error { return c.raw.Close() }

// QueueEvent pushes e onto the outgoing FIFO. It never blocks and never
// fails.
func (c *Conn) QueueEvent(e wireevent.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, e)
}

// Flush pops the head event (if not already mid-send), splits it into
// frames, and writes each as one syscall. A successful write of a frame
// commits it; Flush never re-sends a frame once written. On a transient
// write failure, whatever frames remain unsent stay queued at the head for
// the next Flush call.
func (c *Conn) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight == nil {
		if len(c.pending) == 0 {
			return nil
		}
		e := c.pending[0]
		b, err := wireevent.Marshal(e)
		if err != nil {
			// Malformed event: drop it rather than wedge the queue forever.
			c.logger.Error("transport: dropping unmarshalable event", "err", err)
			c.pending = c.pending[1:]
			return nil
		}
		frames, err := frame.Split(b)
		if err != nil {
			c.logger.Error("transport: dropping oversized event", "err", err)
			c.pending = c.pending[1:]
			return nil
		}
		c.pending = c.pending[1:]
		c.inFlight = frames
	}

	for len(c.inFlight) > 0 {
		f := c.inFlight[0]
		if _, err := c.raw.Write(f.Encode()); err != nil {
			if isTemporary(err) {
				return ErrWritesTemporarilyBlocked
			}
			return fmt.Errorf("%w: %v", ErrConnectionClosed, err)
		}
		c.inFlight = c.inFlight[1:]
	}
	c.inFlight = nil
	return nil
}

// ReadEvent reads exactly one frame and feeds it to the per-connection
// reassembler. It returns the reassembled event once complete, or
// ErrInProgress while more frames are still expected.
func (c *Conn) ReadEvent() (wireevent.Event, error) {
	buf := make([]byte, frame.FrameSize)
	if _, err := io.ReadFull(c.raw, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return wireevent.Event{}, ErrConnectionClosed
		}
		if isTemporary(err) {
			return wireevent.Event{}, ErrReadsTemporarilyBlocked
		}
		return wireevent.Event{}, fmt.Errorf("%w: %v", ErrConnectionClosed, err)
	}

	f, err := frame.Decode(buf)
	if err != nil {
		c.logger.Warn("transport: malformed frame, resynchronizing", "err", err)
		c.reassembler.Reset()
		return wireevent.Event{}, ErrInProgress
	}

	payload, done, err := c.reassembler.Feed(f)
	if err != nil {
		c.logger.Warn("transport: reassembly failed, resynchronizing", "err", err)
		return wireevent.Event{}, ErrInProgress
	}
	if !done {
		return wireevent.Event{}, ErrInProgress
	}

	e, err := wireevent.Unmarshal(payload)
	if err != nil {
		return wireevent.Event{}, fmt.Errorf("%w: %v", ErrNotEventMessage, err)
	}
	return e, nil
}

func isTemporary(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}
