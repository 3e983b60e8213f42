package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kalo-labs/hkb/internal/wireevent"
)

// flushInterval paces how often queued egress is drained to the socket.
const flushInterval = 500 * time.Millisecond

// Server accepts connections on a Unix-domain socket, running one
// transport loop goroutine per accepted connection.
type Server struct {
	socketPath string
	logger     *slog.Logger
	onEvent    func(*Conn, wireevent.Event)

	mu    sync.Mutex
	conns map[string]*Conn
}

// NewServer configures a Server. onEvent is invoked from the connection's
// own goroutine whenever a full event is reassembled.
func NewServer(socketPath string, logger *slog.Logger, onEvent func(*Conn, wireevent.Event)) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{socketPath: socketPath, logger: logger, onEvent: onEvent, conns: make(map[string]*Conn)}
}

// ListenAndServe binds the socket, removing any stale file left behind by a
// previous run first, then accepts connections until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0o755); err != nil {
		return fmt.Errorf("transport: mkdir socket dir: %w", err)
	}
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("transport: unlink stale socket: %w", err)
	}

	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("transport: listen %s: %w", s.socketPath, err)
	}
	defer ln.Close()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		raw, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("transport: accept: %w", err)
		}
		c := NewConn(raw, s.logger)
		s.track(c)
		go func() {
			defer s.untrack(c)
			defer c.Close()
			s.runConnection(ctx, c)
		}()
	}
}

func (s *Server) track(c *Conn)   { s.mu.Lock(); s.conns[c.ID()] = c; s.mu.Unlock() }
func (s *Server) untrack(c *Conn) { s.mu.Lock(); delete(s.conns, c.ID()); s.mu.Unlock() }

// Broadcast queues e on every currently-connected client, used to announce
// ReminderCreated/Updated/Deleted to all peers including the sender.
func (s *Server) Broadcast(e wireevent.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		c.QueueEvent(e)
	}
}

func (s *Server) runConnection(ctx context.Context, c *Conn) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	frameCh := make(chan wireevent.Event)
	errCh := make(chan error, 1)
	go readLoop(c, frameCh, errCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Flush(); err != nil && !errors.Is(err, ErrWritesTemporarilyBlocked) {
				s.logger.Info("transport: connection closed on flush", "conn", c.ID(), "err", err)
				return
			}
		case e := <-frameCh:
			if s.onEvent != nil {
				s.onEvent(c, e)
			}
		case err := <-errCh:
			s.logger.Info("transport: connection closed", "conn", c.ID(), "err", err)
			return
		}
	}
}

// readLoop continuously calls ReadEvent, forwarding complete events and
// filtering out the in-progress/transient signals a select loop can just
// wait past. A payload that reassembles but fails to decode is logged and
// skipped; the reassembler resyncs on the next seq==1 frame.
func readLoop(c *Conn, frameCh chan<- wireevent.Event, errCh chan<- error) {
	for {
		e, err := c.ReadEvent()
		if err != nil {
			if errors.Is(err, ErrInProgress) || errors.Is(err, ErrReadsTemporarilyBlocked) {
				continue
			}
			if errors.Is(err, ErrNotEventMessage) {
				c.logger.Warn("transport: discarding undecodable event", "err", err)
				continue
			}
			errCh <- err
			return
		}
		frameCh <- e
	}
}
