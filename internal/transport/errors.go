// Package transport implements the event transport atop a Unix-domain
// stream socket: per-connection queued egress, frame-level flush, and
// reassembled ingress, shared between the daemon's server role and the
// client's dial role.
package transport

import "errors"

// ErrWritesTemporarilyBlocked is returned by Flush when the socket is not
// currently writable; the caller retries on the next tick.
var ErrWritesTemporarilyBlocked = errors.New("transport: writes temporarily blocked")

// ErrReadsTemporarilyBlocked is returned by ReadEvent when no data is yet
// available; the caller retries on the next readability signal.
var ErrReadsTemporarilyBlocked = errors.New("transport: reads temporarily blocked")

// ErrConnectionClosed is surfaced once a syscall returns EOF or broken
// pipe. The caller's loop must exit.
var ErrConnectionClosed = errors.New("transport: connection closed")

// ErrInProgress is returned by ReadEvent when a frame was consumed but the
// event it belongs to is not yet complete.
var ErrInProgress = errors.New("transport: reassembly in progress")

// ErrNotEventMessage is returned when reassembled bytes fail to decode as a
// wire event.
var ErrNotEventMessage = errors.New("transport: not an event message")
