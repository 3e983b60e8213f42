package transport

import (
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/kalo-labs/hkb/internal/wireevent"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConn_QueueFlushReadEvent(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	sender := NewConn(a, discardLogger())
	receiver := NewConn(b, discardLogger())

	sender.QueueEvent(wireevent.Ping())

	done := make(chan error, 1)
	go func() { done <- sender.Flush() }()

	var got wireevent.Event
	for {
		e, err := receiver.ReadEvent()
		if err == ErrInProgress || err == ErrReadsTemporarilyBlocked {
			continue
		}
		if err != nil {
			t.Fatalf("ReadEvent: %v", err)
		}
		got = e
		break
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Flush: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Flush did not complete")
	}

	if got.Kind != wireevent.KindPing {
		t.Errorf("got.Kind = %v, want Ping", got.Kind)
	}
}

func TestConn_MultiFrameEventRoundTrips(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	sender := NewConn(a, discardLogger())
	receiver := NewConn(b, discardLogger())

	bigNote := make([]byte, 20000)
	for i := range bigNote {
		bigNote[i] = 'x'
	}
	r := sampleReminderWithNote(string(bigNote))
	sender.QueueEvent(wireevent.ReminderCreated(r))

	go sender.Flush() //nolint:errcheck

	var got wireevent.Event
	for {
		e, err := receiver.ReadEvent()
		if err == ErrInProgress || err == ErrReadsTemporarilyBlocked {
			continue
		}
		if err != nil {
			t.Fatalf("ReadEvent: %v", err)
		}
		got = e
		break
	}

	if got.Kind != wireevent.KindReminderCreated || got.Reminder.Note != string(bigNote) {
		t.Errorf("multi-frame round trip mismatch: kind=%v note-len=%d", got.Kind, len(got.Reminder.Note))
	}
}
