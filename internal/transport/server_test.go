package transport

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/kalo-labs/hkb/internal/wireevent"
)

func TestServerClient_RoundTrip(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "hkb.sock")

	received := make(chan wireevent.Event, 1)
	srv := NewServer(socketPath, discardLogger(), func(c *Conn, e wireevent.Event) {
		received <- e
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srvErr := make(chan error, 1)
	go func() { srvErr <- srv.ListenAndServe(ctx) }()

	// Give the listener a moment to bind.
	time.Sleep(50 * time.Millisecond)

	clientEvents := make(chan wireevent.Event, 1)
	cli := NewClient(socketPath, discardLogger(), func(e wireevent.Event) {
		clientEvents <- e
	})
	go cli.Run(ctx) //nolint:errcheck

	time.Sleep(100 * time.Millisecond) // let the client dial
	cli.Send(wireevent.Ping())

	select {
	case e := <-received:
		if e.Kind != wireevent.KindPing {
			t.Errorf("server received kind = %v, want Ping", e.Kind)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not receive event")
	}

	srv.Broadcast(wireevent.Pong())
	select {
	case e := <-clientEvents:
		if e.Kind != wireevent.KindPong {
			t.Errorf("client received kind = %v, want Pong", e.Kind)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("client did not receive broadcast event")
	}
}

func TestServer_UnlinksStaleSocket(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "hkb.sock")

	srv1 := NewServer(socketPath, discardLogger(), nil)
	ctx1, cancel1 := context.WithCancel(context.Background())
	done1 := make(chan error, 1)
	go func() { done1 <- srv1.ListenAndServe(ctx1) }()
	time.Sleep(50 * time.Millisecond)
	cancel1()
	<-done1

	// The socket file may be left behind by a previous run; a second
	// server must unlink it before binding rather than failing to listen.
	srv2 := NewServer(socketPath, discardLogger(), nil)
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	done2 := make(chan error, 1)
	go func() { done2 <- srv2.ListenAndServe(ctx2) }()
	time.Sleep(50 * time.Millisecond)
	cancel2()

	select {
	case err := <-done2:
		if err != nil {
			t.Errorf("second ListenAndServe = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("second server did not shut down cleanly")
	}
}
