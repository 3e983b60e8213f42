// Package daemon wires together the store, scheduler, audio player, and
// transport server into the single long-running background process. One
// constructor assembles the dependency graph; the caller owns the context
// that bounds its lifetime.
package daemon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kalo-labs/hkb/internal/audio"
	"github.com/kalo-labs/hkb/internal/hkbpath"
	"github.com/kalo-labs/hkb/internal/scheduler"
	"github.com/kalo-labs/hkb/internal/store"
	"github.com/kalo-labs/hkb/internal/transport"
	"github.com/kalo-labs/hkb/internal/wireevent"
)

// Config controls daemon construction.
type Config struct {
	SocketPath string
	DBPath     string
	SoundFile  string
	Logger     *slog.Logger
}

// Daemon owns the store, transport server, scheduler, and audio player for
// the lifetime of the process.
type Daemon struct {
	store  *store.Store
	server *transport.Server
	sched  *scheduler.Scheduler
	player *audio.Player
	logger *slog.Logger
}

// New opens the store and wires the transport server's event handler to it,
// but does not yet start serving; call Run for that.
func New(cfg Config) (*Daemon, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	st, err := store.New(cfg.DBPath, store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("daemon: open store: %w", err)
	}
	if err := st.Init(context.Background()); err != nil {
		st.Close()
		return nil, fmt.Errorf("daemon: init store: %w", err)
	}

	player := audio.New(logger)

	d := &Daemon{
		store:  st,
		player: player,
		logger: logger,
	}

	d.server = transport.NewServer(cfg.SocketPath, logger, d.handleEvent)
	d.sched = scheduler.New(st, d.notify, player, cfg.SoundFile, logger)

	return d, nil
}

// Run serves client connections and drives the scheduler until ctx is
// canceled, then releases the store and audio player.
func (d *Daemon) Run(ctx context.Context) error {
	defer d.store.Close()
	defer d.player.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- d.server.ListenAndServe(ctx) }()
	go d.sched.Run(ctx)

	select {
	case <-ctx.Done():
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}

// SchedulerSnapshot exposes the scheduler's per-window dedup state for the
// daemon's diagnostic --dump-state flag.
func (d *Daemon) SchedulerSnapshot() map[string][]int64 {
	return d.sched.Snapshot()
}

func (d *Daemon) notify(summary, body string) error {
	return scheduler.DesktopNotify(summary, body)
}

// handleEvent answers a client's request events by mutating the store and
// broadcasting the outcome to every connected client, including the
// requester (see internal/wireevent's doc comment on Event for why the
// ReminderCreated/Updated/Deleted tags serve as both requests and
// announcements). Ping and SyncRequest are answered only to the requester,
// with Pong and SyncResponse.
func (d *Daemon) handleEvent(c *transport.Conn, e wireevent.Event) {
	ctx := context.Background()

	switch e.Kind {
	case wireevent.KindPing:
		c.QueueEvent(wireevent.Pong())

	case wireevent.KindSyncRequest:
		rs, err := d.store.FetchMany(ctx, store.Options{})
		if err != nil {
			d.logger.Error("daemon: sync fetch failed", "err", err)
			return
		}
		c.QueueEvent(wireevent.SyncResponse(rs))

	case wireevent.KindReminderCreated:
		r := e.Reminder
		created, err := d.store.Create(ctx, r.Note, r.RemindAt)
		if err != nil {
			d.logger.Error("daemon: create reminder failed", "err", err)
			return
		}
		d.server.Broadcast(wireevent.ReminderCreated(created))

	case wireevent.KindReminderUpdated:
		r := e.Reminder
		updated, err := d.store.Update(ctx, r.ID, &r.Note, &r.RemindAt)
		if err != nil {
			d.logger.Error("daemon: update reminder failed", "id", r.ID, "err", err)
			return
		}
		d.server.Broadcast(wireevent.ReminderUpdated(updated))

	case wireevent.KindReminderDeleted:
		if err := d.store.DeleteOne(ctx, e.ReminderID); err != nil {
			d.logger.Error("daemon: delete reminder failed", "id", e.ReminderID, "err", err)
			return
		}
		d.server.Broadcast(wireevent.ReminderDeleted(e.ReminderID))
	}
}

// DefaultConfig builds a Config from the standard hkb data-directory
// layout, creating it if absent.
func DefaultConfig(logger *slog.Logger, soundFile string) (Config, error) {
	if err := hkbpath.EnsureDirs(); err != nil {
		return Config{}, fmt.Errorf("daemon: ensure dirs: %w", err)
	}
	return Config{
		SocketPath: hkbpath.SocketPath(),
		DBPath:     hkbpath.DBPath(),
		SoundFile:  soundFile,
		Logger:     logger,
	}, nil
}
