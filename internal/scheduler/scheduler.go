// Package scheduler implements the daemon's reminder scheduling engine: a
// notify tick scanning four lead-time windows with per-window dedup, and a
// cleanup tick expiring old reminders. Tick failures are logged and the
// loop continues; a bad tick never takes the daemon down.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kalo-labs/hkb/internal/audio"
	"github.com/kalo-labs/hkb/internal/hdate"
	"github.com/kalo-labs/hkb/internal/store"
)

const (
	notifyInterval  = 10 * time.Second
	cleanupInterval = 5 * time.Minute
)

// window is a lead-time interval relative to now, in minutes. notifyTick
// fetches reminders with now+startMin <= remind_at <= now+endMin, both
// ends inclusive.
type window struct {
	name     string
	startMin int
	endMin   int
}

// windows are the four lead-time windows, evaluated in order:
// [0,1], [0,5], [6,15], [16,30] minutes before remind_at.
var windows = []window{
	{name: "1m", startMin: 0, endMin: 1},
	{name: "5m", startMin: 0, endMin: 5},
	{name: "15m", startMin: 6, endMin: 15},
	{name: "30m", startMin: 16, endMin: 30},
}

// NotifyFunc delivers a desktop notification. summary is the short title,
// body is the reminder's note.
type NotifyFunc func(summary, body string) error

// Scheduler runs the notify and cleanup ticks against a Store.
type Scheduler struct {
	store     *store.Store
	notify    NotifyFunc
	player    *audio.Player
	soundFile string
	logger    *slog.Logger
	now       func() hdate.SimpleDate

	// notified tracks, per window name, which reminder ids have already
	// fired in that window this daemon run. Dedup state is process-local
	// and resets on restart; a restart inside a reminder's lead-up may
	// re-notify, which is accepted.
	notified map[string]map[int64]bool
}

// New builds a Scheduler. soundFile is passed to player.Play once per tick
// in which at least one notification fired.
func New(st *store.Store, notify NotifyFunc, player *audio.Player, soundFile string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	notified := make(map[string]map[int64]bool, len(windows))
	for _, w := range windows {
		notified[w.name] = make(map[int64]bool)
	}
	return &Scheduler{
		store:     st,
		notify:    notify,
		player:    player,
		soundFile: soundFile,
		logger:    logger,
		now:       hdate.NowLocal,
		notified:  notified,
	}
}

// Run drives the notify and cleanup ticks until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	notifyTicker := time.NewTicker(notifyInterval)
	defer notifyTicker.Stop()
	cleanupTicker := time.NewTicker(cleanupInterval)
	defer cleanupTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-notifyTicker.C:
			if err := s.notifyTick(ctx); err != nil {
				s.logger.Error("scheduler: notify tick failed", "err", err)
			}
		case <-cleanupTicker.C:
			if err := s.cleanupTick(ctx); err != nil {
				s.logger.Error("scheduler: cleanup tick failed", "err", err)
			}
		}
	}
}

func (s *Scheduler) notifyTick(ctx context.Context) error {
	now := s.now()
	fired := false

	for _, w := range windows {
		rangeStart := now.Add(hdate.Duration{Unit: hdate.Minute, N: w.startMin})
		rangeEnd := now.Add(hdate.Duration{Unit: hdate.Minute, N: w.endMin})

		due, err := s.store.FetchMany(ctx, store.Between(rangeStart, rangeEnd))
		if err != nil {
			s.logger.Error("scheduler: fetch window failed", "window", w.name, "err", err)
			continue
		}

		seen := s.notified[w.name]
		for _, r := range due {
			if seen[r.ID] {
				continue
			}
			summary := fmt.Sprintf("You have a reminder in %s", hdate.Humanize(time.Duration(w.endMin)*time.Minute))
			if err := s.notify(summary, r.Note); err != nil {
				s.logger.Error("scheduler: notify failed", "reminder_id", r.ID, "err", err)
				continue
			}
			seen[r.ID] = true
			fired = true
		}
	}

	if fired && s.player != nil {
		s.player.Play(s.soundFile)
	}
	return nil
}

// Snapshot returns a copy of the per-window dedup state for diagnostics
// (`hkb daemon --dump-state`). It is read-only: nothing ever loads a
// snapshot back in, so dedup state still resets on every restart.
func (s *Scheduler) Snapshot() map[string][]int64 {
	out := make(map[string][]int64, len(s.notified))
	for window, ids := range s.notified {
		list := make([]int64, 0, len(ids))
		for id := range ids {
			list = append(list, id)
		}
		out[window] = list
	}
	return out
}

func (s *Scheduler) cleanupTick(ctx context.Context) error {
	cutoff := s.now().Sub(hdate.Duration{Unit: hdate.Day, N: 1})
	n, err := s.store.DeleteMany(ctx, store.Options{RemindAtLe: &cutoff})
	if err != nil {
		return fmt.Errorf("scheduler: cleanup: %w", err)
	}
	if n > 0 {
		s.logger.Info("scheduler: reaped expired reminders", "count", n)
	}
	return nil
}
