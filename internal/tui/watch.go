package tui

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatch notifies the TUI when the on-disk config file changes. The
// app model reacts by showing a status line; it does not re-read the
// config, so an edited sound file or data directory takes effect only after
// a restart. Bursty writes (editors often write-then-rename) are coalesced
// behind a debounce timer.
type ConfigWatch struct {
	path     string
	debounce time.Duration
}

// NewConfigWatch watches path (typically hkbpath.ConfigDir()+"/config.yaml").
// debounce coalesces bursty writes; <= 0 defaults to 250ms.
func NewConfigWatch(path string, debounce time.Duration) *ConfigWatch {
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	return &ConfigWatch{path: path, debounce: debounce}
}

// Changes starts watching and returns a channel emitting a signal per
// coalesced burst of writes. The channel closes when ctx is canceled or
// the watcher fails to start.
func (w *ConfigWatch) Changes(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		close(out)
		return out
	}
	if err := watcher.Add(w.path); err != nil {
		watcher.Close()
		close(out)
		return out
	}

	go func() {
		defer close(out)
		defer watcher.Close()

		var pending *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if pending == nil {
					pending = time.NewTimer(w.debounce)
				} else {
					pending.Reset(w.debounce)
				}
				fire = pending.C
			case <-fire:
				select {
				case out <- struct{}{}:
				default:
				}
				fire = nil
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out
}
