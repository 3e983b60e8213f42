package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/kalo-labs/hkb/internal/daemon"
	"github.com/kalo-labs/hkb/internal/hkbpath"
	"github.com/kalo-labs/hkb/internal/logging"
)

var dumpStatePath string

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the background reminder daemon",
	RunE:  runDaemon,
}

func init() {
	daemonCmd.Flags().StringVar(&dumpStatePath, "dump-state", "",
		"write the scheduler's per-window dedup snapshot as YAML to this path on shutdown")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(logging.Config{
		Targets: []logging.Target{logging.TargetStdout},
		Level:   logging.LevelFromEnv(slog.LevelInfo),
	})
	if err != nil {
		return fmt.Errorf("hkb daemon: %w", err)
	}

	cfg, err := daemon.DefaultConfig(logger, hkbpath.SoundPath(viper.GetString("notify_sound")))
	if err != nil {
		return fmt.Errorf("hkb daemon: %w", err)
	}

	d, err := daemon.New(cfg)
	if err != nil {
		return fmt.Errorf("hkb daemon: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("daemon: listening", "socket", cfg.SocketPath)
	runErr := d.Run(ctx)

	if dumpStatePath != "" {
		if err := dumpSchedulerState(d, dumpStatePath); err != nil {
			logger.Error("hkb daemon: dump-state failed", "err", err)
		} else {
			logger.Info("hkb daemon: dumped scheduler state", "path", dumpStatePath)
		}
	}
	return runErr
}

// dumpSchedulerState writes the scheduler's per-window dedup snapshot to
// path as YAML, for post-mortem inspection of which reminders had already
// fired in which lead-time window at shutdown.
func dumpSchedulerState(d *daemon.Daemon, path string) error {
	b, err := yaml.Marshal(d.SchedulerSnapshot())
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}
