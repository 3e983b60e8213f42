package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kalo-labs/hkb/internal/hkbpath"
	"github.com/kalo-labs/hkb/internal/logging"
	"github.com/kalo-labs/hkb/internal/transport"
	"github.com/kalo-labs/hkb/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the reminders terminal UI",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(logging.Config{
		Targets:  []logging.Target{logging.TargetFile},
		FilePath: filepath.Join(hkbpath.ConfigDir(), "tui.log"),
		Level:    logging.LevelFromEnv(slog.LevelInfo),
	})
	if err != nil {
		return fmt.Errorf("hkb tui: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cli := transport.NewClient(hkbpath.SocketPath(), logger, nil)
	go cli.Run(ctx) //nolint:errcheck

	watch := tui.NewConfigWatch(filepath.Join(hkbpath.ConfigDir(), "config.yaml"), 0)
	model := tui.NewAppModel(cli, watch)

	program := tea.NewProgram(model, tea.WithAltScreen())

	defer func() {
		if r := recover(); r != nil {
			logger.Error("tui: recovered panic", "panic", r)
		}
	}()

	_, err = program.Run()
	return err
}
