package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kalo-labs/hkb/internal/hdate"
	"github.com/kalo-labs/hkb/internal/hdate/parser"
	"github.com/kalo-labs/hkb/internal/hkbpath"
	"github.com/kalo-labs/hkb/internal/store"
)

// remindCmd talks to the reminder store directly rather than through the
// daemon socket: open storage, do one operation, print, exit. The change is
// not announced to connected clients: a running TUI requests a sync only
// when it starts, so it does not show the change until it is restarted.
var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Manage reminders",
}

var remindAddCmd = &cobra.Command{
	Use:   "add <note> <when>",
	Short: `Create a reminder, e.g. hkb remind add "pay rent" "in 10 minutes"`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		at, err := parser.Parse(args[1], hdate.NowLocal())
		if err != nil {
			return fmt.Errorf("hkb remind add: %w", err)
		}
		r, err := st.Create(context.Background(), args[0], at)
		if err != nil {
			return fmt.Errorf("hkb remind add: %w", err)
		}
		fmt.Printf("created reminder #%d: %q at %s\n", r.ID, r.Note, r.RemindAt.Local().String())
		return nil
	},
}

var remindLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all reminders, ordered by id",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		rs, err := st.FetchMany(context.Background(), store.Options{})
		if err != nil {
			return fmt.Errorf("hkb remind ls: %w", err)
		}
		if len(rs) == 0 {
			fmt.Println("No reminders.")
			return nil
		}
		for _, r := range rs {
			fmt.Printf("#%-4d %s  %s\n", r.ID, r.RemindAt.Local().String(), r.Note)
		}
		return nil
	},
}

var remindRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a reminder by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("hkb remind rm: invalid id %q", args[0])
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteOne(context.Background(), id); err != nil {
			return fmt.Errorf("hkb remind rm: %w", err)
		}
		fmt.Printf("deleted reminder #%d\n", id)
		return nil
	},
}

func init() {
	remindCmd.AddCommand(remindAddCmd)
	remindCmd.AddCommand(remindLsCmd)
	remindCmd.AddCommand(remindRmCmd)
}

func openStore() (*store.Store, error) {
	if err := hkbpath.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("ensure data dirs: %w", err)
	}
	st, err := store.New(hkbpath.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := st.Init(context.Background()); err != nil {
		st.Close()
		return nil, fmt.Errorf("init store: %w", err)
	}
	return st, nil
}
