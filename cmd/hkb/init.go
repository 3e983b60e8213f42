package main

import (
	"fmt"
	"os"
	"path/filepath"

	survey "github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kalo-labs/hkb/internal/hkbpath"
)

// initCmd is hkb's first-run interactive wizard: survey.AskOne prompts
// answered into plain local variables, no form/model abstraction.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively set up hkb's data directory, timezone, and sound",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	dataDir := hkbpath.DataDir()
	if err := survey.AskOne(&survey.Input{
		Message: "Data directory:",
		Default: dataDir,
	}, &dataDir); err != nil {
		return fmt.Errorf("hkb init: %w", err)
	}

	timezone := "Local"
	if err := survey.AskOne(&survey.Input{
		Message: "Timezone (IANA name, or \"Local\"):",
		Default: timezone,
	}, &timezone); err != nil {
		return fmt.Errorf("hkb init: %w", err)
	}

	soundFile := "chime.wav"
	if err := survey.AskOne(&survey.Input{
		Message: "Notification sound file (relative to <data-dir>/hkb/sound):",
		Default: soundFile,
	}, &soundFile); err != nil {
		return fmt.Errorf("hkb init: %w", err)
	}

	confirmed := false
	if err := survey.AskOne(&survey.Confirm{
		Message: fmt.Sprintf("Write config to %s?", filepath.Join(dataDir, "hkb", "config.yaml")),
		Default: true,
	}, &confirmed); err != nil {
		return fmt.Errorf("hkb init: %w", err)
	}
	if !confirmed {
		fmt.Println("aborted.")
		return nil
	}

	os.Setenv("HKB_DATA_DIR", dataDir)
	if err := hkbpath.EnsureDirs(); err != nil {
		return fmt.Errorf("hkb init: %w", err)
	}

	viper.Set("data_dir", dataDir)
	viper.Set("timezone", timezone)
	viper.Set("notify_sound", soundFile)

	cfgPath := filepath.Join(hkbpath.ConfigDir(), "config.yaml")
	if err := viper.WriteConfigAs(cfgPath); err != nil {
		return fmt.Errorf("hkb init: write config: %w", err)
	}

	fmt.Printf("wrote %s\n", cfgPath)
	return nil
}
