package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "hkb",
	Short: "hkb — a personal reminder daemon and TUI",
	Long:  "hkb schedules and delivers time-based reminders via a background daemon and a terminal client.",
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.hkb/hkb/config.yaml)")

	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(initCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir := configDir()
		_ = os.MkdirAll(dir, 0o755)
		viper.AddConfigPath(dir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("hkb")
	viper.AutomaticEnv()

	viper.SetDefault("data_dir", "")
	viper.SetDefault("timezone", "Local")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("notify_sound", "chime.wav")

	// Safe read; if missing, proceed with defaults.
	_ = viper.ReadInConfig()

	if dd := viper.GetString("data_dir"); dd != "" {
		os.Setenv("HKB_DATA_DIR", dd)
	}
}

func configDir() string {
	if dd := os.Getenv("HKB_DATA_DIR"); dd != "" {
		return filepath.Join(dd, "hkb")
	}
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	return filepath.Join(home, ".hkb", "hkb")
}
