// Package hkbpath resolves the well-known filesystem locations under the
// user's data directory: the daemon socket, the SQLite file, the sound
// directory, and the config directory.
package hkbpath

import (
	"os"
	"path/filepath"
)

// DataDir returns the HKB data directory, defaulting to ~/.hkb. Honors
// HKB_DATA_DIR so tests and packaging can override it.
func DataDir() string {
	if dir := os.Getenv("HKB_DATA_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hkb"
	}
	return filepath.Join(home, ".hkb")
}

// SocketPath returns <data-dir>/hkb/hkb.sock.
func SocketPath() string {
	return filepath.Join(DataDir(), "hkb", "hkb.sock")
}

// DBPath returns <data-dir>/hkb/db.
func DBPath() string {
	return filepath.Join(DataDir(), "hkb", "db")
}

// SoundDir returns <data-dir>/hkb/sound.
func SoundDir() string {
	return filepath.Join(DataDir(), "hkb", "sound")
}

// SoundPath resolves rel under SoundDir if it is a relative path; an
// absolute path is returned unchanged.
func SoundPath(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(SoundDir(), rel)
}

// ConfigDir returns <data-dir>/hkb, the directory holding config.yaml.
func ConfigDir() string {
	return filepath.Join(DataDir(), "hkb")
}

// EnsureDirs creates the hkb and sound directories if they do not exist.
func EnsureDirs() error {
	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		return err
	}
	return os.MkdirAll(SoundDir(), 0o755)
}
