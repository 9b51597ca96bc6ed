// Package paths resolves where lander keeps its configuration, archive and
// trace files.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName names the per-user directories.
const appName = "lander"

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".lander"
	DefaultDataDirName   = ".lander-db"
	TraceDirName         = "traces"
)

// Environment variables overriding the directories.
const (
	EnvConfigDir = "LANDER_CONFIG_DIR"
	EnvDataDir   = "LANDER_DATA_DIR"
)

// platformDir holds platform lookups that tests can replace.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// xdgDir returns $env/lander, or ~/fallback.../lander when env is unset.
// Non-Linux platforms use os.UserConfigDir for both kinds of directory.
func xdgDir(env string, fallback ...string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
	if v := os.Getenv(env); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, fallback...), appName)...), nil
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/lander (fallback ~/.config/lander)
// macOS:   ~/Library/Application Support/lander
// Windows: %APPDATA%/lander
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory.
//
// Linux:   $XDG_DATA_HOME/lander (fallback ~/.local/share/lander)
// macOS and Windows: same as DefaultConfigDir.
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// ResolveConfigDir returns the configuration directory:
// flag > LANDER_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	for _, v := range []string{flag, os.Getenv(EnvConfigDir)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the archive directory:
// flag > data_dir from config.yaml > LANDER_DATA_DIR > $(CWD)/.lander-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, v := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// TraceDir returns the directory for generation trace files under dataDir.
func TraceDir(dataDir string) string {
	return filepath.Join(dataDir, TraceDirName)
}
