package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// ConfigFileName is the optional TOML config file inside the cch
	// dot-directory.
	ConfigFileName = "config.toml"

	dotDirName = ".cch"
	dbFileName = "sessions.db"
)

type Config struct {
	// DBPath is the SQLite database holding saved session records.
	DBPath string `toml:"db_path"`

	// ListLimit is the default row cap for `cch ls`.
	ListLimit int `toml:"list_limit"`

	// HostCommand is the session host program invoked on resume.
	HostCommand string `toml:"host_command"`

	Web    WebConfig    `toml:"web"`
	Resume ResumeConfig `toml:"resume"`
}

type WebConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	OpenBrowser bool   `toml:"open_browser"`
}

type ResumeConfig struct {
	// DangerousMode appends --dangerously-skip-permissions to the actual
	// resume invocation. The suggested command shown by ls/find always
	// displays the flag regardless.
	DangerousMode bool `toml:"dangerous_mode"`

	// ExtraArgs are appended to every resume invocation, before any
	// passthrough args given on the command line.
	ExtraArgs []string `toml:"extra_args"`
}

func DefaultConfig() Config {
	return Config{
		DBPath:      defaultDBPath(),
		ListLimit:   20,
		HostCommand: "claude",
		Web: WebConfig{
			Host:        "127.0.0.1",
			Port:        5111,
			OpenBrowser: true,
		},
		Resume: ResumeConfig{},
	}
}

// Load returns the defaults overridden by ~/.cch/config.toml when the file
// exists. A missing file is not an error; an unreadable or malformed one is.
func Load() (Config, error) {
	return LoadFile(defaultConfigPath())
}

func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, dotDirName, ConfigFileName)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return dbFileName
	}
	return filepath.Join(home, dotDirName, dbFileName)
}
