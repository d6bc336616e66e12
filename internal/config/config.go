// Package config loads server settings from an optional JSON file
// with flag-level overrides applied by the caller.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/filepatch/filepatch/internal/patch"
)

// Config holds every tunable of the server.
type Config struct {
	// Root is the directory served to clients; all tool paths resolve
	// inside it. Defaults to the working directory.
	Root string `json:"root,omitempty"`

	// BackupDir receives snapshots. Empty means next to the source file.
	BackupDir string `json:"backup_dir,omitempty"`

	// BackupKeep bounds retained snapshots per file; zero keeps all.
	BackupKeep int `json:"backup_keep,omitempty"`

	// Normalization tunes context-block matching tolerance.
	Normalization *patch.Normalization `json:"normalization,omitempty"`

	// BusyFailFast rejects a second concurrent request for the same
	// path instead of queueing it.
	BusyFailFast bool `json:"busy_fail_fast,omitempty"`

	// LogFile receives JSON logs; empty disables file logging.
	LogFile string `json:"log_file,omitempty"`

	// Debug raises the log level to debug.
	Debug bool `json:"debug,omitempty"`
}

// Default returns the zero-config defaults.
func Default() Config {
	norm := patch.DefaultNormalization()
	return Config{Normalization: &norm}
}

// Load reads path and merges it over the defaults. A missing file is
// not an error when path is empty; an explicitly given path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Normalization == nil {
		norm := patch.DefaultNormalization()
		cfg.Normalization = &norm
	}
	return cfg, nil
}
