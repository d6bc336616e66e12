// Package logging configures the server's slog output. Stdout is the
// MCP wire, so logs go to a file (or nowhere); nothing in this process
// may print to stdout except the protocol.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// FileLogger bundles a logger with its cleanup.
type FileLogger struct {
	Logger  *slog.Logger
	Close   func() error
	Path    string
	Enabled bool
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// NewFileLogger opens a JSON logger appending to path. An empty path
// disables logging. Debug lowers the level to slog.LevelDebug.
func NewFileLogger(path string, debug bool) (FileLogger, error) {
	nop := FileLogger{Logger: Nop(), Close: func() error { return nil }}
	if path == "" {
		return nop, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nop, err
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nop, err
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return FileLogger{
		Logger:  slog.New(handler),
		Close:   file.Close,
		Path:    path,
		Enabled: true,
	}, nil
}
