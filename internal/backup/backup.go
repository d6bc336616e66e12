// Package backup snapshots files before mutation and restores them on
// demand. Snapshots are plain copies named after the source file plus
// a timestamp and a short random token, so repeated snapshots of the
// same path in the same second do not collide.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const timestampFormat = "20060102_150405"

// Handle identifies one snapshot. Handles are opaque to callers; the
// engine only threads them back into Restore.
type Handle struct {
	Source    string    `json:"source"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager creates and restores snapshots. With an empty Dir, snapshots
// are written next to their source file. A positive Keep bounds how
// many snapshots per source path are retained; older ones are pruned
// after each new snapshot. Zero keeps everything.
type Manager struct {
	Dir  string
	Keep int
}

// NewManager creates a Manager writing snapshots into dir. The
// directory is created on first use.
func NewManager(dir string) *Manager {
	return &Manager{Dir: dir}
}

// Snapshot copies the current bytes of path into a new backup file and
// returns its handle. The source's permission bits are preserved.
func (m *Manager) Snapshot(path string) (Handle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Handle{}, fmt.Errorf("reading %s for backup: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return Handle{}, fmt.Errorf("stat %s for backup: %w", path, err)
	}

	dir := m.Dir
	if dir == "" {
		dir = filepath.Dir(path)
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return Handle{}, fmt.Errorf("creating backup dir %s: %w", dir, err)
	}

	now := time.Now().UTC()
	token := uuid.NewString()[:8]
	name := fmt.Sprintf("%s.backup_%s_%s", filepath.Base(path), now.Format(timestampFormat), token)
	backupPath := filepath.Join(dir, name)

	// Prune before writing so the new snapshot can never be the one
	// removed; housekeeping failures do not fail the snapshot.
	if m.Keep > 0 {
		_ = m.Prune(path, m.Keep-1)
	}

	if err := os.WriteFile(backupPath, data, info.Mode().Perm()); err != nil {
		return Handle{}, fmt.Errorf("writing backup %s: %w", backupPath, err)
	}

	return Handle{Source: path, Path: backupPath, CreatedAt: now}, nil
}

// Restore writes the snapshot's bytes back over its source file.
func (m *Manager) Restore(h Handle) error {
	data, err := os.ReadFile(h.Path)
	if err != nil {
		return fmt.Errorf("reading backup %s: %w", h.Path, err)
	}
	if err := os.WriteFile(h.Source, data, 0o644); err != nil {
		return fmt.Errorf("restoring %s from %s: %w", h.Source, h.Path, err)
	}
	return nil
}

// List returns the backups of path, newest first.
func (m *Manager) List(path string) ([]Handle, error) {
	dir := m.Dir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	prefix := filepath.Base(path) + ".backup_"

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var handles []Handle
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		h := Handle{Source: path, Path: filepath.Join(dir, entry.Name())}
		if ts, ok := parseTimestamp(entry.Name(), prefix); ok {
			h.CreatedAt = ts
		}
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool {
		return handles[i].CreatedAt.After(handles[j].CreatedAt)
	})
	return handles, nil
}

// Prune deletes all but the keep newest backups of path.
func (m *Manager) Prune(path string, keep int) error {
	handles, err := m.List(path)
	if err != nil {
		return err
	}
	if keep < 0 {
		keep = 0
	}
	for _, h := range handles[min(keep, len(handles)):] {
		if err := os.Remove(h.Path); err != nil {
			return err
		}
	}
	return nil
}

func parseTimestamp(name, prefix string) (time.Time, bool) {
	rest := strings.TrimPrefix(name, prefix)
	// <timestamp>_<token>
	idx := strings.LastIndex(rest, "_")
	if idx < 0 {
		return time.Time{}, false
	}
	ts, err := time.Parse(timestampFormat, rest[:idx])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
