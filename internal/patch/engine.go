// Package patch implements the patch engine: applying an ordered list
// of heterogeneous edit directives (line, pattern, context) to one
// file, atomically and optionally as a preview.
package patch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/filepatch/filepatch/internal/backup"
)

// Storage is the engine's boundary to persisted bytes. Reads and
// writes are synchronous and either fully succeed or fail; the engine
// never observes a partial write.
type Storage interface {
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
}

// Snapshotter captures pre-mutation copies of files and restores them.
type Snapshotter interface {
	Snapshot(path string) (backup.Handle, error)
	Restore(h backup.Handle) error
}

// osStorage is the default Storage over the local filesystem.
type osStorage struct{}

func (osStorage) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (osStorage) Write(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, data, mode)
}

// request states. A request moves Loaded → Previewing|Applying →
// Committed|RolledBack; the terminal state determines whether storage
// was touched.
type state int

const (
	stateLoaded state = iota
	statePreviewing
	stateApplying
	stateCommitted
	stateRolledBack
)

func (s state) String() string {
	switch s {
	case stateLoaded:
		return "loaded"
	case statePreviewing:
		return "previewing"
	case stateApplying:
		return "applying"
	case stateCommitted:
		return "committed"
	default:
		return "rolled_back"
	}
}

// EngineConfig tunes an Engine. Zero values select the defaults.
type EngineConfig struct {
	// Storage overrides the filesystem boundary (tests).
	Storage Storage
	// Backups handles snapshots; required when requests set CreateBackup.
	Backups Snapshotter
	// Normalization controls context-block comparison tolerance.
	Normalization *Normalization
	// BusyFailFast makes a second request for a locked path fail with
	// a Busy error instead of blocking.
	BusyFailFast bool
	// Logger receives debug-level request traces. Nil discards.
	Logger *slog.Logger
}

// Engine applies patch requests. One engine serves many concurrent
// requests; requests for the same path are serialized.
type Engine struct {
	storage      Storage
	backups      Snapshotter
	norm         Normalization
	busyFailFast bool
	locks        *pathLocks
	log          *slog.Logger
}

// NewEngine creates an Engine from cfg.
func NewEngine(cfg EngineConfig) *Engine {
	e := &Engine{
		storage:      cfg.Storage,
		backups:      cfg.Backups,
		norm:         DefaultNormalization(),
		busyFailFast: cfg.BusyFailFast,
		locks:        newPathLocks(),
		log:          cfg.Logger,
	}
	if e.storage == nil {
		e.storage = osStorage{}
	}
	if cfg.Normalization != nil {
		e.norm = *cfg.Normalization
	}
	if e.log == nil {
		e.log = slog.New(slog.DiscardHandler)
	}
	return e
}

type matcher interface {
	apply(buf *Buffer, p Patch, norm Normalization) (Outcome, error)
}

func matcherFor(p Patch) matcher {
	switch p.Kind() {
	case KindLine:
		return lineMatcher{}
	case KindPattern:
		return patternMatcher{}
	default:
		return contextMatcher{}
	}
}

// Apply runs one request to completion. req.Path must already be
// resolved and validated by the caller's path guard.
//
// All mutation happens in memory; the file is persisted in exactly one
// write at the end (or not at all for dry runs and failures), so the
// persisted bytes are always either the full combined effect of every
// patch or the untouched original.
func (e *Engine) Apply(ctx context.Context, req Request) (*Result, error) {
	release, err := e.locks.acquire(ctx, req.Path, e.busyFailFast)
	if err != nil {
		return nil, err
	}
	defer release()

	data, err := e.storage.Read(req.Path)
	if err != nil {
		return nil, wrapError(CodeIO, err, "reading %s", req.Path)
	}
	buf, err := NewBuffer(data)
	if err != nil {
		if pe, ok := AsError(err); ok {
			pe.Message = req.Path + ": " + pe.Message
		}
		return nil, err
	}

	for i, p := range req.Patches {
		if err := p.Validate(); err != nil {
			if pe, ok := AsError(err); ok {
				pe.PatchIndex = i
			}
			return nil, err
		}
	}

	pristine := buf.Clone()

	st := stateApplying
	if req.DryRun {
		st = statePreviewing
	}
	e.log.Debug("patch request started",
		"path", req.Path, "patches", len(req.Patches), "state", st.String())

	result := &Result{}
	anyApplied := false
	for i, p := range req.Patches {
		outcome, err := matcherFor(p).apply(buf, p, e.norm)
		if err != nil {
			pe, _ := AsError(err)
			pe.PatchIndex = i
			result.Outcomes = append(result.Outcomes, Outcome{Status: StatusFailed, Reason: pe.Error()})
			e.log.Debug("patch request aborted",
				"path", req.Path, "patch", i, "code", string(pe.Code), "state", stateRolledBack.String())
			return result, pe
		}
		if outcome.Status == StatusApplied {
			anyApplied = true
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	if req.DryRun {
		result.Diff = UnifiedDiff(filepath.Base(req.Path), pristine.Text(), buf.Text())
		result.Success = true
		e.log.Debug("patch request previewed", "path", req.Path, "state", stateCommitted.String())
		return result, nil
	}

	// The persist decision follows the outcomes, not a byte comparison:
	// re-encoding alone must never count as a change, so a request whose
	// patches were all skipped leaves the file bytes strictly untouched.
	if !anyApplied {
		result.Success = true
		e.log.Debug("patch request no-op", "path", req.Path, "state", stateCommitted.String())
		return result, nil
	}

	updated := buf.Bytes()

	var handle backup.Handle
	haveBackup := false
	if req.CreateBackup {
		if e.backups == nil {
			return result, newError(CodeBackupFailure, "backups are not configured")
		}
		handle, err = e.backups.Snapshot(req.Path)
		if err != nil {
			return result, wrapError(CodeBackupFailure, err, "snapshotting %s", req.Path)
		}
		haveBackup = true
		result.BackupPath = handle.Path
	}

	if err := e.storage.Write(req.Path, updated); err != nil {
		if haveBackup {
			if rerr := e.backups.Restore(handle); rerr != nil {
				e.log.Error("restore after failed write also failed",
					"path", req.Path, "backup", handle.Path, "error", rerr)
			}
		}
		e.log.Debug("patch request rolled back", "path", req.Path, "state", stateRolledBack.String())
		return result, wrapError(CodeIO, err, "writing %s", req.Path)
	}

	result.Success = true
	e.log.Debug("patch request committed", "path", req.Path, "state", stateCommitted.String())
	return result, nil
}
