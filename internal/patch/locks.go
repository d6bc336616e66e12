package patch

import (
	"context"
	"sync"
)

// pathLocks serializes requests per canonical path. Entries are
// created lazily on first access, reference-counted while any request
// holds or awaits them, and removed once unreferenced.
type pathLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	sem  chan struct{}
	refs int
}

func newPathLocks() *pathLocks {
	return &pathLocks{entries: make(map[string]*lockEntry)}
}

// acquire takes the exclusive section for path. With failFast set, a
// held lock yields a Busy error instead of blocking. The returned
// release function must be called exactly once.
func (l *pathLocks) acquire(ctx context.Context, path string, failFast bool) (func(), error) {
	l.mu.Lock()
	entry, ok := l.entries[path]
	if !ok {
		entry = &lockEntry{sem: make(chan struct{}, 1)}
		l.entries[path] = entry
	}
	entry.refs++
	l.mu.Unlock()

	release := func() {
		<-entry.sem
		l.unref(path, entry)
	}

	if failFast {
		select {
		case entry.sem <- struct{}{}:
			return release, nil
		default:
			l.unref(path, entry)
			return nil, newError(CodeBusy, "another request is editing %s", path)
		}
	}

	select {
	case entry.sem <- struct{}{}:
		return release, nil
	case <-ctx.Done():
		l.unref(path, entry)
		return nil, wrapError(CodeBusy, ctx.Err(), "canceled while waiting for %s", path)
	}
}

func (l *pathLocks) unref(path string, entry *lockEntry) {
	l.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, path)
	}
	l.mu.Unlock()
}
