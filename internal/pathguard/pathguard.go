// Package pathguard confines client-supplied paths to a configured
// base root. It is the single component allowed to reject a path on
// traversal grounds; everything downstream trusts resolved paths.
package pathguard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrTraversal is returned when a resolved path escapes the root.
type ErrTraversal struct {
	Requested string
}

func (e *ErrTraversal) Error() string {
	return fmt.Sprintf("path %q escapes the allowed root", e.Requested)
}

// Guard resolves paths against one base root.
type Guard struct {
	root string
}

// New creates a Guard rooted at dir. The root itself is canonicalized
// once, so a symlinked root behaves consistently.
func New(dir string) (*Guard, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", dir, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return &Guard{root: abs}, nil
}

// Root returns the canonical base root.
func (g *Guard) Root() string {
	return g.root
}

// Resolve canonicalizes requested against the root and returns the
// absolute path, or an ErrTraversal when the result lies outside the
// root. Both ".." segments and symlinks pointing out of the root are
// rejected; symlinks are followed through the deepest existing
// ancestor so that not-yet-created files still resolve.
func (g *Guard) Resolve(requested string) (string, error) {
	joined := requested
	if !filepath.IsAbs(joined) {
		joined = filepath.Join(g.root, joined)
	}
	joined = filepath.Clean(joined)

	resolved, err := resolveExisting(joined)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", requested, err)
	}

	if !within(g.root, resolved) {
		return "", &ErrTraversal{Requested: requested}
	}
	return joined, nil
}

// resolveExisting evaluates symlinks for the longest existing prefix
// of path and re-joins the non-existing remainder.
func resolveExisting(path string) (string, error) {
	remainder := ""
	current := path
	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			return filepath.Join(resolved, remainder), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return filepath.Join(current, remainder), nil
		}
		remainder = filepath.Join(filepath.Base(current), remainder)
		current = parent
	}
}

func within(root, path string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
