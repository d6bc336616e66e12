package pathguard

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuard(t *testing.T) (*Guard, string) {
	t.Helper()
	root := t.TempDir()
	guard, err := New(root)
	require.NoError(t, err)
	return guard, guard.Root()
}

func TestResolve_RelativePathInsideRoot(t *testing.T) {
	guard, root := newGuard(t)

	got, err := guard.Resolve("sub/file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "sub", "file.txt"), got)
}

func TestResolve_AbsolutePathInsideRoot(t *testing.T) {
	guard, root := newGuard(t)

	got, err := guard.Resolve(filepath.Join(root, "file.txt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "file.txt"), got)
}

func TestResolve_RootItself(t *testing.T) {
	guard, root := newGuard(t)

	got, err := guard.Resolve(".")
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestResolve_DotDotEscapeRejected(t *testing.T) {
	guard, _ := newGuard(t)

	_, err := guard.Resolve("../outside.txt")
	require.Error(t, err)
	var traversal *ErrTraversal
	assert.ErrorAs(t, err, &traversal)
}

func TestResolve_DotDotInsideRootAllowed(t *testing.T) {
	guard, root := newGuard(t)

	got, err := guard.Resolve("sub/../file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "file.txt"), got)
}

func TestResolve_AbsolutePathOutsideRootRejected(t *testing.T) {
	guard, _ := newGuard(t)

	_, err := guard.Resolve("/etc/passwd")
	require.Error(t, err)
	var traversal *ErrTraversal
	assert.ErrorAs(t, err, &traversal)
}

func TestResolve_NotYetCreatedFileResolves(t *testing.T) {
	guard, root := newGuard(t)

	got, err := guard.Resolve("deep/nested/new.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "deep", "nested", "new.txt"), got)
}

func TestResolve_SymlinkEscapeRejected(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}
	guard, root := newGuard(t)
	outside := t.TempDir()
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "link")))

	_, err := guard.Resolve("link/file.txt")
	require.Error(t, err)
	var traversal *ErrTraversal
	assert.ErrorAs(t, err, &traversal)
}

func TestResolve_SymlinkWithinRootAllowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}
	guard, root := newGuard(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, "real"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "alias")))

	got, err := guard.Resolve("alias/file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "alias", "file.txt"), got)
}
