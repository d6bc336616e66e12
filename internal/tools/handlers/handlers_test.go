package handlers

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filepatch/filepatch/internal/fsops"
	"github.com/filepatch/filepatch/internal/pathguard"
	"github.com/filepatch/filepatch/internal/tools"
)

func newGuard(t *testing.T) (*pathguard.Guard, string) {
	t.Helper()
	guard, err := pathguard.New(t.TempDir())
	require.NoError(t, err)
	return guard, guard.Root()
}

func seed(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func requireSuccess(t *testing.T, out *tools.ToolOutput) {
	t.Helper()
	require.NotNil(t, out.Success)
	require.True(t, *out.Success, "tool failed: %s", out.Content)
}

func TestReadFile_NumbersLines(t *testing.T) {
	guard, root := newGuard(t)
	seed(t, root, "f.txt", "first\nsecond\n")
	tool := NewReadFileTool(guard)

	out, err := tool.Handle(context.Background(), invoke("read_file", map[string]interface{}{"path": "f.txt"}))
	require.NoError(t, err)
	requireSuccess(t, out)

	assert.Contains(t, out.Content, "File: f.txt")
	assert.Contains(t, out.Content, "     1\tfirst")
	assert.Contains(t, out.Content, "     2\tsecond")
}

func TestReadFile_OffsetAndLimit(t *testing.T) {
	guard, root := newGuard(t)
	seed(t, root, "f.txt", "a\nb\nc\nd\n")
	tool := NewReadFileTool(guard)

	out, err := tool.Handle(context.Background(), invoke("read_file", map[string]interface{}{
		"path": "f.txt", "offset": float64(1), "limit": float64(2),
	}))
	require.NoError(t, err)

	assert.NotContains(t, out.Content, "\ta\n")
	assert.Contains(t, out.Content, "     2\tb")
	assert.Contains(t, out.Content, "     3\tc")
	assert.NotContains(t, out.Content, "\td\n")
}

func TestReadFile_EmptyFile(t *testing.T) {
	guard, root := newGuard(t)
	seed(t, root, "empty.txt", "")
	tool := NewReadFileTool(guard)

	out, err := tool.Handle(context.Background(), invoke("read_file", map[string]interface{}{"path": "empty.txt"}))
	require.NoError(t, err)
	assert.Contains(t, out.Content, "(empty file)")
}

func TestWriteFile_OverwritesContent(t *testing.T) {
	guard, root := newGuard(t)
	seed(t, root, "f.txt", "old")
	tool := NewWriteFileTool(guard)

	out, err := tool.Handle(context.Background(), invoke("write_file", map[string]interface{}{
		"path": "f.txt", "content": "new content",
	}))
	require.NoError(t, err)
	requireSuccess(t, out)

	data, err := os.ReadFile(filepath.Join(root, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new content", string(data))
}

func TestWriteFile_ContentRequired(t *testing.T) {
	guard, _ := newGuard(t)
	tool := NewWriteFileTool(guard)

	_, err := tool.Handle(context.Background(), invoke("write_file", map[string]interface{}{"path": "f.txt"}))
	require.Error(t, err)
	assert.True(t, tools.IsValidationError(err))
}

func TestWriteFile_CreateDirs(t *testing.T) {
	guard, root := newGuard(t)
	tool := NewWriteFileTool(guard)

	out, err := tool.Handle(context.Background(), invoke("write_file", map[string]interface{}{
		"path": "deep/nested/f.txt", "content": "x", "create_dirs": true,
	}))
	require.NoError(t, err)
	requireSuccess(t, out)
	assert.FileExists(t, filepath.Join(root, "deep", "nested", "f.txt"))
}

func TestCreateFile_RefusesExisting(t *testing.T) {
	guard, root := newGuard(t)
	seed(t, root, "f.txt", "already here")
	tool := NewCreateFileTool(guard)

	out, err := tool.Handle(context.Background(), invoke("create_file", map[string]interface{}{
		"path": "f.txt", "content": "clobber",
	}))
	require.NoError(t, err)
	require.NotNil(t, out.Success)
	assert.False(t, *out.Success)

	data, err := os.ReadFile(filepath.Join(root, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "already here", string(data))
}

func TestCreateFile_DefaultsToEmptyContent(t *testing.T) {
	guard, root := newGuard(t)
	tool := NewCreateFileTool(guard)

	out, err := tool.Handle(context.Background(), invoke("create_file", map[string]interface{}{"path": "new.txt"}))
	require.NoError(t, err)
	requireSuccess(t, out)

	data, err := os.ReadFile(filepath.Join(root, "new.txt"))
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestDeleteFile_RemovesFile(t *testing.T) {
	guard, root := newGuard(t)
	path := seed(t, root, "f.txt", "x")
	tool := NewDeleteFileTool(guard)

	out, err := tool.Handle(context.Background(), invoke("delete_file", map[string]interface{}{"path": "f.txt"}))
	require.NoError(t, err)
	requireSuccess(t, out)
	assert.NoFileExists(t, path)
}

func TestDeleteFile_RefusesRoot(t *testing.T) {
	guard, _ := newGuard(t)
	tool := NewDeleteFileTool(guard)

	_, err := tool.Handle(context.Background(), invoke("delete_file", map[string]interface{}{"path": "."}))
	require.Error(t, err)
	assert.True(t, tools.IsValidationError(err))
}

func TestMoveFile_Renames(t *testing.T) {
	guard, root := newGuard(t)
	seed(t, root, "src.txt", "payload")
	tool := NewMoveFileTool(guard)

	out, err := tool.Handle(context.Background(), invoke("move_file", map[string]interface{}{
		"source": "src.txt", "destination": "dst.txt",
	}))
	require.NoError(t, err)
	requireSuccess(t, out)

	assert.NoFileExists(t, filepath.Join(root, "src.txt"))
	data, err := os.ReadFile(filepath.Join(root, "dst.txt"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestMoveFile_TraversalDestinationRejected(t *testing.T) {
	guard, root := newGuard(t)
	seed(t, root, "src.txt", "x")
	tool := NewMoveFileTool(guard)

	out, err := tool.Handle(context.Background(), invoke("move_file", map[string]interface{}{
		"source": "src.txt", "destination": "../escape.txt",
	}))
	require.NoError(t, err)
	require.NotNil(t, out.Success)
	assert.False(t, *out.Success)
	assert.FileExists(t, filepath.Join(root, "src.txt"))
}

func TestCopyFile_Duplicates(t *testing.T) {
	guard, root := newGuard(t)
	seed(t, root, "src.txt", "payload")
	tool := NewCopyFileTool(guard)

	out, err := tool.Handle(context.Background(), invoke("copy_file", map[string]interface{}{
		"source": "src.txt", "destination": "copy.txt",
	}))
	require.NoError(t, err)
	requireSuccess(t, out)

	assert.FileExists(t, filepath.Join(root, "src.txt"))
	assert.FileExists(t, filepath.Join(root, "copy.txt"))
}

func TestListFiles_ReturnsEntries(t *testing.T) {
	guard, root := newGuard(t)
	seed(t, root, "a.go", "package a")
	seed(t, root, "b.txt", "b")
	tool := NewListFilesTool(guard)

	out, err := tool.Handle(context.Background(), invoke("list_files", map[string]interface{}{"pattern": "*.go"}))
	require.NoError(t, err)
	requireSuccess(t, out)

	var entries []fsops.Info
	require.NoError(t, json.Unmarshal([]byte(out.Content), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "a.go", entries[0].Path)
}

func TestSearchFiles_ContentMatches(t *testing.T) {
	guard, root := newGuard(t)
	seed(t, root, "a.txt", "alpha\nneedle here\n")
	seed(t, root, "b.txt", "nothing\n")
	tool := NewSearchFilesTool(guard)

	out, err := tool.Handle(context.Background(), invoke("search_files", map[string]interface{}{
		"content": "needle",
	}))
	require.NoError(t, err)
	requireSuccess(t, out)

	var matches []fsops.SearchMatch
	require.NoError(t, json.Unmarshal([]byte(out.Content), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "a.txt", matches[0].File)
	assert.Equal(t, 2, matches[0].Line)
}

func TestSearchFiles_InvalidRegexIsValidationError(t *testing.T) {
	guard, _ := newGuard(t)
	tool := NewSearchFilesTool(guard)

	_, err := tool.Handle(context.Background(), invoke("search_files", map[string]interface{}{
		"content": "[broken",
	}))
	require.Error(t, err)
	assert.True(t, tools.IsValidationError(err))
}

func TestReplaceInFiles_AppliesAndReports(t *testing.T) {
	guard, root := newGuard(t)
	seed(t, root, "a.txt", "old old\n")
	tool := NewReplaceInFilesTool(guard)

	out, err := tool.Handle(context.Background(), invoke("replace_in_files", map[string]interface{}{
		"find": "old", "replace": "new",
	}))
	require.NoError(t, err)
	requireSuccess(t, out)

	var results []fsops.ReplaceResult
	require.NoError(t, json.Unmarshal([]byte(out.Content), &results))
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Replacements)

	data, err := os.ReadFile(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new new\n", string(data))
}

func TestFileInfo_ReportsMetadata(t *testing.T) {
	guard, root := newGuard(t)
	seed(t, root, "f.txt", "a\nb\n")
	tool := NewFileInfoTool(guard)

	out, err := tool.Handle(context.Background(), invoke("file_info", map[string]interface{}{"path": "f.txt"}))
	require.NoError(t, err)
	requireSuccess(t, out)

	var info fsops.Info
	require.NoError(t, json.Unmarshal([]byte(out.Content), &info))
	assert.Equal(t, "f.txt", info.Path)
	assert.Equal(t, fsops.TypeText, info.Type)
	assert.Equal(t, 2, info.Lines)
	assert.Equal(t, int64(4), info.Size)
}
