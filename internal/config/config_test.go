package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg.Normalization)
	assert.True(t, cfg.Normalization.EquateLineEndings)
	assert.True(t, cfg.Normalization.TrimTrailingWhitespace)
	assert.Empty(t, cfg.Root)
	assert.False(t, cfg.BusyFailFast)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"root": "/srv/files",
		"busy_fail_fast": true,
		"backup_keep": 5,
		"normalization": {"equate_line_endings": true, "trim_trailing_whitespace": false}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/files", cfg.Root)
	assert.True(t, cfg.BusyFailFast)
	assert.Equal(t, 5, cfg.BackupKeep)
	require.NotNil(t, cfg.Normalization)
	assert.True(t, cfg.Normalization.EquateLineEndings)
	assert.False(t, cfg.Normalization.TrimTrailingWhitespace)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestLoad_MalformedJSONFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_FileWithoutNormalizationKeepsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"root":"/tmp"}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Normalization)
	assert.True(t, cfg.Normalization.TrimTrailingWhitespace)
}
