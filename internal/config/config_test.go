package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Color)
	assert.Nil(t, cfg.UnfoldFix)
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pion.yaml")
	writeFile(t, path, "color: false\nunfold_fix: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Color)
	assert.False(t, *cfg.Color)
	require.NotNil(t, cfg.UnfoldFix)
	assert.True(t, *cfg.UnfoldFix)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pion.yaml")
	writeFile(t, path, "color: [this is not a bool\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}
