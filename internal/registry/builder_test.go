package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ozgur/shipmate/internal/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		Settings: config.Settings{AllowedExtensions: []string{"conf", "toml"}},
	}
}

func TestBuild_ExplicitFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := baseConfig()
	cfg.Files = []config.File{
		{Name: "nginx.conf", Path: filepath.Join(dir, "nginx.conf"), Description: "web server", Readonly: true},
		{Name: "app.toml", Path: filepath.Join(dir, "app.toml")},
	}

	snap, err := Build(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Equal(t, 2, snap.Len())

	entry, err := snap.Validate("nginx.conf", OpRead)
	require.NoError(t, err)
	assert.True(t, entry.Readonly)
	assert.Equal(t, "conf", entry.Extension)
	assert.True(t, filepath.IsAbs(entry.Path))
}

func TestBuild_DuplicateExplicitNameFails(t *testing.T) {
	dir := t.TempDir()
	cfg := baseConfig()
	cfg.Files = []config.File{
		{Name: "same", Path: filepath.Join(dir, "a.conf")},
		{Name: "same", Path: filepath.Join(dir, "b.conf")},
	}

	_, err := Build(cfg, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "duplicate")
}

func TestBuild_ExplicitExtensionOutsideWhitelistFails(t *testing.T) {
	dir := t.TempDir()
	cfg := baseConfig()
	cfg.Files = []config.File{
		{Name: "script", Path: filepath.Join(dir, "run.sh")},
	}

	_, err := Build(cfg, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "not in allowed_extensions")
}

func TestBuild_ExplicitWinsOverScanned(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app.conf"), "scanned content")
	explicitPath := filepath.Join(t.TempDir(), "declared.conf")
	writeFile(t, explicitPath, "declared content")

	cfg := baseConfig()
	cfg.Files = []config.File{
		{Name: "etc/app.conf", Path: explicitPath, Description: "declared"},
	}
	cfg.Directories = []config.Directory{
		{Name: "etc", Path: dir, Depth: 1, Types: []string{"conf"}},
	}

	snap, err := Build(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	entry, err := snap.Validate("etc/app.conf", OpRead)
	require.NoError(t, err)
	assert.Equal(t, explicitPath, entry.Path)
	assert.Equal(t, "declared", entry.Description)
}

func TestBuild_FirstScannedWinsOnCollision(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, filepath.Join(first, "shared.conf"), "first")
	writeFile(t, filepath.Join(second, "shared.conf"), "second")

	cfg := baseConfig()
	cfg.Directories = []config.Directory{
		{Name: "etc", Path: first, Depth: 1, Types: []string{"conf"}},
		{Name: "etc", Path: second, Depth: 1, Types: []string{"conf"}},
	}

	snap, err := Build(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Equal(t, 1, snap.Len())

	realFirst, err := filepath.EvalSymlinks(first)
	require.NoError(t, err)
	entry, err := snap.Validate("etc/shared.conf", OpRead)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(realFirst, "shared.conf"), entry.Path)
}

func TestBuild_ScannedOutsideWhitelistDropped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.txt"), "hello")
	writeFile(t, filepath.Join(dir, "app.conf"), "ok")

	cfg := baseConfig() // whitelist is conf+toml, txt is out
	cfg.Directories = []config.Directory{
		{Name: "etc", Path: dir, Depth: 1},
	}

	snap, err := Build(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = snap.Validate("etc/app.conf", OpRead)
	assert.NoError(t, err)
	_, err = snap.Validate("etc/notes.txt", OpRead)
	assert.Error(t, err)
}

func TestBuild_UnscannableDirectoryIsNotFatal(t *testing.T) {
	cfg := baseConfig()
	cfg.Directories = []config.Directory{
		{Name: "gone", Path: filepath.Join(t.TempDir(), "missing"), Depth: 1},
	}

	snap, err := Build(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len())
}
