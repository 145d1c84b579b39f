package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ozgur/shipmate/internal/config"
)

func configDocument(dir string, fileName string) string {
	return fmt.Sprintf(`
settings:
  allowed_extensions: [conf]
files:
  - name: %s
    path: %s
`, fileName, filepath.Join(dir, fileName))
}

func TestProvider_Reload(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "shipmate.yaml")
	require.NoError(t, os.WriteFile(configPath,
		[]byte(configDocument(dir, "first.conf")), 0o644))

	logger := zaptest.NewLogger(t)
	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	snap, err := Build(cfg, logger)
	require.NoError(t, err)

	provider := NewProvider(snap, logger)
	_, err = provider.Current().Validate("first.conf", OpRead)
	require.NoError(t, err)

	// Swap in a document exposing a different file.
	require.NoError(t, os.WriteFile(configPath,
		[]byte(configDocument(dir, "second.conf")), 0o644))
	require.NoError(t, provider.Reload(configPath))

	_, err = provider.Current().Validate("second.conf", OpRead)
	assert.NoError(t, err)
	_, err = provider.Current().Validate("first.conf", OpRead)
	assert.Error(t, err)
}

func TestProvider_FailedReloadKeepsPreviousSnapshot(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "shipmate.yaml")
	require.NoError(t, os.WriteFile(configPath,
		[]byte(configDocument(dir, "app.conf")), 0o644))

	logger := zaptest.NewLogger(t)
	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	snap, err := Build(cfg, logger)
	require.NoError(t, err)
	provider := NewProvider(snap, logger)

	// Corrupt the document; the reload must fail and leave the old
	// registry serving.
	require.NoError(t, os.WriteFile(configPath, []byte("files: [broken"), 0o644))
	assert.Error(t, provider.Reload(configPath))

	_, err = provider.Current().Validate("app.conf", OpRead)
	assert.NoError(t, err)
}
