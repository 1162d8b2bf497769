package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Browse.DebounceMS)
	assert.Equal(t, 5, cfg.Browse.BufferRows)
	assert.Equal(t, 200, cfg.Browse.VirtualizeThreshold)
	assert.NotEmpty(t, cfg.Source.URL)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disclose.yaml")
	body := `
source:
  path: ./2025FD.xml
browse:
  debounce_ms: 150
  virtualize_threshold: 50
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./2025FD.xml", cfg.Source.Path)
	assert.Equal(t, 150, cfg.Browse.DebounceMS)
	assert.Equal(t, 50, cfg.Browse.VirtualizeThreshold)
	// Untouched sections keep their defaults.
	assert.Equal(t, 4, cfg.PDFs.Concurrency)
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(t, err)
}

func TestLoad_MalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disclose.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browse: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DISCLOSE_SOURCE_PATH", "/data/2024FD.xml")
	t.Setenv("DISCLOSE_BROWSE_DEBOUNCE_MS", "75")
	t.Setenv("DISCLOSE_LOGGING_VERBOSE", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/data/2024FD.xml", cfg.Source.Path)
	assert.Equal(t, 75, cfg.Browse.DebounceMS)
	assert.True(t, cfg.Logging.Verbose)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Source.URL = ""
	cfg.Source.Path = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Browse.VirtualizeThreshold = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.PDFs.Concurrency = 0
	assert.Error(t, cfg.Validate())
}
