package gateway

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "databases.json")
	content := `{
  "databases": [
    {"id": "elcd", "name": "ELCD 3.2", "endpoint": "http://localhost:8080"},
    {"id": "agribalyse", "name": "Agribalyse 3.1", "endpoint": "http://localhost:8081", "description": "French food data"}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	registry, err := LoadRegistry(path)
	require.NoError(t, err)

	cfg, ok := registry.Get("elcd")
	require.True(t, ok)
	assert.Equal(t, "http://localhost:8080", cfg.Endpoint)

	_, ok = registry.Get("missing")
	assert.False(t, ok)

	assert.Len(t, registry.List(), 2)
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadRegistry_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "databases.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := LoadRegistry(path)
	assert.Error(t, err)
}
