package processor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pstefanovic/compose-generator/internal/composecache"
)

func TestWriteManifestOverwrites(t *testing.T) {
	file := filepath.Join(t.TempDir(), "docker-compose.yml")
	writeFile(t, file, "old: content\nthat: is much longer than the new manifest would ever be\n")

	c := composecache.NewComposeCache("gateway", "services")
	require.NoError(t, c.AddService("health_service", 8000))
	require.NoError(t, WriteManifest(file, "3.8", c))

	m := readManifest(t, file)
	assert.Equal(t, []string{"gateway", "health_service"}, m.Names)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "old")
}

func TestWriteManifestMissingParent(t *testing.T) {
	file := filepath.Join(t.TempDir(), "missing", "docker-compose.yml")

	err := WriteManifest(file, "3.8", composecache.NewComposeCache("gateway", "services"))
	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, file, writeErr.Path)
	assert.NoFileExists(t, file)
}
