package processor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadRegistry(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yml")
	writeFile(t, file, `
services:
  - route: /health
    target: http://health_service:8000
  - route: /echo
    target: http://echo_service:8001
    log: "true"
  - route: /docs
    templateDir: templates/template_health
    templateRoutes:
      /: index.html
`)

	routes, err := LoadRegistry(file)
	require.NoError(t, err)
	require.Len(t, routes, 3)

	assert.Equal(t, "/health", routes[0].Route)
	assert.Equal(t, "http://health_service:8000", routes[0].Target)
	assert.Equal(t, "true", routes[1].Log)
	assert.Empty(t, routes[2].Target)
	assert.Equal(t, "templates/template_health", routes[2].TemplateDir)
	assert.Equal(t, "index.html", routes[2].TemplateRoutes["/"])
}

func TestLoadRegistryWithoutServices(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yml")
	writeFile(t, file, "other: value\n")

	routes, err := LoadRegistry(file)
	require.NoError(t, err)
	assert.Empty(t, routes)
}

func TestLoadRegistryDoesNotValidateEntries(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yml")
	writeFile(t, file, "services:\n  - route: /x\n    target: not a url\n")

	routes, err := LoadRegistry(file)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "not a url", routes[0].Target)
}

func TestLoadRegistryErrors(t *testing.T) {
	dir := t.TempDir()

	malformed := filepath.Join(dir, "bad.yml")
	writeFile(t, malformed, "services: [route: /x\n  target: :::\n")

	for _, file := range []string{malformed, filepath.Join(dir, "missing.yml")} {
		_, err := LoadRegistry(file)
		require.Error(t, err, file)

		var cfgErr *ConfigError
		require.True(t, errors.As(err, &cfgErr), file)
		assert.Equal(t, file, cfgErr.Path)
		assert.NotNil(t, cfgErr.Unwrap())
	}
}
