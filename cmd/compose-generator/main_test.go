package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func project(t *testing.T, registry string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "gateway"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "services", "health_service"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "gateway", "config.yml"), []byte(registry), 0o644))
	return root
}

func noEnv(string) string { return "" }

func TestRunCompletesWithSkippedEntries(t *testing.T) {
	root := project(t, `
services:
  - route: /health
    target: http://health_service:8000
  - route: /bad
    target: ftp://bad:1234
`)

	var stderr bytes.Buffer
	code := run([]string{"--root", root}, noEnv, &stderr)

	assert.Equal(t, 0, code)
	assert.FileExists(t, filepath.Join(root, "docker-compose.yml"))
	assert.FileExists(t, filepath.Join(root, "services", "health_service", "Dockerfile"))
	assert.Contains(t, stderr.String(), "unexpected target format in target 'ftp://bad:1234'. Skipping.")
	assert.Contains(t, stderr.String(), "with services: [gateway health_service]")
}

func TestRunUsesEnvRoot(t *testing.T) {
	root := project(t, "services: []\n")

	code := run(nil, func(key string) string {
		if key == "COMPOSEGEN_ROOT" {
			return root
		}
		return ""
	}, &bytes.Buffer{})

	assert.Equal(t, 0, code)
	assert.FileExists(t, filepath.Join(root, "docker-compose.yml"))
}

func TestRunFatalErrors(t *testing.T) {
	t.Run("malformed config", func(t *testing.T) {
		root := project(t, "services: [\n")
		assert.Equal(t, 1, run([]string{"--root", root}, noEnv, &bytes.Buffer{}))
		assert.NoFileExists(t, filepath.Join(root, "docker-compose.yml"))
	})

	t.Run("missing config", func(t *testing.T) {
		assert.Equal(t, 1, run([]string{"--root", t.TempDir()}, noEnv, &bytes.Buffer{}))
	})

	t.Run("unwritable output", func(t *testing.T) {
		root := project(t, "services: []\n")
		code := run([]string{"--root", root, "--output", "nowhere/docker-compose.yml"}, noEnv, &bytes.Buffer{})
		assert.Equal(t, 1, code)
	})
}

func TestRunUsageErrors(t *testing.T) {
	assert.Equal(t, 2, run([]string{"--no-such-flag"}, noEnv, &bytes.Buffer{}))
	assert.Equal(t, 2, run([]string{"extra"}, noEnv, &bytes.Buffer{}))
	assert.Equal(t, 2, run([]string{"--log-level", "loud"}, noEnv, &bytes.Buffer{}))
	assert.Equal(t, 0, run([]string{"--help"}, noEnv, &bytes.Buffer{}))
}
