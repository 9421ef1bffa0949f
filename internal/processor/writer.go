package processor

import (
	"bytes"
	"fmt"

	"github.com/moby/sys/atomicwriter"
	"gopkg.in/yaml.v3"

	"pstefanovic/compose-generator/internal/composecache"
)

// WriteManifest encodes the compose services held by c and replaces file
// with the result.
func WriteManifest(file, version string, c *composecache.ComposeCache) error {
	doc, err := c.ManifestContents(version)
	if err != nil {
		return &WriteError{Path: file, Err: err}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return &WriteError{Path: file, Err: fmt.Errorf("encoding manifest: %w", err)}
	}
	if err := enc.Close(); err != nil {
		return &WriteError{Path: file, Err: fmt.Errorf("encoding manifest: %w", err)}
	}

	if err := atomicwriter.WriteFile(file, buf.Bytes(), 0o644); err != nil {
		return &WriteError{Path: file, Err: err}
	}
	return nil
}
