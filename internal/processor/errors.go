package processor

import (
	"fmt"
	"strings"

	"pstefanovic/compose-generator/internal/composecache"
)

// ConfigError means the service registry could not be read or parsed.
// Nothing has been written when it is returned.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("loading config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// SkipError describes a registry entry that was dropped. The processor logs
// it and moves on; it never ends a run.
type SkipError struct {
	Target string
	Reason string
	Err    error
}

func (e *SkipError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s in target '%s': %v", e.Reason, e.Target, e.Err)
	}
	return fmt.Sprintf("%s in target '%s'", e.Reason, e.Target)
}

func (e *SkipError) Unwrap() error { return e.Err }

// WriteError means a Dockerfile or the manifest could not be written.
// Files written earlier in the run stay on disk.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ValidationError is returned in strict mode when the assembled manifest
// cannot be deployed as is.
type ValidationError struct {
	Conflicts []composecache.PortConflict
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		msgs[i] = c.String()
	}
	return "conflicting host ports: " + strings.Join(msgs, "; ")
}
