// Package dockerfile creates the build file of a backend service when the
// service directory does not carry one yet.
package dockerfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/moby/sys/atomicwriter"
	"github.com/sirupsen/logrus"
)

const FileName = "Dockerfile"

const portPlaceholder = "{port}"

// template is shared by every service; only the port differs.
const template = `
# Dockerfile template for any FastAPI-based service

# Stage 1: install Python dependencies
FROM python:3.11-slim AS builder

WORKDIR /app

COPY requirements.txt .
RUN pip install --no-cache-dir -r requirements.txt

COPY app.py .

# Stage 2: runtime image
FROM python:3.11-slim

WORKDIR /app

# Copy installed packages from builder
COPY --from=builder /usr/local/lib/python3.11/site-packages /usr/local/lib/python3.11/site-packages
COPY --from=builder /usr/local/bin /usr/local/bin

# Copy application code
COPY --from=builder /app/app.py .

# Expose port (service runs on <PORT>)
EXPOSE {port}

# Start the service via Hypercorn (listens on 0.0.0.0:{port})
CMD ["hypercorn", "app:app", "--bind", "0.0.0.0:{port}", "--workers", "4", "--worker-class", "uvloop"]
`

// Render returns the Dockerfile for a service listening on port.
func Render(port int) string {
	content := strings.ReplaceAll(template, portPlaceholder, strconv.Itoa(port))
	return strings.TrimSpace(content) + "\n"
}

type Result int

const (
	ResultCreated Result = iota
	ResultExists
	ResultMissingDir
)

func (r Result) String() string {
	switch r {
	case ResultCreated:
		return "created"
	case ResultExists:
		return "exists"
	case ResultMissingDir:
		return "missing-dir"
	}
	return "unknown"
}

// Synthesizer writes Dockerfiles under a services root.
type Synthesizer struct {
	servicesRoot string

	logrus.FieldLogger
}

func NewSynthesizer(servicesRoot string, log logrus.FieldLogger) *Synthesizer {
	return &Synthesizer{
		servicesRoot: servicesRoot,
		FieldLogger:  log,
	}
}

// Path returns where the Dockerfile of name lives.
func (s *Synthesizer) Path(name string) string {
	return filepath.Join(s.servicesRoot, name, FileName)
}

// Ensure creates the Dockerfile of name unless it already exists. A missing
// service directory is reported, not created. Existing files are never
// overwritten.
func (s *Synthesizer) Ensure(name string, port int) (Result, error) {
	dir := filepath.Join(s.servicesRoot, name)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		s.Warnf("service directory '%s' does not exist under '%s'. Skipping.", name, s.servicesRoot)
		return ResultMissingDir, nil
	}

	target := s.Path(name)
	if _, err := os.Lstat(target); err == nil {
		s.Infof("Dockerfile already exists for service '%s', skipping creation.", name)
		return ResultExists, nil
	} else if !os.IsNotExist(err) {
		return 0, fmt.Errorf("checking %s: %w", target, err)
	}

	if err := atomicwriter.WriteFile(target, []byte(Render(port)), 0o644); err != nil {
		return 0, err
	}
	s.Infof("Created Dockerfile for service '%s' with port %d.", name, port)
	return ResultCreated, nil
}
