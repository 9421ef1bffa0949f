// Package config holds the generator's own settings: where the project
// lives, which registry to read and where the manifest goes.
//
// Values come from Default, then COMPOSEGEN_* environment variables, then
// command-line flags. Relative paths are resolved against Root.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

const envPrefix = "COMPOSEGEN_"

type Config struct {
	// Root is the project root. Every relative path below resolves against it.
	Root string

	// ConfigPath is the gateway service registry.
	ConfigPath string

	// OutputPath is the compose manifest to write.
	OutputPath string

	// ServicesDir holds one directory per backend service. It is also the
	// build context prefix written into the manifest.
	ServicesDir string

	// GatewayDir is the gateway build context written into the manifest.
	GatewayDir string

	// ComposeVersion is emitted as the top-level version key. Empty omits it.
	ComposeVersion string

	// Strict rejects empty service names, out-of-range ports and host port
	// conflicts instead of passing them through.
	Strict bool

	LogLevel  string
	LogFormat string
}

func Default() Config {
	return Config{
		Root:           ".",
		ConfigPath:     filepath.Join("gateway", "config.yml"),
		OutputPath:     "docker-compose.yml",
		ServicesDir:    "services",
		GatewayDir:     "gateway",
		ComposeVersion: "3.8",
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load returns the defaults overridden by the environment. getenv is
// usually os.Getenv.
func Load(getenv func(string) string) Config {
	cfg := Default()
	overrideFromEnv(&cfg, getenv)
	return cfg
}

func overrideFromEnv(cfg *Config, getenv func(string) string) {
	if val := getenv(envPrefix + "ROOT"); val != "" {
		cfg.Root = val
	}
	if val := getenv(envPrefix + "CONFIG"); val != "" {
		cfg.ConfigPath = val
	}
	if val := getenv(envPrefix + "OUTPUT"); val != "" {
		cfg.OutputPath = val
	}
	if val := getenv(envPrefix + "SERVICES_DIR"); val != "" {
		cfg.ServicesDir = val
	}
	if val := getenv(envPrefix + "GATEWAY_DIR"); val != "" {
		cfg.GatewayDir = val
	}
	if val := getenv(envPrefix + "COMPOSE_VERSION"); val != "" {
		cfg.ComposeVersion = val
	}
	if val := getenv(envPrefix + "STRICT"); val != "" {
		cfg.Strict = parseBool(val)
	}
	if val := getenv(envPrefix + "LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}
	if val := getenv(envPrefix + "LOG_FORMAT"); val != "" {
		cfg.LogFormat = val
	}
}

// BindFlags registers a flag per field, defaulting to the current values so
// that flags win over the environment.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Root, "root", c.Root, "project root")
	fs.StringVarP(&c.ConfigPath, "config", "c", c.ConfigPath, "gateway service registry")
	fs.StringVarP(&c.OutputPath, "output", "o", c.OutputPath, "compose manifest to write")
	fs.StringVar(&c.ServicesDir, "services-dir", c.ServicesDir, "directory holding one folder per service")
	fs.StringVar(&c.GatewayDir, "gateway-dir", c.GatewayDir, "gateway build context")
	fs.StringVar(&c.ComposeVersion, "compose-version", c.ComposeVersion, "compose file version key, empty to omit")
	fs.BoolVar(&c.Strict, "strict", c.Strict, "reject invalid ports and host port conflicts")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format (text, json)")
}

// Validate checks the fields that cannot be checked by use.
func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.ServicesDir == "" {
		return fmt.Errorf("services dir must not be empty")
	}
	return nil
}

// Formatter returns the logrus formatter for LogFormat.
func (c Config) Formatter() logrus.Formatter {
	if c.LogFormat == "json" {
		return &logrus.JSONFormatter{}
	}
	return &logrus.TextFormatter{DisableTimestamp: true}
}

func (c Config) ConfigFile() string   { return c.resolve(c.ConfigPath) }
func (c Config) OutputFile() string   { return c.resolve(c.OutputPath) }
func (c Config) ServicesPath() string { return c.resolve(c.ServicesDir) }

func (c Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

func parseBool(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
