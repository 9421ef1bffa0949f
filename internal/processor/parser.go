package processor

import (
	"os"

	"gopkg.in/yaml.v3"

	"pstefanovic/compose-generator/internal/resources"
)

// LoadRegistry reads the gateway service registry and returns its entries.
// A document without a services key yields no entries. Entries are not
// validated here.
func LoadRegistry(file string) ([]resources.ServiceRoute, error) {
	var registry resources.Registry

	yamlFile, err := os.ReadFile(file)
	if err != nil {
		return nil, &ConfigError{Path: file, Err: err}
	}

	if err := yaml.Unmarshal(yamlFile, &registry); err != nil {
		return nil, &ConfigError{Path: file, Err: err}
	}

	return registry.Services, nil
}
