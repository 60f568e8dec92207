package compose

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

type composeFile struct {
	Services map[string]struct {
		Image         string   `yaml:"image"`
		ContainerName string   `yaml:"container_name"`
		Ports         []string `yaml:"ports"`
	} `yaml:"services"`
}

// ValidateService parses the compose file and verifies the named service is
// declared, so a typo fails fast instead of surfacing as a docker error.
func ValidateService(file, service string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read compose file %s: %w", file, err)
	}

	var cf composeFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("failed to parse compose file %s: %w", file, err)
	}

	if len(cf.Services) == 0 {
		return fmt.Errorf("compose file %s declares no services", file)
	}
	if _, ok := cf.Services[service]; !ok {
		return fmt.Errorf("service %q not declared in %s (available: %v)", service, file, serviceNames(cf.Services))
	}
	return nil
}

func serviceNames[V any](services map[string]V) []string {
	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
