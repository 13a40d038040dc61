package cmdline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Joxit/runtasktic/internal/config"
)

// loadConfigFile reads and parses the YAML document at path.
func loadConfigFile(path string) (*config.Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration %q: %w", path, err)
	}
	cfg, err := config.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// defaultConfigPath resolves ~/.runtasktic.yml or ~/.runtasktic.yaml
// (spec.md §6 "Environment"), preferring .yml, and returns an error if
// neither exists.
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	for _, name := range []string{".runtasktic.yml", ".runtasktic.yaml"} {
		p := filepath.Join(home, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no configuration given and neither ~/.runtasktic.yml nor ~/.runtasktic.yaml exists")
}
