package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config supplies defaults for the persistent flags. Values from the
// file only apply to flags the command line left at their defaults.
type Config struct {
	Database string `yaml:"db"`
	Format   string `yaml:"format"`
}

// LoadConfig reads a YAML config file. Unknown keys are rejected so a
// typo ("formt") fails loudly instead of being silently ignored.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}
