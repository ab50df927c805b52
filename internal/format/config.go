package format

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/kastree-lang/kastree/compiler/writer"
)

// ConfigFile is the formatter configuration looked up next to the sources
const ConfigFile = ".kastree-format.yml"

// Config represents formatting configuration options
type Config struct {
	IndentSize     int  `yaml:"indent_size"`
	UseTabs        bool `yaml:"use_tabs"`
	CheckRoundTrip bool `yaml:"check_round_trip"`
}

// DefaultConfig returns the default formatting configuration
func DefaultConfig() *Config {
	return &Config{
		IndentSize:     4,
		CheckRoundTrip: true,
	}
}

// Writer returns the writer configuration for c
func (c *Config) Writer() *writer.Config {
	if c.UseTabs {
		return &writer.Config{Indent: "\t"}
	}
	size := c.IndentSize
	if size <= 0 {
		size = DefaultConfig().IndentSize
	}
	return &writer.Config{Indent: strings.Repeat(" ", size)}
}

// LoadConfig loads formatting configuration from a file.
// If the file doesn't exist, returns the default configuration.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	wrapper := struct {
		Format *Config `yaml:"format"`
	}{
		Format: DefaultConfig(),
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	config := wrapper.Format
	if config.IndentSize <= 0 {
		config.IndentSize = DefaultConfig().IndentSize
	}
	return config, nil
}

// SaveConfig saves the formatting configuration to a file
func SaveConfig(fs afero.Fs, path string, config *Config) error {
	wrapper := struct {
		Format Config `yaml:"format"`
	}{
		Format: *config,
	}

	data, err := yaml.Marshal(wrapper)
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, path, data, 0o644)
}
