// Package config loads the project configuration from kastree.yml.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/kastree-lang/kastree/internal/format"
)

// ConfigNames are the project configuration files, in lookup order
var ConfigNames = []string{"kastree.yml", "kastree.yaml"}

// EnvPrefix prefixes environment overrides, as in KASTREE_FORMAT_INDENT_SIZE
const EnvPrefix = "KASTREE"

// Config represents the project configuration
type Config struct {
	Format  FormatConfig  `mapstructure:"format"`
	Sources SourcesConfig `mapstructure:"sources"`
	Log     LogConfig     `mapstructure:"log"`
}

// FormatConfig holds formatter settings. A .kastree-format.yml file next
// to the sources takes precedence.
type FormatConfig struct {
	IndentSize     int  `mapstructure:"indent_size"`
	UseTabs        bool `mapstructure:"use_tabs"`
	CheckRoundTrip bool `mapstructure:"check_round_trip"`
}

// SourcesConfig selects the files commands operate on
type SourcesConfig struct {
	Extensions []string `mapstructure:"extensions"`
	Exclude    []string `mapstructure:"exclude"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads kastree.yml from dir on fs. Defaults apply when the file does
// not exist; environment variables override both.
func Load(fs afero.Fs, dir string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)

	v.SetDefault("format.indent_size", 4)
	v.SetDefault("format.use_tabs", false)
	v.SetDefault("format.check_round_trip", true)
	v.SetDefault("sources.extensions", []string{".kt", ".kts"})
	v.SetDefault("sources.exclude", []string{"build", "out", "node_modules"})
	v.SetDefault("log.level", "info")

	v.SetConfigName("kastree")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Default returns the configuration used outside any project
func Default() *Config {
	return &Config{
		Format: FormatConfig{IndentSize: 4, CheckRoundTrip: true},
		Sources: SourcesConfig{
			Extensions: []string{".kt", ".kts"},
			Exclude:    []string{"build", "out", "node_modules"},
		},
		Log: LogConfig{Level: "info"},
	}
}

// FormatterConfig converts the format section for the formatter
func (c *Config) FormatterConfig() *format.Config {
	return &format.Config{
		IndentSize:     c.Format.IndentSize,
		UseTabs:        c.Format.UseTabs,
		CheckRoundTrip: c.Format.CheckRoundTrip,
	}
}

// IsSource reports whether path has one of the configured extensions
func (c *Config) IsSource(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range c.Sources.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// IsExcluded reports whether a directory name is skipped when walking
func (c *Config) IsExcluded(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	for _, e := range c.Sources.Exclude {
		if name == e {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up from dir to the nearest directory holding a
// kastree.yml
func FindProjectRoot(fs afero.Fs, dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		for _, name := range ConfigNames {
			if exists, _ := afero.Exists(fs, filepath.Join(dir, name)); exists {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a kastree project (no %s found)", ConfigNames[0])
		}
		dir = parent
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Format.IndentSize < 1 || cfg.Format.IndentSize > 16 {
		return fmt.Errorf("format.indent_size must be between 1 and 16, got: %d", cfg.Format.IndentSize)
	}
	for _, ext := range cfg.Sources.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("sources.extensions entries must start with '.', got: %s", ext)
		}
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got: %s", cfg.Log.Level)
	}
	return nil
}
