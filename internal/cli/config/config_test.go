package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/project", 0o755))

	cfg, err := Load(fs, "/project")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `
format:
  indent_size: 2
  use_tabs: true
  check_round_trip: false
sources:
  extensions: [".kt"]
  exclude: ["generated"]
log:
  level: debug
`
	require.NoError(t, afero.WriteFile(fs, "/project/kastree.yml", []byte(content), 0o644))

	cfg, err := Load(fs, "/project")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Format.IndentSize)
	assert.True(t, cfg.Format.UseTabs)
	assert.False(t, cfg.Format.CheckRoundTrip)
	assert.Equal(t, []string{".kt"}, cfg.Sources.Extensions)
	assert.Equal(t, []string{"generated"}, cfg.Sources.Exclude)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/project/kastree.yml", []byte("format:\n  indent_size: 2\n"), 0o644))
	t.Setenv("KASTREE_FORMAT_INDENT_SIZE", "8")
	t.Setenv("KASTREE_LOG_LEVEL", "warn")

	cfg, err := Load(fs, "/project")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Format.IndentSize)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"indent too small", "format:\n  indent_size: 0\n", "format.indent_size"},
		{"indent too large", "format:\n  indent_size: 40\n", "format.indent_size"},
		{"extension without dot", "sources:\n  extensions: [\"kt\"]\n", "sources.extensions"},
		{"unknown log level", "log:\n  level: loud\n", "log.level"},
		{"malformed yaml", "format: [\n", "failed to read config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/project/kastree.yml", []byte(tt.content), 0o644))

			_, err := Load(fs, "/project")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestFormatterConfig(t *testing.T) {
	cfg := Default()
	cfg.Format.IndentSize = 2

	fc := cfg.FormatterConfig()
	assert.Equal(t, 2, fc.IndentSize)
	assert.False(t, fc.UseTabs)
	assert.True(t, fc.CheckRoundTrip)
}

func TestIsSource(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.IsSource("src/Main.kt"))
	assert.True(t, cfg.IsSource("build.gradle.kts"))
	assert.False(t, cfg.IsSource("README.md"))
	assert.False(t, cfg.IsSource("Main.java"))
}

func TestIsExcluded(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.IsExcluded("build"))
	assert.True(t, cfg.IsExcluded(".git"))
	assert.False(t, cfg.IsExcluded("src"))
	assert.False(t, cfg.IsExcluded("."))
}

func TestFindProjectRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/project/kastree.yaml", []byte(""), 0o644))
	require.NoError(t, fs.MkdirAll("/project/src/main/kotlin", 0o755))

	root, err := FindProjectRoot(fs, "/project/src/main/kotlin")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/project"), root)

	_, err = FindProjectRoot(afero.NewMemMapFs(), "/elsewhere")
	assert.Error(t, err)
}
