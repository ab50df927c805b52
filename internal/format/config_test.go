package format

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Missing(t *testing.T) {
	config, err := LoadConfig(afero.NewMemMapFs(), ConfigFile)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadConfig_Partial(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ConfigFile, []byte("format:\n  use_tabs: true\n"), 0o644))

	config, err := LoadConfig(fs, ConfigFile)
	require.NoError(t, err)
	assert.True(t, config.UseTabs)
	assert.Equal(t, 4, config.IndentSize)
	assert.True(t, config.CheckRoundTrip)
	assert.Equal(t, "\t", config.Writer().Indent)
}

func TestLoadConfig_Invalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ConfigFile, []byte("format: [1, 2"), 0o644))

	_, err := LoadConfig(fs, ConfigFile)
	assert.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	want := &Config{IndentSize: 2, CheckRoundTrip: false}
	require.NoError(t, SaveConfig(fs, ConfigFile, want))

	got, err := LoadConfig(fs, ConfigFile)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "  ", got.Writer().Indent)
}
