package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(func() {
		rootCmd.PersistentFlags().Set("config", "")
		viper.Reset()
	})
}

func TestReadConfigMissingExplicitFileFails(t *testing.T) {
	resetConfig(t)
	require.NoError(t, rootCmd.PersistentFlags().Set("config", filepath.Join(t.TempDir(), "nope.yaml")))

	assert.Error(t, readConfig())
}

func TestReadConfigMalformedExplicitFileFails(t *testing.T) {
	resetConfig(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("policy: [unclosed\n"), 0644))
	require.NoError(t, rootCmd.PersistentFlags().Set("config", path))

	assert.Error(t, readConfig())
}

func TestReadConfigMissingDefaultIsFine(t *testing.T) {
	resetConfig(t)
	// point the default search path at an empty directory
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	require.NoError(t, readConfig())
	assert.Equal(t, "reject", getPolicy())
}

func TestReadConfigReadsExplicitFile(t *testing.T) {
	resetConfig(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("policy: overwrite\n"), 0644))
	require.NoError(t, rootCmd.PersistentFlags().Set("config", path))

	require.NoError(t, readConfig())
	assert.Equal(t, "overwrite", getPolicy())
}
