package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/credit-limit-engine/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withConfigFile(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	prevFile, prevLogger := cfgFile, slog.Default()
	cfgFile = path
	t.Cleanup(func() {
		cfgFile = prevFile
		slog.SetDefault(prevLogger)
		viper.Reset()
	})
}

func TestInitConfig_EnvOverridesNestedKeys(t *testing.T) {
	withConfigFile(t, "input:\n  sheet: cartera\noutput:\n  path: /tmp/resultado.xlsx\n")
	t.Setenv("CREDITLIMIT_INPUT_SHEET", "clientes")
	t.Setenv("CREDITLIMIT_EXPORT_SQLITE_PATH", "/tmp/export.db")

	require.NoError(t, initConfig(nil, nil))

	assert.Equal(t, "clientes", viper.GetString("input.sheet"))
	assert.Equal(t, "/tmp/export.db", viper.GetString("export.sqlite_path"))
	assert.Equal(t, "/tmp/resultado.xlsx", viper.GetString("output.path"))
}

func TestInitConfig_InvalidLogLevel(t *testing.T) {
	withConfigFile(t, "logging:\n  level: chatty\n")

	err := initConfig(nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "plain", errorMessage(errors.New("plain")))

	err := common.NewUserError("No se encontró el archivo de entrada", common.ErrInputNotFound)
	assert.Contains(t, errorMessage(err), "No se encontró el archivo de entrada")
}
