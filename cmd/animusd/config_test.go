package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/animus/internal/testutil/testlog"
)

func TestLoadServiceConfigExample(t *testing.T) {
	testlog.Start(t)
	cfg, err := loadServiceConfig("ex.config.toml")
	require.NoError(t, err)
	assert.Equal(t, "cortex", cfg.Name)
	assert.Equal(t, "127.0.0.1:4048", cfg.Listen)
	assert.Equal(t, "network.toml", cfg.SaveFile)
	assert.Equal(t, "127.0.0.1:9048", cfg.MetricsListen)
	assert.Empty(t, cfg.AdminToken)
	assert.True(t, cfg.HasLogLevel)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
}

func TestLoadServiceConfigDefaults(t *testing.T) {
	testlog.Start(t)
	cfg, err := loadServiceConfig(writeConfig(t, "name = \"thalamus\"\n"))
	require.NoError(t, err)

	def := defaultServiceConfig()
	assert.Equal(t, "thalamus", cfg.Name)
	assert.Equal(t, def.Listen, cfg.Listen)
	assert.Equal(t, def.SaveFile, cfg.SaveFile)
	assert.Empty(t, cfg.MetricsListen)
	assert.False(t, cfg.HasLogLevel)
}

func TestLoadServiceConfigAdminToken(t *testing.T) {
	testlog.Start(t)
	cfg, err := loadServiceConfig(writeConfig(t, "admin_token = \" s3cret \"\n"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.AdminToken)
}

func TestLoadServiceConfigRejectsUnknownKey(t *testing.T) {
	testlog.Start(t)
	_, err := loadServiceConfig(writeConfig(t, "name = \"x\"\nheartbeat = \"5s\"\n"))
	assert.ErrorContains(t, err, "heartbeat")
}

func TestLoadServiceConfigRejectsBadValues(t *testing.T) {
	testlog.Start(t)
	for _, body := range []string{
		"log_level = \"loud\"\n",
		"read_buffer = 0\n",
		"listen = \"\"\n",
	} {
		_, err := loadServiceConfig(writeConfig(t, body))
		assert.Error(t, err, body)
	}
}

func TestInitWritesLoadableConfig(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "animusd.toml")
	netPath := filepath.Join(dir, "network.toml")

	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"init", "--config", cfgPath, "--network", netPath})
	require.NoError(t, root.Execute())

	cfg, err := loadServiceConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "animus.local", cfg.Name)
	assert.True(t, cfg.HasLogLevel)

	_, err = loadOrCreateNode(serviceConfig{Name: cfg.Name, SaveFile: netPath}, zerolog.Nop())
	require.NoError(t, err)

	root = newRootCmd()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"init", "--config", cfgPath, "--network", netPath})
	assert.Error(t, root.Execute(), "init must not overwrite without --force")
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}
