package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/animus/internal/animus"
	"github.com/danmuck/animus/internal/testutil/testlog"
)

func TestTemplateKinds(t *testing.T) {
	testlog.Start(t)

	for _, kind := range []string{KindDaemon, " Network "} {
		body, err := Template(kind)
		require.NoError(t, err, kind)
		var out map[string]any
		_, err = toml.Decode(body, &out)
		assert.NoError(t, err, kind)
	}
	_, err := Template("ghost")
	assert.Error(t, err)
}

func TestNetworkTemplateLoadsAsState(t *testing.T) {
	testlog.Start(t)

	path := filepath.Join(t.TempDir(), "network.toml")
	require.NoError(t, WriteTemplate(path, KindNetwork, false))
	state, err := animus.LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, "animus.local", state.Name)
	assert.False(t, state.Awake)
}

func TestWriteTemplateOverwrite(t *testing.T) {
	testlog.Start(t)

	path := filepath.Join(t.TempDir(), "animusd.toml")
	require.NoError(t, os.WriteFile(path, []byte("name = \"kept\"\n"), 0o600))
	assert.Error(t, WriteTemplate(path, KindDaemon, false))
	require.NoError(t, WriteTemplate(path, KindDaemon, true))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `listen = "0.0.0.0:4048"`)
}
