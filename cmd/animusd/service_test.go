package main

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/animus/internal/animus"
	"github.com/danmuck/animus/internal/protocol"
	"github.com/danmuck/animus/internal/testutil/testlog"
	"github.com/danmuck/animus/internal/transport/udp"
)

func freeTCPAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

// startService binds the control channel before serving so the first
// command cannot race the listener.
func startService(t *testing.T, cfg serviceConfig) (string, <-chan error) {
	t.Helper()
	svc, err := newService(cfg, testlog.Logger(t))
	require.NoError(t, err)

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- svc.serve(context.Background(), conn)
	}()
	return conn.LocalAddr().String(), done
}

func waitStopped(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "service did not stop after terminate")
	}
}

func TestLoadOrCreateNodeStartsEmpty(t *testing.T) {
	testlog.Start(t)
	cfg := defaultServiceConfig()
	cfg.Name = "cortex"
	cfg.SaveFile = filepath.Join(t.TempDir(), "network.toml")

	node, err := loadOrCreateNode(cfg, testlog.Logger(t))
	require.NoError(t, err)
	assert.Equal(t, "cortex", node.Name())
	require.True(t, node.Handle(context.Background(), "cortex", protocol.Save).IsSuccess())

	reloaded, err := loadOrCreateNode(cfg, testlog.Logger(t))
	require.NoError(t, err)
	assert.Equal(t, "cortex", reloaded.Name())
}

func TestLoadOrCreateNodeExampleNetwork(t *testing.T) {
	testlog.Start(t)
	cfg := defaultServiceConfig()
	cfg.Name = "cortex"
	cfg.SaveFile = "ex.network.toml"

	node, err := loadOrCreateNode(cfg, testlog.Logger(t))
	require.NoError(t, err)
	state := node.Snapshot()
	assert.Equal(t, "complex.alpha", state.Complex)
	assert.Len(t, state.Structures, 3)
	assert.Len(t, state.Inputs, 2)
}

func TestLoadOrCreateNodeConfigNameWins(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "network.toml")
	require.NoError(t, animus.WriteState(path, animus.NetworkState{Name: "old-name", Complex: "complex.alpha"}))

	cfg := defaultServiceConfig()
	cfg.Name = "cortex"
	cfg.SaveFile = path

	node, err := loadOrCreateNode(cfg, testlog.Logger(t))
	require.NoError(t, err)
	assert.Equal(t, "cortex", node.Name())
	assert.Equal(t, "complex.alpha", node.Snapshot().Complex)

	// The name a Query advertises must address the same animus.
	h := animus.NewHandler(cfg.Name, node, testlog.Logger(t))
	report, ok := h.Dispatch(context.Background(), protocol.NewCommand("", protocol.Query))
	require.True(t, ok)
	queried, err := report.Outcome.Text()
	require.NoError(t, err)
	assert.Equal(t, report.Name, queried)

	_, ok = h.Dispatch(context.Background(), protocol.NewCommand(queried, protocol.Status))
	assert.True(t, ok, "status addressed to the queried name was not answered")
}

func TestServiceStopsOnTerminate(t *testing.T) {
	testlog.Start(t)
	cfg := defaultServiceConfig()
	cfg.Name = "cortex"
	cfg.SaveFile = ""

	addr, done := startService(t, cfg)

	report, err := udp.Client{Timeout: time.Second}.Send(context.Background(), addr, protocol.NewCommand("cortex", protocol.Terminate))
	require.NoError(t, err)
	assert.True(t, report.Equal(protocol.NewReport("cortex", protocol.Terminate, protocol.Success())))

	waitStopped(t, done)
}

func TestServiceStopsAdminBeforeReturning(t *testing.T) {
	testlog.Start(t)
	cfg := defaultServiceConfig()
	cfg.Name = "cortex"
	cfg.SaveFile = ""
	cfg.MetricsListen = freeTCPAddr(t)

	addr, done := startService(t, cfg)

	_, err := udp.Client{Timeout: time.Second}.Send(context.Background(), addr, protocol.NewCommand("cortex", protocol.Terminate))
	require.NoError(t, err)
	waitStopped(t, done)

	// The admin listener is released once serve has returned.
	ln, err := net.Listen("tcp", cfg.MetricsListen)
	require.NoError(t, err)
	require.NoError(t, ln.Close())
}

func TestServiceRunReportsBindFailure(t *testing.T) {
	testlog.Start(t)
	taken, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	cfg := defaultServiceConfig()
	cfg.Name = "cortex"
	cfg.SaveFile = ""
	cfg.Listen = taken.LocalAddr().String()

	svc, err := newService(cfg, testlog.Logger(t))
	require.NoError(t, err)
	err = svc.run(context.Background())
	assert.ErrorIs(t, err, protocol.ErrIo)
}

func TestLoadOrCreateNodeRejectsBadSaveFile(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "network.toml")
	require.NoError(t, os.WriteFile(path, []byte("name = [\n"), 0o600))

	cfg := defaultServiceConfig()
	cfg.SaveFile = path
	_, err := loadOrCreateNode(cfg, testlog.Logger(t))
	assert.Error(t, err)
}
