package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"

	"github.com/rs/zerolog"

	"github.com/danmuck/animus/internal/animus"
	"github.com/danmuck/animus/internal/auth"
	"github.com/danmuck/animus/internal/observability"
	"github.com/danmuck/animus/internal/protocol"
	"github.com/danmuck/animus/internal/server"
	"github.com/danmuck/animus/internal/transport/udp"
)

// service wires one animus node to the control channel and the admin API.
type service struct {
	cfg    serviceConfig
	node   *animus.Node
	logger zerolog.Logger
}

func newService(cfg serviceConfig, logger zerolog.Logger) (*service, error) {
	node, err := loadOrCreateNode(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &service{cfg: cfg, node: node, logger: logger}, nil
}

// loadOrCreateNode reads the save file, or starts an empty network that
// Save will create on first write. The configured name always wins over the
// name recorded in the save file, so Query answers with the name the handler
// is addressed by.
func loadOrCreateNode(cfg serviceConfig, logger zerolog.Logger) (*animus.Node, error) {
	nodeLogger := logger.With().Str("component", "node").Logger()
	state := animus.NetworkState{Name: cfg.Name}
	if cfg.SaveFile != "" {
		if _, err := os.Stat(cfg.SaveFile); err == nil {
			state, err = animus.LoadState(cfg.SaveFile)
			if err != nil {
				return nil, err
			}
			if state.Name != cfg.Name {
				logger.Warn().
					Str("save_name", state.Name).
					Str("config_name", cfg.Name).
					Msg("animusd.loadOrCreateNode save file names a different animus, using config name")
				state.Name = cfg.Name
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat save file: %w", err)
		} else {
			logger.Info().Str("save_file", cfg.SaveFile).Msg("animusd.loadOrCreateNode starting empty network")
		}
	}
	return animus.NewNode(animus.NodeConfig{
		State:    state,
		Version:  Version,
		SavePath: cfg.SaveFile,
	}, nodeLogger), nil
}

// run binds the control channel and serves until ctx is done or the node
// handles Terminate.
func (s *service) run(ctx context.Context) error {
	conn, err := net.ListenPacket("udp", s.cfg.Listen)
	if err != nil {
		return protocol.IoError(err)
	}
	return s.serve(ctx, conn)
}

// serve runs the control channel on conn, which it closes on return, and the
// admin API when configured. It returns after both servers have stopped.
func (s *service) serve(ctx context.Context, conn net.PacketConn) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	observability.RegisterMetrics()
	handler := animus.NewHandler(s.cfg.Name, s.node, observability.Component("handler", s.cfg.Name))
	udpServer := &udp.Server{
		Handler:    handler,
		Logger:     observability.Component("udp", s.cfg.Name),
		ReadBuffer: s.cfg.ReadBuffer,
	}

	udpErr := make(chan error, 1)
	go func() {
		udpErr <- udpServer.Serve(ctx, conn)
	}()

	var adminErr chan error
	if s.cfg.MetricsListen != "" {
		admin := server.NewAdmin(s.cfg.Name, Version, s.node, observability.Component("admin", s.cfg.Name))
		if s.cfg.AdminToken != "" {
			admin.RequireToken(auth.StaticToken{Token: s.cfg.AdminToken})
		}
		adminErr = make(chan error, 1)
		go func() {
			adminErr <- admin.ListenAndServe(ctx, s.cfg.MetricsListen)
		}()
	}

	s.logger.Info().
		Str("animus", s.cfg.Name).
		Str("listen", conn.LocalAddr().String()).
		Str("metrics_listen", s.cfg.MetricsListen).
		Str("version", Version).
		Msg("animusd started")

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info().Msg("animusd shutting down")
	case <-s.node.Done():
		s.logger.Info().Msg("animusd terminated by command")
	case err := <-udpErr:
		runErr = err
		udpErr = nil
	case err := <-adminErr:
		runErr = err
		adminErr = nil
	}
	cancel()
	for _, ch := range []chan error{udpErr, adminErr} {
		if ch == nil {
			continue
		}
		if err := <-ch; err != nil && runErr == nil {
			runErr = err
		}
	}
	if runErr != nil {
		s.logger.Error().Err(runErr).Msg("animusd stopped")
	}
	return runErr
}
