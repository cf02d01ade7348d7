// Package udp carries animus Commands and Reports over UDP datagrams.
package udp

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/animus/internal/observability"
	"github.com/danmuck/animus/internal/protocol"
)

// DefaultReadBuffer fits any UDP payload.
const DefaultReadBuffer = protocol.MaxMessageSize

// FrameHandler answers one datagram. A nil reply means nothing is sent back.
type FrameHandler interface {
	Name() string
	HandleFrame(ctx context.Context, frame []byte) ([]byte, error)
}

// Server reads datagrams sequentially and replies to each sender.
type Server struct {
	Handler    FrameHandler
	Logger     zerolog.Logger
	ReadBuffer int
}

// ListenAndServe binds addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return protocol.IoError(err)
	}
	return s.Serve(ctx, conn)
}

// Serve runs the receive loop on conn and closes it on return. Per-datagram
// failures are logged and counted; a read failure ends the loop with an
// error classified as protocol.ErrIo. Cancelling ctx returns nil once the
// datagram in flight, if any, has been answered.
func (s *Server) Serve(ctx context.Context, conn net.PacketConn) error {
	defer conn.Close()
	name := s.Handler.Name()
	s.Logger.Info().Str("addr", conn.LocalAddr().String()).Msg("udp.Server.Serve listening")

	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	size := s.ReadBuffer
	if size <= 0 {
		size = DefaultReadBuffer
	}
	buf := make([]byte, size)
	for {
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				s.Logger.Info().Msg("udp.Server.Serve shutdown")
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return protocol.IoError(err)
		}

		reply, err := s.Handler.HandleFrame(ctx, buf[:n])
		if err != nil {
			s.Logger.Warn().Err(err).Str("peer", peer.String()).Msg("udp.Server.Serve reply dropped")
			continue
		}
		if reply == nil {
			continue
		}
		if _, err := conn.WriteTo(reply, peer); err != nil {
			observability.RecordReplyError(name, protocol.KindIo.String())
			s.Logger.Warn().Err(err).Str("peer", peer.String()).Msg("udp.Server.Serve write reply")
		}
	}
}
