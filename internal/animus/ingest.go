package animus

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/animus/internal/protocol"
)

// Ingest decodes one received frame. Frames that are not valid commands
// become protocol.Ignore() so the receive loop can drop foreign traffic.
func Ingest(frame []byte) protocol.Command {
	cmd, _ := ingest(log.Logger, frame)
	return cmd
}

func ingest(logger zerolog.Logger, frame []byte) (protocol.Command, *protocol.Revision) {
	cmd, rev, err := protocol.ParseCommand(frame)
	if err != nil {
		logger.Debug().Err(err).Int("bytes", len(frame)).Msg("animus.Ingest ignored frame")
		return protocol.Ignore(), nil
	}
	return cmd, rev
}
