package animus

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/animus/internal/observability"
	"github.com/danmuck/animus/internal/protocol"
)

// Handler turns received frames into reports for one named animus.
type Handler struct {
	name    string
	runtime Runtime
	logger  zerolog.Logger
}

func NewHandler(name string, runtime Runtime, logger zerolog.Logger) *Handler {
	return &Handler{
		name:    name,
		runtime: runtime,
		logger:  logger.With().Str("animus", name).Logger(),
	}
}

func (h *Handler) Name() string {
	return h.name
}

// Targets reports whether cmd should be answered by this animus.
// Query is answered regardless of name so clients can discover peers.
func (h *Handler) Targets(cmd protocol.Command) bool {
	if cmd.IsIgnore() {
		return false
	}
	return cmd.Name == h.name || cmd.Action.Kind == protocol.ActionQuery
}

// Dispatch runs cmd on the runtime and builds the report. It returns false
// when cmd produces no report: the ignore sentinel or another animus's command.
func (h *Handler) Dispatch(ctx context.Context, cmd protocol.Command) (protocol.Report, bool) {
	if cmd.IsIgnore() {
		observability.RecordFrame(h.name, observability.FrameIgnored)
		return protocol.Report{}, false
	}
	if !h.Targets(cmd) {
		observability.RecordFrame(h.name, observability.FrameUntargeted)
		h.logger.Debug().Str("target", cmd.Name).Str("action", cmd.Action.String()).Msg("animus.Handler.Dispatch not targeted")
		return protocol.Report{}, false
	}
	observability.RecordFrame(h.name, observability.FrameDispatched)

	start := time.Now()
	outcome := h.runtime.Handle(ctx, cmd.Name, cmd.Action)
	elapsed := time.Since(start)
	observability.RecordReport(h.name, cmd.Action.String(), outcome.Kind.String(), elapsed)

	h.logger.Debug().
		Str("action", cmd.Action.String()).
		Str("outcome", outcome.Kind.String()).
		Dur("elapsed", elapsed).
		Msg("animus.Handler.Dispatch")
	return protocol.NewReport(h.name, cmd.Action, outcome), true
}

// HandleFrame ingests one frame and returns the encoded reply, encoded at the
// revision the command arrived in. A nil reply with a nil error means the
// frame produced no report. Encode failures are returned as protocol.ErrEncode.
func (h *Handler) HandleFrame(ctx context.Context, frame []byte) ([]byte, error) {
	cmd, rev := ingest(h.logger, frame)
	report, ok := h.Dispatch(ctx, cmd)
	if !ok {
		return nil, nil
	}
	reply, err := protocol.Codec{Revision: rev}.EncodeReport(report)
	if err != nil {
		observability.RecordReplyError(h.name, protocol.KindEncode.String())
		h.logger.Error().Err(err).Str("action", cmd.Action.String()).Msg("animus.Handler.HandleFrame encode report")
		return nil, err
	}
	return reply, nil
}
