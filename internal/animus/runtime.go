package animus

import (
	"context"

	"github.com/danmuck/animus/internal/protocol"
)

// Runtime performs actions on behalf of an animus. name is the target named
// by the command. Handle must be safe for concurrent use.
type Runtime interface {
	Handle(ctx context.Context, name string, action protocol.Action) protocol.Outcome
}

// RuntimeFunc adapts a function to Runtime.
type RuntimeFunc func(ctx context.Context, name string, action protocol.Action) protocol.Outcome

func (f RuntimeFunc) Handle(ctx context.Context, name string, action protocol.Action) protocol.Outcome {
	return f(ctx, name, action)
}
