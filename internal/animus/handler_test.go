package animus

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/animus/internal/protocol"
	"github.com/danmuck/animus/internal/testutil/testlog"
	"github.com/danmuck/animus/internal/tract"
)

func successRuntime() Runtime {
	return RuntimeFunc(func(context.Context, string, protocol.Action) protocol.Outcome {
		return protocol.Success()
	})
}

func TestIngestFallsBackToIgnore(t *testing.T) {
	testlog.Start(t)

	for _, frame := range [][]byte{nil, []byte("GET / HTTP/1.1\r\n"), {0x41, 0x4E, 0x4D, 0x53, 0x00, 0x02, 0x01, 0x00}} {
		cmd := Ingest(frame)
		assert.Equal(t, protocol.Ignore(), cmd)
	}

	b, err := protocol.NewCommand("cortex", protocol.Wake).Encode()
	require.NoError(t, err)
	assert.Equal(t, protocol.NewCommand("cortex", protocol.Wake), Ingest(b))
}

func TestDispatchBuildsReport(t *testing.T) {
	testlog.Start(t)

	h := NewHandler("x", successRuntime(), testlog.Logger(t))
	report, ok := h.Dispatch(context.Background(), protocol.NewCommand("x", protocol.Status))
	require.True(t, ok)
	assert.True(t, report.Equal(protocol.NewReport("x", protocol.Status, protocol.Success())))
}

func TestDispatchPassesTargetAndAction(t *testing.T) {
	testlog.Start(t)

	var gotName string
	var gotAction protocol.Action
	rt := RuntimeFunc(func(_ context.Context, name string, action protocol.Action) protocol.Outcome {
		gotName, gotAction = name, action
		return protocol.Fail()
	})
	recv := tract.Receiver{Tract: "t", Address: "127.0.0.1:4048", Input: "i"}
	h := NewHandler("cortex", rt, testlog.Logger(t))
	report, ok := h.Dispatch(context.Background(), protocol.NewCommand("cortex", protocol.ConnectTract(recv)))
	require.True(t, ok)
	assert.Equal(t, "cortex", gotName)
	assert.Equal(t, protocol.ConnectTract(recv), gotAction)
	assert.Equal(t, protocol.ConnectTract(recv), report.Action)
	assert.True(t, report.Outcome.IsFail())
}

func TestDispatchSkipsIgnoreAndOtherTargets(t *testing.T) {
	testlog.Start(t)

	calls := 0
	rt := RuntimeFunc(func(context.Context, string, protocol.Action) protocol.Outcome {
		calls++
		return protocol.Success()
	})
	h := NewHandler("cortex", rt, testlog.Logger(t))

	_, ok := h.Dispatch(context.Background(), protocol.Ignore())
	assert.False(t, ok)
	_, ok = h.Dispatch(context.Background(), protocol.NewCommand("cortex", protocol.IgnoreAction))
	assert.False(t, ok)
	_, ok = h.Dispatch(context.Background(), protocol.NewCommand("thalamus", protocol.Wake))
	assert.False(t, ok)
	assert.Equal(t, 0, calls)

	report, ok := h.Dispatch(context.Background(), protocol.NewCommand("", protocol.Query))
	require.True(t, ok)
	assert.Equal(t, "cortex", report.Name)
	assert.Equal(t, 1, calls)
}

func TestHandleFrameRepliesAtRequestRevision(t *testing.T) {
	testlog.Start(t)

	h := NewHandler("cortex", successRuntime(), testlog.Logger(t))
	frame, err := protocol.Codec{Revision: protocol.Revision1}.EncodeCommand(protocol.NewCommand("cortex", protocol.Sleep))
	require.NoError(t, err)

	reply, err := h.HandleFrame(context.Background(), frame)
	require.NoError(t, err)
	report, rev, err := protocol.ParseReport(reply)
	require.NoError(t, err)
	assert.Same(t, protocol.Revision1, rev)
	assert.True(t, report.Equal(protocol.NewReport("cortex", protocol.Sleep, protocol.Success())))
}

func TestHandleFrameDropsNoise(t *testing.T) {
	testlog.Start(t)

	h := NewHandler("cortex", successRuntime(), testlog.Logger(t))
	reply, err := h.HandleFrame(context.Background(), []byte{0xde, 0xad, 0xbe, 0xef})
	assert.NoError(t, err)
	assert.Nil(t, reply)
}

func TestHandleFrameSurfacesEncodeFailure(t *testing.T) {
	testlog.Start(t)

	rt := RuntimeFunc(func(context.Context, string, protocol.Action) protocol.Outcome {
		return protocol.Outcome{Kind: protocol.OutcomeSuccess, Payload: []byte("stray")}
	})
	h := NewHandler("cortex", rt, testlog.Logger(t))
	frame, err := protocol.NewCommand("cortex", protocol.Status).Encode()
	require.NoError(t, err)

	var reply []byte
	assert.NotPanics(t, func() {
		reply, err = h.HandleFrame(context.Background(), frame)
	})
	assert.Nil(t, reply)
	assert.ErrorIs(t, err, protocol.ErrEncode)
}

func TestHandleFrameConcurrent(t *testing.T) {
	testlog.Start(t)

	node := NewNode(NodeConfig{State: NetworkState{Name: "cortex", Outputs: []string{"o"}}}, testlog.Logger(t))
	h := NewHandler("cortex", node, testlog.Logger(t))
	actions := []protocol.Action{protocol.Wake, protocol.Sleep, protocol.Status, protocol.ListOutputs, protocol.Query}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(action protocol.Action) {
			defer wg.Done()
			frame, err := protocol.NewCommand("cortex", action).Encode()
			if !assert.NoError(t, err) {
				return
			}
			reply, err := h.HandleFrame(context.Background(), frame)
			if !assert.NoError(t, err) {
				return
			}
			report, err := protocol.DecodeReport(reply)
			if assert.NoError(t, err) {
				assert.Equal(t, action, report.Action)
			}
		}(actions[i%len(actions)])
	}
	wg.Wait()
}

func TestHandleFrameLogsIgnoredFrameWithHandlerFields(t *testing.T) {
	testlog.Start(t)

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel).With().Str("component", "handler").Logger()
	h := NewHandler("cortex", successRuntime(), logger)

	reply, err := h.HandleFrame(context.Background(), []byte("M-SEARCH * HTTP/1.1\r\n"))
	require.NoError(t, err)
	assert.Nil(t, reply)

	out := buf.String()
	assert.Contains(t, out, "animus.Ingest ignored frame")
	assert.Contains(t, out, `"animus":"cortex"`)
	assert.Contains(t, out, `"component":"handler"`)
}
