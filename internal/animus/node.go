package animus

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/danmuck/animus/internal/protocol"
	"github.com/danmuck/animus/internal/tract"
)

var (
	ErrUnknownInput  = errors.New("animus: unknown input")
	ErrNoSaveFile    = errors.New("animus: no save file configured")
	ErrUnknownOutput = errors.New("animus: unknown output")
	ErrDuplicateLink = errors.New("animus: tract already connected")
)

// NodeConfig describes a Node at construction.
type NodeConfig struct {
	State    NetworkState
	Version  string
	SavePath string
}

var _ Runtime = (*Node)(nil)

// Node is an in-process Runtime holding the network state of one animus.
type Node struct {
	mu       sync.RWMutex
	state    NetworkState
	version  string
	savePath string
	logger   zerolog.Logger

	done     chan struct{}
	stopOnce sync.Once
}

func NewNode(cfg NodeConfig, logger zerolog.Logger) *Node {
	return &Node{
		state:    cfg.State.clone(),
		version:  cfg.Version,
		savePath: cfg.SavePath,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// LoadNode builds a Node from the save file at path. Save writes back to it.
func LoadNode(path, version string, logger zerolog.Logger) (*Node, error) {
	state, err := LoadState(path)
	if err != nil {
		return nil, err
	}
	return NewNode(NodeConfig{State: state, Version: version, SavePath: path}, logger), nil
}

func (n *Node) Name() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state.Name
}

// Snapshot returns a copy of the current network state.
func (n *Node) Snapshot() NetworkState {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state.clone()
}

func (n *Node) Awake() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state.Awake
}

// Done is closed once Terminate has been handled.
func (n *Node) Done() <-chan struct{} {
	return n.done
}

// SetInputLevel records the latest level seen on input.
func (n *Node) SetInputLevel(input string, level uint32) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := range n.state.Inputs {
		if n.state.Inputs[i].Name == input {
			n.state.Inputs[i].Level = level
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownInput, input)
}

func (n *Node) Handle(ctx context.Context, name string, action protocol.Action) protocol.Outcome {
	switch action.Kind {
	case protocol.ActionQuery:
		return protocol.ReturnText(n.Name())
	case protocol.ActionName:
		n.mu.RLock()
		defer n.mu.RUnlock()
		return protocol.ReturnText(n.state.Complex)
	case protocol.ActionVersion:
		return protocol.ReturnText(n.version)
	case protocol.ActionStatus:
		return protocol.OutcomeOf(n.Awake())
	case protocol.ActionListStructures:
		return n.returnList(func(s NetworkState) []string { return s.Structures })
	case protocol.ActionListOutputs:
		return n.returnList(func(s NetworkState) []string { return s.Outputs })
	case protocol.ActionListInputs:
		return n.returnList(func(s NetworkState) []string {
			out := make([]string, 0, len(s.Inputs))
			for _, in := range s.Inputs {
				out = append(out, in.Name)
			}
			return out
		})
	case protocol.ActionReportInputs:
		return n.reportInputs()
	case protocol.ActionWake:
		n.setAwake(true)
		return protocol.Success()
	case protocol.ActionSleep:
		n.setAwake(false)
		return protocol.Success()
	case protocol.ActionSave:
		return protocol.OutcomeOf(n.save() == nil)
	case protocol.ActionTerminate:
		n.stopOnce.Do(func() {
			n.logger.Info().Msg("animus.Node.Handle terminate requested")
			close(n.done)
		})
		return protocol.Success()
	case protocol.ActionConnectTract:
		return protocol.OutcomeOf(n.connect(action.Receiver) == nil)
	case protocol.ActionIgnore:
		return protocol.Success()
	default:
		n.logger.Warn().Str("action", action.String()).Msg("animus.Node.Handle unsupported action")
		return protocol.Fail()
	}
}

func (n *Node) returnList(pick func(NetworkState) []string) protocol.Outcome {
	n.mu.RLock()
	items := slices.Clone(pick(n.state))
	n.mu.RUnlock()
	out, err := protocol.ReturnList(items)
	if err != nil {
		n.logger.Error().Err(err).Msg("animus.Node.returnList")
		return protocol.Fail()
	}
	return out
}

func (n *Node) reportInputs() protocol.Outcome {
	n.mu.RLock()
	readings := make([]protocol.InputReading, 0, len(n.state.Inputs))
	for _, in := range n.state.Inputs {
		readings = append(readings, protocol.InputReading{Input: in.Name, Level: in.Level})
	}
	n.mu.RUnlock()
	out, err := protocol.ReturnReadings(readings)
	if err != nil {
		n.logger.Error().Err(err).Msg("animus.Node.reportInputs")
		return protocol.Fail()
	}
	return out
}

func (n *Node) setAwake(awake bool) {
	n.mu.Lock()
	changed := n.state.Awake != awake
	n.state.Awake = awake
	n.mu.Unlock()
	if changed {
		n.logger.Info().Bool("awake", awake).Msg("animus.Node state changed")
	}
}

func (n *Node) save() error {
	if strings.TrimSpace(n.savePath) == "" {
		n.logger.Warn().Err(ErrNoSaveFile).Msg("animus.Node.save")
		return ErrNoSaveFile
	}
	state := n.Snapshot()
	if err := WriteState(n.savePath, state); err != nil {
		n.logger.Error().Err(err).Str("path", n.savePath).Msg("animus.Node.save")
		return err
	}
	n.logger.Info().Str("path", n.savePath).Msg("animus.Node.save ok")
	return nil
}

func (n *Node) connect(recv tract.Receiver) error {
	if err := recv.Validate(); err != nil {
		n.logger.Warn().Err(err).Msg("animus.Node.connect")
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if !slices.Contains(n.state.Outputs, recv.Tract) {
		n.logger.Warn().Str("tract", recv.Tract).Msg("animus.Node.connect unknown output")
		return fmt.Errorf("%w: %q", ErrUnknownOutput, recv.Tract)
	}
	if slices.Contains(n.state.Tracts, recv) {
		return fmt.Errorf("%w: %s", ErrDuplicateLink, recv)
	}
	n.state.Tracts = append(n.state.Tracts, recv)
	n.logger.Info().Str("tract", recv.String()).Msg("animus.Node.connect ok")
	return nil
}
