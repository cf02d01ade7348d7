package protocol

import (
	"errors"
	"fmt"

	"github.com/danmuck/animus/internal/protocol/wire"
	"github.com/danmuck/animus/internal/tract"
)

// ActionKind is one operation an animus can be asked to perform.
// Values follow the declaration order of the current revision.
type ActionKind uint8

const (
	// ActionQuery returns the animus name. Answered even when not targeted: used for discovery.
	ActionQuery ActionKind = iota
	// ActionName returns the name of the complex managed by the animus.
	ActionName
	// ActionVersion returns the running animusd version.
	ActionVersion
	// ActionStatus reports Success when awake and Fail when asleep.
	ActionStatus
	// ActionListStructures lists each structure in the network.
	ActionListStructures
	ActionListOutputs
	ActionListInputs
	// ActionReportInputs returns the current level of each input.
	ActionReportInputs
	// ActionWake begins processing signals.
	ActionWake
	// ActionSave writes the network state back to the save file.
	ActionSave
	// ActionSleep stops processing new stimuli.
	ActionSleep
	// ActionTerminate shuts the animus down.
	ActionTerminate
	// ActionIgnore does nothing. Non-protocol traffic decodes to it.
	ActionIgnore
	// ActionConnectTract connects an output to the input described by a tract.Receiver.
	ActionConnectTract
)

var ErrActionPayload = errors.New("protocol: action payload does not match kind")

var actionNames = map[ActionKind]string{
	ActionQuery:          "Query",
	ActionName:           "Name",
	ActionVersion:        "Version",
	ActionStatus:         "Status",
	ActionListStructures: "ListStructures",
	ActionListOutputs:    "ListOutputs",
	ActionListInputs:     "ListInputs",
	ActionReportInputs:   "ReportInputs",
	ActionWake:           "Wake",
	ActionSave:           "Save",
	ActionSleep:          "Sleep",
	ActionTerminate:      "Terminate",
	ActionIgnore:         "Ignore",
	ActionConnectTract:   "ConnectTract",
}

func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ActionKind(%d)", uint8(k))
}

// HasPayload reports whether the variant carries data on the wire.
func (k ActionKind) HasPayload() bool {
	return k == ActionConnectTract
}

// Action is a tagged union: Kind selects the variant, Receiver is set only
// for ActionConnectTract. Action values are comparable with ==.
type Action struct {
	Kind     ActionKind
	Receiver tract.Receiver
}

// NewAction builds a variant that carries no data.
func NewAction(kind ActionKind) Action {
	return Action{Kind: kind}
}

// ConnectTract builds the link action for receiver.
func ConnectTract(receiver tract.Receiver) Action {
	return Action{Kind: ActionConnectTract, Receiver: receiver}
}

var (
	Query          = NewAction(ActionQuery)
	Name           = NewAction(ActionName)
	Version        = NewAction(ActionVersion)
	Status         = NewAction(ActionStatus)
	ListStructures = NewAction(ActionListStructures)
	ListOutputs    = NewAction(ActionListOutputs)
	ListInputs     = NewAction(ActionListInputs)
	ReportInputs   = NewAction(ActionReportInputs)
	Wake           = NewAction(ActionWake)
	Save           = NewAction(ActionSave)
	Sleep          = NewAction(ActionSleep)
	Terminate      = NewAction(ActionTerminate)
	IgnoreAction   = NewAction(ActionIgnore)
)

func (a Action) String() string {
	return a.Kind.String()
}

func (a Action) validate() error {
	if !a.Kind.HasPayload() && a.Receiver != (tract.Receiver{}) {
		return fmt.Errorf("%w: %s carries a receiver", ErrActionPayload, a.Kind)
	}
	return nil
}

func writeAction(w *wire.Writer, rev *Revision, a Action) error {
	if err := a.validate(); err != nil {
		return err
	}
	tag, ok := rev.Tag(a.Kind)
	if !ok {
		return fmt.Errorf("%w: %s in revision %d", ErrUnknownAction, a.Kind, rev.Number)
	}
	w.PutU8(tag)
	if a.Kind == ActionConnectTract {
		w.PutNested(a.Receiver.MarshalWire)
	}
	return nil
}

func readAction(r *wire.Reader, rev *Revision) (Action, error) {
	tag, err := r.U8()
	if err != nil {
		return Action{}, err
	}
	kind, ok := rev.Kind(tag)
	if !ok {
		return Action{}, fmt.Errorf("%w: tag %d in revision %d", ErrUnknownAction, tag, rev.Number)
	}
	a := Action{Kind: kind}
	if kind == ActionConnectTract {
		err := r.Nested(func(inner *wire.Reader) error {
			recv, err := tract.UnmarshalWire(inner)
			a.Receiver = recv
			return err
		})
		if err != nil {
			return Action{}, err
		}
	}
	return a, nil
}
