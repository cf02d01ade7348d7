package protocol

import "errors"

var (
	ErrUnknownRevision = errors.New("protocol: unknown revision")
	ErrUnknownAction   = errors.New("protocol: unknown action")
	ErrUnknownOutcome  = errors.New("protocol: unknown outcome")
)

// Revision is one schema generation: the header revision number and the
// action variant set it can carry, indexed by wire tag.
type Revision struct {
	Number  uint16
	actions []ActionKind
}

var (
	// Revision1 is the first published variant set.
	Revision1 = &Revision{
		Number: 1,
		actions: []ActionKind{
			ActionQuery,
			ActionName,
			ActionVersion,
			ActionStatus,
			ActionListStructures,
			ActionWake,
			ActionSave,
			ActionSleep,
			ActionTerminate,
			ActionIgnore,
		},
	}

	// Revision2 adds input/output listing and tract connection.
	Revision2 = &Revision{
		Number: 2,
		actions: []ActionKind{
			ActionQuery,
			ActionName,
			ActionVersion,
			ActionStatus,
			ActionListStructures,
			ActionListOutputs,
			ActionListInputs,
			ActionReportInputs,
			ActionWake,
			ActionSave,
			ActionSleep,
			ActionTerminate,
			ActionIgnore,
			ActionConnectTract,
		},
	}

	CurrentRevision = Revision2
)

var revisions = map[uint16]*Revision{
	Revision1.Number: Revision1,
	Revision2.Number: Revision2,
}

// LookupRevision returns the known revision numbered n.
func LookupRevision(n uint16) (*Revision, bool) {
	rev, ok := revisions[n]
	return rev, ok
}

// Tag returns the wire tag for kind, or false if this revision cannot carry it.
func (r *Revision) Tag(kind ActionKind) (uint8, bool) {
	for i, k := range r.actions {
		if k == kind {
			return uint8(i), true
		}
	}
	return 0, false
}

// Kind maps a wire tag back to its action kind. Unknown tags are rejected.
func (r *Revision) Kind(tag uint8) (ActionKind, bool) {
	if int(tag) >= len(r.actions) {
		return 0, false
	}
	return r.actions[tag], true
}

// Supports reports whether kind can be encoded at this revision.
func (r *Revision) Supports(kind ActionKind) bool {
	_, ok := r.Tag(kind)
	return ok
}
