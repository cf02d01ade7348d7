package protocol

import "io"

// Report is the response envelope: the responding animus, the action that
// triggered it, and the outcome.
type Report struct {
	Name    string
	Action  Action
	Outcome Outcome
}

// NewReport builds the reply sent by the animus called name.
func NewReport(name string, action Action, outcome Outcome) Report {
	return Report{Name: name, Action: action, Outcome: outcome}
}

func (r Report) Equal(other Report) bool {
	return r.Name == other.Name && r.Action == other.Action && r.Outcome.Equal(other.Outcome)
}

// Encode serializes r at the current revision.
func (r Report) Encode() ([]byte, error) {
	return Codec{}.EncodeReport(r)
}

// DecodeReport deserializes a Report at whichever revision its header names.
func DecodeReport(b []byte) (Report, error) {
	r, _, err := ParseReport(b)
	return r, err
}

func (r Report) WriteTo(w io.Writer) (int64, error) {
	b, err := r.Encode()
	if err != nil {
		return 0, err
	}
	return writeMessage(w, b)
}

// ReadReport reads src to EOF and decodes the bytes as one Report.
func ReadReport(src io.Reader) (Report, error) {
	b, err := readMessage(src)
	if err != nil {
		return Report{}, err
	}
	return DecodeReport(b)
}

func (r Report) String() string {
	return r.Name + " " + r.Action.String() + " " + r.Outcome.String()
}
