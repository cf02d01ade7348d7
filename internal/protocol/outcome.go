package protocol

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/danmuck/animus/internal/protocol/wire"
)

// OutcomeKind is the result class carried by a Report.
type OutcomeKind uint8

const (
	// OutcomeSuccess means the action completed.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeFail means the action was received but could not complete.
	OutcomeFail
	// OutcomeReturn means the action completed and yields a payload.
	OutcomeReturn
)

var ErrOutcomeShape = errors.New("protocol: outcome does not carry the requested payload shape")

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "Success"
	case OutcomeFail:
		return "Fail"
	case OutcomeReturn:
		return "Return"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", uint8(k))
	}
}

// Outcome is a tagged union; Payload is only meaningful for OutcomeReturn.
// See the package doc for the payload shape each action returns.
type Outcome struct {
	Kind    OutcomeKind
	Payload []byte
}

func Success() Outcome {
	return Outcome{Kind: OutcomeSuccess}
}

func Fail() Outcome {
	return Outcome{Kind: OutcomeFail}
}

// Return wraps an already-serialized payload. The slice is copied.
func Return(payload []byte) Outcome {
	buf := make([]byte, len(payload))
	copy(buf, payload)
	return Outcome{Kind: OutcomeReturn, Payload: buf}
}

// OutcomeOf maps a boolean action result onto Success or Fail.
func OutcomeOf(ok bool) Outcome {
	if ok {
		return Success()
	}
	return Fail()
}

func (o Outcome) IsSuccess() bool { return o.Kind == OutcomeSuccess }
func (o Outcome) IsFail() bool    { return o.Kind == OutcomeFail }
func (o Outcome) IsReturn() bool  { return o.Kind == OutcomeReturn }

func (o Outcome) Equal(other Outcome) bool {
	if o.Kind != other.Kind {
		return false
	}
	if o.Kind != OutcomeReturn {
		return true
	}
	return bytes.Equal(o.Payload, other.Payload)
}

// String renders Success and Fail by name and a Return by its payload text.
// Payloads that are not valid UTF-8 render as hex.
func (o Outcome) String() string {
	if o.Kind != OutcomeReturn {
		return o.Kind.String()
	}
	if utf8.Valid(o.Payload) {
		return string(o.Payload)
	}
	return hex.EncodeToString(o.Payload)
}

func writeOutcome(w *wire.Writer, o Outcome) error {
	switch o.Kind {
	case OutcomeSuccess, OutcomeFail:
		if len(o.Payload) != 0 {
			return fmt.Errorf("%w: %s carries a payload", ErrOutcomeShape, o.Kind)
		}
		w.PutU8(uint8(o.Kind))
	case OutcomeReturn:
		w.PutU8(uint8(o.Kind))
		w.PutBytes(o.Payload)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownOutcome, uint8(o.Kind))
	}
	return nil
}

func readOutcome(r *wire.Reader) (Outcome, error) {
	tag, err := r.U8()
	if err != nil {
		return Outcome{}, err
	}
	switch OutcomeKind(tag) {
	case OutcomeSuccess:
		return Success(), nil
	case OutcomeFail:
		return Fail(), nil
	case OutcomeReturn:
		payload, err := r.Bytes()
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Kind: OutcomeReturn, Payload: payload}, nil
	default:
		return Outcome{}, fmt.Errorf("%w: tag %d", ErrUnknownOutcome, tag)
	}
}
