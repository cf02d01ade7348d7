package protocol

import (
	"fmt"
	"unicode/utf8"

	"github.com/danmuck/animus/internal/protocol/wire"
)

// InputReading is one record of a ReportInputs return payload.
type InputReading struct {
	Input string
	Level uint32
}

// ReturnText builds the Query/Name/Version payload.
func ReturnText(s string) Outcome {
	return Return([]byte(s))
}

// ReturnList builds the ListStructures/ListOutputs/ListInputs payload.
func ReturnList(items []string) (Outcome, error) {
	w := wire.NewWriter(4 + 8*len(items))
	w.PutU32(uint32(len(items)))
	for _, item := range items {
		w.PutText(item)
	}
	b, err := w.Bytes()
	if err != nil {
		return Outcome{}, encodeError(err)
	}
	return Outcome{Kind: OutcomeReturn, Payload: b}, nil
}

// ReturnReadings builds the ReportInputs payload.
func ReturnReadings(readings []InputReading) (Outcome, error) {
	w := wire.NewWriter(4 + 12*len(readings))
	w.PutU32(uint32(len(readings)))
	for _, rd := range readings {
		w.PutText(rd.Input)
		w.PutU32(rd.Level)
	}
	b, err := w.Bytes()
	if err != nil {
		return Outcome{}, encodeError(err)
	}
	return Outcome{Kind: OutcomeReturn, Payload: b}, nil
}

// Text interprets a Query/Name/Version return payload.
func (o Outcome) Text() (string, error) {
	if o.Kind != OutcomeReturn {
		return "", fmt.Errorf("%w: %s", ErrOutcomeShape, o.Kind)
	}
	if !utf8.Valid(o.Payload) {
		return "", decodeError(wire.ErrInvalidText)
	}
	return string(o.Payload), nil
}

// List interprets a ListStructures/ListOutputs/ListInputs return payload.
func (o Outcome) List() ([]string, error) {
	if o.Kind != OutcomeReturn {
		return nil, fmt.Errorf("%w: %s", ErrOutcomeShape, o.Kind)
	}
	r := wire.NewReader(o.Payload)
	n, err := r.U32()
	if err != nil {
		return nil, decodeError(err)
	}
	// each entry needs at least its u16 length prefix
	if uint64(n)*2 > uint64(r.Remaining()) {
		return nil, decodeError(wire.ErrTruncated)
	}
	out := make([]string, 0, n)
	for i := uint32(0); i < n; i++ {
		s, err := r.Text()
		if err != nil {
			return nil, decodeError(err)
		}
		out = append(out, s)
	}
	if err := r.Done(); err != nil {
		return nil, decodeError(err)
	}
	return out, nil
}

// Readings interprets a ReportInputs return payload.
func (o Outcome) Readings() ([]InputReading, error) {
	if o.Kind != OutcomeReturn {
		return nil, fmt.Errorf("%w: %s", ErrOutcomeShape, o.Kind)
	}
	r := wire.NewReader(o.Payload)
	n, err := r.U32()
	if err != nil {
		return nil, decodeError(err)
	}
	if uint64(n)*6 > uint64(r.Remaining()) {
		return nil, decodeError(wire.ErrTruncated)
	}
	out := make([]InputReading, 0, n)
	for i := uint32(0); i < n; i++ {
		input, err := r.Text()
		if err != nil {
			return nil, decodeError(err)
		}
		level, err := r.U32()
		if err != nil {
			return nil, decodeError(err)
		}
		out = append(out, InputReading{Input: input, Level: level})
	}
	if err := r.Done(); err != nil {
		return nil, decodeError(err)
	}
	return out, nil
}
