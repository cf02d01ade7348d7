package protocol

import (
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/animus/internal/protocol/wire"
)

// MaxMessageSize bounds stream reads; it covers the largest UDP payload.
const MaxMessageSize = 64 * 1024

var ErrMessageTooLarge = errors.New("protocol: message too large")

// Codec encodes envelopes at a fixed revision. The zero value uses CurrentRevision.
// Decoding needs no Codec: the revision is read from the header.
type Codec struct {
	Revision *Revision
}

func (c Codec) revision() *Revision {
	if c.Revision == nil {
		return CurrentRevision
	}
	return c.Revision
}

func (c Codec) EncodeCommand(cmd Command) ([]byte, error) {
	rev := c.revision()
	w := wire.NewWriter(wire.HeaderSize + 2 + len(cmd.Name) + 1)
	w.PutHeader(wire.Header{Revision: rev.Number, Kind: wire.KindCommand})
	w.PutText(cmd.Name)
	if err := writeAction(w, rev, cmd.Action); err != nil {
		return nil, encodeError(err)
	}
	b, err := w.Bytes()
	if err != nil {
		return nil, encodeError(err)
	}
	return b, nil
}

func (c Codec) EncodeReport(r Report) ([]byte, error) {
	rev := c.revision()
	w := wire.NewWriter(wire.HeaderSize + 2 + len(r.Name) + 2 + 4 + len(r.Outcome.Payload))
	w.PutHeader(wire.Header{Revision: rev.Number, Kind: wire.KindReport})
	w.PutText(r.Name)
	if err := writeAction(w, rev, r.Action); err != nil {
		return nil, encodeError(err)
	}
	if err := writeOutcome(w, r.Outcome); err != nil {
		return nil, encodeError(err)
	}
	b, err := w.Bytes()
	if err != nil {
		return nil, encodeError(err)
	}
	return b, nil
}

func readRevision(r *wire.Reader, kind uint8) (*Revision, error) {
	h, err := r.ReadHeader(kind)
	if err != nil {
		return nil, err
	}
	rev, ok := LookupRevision(h.Revision)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRevision, h.Revision)
	}
	return rev, nil
}

// ParseCommand decodes one Command and reports the revision it was encoded at.
func ParseCommand(b []byte) (Command, *Revision, error) {
	r := wire.NewReader(b)
	rev, err := readRevision(r, wire.KindCommand)
	if err != nil {
		return Command{}, nil, decodeError(err)
	}
	name, err := r.Text()
	if err != nil {
		return Command{}, nil, decodeError(err)
	}
	action, err := readAction(r, rev)
	if err != nil {
		return Command{}, nil, decodeError(err)
	}
	if err := r.Done(); err != nil {
		return Command{}, nil, decodeError(err)
	}
	return Command{Name: name, Action: action}, rev, nil
}

// ParseReport decodes one Report and reports the revision it was encoded at.
func ParseReport(b []byte) (Report, *Revision, error) {
	r := wire.NewReader(b)
	rev, err := readRevision(r, wire.KindReport)
	if err != nil {
		return Report{}, nil, decodeError(err)
	}
	name, err := r.Text()
	if err != nil {
		return Report{}, nil, decodeError(err)
	}
	action, err := readAction(r, rev)
	if err != nil {
		return Report{}, nil, decodeError(err)
	}
	outcome, err := readOutcome(r)
	if err != nil {
		return Report{}, nil, decodeError(err)
	}
	if err := r.Done(); err != nil {
		return Report{}, nil, decodeError(err)
	}
	return Report{Name: name, Action: action, Outcome: outcome}, rev, nil
}

func readMessage(src io.Reader) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(src, MaxMessageSize+1))
	if err != nil {
		return nil, IoError(err)
	}
	if len(b) > MaxMessageSize {
		return nil, decodeError(ErrMessageTooLarge)
	}
	return b, nil
}

func writeMessage(dst io.Writer, b []byte) (int64, error) {
	n, err := dst.Write(b)
	if err != nil {
		return int64(n), IoError(err)
	}
	return int64(n), nil
}
