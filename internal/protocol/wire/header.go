package wire

import (
	"encoding/binary"
	"errors"
)

const (
	Magic      uint32 = 0x414E4D53 // "ANMS"
	HeaderSize        = 4 + 2 + 1
)

// Message kinds carried in the header.
const (
	KindCommand uint8 = 1
	KindReport  uint8 = 2
)

var (
	ErrInvalidMagic = errors.New("wire: invalid magic")
	ErrKindMismatch = errors.New("wire: message kind mismatch")
)

// Header is the fixed envelope header in front of every Command and Report.
type Header struct {
	Magic    uint32
	Revision uint16
	Kind     uint8
}

// PutHeader writes h with the canonical magic.
func (w *Writer) PutHeader(h Header) {
	w.PutU32(Magic)
	w.PutU16(h.Revision)
	w.PutU8(h.Kind)
}

// ReadHeader reads the envelope header and checks magic and message kind.
func (r *Reader) ReadHeader(want uint8) (Header, error) {
	b, err := r.take(HeaderSize)
	if err != nil {
		return Header{}, err
	}
	h := Header{
		Magic:    binary.BigEndian.Uint32(b[0:4]),
		Revision: binary.BigEndian.Uint16(b[4:6]),
		Kind:     b[6],
	}
	if h.Magic != Magic {
		return Header{}, ErrInvalidMagic
	}
	if h.Kind != want {
		return Header{}, ErrKindMismatch
	}
	return h, nil
}
