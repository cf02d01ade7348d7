// Package wire owns the big-endian primitives shared by every animus message.
//
// Layout rules:
// - integers are fixed width, big-endian
// - text is a u16 length followed by UTF-8 bytes
// - nested payloads are a u32 length followed by bytes encoded with these same rules
package wire

import (
	"encoding/binary"
	"errors"
	"math"
	"unicode/utf8"
)

var (
	ErrTruncated     = errors.New("wire: truncated data")
	ErrInvalidText   = errors.New("wire: text is not valid utf-8")
	ErrTextTooLong   = errors.New("wire: text exceeds u16 length")
	ErrBytesTooLong  = errors.New("wire: payload exceeds u32 length")
	ErrTrailingBytes = errors.New("wire: trailing bytes after message")
)

// Writer appends big-endian fields to a growing buffer.
// The first failing Put is sticky: later calls are no-ops and Err reports it.
type Writer struct {
	buf []byte
	err error
}

func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

func (w *Writer) PutU8(v uint8) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, v)
}

func (w *Writer) PutU16(v uint16) {
	if w.err != nil {
		return
	}
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

func (w *Writer) PutU32(v uint32) {
	if w.err != nil {
		return
	}
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

// PutText writes a u16 length prefix and the raw UTF-8 bytes of s.
func (w *Writer) PutText(s string) {
	if w.err != nil {
		return
	}
	if len(s) > math.MaxUint16 {
		w.err = ErrTextTooLong
		return
	}
	if !utf8.ValidString(s) {
		w.err = ErrInvalidText
		return
	}
	w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(len(s)))
	w.buf = append(w.buf, s...)
}

// PutBytes writes a u32 length prefix followed by b.
func (w *Writer) PutBytes(b []byte) {
	if w.err != nil {
		return
	}
	if uint64(len(b)) > math.MaxUint32 {
		w.err = ErrBytesTooLong
		return
	}
	w.buf = binary.BigEndian.AppendUint32(w.buf, uint32(len(b)))
	w.buf = append(w.buf, b...)
}

// PutNested encodes a nested structure with fn and writes it as a u32-prefixed payload.
func (w *Writer) PutNested(fn func(*Writer)) {
	if w.err != nil {
		return
	}
	inner := NewWriter(32)
	fn(inner)
	if inner.err != nil {
		w.err = inner.err
		return
	}
	w.PutBytes(inner.buf)
}

func (w *Writer) Err() error {
	return w.err
}

// Bytes returns the encoded buffer, or the first error hit while writing.
func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}

// Reader is a cursor over one encoded message.
type Reader struct {
	buf []byte
	off int
}

func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, ErrTruncated
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) U8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) U16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *Reader) U32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Text reads a u16-prefixed UTF-8 string.
func (r *Reader) Text() (string, error) {
	n, err := r.U16()
	if err != nil {
		return "", err
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidText
	}
	return string(b), nil
}

// Bytes reads a u32-prefixed payload and returns an owned copy.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.U32()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(r.Remaining()) {
		return nil, ErrTruncated
	}
	b, err := r.take(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// Nested reads a u32-prefixed payload and decodes it with fn.
// fn must consume the nested payload exactly.
func (r *Reader) Nested(fn func(*Reader) error) error {
	b, err := r.Bytes()
	if err != nil {
		return err
	}
	inner := NewReader(b)
	if err := fn(inner); err != nil {
		return err
	}
	return inner.Done()
}

// Done reports ErrTrailingBytes when unread bytes remain.
func (r *Reader) Done() error {
	if r.Remaining() != 0 {
		return ErrTrailingBytes
	}
	return nil
}
