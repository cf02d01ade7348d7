package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrIo     = errors.New("protocol: io operation failed")
	ErrDecode = errors.New("protocol: failed to decode message")
	ErrEncode = errors.New("protocol: failed to encode message")
)

// Kind classifies a protocol error for callers that branch on failure class.
type Kind uint8

const (
	KindNone Kind = iota
	KindIo
	KindDecode
	KindEncode
)

func (k Kind) String() string {
	switch k {
	case KindIo:
		return "io"
	case KindDecode:
		return "decode"
	case KindEncode:
		return "encode"
	default:
		return "none"
	}
}

// KindOf reports which class err belongs to. Unclassified errors report KindNone.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrIo):
		return KindIo
	case errors.Is(err, ErrDecode):
		return KindDecode
	case errors.Is(err, ErrEncode):
		return KindEncode
	default:
		return KindNone
	}
}

// IoError classifies a transport or byte-source failure as ErrIo, keeping cause.
func IoError(cause error) error {
	return fmt.Errorf("%w: %w", ErrIo, cause)
}

func decodeError(cause error) error {
	return fmt.Errorf("%w: %w", ErrDecode, cause)
}

func encodeError(cause error) error {
	return fmt.Errorf("%w: %w", ErrEncode, cause)
}
