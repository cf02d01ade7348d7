// Package tract describes signal-routing endpoints passed between animi.
package tract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/animus/internal/protocol/wire"
)

var ErrInvalidReceiver = errors.New("tract: invalid receiver")

// Receiver describes the input end of a tract. The sending animus connects
// its output named Tract to Input on the animus Animus reachable at Address.
type Receiver struct {
	Tract   string `toml:"tract"`
	Animus  string `toml:"animus"`
	Address string `toml:"address"`
	Input   string `toml:"input"`
}

func (r Receiver) Validate() error {
	if strings.TrimSpace(r.Tract) == "" {
		return fmt.Errorf("%w: missing tract", ErrInvalidReceiver)
	}
	if strings.TrimSpace(r.Address) == "" {
		return fmt.Errorf("%w: missing address", ErrInvalidReceiver)
	}
	if strings.TrimSpace(r.Input) == "" {
		return fmt.Errorf("%w: missing input", ErrInvalidReceiver)
	}
	return nil
}

func (r Receiver) String() string {
	return fmt.Sprintf("%s -> %s@%s/%s", r.Tract, r.Animus, r.Address, r.Input)
}

// MarshalWire writes the receiver fields in declaration order.
func (r Receiver) MarshalWire(w *wire.Writer) {
	w.PutText(r.Tract)
	w.PutText(r.Animus)
	w.PutText(r.Address)
	w.PutText(r.Input)
}

// UnmarshalWire reads a receiver written by MarshalWire.
func UnmarshalWire(r *wire.Reader) (Receiver, error) {
	var out Receiver
	var err error
	if out.Tract, err = r.Text(); err != nil {
		return Receiver{}, err
	}
	if out.Animus, err = r.Text(); err != nil {
		return Receiver{}, err
	}
	if out.Address, err = r.Text(); err != nil {
		return Receiver{}, err
	}
	if out.Input, err = r.Text(); err != nil {
		return Receiver{}, err
	}
	return out, nil
}
