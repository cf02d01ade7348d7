package protocol

import "io"

// Command is the request envelope: the targeted animus and the action to run.
type Command struct {
	Name   string
	Action Action
}

func NewCommand(name string, action Action) Command {
	return Command{Name: name, Action: action}
}

// Ignore returns the no-op sentinel that non-protocol input decodes to.
func Ignore() Command {
	return Command{Name: "", Action: IgnoreAction}
}

func (c Command) IsIgnore() bool {
	return c.Action.Kind == ActionIgnore
}

// Encode serializes c at the current revision.
func (c Command) Encode() ([]byte, error) {
	return Codec{}.EncodeCommand(c)
}

// DecodeCommand deserializes a Command at whichever revision its header names.
func DecodeCommand(b []byte) (Command, error) {
	cmd, _, err := ParseCommand(b)
	return cmd, err
}

// WriteTo encodes c and writes it as a single message.
func (c Command) WriteTo(w io.Writer) (int64, error) {
	b, err := c.Encode()
	if err != nil {
		return 0, err
	}
	return writeMessage(w, b)
}

// ReadCommand reads src to EOF and decodes the bytes as one Command.
func ReadCommand(src io.Reader) (Command, error) {
	b, err := readMessage(src)
	if err != nil {
		return Command{}, err
	}
	return DecodeCommand(b)
}

func (c Command) String() string {
	return c.Name + " " + c.Action.String()
}
