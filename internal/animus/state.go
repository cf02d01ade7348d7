package animus

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/animus/internal/tract"
)

// NetworkState is the persisted shape of a node's network, stored as TOML.
type NetworkState struct {
	Name       string           `toml:"name"`
	Complex    string           `toml:"complex"`
	Awake      bool             `toml:"awake"`
	Structures []string         `toml:"structures"`
	Outputs    []string         `toml:"outputs"`
	Inputs     []InputState     `toml:"inputs"`
	Tracts     []tract.Receiver `toml:"tracts"`
}

// InputState is one input and its last observed level.
type InputState struct {
	Name  string `toml:"name"`
	Level uint32 `toml:"level"`
}

func (s NetworkState) clone() NetworkState {
	out := s
	out.Structures = slices.Clone(s.Structures)
	out.Outputs = slices.Clone(s.Outputs)
	out.Inputs = slices.Clone(s.Inputs)
	out.Tracts = slices.Clone(s.Tracts)
	return out
}

// LoadState reads a save file.
func LoadState(path string) (NetworkState, error) {
	var state NetworkState
	if _, err := toml.DecodeFile(path, &state); err != nil {
		return NetworkState{}, fmt.Errorf("load network state: %w", err)
	}
	return state, nil
}

// WriteState replaces the save file at path with state.
func WriteState(path string, state NetworkState) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write network state: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(state); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write network state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write network state: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write network state: %w", err)
	}
	return nil
}
