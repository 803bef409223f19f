package blockmap

import (
	"fmt"
	"path/filepath"

	"github.com/oriumgames/blockmap/format"
)

const (
	// StatesFileName is the name of the block state resource inside a resource directory.
	StatesFileName = "runtime_block_states.dat"
	// IDMapFileName is the name of the block name to legacy id table inside a resource directory.
	IDMapFileName = "block_id_map.json"
)

// Load reads the block id map and the block state resource from dir and
// builds a Table from them. Either file may be zstd compressed.
func Load(dir string, conf Config) (*Table, error) {
	ids, err := readIDMap(filepath.Join(dir, IDMapFileName))
	if err != nil {
		return nil, err
	}
	states, err := readStates(filepath.Join(dir, StatesFileName), ids)
	if err != nil {
		return nil, err
	}
	t, err := NewTable(states, conf)
	if err != nil {
		return nil, fmt.Errorf("build table from %s: %w", dir, err)
	}
	return t, nil
}

// LoadLazy returns a Lazy that calls Load on first use.
func LoadLazy(dir string, conf Config) *Lazy {
	return NewLazy(func() (*Table, error) {
		return Load(dir, conf)
	})
}

func readIDMap(path string) (map[string]uint32, error) {
	f, err := format.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ids, err := format.ReadIDMap(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ids, nil
}

func readStates(path string, ids map[string]uint32) ([]format.State, error) {
	f, err := format.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	states, err := format.ReadStates(f, ids)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return states, nil
}
