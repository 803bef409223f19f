package format

import (
	"fmt"
	"io"

	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

// stateFile is the root compound of the block state resource.
type stateFile struct {
	Palette []stateRecord `nbt:"Palette"`
}

// stateRecord is a single element of the Palette list.
type stateRecord struct {
	Block blockRecord `nbt:"block"`
	Meta  int16       `nbt:"meta"`
}

type blockRecord struct {
	Name   string         `nbt:"name"`
	States map[string]any `nbt:"states"`
}

// ReadStates decodes a big-endian NBT block state resource and resolves the
// legacy id of every entry using ids. The states are returned in resource order.
// Any structural problem or unresolved name is returned as an error; a partial
// palette is never returned.
func ReadStates(r io.Reader, ids map[string]uint32) ([]State, error) {
	var f stateFile
	if err := nbt.NewDecoderWithEncoding(r, nbt.BigEndian).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: decode root compound: %w", ErrMalformed, err)
	}
	if len(f.Palette) == 0 {
		return nil, fmt.Errorf("%w: empty Palette list", ErrMalformed)
	}

	states := make([]State, 0, len(f.Palette))
	for i, rec := range f.Palette {
		if rec.Block.Name == "" {
			return nil, fmt.Errorf("%w: palette entry %d has no block name", ErrMalformed, i)
		}
		id, ok := ids[rec.Block.Name]
		if !ok {
			return nil, fmt.Errorf("palette entry %d: %w: %s", i, ErrUnknownBlock, rec.Block.Name)
		}
		props := rec.Block.States
		if props == nil {
			props = map[string]any{}
		}
		states = append(states, State{
			Name:       rec.Block.Name,
			Properties: props,
			Meta:       uint16(rec.Meta),
			LegacyID:   id,
		})
	}
	return states, nil
}

// WriteStates encodes states as a big-endian NBT block state resource that
// ReadStates accepts. Legacy ids are not part of the resource.
func WriteStates(w io.Writer, states []State) error {
	f := stateFile{Palette: make([]stateRecord, len(states))}
	for i, s := range states {
		props := s.Properties
		if props == nil {
			props = map[string]any{}
		}
		f.Palette[i] = stateRecord{
			Block: blockRecord{Name: s.Name, States: props},
			Meta:  int16(s.Meta),
		}
	}
	if err := nbt.NewEncoderWithEncoding(w, nbt.BigEndian).Encode(f); err != nil {
		return fmt.Errorf("encode block states: %w", err)
	}
	return nil
}
