package blockmap

import (
	"bytes"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

// ExportEntry is a single element of the block palette sent to clients.
type ExportEntry struct {
	Block ExportBlock `nbt:"block"`
	ID    int16       `nbt:"id"`
}

// ExportBlock holds the name and states of an exported palette entry.
type ExportBlock struct {
	Name   string         `nbt:"name"`
	States map[string]any `nbt:"states"`
}

// Export returns the palette in runtime id order: the entry at index k
// describes runtime id k.
func (t *Table) Export() []ExportEntry {
	entries := make([]ExportEntry, len(t.states))
	for i, s := range t.states {
		entries[i] = ExportEntry{
			Block: ExportBlock{Name: s.Name, States: s.Properties},
			ID:    int16(s.LegacyID),
		}
	}
	return entries
}

// MarshalPalette returns the exported palette encoded as a network little
// endian NBT list. The encoding is computed once, so every call returns the
// same bytes.
func (t *Table) MarshalPalette() ([]byte, error) {
	t.exportOnce.Do(func() {
		buf := new(bytes.Buffer)
		if err := nbt.NewEncoderWithEncoding(buf, nbt.NetworkLittleEndian).Encode(t.Export()); err != nil {
			t.exportErr = fmt.Errorf("encode block palette: %w", err)
			return
		}
		t.exported = buf.Bytes()
	})
	if t.exportErr != nil {
		return nil, t.exportErr
	}
	return bytes.Clone(t.exported), nil
}

// Checksum returns the xxhash of the marshalled palette. Two tables with the
// same checksum assign the same runtime ids.
func (t *Table) Checksum() (uint64, error) {
	data, err := t.MarshalPalette()
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}
