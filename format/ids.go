package format

import (
	"fmt"
	"io"

	"github.com/df-mc/jsonc"
)

// ReadIDMap decodes a JSON object mapping block names to legacy block ids.
// Comments are allowed in the document.
func ReadIDMap(r io.Reader) (map[string]uint32, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read id map: %w", err)
	}

	var raw map[string]int64
	if err := jsonc.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode id map: %w", ErrMalformed, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty id map", ErrMalformed)
	}

	ids := make(map[string]uint32, len(raw))
	for name, id := range raw {
		if id < 0 || id > MaxLegacyID {
			return nil, fmt.Errorf("%w: legacy id %d of %s out of range", ErrMalformed, id, name)
		}
		ids[name] = uint32(id)
	}
	return ids, nil
}
