package blockmap

import (
	"errors"
	"fmt"
	"sync"

	"github.com/brentp/intintmap"
	"github.com/oriumgames/blockmap/format"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNoPlaceholder is returned when the placeholder block is not registered in a palette.
	ErrNoPlaceholder = errors.New("placeholder block not registered")
	// ErrUnknownRuntimeID is returned when a runtime id does not map back to a legacy block.
	ErrUnknownRuntimeID = errors.New("unknown runtime id")
)

// LegacyKey packs a legacy block id and a meta value into one integer.
type LegacyKey int64

// Key returns the legacy key of id and meta. Only the lower four bits of meta are used.
func Key(id uint32, meta uint8) LegacyKey {
	return LegacyKey(int64(id)<<4 | int64(meta&format.MaxLegacyMeta))
}

// ID returns the legacy block id of the key.
func (k LegacyKey) ID() uint32 {
	return uint32(k >> 4)
}

// Meta returns the meta value of the key.
func (k LegacyKey) Meta() uint8 {
	return uint8(k & format.MaxLegacyMeta)
}

// Table maps legacy block ids and meta values to runtime ids and back.
// The position of a state in the palette is its runtime id. A Table is
// immutable once built and safe for concurrent use.
type Table struct {
	states []format.State

	toRuntime *intintmap.Map

	registered  int
	placeholder uint32
	seed        uint64

	exportOnce sync.Once
	exported   []byte
	exportErr  error
}

// NewTable builds a Table from states in their resource order. The states are
// copied and permuted using conf.Seed before runtime ids are assigned; states
// itself is left unchanged.
func NewTable(states []format.State, conf Config) (*Table, error) {
	conf = conf.withDefaults()
	if len(states) == 0 {
		return nil, fmt.Errorf("%w: no block states", format.ErrMalformed)
	}

	for _, s := range states {
		if s.LegacyID > format.MaxLegacyID {
			return nil, fmt.Errorf("%w: legacy id %d of %s out of range", format.ErrMalformed, s.LegacyID, s.Name)
		}
	}

	t := &Table{
		states:    make([]format.State, len(states)),
		toRuntime: intintmap.New(len(states), 0.6),
		seed:      conf.Seed(),
	}
	copy(t.states, states)
	shuffle(t.states, t.seed)

	for rid, s := range t.states {
		if !s.Registrable() {
			// Not addressable with four bits of meta, but still sent to clients.
			continue
		}
		t.toRuntime.Put(int64(Key(s.LegacyID, uint8(s.Meta))), int64(rid))
		t.registered++
	}

	rid, ok := t.toRuntime.Get(int64(Key(conf.Placeholder, 0)))
	if !ok {
		return nil, fmt.Errorf("%w: legacy id %d", ErrNoPlaceholder, conf.Placeholder)
	}
	t.placeholder = uint32(rid)

	conf.Log.WithFields(logrus.Fields{
		"states":      len(t.states),
		"registered":  t.registered,
		"placeholder": t.placeholder,
		"seed":        t.seed,
	}).Debug("block runtime id table built")
	return t, nil
}

// RuntimeID returns the runtime id of the legacy block id and meta. If the pair
// is not registered, the runtime id of id with meta 0 is returned, and if that
// is not registered either, the runtime id of the placeholder block. RuntimeID
// never fails.
func (t *Table) RuntimeID(id uint32, meta uint16) uint32 {
	if meta <= format.MaxLegacyMeta {
		if rid, ok := t.toRuntime.Get(int64(Key(id, uint8(meta)))); ok {
			return uint32(rid)
		}
	}
	if rid, ok := t.toRuntime.Get(int64(Key(id, 0))); ok {
		return uint32(rid)
	}
	return t.placeholder
}

// Legacy returns the legacy block id and meta of a runtime id. Every runtime
// id of the table resolves, including states with a meta above
// format.MaxLegacyMeta that RuntimeID never returns. ok is false only if rid
// is out of range. Unlike RuntimeID, Legacy never falls back: a runtime id
// should only ever come from this table, so a miss means the caller and the
// table disagree.
func (t *Table) Legacy(rid uint32) (id uint32, meta uint16, ok bool) {
	s, ok := t.State(rid)
	if !ok {
		return 0, 0, false
	}
	return s.LegacyID, s.Meta, true
}

// State returns the palette entry with the runtime id passed.
func (t *Table) State(rid uint32) (format.State, bool) {
	if int64(rid) >= int64(len(t.states)) {
		return format.State{}, false
	}
	return t.states[rid], true
}

// Len returns the number of states in the palette, which is one more than the
// largest runtime id.
func (t *Table) Len() int {
	return len(t.states)
}

// Registered returns the number of states reachable through a legacy lookup.
func (t *Table) Registered() int {
	return t.registered
}

// Placeholder returns the runtime id of the placeholder block.
func (t *Table) Placeholder() uint32 {
	return t.placeholder
}

// Seed returns the seed the palette was permuted with.
func (t *Table) Seed() uint64 {
	return t.seed
}

// NetworkHash returns the hashed network id of the state with the runtime id passed.
func (t *Table) NetworkHash(rid uint32) (uint32, bool) {
	s, ok := t.State(rid)
	if !ok {
		return 0, false
	}
	return s.Hash(), true
}
