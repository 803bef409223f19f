package format

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/segmentio/fasthash/fnv1a"
)

const (
	// MagicNumber is the exported table file identifier "BTBL".
	MagicNumber = 0x4254424C

	// CurrentVersion is the latest supported table file version.
	CurrentVersion = 1

	// Compression types
	CompressionNone = 0
	CompressionZstd = 1

	// MaxLegacyID is the largest legacy block id that fits the signed short of
	// the exported palette.
	MaxLegacyID = math.MaxInt16
	// MaxLegacyMeta is the largest meta value addressable by a legacy key.
	MaxLegacyMeta = 0xF
)

var (
	// ErrMalformed is returned when a resource does not have the expected structure.
	ErrMalformed = errors.New("malformed block state resource")
	// ErrUnknownBlock is returned when a palette entry names a block absent from the id table.
	ErrUnknownBlock = errors.New("block name has no legacy id")
)

// State is a single entry of the block state palette.
type State struct {
	// Name is the namespaced block identifier, e.g. "minecraft:stone".
	Name string
	// Properties holds the block specific states compound. It is carried as-is
	// and never interpreted.
	Properties map[string]any
	// Meta is the legacy data value. Only values up to MaxLegacyMeta take part
	// in legacy lookups.
	Meta uint16
	// LegacyID is the numeric block id resolved from the name table.
	LegacyID uint32
}

// Registrable reports whether the state can be addressed by a legacy id and meta pair.
func (s State) Registrable() bool {
	return s.Meta <= MaxLegacyMeta
}

// Hash returns the FNV-1a hash of the state's canonical form. Property keys are
// sorted so the hash does not depend on map iteration order.
func (s State) Hash() uint32 {
	keys := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteByte('|')
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fmt.Sprintf("%v", s.Properties[k]))
		b.WriteByte('|')
	}
	return fnv1a.HashString32(b.String())
}

// String returns the state's name followed by its legacy id and meta.
func (s State) String() string {
	return fmt.Sprintf("%s(id=%d, meta=%d)", s.Name, s.LegacyID, s.Meta)
}
