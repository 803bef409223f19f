package blockmap

import (
	"fmt"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// UpdateBlock returns an UpdateBlock packet that sets the block at pos to the
// legacy block id and meta passed. Unknown blocks are sent as the fallback
// resolved by RuntimeID.
func (t *Table) UpdateBlock(pos cube.Pos, id uint32, meta uint16) *packet.UpdateBlock {
	return &packet.UpdateBlock{
		Position:          protocol.BlockPos{int32(pos.X()), int32(pos.Y()), int32(pos.Z())},
		NewBlockRuntimeID: t.RuntimeID(id, meta),
		Flags:             packet.BlockUpdateNetwork,
		Layer:             0,
	}
}

// DecodeUpdateBlock returns the position and legacy block of an UpdateBlock
// packet. Runtime ids outside of the table result in ErrUnknownRuntimeID.
func (t *Table) DecodeUpdateBlock(pk *packet.UpdateBlock) (pos cube.Pos, id uint32, meta uint16, err error) {
	pos = cube.Pos{int(pk.Position.X()), int(pk.Position.Y()), int(pk.Position.Z())}
	id, meta, ok := t.Legacy(pk.NewBlockRuntimeID)
	if !ok {
		return pos, 0, 0, fmt.Errorf("%w: %d at %v", ErrUnknownRuntimeID, pk.NewBlockRuntimeID, pos)
	}
	return pos, id, meta, nil
}
