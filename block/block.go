// Package block indexes the blocks of a .blend file by the memory address they had when
// the file was written, and by their position in the file.
//
// Pointers stored in a block payload are addresses from the writing process. The file
// has no directory mapping them to file positions, so Build sorts all blocks by address
// and ResolveAddress finds the block containing an address by binary search.
//
// Some struct kinds are written from an allocator of their own, and their addresses may
// overlap the main heap. Blocks of these kinds are kept in separate off-heap tables
// (see WithOffHeap) and resolved only for pointers declared with that struct type.
package block

import (
	"fmt"
	"math"

	"github.com/arloliu/blend/format"
	"github.com/arloliu/blend/section"
)

// Block is one block of the file. Its payload occupies [Offset, Offset+Size) in the file
// and represented the memory range [Address, Address+Size) at save time.
type Block struct {
	Code        format.BlockCode
	Address     uint64
	Size        int
	StructIndex int
	Count       int
	Offset      int
}

// FromHeader converts a parsed block header.
func FromHeader(h section.BlockHeader) Block {
	return Block{
		Code:        h.Code,
		Address:     h.Address,
		Size:        h.Size,
		StructIndex: h.StructIndex,
		Count:       h.Count,
		Offset:      h.Offset,
	}
}

// End returns the first address past the block, saturated at the top of the address
// space.
func (b *Block) End() uint64 {
	if b.overflows() {
		return math.MaxUint64
	}

	return b.Address + uint64(b.Size) //nolint: gosec
}

// overflows reports whether [Address, Address+Size) does not fit in 64 bits.
func (b *Block) overflows() bool {
	return b.Size < 0 || b.Address > math.MaxUint64-uint64(b.Size) //nolint: gosec
}

// Contains reports whether addr lies inside the block. The start address of an empty
// block counts as inside.
func (b *Block) Contains(addr uint64) bool {
	return addr == b.Address || (addr > b.Address && addr < b.End())
}

// ContainsOffset reports whether the file position lies inside the payload.
func (b *Block) ContainsOffset(pos int) bool {
	return pos >= b.Offset && pos < b.Offset+b.Size
}

// PositionOf converts an address inside the block to a file position.
func (b *Block) PositionOf(addr uint64) int {
	return b.Offset + int(addr-b.Address) //nolint: gosec
}

// AddressOf converts a file position inside the block to an address.
func (b *Block) AddressOf(pos int) uint64 {
	return b.Address + uint64(pos-b.Offset) //nolint: gosec
}

// Payload returns the block bytes of data, the whole file image.
func (b *Block) Payload(data []byte) []byte {
	end := b.Offset + b.Size
	if b.Offset < 0 || end > len(data) {
		return nil
	}

	return data[b.Offset:end]
}

func (b *Block) String() string {
	return fmt.Sprintf("%s@0x%x+%d", b.Code, b.Address, b.Size)
}
