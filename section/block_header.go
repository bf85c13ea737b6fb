package section

import (
	"fmt"

	"github.com/arloliu/blend/endian"
	"github.com/arloliu/blend/errs"
	"github.com/arloliu/blend/format"
)

// BlockHeader represents the header in front of every block payload.
//
// The on-disk layout is code[4], size int32, address (pointer width), sdna index int32
// and count int32; Offset is not stored, it is the file position of the payload.
type BlockHeader struct {
	Code        format.BlockCode
	Size        int
	Address     uint64
	StructIndex int
	Count       int
	Offset      int
}

// End returns the file position just past the payload.
func (h BlockHeader) End() int { return h.Offset + h.Size }

// ParseBlockHeader parses the block header that starts at pos.
//
// Returns:
//   - BlockHeader: parsed header with Offset set to the payload position
//   - error: ErrTruncatedBlock if the header or its payload does not fit in the buffer
func ParseBlockHeader(r endian.Reader, pos int) (BlockHeader, error) {
	ps := r.PointerSize()
	size := BlockHeaderSize(ps)
	if !r.InBounds(pos, size) {
		return BlockHeader{}, fmt.Errorf("%w: header at offset %d", errs.ErrTruncatedBlock, pos)
	}

	var h BlockHeader
	copy(h.Code[:], r.Slice(pos, 4))
	h.Size = int(r.I32(pos + 4))
	h.Address = r.Pointer(pos + 8)
	h.StructIndex = int(r.I32(pos + 8 + ps))
	h.Count = int(r.I32(pos + 12 + ps))
	h.Offset = pos + size

	if h.Size < 0 || !r.InBounds(h.Offset, h.Size) {
		return BlockHeader{}, fmt.Errorf("%w: block %s at offset %d declares %d bytes", errs.ErrTruncatedBlock, h.Code, pos, h.Size)
	}

	return h, nil
}

// AppendBlockHeader appends the serialized header to dst. Offset is ignored.
func AppendBlockHeader(dst []byte, h BlockHeader, engine endian.EndianEngine, pointerSize int) []byte {
	dst = append(dst, h.Code[:]...)
	dst = engine.AppendUint32(dst, uint32(h.Size)) //nolint: gosec
	if pointerSize == 4 {
		dst = engine.AppendUint32(dst, uint32(h.Address)) //nolint: gosec
	} else {
		dst = engine.AppendUint64(dst, h.Address)
	}
	dst = engine.AppendUint32(dst, uint32(h.StructIndex)) //nolint: gosec
	dst = engine.AppendUint32(dst, uint32(h.Count))       //nolint: gosec

	return dst
}

// ReadBlockHeaders reads the block header stream that starts at pos, up to and excluding
// the ENDB terminator.
//
// Returns:
//   - []BlockHeader: headers in file order
//   - error: ErrTruncatedBlock for a block that runs past the buffer, ErrMissingEndBlock
//     when the buffer ends without a terminator
func ReadBlockHeaders(r endian.Reader, pos int) ([]BlockHeader, error) {
	headers := make([]BlockHeader, 0, 64)
	for {
		if !r.InBounds(pos, 4) {
			return headers, fmt.Errorf("%w: stream ends at offset %d", errs.ErrMissingEndBlock, pos)
		}
		// ENDB may be followed by fewer bytes than a full header.
		var code format.BlockCode
		copy(code[:], r.Slice(pos, 4))
		if code == format.CodeENDB {
			return headers, nil
		}

		h, err := ParseBlockHeader(r, pos)
		if err != nil {
			return headers, err
		}
		headers = append(headers, h)
		pos = h.End()
	}
}
