// Package section defines the low-level binary structures and constants of the .blend file
// format.
//
// This package handles parsing of the fixed-size file header and the block header stream,
// and the serialization of both for building test files. It does not interpret block
// payloads; that is the job of the sdna and view packages.
//
// # File Structure
//
// A .blend file is a 12-byte header followed by a stream of blocks:
//
//	┌─────────────────────────────────────────────────────────┐
//	│ File Header (12 bytes, fixed)                           │
//	│  - "BLENDER"                                            │
//	│  - pointer width marker ('_' = 4, '-' = 8)              │
//	│  - endianness marker ('v' = little, 'V' = big)          │
//	│  - version, 3 ASCII digits                              │
//	├─────────────────────────────────────────────────────────┤
//	│ Block Header (16 + pointer width bytes)                 │
//	│ Block Payload (Size bytes)                              │
//	├─────────────────────────────────────────────────────────┤
//	│ ... more blocks ...                                     │
//	├─────────────────────────────────────────────────────────┤
//	│ DNA1 block: schema catalog                              │
//	├─────────────────────────────────────────────────────────┤
//	│ ENDB block: end of stream                               │
//	└─────────────────────────────────────────────────────────┘
//
// # Block Header Format
//
//	Bytes      | Field       | Type          | Description
//	-----------|-------------|---------------|----------------------------------
//	0-3        | Code        | [4]byte       | Block kind ("ME", "OB", "DATA", "DNA1")
//	4-7        | Size        | int32         | Payload size in bytes
//	8-(8+P)    | Address     | pointer width | Memory address at save time
//	(8+P)-     | StructIndex | int32         | Index into the SDNA struct table
//	(12+P)-    | Count       | int32         | Number of struct instances in the payload
//
// P is the pointer width recorded in the file header. All multi-byte values use the byte
// order recorded in the file header.
//
// # DNA1 Payload
//
// The schema catalog is a sequence of tagged tables. Each table starts at a 4-byte boundary
// relative to the start of the payload:
//
//	"SDNA"
//	"NAME" int32 count, count zero-terminated field names
//	"TYPE" int32 count, count zero-terminated type names
//	"TLEN" count uint16 type sizes
//	"STRC" int32 count, per struct: uint16 type, uint16 nfields, nfields × (uint16 type, uint16 name)
package section
