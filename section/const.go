package section

const (
	// Magic is the identifier at the start of every uncompressed file.
	Magic = "BLENDER"

	PointerMarker32 = '_' // PointerMarker32 marks a file written with 4-byte pointers.
	PointerMarker64 = '-' // PointerMarker64 marks a file written with 8-byte pointers.

	// Tags inside the DNA1 block payload.
	TagSDNA = "SDNA"
	TagNAME = "NAME"
	TagTYPE = "TYPE"
	TagTLEN = "TLEN"
	TagSTRC = "STRC"
)

// offset and section sizes in the file
const (
	HeaderSize          = 12 // fixed file header size in bytes
	VersionDigits       = 3  // ASCII digits after the endianness marker
	BlockHeaderFixed    = 16 // code, size, sdna index and count; the address adds pointer width
	BlockHeaderSize32   = BlockHeaderFixed + 4
	BlockHeaderSize64   = BlockHeaderFixed + 8
	DNAAlignment        = 4 // table alignment inside the DNA1 payload
	FirstBlockOffset    = HeaderSize
	TreeStoreOffHeapMin = 276 // first version that stores TreeStoreElem off heap
)

// BlockHeaderSize returns the size of one block header for the given pointer width.
func BlockHeaderSize(pointerSize int) int {
	return BlockHeaderFixed + pointerSize
}
