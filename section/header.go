package section

import (
	"fmt"

	"github.com/arloliu/blend/endian"
	"github.com/arloliu/blend/errs"
)

// FileHeader represents the fixed 12-byte header at the start of a .blend file.
type FileHeader struct {
	// PointerSize is the pointer width of the writing process, 4 or 8 bytes.
	PointerSize int // byte offset 7
	// Engine is the byte order of every multi-byte value in the file.
	Engine endian.EndianEngine // byte offset 8
	// Version is the writer version, e.g. 280 for 2.80.
	Version int // byte offset 9-11
}

// NewFileHeader creates a header for a file written with the given pointer width, byte
// order and version.
func NewFileHeader(pointerSize int, engine endian.EndianEngine, version int) *FileHeader {
	return &FileHeader{PointerSize: pointerSize, Engine: engine, Version: version}
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (at least 12 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize, ErrInvalidMagic, ErrInvalidPointerSize,
//     ErrInvalidEndianness or ErrInvalidVersion
func (h *FileHeader) Parse(data []byte) error {
	if len(data) < HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	if string(data[:len(Magic)]) != Magic {
		return fmt.Errorf("%w: got %q", errs.ErrInvalidMagic, data[:len(Magic)])
	}

	switch data[7] {
	case PointerMarker32:
		h.PointerSize = 4
	case PointerMarker64:
		h.PointerSize = 8
	default:
		return fmt.Errorf("%w: marker %q", errs.ErrInvalidPointerSize, data[7])
	}

	engine, err := endian.FromMarker(data[8])
	if err != nil {
		return err
	}
	h.Engine = engine

	version := 0
	for _, c := range data[9:HeaderSize] {
		if c < '0' || c > '9' {
			return fmt.Errorf("%w: %q", errs.ErrInvalidVersion, data[9:HeaderSize])
		}
		version = version*10 + int(c-'0')
	}
	h.Version = version

	return nil
}

// Bytes serializes the FileHeader into a byte slice.
func (h *FileHeader) Bytes() []byte {
	b := make([]byte, 0, HeaderSize)
	b = append(b, Magic...)
	if h.PointerSize == 4 {
		b = append(b, PointerMarker32)
	} else {
		b = append(b, PointerMarker64)
	}
	b = append(b, endian.Marker(h.Engine))
	b = fmt.Appendf(b, "%03d", h.Version%1000)

	return b
}

// IsBigEndian reports whether the file stores values in big-endian order.
func (h *FileHeader) IsBigEndian() bool {
	return endian.IsBigEndian(h.Engine)
}

// VersionString formats the version the way Blender displays it, e.g. "2.80".
func (h *FileHeader) VersionString() string {
	return fmt.Sprintf("%d.%02d", h.Version/100, h.Version%100)
}

// ParseFileHeader parses a FileHeader from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be at least 12 bytes)
//
// Returns:
//   - FileHeader: Parsed header struct
//   - error: see FileHeader.Parse
func ParseFileHeader(data []byte) (FileHeader, error) {
	var h FileHeader
	if err := h.Parse(data); err != nil {
		return FileHeader{}, err
	}

	return h, nil
}
