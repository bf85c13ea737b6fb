// Package format defines the small enumerations shared across blend packages: block
// codes, container compression types and the run-time attribute tags.
//
// Tag values read from a file are converted with the Parse* functions, which return
// errs.ErrUnknownTag for values this reader does not know. Newer files may carry tags
// that did not exist when this package was written, so callers should treat an unknown
// tag as "skip this record", not as a corrupt file.
package format

import "fmt"

type (
	// BlockCode is the 4-byte tag at the start of every block header.
	BlockCode [4]byte

	// CompressionType identifies the container wrapped around a .blend file.
	CompressionType uint8
)

// Well-known block codes.
var (
	CodeENDB = BlockCode{'E', 'N', 'D', 'B'} // end of the block stream
	CodeDNA1 = BlockCode{'D', 'N', 'A', '1'} // embedded schema catalog
	CodeTEST = BlockCode{'T', 'E', 'S', 'T'} // thumbnail
	CodeREND = BlockCode{'R', 'E', 'N', 'D'} // render info
	CodeGLOB = BlockCode{'G', 'L', 'O', 'B'} // FileGlobal
	CodeDATA = BlockCode{'D', 'A', 'T', 'A'} // non-ID data
	CodeUSER = BlockCode{'U', 'S', 'E', 'R'} // user preferences
)

// NewBlockCode builds a code from a string of up to four characters; shorter codes
// are zero padded, as Blender writes two-letter ID codes ("OB", "ME").
func NewBlockCode(s string) BlockCode {
	var c BlockCode
	copy(c[:], s)

	return c
}

// String returns the code with trailing zero bytes removed.
func (c BlockCode) String() string {
	n := len(c)
	for n > 0 && c[n-1] == 0 {
		n--
	}

	return string(c[:n])
}

// IsMeta reports whether the block carries file metadata rather than record data.
func (c BlockCode) IsMeta() bool {
	return c == CodeDNA1 || c == CodeENDB || c == CodeTEST || c == CodeREND
}

const (
	CompressionNone CompressionType = 0x1 // CompressionNone is a bare .blend file.
	CompressionGzip CompressionType = 0x2 // CompressionGzip is the pre-3.0 compressed file format.
	CompressionZstd CompressionType = 0x3 // CompressionZstd is the 3.0+ compressed file format.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 is an lz4 frame wrapped file.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionGzip:
		return "Gzip"
	case CompressionZstd:
		return "Zstd"
	case CompressionLZ4:
		return "LZ4"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
}
