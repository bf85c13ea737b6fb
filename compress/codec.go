package compress

import (
	"bytes"
	"fmt"

	"github.com/arloliu/blend/errs"
	"github.com/arloliu/blend/format"
)

// Compressor wraps a bare .blend image in a container.
//
// Only the test fixtures and tooling write containers; the reader never does.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)
}

// Decompressor unwraps a container and returns the bare .blend image.
//
// Example:
//
//	decompressor := NewZstdCompressor()
//	raw, err := decompressor.Decompress(fileBytes)
//	if err != nil {
//	    return fmt.Errorf("decompression failed: %w", err)
//	}
//
// Thread Safety: all Decompressor implementations in this package are safe for
// concurrent use.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original result.
	//
	// Error conditions:
	//   - Returns error if input data is corrupted or invalid
	//   - Returns error if data was compressed with an incompatible algorithm
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Detect identifies the container from the leading magic bytes of data.
//
// Returns:
//   - format.CompressionType: detected container, CompressionNone for data that does not
//     start with a known magic (bare files start with "BLENDER")
func Detect(data []byte) format.CompressionType {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return format.CompressionZstd
	case bytes.HasPrefix(data, gzipMagic):
		return format.CompressionGzip
	case bytes.HasPrefix(data, lz4Magic):
		return format.CompressionLZ4
	default:
		return format.CompressionNone
	}
}

// CreateCodec is a factory function that creates a Codec based on the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Gzip, Zstd or LZ4)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: ErrUnsupportedContainer for any other type
func CreateCodec(compressionType format.CompressionType) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionGzip:
		return NewGzipCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedContainer, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionGzip: NewGzipCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedContainer, compressionType)
}

// Unwrap detects the container of data and returns the bare image.
//
// Bare data is returned as-is without copying.
//
// Returns:
//   - []byte: decompressed image
//   - format.CompressionType: detected container
//   - error: ErrDecompressionFailed wrapping the codec error
func Unwrap(data []byte) ([]byte, format.CompressionType, error) {
	kind := Detect(data)
	codec, err := GetCodec(kind)
	if err != nil {
		return nil, kind, err
	}

	raw, err := codec.Decompress(data)
	if err != nil {
		return nil, kind, fmt.Errorf("%w: %s: %w", errs.ErrDecompressionFailed, kind, err)
	}

	return raw, kind, nil
}
