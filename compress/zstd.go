package compress

// ZstdCompressor handles the container written by Blender 3.0 and later when
// "Compress File" is enabled.
//
// Blender writes a sequence of independent frames followed by a skippable seek-table
// frame. Both decoders in this package accept concatenated frames and skip the seek
// table, so the file is decoded as one stream.
//
// The default build uses github.com/klauspost/compress/zstd. Building with the
// gozstd tag (and cgo) switches to the libzstd binding github.com/valyala/gozstd.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Returns:
//   - ZstdCompressor: New Zstd compressor instance
//
// Example:
//
//	raw, err := NewZstdCompressor().Decompress(fileBytes)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
