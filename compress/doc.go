// Package compress detects and unwraps the containers a .blend file may be stored in.
//
// Blender can save a file compressed. The compressed file is the plain file wrapped in a
// general-purpose container, with no Blender-specific framing:
//   - Gzip: written by Blender 2.x and earlier ("Compress File")
//   - Zstd: written by Blender 3.0 and later ("Compress File")
//   - LZ4: lz4 frame, produced by external tools and asset pipelines
//
// The reader needs the whole plain image in memory, since pointer resolution jumps to
// arbitrary file offsets, so every codec decompresses the whole input at once.
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Detection
//
// Detect identifies a container by its magic bytes:
//
//	Container | Magic       | format.CompressionType
//	----------|-------------|-----------------------
//	Gzip      | 1f 8b       | CompressionGzip
//	Zstd      | 28 b5 2f fd | CompressionZstd
//	LZ4       | 04 22 4d 18 | CompressionLZ4
//	(none)    | "BLENDER"   | CompressionNone
//
// Unwrap combines detection and decompression:
//
//	raw, kind, err := compress.Unwrap(fileBytes)
//	if err != nil {
//	    return err
//	}
//	log.Printf("container: %s", kind)
//
// # Zstd Backends
//
// The default zstd backend is the pure Go github.com/klauspost/compress/zstd decoder.
// Building with -tags gozstd (cgo required) switches to github.com/valyala/gozstd.
//
// # Thread Safety
//
// All codec implementations are thread-safe. Decoders are pooled and can be shared
// across goroutines.
package compress
