// Package blend reads Blender .blend files.
//
// A .blend file is a memory dump: a sequence of blocks, each holding instances of one
// struct exactly as they were laid out in memory, plus a DNA1 block describing every
// struct of the writing program. Pointers between instances are the addresses they
// had at save time. This package parses the header, the DNA catalog and the block
// table once, and then hands out views that read fields by name.
//
// # Basic Usage
//
//	f, err := blend.Open("scene.blend")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	for _, obj := range f.Instances("Object") {
//	    id := datablock.NewObject(obj)
//	    fmt.Println(id.Name(), id.Location())
//	}
//
// # Package Structure
//
//   - section: file and block headers
//   - sdna: the DNA catalog (types, structs, field offsets)
//   - block: the address index over blocks
//   - view: struct views, pointers, lists, arrays and diagnostics
//   - mesh, attribute, nodes, datablock: typed views over common structs
//   - compress: gzip, zstd and lz4 containers around .blend files
//
// Everything derived from a File is immutable and safe for concurrent use.
package blend

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/blend/block"
	"github.com/arloliu/blend/compress"
	"github.com/arloliu/blend/endian"
	"github.com/arloliu/blend/errs"
	"github.com/arloliu/blend/format"
	"github.com/arloliu/blend/internal/options"
	"github.com/arloliu/blend/sdna"
	"github.com/arloliu/blend/section"
	"github.com/arloliu/blend/view"
)

// Parse decodes a file image. data may be wrapped in a gzip, zstd or lz4 container.
//
// For uncompressed input the File aliases data; it must not be modified while the File
// is in use.
func Parse(data []byte, opts ...Option) (*File, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	raw, container, err := compress.Unwrap(data)
	if err != nil {
		return nil, err
	}

	header, err := section.ParseFileHeader(raw)
	if err != nil {
		return nil, fmt.Errorf("file header: %w", err)
	}

	r := endian.NewReader(raw, header.Engine, header.PointerSize)
	headers, err := section.ReadBlockHeaders(r, section.FirstBlockOffset)
	if err != nil {
		return nil, fmt.Errorf("block headers: %w", err)
	}

	catalog, err := parseCatalog(r, headers)
	if err != nil {
		return nil, err
	}

	offHeap := cfg.offHeap
	if offHeap == nil {
		offHeap = DefaultOffHeapStructs(header.Version)
	}
	offHeapIdx, missing := catalog.StructIndices(offHeap...)
	if len(missing) > 0 && cfg.logger != nil {
		cfg.logger.Warn("off-heap structs not in catalog", slog.Any("structs", missing))
	}

	blocks := make([]block.Block, len(headers))
	for i := range headers {
		blocks[i] = block.FromHeader(headers[i])
	}

	table, err := block.Build(blocks,
		block.WithOffHeap(offHeapIdx...),
		block.WithHeapBase(cfg.heapBase),
		block.WithLabeler(structLabeler(catalog)),
	)
	if err != nil {
		return nil, fmt.Errorf("block table: %w", err)
	}

	ctx, err := view.NewContext(r, catalog, table,
		view.WithDiagnostics(cfg.handler),
		view.WithLogger(cfg.logger),
		view.WithListLimit(cfg.listLimit),
	)
	if err != nil {
		return nil, err
	}

	f := &File{
		header:    header,
		container: container,
		data:      raw,
		catalog:   catalog,
		table:     table,
		ctx:       ctx,
	}
	f.indexInstances()

	if cfg.logger != nil {
		cfg.logger.Debug("parsed blend file",
			slog.String("version", header.VersionString()),
			slog.Int("pointer_size", header.PointerSize),
			slog.Bool("big_endian", header.IsBigEndian()),
			slog.String("container", container.String()),
			slog.Int("blocks", len(headers)),
			slog.Int("structs", len(catalog.Structs())),
		)
	}

	return f, nil
}

func parseCatalog(r endian.Reader, headers []section.BlockHeader) (*sdna.Catalog, error) {
	for _, h := range headers {
		if h.Code != format.CodeDNA1 {
			continue
		}
		catalog, err := sdna.Parse(r.Slice(h.Offset, h.Size), r.Engine(), r.PointerSize())
		if err != nil {
			return nil, fmt.Errorf("DNA1 block at %d: %w", h.Offset, err)
		}

		return catalog, nil
	}

	return nil, errs.ErrMissingDNA
}

func structLabeler(c *sdna.Catalog) block.Labeler {
	return func(i int) string {
		if s, ok := c.StructAt(i); ok {
			return s.Name()
		}

		return fmt.Sprintf("struct#%d", i)
	}
}
