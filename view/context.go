package view

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arloliu/blend/block"
	"github.com/arloliu/blend/endian"
	"github.com/arloliu/blend/internal/options"
	"github.com/arloliu/blend/sdna"
)

// DefaultListLimit bounds linked-list traversals.
const DefaultListLimit = 1 << 20

type contextConfig struct {
	handler   Handler
	logger    *slog.Logger
	listLimit int
}

// Option configures NewContext.
type Option = options.Option[*contextConfig]

// WithDiagnostics sets the handler that receives every diagnostic.
func WithDiagnostics(h Handler) Option {
	return options.NoError(func(c *contextConfig) {
		c.handler = h
	})
}

// WithLogger logs diagnostics to l: unknown fields at debug level, everything else as
// warnings.
func WithLogger(l *slog.Logger) Option {
	return options.NoError(func(c *contextConfig) {
		c.logger = l
	})
}

// WithListLimit sets the maximum number of elements a linked-list traversal visits.
func WithListLimit(n int) Option {
	return options.New(func(c *contextConfig) error {
		if n <= 0 {
			return fmt.Errorf("list limit must be positive, got %d", n)
		}
		c.listLimit = n

		return nil
	})
}

// Context holds everything needed to decode views of one file: the file image, its
// catalog and its block table. It is immutable and safe for concurrent use.
type Context struct {
	reader    endian.Reader
	catalog   *sdna.Catalog
	table     *block.Table
	handler   Handler
	logger    *slog.Logger
	listLimit int
}

// NewContext creates a decode context. r must use the byte order and pointer size of
// the file the catalog and table were read from.
func NewContext(r endian.Reader, catalog *sdna.Catalog, table *block.Table, opts ...Option) (*Context, error) {
	cfg := &contextConfig{listLimit: DefaultListLimit}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Context{
		reader:    r,
		catalog:   catalog,
		table:     table,
		handler:   cfg.handler,
		logger:    cfg.logger,
		listLimit: cfg.listLimit,
	}, nil
}

// Reader returns the file image reader.
func (c *Context) Reader() endian.Reader { return c.reader }

func (c *Context) Catalog() *sdna.Catalog { return c.catalog }

func (c *Context) Table() *block.Table { return c.table }

func (c *Context) PointerSize() int { return c.reader.PointerSize() }

// ListLimit returns the traversal bound of lists created from this context.
func (c *Context) ListLimit() int { return c.listLimit }

// Diagnose reports d to the handler and logger and returns it.
func (c *Context) Diagnose(d *Diagnostic) *Diagnostic {
	if c.handler != nil {
		c.handler(d)
	}
	if c.logger != nil {
		level := slog.LevelWarn
		if d.Kind == KindUnknownField {
			level = slog.LevelDebug
		}
		c.logger.LogAttrs(context.Background(), level, d.Kind.String(),
			slog.String("struct", d.Struct),
			slog.String("field", d.Field),
			slog.Uint64("address", d.Address),
			slog.String("detail", d.Detail),
		)
	}

	return d
}

// ViewAt returns a view of st at a file position.
func (c *Context) ViewAt(st *sdna.Struct, pos int) View {
	return View{ctx: c, st: st, pos: pos}
}

// Struct returns a catalog struct, falling back to the synthetic definitions.
func (c *Context) Struct(name string) (*sdna.Struct, error) {
	st, ok := c.catalog.StructOrSynthetic(name)
	if !ok {
		return nil, c.Diagnose(&Diagnostic{Kind: KindUnknownStruct, Struct: name})
	}

	return st, nil
}

// BlockView returns a view of the first element of b, typed by the block's struct index.
func (c *Context) BlockView(b *block.Block) (View, error) {
	st, ok := c.catalog.StructAt(b.StructIndex)
	if !ok {
		return View{}, c.Diagnose(&Diagnostic{
			Kind:    KindUnknownStruct,
			Address: b.Address,
			Detail:  fmt.Sprintf("block %s has struct index %d", b.Code, b.StructIndex),
		})
	}

	return c.ViewAt(st, b.Offset), nil
}

// Resolve turns a pointer into a view. declared is the pointee type of the pointer
// field; nil or void means the struct is taken from the target block.
//
// A null pointer yields an invalid view and no error.
func (c *Context) Resolve(addr uint64, declared *sdna.Type) (View, error) {
	return c.resolve(addr, declared, site{})
}

// site names the pointer field being followed, for diagnostics.
type site struct {
	owner string
	field string
}

func (c *Context) diagnoseAt(s site, kind Kind, addr uint64, detail string) *Diagnostic {
	return c.Diagnose(&Diagnostic{Kind: kind, Struct: s.owner, Field: s.field, Address: addr, Detail: detail})
}

func (c *Context) resolve(addr uint64, declared *sdna.Type, s site) (View, error) {
	if addr == 0 {
		return View{}, nil
	}

	b, st, err := c.target(addr, declared, s)
	if err != nil {
		return View{}, err
	}

	if st == nil {
		if !declared.IsVoid() {
			return View{}, c.diagnoseAt(s, KindUnknownStruct, addr, "pointee "+declared.Name+" is not a struct")
		}
		var ok bool
		if st, ok = c.catalog.StructAt(b.StructIndex); !ok {
			return View{}, c.diagnoseAt(s, KindUnknownStruct, addr,
				fmt.Sprintf("target block has struct index %d", b.StructIndex))
		}
	}

	return c.ViewAt(st, b.PositionOf(addr)), nil
}

// target finds the block holding addr. Pointers declared with an off-heap struct type
// are looked up in that group's table. The returned struct is nil when the declared
// type is void or not a struct.
func (c *Context) target(addr uint64, declared *sdna.Type, s site) (*block.Block, *sdna.Struct, error) {
	table := c.table

	var st *sdna.Struct
	if !declared.IsVoid() {
		if found, ok := c.catalog.StructOrSynthetic(declared.Name); ok {
			st = found
			if sub, ok := c.table.OffHeap(found.Index); ok {
				table = sub
			}
		}
	}

	b, err := table.ResolveAddress(addr)
	if err != nil {
		detail := ""
		if !declared.IsVoid() {
			detail = "pointee " + declared.Name
		}

		return nil, nil, c.diagnoseAt(s, KindDanglingPointer, addr, detail)
	}

	return b, st, nil
}
