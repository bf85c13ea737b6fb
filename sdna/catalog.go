package sdna

import (
	"fmt"
	"sort"

	"github.com/arloliu/blend/endian"
	"github.com/arloliu/blend/errs"
	"github.com/arloliu/blend/internal/hash"
	"github.com/arloliu/blend/section"
)

// Catalog is the parsed schema of one file. It is immutable after Parse.
type Catalog struct {
	names        []string
	types        []*Type
	structs      []*Struct
	typeByName   map[string]*Type
	structByName map[string]*Struct
	pointerSize  int
	signature    uint64
}

// Parse parses the payload of a DNA1 block.
//
// Parameters:
//   - data: the block payload, starting with "SDNA"
//   - engine: byte order of the file
//   - pointerSize: pointer width of the file, 4 or 8
//
// Returns:
//   - *Catalog: parsed catalog
//   - error: ErrInvalidDNA wrapping the first structural problem found
func Parse(data []byte, engine endian.EndianEngine, pointerSize int) (*Catalog, error) {
	if pointerSize != 4 && pointerSize != 8 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidPointerSize, pointerSize)
	}

	c := &Catalog{pointerSize: pointerSize, signature: hash.Sum(data)}
	cur := endian.NewCursor(endian.NewReader(data, engine, pointerSize), 0)

	if err := cur.Expect(section.TagSDNA); err != nil {
		return nil, invalid(err)
	}

	var err error
	if c.names, err = readStringTable(cur, section.TagNAME); err != nil {
		return nil, err
	}

	typeNames, err := readStringTable(cur, section.TagTYPE)
	if err != nil {
		return nil, err
	}

	if err := cur.Expect(section.TagTLEN); err != nil {
		return nil, invalid(err)
	}
	c.types = make([]*Type, len(typeNames))
	c.typeByName = make(map[string]*Type, len(typeNames))
	for i, name := range typeNames {
		size, err := cur.U16()
		if err != nil {
			return nil, invalid(err)
		}
		c.types[i] = &Type{Name: name, Size: int(size), Index: i}
		c.typeByName[name] = c.types[i]
	}
	cur.Align(section.DNAAlignment, 0)

	if err := c.readStructs(cur); err != nil {
		return nil, err
	}

	return c, nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", errs.ErrInvalidDNA, err)
}

func readCount(cur *endian.Cursor, what string, minEntry int) (int, error) {
	n, err := cur.I32()
	if err != nil {
		return 0, invalid(err)
	}
	if n < 0 || int(n)*minEntry > cur.Remaining() {
		return 0, fmt.Errorf("%w: %s count %d exceeds remaining %d bytes", errs.ErrInvalidDNA, what, n, cur.Remaining())
	}

	return int(n), nil
}

func readStringTable(cur *endian.Cursor, tag string) ([]string, error) {
	if err := cur.Expect(tag); err != nil {
		return nil, invalid(err)
	}
	n, err := readCount(cur, tag, 1)
	if err != nil {
		return nil, err
	}

	out := make([]string, n)
	for i := range out {
		if out[i], err = cur.CString(); err != nil {
			return nil, invalid(err)
		}
	}
	cur.Align(section.DNAAlignment, 0)

	return out, nil
}

func (c *Catalog) readStructs(cur *endian.Cursor) error {
	if err := cur.Expect(section.TagSTRC); err != nil {
		return invalid(err)
	}
	n, err := readCount(cur, section.TagSTRC, 4)
	if err != nil {
		return err
	}

	c.structs = make([]*Struct, n)
	c.structByName = make(map[string]*Struct, n)
	for i := range c.structs {
		typeIndex, err := cur.U16()
		if err != nil {
			return invalid(err)
		}
		fieldCount, err := cur.U16()
		if err != nil {
			return invalid(err)
		}
		typ, err := c.typeAt(int(typeIndex))
		if err != nil {
			return err
		}

		fields := make([]Field, fieldCount)
		for j := range fields {
			ft, err := cur.U16()
			if err != nil {
				return invalid(err)
			}
			fn, err := cur.U16()
			if err != nil {
				return invalid(err)
			}
			fieldType, err := c.typeAt(int(ft))
			if err != nil {
				return err
			}
			if int(fn) >= len(c.names) {
				return fmt.Errorf("%w: struct %s field %d: name index %d out of range", errs.ErrInvalidDNA, typ.Name, j, fn)
			}
			decorated := c.names[fn]
			fields[j] = Field{FieldName: ParseFieldName(decorated), Decorated: decorated, Type: fieldType, Index: j}
		}

		s := newStruct(i, typ, fields, c.pointerSize)
		c.structs[i] = s
		if _, dup := c.structByName[typ.Name]; !dup {
			c.structByName[typ.Name] = s
		}
	}

	return nil
}

func (c *Catalog) typeAt(i int) (*Type, error) {
	if i < 0 || i >= len(c.types) {
		return nil, fmt.Errorf("%w: type index %d out of range (%d types)", errs.ErrInvalidDNA, i, len(c.types))
	}

	return c.types[i], nil
}

// PointerSize returns the pointer width of the file.
func (c *Catalog) PointerSize() int { return c.pointerSize }

// Signature returns the xxHash64 of the raw catalog bytes. Files written by the same
// Blender build share a signature.
func (c *Catalog) Signature() uint64 { return c.signature }

// Names returns the decorated field name table.
func (c *Catalog) Names() []string { return c.names }

// Types returns all types in catalog order.
func (c *Catalog) Types() []*Type { return c.types }

// Type returns the type with the given name.
func (c *Catalog) Type(name string) (*Type, bool) {
	t, ok := c.typeByName[name]
	return t, ok
}

// Structs returns all structs in catalog order.
func (c *Catalog) Structs() []*Struct { return c.structs }

// StructAt returns the struct with the given catalog index.
func (c *Catalog) StructAt(i int) (*Struct, bool) {
	if i < 0 || i >= len(c.structs) {
		return nil, false
	}

	return c.structs[i], true
}

// Struct returns the struct with the given type name.
func (c *Catalog) Struct(name string) (*Struct, bool) {
	s, ok := c.structByName[name]
	return s, ok
}

// StructOrSynthetic returns the catalog struct with the given name, falling back to a
// built-in definition for the small vector and property types.
func (c *Catalog) StructOrSynthetic(name string) (*Struct, bool) {
	if s, ok := c.structByName[name]; ok {
		return s, true
	}

	return Synthetic(name)
}

// StructNames returns the struct names in sorted order.
func (c *Catalog) StructNames() []string {
	out := make([]string, 0, len(c.structByName))
	for name := range c.structByName {
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}

// StructIndices maps struct names to catalog indices; names missing from the catalog
// are returned separately.
func (c *Catalog) StructIndices(names ...string) (indices []int, missing []string) {
	for _, name := range names {
		if s, ok := c.structByName[name]; ok {
			indices = append(indices, s.Index)
		} else {
			missing = append(missing, name)
		}
	}

	return indices, missing
}
