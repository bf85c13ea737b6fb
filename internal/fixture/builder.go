// Package fixture builds synthetic .blend images for tests.
//
// A Builder collects type and struct declarations and blocks, and serializes them into a
// complete file: header, blocks, DNA1 and ENDB. Record fills block payloads by field
// name, using the builder's own layout computation, so tests never hard-code offsets.
//
// Misuse (unknown types or fields) panics; fixtures are programmer errors, not input.
package fixture

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/blend/compress"
	"github.com/arloliu/blend/endian"
	"github.com/arloliu/blend/format"
	"github.com/arloliu/blend/section"
)

// Field declares a struct member with its C type name and decorated name.
type Field struct {
	Type string
	Name string
}

// F is shorthand for Field{typ, name}.
func F(typ, name string) Field { return Field{Type: typ, Name: name} }

type structDef struct {
	name   string
	fields []Field
}

type blockDef struct {
	header  section.BlockHeader
	payload []byte
}

// Builder assembles a synthetic file.
type Builder struct {
	engine      endian.EndianEngine
	pointerSize int
	version     int

	typeOrder []string
	typeSize  map[string]int
	structs   []structDef
	structIdx map[string]int
	blocks    []blockDef
}

// Option configures a Builder.
type Option func(*Builder)

// WithBigEndian writes the file in big-endian byte order.
func WithBigEndian() Option {
	return func(b *Builder) { b.engine = endian.GetBigEndianEngine() }
}

// WithPointerSize sets the pointer width, 4 or 8.
func WithPointerSize(n int) Option {
	return func(b *Builder) { b.pointerSize = n }
}

// WithVersion sets the version written to the header.
func WithVersion(v int) Option {
	return func(b *Builder) { b.version = v }
}

var defaultPrimitives = []struct {
	name string
	size int
}{
	{"char", 1}, {"uchar", 1}, {"short", 2}, {"ushort", 2}, {"int", 4}, {"uint", 4},
	{"float", 4}, {"double", 8}, {"int8_t", 1}, {"uint8_t", 1}, {"int16_t", 2},
	{"uint16_t", 2}, {"int32_t", 4}, {"uint32_t", 4}, {"int64_t", 8}, {"uint64_t", 8},
	{"void", 0},
}

// New creates a builder for a little-endian, 8-byte pointer, version 405 file with the
// primitive types already declared.
func New(opts ...Option) *Builder {
	b := &Builder{
		engine:      endian.GetLittleEndianEngine(),
		pointerSize: 8,
		version:     405,
		typeSize:    make(map[string]int),
		structIdx:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(b)
	}
	for _, p := range defaultPrimitives {
		b.Type(p.name, p.size)
	}

	return b
}

func (b *Builder) Engine() endian.EndianEngine { return b.engine }
func (b *Builder) PointerSize() int            { return b.pointerSize }
func (b *Builder) Version() int                { return b.version }

// Type declares a type. Redeclaring a type changes its size.
func (b *Builder) Type(name string, size int) *Builder {
	if _, ok := b.typeSize[name]; !ok {
		b.typeOrder = append(b.typeOrder, name)
	}
	b.typeSize[name] = size

	return b
}

// Struct declares a struct type. Field types must already be declared.
func (b *Builder) Struct(name string, fields ...Field) *Builder {
	if _, ok := b.structIdx[name]; ok {
		panic(fmt.Sprintf("fixture: struct %s declared twice", name))
	}
	// Declare first so self-referencing pointers (e.g. "*next") resolve.
	b.Type(name, 0)
	size := 0
	for _, f := range fields {
		size += b.fieldSize(f)
	}
	b.Type(name, size)
	b.structIdx[name] = len(b.structs)
	b.structs = append(b.structs, structDef{name: name, fields: fields})

	return b
}

// HasStruct reports whether a struct has been declared.
func (b *Builder) HasStruct(name string) bool {
	_, ok := b.structIdx[name]
	return ok
}

// StructIndex returns the catalog index of a declared struct.
func (b *Builder) StructIndex(name string) int {
	i, ok := b.structIdx[name]
	if !ok {
		panic("fixture: unknown struct " + name)
	}

	return i
}

// SizeOf returns the size of a declared type.
func (b *Builder) SizeOf(name string) int {
	size, ok := b.typeSize[name]
	if !ok {
		panic("fixture: unknown type " + name)
	}

	return size
}

type parsedName struct {
	name    string
	pointer bool
	count   int
}

func parseName(decorated string) parsedName {
	p := parsedName{count: 1}
	s := decorated
	if strings.HasPrefix(s, "(*") {
		p.pointer = true
		s = strings.TrimPrefix(s, "(*")
		if i := strings.IndexByte(s, ')'); i >= 0 {
			s = s[:i]
		}
	}
	for strings.HasPrefix(s, "*") {
		p.pointer = true
		s = s[1:]
	}
	if i := strings.IndexByte(s, '['); i >= 0 {
		dims := s[i:]
		s = s[:i]
		for len(dims) > 0 && dims[0] == '[' {
			end := strings.IndexByte(dims, ']')
			n, err := strconv.Atoi(dims[1:end])
			if err == nil {
				p.count *= n
			}
			dims = dims[end+1:]
		}
	}
	p.name = s

	return p
}

func (b *Builder) fieldSize(f Field) int {
	p := parseName(f.Name)
	if p.pointer {
		return b.pointerSize * p.count
	}

	return b.SizeOf(f.Type) * p.count
}

// Offset returns the byte offset of a field. Dotted paths ("id.name") descend into
// embedded structs.
func (b *Builder) Offset(structName, path string) int {
	off, _ := b.locate(structName, path)
	return off
}

func (b *Builder) locate(structName, path string) (int, Field) {
	head, rest, nested := strings.Cut(path, ".")
	def := b.structs[b.StructIndex(structName)]
	off := 0
	for _, f := range def.fields {
		if parseName(f.Name).name == head {
			if nested {
				inner, field := b.locate(f.Type, rest)
				return off + inner, field
			}

			return off, f
		}
		off += b.fieldSize(f)
	}
	panic(fmt.Sprintf("fixture: struct %s has no field %s", structName, head))
}

// Block appends a block of count instances of structName.
func (b *Builder) Block(code, structName string, address uint64, count int, payload []byte) *Builder {
	return b.RawBlock(code, b.StructIndex(structName), address, count, payload)
}

// RawBlock appends a block with an explicit struct index.
func (b *Builder) RawBlock(code string, structIndex int, address uint64, count int, payload []byte) *Builder {
	b.blocks = append(b.blocks, blockDef{
		header: section.BlockHeader{
			Code:        format.NewBlockCode(code),
			Size:        len(payload),
			Address:     address,
			StructIndex: structIndex,
			Count:       count,
		},
		payload: payload,
	})

	return b
}

func pad4(dst []byte) []byte {
	for len(dst)%4 != 0 {
		dst = append(dst, 0)
	}

	return dst
}

// DNA serializes the catalog into a DNA1 payload.
func (b *Builder) DNA() []byte {
	names := make([]string, 0, 64)
	nameIdx := make(map[string]int)
	for _, s := range b.structs {
		for _, f := range s.fields {
			if _, ok := nameIdx[f.Name]; !ok {
				nameIdx[f.Name] = len(names)
				names = append(names, f.Name)
			}
		}
	}
	typeIdx := make(map[string]int, len(b.typeOrder))
	for i, name := range b.typeOrder {
		typeIdx[name] = i
	}

	out := append([]byte(nil), section.TagSDNA...)
	out = append(out, section.TagNAME...)
	out = b.engine.AppendUint32(out, uint32(len(names))) //nolint: gosec
	for _, n := range names {
		out = append(append(out, n...), 0)
	}
	out = pad4(out)

	out = append(out, section.TagTYPE...)
	out = b.engine.AppendUint32(out, uint32(len(b.typeOrder))) //nolint: gosec
	for _, n := range b.typeOrder {
		out = append(append(out, n...), 0)
	}
	out = pad4(out)

	out = append(out, section.TagTLEN...)
	for _, n := range b.typeOrder {
		out = b.engine.AppendUint16(out, uint16(b.typeSize[n])) //nolint: gosec
	}
	out = pad4(out)

	out = append(out, section.TagSTRC...)
	out = b.engine.AppendUint32(out, uint32(len(b.structs))) //nolint: gosec
	for _, s := range b.structs {
		out = b.engine.AppendUint16(out, uint16(typeIdx[s.name])) //nolint: gosec
		out = b.engine.AppendUint16(out, uint16(len(s.fields)))  //nolint: gosec
		for _, f := range s.fields {
			out = b.engine.AppendUint16(out, uint16(typeIdx[f.Type])) //nolint: gosec
			out = b.engine.AppendUint16(out, uint16(nameIdx[f.Name])) //nolint: gosec
		}
	}

	return out
}

// Bytes serializes the complete file.
func (b *Builder) Bytes() []byte {
	out := section.NewFileHeader(b.pointerSize, b.engine, b.version).Bytes()
	for _, blk := range b.blocks {
		out = section.AppendBlockHeader(out, blk.header, b.engine, b.pointerSize)
		out = append(out, blk.payload...)
	}

	dna := b.DNA()
	out = section.AppendBlockHeader(out, section.BlockHeader{Code: format.CodeDNA1, Size: len(dna), Count: 1}, b.engine, b.pointerSize)
	out = append(out, dna...)
	out = section.AppendBlockHeader(out, section.BlockHeader{Code: format.CodeENDB}, b.engine, b.pointerSize)

	return out
}

// Compressed serializes the file and wraps it in the given container.
func (b *Builder) Compressed(kind format.CompressionType) ([]byte, error) {
	codec, err := compress.CreateCodec(kind)
	if err != nil {
		return nil, err
	}

	return codec.Compress(b.Bytes())
}

// Pointers encodes addresses as a pointer array payload.
func (b *Builder) Pointers(addrs ...uint64) []byte {
	out := make([]byte, 0, len(addrs)*b.pointerSize)
	for _, a := range addrs {
		out = b.appendPointer(out, a)
	}

	return out
}

func (b *Builder) appendPointer(dst []byte, addr uint64) []byte {
	if b.pointerSize == 4 {
		return b.engine.AppendUint32(dst, uint32(addr)) //nolint: gosec
	}

	return b.engine.AppendUint64(dst, addr)
}

// Float32s encodes a float array payload.
func (b *Builder) Float32s(vals ...float32) []byte {
	out := make([]byte, 0, len(vals)*4)
	for _, v := range vals {
		out = b.engine.AppendUint32(out, math.Float32bits(v))
	}

	return out
}

// Int32s encodes an int array payload.
func (b *Builder) Int32s(vals ...int32) []byte {
	out := make([]byte, 0, len(vals)*4)
	for _, v := range vals {
		out = b.engine.AppendUint32(out, uint32(v)) //nolint: gosec
	}

	return out
}

// CString encodes a zero-terminated string payload.
func (b *Builder) CString(s string) []byte {
	return append([]byte(s), 0)
}
