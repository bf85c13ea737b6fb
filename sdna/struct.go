package sdna

import (
	"strconv"
	"strings"
	"sync"

	"github.com/arloliu/blend/internal/hash"
)

// Type is a named type of the catalog with its size in bytes. Struct types have a Type
// entry too; primitives such as "float" or "void" have no fields.
type Type struct {
	Name  string
	Size  int
	Index int
}

// Field is one member of a Struct.
type Field struct {
	FieldName

	// Decorated is the name as stored in the catalog, e.g. "*next" or "co[3]".
	Decorated string
	// Type is the declared element type. For pointers it is the pointee type.
	Type *Type
	// Index is the position of the field in its struct.
	Index int
}

// Size returns the number of bytes the field occupies inside its struct.
func (f *Field) Size(pointerSize int) int {
	elem := f.Type.Size
	if f.IsPointer() {
		elem = pointerSize
	}

	return elem * f.ArrayLen()
}

// String formats the field the way it is declared in C, e.g. "float co[3]".
func (f *Field) String() string {
	return f.Type.Name + " " + f.Decorated
}

// Struct is a record type of the catalog.
//
// Field offsets are computed on first use and cached for the lifetime of the struct;
// a Struct is safe for concurrent use.
type Struct struct {
	// Index is the position of the struct in the catalog, -1 for synthetic structs.
	Index  int
	Type   *Type
	Fields []Field

	pointerSize int

	once    sync.Once
	offsets []int
	byName  map[string]int
	size    int
}

func newStruct(index int, typ *Type, fields []Field, pointerSize int) *Struct {
	return &Struct{Index: index, Type: typ, Fields: fields, pointerSize: pointerSize}
}

// Name returns the type name of the struct.
func (s *Struct) Name() string { return s.Type.Name }

// Size returns the size recorded in the catalog, which is the stride of arrays of this
// struct.
func (s *Struct) Size() int { return s.Type.Size }

// PointerSize returns the pointer width the offsets were computed with.
func (s *Struct) PointerSize() int { return s.pointerSize }

func (s *Struct) layout() {
	s.once.Do(func() {
		s.offsets = make([]int, len(s.Fields))
		s.byName = make(map[string]int, len(s.Fields))
		pos := 0
		for i := range s.Fields {
			f := &s.Fields[i]
			s.offsets[i] = pos
			pos += f.Size(s.pointerSize)
			// Padding members repeat names; the first declaration wins.
			if _, dup := s.byName[f.Name]; !dup {
				s.byName[f.Name] = i
			}
		}
		s.size = pos
	})
}

// Field returns the field with the given name. Decorated names are accepted.
func (s *Struct) Field(name string) (*Field, bool) {
	s.layout()
	i, ok := s.byName[CanonicalName(name)]
	if !ok {
		return nil, false
	}

	return &s.Fields[i], true
}

// HasField reports whether the struct declares a field with the given name.
func (s *Struct) HasField(name string) bool {
	_, ok := s.Field(name)
	return ok
}

// Offset returns the byte offset of the named field inside the struct.
// An unknown field yields (-1, false).
func (s *Struct) Offset(name string) (int, bool) {
	s.layout()
	i, ok := s.byName[CanonicalName(name)]
	if !ok {
		return -1, false
	}

	return s.offsets[i], true
}

// OffsetAt returns the byte offset of the i-th field.
func (s *Struct) OffsetAt(i int) int {
	s.layout()
	if i < 0 || i >= len(s.offsets) {
		return -1
	}

	return s.offsets[i]
}

// FieldAt returns the field that covers the byte at a struct-relative offset.
func (s *Struct) FieldAt(offset int) (*Field, bool) {
	s.layout()
	for i := range s.Fields {
		start := s.offsets[i]
		if offset >= start && offset < start+s.Fields[i].Size(s.pointerSize) {
			return &s.Fields[i], true
		}
	}

	return nil, false
}

// ComputedSize returns the sum of all field sizes. It equals Size for well-formed
// catalogs.
func (s *Struct) ComputedSize() int {
	s.layout()
	return s.size
}

// IsID reports whether the struct is a data-block, i.e. starts with an embedded ID.
func (s *Struct) IsID() bool {
	return len(s.Fields) > 0 && s.Fields[0].Type.Name == "ID" && !s.Fields[0].IsPointer()
}

// LayoutHash returns a hash over the struct's name, size and field declarations. Two
// files agree on a struct's layout exactly when the hashes are equal.
func (s *Struct) LayoutHash() uint64 {
	var b strings.Builder
	b.WriteString(s.Name())
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(s.Size()))
	for i := range s.Fields {
		b.WriteByte(';')
		b.WriteString(s.Fields[i].String())
	}

	return hash.ID(b.String())
}
