package view

import (
	"fmt"

	"github.com/arloliu/blend/block"
	"github.com/arloliu/blend/errs"
	"github.com/arloliu/blend/sdna"
)

// View is a struct instance at a file position. The zero View is invalid and stands
// for an absent value, e.g. the target of a null pointer.
//
// Views are small values; copy them freely.
type View struct {
	ctx *Context
	st  *sdna.Struct
	pos int
}

// Valid reports whether the view refers to an instance.
func (v View) Valid() bool { return v.ctx != nil && v.st != nil }

func (v View) Context() *Context    { return v.ctx }
func (v View) Struct() *sdna.Struct { return v.st }
func (v View) Position() int        { return v.pos }

// TypeName returns the struct name, or "" for an invalid view.
func (v View) TypeName() string {
	if v.st == nil {
		return ""
	}

	return v.st.Name()
}

// Size returns the struct size.
func (v View) Size() int {
	if v.st == nil {
		return 0
	}

	return v.st.Size()
}

// Block returns the block the view lies in.
func (v View) Block() *block.Block {
	if v.ctx == nil {
		return nil
	}

	return v.ctx.table.ResolveFileOffset(v.pos)
}

// Address returns the address the instance had at save time, 0 if unknown.
func (v View) Address() uint64 {
	if !v.Valid() {
		return 0
	}
	b := v.Block()
	if b == nil || !b.ContainsOffset(v.pos) {
		return 0
	}

	return b.AddressOf(v.pos)
}

// Is reports whether the view is an instance of the named struct.
func (v View) Is(name string) bool { return v.TypeName() == name }

// As reinterprets the instance as another struct of the catalog.
func (v View) As(structName string) (View, error) {
	if !v.Valid() {
		return View{}, errs.ErrInvalidView
	}
	st, err := v.ctx.Struct(structName)
	if err != nil {
		return View{}, err
	}

	return View{ctx: v.ctx, st: st, pos: v.pos}, nil
}

// Concrete retypes the instance with the struct of the block it lies in. It is used on
// pointers declared with a header type, such as an ID* that points at an Image. The
// view is returned unchanged when the block struct is unknown or v does not start an
// element of the block.
func (v View) Concrete() View {
	b := v.Block()
	if b == nil || !v.Valid() {
		return v
	}
	st, ok := v.ctx.catalog.StructAt(b.StructIndex)
	if !ok || st.Size() == 0 || (v.pos-b.Offset)%st.Size() != 0 {
		return v
	}
	v.st = st

	return v
}

// ShiftedBy returns a view of the same struct n bytes further into the file.
func (v View) ShiftedBy(n int) View {
	v.pos += n
	return v
}

// At returns element i of the array starting at v.
func (v View) At(i int) View { return v.ShiftedBy(i * v.Size()) }

func (v View) diagnose(kind Kind, field string, addr uint64, detail string) *Diagnostic {
	return v.ctx.Diagnose(&Diagnostic{Kind: kind, Struct: v.TypeName(), Field: field, Address: addr, Detail: detail})
}

// Report emits a diagnostic about a field of the instance, addressed at the instance.
// Domain views use it for mismatches the struct layer cannot see. On an invalid view
// the diagnostic is returned without being reported.
func (v View) Report(kind Kind, field, detail string) *Diagnostic {
	d := &Diagnostic{Kind: kind, Struct: v.TypeName(), Field: field, Address: v.Address(), Detail: detail}
	if v.ctx == nil {
		return d
	}

	return v.ctx.Diagnose(d)
}

func (v View) site(field string) site { return site{owner: v.TypeName(), field: field} }

// HasField reports whether the struct declares the field. It never reports a diagnostic.
func (v View) HasField(name string) bool {
	return v.st != nil && v.st.HasField(name)
}

// Field returns the schema of a field.
func (v View) Field(name string) (*sdna.Field, error) {
	if v.st == nil {
		return nil, errs.ErrInvalidView
	}
	f, ok := v.st.Field(name)
	if !ok {
		return nil, v.diagnose(KindUnknownField, name, 0, "")
	}

	return f, nil
}

// FieldOffset returns the offset of a field relative to the instance.
func (v View) FieldOffset(name string) (int, error) {
	if v.st == nil {
		return -1, errs.ErrInvalidView
	}
	off, ok := v.st.Offset(name)
	if !ok {
		return -1, v.diagnose(KindUnknownField, name, 0, "")
	}

	return off, nil
}

// Offset is FieldOffset with -1 for unknown fields.
func (v View) Offset(name string) int {
	off, _ := v.FieldOffset(name)
	return off
}

// ReadScalar reads an integer at a struct-relative offset.
func (v View) ReadScalar(offset, width int, signed bool) int64 {
	return v.ctx.reader.Scalar(v.pos+offset, width, signed)
}

// Reads at struct-relative offsets. Out-of-range reads yield zero.

func (v View) U8(offset int) uint8    { return v.ctx.reader.U8(v.pos + offset) }
func (v View) I8(offset int) int8     { return v.ctx.reader.I8(v.pos + offset) }
func (v View) U16(offset int) uint16  { return v.ctx.reader.U16(v.pos + offset) }
func (v View) I16(offset int) int16   { return v.ctx.reader.I16(v.pos + offset) }
func (v View) U32(offset int) uint32  { return v.ctx.reader.U32(v.pos + offset) }
func (v View) I32(offset int) int32   { return v.ctx.reader.I32(v.pos + offset) }
func (v View) U64(offset int) uint64  { return v.ctx.reader.U64(v.pos + offset) }
func (v View) I64(offset int) int64   { return v.ctx.reader.I64(v.pos + offset) }
func (v View) F32(offset int) float32 { return v.ctx.reader.F32(v.pos + offset) }
func (v View) F64(offset int) float64 { return v.ctx.reader.F64(v.pos + offset) }

// named resolves a field and checks that n bytes at it are inside the file.
func (v View) named(name string, n int) (int, bool) {
	off, err := v.checked(name, n)
	return off, err == nil
}

func (v View) checked(name string, n int) (int, error) {
	off, err := v.FieldOffset(name)
	if err != nil {
		return -1, err
	}
	if !v.ctx.reader.InBounds(v.pos+off, n) {
		return -1, v.diagnose(KindOutOfBounds, name, 0, fmt.Sprintf("%d bytes at %d", n, v.pos+off))
	}

	return off, nil
}

// Named reads. An unknown field reads as zero and reports a diagnostic.

func (v View) Int8(name string) int8 {
	if off, ok := v.named(name, 1); ok {
		return v.I8(off)
	}

	return 0
}

func (v View) Uint8(name string) uint8 {
	if off, ok := v.named(name, 1); ok {
		return v.U8(off)
	}

	return 0
}

func (v View) Int16(name string) int16 {
	if off, ok := v.named(name, 2); ok {
		return v.I16(off)
	}

	return 0
}

func (v View) Int32(name string) int32 {
	if off, ok := v.named(name, 4); ok {
		return v.I32(off)
	}

	return 0
}

func (v View) Uint32(name string) uint32 {
	if off, ok := v.named(name, 4); ok {
		return v.U32(off)
	}

	return 0
}

func (v View) Int64(name string) int64 {
	if off, ok := v.named(name, 8); ok {
		return v.I64(off)
	}

	return 0
}

func (v View) Float32(name string) float32 {
	if off, ok := v.named(name, 4); ok {
		return v.F32(off)
	}

	return 0
}

func (v View) Float64(name string) float64 {
	if off, ok := v.named(name, 8); ok {
		return v.F64(off)
	}

	return 0
}

// Int reads an integer field with the width and signedness of its declared type.
// Pointers read as their address.
func (v View) Int(name string) int64 {
	f, err := v.Field(name)
	if err != nil {
		return 0
	}
	if f.IsPointer() {
		return int64(v.PointerValue(name)) //nolint: gosec
	}
	sc, _ := sdna.ScalarOf(f.Type.Name)
	if sc.Float {
		return int64(v.Float64Value(name))
	}
	off, ok := v.named(name, f.Type.Size)
	if !ok {
		return 0
	}

	return v.ReadScalar(off, f.Type.Size, sc.Signed)
}

// Float64Value reads a float or double field as float64.
func (v View) Float64Value(name string) float64 {
	f, err := v.Field(name)
	if err != nil {
		return 0
	}
	if f.Type.Name == "double" {
		return v.Float64(name)
	}

	return float64(v.Float32(name))
}

// Bool reads a one-byte flag field.
func (v View) Bool(name string) bool { return v.Uint8(name) != 0 }

// Float32s reads n consecutive floats starting at a field. n <= 0 reads the field's
// declared array length.
func (v View) Float32s(name string, n int) []float32 {
	f, err := v.Field(name)
	if err != nil {
		return nil
	}
	if n <= 0 {
		n = f.ArrayLen()
	}
	off, ok := v.named(name, 4*n)
	if !ok {
		return nil
	}

	out := make([]float32, n)
	for i := range out {
		out[i] = v.F32(off + 4*i)
	}

	return out
}

// Int32s reads n consecutive int32 values starting at a field, like Float32s.
func (v View) Int32s(name string, n int) []int32 {
	f, err := v.Field(name)
	if err != nil {
		return nil
	}
	if n <= 0 {
		n = f.ArrayLen()
	}
	off, ok := v.named(name, 4*n)
	if !ok {
		return nil
	}

	out := make([]int32, n)
	for i := range out {
		out[i] = v.I32(off + 4*i)
	}

	return out
}

// Matrix4 reads a float[4][4] field in storage order.
func (v View) Matrix4(name string) [16]float32 {
	var m [16]float32
	off, ok := v.named(name, 64)
	if !ok {
		return m
	}
	for i := range m {
		m[i] = v.F32(off + 4*i)
	}

	return m
}

// Identity4 is the identity matrix in Matrix4 layout.
var Identity4 = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// pointerField resolves a pointer field.
func (v View) pointerField(name string) (*sdna.Field, int, error) {
	f, err := v.Field(name)
	if err != nil {
		return nil, -1, err
	}
	if !f.IsPointer() {
		return nil, -1, v.diagnose(KindNotPointer, name, 0, f.String())
	}
	off, err := v.checked(name, v.ctx.PointerSize())
	if err != nil {
		return nil, -1, err
	}

	return f, off, nil
}

// PointerValue returns the raw address stored in a pointer field, 0 when absent.
func (v View) PointerValue(name string) uint64 {
	_, off, err := v.pointerField(name)
	if err != nil {
		return 0
	}

	return v.ctx.reader.Pointer(v.pos + off)
}

// Pointer follows a pointer field. A null pointer yields an invalid view and no error.
//
// Pointers declared with a struct type resolve to that struct. Pointers declared void
// take the struct of the block they point into. Pointer-to-pointer fields are followed
// one level; use PointerArray for those.
func (v View) Pointer(name string) (View, error) {
	f, off, err := v.pointerField(name)
	if err != nil {
		return View{}, err
	}
	addr := v.ctx.reader.Pointer(v.pos + off)

	declared := f.Type
	if f.PointerDepth > 1 || f.Func {
		declared = nil
	}

	return v.ctx.resolve(addr, declared, v.site(name))
}

// PointerTarget returns the block and file position a pointer field points to, for
// payloads that are not structs (float arrays, strings). b is nil for a null pointer.
func (v View) PointerTarget(name string) (pos int, b *block.Block, err error) {
	f, off, err := v.pointerField(name)
	if err != nil {
		return -1, nil, err
	}
	addr := v.ctx.reader.Pointer(v.pos + off)
	if addr == 0 {
		return -1, nil, nil
	}
	declared := f.Type
	if f.PointerDepth > 1 || f.Func {
		declared = nil
	}
	b, _, err = v.ctx.target(addr, declared, v.site(name))
	if err != nil {
		return -1, nil, err
	}

	return b.PositionOf(addr), b, nil
}

// Embedded returns a view of an inline struct member.
func (v View) Embedded(name string) (View, error) {
	f, err := v.Field(name)
	if err != nil {
		return View{}, err
	}
	if f.IsPointer() {
		return View{}, v.diagnose(KindNotEmbedded, name, 0, f.String())
	}
	st, ok := v.ctx.catalog.StructOrSynthetic(f.Type.Name)
	if !ok {
		return View{}, v.diagnose(KindNotEmbedded, name, 0, f.Type.Name+" is not a struct")
	}
	off, _ := v.st.Offset(name)

	return View{ctx: v.ctx, st: st, pos: v.pos + off}, nil
}

// FixedString reads a char array field up to the first NUL. maxLen <= 0 or a value
// larger than the field reads the whole field.
func (v View) FixedString(name string, maxLen int) (string, error) {
	f, err := v.Field(name)
	if err != nil {
		return "", err
	}
	size := f.Size(v.ctx.PointerSize())
	if maxLen <= 0 || maxLen > size {
		maxLen = size
	}
	off, _ := v.st.Offset(name)

	return v.ctx.reader.CString(v.pos+off, maxLen), nil
}

// Text is FixedString without the error; unknown fields read as "".
func (v View) Text(name string) string {
	s, _ := v.FixedString(name, 0)
	return s
}

// CharPointer reads the NUL-terminated text a char pointer field points to. The text
// ends at the end of the target block at the latest. A null pointer reads as "".
func (v View) CharPointer(name string) (string, error) {
	pos, b, err := v.PointerTarget(name)
	if err != nil || b == nil {
		return "", err
	}

	return v.ctx.reader.CString(pos, b.Offset+b.Size-pos), nil
}
