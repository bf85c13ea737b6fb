package attribute

import (
	"github.com/arloliu/blend/endian"
	"github.com/arloliu/blend/format"
)

// TypedArray is a run of attribute values of one data type in the file image.
// Values are decoded on access.
//
// Element readers do not check the data type of the array; call them only for the type
// reported by Type. An index out of range reads as the zero value.
type TypedArray struct {
	r     endian.Reader
	typ   format.DataType
	pos   int
	count int
}

// NewTypedArray returns count values of typ starting at file position pos. The count is
// shortened so that the array stays inside the file.
func NewTypedArray(r endian.Reader, typ format.DataType, pos, count int) TypedArray {
	stride := typ.Size()
	if stride == 0 || count <= 0 || pos < 0 {
		return TypedArray{r: r, typ: typ, pos: pos}
	}
	if avail := (r.Len() - pos) / stride; count > avail {
		count = max(avail, 0)
	}

	return TypedArray{r: r, typ: typ, pos: pos, count: count}
}

func (a TypedArray) Len() int              { return a.count }
func (a TypedArray) Type() format.DataType { return a.typ }
func (a TypedArray) Position() int         { return a.pos }
func (a TypedArray) Stride() int           { return a.typ.Size() }

// at returns the file position of element i.
func (a TypedArray) at(i int) (int, bool) {
	if i < 0 || i >= a.count {
		return 0, false
	}

	return a.pos + i*a.typ.Size(), true
}

func (a TypedArray) f32s(i int, out []float32) {
	p, ok := a.at(i)
	if !ok {
		return
	}
	for k := range out {
		out[k] = a.r.F32(p + 4*k)
	}
}

func (a TypedArray) Float(i int) float32 {
	var v [1]float32
	a.f32s(i, v[:])

	return v[0]
}

func (a TypedArray) Float2(i int) [2]float32 {
	var v [2]float32
	a.f32s(i, v[:])

	return v
}

func (a TypedArray) Float3(i int) [3]float32 {
	var v [3]float32
	a.f32s(i, v[:])

	return v
}

// ColorFloat returns a linear RGBA color.
func (a TypedArray) ColorFloat(i int) [4]float32 {
	var v [4]float32
	a.f32s(i, v[:])

	return v
}

// Quaternion returns the rotation as w, x, y, z.
func (a TypedArray) Quaternion(i int) [4]float32 {
	var v [4]float32
	a.f32s(i, v[:])

	return v
}

// Float4x4 returns a matrix in storage (column-major) order.
func (a TypedArray) Float4x4(i int) [16]float32 {
	var v [16]float32
	a.f32s(i, v[:])

	return v
}

func (a TypedArray) Int32(i int) int32 {
	p, ok := a.at(i)
	if !ok {
		return 0
	}

	return a.r.I32(p)
}

func (a TypedArray) Int32x2(i int) [2]int32 {
	p, ok := a.at(i)
	if !ok {
		return [2]int32{}
	}

	return [2]int32{a.r.I32(p), a.r.I32(p + 4)}
}

func (a TypedArray) Int16x2(i int) [2]int16 {
	p, ok := a.at(i)
	if !ok {
		return [2]int16{}
	}

	return [2]int16{a.r.I16(p), a.r.I16(p + 2)}
}

func (a TypedArray) Int8(i int) int8 {
	p, ok := a.at(i)
	if !ok {
		return 0
	}

	return a.r.I8(p)
}

func (a TypedArray) Bool(i int) bool {
	p, ok := a.at(i)
	return ok && a.r.U8(p) != 0
}

// ColorByte returns an sRGB color as r, g, b, a bytes.
func (a TypedArray) ColorByte(i int) [4]uint8 {
	p, ok := a.at(i)
	if !ok {
		return [4]uint8{}
	}

	return [4]uint8{a.r.U8(p), a.r.U8(p + 1), a.r.U8(p + 2), a.r.U8(p + 3)}
}

// stringCap is the capacity of the character buffer of a string property.
const stringCap = 255

// String returns a string property. Strings are stored in a fixed buffer followed by a
// length byte.
func (a TypedArray) String(i int) string {
	p, ok := a.at(i)
	if !ok {
		return ""
	}
	n := int(a.r.U8(p + stringCap))
	if n > stringCap {
		n = stringCap
	}

	return a.r.CString(p, n)
}

// Bulk readers.

// Floats returns all values of a Float array.
func (a TypedArray) Floats() []float32 {
	out := make([]float32, a.count)
	for i := range out {
		out[i] = a.Float(i)
	}

	return out
}

// Float2s returns all values of a Float2 array.
func (a TypedArray) Float2s() [][2]float32 {
	out := make([][2]float32, a.count)
	for i := range out {
		out[i] = a.Float2(i)
	}

	return out
}

// Float3s returns all values of a Float3 array.
func (a TypedArray) Float3s() [][3]float32 {
	out := make([][3]float32, a.count)
	for i := range out {
		out[i] = a.Float3(i)
	}

	return out
}

// Int32s returns all values of an Int32 array.
func (a TypedArray) Int32s() []int32 {
	out := make([]int32, a.count)
	for i := range out {
		out[i] = a.Int32(i)
	}

	return out
}

// Int32x2s returns all values of an Int32x2 array.
func (a TypedArray) Int32x2s() [][2]int32 {
	out := make([][2]int32, a.count)
	for i := range out {
		out[i] = a.Int32x2(i)
	}

	return out
}

// Bools returns all values of a Bool array.
func (a TypedArray) Bools() []bool {
	out := make([]bool, a.count)
	for i := range out {
		out[i] = a.Bool(i)
	}

	return out
}
