package view

import (
	"fmt"
	"iter"

	"github.com/arloliu/blend/block"
	"github.com/arloliu/blend/sdna"
)

// Array is a run of consecutive struct instances. Elements are computed on access.
type Array struct {
	ctx    *Context
	st     *sdna.Struct
	base   int
	count  int
	stride int
}

// NewArray returns count elements starting at first.
func NewArray(first View, count int) Array {
	if !first.Valid() || count <= 0 {
		return Array{}
	}

	return Array{ctx: first.ctx, st: first.st, base: first.pos, count: count, stride: first.st.Size()}
}

func (a Array) Len() int             { return a.count }
func (a Array) Struct() *sdna.Struct { return a.st }
func (a Array) Stride() int          { return a.stride }

// At returns element i, or an invalid view when i is out of range.
func (a Array) At(i int) View {
	if i < 0 || i >= a.count {
		return View{}
	}

	return View{ctx: a.ctx, st: a.st, pos: a.base + i*a.stride}
}

// All yields index and element pairs.
func (a Array) All() iter.Seq2[int, View] {
	return func(yield func(int, View) bool) {
		for i := range a.count {
			if !yield(i, a.At(i)) {
				return
			}
		}
	}
}

// clampToBlock shortens count so the array does not run past the end of b.
func (v View) clampToBlock(field string, b *block.Block, pos, stride, count int) (int, error) {
	if stride <= 0 {
		return 0, nil
	}
	avail := (b.Offset + b.Size - pos) / stride
	if count <= avail {
		return count, nil
	}

	return avail, v.diagnose(KindOutOfBounds, field, b.AddressOf(pos),
		fmt.Sprintf("%d elements of %d bytes declared, block holds %d", count, stride, avail))
}

// ArrayOf returns the array a pointer field points to, with its length read from a
// count field of the same struct. A null pointer yields an empty array.
//
// A count larger than the target block is clamped and reported.
func (v View) ArrayOf(ptrField, countField string) (Array, error) {
	first, err := v.Pointer(ptrField)
	if err != nil || !first.Valid() {
		return Array{}, err
	}
	count, err := v.countOf(countField)
	if err != nil {
		return Array{}, err
	}

	return first.arrayIn(ptrField, count)
}

func (v View) countOf(field string) (int, error) {
	if _, err := v.Field(field); err != nil {
		return 0, err
	}

	return int(v.Int(field)), nil
}

func (v View) arrayIn(field string, count int) (Array, error) {
	b := v.Block()
	if b == nil {
		return Array{}, nil
	}
	n, err := v.clampToBlock(field, b, v.pos, v.Size(), count)

	return NewArray(v, n), err
}

// BlockArray returns the array a pointer field points to, running to the end of the
// target block.
func (v View) BlockArray(ptrField string) (Array, error) {
	first, err := v.Pointer(ptrField)
	if err != nil || !first.Valid() {
		return Array{}, err
	}
	b := first.Block()
	if b == nil || first.Size() == 0 {
		return Array{}, nil
	}

	return NewArray(first, (b.Offset+b.Size-first.pos)/first.Size()), nil
}

// PointerArray follows a pointer-to-pointer field such as "**mat" and resolves count
// element pointers. Null elements are returned as invalid views. count <= 0 takes the
// length from the target block.
func (v View) PointerArray(field string, count int) ([]View, error) {
	f, err := v.Field(field)
	if err != nil {
		return nil, err
	}
	if f.PointerDepth < 2 {
		return nil, v.diagnose(KindNotPointer, field, 0, f.String()+" is not a pointer array")
	}
	pos, b, err := v.PointerTarget(field)
	if err != nil || b == nil {
		return nil, err
	}

	ps := v.ctx.PointerSize()
	if count <= 0 {
		count = (b.Offset + b.Size - pos) / ps
	}
	count, clampErr := v.clampToBlock(field, b, pos, ps, count)

	var elem *sdna.Type
	if f.PointerDepth == 2 {
		elem = f.Type
	}

	out := make([]View, count)
	for i := range out {
		addr := v.ctx.reader.Pointer(pos + i*ps)
		// A dangling element keeps the rest of the array usable.
		out[i], _ = v.ctx.resolve(addr, elem, v.site(field))
	}

	return out, clampErr
}
