package mesh

import (
	"github.com/arloliu/blend/sdna"
	"github.com/arloliu/blend/view"
)

// normalScale converts the packed short normals of MVert to unit floats.
const normalScale = 32767

// offsetOf returns the offset of a field in st, -1 if st does not declare it.
func offsetOf(st *sdna.Struct, name string) int {
	if st == nil {
		return -1
	}
	if off, ok := st.Offset(name); ok {
		return off
	}

	return -1
}

// Vert is an MVert, the vertex record of files before 3.5.
type Vert struct {
	view.View
	// no is the offset of the packed normal, -1 when the struct has none.
	no int
}

// NewVert wraps an MVert view.
func NewVert(v view.View) Vert { return Vert{View: v, no: offsetOf(v.Struct(), "no")} }

func (v Vert) Position() [3]float32 { return vec3(v.View, "co") }

// HasNormal reports whether the record stores a normal. Blender dropped it in 3.1.
func (v Vert) HasNormal() bool { return v.no >= 0 }

// Normal returns the stored normal, zero when HasNormal is false.
func (v Vert) Normal() [3]float32 {
	var n [3]float32
	if !v.HasNormal() || !v.Valid() {
		return n
	}
	for i := range n {
		n[i] = float32(v.I16(v.no+2*i)) / normalScale
	}

	return n
}

// Edge is an MEdge.
type Edge struct {
	view.View
}

func (e Edge) V1() int32 { return e.Int32("v1") }
func (e Edge) V2() int32 { return e.Int32("v2") }

// Poly is an MPoly: a face as a run of corners in the loop array.
type Poly struct {
	view.View
}

func (p Poly) LoopStart() int32     { return p.Int32("loopstart") }
func (p Poly) LoopCount() int32     { return p.Int32("totloop") }
func (p Poly) MaterialIndex() int16 { return p.Int16("mat_nr") }

// Loop is an MLoop, one face corner.
type Loop struct {
	view.View
}

func (l Loop) Vert() int32 { return l.Int32("v") }
func (l Loop) Edge() int32 { return l.Int32("e") }

// LoopUV is an MLoopUV.
type LoopUV struct {
	view.View
}

func (l LoopUV) UV() [2]float32 {
	var uv [2]float32
	copy(uv[:], l.Float32s("uv", 2))

	return uv
}

// LoopCol is an MLoopCol, a byte color per corner.
type LoopCol struct {
	view.View
}

func (l LoopCol) RGBA() [4]uint8 {
	return [4]uint8{l.Uint8("r"), l.Uint8("g"), l.Uint8("b"), l.Uint8("a")}
}

func vec3(v view.View, name string) [3]float32 {
	var out [3]float32
	copy(out[:], v.Float32s(name, 3))

	return out
}
