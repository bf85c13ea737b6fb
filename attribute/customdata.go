package attribute

import (
	"fmt"

	"github.com/arloliu/blend/block"
	"github.com/arloliu/blend/format"
	"github.com/arloliu/blend/view"
)

// layerStructs names the struct stored in the data block of each layer type.
var layerStructs = map[format.CustomDataType]string{
	format.CDMVert:          "MVert",
	format.CDMDeformVert:    "MDeformVert",
	format.CDMEdge:          "MEdge",
	format.CDMFace:          "MFace",
	format.CDMTFace:         "MTFace",
	format.CDMCol:           "MCol",
	format.CDMLoopUV:        "MLoopUV",
	format.CDMPoly:          "MPoly",
	format.CDMLoop:          "MLoop",
	format.CDPropFloat:      "MFloatProperty",
	format.CDPropInt32:      "MIntProperty",
	format.CDPropString:     "MStringProperty",
	format.CDPropByteColor:  "MLoopCol",
	format.CDPropColor:      "MPropCol",
	format.CDPropFloat2:     "vec2f",
	format.CDPropFloat3:     "vec3f",
	format.CDPropFloat4x4:   "float4x4",
	format.CDPropInt8:       "MInt8Property",
	format.CDPropInt16x2:    "vec2s",
	format.CDPropInt32x2:    "vec2i",
	format.CDPropBool:       "MBoolProperty",
	format.CDPropQuaternion: "vec4f",
}

// CustomData is the legacy layered storage of per-element data, such as the vdata and
// ldata members of a Mesh.
type CustomData struct {
	view.View
}

// NewCustomData wraps an embedded CustomData instance.
func NewCustomData(v view.View) CustomData { return CustomData{View: v} }

// Layers returns the layers in storage order.
func (c CustomData) Layers() ([]Layer, error) {
	if !c.Valid() {
		return nil, nil
	}
	arr, err := c.ArrayOf("layers", "totlayer")
	out := make([]Layer, 0, arr.Len())
	for _, v := range arr.All() {
		out = append(out, Layer{View: v})
	}

	return out, err
}

// Find returns the first layer with the given name.
func (c CustomData) Find(name string) (Layer, bool) {
	layers, _ := c.Layers()
	for _, l := range layers {
		if l.Name() == name {
			return l, true
		}
	}

	return Layer{}, false
}

// FindType returns the first layer of the given type.
func (c CustomData) FindType(t format.CustomDataType) (Layer, bool) {
	layers, _ := c.Layers()
	for _, l := range layers {
		if l.Type() == t {
			return l, true
		}
	}

	return Layer{}, false
}

// Lookup returns the named layer if it stores values of type dt. A missing layer or a
// layer of another type reports one diagnostic and returns it as the error.
func (c CustomData) Lookup(name string, dt format.DataType) (Layer, error) {
	l, ok := c.Find(name)
	if !ok {
		return Layer{}, c.Report(view.KindMissingLayer, "layers", name)
	}
	if got, ok := l.DataType(); !ok || got != dt {
		return Layer{}, c.Report(view.KindAttributeMismatch, "layers",
			fmt.Sprintf("layer %q is %s, want %s", name, l.Type(), dt))
	}

	return l, nil
}

// Layer is one CustomDataLayer.
type Layer struct {
	view.View
}

func (l Layer) Type() format.CustomDataType { return format.CustomDataType(l.Int32("type")) }
func (l Layer) Name() string                { return l.Text("name") }

// DataType returns the attribute type of a generic property layer.
func (l Layer) DataType() (format.DataType, bool) { return l.Type().DataType() }

// StructName returns the struct stored in the layer's data block, "" if not known.
func (l Layer) StructName() string { return layerStructs[l.Type()] }

// Elements returns the layer data as struct instances. count <= 0 reads to the end of the
// data block. Layer types without a known struct are typed by the data block.
func (l Layer) Elements(count int) (view.Array, error) {
	name := l.StructName()
	if name == "" {
		first, err := l.Pointer("data")
		if err != nil || !first.Valid() {
			return view.Array{}, err
		}

		return elements(l.View, first, first.Block(), count)
	}

	st, err := l.Context().Struct(name)
	if err != nil {
		return view.Array{}, err
	}
	pos, b, err := l.PointerTarget("data")
	if err != nil || b == nil {
		return view.Array{}, err
	}

	return elements(l.View, l.Context().ViewAt(st, pos), b, count)
}

func elements(owner, first view.View, b *block.Block, count int) (view.Array, error) {
	if b == nil || first.Size() == 0 {
		return view.Array{}, nil
	}
	avail := (b.Offset + b.Size - first.Position()) / first.Size()
	if count <= 0 {
		return view.NewArray(first, avail), nil
	}
	if count > avail {
		return view.NewArray(first, avail), owner.Report(view.KindOutOfBounds, "data",
			fmt.Sprintf("%d elements requested, block holds %d", count, avail))
	}

	return view.NewArray(first, count), nil
}

// Values returns the data of a generic property layer. count is the element count of the
// layer's domain; count <= 0 reads to the end of the data block.
func (l Layer) Values(count int) (TypedArray, error) {
	dt, ok := l.DataType()
	if !ok {
		return TypedArray{}, l.Report(view.KindAttributeMismatch, "type",
			fmt.Sprintf("layer %q of type %s is not a generic property", l.Name(), l.Type()))
	}

	return PointerValues(l.View, "data", dt, count)
}

// PointerValues reads values of type dt from the block a pointer field of v points to.
// count <= 0 reads to the end of the block; a larger count is clamped and reported.
func PointerValues(v view.View, field string, dt format.DataType, count int) (TypedArray, error) {
	pos, b, err := v.PointerTarget(field)
	if err != nil || b == nil {
		return TypedArray{}, err
	}

	return values(v, dt, pos, b, count)
}

// values builds a TypedArray inside block b, reporting counts that overrun it.
func values(owner view.View, dt format.DataType, pos int, b *block.Block, count int) (TypedArray, error) {
	r := owner.Context().Reader()
	avail := (b.Offset + b.Size - pos) / dt.Size()
	if count <= 0 {
		return NewTypedArray(r, dt, pos, avail), nil
	}
	if count > avail {
		return NewTypedArray(r, dt, pos, avail), owner.Report(view.KindOutOfBounds, "data",
			fmt.Sprintf("%d %s values declared, block holds %d", count, dt, avail))
	}

	return NewTypedArray(r, dt, pos, count), nil
}
