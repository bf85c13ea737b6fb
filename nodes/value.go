package nodes

import (
	"github.com/arloliu/blend/view"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	ValueNone ValueKind = iota
	ValueFloat
	ValueInt
	ValueBool
	ValueVector
	ValueColor
	ValueRotation
	ValueString
	// ValueOther is a default value of a struct this package does not decode.
	ValueOther
)

func (k ValueKind) String() string {
	switch k {
	case ValueNone:
		return "None"
	case ValueFloat:
		return "Float"
	case ValueInt:
		return "Int"
	case ValueBool:
		return "Bool"
	case ValueVector:
		return "Vector"
	case ValueColor:
		return "Color"
	case ValueRotation:
		return "Rotation"
	case ValueString:
		return "String"
	default:
		return "Other"
	}
}

var valueKinds = map[string]ValueKind{
	"bNodeSocketValueFloat":    ValueFloat,
	"bNodeSocketValueInt":      ValueInt,
	"bNodeSocketValueBoolean":  ValueBool,
	"bNodeSocketValueVector":   ValueVector,
	"bNodeSocketValueRGBA":     ValueColor,
	"bNodeSocketValueRotation": ValueRotation,
	"bNodeSocketValueString":   ValueString,
}

// Value is the default value of a socket. Floats, vectors, colors and rotations are
// stored in Floats; Int and Bool hold the scalar variants.
type Value struct {
	Kind   ValueKind
	Floats []float32
	Int    int32
	Bool   bool
	String string
	// Min and Max bound float and int values when the file stores a range.
	Min, Max float32
	// View is the underlying bNodeSocketValue* instance.
	View view.View
}

func valueOf(v view.View) Value {
	kind, ok := valueKinds[v.TypeName()]
	if !ok {
		return Value{Kind: ValueOther, View: v}
	}

	out := Value{Kind: kind, View: v}
	switch kind {
	case ValueFloat:
		out.Floats = []float32{v.Float32("value")}
		out.Min, out.Max = rangeOf(v)
	case ValueInt:
		out.Int = v.Int32("value")
		if v.HasField("min") {
			out.Min, out.Max = float32(v.Int32("min")), float32(v.Int32("max"))
		}
	case ValueBool:
		out.Bool = v.Bool("value")
	case ValueVector:
		out.Floats = v.Float32s("value", 0)
		out.Min, out.Max = rangeOf(v)
	case ValueColor:
		out.Floats = v.Float32s("value", 4)
	case ValueRotation:
		out.Floats = v.Float32s("value_euler", 3)
	case ValueString:
		out.String = v.Text("value")
	}

	return out
}

func rangeOf(v view.View) (lo, hi float32) {
	if !v.HasField("min") || !v.HasField("max") {
		return 0, 0
	}

	return v.Float32("min"), v.Float32("max")
}

// Vec4 widens the value to four components: scalars are repeated, 3-vectors get w = 1
// and bools become 0 or 1.
func (v Value) Vec4() [4]float32 {
	switch v.Kind {
	case ValueInt:
		f := float32(v.Int)
		return [4]float32{f, f, f, f}
	case ValueBool:
		var f float32
		if v.Bool {
			f = 1
		}

		return [4]float32{f, f, f, f}
	}

	switch len(v.Floats) {
	case 0:
		return [4]float32{}
	case 1:
		f := v.Floats[0]
		return [4]float32{f, f, f, f}
	case 3:
		return [4]float32{v.Floats[0], v.Floats[1], v.Floats[2], 1}
	default:
		var out [4]float32
		copy(out[:], v.Floats)

		return out
	}
}
