package sdna

import "sync"

// Built-in definitions for small value types that the domain views read through the
// struct layer even when a file's catalog does not declare them, e.g. the float3 payload
// of a "position" attribute.
var syntheticDefs = map[string][][2]string{
	"vec2f":           {{"float", "x"}, {"float", "y"}},
	"vec3f":           {{"float", "x"}, {"float", "y"}, {"float", "z"}},
	"vec4f":           {{"float", "x"}, {"float", "y"}, {"float", "z"}, {"float", "w"}},
	"vec2i":           {{"int", "x"}, {"int", "y"}},
	"vec2s":           {{"short", "x"}, {"short", "y"}},
	"float4x4":        {{"float", "values[4][4]"}},
	"MIntProperty":    {{"int", "i"}},
	"MFloatProperty":  {{"float", "f"}},
	"MStringProperty": {{"char", "s[255]"}, {"uint8_t", "s_len"}},
	"MBoolProperty":   {{"uint8_t", "b"}},
	"MInt8Property":   {{"int8_t", "i"}},
	"MLoopCol":        {{"uchar", "r"}, {"uchar", "g"}, {"uchar", "b"}, {"uchar", "a"}},
	"MPropCol":        {{"float", "color[4]"}},
}

var syntheticPrimitiveSizes = map[string]int{
	"float":   4,
	"int":     4,
	"short":   2,
	"char":    1,
	"uchar":   1,
	"uint8_t": 1,
	"int8_t":  1,
}

// registry is shared by all files; it is filled lazily and never shrinks.
var registry = struct {
	mu      sync.Mutex
	structs map[string]*Struct
}{structs: make(map[string]*Struct)}

// Synthetic returns the built-in definition of a small value type. The same *Struct is
// returned on every call with the same name.
func Synthetic(name string) (*Struct, bool) {
	defs, ok := syntheticDefs[name]
	if !ok {
		return nil, false
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if s, ok := registry.structs[name]; ok {
		return s, true
	}

	fields := make([]Field, len(defs))
	size := 0
	for i, def := range defs {
		typ := &Type{Name: def[0], Size: syntheticPrimitiveSizes[def[0]], Index: -1}
		fields[i] = Field{FieldName: ParseFieldName(def[1]), Decorated: def[1], Type: typ, Index: i}
		size += fields[i].Size(0)
	}

	// Synthetic types hold no pointers, so the pointer width does not matter.
	s := newStruct(-1, &Type{Name: name, Size: size, Index: -1}, fields, 8)
	registry.structs[name] = s

	return s, true
}

// SyntheticNames lists the names Synthetic knows.
func SyntheticNames() []string {
	out := make([]string, 0, len(syntheticDefs))
	for name := range syntheticDefs {
		out = append(out, name)
	}

	return out
}
