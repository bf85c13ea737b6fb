package sdna

// Scalar describes how a primitive type is read.
type Scalar struct {
	Signed bool
	Float  bool
}

var primitives = map[string]Scalar{
	"char":     {Signed: true},
	"uchar":    {},
	"short":    {Signed: true},
	"ushort":   {},
	"int":      {Signed: true},
	"uint":     {},
	"long":     {Signed: true},
	"ulong":    {},
	"int8_t":   {Signed: true},
	"uint8_t":  {},
	"int16_t":  {Signed: true},
	"uint16_t": {},
	"int32_t":  {Signed: true},
	"uint32_t": {},
	"int64_t":  {Signed: true},
	"uint64_t": {},
	"float":    {Signed: true, Float: true},
	"double":   {Signed: true, Float: true},
}

// ScalarOf reports how values of the named primitive type are decoded. Struct types,
// void and unknown names report false.
func ScalarOf(typeName string) (Scalar, bool) {
	s, ok := primitives[typeName]
	return s, ok
}

// IsVoid reports whether a pointer of this declared type carries no type information,
// so the pointee struct has to be taken from the block it resolves to.
func (t *Type) IsVoid() bool {
	return t == nil || t.Name == "void" || t.Size == 0
}
