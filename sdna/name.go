package sdna

import (
	"strconv"
	"strings"
)

// FieldName is a decorated field name split into its parts.
//
// The catalog stores names the way they are declared in C:
//
//	"co[3]"        array of 3
//	"*next"        pointer
//	"**mat"        pointer to pointer
//	"(*func)()"    function pointer
//	"uv[8][2]"     two-dimensional array, 16 elements
type FieldName struct {
	// Name is the canonical name used for lookups, without decorations.
	Name string
	// PointerDepth is the number of leading '*'; function pointers have depth 1.
	PointerDepth int
	// Func reports a function pointer.
	Func bool
	// Dims holds the array dimensions in declaration order.
	Dims []int
}

// ArrayLen returns the product of all dimensions, or 1 for a scalar field.
func (n FieldName) ArrayLen() int {
	total := 1
	for _, d := range n.Dims {
		total *= d
	}

	return total
}

// IsPointer reports whether the field stores an address.
func (n FieldName) IsPointer() bool { return n.PointerDepth > 0 }

// ParseFieldName splits a decorated name. Dimensions that are not plain integers count
// as 1, and whitespace is ignored.
func ParseFieldName(decorated string) FieldName {
	s := strings.Join(strings.Fields(decorated), "")

	var n FieldName
	if strings.HasPrefix(s, "(*") {
		n.Func = true
		n.PointerDepth = 1
		s = s[2:]
		if i := strings.IndexByte(s, ')'); i >= 0 {
			s = s[:i]
		}
	}

	for strings.HasPrefix(s, "*") {
		n.PointerDepth++
		s = s[1:]
	}

	if i := strings.IndexByte(s, '['); i >= 0 {
		n.Dims = parseDims(s[i:])
		s = s[:i]
	}
	n.Name = s

	return n
}

// CanonicalName strips the decorations of a field name, so "*next" and "co[3]" can be
// used as lookup keys interchangeably with "next" and "co".
func CanonicalName(name string) string {
	if strings.ContainsAny(name, "*[( ") {
		return ParseFieldName(name).Name
	}

	return name
}

func parseDims(s string) []int {
	var dims []int
	for len(s) > 0 && s[0] == '[' {
		end := strings.IndexByte(s, ']')
		if end < 0 {
			break
		}
		d, err := strconv.Atoi(s[1:end])
		if err != nil || d < 1 {
			d = 1
		}
		dims = append(dims, d)
		s = s[end+1:]
	}

	return dims
}
