// Package mesh provides views of Mesh datablocks.
//
// Blender has stored mesh data in three layouts over the years: element arrays
// (mvert, mpoly, mloop, ...), CustomData layers named after the attribute
// ("position", ".corner_vert", ...) and, since 4.5, a generic AttributeStorage. The
// accessors of Mesh read whichever layout the file uses, in that order.
package mesh

import (
	"fmt"

	"github.com/arloliu/blend/attribute"
	"github.com/arloliu/blend/datablock"
	"github.com/arloliu/blend/format"
	"github.com/arloliu/blend/view"
)

// Attribute names used by files without element arrays.
const (
	AttrPosition      = "position"
	AttrCornerVert    = ".corner_vert"
	AttrCornerEdge    = ".corner_edge"
	AttrEdgeVerts     = ".edge_verts"
	AttrMaterialIndex = "material_index"
	AttrUVMap         = "UVMap"
)

// Mesh is a Mesh datablock.
type Mesh struct {
	view.View
}

// New wraps a Mesh view, e.g. the data of a mesh object.
func New(v view.View) Mesh { return Mesh{View: v} }

func (m Mesh) ID() datablock.ID { return datablock.IDOf(m.View) }
func (m Mesh) Name() string     { return m.ID().Name() }

// Element counts. Newer files renamed the counters.

func (m Mesh) VertCount() int   { return m.count("verts_num", "totvert") }
func (m Mesh) EdgeCount() int   { return m.count("edges_num", "totedge") }
func (m Mesh) FaceCount() int   { return m.count("faces_num", "totpoly") }
func (m Mesh) CornerCount() int { return m.count("corners_num", "totloop") }

func (m Mesh) count(names ...string) int {
	if name := m.firstField(names...); name != "" {
		return int(m.Int(name))
	}

	return 0
}

func (m Mesh) firstField(names ...string) string {
	for _, name := range names {
		if m.HasField(name) {
			return name
		}
	}

	return ""
}

// Materials returns the mesh-level material slots. Empty slots are invalid views.
func (m Mesh) Materials() ([]datablock.Material, error) {
	return datablock.MaterialSlots(m.View)
}

// Layered storage of each domain.

func (m Mesh) VertData() attribute.CustomData   { return m.customData("vert_data", "vdata") }
func (m Mesh) EdgeData() attribute.CustomData   { return m.customData("edge_data", "edata") }
func (m Mesh) FaceData() attribute.CustomData   { return m.customData("face_data", "pdata") }
func (m Mesh) CornerData() attribute.CustomData { return m.customData("corner_data", "ldata") }

func (m Mesh) customData(names ...string) attribute.CustomData {
	name := m.firstField(names...)
	if name == "" {
		return attribute.CustomData{}
	}
	v, err := m.Embedded(name)
	if err != nil {
		return attribute.CustomData{}
	}

	return attribute.NewCustomData(v)
}

// Attributes returns the generic attribute storage. Files before 4.5 have none and
// return an invalid Storage.
func (m Mesh) Attributes() attribute.Storage {
	if !m.HasField("attribute_storage") {
		return attribute.Storage{}
	}
	v, err := m.Embedded("attribute_storage")
	if err != nil {
		return attribute.Storage{}
	}

	return attribute.NewStorage(v)
}

// legacy returns the element array behind ptr, empty when the field is absent or null.
func (m Mesh) legacy(ptr string, countNames ...string) (view.Array, error) {
	if !m.HasField(ptr) || m.PointerValue(ptr) == 0 {
		return view.Array{}, nil
	}
	countField := m.firstField(countNames...)
	if countField == "" {
		return m.BlockArray(ptr)
	}

	return m.ArrayOf(ptr, countField)
}

// Verts returns the MVert array. Files that store positions as attributes return nil.
func (m Mesh) Verts() ([]Vert, error) {
	arr, err := m.legacy("mvert", "totvert")
	if arr.Len() == 0 {
		return nil, err
	}
	no := offsetOf(arr.Struct(), "no")
	out := make([]Vert, arr.Len())
	for i, v := range arr.All() {
		out[i] = Vert{View: v, no: no}
	}

	return out, err
}

func (m Mesh) Edges() ([]Edge, error) {
	arr, err := m.legacy("medge", "totedge")
	return wrap(arr, func(v view.View) Edge { return Edge{View: v} }), err
}

func (m Mesh) Polys() ([]Poly, error) {
	arr, err := m.legacy("mpoly", "totpoly")
	return wrap(arr, func(v view.View) Poly { return Poly{View: v} }), err
}

func (m Mesh) Loops() ([]Loop, error) {
	arr, err := m.legacy("mloop", "totloop")
	return wrap(arr, func(v view.View) Loop { return Loop{View: v} }), err
}

func (m Mesh) LoopUVs() ([]LoopUV, error) {
	arr, err := m.legacy("mloopuv", "totloop")
	return wrap(arr, func(v view.View) LoopUV { return LoopUV{View: v} }), err
}

func (m Mesh) LoopCols() ([]LoopCol, error) {
	arr, err := m.legacy("mloopcol", "totloop")
	return wrap(arr, func(v view.View) LoopCol { return LoopCol{View: v} }), err
}

func wrap[T any](arr view.Array, fn func(view.View) T) []T {
	if arr.Len() == 0 {
		return nil
	}
	out := make([]T, arr.Len())
	for i, v := range arr.All() {
		out[i] = fn(v)
	}

	return out
}

// column holds the values of a named attribute. A single-value attribute holds one
// value that applies to every element.
type column struct {
	attribute.TypedArray
	single bool
}

// index maps an element index to a value index.
func (c column) index(i int) int {
	if c.single {
		return 0
	}

	return i
}

// expand reads the values of c for a domain of n elements. A single-value column
// repeats its value n times; other columns yield what they hold.
func expand[T any](c column, n int, at func(attribute.TypedArray, int) T) []T {
	if c.Len() == 0 {
		return nil
	}
	if !c.single {
		n = c.Len()
	}
	if n <= 0 {
		return nil
	}
	out := make([]T, n)
	for i := range out {
		out[i] = at(c.TypedArray, c.index(i))
	}

	return out
}

// lookup finds a named attribute in the attribute storage or, failing that, in the
// layers of cd. count is the element count of the domain.
//
// found is false when neither holds the name; nothing is reported then. A name with
// the wrong data type reports one mismatch.
func (m Mesh) lookup(cd attribute.CustomData, name string, dt format.DataType, count int) (column, bool, error) {
	if a, ok := m.Attributes().Find(name); ok {
		got := format.DataType(a.Int("data_type")) //nolint: gosec
		if got != dt {
			return column{}, true, a.Report(view.KindAttributeMismatch, "data_type",
				fmt.Sprintf("%q is %s, want %s", name, got, dt))
		}
		kind, err := a.StorageKind()
		if err != nil {
			return column{}, true, err
		}
		vals, err := a.Values()

		return column{TypedArray: vals, single: kind == format.StorageSingle}, true, err
	}

	if l, ok := cd.Find(name); ok {
		if got, ok := l.DataType(); !ok || got != dt {
			return column{}, true, l.Report(view.KindAttributeMismatch, "type",
				fmt.Sprintf("layer %q is %s, want %s", name, l.Type(), dt))
		}
		vals, err := l.Values(count)

		return column{TypedArray: vals}, true, err
	}

	return column{}, false, nil
}

// lookupRequired is lookup for attributes every mesh of the layout has. A missing
// name reports one MissingLayer diagnostic.
func (m Mesh) lookupRequired(cd attribute.CustomData, name string, dt format.DataType, count int) (column, error) {
	col, found, err := m.lookup(cd, name, dt, count)
	if !found {
		return column{}, m.Report(view.KindMissingLayer, "", name)
	}

	return col, err
}

// Positions returns the vertex positions.
func (m Mesh) Positions() ([][3]float32, error) {
	verts, err := m.Verts()
	if verts != nil {
		out := make([][3]float32, len(verts))
		for i, v := range verts {
			out[i] = v.Position()
		}

		return out, err
	}

	n := m.VertCount()
	col, err := m.lookupRequired(m.VertData(), AttrPosition, format.DataTypeFloat3, n)

	return expand(col, n, attribute.TypedArray.Float3), err
}

// Normals returns the vertex normals stored in MVert. Files that no longer store them
// return nil and the caller derives normals from the faces.
func (m Mesh) Normals() [][3]float32 {
	verts, _ := m.Verts()
	if len(verts) == 0 || !verts[0].HasNormal() {
		return nil
	}
	out := make([][3]float32, len(verts))
	for i, v := range verts {
		out[i] = v.Normal()
	}

	return out
}

// EdgeVerts returns the vertex pair of each edge.
func (m Mesh) EdgeVerts() ([][2]int32, error) {
	edges, err := m.Edges()
	if edges != nil {
		out := make([][2]int32, len(edges))
		for i, e := range edges {
			out[i] = [2]int32{e.V1(), e.V2()}
		}

		return out, err
	}
	if m.EdgeCount() == 0 {
		return nil, err
	}

	n := m.EdgeCount()
	col, err := m.lookupRequired(m.EdgeData(), AttrEdgeVerts, format.DataTypeInt32x2, n)

	return expand(col, n, attribute.TypedArray.Int32x2), err
}

// CornerVerts returns the vertex index of each face corner.
func (m Mesh) CornerVerts() ([]int32, error) {
	return m.corners(Loop.Vert, AttrCornerVert)
}

// CornerEdges returns the edge index of each face corner.
func (m Mesh) CornerEdges() ([]int32, error) {
	return m.corners(Loop.Edge, AttrCornerEdge)
}

func (m Mesh) corners(field func(Loop) int32, name string) ([]int32, error) {
	loops, err := m.Loops()
	if loops != nil {
		out := make([]int32, len(loops))
		for i, l := range loops {
			out[i] = field(l)
		}

		return out, err
	}
	if m.CornerCount() == 0 {
		return nil, err
	}

	n := m.CornerCount()
	col, err := m.lookupRequired(m.CornerData(), name, format.DataTypeInt32, n)

	return expand(col, n, attribute.TypedArray.Int32), err
}

// Face is a run of corners.
type Face struct {
	Start int
	Size  int
}

// FaceOffsets returns FaceCount()+1 offsets into the corner arrays; face i spans
// offsets[i] to offsets[i+1]. Files with MPoly records derive them from the records.
func (m Mesh) FaceOffsets() ([]int32, error) {
	if m.HasField("face_offset_indices") {
		n := m.FaceCount()
		if n <= 0 {
			return nil, nil
		}
		vals, err := attribute.PointerValues(m.View, "face_offset_indices", format.DataTypeInt32, n+1)

		return vals.Int32s(), err
	}

	polys, err := m.Polys()
	if polys == nil {
		return nil, err
	}
	out := make([]int32, len(polys)+1)
	for i, p := range polys {
		out[i] = p.LoopStart()
	}
	last := polys[len(polys)-1]
	out[len(polys)] = last.LoopStart() + last.LoopCount()

	return out, err
}

// Faces returns the corner run of each face.
func (m Mesh) Faces() ([]Face, error) {
	offsets, err := m.FaceOffsets()
	if len(offsets) < 2 {
		return nil, err
	}
	out := make([]Face, len(offsets)-1)
	for i := range out {
		out[i] = Face{Start: int(offsets[i]), Size: int(offsets[i+1] - offsets[i])}
	}

	return out, err
}

// MaterialIndices returns the material slot of each face. Meshes that never assigned
// materials store no indices; they read as zeros.
func (m Mesh) MaterialIndices() ([]int32, error) {
	n := m.FaceCount()
	col, found, err := m.lookup(m.FaceData(), AttrMaterialIndex, format.DataTypeInt32, n)
	if found {
		if err != nil {
			return nil, err
		}

		return expand(col, n, attribute.TypedArray.Int32), nil
	}

	polys, err := m.Polys()
	if polys != nil && polys[0].HasField("mat_nr") {
		out := make([]int32, len(polys))
		for i, p := range polys {
			out[i] = int32(p.MaterialIndex())
		}

		return out, err
	}
	if n <= 0 {
		return nil, err
	}

	return make([]int32, n), err
}

// UVs returns the first UV map per corner, or nil when the mesh has none. It looks at
// the mloopuv array, then an MLoopUV layer, then a float2 "UVMap" attribute.
func (m Mesh) UVs() ([][2]float32, error) {
	loops, err := m.LoopUVs()
	if loops != nil {
		return uvsOf(loops), err
	}

	if l, ok := m.CornerData().FindType(format.CDMLoopUV); ok {
		arr, err := l.Elements(m.CornerCount())
		return uvsOf(wrap(arr, func(v view.View) LoopUV { return LoopUV{View: v} })), err
	}

	n := m.CornerCount()
	col, found, err := m.lookup(m.CornerData(), AttrUVMap, format.DataTypeFloat2, n)
	if !found {
		return nil, nil
	}

	return expand(col, n, attribute.TypedArray.Float2), err
}

func uvsOf(loops []LoopUV) [][2]float32 {
	if loops == nil {
		return nil
	}
	out := make([][2]float32, len(loops))
	for i, l := range loops {
		out[i] = l.UV()
	}

	return out
}

// Colors returns the first byte color per corner, or nil when the mesh has none.
func (m Mesh) Colors() ([][4]uint8, error) {
	cols, err := m.LoopCols()
	if cols != nil {
		out := make([][4]uint8, len(cols))
		for i, c := range cols {
			out[i] = c.RGBA()
		}

		return out, err
	}

	n := m.CornerCount()
	var col column
	if l, ok := m.CornerData().FindType(format.CDPropByteColor); ok {
		col.TypedArray, err = l.Values(n)
	} else if a, ok := m.cornerColor(); ok {
		kind, kerr := a.StorageKind()
		col.single = kerr == nil && kind == format.StorageSingle
		col.TypedArray, err = a.Values()
	}

	return expand(col, n, attribute.TypedArray.ColorByte), err
}

// cornerColor finds the first byte color attribute on the corner domain.
func (m Mesh) cornerColor() (attribute.Attribute, bool) {
	attrs, _ := m.Attributes().Attributes()
	for _, a := range attrs {
		if format.DataType(a.Int("data_type")) == format.DataTypeColorByte && //nolint: gosec
			format.Domain(a.Int("domain")) == format.DomainCorner { //nolint: gosec
			return a, true
		}
	}

	return attribute.Attribute{}, false
}
