package mesh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/blend"
	"github.com/arloliu/blend/datablock"
	"github.com/arloliu/blend/errs"
	"github.com/arloliu/blend/format"
	"github.com/arloliu/blend/internal/fixture"
	"github.com/arloliu/blend/view"
)

func parse(t *testing.T, b *fixture.Builder) (*blend.File, *view.Collector) {
	t.Helper()

	diags := &view.Collector{}
	f, err := blend.Parse(b.Bytes(), blend.WithDiagnostics(diags.Handle))
	require.NoError(t, err)

	return f, diags
}

func meshAt(t *testing.T, f *blend.File, addr uint64) Mesh {
	t.Helper()

	v, err := f.Context().Resolve(addr, nil)
	require.NoError(t, err)
	require.True(t, v.Valid())

	return New(v)
}

// elementMesh is a triangle stored in MVert/MEdge/MPoly/MLoop arrays, instantiated by
// an object.
func elementMesh(totvert int64) *fixture.Builder {
	b := fixture.New().BlenderLegacy()

	mesh := b.Record("Mesh", 1).ID(0, "id", "METri").Ptr(0, "mat", 0x1800).
		Ptr(0, "mvert", 0x2000).Ptr(0, "medge", 0x2100).Ptr(0, "mpoly", 0x2200).Ptr(0, "mloop", 0x2300).
		Ptr(0, "mloopuv", 0x2400).Ptr(0, "mloopcol", 0x2500).
		Int(0, "totvert", totvert).Int(0, "totedge", 3).Int(0, "totpoly", 1).Int(0, "totloop", 3).Int(0, "totcol", 1)
	b.Block("ME", "Mesh", 0x1000, 1, mesh.Bytes())
	b.RawBlock("DATA", 0, 0x1800, 1, b.Pointers(0x2700))

	verts := b.Record("MVert", 3).
		Float(0, "co", 0, 0, 0).Float(1, "co", 1, 0, 0).Float(2, "co", 0, 1, 0).
		Int(0, "no", 0, 0, 32767).Int(1, "no", 0, 0, 32767).Int(2, "no", 0, -32767, 0)
	b.Block("DATA", "MVert", 0x2000, 3, verts.Bytes())

	edges := b.Record("MEdge", 3).Int(0, "v2", 1).Int(1, "v1", 1).Int(1, "v2", 2).Int(2, "v1", 2)
	b.Block("DATA", "MEdge", 0x2100, 3, edges.Bytes())
	b.Block("DATA", "MPoly", 0x2200, 1, b.Record("MPoly", 1).Int(0, "totloop", 3).Bytes())

	loops := b.Record("MLoop", 3).Int(1, "v", 1).Int(1, "e", 1).Int(2, "v", 2).Int(2, "e", 2)
	b.Block("DATA", "MLoop", 0x2300, 3, loops.Bytes())
	uvs := b.Record("MLoopUV", 3).Float(1, "uv", 1, 0).Float(2, "uv", 0, 1)
	b.Block("DATA", "MLoopUV", 0x2400, 3, uvs.Bytes())
	cols := b.Record("MLoopCol", 3).Int(0, "r", 255).Int(0, "a", 255).Int(1, "g", 255).Int(2, "b", 128)
	b.Block("DATA", "MLoopCol", 0x2500, 3, cols.Bytes())

	b.Block("MA", "Material", 0x2700, 1, b.Record("Material", 1).ID(0, "id", "MARed").Bytes())

	ob := b.Record("Object", 1).ID(0, "id", "OBTri").Int(0, "type", int64(datablock.ObjectMesh)).Ptr(0, "data", 0x1000)
	b.Block("OB", "Object", 0x2800, 1, ob.Bytes())

	return b
}

// layerMesh is the same triangle with vertex, edge and corner data stored as named
// CustomData layers next to an MPoly array. The material index layer overrides mat_nr.
// With uvStruct the UV map is an MLoopUV layer instead of a float2 layer.
func layerMesh(positionType format.CustomDataType, uvStruct bool) *fixture.Builder {
	b := fixture.New().BlenderLegacy()

	mesh := b.Record("Mesh", 1).ID(0, "id", "MELayers").Ptr(0, "mpoly", 0x2200).
		Ptr(0, "vdata.layers", 0x3000).Int(0, "vdata.totlayer", 1).
		Ptr(0, "edata.layers", 0x3200).Int(0, "edata.totlayer", 1).
		Ptr(0, "pdata.layers", 0x3400).Int(0, "pdata.totlayer", 1).
		Ptr(0, "ldata.layers", 0x3600).Int(0, "ldata.totlayer", 3).
		Int(0, "totvert", 3).Int(0, "totedge", 3).Int(0, "totpoly", 1).Int(0, "totloop", 3)
	b.Block("ME", "Mesh", 0x1000, 1, mesh.Bytes())
	b.Block("DATA", "MPoly", 0x2200, 1, b.Record("MPoly", 1).Int(0, "totloop", 3).Int(0, "mat_nr", 4).Bytes())

	layer := func(addr uint64, entries ...any) {
		n := len(entries) / 3
		rec := b.Record("CustomDataLayer", n)
		for i := range n {
			rec.Int(i, "type", int64(entries[3*i].(format.CustomDataType))).
				String(i, "name", entries[3*i+1].(string)).
				Ptr(i, "data", entries[3*i+2].(uint64))
		}
		b.Block("DATA", "CustomDataLayer", addr, n, rec.Bytes())
	}

	uvType := format.CDPropFloat2
	if uvStruct {
		uvType = format.CDMLoopUV
	}
	layer(0x3000, positionType, AttrPosition, uint64(0x4000))
	layer(0x3200, format.CDPropInt32x2, AttrEdgeVerts, uint64(0x4100))
	layer(0x3400, format.CDPropInt32, AttrMaterialIndex, uint64(0x4200))
	layer(0x3600,
		format.CDPropInt32, AttrCornerVert, uint64(0x4300),
		format.CDPropInt32, AttrCornerEdge, uint64(0x4400),
		uvType, AttrUVMap, uint64(0x4500))

	b.RawBlock("DATA", 0, 0x4000, 1, b.Float32s(0, 0, 0, 1, 0, 0, 0, 1, 0))
	b.RawBlock("DATA", 0, 0x4100, 1, b.Int32s(0, 1, 1, 2, 2, 0))
	b.RawBlock("DATA", 0, 0x4200, 1, b.Int32s(1))
	b.RawBlock("DATA", 0, 0x4300, 1, b.Int32s(0, 1, 2))
	b.RawBlock("DATA", 0, 0x4400, 1, b.Int32s(0, 1, 2))
	if uvStruct {
		uvs := b.Record("MLoopUV", 3).Float(1, "uv", 1, 0).Float(2, "uv", 0, 1)
		b.Block("DATA", "MLoopUV", 0x4500, 3, uvs.Bytes())
	} else {
		b.RawBlock("DATA", 0, 0x4500, 1, b.Float32s(0, 0, 1, 0, 0, 1))
	}

	return b
}

// storageAttr describes one entry of a test attribute storage.
type storageAttr struct {
	name   string
	dt     format.DataType
	domain format.Domain
	kind   format.StorageKind
	data   []byte
	size   int64
}

// storageMesh is a mesh in the attribute storage layout. offsets are the face offsets,
// ending with the corner count.
func storageMesh(verts int64, offsets []int32, attrs []storageAttr) *fixture.Builder {
	b := fixture.New().BlenderModern()

	faces := int64(len(offsets) - 1)
	mesh := b.Record("Mesh", 1).ID(0, "id", "MEModern").Ptr(0, "face_offset_indices", 0x1800).
		Ptr(0, "attribute_storage.dna_attributes", 0x2000).Int(0, "attribute_storage.dna_attributes_num", int64(len(attrs))).
		Int(0, "verts_num", verts).Int(0, "faces_num", faces).Int(0, "corners_num", int64(offsets[faces]))
	b.Block("ME", "Mesh", 0x1000, 1, mesh.Bytes())
	b.RawBlock("DATA", 0, 0x1800, 1, b.Int32s(offsets...))

	rec := b.Record("Attribute", len(attrs))
	for i, a := range attrs {
		base := uint64(0x3000 + 0x200*i)
		data := uint64(0x8000 + 0x100*i)
		rec.Ptr(i, "name", base).Int(i, "data_type", int64(a.dt)).Int(i, "domain", int64(a.domain)).
			Int(i, "storage_type", int64(a.kind)).Ptr(i, "data", base+0x100)
		b.RawBlock("DATA", 0, base, 1, b.CString(a.name))
		if a.kind == format.StorageSingle {
			b.Block("DATA", "AttributeSingle", base+0x100, 1, b.Record("AttributeSingle", 1).Ptr(0, "data", data).Bytes())
		} else {
			b.Block("DATA", "AttributeArray", base+0x100, 1,
				b.Record("AttributeArray", 1).Ptr(0, "data", data).Int(0, "size", a.size).Bytes())
		}
		b.RawBlock("DATA", 0, data, 1, a.data)
	}
	b.Block("DATA", "Attribute", 0x2000, len(attrs), rec.Bytes())

	return b
}

// attributeMesh is the triangle in the attribute storage layout, with a single-value
// material index and a byte color attribute.
func attributeMesh() *fixture.Builder {
	b := fixture.New()

	return storageMesh(3, []int32{0, 3}, []storageAttr{
		{AttrPosition, format.DataTypeFloat3, format.DomainPoint, format.StorageArray, b.Float32s(0, 0, 0, 1, 0, 0, 0, 1, 0), 3},
		{AttrCornerVert, format.DataTypeInt32, format.DomainCorner, format.StorageArray, b.Int32s(0, 1, 2), 3},
		{AttrMaterialIndex, format.DataTypeInt32, format.DomainFace, format.StorageSingle, b.Int32s(2), 1},
		{"Col", format.DataTypeColorByte, format.DomainCorner, format.StorageArray,
			[]byte{255, 0, 0, 255, 0, 255, 0, 255, 0, 0, 255, 255}, 3},
	})
}

func TestMesh_Elements(t *testing.T) {
	f, diags := parse(t, elementMesh(3))

	obs := f.Instances("Object")
	require.Len(t, obs, 1)
	data, err := datablock.NewObject(obs[0]).Data()
	require.NoError(t, err)
	m := New(data)

	require.Equal(t, "Tri", m.Name())
	require.Equal(t, 3, m.VertCount())
	require.Equal(t, 3, m.EdgeCount())
	require.Equal(t, 1, m.FaceCount())
	require.Equal(t, 3, m.CornerCount())
	require.False(t, m.Attributes().Valid())

	verts, err := m.Verts()
	require.NoError(t, err)
	require.Len(t, verts, 3)
	require.True(t, verts[0].HasNormal())
	require.Equal(t, [3]float32{0, 0, 1}, verts[0].Normal())

	pos, err := m.Positions()
	require.NoError(t, err)
	require.Equal(t, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, pos)
	require.Equal(t, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, -1, 0}}, m.Normals())

	edges, err := m.EdgeVerts()
	require.NoError(t, err)
	require.Equal(t, [][2]int32{{0, 1}, {1, 2}, {2, 0}}, edges)

	cv, err := m.CornerVerts()
	require.NoError(t, err)
	require.Equal(t, []int32{0, 1, 2}, cv)
	ce, err := m.CornerEdges()
	require.NoError(t, err)
	require.Equal(t, []int32{0, 1, 2}, ce)

	offsets, err := m.FaceOffsets()
	require.NoError(t, err)
	require.Equal(t, []int32{0, 3}, offsets)
	faces, err := m.Faces()
	require.NoError(t, err)
	require.Equal(t, []Face{{Start: 0, Size: 3}}, faces)

	mi, err := m.MaterialIndices()
	require.NoError(t, err)
	require.Equal(t, []int32{0}, mi)

	uvs, err := m.UVs()
	require.NoError(t, err)
	require.Equal(t, [][2]float32{{0, 0}, {1, 0}, {0, 1}}, uvs)

	colors, err := m.Colors()
	require.NoError(t, err)
	require.Equal(t, [][4]uint8{{255, 0, 0, 255}, {0, 255, 0, 0}, {0, 0, 128, 0}}, colors)

	mats, err := m.Materials()
	require.NoError(t, err)
	require.Len(t, mats, 1)
	require.Equal(t, "Red", mats[0].Name())
	require.Zero(t, diags.Len())
}

func TestMesh_ElementsOverrun(t *testing.T) {
	f, diags := parse(t, elementMesh(5))
	m := meshAt(t, f, 0x1000)

	pos, err := m.Positions()
	require.ErrorIs(t, err, errs.ErrOutOfBounds)
	require.Len(t, pos, 3)
	require.Equal(t, 1, diags.Count(view.KindOutOfBounds))
}

func TestMesh_Layers(t *testing.T) {
	f, diags := parse(t, layerMesh(format.CDPropFloat3, false))
	m := meshAt(t, f, 0x1000)

	verts, err := m.Verts()
	require.NoError(t, err)
	require.Nil(t, verts)
	require.Nil(t, m.Normals())

	pos, err := m.Positions()
	require.NoError(t, err)
	require.Equal(t, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, pos)

	edges, err := m.EdgeVerts()
	require.NoError(t, err)
	require.Equal(t, [][2]int32{{0, 1}, {1, 2}, {2, 0}}, edges)

	cv, err := m.CornerVerts()
	require.NoError(t, err)
	require.Equal(t, []int32{0, 1, 2}, cv)
	ce, err := m.CornerEdges()
	require.NoError(t, err)
	require.Equal(t, []int32{0, 1, 2}, ce)

	faces, err := m.Faces()
	require.NoError(t, err)
	require.Equal(t, []Face{{Start: 0, Size: 3}}, faces)

	mi, err := m.MaterialIndices()
	require.NoError(t, err)
	require.Equal(t, []int32{1}, mi)

	uvs, err := m.UVs()
	require.NoError(t, err)
	require.Equal(t, [][2]float32{{0, 0}, {1, 0}, {0, 1}}, uvs)

	colors, err := m.Colors()
	require.NoError(t, err)
	require.Nil(t, colors)

	mats, err := m.Materials()
	require.NoError(t, err)
	require.Nil(t, mats)
	require.Zero(t, diags.Len())
}

func TestMesh_LoopUVLayer(t *testing.T) {
	f, diags := parse(t, layerMesh(format.CDPropFloat3, true))
	m := meshAt(t, f, 0x1000)

	uvs, err := m.UVs()
	require.NoError(t, err)
	require.Equal(t, [][2]float32{{0, 0}, {1, 0}, {0, 1}}, uvs)
	require.Zero(t, diags.Len())
}

func TestMesh_LayerMismatch(t *testing.T) {
	f, diags := parse(t, layerMesh(format.CDPropInt32, false))
	m := meshAt(t, f, 0x1000)

	pos, err := m.Positions()
	require.ErrorIs(t, err, errs.ErrAttributeMismatch)
	require.Empty(t, pos)
	require.Equal(t, 1, diags.Len())
	require.Equal(t, 1, diags.Count(view.KindAttributeMismatch))
}

func TestMesh_Attributes(t *testing.T) {
	f, diags := parse(t, attributeMesh())
	m := meshAt(t, f, 0x1000)

	require.Equal(t, "Modern", m.Name())
	require.Equal(t, 3, m.VertCount())
	require.Equal(t, 0, m.EdgeCount())
	require.Equal(t, []string{AttrPosition, AttrCornerVert, AttrMaterialIndex, "Col"}, m.Attributes().Names())

	pos, err := m.Positions()
	require.NoError(t, err)
	require.Equal(t, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, pos)
	require.Nil(t, m.Normals())

	cv, err := m.CornerVerts()
	require.NoError(t, err)
	require.Equal(t, []int32{0, 1, 2}, cv)

	faces, err := m.Faces()
	require.NoError(t, err)
	require.Equal(t, []Face{{Start: 0, Size: 3}}, faces)

	mi, err := m.MaterialIndices()
	require.NoError(t, err)
	require.Equal(t, []int32{2}, mi)

	colors, err := m.Colors()
	require.NoError(t, err)
	require.Equal(t, [][4]uint8{{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255}}, colors)

	edges, err := m.EdgeVerts()
	require.NoError(t, err)
	require.Nil(t, edges)

	uvs, err := m.UVs()
	require.NoError(t, err)
	require.Nil(t, uvs)

	mats, err := m.Materials()
	require.NoError(t, err)
	require.Nil(t, mats)
	require.Zero(t, diags.Len())

	// Corner edges are not stored; asking for them reports once.
	ce, err := m.CornerEdges()
	require.ErrorIs(t, err, errs.ErrAttributeMissing)
	require.Empty(t, ce)
	require.Equal(t, 1, diags.Count(view.KindMissingLayer))
}

func TestMesh_SingleValueBroadcast(t *testing.T) {
	b := fixture.New()
	red := []byte{255, 0, 0, 255}
	f, diags := parse(t, storageMesh(4, []int32{0, 3, 6}, []storageAttr{
		{AttrPosition, format.DataTypeFloat3, format.DomainPoint, format.StorageSingle, b.Float32s(1, 2, 3), 1},
		{AttrCornerVert, format.DataTypeInt32, format.DomainCorner, format.StorageArray, b.Int32s(0, 1, 2, 0, 2, 3), 6},
		{AttrCornerEdge, format.DataTypeInt32, format.DomainCorner, format.StorageSingle, b.Int32s(7), 1},
		{AttrMaterialIndex, format.DataTypeInt32, format.DomainFace, format.StorageSingle, b.Int32s(3), 1},
		{AttrUVMap, format.DataTypeFloat2, format.DomainCorner, format.StorageSingle, b.Float32s(0.5, 0.25), 1},
		{"Col", format.DataTypeColorByte, format.DomainCorner, format.StorageSingle, red, 1},
	}))
	m := meshAt(t, f, 0x1000)

	require.Equal(t, 4, m.VertCount())
	require.Equal(t, 2, m.FaceCount())
	require.Equal(t, 6, m.CornerCount())

	pos, err := m.Positions()
	require.NoError(t, err)
	require.Equal(t, [][3]float32{{1, 2, 3}, {1, 2, 3}, {1, 2, 3}, {1, 2, 3}}, pos)

	cv, err := m.CornerVerts()
	require.NoError(t, err)
	require.Equal(t, []int32{0, 1, 2, 0, 2, 3}, cv)

	ce, err := m.CornerEdges()
	require.NoError(t, err)
	require.Equal(t, []int32{7, 7, 7, 7, 7, 7}, ce)

	mi, err := m.MaterialIndices()
	require.NoError(t, err)
	require.Equal(t, []int32{3, 3}, mi)

	uvs, err := m.UVs()
	require.NoError(t, err)
	require.Len(t, uvs, 6)
	for _, uv := range uvs {
		require.Equal(t, [2]float32{0.5, 0.25}, uv)
	}

	colors, err := m.Colors()
	require.NoError(t, err)
	require.Len(t, colors, 6)
	for _, c := range colors {
		require.Equal(t, [4]uint8{255, 0, 0, 255}, c)
	}

	faces, err := m.Faces()
	require.NoError(t, err)
	require.Equal(t, []Face{{Start: 0, Size: 3}, {Start: 3, Size: 3}}, faces)
	require.Zero(t, diags.Len())
}

func TestVert_NoNormal(t *testing.T) {
	b := fixture.New().Struct("MVert", fixture.F("float", "co[3]"), fixture.F("char", "flag"), fixture.F("char", "_pad[3]"))
	b.Block("DATA", "MVert", 0x1000, 1, b.Record("MVert", 1).Float(0, "co", 1, 2, 3).Bytes())

	f, diags := parse(t, b)
	v, err := f.Context().Resolve(0x1000, nil)
	require.NoError(t, err)

	vert := NewVert(v)
	require.Equal(t, [3]float32{1, 2, 3}, vert.Position())
	require.False(t, vert.HasNormal())
	require.Equal(t, [3]float32{}, vert.Normal())
	require.False(t, NewVert(view.View{}).HasNormal())
	require.Zero(t, diags.Len())
}
