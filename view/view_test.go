package view

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/blend/block"
	"github.com/arloliu/blend/endian"
	"github.com/arloliu/blend/errs"
	"github.com/arloliu/blend/format"
	"github.com/arloliu/blend/internal/fixture"
	"github.com/arloliu/blend/sdna"
	"github.com/arloliu/blend/section"
)

// decode builds a Context over the fixture's serialized file. FileGlobal is off-heap
// when declared.
func decode(t *testing.T, b *fixture.Builder, opts ...Option) (*Context, *Collector) {
	t.Helper()

	data := b.Bytes()
	hdr, err := section.ParseFileHeader(data)
	require.NoError(t, err)

	r := endian.NewReader(data, hdr.Engine, hdr.PointerSize)
	headers, err := section.ReadBlockHeaders(r, section.FirstBlockOffset)
	require.NoError(t, err)

	var cat *sdna.Catalog
	blocks := make([]block.Block, 0, len(headers))
	for _, h := range headers {
		if h.Code == format.CodeDNA1 {
			cat, err = sdna.Parse(r.Slice(h.Offset, h.Size), hdr.Engine, hdr.PointerSize)
			require.NoError(t, err)
		}
		blocks = append(blocks, block.FromHeader(h))
	}
	require.NotNil(t, cat)

	offHeap, _ := cat.StructIndices("FileGlobal")
	table, err := block.Build(blocks, block.WithOffHeap(offHeap...))
	require.NoError(t, err)

	c := &Collector{}
	ctx, err := NewContext(r, cat, table, append([]Option{WithDiagnostics(c.Handle)}, opts...)...)
	require.NoError(t, err)

	return ctx, c
}

// at returns a view of the first instance in the block at addr.
func at(t *testing.T, ctx *Context, addr uint64) View {
	t.Helper()
	b, err := ctx.Table().ResolveAddress(addr)
	require.NoError(t, err)
	v, err := ctx.BlockView(b)
	require.NoError(t, err)

	return v
}

func vec3Builder(opts ...fixture.Option) *fixture.Builder {
	b := fixture.New(opts...).Struct("Vec3", fixture.F("float", "x"), fixture.F("float", "y"), fixture.F("float", "z"))
	return b.Block("DATA", "Vec3", 0x2000, 1, b.Float32s(1.5, -2, 42.25))
}

func TestView_Vec3(t *testing.T) {
	for _, opts := range [][]fixture.Option{nil, {fixture.WithBigEndian()}, {fixture.WithPointerSize(4)}} {
		ctx, diags := decode(t, vec3Builder(opts...))
		v := at(t, ctx, 0x2000)

		require.True(t, v.Valid())
		require.Equal(t, "Vec3", v.TypeName())
		require.Equal(t, uint64(0x2000), v.Address())
		require.Equal(t, 8, v.Offset("z"))
		require.Equal(t, float32(42.25), v.Float32("z"))
		require.Equal(t, float32(42.25), v.F32(8))
		require.Equal(t, []float32{1.5, -2, 42.25}, v.Float32s("x", 3))
		require.Zero(t, diags.Len())
	}
}

func TestView_UnknownField(t *testing.T) {
	ctx, diags := decode(t, vec3Builder())
	v := at(t, ctx, 0x2000)

	require.Equal(t, -1, v.Offset("w"))
	require.Equal(t, 1, diags.Count(KindUnknownField))

	_, err := v.FieldOffset("w")
	var d *Diagnostic
	require.ErrorAs(t, err, &d)
	require.Equal(t, KindUnknownField, d.Kind)
	require.Equal(t, "Vec3", d.Struct)
	require.Equal(t, "w", d.Field)
	require.ErrorIs(t, err, errs.ErrUnknownField)

	require.Zero(t, v.Float32("w"))
	require.Zero(t, v.Int32("w"))
	require.Nil(t, v.Float32s("w", 3))
	require.Equal(t, 5, diags.Count(KindUnknownField))

	require.False(t, v.HasField("w"))
	require.True(t, v.HasField("x"))
	require.Equal(t, 5, diags.Len())
}

func TestView_Scalars(t *testing.T) {
	b := fixture.New().Struct("Scalars",
		fixture.F("char", "c"), fixture.F("uchar", "uc"), fixture.F("short", "s"),
		fixture.F("int", "i"), fixture.F("uint", "u"), fixture.F("int64_t", "l"),
		fixture.F("double", "d"), fixture.F("float", "m[4][4]"),
	)
	rec := b.Record("Scalars", 1).
		Int(0, "c", -3).Int(0, "uc", 250).Int(0, "s", -1234).
		Int(0, "i", -70000).Int(0, "u", 4000000000).Int(0, "l", -1<<40)
	m := make([]float32, 16)
	for i := range m {
		m[i] = float32(i)
	}
	rec.Float(0, "m", m...)
	payload := rec.Bytes()
	b.Engine().PutUint64(payload[b.Offset("Scalars", "d"):], 0x400921fb54442d18) // pi
	b.Block("DATA", "Scalars", 0x3000, 1, payload)

	ctx, diags := decode(t, b)
	v := at(t, ctx, 0x3000)

	require.Equal(t, int8(-3), v.Int8("c"))
	require.Equal(t, uint8(250), v.Uint8("uc"))
	require.Equal(t, int16(-1234), v.Int16("s"))
	require.Equal(t, int32(-70000), v.Int32("i"))
	require.Equal(t, uint32(4000000000), v.Uint32("u"))
	require.Equal(t, int64(-1<<40), v.Int64("l"))
	require.InDelta(t, 3.14159265, v.Float64("d"), 1e-8)
	require.InDelta(t, 3.14159265, v.Float64Value("d"), 1e-8)

	require.Equal(t, int64(-3), v.Int("c"))
	require.Equal(t, int64(250), v.Int("uc"))
	require.Equal(t, int64(4000000000), v.Int("u"))
	require.Equal(t, int64(-1234), v.ReadScalar(v.Offset("s"), 2, true))
	require.Equal(t, int64(64302), v.ReadScalar(v.Offset("s"), 2, false))

	mat := v.Matrix4("m")
	require.Equal(t, float32(5), mat[5])
	require.Equal(t, float32(15), mat[15])
	require.Zero(t, diags.Len())
}

func TestView_Strings(t *testing.T) {
	b := fixture.New().
		Struct("Named", fixture.F("char", "name[8]"), fixture.F("char", "*label"), fixture.F("char", "*none"))
	rec := b.Record("Named", 1).String(0, "name", "Cube").Ptr(0, "label", 0x5000)
	b.Block("DATA", "Named", 0x4000, 1, rec.Bytes())
	b.RawBlock("DATA", 0, 0x5000, 1, []byte("hello world"))

	ctx, diags := decode(t, b)
	v := at(t, ctx, 0x4000)

	s, err := v.FixedString("name", 0)
	require.NoError(t, err)
	require.Equal(t, "Cube", s)

	s, err = v.FixedString("name", 2)
	require.NoError(t, err)
	require.Equal(t, "Cu", s)
	require.Equal(t, "Cube", v.Text("name"))

	// Not NUL-terminated; stops at the end of the block.
	s, err = v.CharPointer("label")
	require.NoError(t, err)
	require.Equal(t, "hello world", s)

	s, err = v.CharPointer("none")
	require.NoError(t, err)
	require.Empty(t, s)
	require.Zero(t, diags.Len())
}

func pointerBuilder() *fixture.Builder {
	b := fixture.New().BlenderLegacy().
		Struct("Vec3", fixture.F("float", "x"), fixture.F("float", "y"), fixture.F("float", "z")).
		Struct("Holder",
			fixture.F("Vec3", "*vec"), fixture.F("void", "*any"), fixture.F("Vec3", "*null"),
			fixture.F("Vec3", "*dangling"), fixture.F("FileGlobal", "*global"),
			fixture.F("Vec3", "embedded"), fixture.F("int", "count"), fixture.F("Vec3", "**vecs"),
			fixture.F("FileGlobal", "(*callback)()"),
		)

	holder := b.Record("Holder", 1).
		Ptr(0, "vec", 0x2008). // inside the first element
		Ptr(0, "any", 0x2000).
		Ptr(0, "dangling", 0x9999).
		Ptr(0, "global", 0x2000).
		Float(0, "embedded", 7, 8, 9).
		Int(0, "count", 3).
		Ptr(0, "vecs", 0x6000).
		Ptr(0, "callback", 0x2004)
	b.Block("DATA", "Holder", 0x1000, 1, holder.Bytes())
	b.Block("DATA", "Vec3", 0x2000, 3, b.Float32s(1, 2, 3, 4, 5, 6, 7, 8, 9))

	// FileGlobal lives in its own address space and collides with the Vec3 block.
	fg := b.Record("FileGlobal", 1).Int(0, "subversion", 17)
	b.Block("GLOB", "FileGlobal", 0x2000, 1, fg.Bytes())

	b.RawBlock("DATA", 0, 0x6000, 3, b.Pointers(0x2000, 0, 0x200c))

	return b
}

func TestView_Pointer(t *testing.T) {
	ctx, diags := decode(t, pointerBuilder())
	h := at(t, ctx, 0x1000)

	vec, err := h.Pointer("vec")
	require.NoError(t, err)
	require.Equal(t, "Vec3", vec.TypeName())
	require.Equal(t, uint64(0x2008), vec.Address())
	require.Equal(t, float32(3), vec.Float32("x"))

	untyped, err := h.Pointer("any")
	require.NoError(t, err)
	require.Equal(t, "Vec3", untyped.TypeName())
	require.Equal(t, float32(1), untyped.Float32("x"))

	null, err := h.Pointer("null")
	require.NoError(t, err)
	require.False(t, null.Valid())
	require.Zero(t, h.PointerValue("null"))

	global, err := h.Pointer("global")
	require.NoError(t, err)
	require.Equal(t, "FileGlobal", global.TypeName())
	require.Equal(t, int16(17), global.Int16("subversion"))
	require.Zero(t, diags.Len())

	_, err = h.Pointer("dangling")
	require.ErrorIs(t, err, errs.ErrDanglingPointer)
	var d *Diagnostic
	require.True(t, errors.As(err, &d))
	require.Equal(t, "Holder", d.Struct)
	require.Equal(t, "dangling", d.Field)
	require.Equal(t, uint64(0x9999), d.Address)
	require.Equal(t, 1, diags.Count(KindDanglingPointer))

	_, err = h.Pointer("count")
	require.ErrorIs(t, err, errs.ErrNotPointer)

	// A function pointer resolves in the main heap whatever its declared return type.
	pos, blk, err := h.PointerTarget("callback")
	require.NoError(t, err)
	require.Equal(t, format.CodeDATA, blk.Code)
	require.Equal(t, uint64(0x2000), blk.Address)
	require.Equal(t, blk.Offset+4, pos)

	fn, err := h.Pointer("callback")
	require.NoError(t, err)
	require.Equal(t, uint64(0x2004), fn.Address())
}

func TestView_Embedded(t *testing.T) {
	ctx, diags := decode(t, pointerBuilder())
	h := at(t, ctx, 0x1000)

	e, err := h.Embedded("embedded")
	require.NoError(t, err)
	require.Equal(t, "Vec3", e.TypeName())
	require.Equal(t, h.Position()+h.Offset("embedded"), e.Position())
	require.Equal(t, float32(9), e.Float32("z"))

	_, err = h.Embedded("vec")
	require.ErrorIs(t, err, errs.ErrNotEmbedded)
	_, err = h.Embedded("count")
	require.ErrorIs(t, err, errs.ErrNotEmbedded)
	require.Equal(t, 2, diags.Count(KindNotEmbedded))
}

func TestView_Arrays(t *testing.T) {
	ctx, diags := decode(t, pointerBuilder())
	h := at(t, ctx, 0x1000)

	arr, err := h.ArrayOf("any", "count")
	require.NoError(t, err)
	require.Equal(t, 3, arr.Len())
	require.Equal(t, 12, arr.Stride())
	require.Equal(t, float32(7), arr.At(2).Float32("x"))
	require.False(t, arr.At(3).Valid())
	require.False(t, arr.At(-1).Valid())

	var xs []float32
	for i, v := range arr.All() {
		require.Equal(t, arr.At(i).Position(), v.Position())
		xs = append(xs, v.Float32("x"))
	}
	require.Equal(t, []float32{1, 4, 7}, xs)

	// Starting at the second element only two fit.
	arr, err = h.ArrayOf("vec", "count")
	require.ErrorIs(t, err, errs.ErrOutOfBounds)
	require.Equal(t, 2, arr.Len())
	require.Equal(t, 1, diags.Count(KindOutOfBounds))

	arr, err = h.BlockArray("vec")
	require.NoError(t, err)
	require.Equal(t, 2, arr.Len())

	arr, err = h.ArrayOf("null", "count")
	require.NoError(t, err)
	require.Zero(t, arr.Len())

	vecs, err := h.PointerArray("vecs", 3)
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	require.Equal(t, float32(1), vecs[0].Float32("x"))
	require.False(t, vecs[1].Valid())
	require.Equal(t, float32(5), vecs[2].Float32("y"))

	vecs, err = h.PointerArray("vecs", 0)
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	_, err = h.PointerArray("vec", 1)
	require.ErrorIs(t, err, errs.ErrNotPointer)
}

func TestView_ShiftAndAs(t *testing.T) {
	ctx, _ := decode(t, pointerBuilder())
	v := at(t, ctx, 0x2000)

	require.Equal(t, float32(4), v.At(1).Float32("x"))
	require.Equal(t, float32(2), v.ShiftedBy(4).Float32("x"))
	require.Equal(t, uint64(0x200c), v.At(1).Address())

	raw, err := v.As("MLoop")
	require.NoError(t, err)
	require.Equal(t, v.Position(), raw.Position())
	require.True(t, raw.Is("MLoop"))

	_, err = v.As("Nope")
	require.ErrorIs(t, err, errs.ErrUnknownStruct)
}

func TestView_Invalid(t *testing.T) {
	var v View
	require.False(t, v.Valid())
	require.Empty(t, v.TypeName())
	require.Zero(t, v.Size())
	require.Zero(t, v.Address())
	require.Nil(t, v.Block())
	require.Equal(t, -1, v.Offset("x"))
	require.False(t, v.HasField("x"))
	require.Zero(t, v.Int32("x"))

	_, err := v.Pointer("x")
	require.ErrorIs(t, err, errs.ErrInvalidView)

	_, err = v.As("MLoop")
	require.ErrorIs(t, err, errs.ErrInvalidView)
}

func TestNewContext_Options(t *testing.T) {
	b := vec3Builder()
	_, _ = decode(t, b, WithListLimit(5))

	_, err := NewContext(endian.NewReader(nil, endian.GetLittleEndianEngine(), 8), nil, nil, WithListLimit(0))
	require.Error(t, err)
}

func TestDiagnostic_Error(t *testing.T) {
	d := &Diagnostic{Kind: KindDanglingPointer, Struct: "Mesh", Field: "mvert", Address: 0x10, Detail: "pointee MVert"}
	require.Equal(t, "pointer does not resolve to any block: Mesh.mvert (0x10): pointee MVert", d.Error())
	require.ErrorIs(t, d, errs.ErrDanglingPointer)

	require.Equal(t, "unknown struct", (&Diagnostic{Kind: KindUnknownStruct}).Error())
	require.Equal(t, "Kind(99)", Kind(99).String())
	require.Equal(t, "Kind(99)", (&Diagnostic{Kind: 99}).Error())
	require.Equal(t, "ListTruncated", KindListTruncated.String())
}
