package attribute

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/blend/endian"
	"github.com/arloliu/blend/format"
)

func TestTypedArray_Readers(t *testing.T) {
	for _, engine := range []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()} {
		t.Run(engine.String(), func(t *testing.T) {
			f32 := func(vals ...float32) []byte {
				var out []byte
				for _, v := range vals {
					out = engine.AppendUint32(out, math.Float32bits(v))
				}

				return out
			}
			reader := func(data []byte) endian.Reader { return endian.NewReader(data, engine, 8) }

			mat := make([]float32, 16)
			for i := range mat {
				mat[i] = float32(i)
			}
			a := NewTypedArray(reader(f32(mat...)), format.DataTypeFloat4x4, 0, 1)
			require.Equal(t, [16]float32(mat), a.Float4x4(0))

			a = NewTypedArray(reader(f32(1, 0, 0, 0, 0.5, 0.5, 0.5, 0.5)), format.DataTypeQuaternion, 0, 2)
			require.Equal(t, [4]float32{0.5, 0.5, 0.5, 0.5}, a.Quaternion(1))

			a = NewTypedArray(reader(f32(0.1, 0.2, 0.3, 1)), format.DataTypeColorFloat, 0, 1)
			require.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, a.ColorFloat(0))

			a = NewTypedArray(reader(f32(1.5, 2.5)), format.DataTypeFloat, 0, 2)
			require.Equal(t, []float32{1.5, 2.5}, a.Floats())
			a = NewTypedArray(reader(f32(1, 2, 3, 4)), format.DataTypeFloat2, 0, 2)
			require.Equal(t, [][2]float32{{1, 2}, {3, 4}}, a.Float2s())

			ints := engine.AppendUint32(nil, 7)
			ints = engine.AppendUint32(ints, uint32(0xfffffffe))
			a = NewTypedArray(reader(ints), format.DataTypeInt32, 0, 2)
			require.Equal(t, []int32{7, -2}, a.Int32s())
			a = NewTypedArray(reader(ints), format.DataTypeInt32x2, 0, 1)
			require.Equal(t, [][2]int32{{7, -2}}, a.Int32x2s())

			shorts := engine.AppendUint16(nil, 3)
			shorts = engine.AppendUint16(shorts, 0xffff)
			a = NewTypedArray(reader(shorts), format.DataTypeInt16x2, 0, 1)
			require.Equal(t, [2]int16{3, -1}, a.Int16x2(0))
		})
	}
}

func TestTypedArray_Bytes(t *testing.T) {
	r := endian.NewReader([]byte{0xff, 0x01, 0x00, 10, 20, 30, 40}, endian.GetLittleEndianEngine(), 8)

	a := NewTypedArray(r, format.DataTypeInt8, 0, 3)
	require.Equal(t, int8(-1), a.Int8(0))
	require.Equal(t, int8(1), a.Int8(1))

	a = NewTypedArray(r, format.DataTypeBool, 0, 3)
	require.Equal(t, []bool{true, true, false}, a.Bools())

	a = NewTypedArray(r, format.DataTypeColorByte, 3, 1)
	require.Equal(t, [4]uint8{10, 20, 30, 40}, a.ColorByte(0))
}

func TestTypedArray_String(t *testing.T) {
	data := make([]byte, 2*256)
	copy(data, "hello")
	data[255] = 5
	copy(data[256:], "truncated")
	data[256+255] = 4

	a := NewTypedArray(endian.NewReader(data, endian.GetLittleEndianEngine(), 8), format.DataTypeString, 0, 2)
	require.Equal(t, "hello", a.String(0))
	require.Equal(t, "trun", a.String(1))
}

func TestTypedArray_Bounds(t *testing.T) {
	r := endian.NewReader(make([]byte, 20), endian.GetLittleEndianEngine(), 8)

	// 20 bytes hold one float3.
	a := NewTypedArray(r, format.DataTypeFloat3, 0, 4)
	require.Equal(t, 1, a.Len())
	require.Equal(t, 12, a.Stride())
	require.Equal(t, [3]float32{}, a.Float3(1))
	require.Equal(t, [3]float32{}, a.Float3(-1))

	require.Zero(t, NewTypedArray(r, format.DataTypeFloat, 40, 1).Len())
	require.Zero(t, NewTypedArray(r, format.DataType(99), 0, 1).Len())
	require.Zero(t, NewTypedArray(r, format.DataTypeFloat, 0, -1).Len())

	var empty TypedArray
	require.Zero(t, empty.Len())
	require.Empty(t, empty.Float3s())
	require.Zero(t, empty.Int32(0))
	require.Empty(t, empty.String(0))
}
