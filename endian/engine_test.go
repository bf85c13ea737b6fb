package endian

import (
	"encoding/binary"
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/blend/errs"
)

func TestNative(t *testing.T) {
	require := require.New(t)

	var testValue uint16 = 0x0102
	testBytes := (*[2]byte)(unsafe.Pointer(&testValue))

	switch testBytes[0] {
	case 0x01:
		require.Equal(binary.BigEndian, Native())
	case 0x02:
		require.Equal(binary.LittleEndian, Native())
	default:
		require.Failf("Unexpected byte value", "got: %v", testBytes[0])
	}
}

func TestFromMarker(t *testing.T) {
	tests := []struct {
		name    string
		marker  byte
		want    EndianEngine
		wantErr error
	}{
		{name: "little", marker: 'v', want: binary.LittleEndian},
		{name: "big", marker: 'V', want: binary.BigEndian},
		{name: "invalid", marker: 'x', wantErr: errs.ErrInvalidEndianness},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromMarker(tt.marker)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.marker, Marker(got))
		})
	}
}

func TestIsBigEndian(t *testing.T) {
	require.True(t, IsBigEndian(GetBigEndianEngine()))
	require.False(t, IsBigEndian(GetLittleEndianEngine()))
}
