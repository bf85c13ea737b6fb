// Package endian provides byte order utilities and the primitive byte reader used by
// every other package in blend.
//
// A .blend file records its byte order in the file header ('v' for little-endian,
// 'V' for big-endian). The order is fixed for the whole file, so it is resolved once
// into an EndianEngine and then threaded through all readers.
//
// # Basic Usage
//
//	engine, err := endian.FromMarker('v')
//	r := endian.NewReader(data, engine, 8)
//	v := r.U32(128)
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// EndianEngine values and Reader values are immutable.
package endian

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/arloliu/blend/errs"
)

// Byte order markers as written in the .blend file header.
const (
	LittleEndianMarker = 'v'
	BigEndianMarker    = 'V'
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// FromMarker maps a header byte order marker to its engine.
//
// Returns errs.ErrInvalidEndianness for any byte other than 'v' or 'V'.
func FromMarker(marker byte) (EndianEngine, error) {
	switch marker {
	case LittleEndianMarker:
		return binary.LittleEndian, nil
	case BigEndianMarker:
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("%w: marker %q", errs.ErrInvalidEndianness, marker)
	}
}

// Marker returns the header marker for the engine.
func Marker(engine EndianEngine) byte {
	if engine == binary.BigEndian {
		return BigEndianMarker
	}

	return LittleEndianMarker
}

// IsBigEndian reports whether the engine is big-endian.
func IsBigEndian(engine EndianEngine) bool {
	return engine == binary.BigEndian
}

// Native returns the host byte order.
func Native() EndianEngine {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}
