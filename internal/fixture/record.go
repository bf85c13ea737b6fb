package fixture

import (
	"fmt"
	"math"
)

// Record is the payload of a block holding count instances of one struct.
type Record struct {
	b      *Builder
	name   string
	stride int
	buf    []byte
}

// Record allocates a zeroed payload for count instances of structName.
func (b *Builder) Record(structName string, count int) *Record {
	stride := b.SizeOf(structName)
	b.StructIndex(structName)

	return &Record{b: b, name: structName, stride: stride, buf: make([]byte, stride*count)}
}

// Bytes returns the payload.
func (r *Record) Bytes() []byte { return r.buf }

func (r *Record) pos(elem int, path string) (int, Field) {
	off, f := r.b.locate(r.name, path)
	return elem*r.stride + off, f
}

// Float writes consecutive float values starting at the field.
func (r *Record) Float(elem int, path string, vals ...float32) *Record {
	pos, _ := r.pos(elem, path)
	for i, v := range vals {
		r.b.engine.PutUint32(r.buf[pos+4*i:], math.Float32bits(v))
	}

	return r
}

// Int writes consecutive integers starting at the field, using the width of the field's
// declared type.
func (r *Record) Int(elem int, path string, vals ...int64) *Record {
	pos, f := r.pos(elem, path)
	width := r.b.SizeOf(f.Type)
	for i, v := range vals {
		p := pos + width*i
		switch width {
		case 1:
			r.buf[p] = byte(v)
		case 2:
			r.b.engine.PutUint16(r.buf[p:], uint16(v)) //nolint: gosec
		case 4:
			r.b.engine.PutUint32(r.buf[p:], uint32(v)) //nolint: gosec
		case 8:
			r.b.engine.PutUint64(r.buf[p:], uint64(v)) //nolint: gosec
		default:
			panic(fmt.Sprintf("fixture: field %s.%s is not an integer", r.name, path))
		}
	}

	return r
}

// Ptr writes consecutive pointer values starting at the field.
func (r *Record) Ptr(elem int, path string, addrs ...uint64) *Record {
	pos, _ := r.pos(elem, path)
	for i, a := range addrs {
		p := pos + r.b.pointerSize*i
		if r.b.pointerSize == 4 {
			r.b.engine.PutUint32(r.buf[p:], uint32(a)) //nolint: gosec
		} else {
			r.b.engine.PutUint64(r.buf[p:], a)
		}
	}

	return r
}

// String writes s into a char array field. The remaining bytes stay zero.
func (r *Record) String(elem int, path, s string) *Record {
	pos, _ := r.pos(elem, path)
	copy(r.buf[pos:], s)

	return r
}
