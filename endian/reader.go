package endian

import (
	"bytes"
	"fmt"
	"math"

	"github.com/arloliu/blend/errs"
)

// Reader performs endian-aware reads of fixed-width values at arbitrary offsets of a
// byte buffer.
//
// Reads that fall outside the buffer return the zero value instead of panicking.
// Corrupt files routinely contain pointers and counts that point past the end of the
// data, and a reader that panics on them cannot be used for best-effort decoding.
// Use InBounds when the distinction matters.
type Reader struct {
	data        []byte
	engine      EndianEngine
	pointerSize int
}

// NewReader creates a Reader over data.
//
// Parameters:
//   - data: the whole (decompressed) file
//   - engine: byte order of the file
//   - pointerSize: 4 or 8, the pointer width recorded in the file header
func NewReader(data []byte, engine EndianEngine, pointerSize int) Reader {
	return Reader{data: data, engine: engine, pointerSize: pointerSize}
}

// Bytes returns the underlying buffer.
func (r Reader) Bytes() []byte { return r.data }

// Len returns the buffer length.
func (r Reader) Len() int { return len(r.data) }

// Engine returns the byte order of the reader.
func (r Reader) Engine() EndianEngine { return r.engine }

// PointerSize returns the pointer width in bytes.
func (r Reader) PointerSize() int { return r.pointerSize }

// InBounds reports whether [pos, pos+n) lies inside the buffer.
func (r Reader) InBounds(pos, n int) bool {
	return pos >= 0 && n >= 0 && pos <= len(r.data) && n <= len(r.data)-pos
}

// Slice returns data[pos:pos+n], or nil when the range is out of bounds.
// The returned slice aliases the buffer.
func (r Reader) Slice(pos, n int) []byte {
	if !r.InBounds(pos, n) {
		return nil
	}

	return r.data[pos : pos+n]
}

func (r Reader) U8(pos int) uint8 {
	if !r.InBounds(pos, 1) {
		return 0
	}

	return r.data[pos]
}

func (r Reader) I8(pos int) int8 { return int8(r.U8(pos)) } //nolint: gosec

func (r Reader) U16(pos int) uint16 {
	if !r.InBounds(pos, 2) {
		return 0
	}

	return r.engine.Uint16(r.data[pos:])
}

func (r Reader) I16(pos int) int16 { return int16(r.U16(pos)) } //nolint: gosec

func (r Reader) U32(pos int) uint32 {
	if !r.InBounds(pos, 4) {
		return 0
	}

	return r.engine.Uint32(r.data[pos:])
}

func (r Reader) I32(pos int) int32 { return int32(r.U32(pos)) } //nolint: gosec

func (r Reader) U64(pos int) uint64 {
	if !r.InBounds(pos, 8) {
		return 0
	}

	return r.engine.Uint64(r.data[pos:])
}

func (r Reader) I64(pos int) int64 { return int64(r.U64(pos)) } //nolint: gosec

func (r Reader) F32(pos int) float32 { return math.Float32frombits(r.U32(pos)) }

func (r Reader) F64(pos int) float64 { return math.Float64frombits(r.U64(pos)) }

// Pointer reads a pointer-width unsigned integer.
func (r Reader) Pointer(pos int) uint64 {
	if r.pointerSize == 4 {
		return uint64(r.U32(pos))
	}

	return r.U64(pos)
}

// Scalar reads an integer of the given width (1, 2, 4 or 8 bytes).
//
// Signed values are sign-extended, unsigned values are zero-extended. An unsupported
// width reads as 0.
func (r Reader) Scalar(pos, width int, signed bool) int64 {
	switch width {
	case 1:
		if signed {
			return int64(r.I8(pos))
		}

		return int64(r.U8(pos))
	case 2:
		if signed {
			return int64(r.I16(pos))
		}

		return int64(r.U16(pos))
	case 4:
		if signed {
			return int64(r.I32(pos))
		}

		return int64(r.U32(pos))
	case 8:
		return r.I64(pos)
	default:
		return 0
	}
}

// CString reads at most limit bytes starting at pos and truncates at the first zero byte.
// A negative limit reads up to the end of the buffer.
func (r Reader) CString(pos, limit int) string {
	if pos < 0 || pos >= len(r.data) {
		return ""
	}
	end := len(r.data)
	if limit >= 0 && limit < end-pos {
		end = pos + limit
	}
	b := r.data[pos:end]
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}

	return string(b)
}

// Cursor is a sequential reader over a Reader, used for parsing headers and the schema
// catalog. Unlike Reader it reports truncation as an error.
type Cursor struct {
	r   Reader
	off int
}

// NewCursor creates a cursor positioned at off.
func NewCursor(r Reader, off int) *Cursor {
	return &Cursor{r: r, off: off}
}

// Offset returns the current absolute position.
func (c *Cursor) Offset() int { return c.off }

// Seek moves the cursor to an absolute position.
func (c *Cursor) Seek(off int) { c.off = off }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	if c.off >= c.r.Len() {
		return 0
	}

	return c.r.Len() - c.off
}

func (c *Cursor) need(n int) error {
	if !c.r.InBounds(c.off, n) {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", errs.ErrOutOfBounds, n, c.off, c.Remaining())
	}

	return nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int) error {
	if err := c.need(n); err != nil {
		return err
	}
	c.off += n

	return nil
}

// Align advances the cursor to the next multiple of n relative to base.
func (c *Cursor) Align(n, base int) {
	if rem := (c.off - base) % n; rem != 0 {
		c.off += n - rem
	}
}

// Bytes reads n raw bytes. The result aliases the buffer.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	b := c.r.Slice(c.off, n)
	c.off += n

	return b, nil
}

func (c *Cursor) U16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := c.r.U16(c.off)
	c.off += 2

	return v, nil
}

func (c *Cursor) I32() (int32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := c.r.I32(c.off)
	c.off += 4

	return v, nil
}

// Pointer reads a pointer-width value.
func (c *Cursor) Pointer() (uint64, error) {
	n := c.r.PointerSize()
	if err := c.need(n); err != nil {
		return 0, err
	}
	v := c.r.Pointer(c.off)
	c.off += n

	return v, nil
}

// CString reads a zero-terminated string and consumes the terminator.
func (c *Cursor) CString() (string, error) {
	rest := c.r.Slice(c.off, c.Remaining())
	i := bytes.IndexByte(rest, 0)
	if i < 0 {
		return "", fmt.Errorf("%w: unterminated string at offset %d", errs.ErrOutOfBounds, c.off)
	}
	s := string(rest[:i])
	c.off += i + 1

	return s, nil
}

// Expect consumes len(tag) bytes and checks that they equal tag.
func (c *Cursor) Expect(tag string) error {
	b, err := c.Bytes(len(tag))
	if err != nil {
		return err
	}
	if string(b) != tag {
		return fmt.Errorf("%w: expected %q at offset %d, got %q", errs.ErrUnexpectedTag, tag, c.off-len(tag), b)
	}

	return nil
}
