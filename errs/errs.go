// Package errs defines the sentinel errors returned by blend packages.
//
// Errors fall into two groups. Hard errors mean the file cannot be decoded at all and
// are returned from blend.Parse and block.Build. Soft errors describe expected
// cross-version mismatches (a missing field, a dangling pointer) and are carried by
// view.Diagnostic values, which unwrap to the sentinels below.
package errs

import "errors"

// File structure errors.
var (
	ErrInvalidMagic          = errors.New("invalid file magic")
	ErrInvalidPointerSize    = errors.New("invalid pointer size marker")
	ErrInvalidEndianness     = errors.New("invalid endianness marker")
	ErrInvalidVersion        = errors.New("invalid version digits")
	ErrInvalidHeaderSize     = errors.New("invalid header size")
	ErrTruncatedBlock        = errors.New("block payload exceeds file size")
	ErrMissingEndBlock       = errors.New("missing ENDB block")
	ErrMissingDNA            = errors.New("missing DNA1 block")
	ErrInvalidDNA            = errors.New("invalid DNA catalog")
	ErrUnexpectedTag         = errors.New("unexpected section tag")
	ErrOutOfBounds           = errors.New("read out of bounds")
	ErrUnsupportedContainer  = errors.New("unsupported container format")
	ErrDecompressionFailed   = errors.New("container decompression failed")
	ErrInvalidOffHeapStructs = errors.New("invalid off-heap struct list")
)

// Block table errors.
var (
	ErrBelowHeapBase     = errors.New("block address below heap base")
	ErrOverlappingBlocks = errors.New("overlapping block address ranges")
	ErrDanglingPointer   = errors.New("pointer does not resolve to any block")
	ErrEmptyTable        = errors.New("block table is empty")
	ErrAddressOverflow   = errors.New("block address range overflows")
)

// View layer errors. These are soft failures.
var (
	ErrInvalidView       = errors.New("invalid view")
	ErrUnknownField      = errors.New("unknown field")
	ErrUnknownStruct     = errors.New("unknown struct")
	ErrNotPointer        = errors.New("field is not a pointer")
	ErrNotEmbedded       = errors.New("field is not an embedded struct")
	ErrListTruncated     = errors.New("linked list traversal truncated")
	ErrAttributeMismatch = errors.New("attribute type mismatch")
	ErrAttributeMissing  = errors.New("attribute not found")
	ErrUnknownTag        = errors.New("unknown tag value")
	ErrIndexOutOfRange   = errors.New("index out of range")
)
