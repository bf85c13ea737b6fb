package view

import (
	"fmt"
	"strings"
	"sync"

	"github.com/arloliu/blend/errs"
)

// Kind classifies a Diagnostic.
type Kind uint8

const (
	KindUnknownField Kind = iota + 1
	KindUnknownStruct
	KindDanglingPointer
	KindNotPointer
	KindNotEmbedded
	KindAttributeMismatch
	KindMissingLayer
	KindUnknownTag
	KindListTruncated
	KindOutOfBounds
	KindIndexOutOfRange
)

var kindNames = map[Kind]string{
	KindUnknownField:      "UnknownField",
	KindUnknownStruct:     "UnknownStruct",
	KindDanglingPointer:   "DanglingPointer",
	KindNotPointer:        "NotPointer",
	KindNotEmbedded:       "NotEmbedded",
	KindAttributeMismatch: "AttributeMismatch",
	KindMissingLayer:      "MissingLayer",
	KindUnknownTag:        "UnknownTag",
	KindListTruncated:     "ListTruncated",
	KindOutOfBounds:       "OutOfBounds",
	KindIndexOutOfRange:   "IndexOutOfRange",
}

var kindSentinels = map[Kind]error{
	KindUnknownField:      errs.ErrUnknownField,
	KindUnknownStruct:     errs.ErrUnknownStruct,
	KindDanglingPointer:   errs.ErrDanglingPointer,
	KindNotPointer:        errs.ErrNotPointer,
	KindNotEmbedded:       errs.ErrNotEmbedded,
	KindAttributeMismatch: errs.ErrAttributeMismatch,
	KindMissingLayer:      errs.ErrAttributeMissing,
	KindUnknownTag:        errs.ErrUnknownTag,
	KindListTruncated:     errs.ErrListTruncated,
	KindOutOfBounds:       errs.ErrOutOfBounds,
	KindIndexOutOfRange:   errs.ErrIndexOutOfRange,
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}

	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Sentinel returns the errs sentinel a diagnostic of this kind unwraps to.
func (k Kind) Sentinel() error { return kindSentinels[k] }

// Diagnostic describes a soft decode failure. It is returned as an error and reported
// once to the context's Handler when it is created.
type Diagnostic struct {
	Kind Kind
	// Struct and Field locate the failure. Either may be empty.
	Struct string
	Field  string
	// Address is the pointer value involved, if any.
	Address uint64
	Detail  string
}

func (d *Diagnostic) Error() string {
	var b strings.Builder
	if s := d.Kind.Sentinel(); s != nil {
		b.WriteString(s.Error())
	} else {
		b.WriteString(d.Kind.String())
	}
	if d.Struct != "" || d.Field != "" {
		b.WriteString(": ")
		b.WriteString(d.Struct)
		if d.Field != "" {
			b.WriteByte('.')
			b.WriteString(d.Field)
		}
	}
	if d.Address != 0 {
		fmt.Fprintf(&b, " (0x%x)", d.Address)
	}
	if d.Detail != "" {
		b.WriteString(": ")
		b.WriteString(d.Detail)
	}

	return b.String()
}

// Unwrap returns the kind's sentinel so errors.Is works against errs values.
func (d *Diagnostic) Unwrap() error { return d.Kind.Sentinel() }

// Handler receives every diagnostic of a Context. It may be called from several
// goroutines at once.
type Handler func(*Diagnostic)

// Collector is a Handler target that records diagnostics. It is safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	diags []*Diagnostic
}

// Handle records d. Pass c.Handle to WithDiagnostics.
func (c *Collector) Handle(d *Diagnostic) {
	c.mu.Lock()
	c.diags = append(c.diags, d)
	c.mu.Unlock()
}

// Diagnostics returns a copy of the recorded diagnostics in report order.
func (c *Collector) Diagnostics() []*Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*Diagnostic, len(c.diags))
	copy(out, c.diags)

	return out
}

// Len returns the number of recorded diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.diags)
}

// Count returns the number of recorded diagnostics of one kind.
func (c *Collector) Count(kind Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, d := range c.diags {
		if d.Kind == kind {
			n++
		}
	}

	return n
}

// Reset discards the recorded diagnostics.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.diags = nil
	c.mu.Unlock()
}
