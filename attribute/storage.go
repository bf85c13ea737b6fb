package attribute

import (
	"fmt"

	"github.com/arloliu/blend/format"
	"github.com/arloliu/blend/view"
)

// Storage is the generic attribute list of newer files (AttributeStorage).
type Storage struct {
	view.View
}

// NewStorage wraps an embedded AttributeStorage instance.
func NewStorage(v view.View) Storage { return Storage{View: v} }

// Attributes returns the attributes in storage order.
func (s Storage) Attributes() ([]Attribute, error) {
	if !s.Valid() {
		return nil, nil
	}
	arr, err := s.ArrayOf("dna_attributes", "dna_attributes_num")
	out := make([]Attribute, 0, arr.Len())
	for _, v := range arr.All() {
		out = append(out, Attribute{View: v})
	}

	return out, err
}

// Names returns the attribute names in storage order.
func (s Storage) Names() []string {
	attrs, _ := s.Attributes()
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name()
	}

	return names
}

// Find returns the first attribute with the given name. It reports nothing when the
// name is absent.
func (s Storage) Find(name string) (Attribute, bool) {
	attrs, _ := s.Attributes()
	for _, a := range attrs {
		if a.Name() == name {
			return a, true
		}
	}

	return Attribute{}, false
}

// Lookup returns the named attribute if it has the expected data type and storage
// kind. Otherwise exactly one diagnostic is reported and returned as the error: a
// missing name unwraps to errs.ErrAttributeMissing, a type or kind mismatch to
// errs.ErrAttributeMismatch.
func (s Storage) Lookup(name string, dt format.DataType, kind format.StorageKind) (Attribute, error) {
	a, ok := s.Find(name)
	if !ok {
		return Attribute{}, s.Report(view.KindMissingLayer, "dna_attributes", name)
	}

	// Compare raw tags so an unknown tag counts as a mismatch and is reported once.
	gotType := format.DataType(a.Int("data_type"))       //nolint: gosec
	gotKind := format.StorageKind(a.Int("storage_type")) //nolint: gosec
	if gotType != dt || gotKind != kind {
		return Attribute{}, s.Report(view.KindAttributeMismatch, "dna_attributes",
			fmt.Sprintf("%q is %s/%s, want %s/%s", name, gotType, gotKind, dt, kind))
	}

	return a, nil
}

// Attribute is one entry of a Storage. Its data type, domain and storage kind are read
// from the file.
type Attribute struct {
	view.View
}

// Name reads the attribute name, which is stored out of line.
func (a Attribute) Name() string {
	s, _ := a.CharPointer("name")
	return s
}

// DataType parses the element type tag. An unknown tag is reported.
func (a Attribute) DataType() (format.DataType, error) {
	dt, err := format.ParseDataType(a.Int("data_type"))
	if err != nil {
		return 0, a.Report(view.KindUnknownTag, "data_type", err.Error())
	}

	return dt, nil
}

// Domain parses the domain tag. An unknown tag is reported.
func (a Attribute) Domain() (format.Domain, error) {
	d, err := format.ParseDomain(a.Int("domain"))
	if err != nil {
		return 0, a.Report(view.KindUnknownTag, "domain", err.Error())
	}

	return d, nil
}

// StorageKind parses the storage kind tag. An unknown tag is reported.
func (a Attribute) StorageKind() (format.StorageKind, error) {
	k, err := format.ParseStorageKind(a.Int("storage_type"))
	if err != nil {
		return 0, a.Report(view.KindUnknownTag, "storage_type", err.Error())
	}

	return k, nil
}

// Values returns the attribute data. Array attributes hold "size" values; single
// attributes hold one value for the whole domain.
func (a Attribute) Values() (TypedArray, error) {
	dt, err := a.DataType()
	if err != nil {
		return TypedArray{}, err
	}
	kind, err := a.StorageKind()
	if err != nil {
		return TypedArray{}, err
	}

	holder := "AttributeArray"
	if kind == format.StorageSingle {
		holder = "AttributeSingle"
	}
	st, err := a.Context().Struct(holder)
	if err != nil {
		return TypedArray{}, err
	}
	pos, b, err := a.PointerTarget("data")
	if err != nil || b == nil {
		return TypedArray{}, err
	}
	h := a.Context().ViewAt(st, pos)

	count := 1
	if kind == format.StorageArray {
		count = int(h.Int("size"))
	}
	dpos, db, err := h.PointerTarget("data")
	if err != nil || db == nil || count <= 0 {
		return TypedArray{}, err
	}

	return values(h, dt, dpos, db, count)
}
