// Package datablock provides views of the top-level datablocks of a file: objects,
// materials, images, cameras and lights, and the ID header they all start with.
package datablock

import (
	"github.com/arloliu/blend/view"
)

// codeLen is the length of the type code that prefixes every ID name ("OB", "ME", ...).
const codeLen = 2

// ID is the header embedded as the first member of every datablock.
type ID struct {
	view.View
}

// IDOf returns the ID header of a datablock. v may be the datablock or the ID itself.
func IDOf(v view.View) ID {
	if v.Is("ID") || !v.Valid() {
		return ID{View: v}
	}
	id, err := v.Embedded("id")
	if err != nil {
		return ID{}
	}

	return ID{View: id}
}

// RealName returns the stored name, including the type code prefix.
func (id ID) RealName() string {
	if !id.Valid() {
		return ""
	}

	return id.Text("name")
}

// Name returns the user-visible name, without the type code prefix.
func (id ID) Name() string {
	s := id.RealName()
	if len(s) < codeLen {
		return ""
	}

	return s[codeLen:]
}

// Code returns the type code prefix of the name, e.g. "OB".
func (id ID) Code() string {
	s := id.RealName()
	if len(s) < codeLen {
		return s
	}

	return s[:codeLen]
}

// Users returns the reference count.
func (id ID) Users() int {
	if !id.Valid() || !id.HasField("us") {
		return 0
	}

	return int(id.Int32("us"))
}
