package blend

import (
	"fmt"

	"github.com/arloliu/blend/view"
)

// Reference is a pointer field that holds the address of some instance.
type Reference struct {
	// Owner is the instance holding the pointer.
	Owner view.View
	// Element is the index of Owner inside its block.
	Element int
	// Field is the name of the pointer field. For pointer arrays, Index is the slot.
	Field string
	Index int
	// Position is the file position of the pointer value.
	Position int
}

func (r Reference) String() string {
	s := fmt.Sprintf("%s[%d].%s", r.Owner.TypeName(), r.Element, r.Field)
	if r.Index > 0 {
		s += fmt.Sprintf("[%d]", r.Index)
	}

	return s
}

// FindReferences scans the file for pointer fields that point at target. The scan
// reads every pointer-aligned word of every block, so it is linear in the file size.
//
// Only words that fall on a pointer field of the block's struct are reported; raw data
// that happens to equal the address is ignored.
func (f *File) FindReferences(target view.View) []Reference {
	addr := target.Address()
	if addr == 0 {
		return nil
	}

	r := f.ctx.Reader()
	ps := r.PointerSize()

	var refs []Reference
	for _, b := range f.table.FileOrder() {
		if b.Code.IsMeta() {
			continue
		}
		st, ok := f.catalog.StructAt(b.StructIndex)
		if !ok || st.Size() == 0 {
			continue
		}

		end := b.Offset + b.Size
		for pos := b.Offset; pos+ps <= end; pos += 4 {
			if r.Pointer(pos) != addr {
				continue
			}
			rel := pos - b.Offset
			elem, inner := rel/st.Size(), rel%st.Size()
			field, ok := st.FieldAt(inner)
			if !ok || !field.IsPointer() {
				continue
			}
			start := st.OffsetAt(field.Index)
			if (inner-start)%ps != 0 {
				continue
			}
			refs = append(refs, Reference{
				Owner:    f.ctx.ViewAt(st, b.Offset+elem*st.Size()),
				Element:  elem,
				Field:    field.Name,
				Index:    (inner - start) / ps,
				Position: pos,
			})
		}
	}

	return refs
}
