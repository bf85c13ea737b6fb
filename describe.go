package blend

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/arloliu/blend/errs"
)

// DescribeStruct formats the layout of a catalog struct, one field per line with its
// offset and size:
//
//	struct MVert (index 3, size 20)
//	  0   float  co[3]   12
//	  12  short  no[3]   6
func (f *File) DescribeStruct(name string) (string, error) {
	st, ok := f.catalog.Struct(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", errs.ErrUnknownStruct, name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "struct %s (index %d, size %d)\n", st.Name(), st.Index, st.Size())

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	ps := f.catalog.PointerSize()
	for i := range st.Fields {
		fd := &st.Fields[i]
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%d\n", st.OffsetAt(i), fd.Type.Name, fd.Decorated, fd.Size(ps))
	}
	if err := tw.Flush(); err != nil {
		return "", err
	}
	if cs := st.ComputedSize(); cs != st.Size() {
		fmt.Fprintf(&b, "  warning: fields add up to %d bytes\n", cs)
	}

	return b.String(), nil
}
