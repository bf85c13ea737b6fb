package blend

import (
	"slices"
	"sync"

	"github.com/arloliu/blend/block"
	"github.com/arloliu/blend/format"
	"github.com/arloliu/blend/internal/hash"
	"github.com/arloliu/blend/sdna"
	"github.com/arloliu/blend/section"
	"github.com/arloliu/blend/view"
)

// File is a parsed .blend file.
type File struct {
	header    section.FileHeader
	container format.CompressionType
	data      []byte
	catalog   *sdna.Catalog
	table     *block.Table
	ctx       *view.Context

	instances map[string][]view.View
	types     []string

	fingerprintOnce sync.Once
	fingerprint     uint64

	closeOnce sync.Once
	release   func() error
	closeErr  error
}

// Header returns the file header. It must not be modified.
func (f *File) Header() *section.FileHeader { return &f.header }

// Container returns the compression container the file was wrapped in.
func (f *File) Container() format.CompressionType { return f.container }

// Data returns the uncompressed file image.
func (f *File) Data() []byte { return f.data }

func (f *File) Catalog() *sdna.Catalog { return f.catalog }
func (f *File) Table() *block.Table    { return f.table }
func (f *File) Context() *view.Context { return f.ctx }

// Fingerprint returns an xxHash64 of the uncompressed image, e.g. as a cache key.
func (f *File) Fingerprint() uint64 {
	f.fingerprintOnce.Do(func() {
		f.fingerprint = hash.Sum(f.data)
	})

	return f.fingerprint
}

// indexInstances collects every data-block instance, i.e. every element of a block
// whose struct starts with an embedded ID.
func (f *File) indexInstances() {
	f.instances = make(map[string][]view.View)
	for _, b := range f.table.FileOrder() {
		if b.Code.IsMeta() {
			continue
		}
		st, ok := f.catalog.StructAt(b.StructIndex)
		if !ok || !st.IsID() || st.Size() == 0 {
			continue
		}
		name := st.Name()
		for i := range b.Count {
			pos := b.Offset + i*st.Size()
			if pos+st.Size() > b.Offset+b.Size {
				break
			}
			f.instances[name] = append(f.instances[name], f.ctx.ViewAt(st, pos))
		}
	}

	f.types = make([]string, 0, len(f.instances))
	for name := range f.instances {
		f.types = append(f.types, name)
	}
	slices.Sort(f.types)
}

// Instances returns the data-block instances of a struct in file order, e.g. every
// "Object" or "Mesh". The slice must not be modified.
func (f *File) Instances(structName string) []view.View {
	return f.instances[structName]
}

// InstanceTypes returns the struct names that have instances, sorted.
func (f *File) InstanceTypes() []string { return f.types }

// Close releases the memory mapping of a file returned by Open. Views of the file must
// not be used afterwards. Close on a File from Parse is a no-op.
func (f *File) Close() error {
	f.closeOnce.Do(func() {
		if f.release != nil {
			f.closeErr = f.release()
		}
	})

	return f.closeErr
}
