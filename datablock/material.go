package datablock

import (
	"fmt"

	"github.com/arloliu/blend/nodes"
	"github.com/arloliu/blend/view"
)

// Material is a surface material. Files with shader nodes describe the surface in the
// node tree; the flat properties hold the viewport fallback.
type Material struct {
	view.View
}

func NewMaterial(v view.View) Material { return Material{View: v} }

func (m Material) ID() ID       { return IDOf(m.View) }
func (m Material) Name() string { return m.ID().Name() }

// Color returns the base color as RGBA.
func (m Material) Color() [4]float32 {
	return [4]float32{m.Float32("r"), m.Float32("g"), m.Float32("b"), m.Float32("a")}
}

func (m Material) Metallic() float32  { return m.Float32("metallic") }
func (m Material) Roughness() float32 { return m.Float32("roughness") }

// NodeTree returns the embedded shader node tree. Materials without nodes return an
// invalid Tree and no error.
func (m Material) NodeTree() (nodes.Tree, error) {
	if !m.HasField("nodetree") {
		return nodes.Tree{}, nil
	}
	t, err := m.Pointer("nodetree")

	return nodes.NewTree(t), err
}

// Image is an image datablock, usually referenced by texture nodes.
type Image struct {
	view.View
}

func NewImage(v view.View) Image { return Image{View: v} }

func (i Image) ID() ID       { return IDOf(i.View) }
func (i Image) Name() string { return i.ID().Name() }

// FilePath returns the stored path. Blender marks paths relative to the .blend file
// with a leading "//".
func (i Image) FilePath() string { return i.Text("filepath") }

// Packed reports whether the image file is embedded in the .blend.
func (i Image) Packed() bool {
	pf, err := i.packedFile()
	return err == nil && pf.Valid()
}

// PackedData returns the embedded image file (PNG, JPEG, ...). It is nil for images
// stored outside the .blend. The slice aliases the file buffer.
func (i Image) PackedData() ([]byte, error) {
	pf, err := i.packedFile()
	if err != nil || !pf.Valid() {
		return nil, err
	}

	return PackedBytes(pf)
}

// packedFile returns the PackedFile of the first packed view. Files before 2.83 store a
// single packedfile pointer instead of the packedfiles list.
func (i Image) packedFile() (view.View, error) {
	if i.HasField("packedfiles") {
		l, err := view.ListBaseOf(i.View, "packedfiles", "ImagePackedFile")
		if err != nil {
			return view.View{}, err
		}
		if head := l.Head(); head.Valid() {
			return head.Pointer("packedfile")
		}
	}
	if i.HasField("packedfile") {
		return i.Pointer("packedfile")
	}

	return view.View{}, nil
}

// PackedBytes returns the payload of a PackedFile struct: size bytes at its data
// pointer. A size past the end of the data block is clamped and reported.
func PackedBytes(pf view.View) ([]byte, error) {
	size := int(pf.Int("size"))
	pos, b, err := pf.PointerTarget("data")
	if err != nil || b == nil || size <= 0 {
		return nil, err
	}
	if avail := b.Offset + b.Size - pos; size > avail {
		err = pf.Report(view.KindOutOfBounds, "data", fmt.Sprintf("%d packed bytes declared, block holds %d", size, avail))
		size = avail
	}

	return pf.Context().Reader().Slice(pos, size), err
}
