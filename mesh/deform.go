package mesh

import (
	"github.com/arloliu/blend/datablock"
	"github.com/arloliu/blend/format"
	"github.com/arloliu/blend/view"
)

// MaxInfluences is the number of vertex groups a skinned vertex keeps.
const MaxInfluences = 4

// DeformWeight is the influence of one vertex group on a vertex.
type DeformWeight struct {
	Group  int32
	Weight float32
}

// DeformVert holds the vertex group weights of one vertex.
type DeformVert struct {
	view.View
}

// Weights returns the vertex's group weights in file order.
func (d DeformVert) Weights() ([]DeformWeight, error) {
	arr, err := d.ArrayOf("dw", "totweight")
	if arr.Len() == 0 {
		return nil, err
	}
	out := make([]DeformWeight, arr.Len())
	for i, w := range arr.All() {
		out[i] = DeformWeight{Group: int32(w.Int("def_nr")), Weight: w.Float32("weight")} //nolint: gosec
	}

	return out, err
}

// DeformVerts returns one entry per vertex, nil for meshes without vertex groups. Files
// before 4.0 point to them from the mesh; later ones store an MDeformVert vertex layer.
func (m Mesh) DeformVerts() ([]DeformVert, error) {
	if m.HasField("dvert") && m.PointerValue("dvert") != 0 {
		arr, err := m.legacy("dvert", "totvert", "verts_num")
		return wrap(arr, func(v view.View) DeformVert { return DeformVert{View: v} }), err
	}
	layer, ok := m.VertData().FindType(format.CDMDeformVert)
	if !ok {
		return nil, nil
	}
	arr, err := layer.Elements(m.VertCount())

	return wrap(arr, func(v view.View) DeformVert { return DeformVert{View: v} }), err
}

// VertexGroupNames returns the names deform weights refer to by group number. Files
// before 3.0 keep the names on the object; see datablock.Object.VertexGroupNames.
func (m Mesh) VertexGroupNames() ([]string, error) {
	return datablock.DeformGroupNames(m.View, "vertex_group_names")
}

// Influence holds the strongest groups of a vertex, strongest first. Weights sum to one
// unless the vertex has no usable weight.
type Influence struct {
	Groups  [MaxInfluences]int32
	Weights [MaxInfluences]float32
}

// TopWeights keeps the MaxInfluences largest positive weights of groups in [0, groups)
// and normalizes them. Equal weights keep file order.
func TopWeights(ws []DeformWeight, groups int) Influence {
	var in Influence
	for _, w := range ws {
		if w.Group < 0 || int(w.Group) >= groups {
			continue
		}
		for i := range MaxInfluences {
			if w.Weight > in.Weights[i] {
				copy(in.Groups[i+1:], in.Groups[i:MaxInfluences-1])
				copy(in.Weights[i+1:], in.Weights[i:MaxInfluences-1])
				in.Groups[i], in.Weights[i] = w.Group, w.Weight
				break
			}
		}
	}

	var sum float32
	for _, w := range in.Weights {
		sum += w
	}
	scale := 1 / max(1e-38, sum)
	for i := range in.Weights {
		in.Weights[i] *= scale
	}

	return in
}

// Influences returns the normalized top weights of every vertex. groups bounds the valid
// group numbers, usually len(VertexGroupNames). Meshes without vertex groups return nil.
func (m Mesh) Influences(groups int) ([]Influence, error) {
	dverts, err := m.DeformVerts()
	if len(dverts) == 0 {
		return nil, err
	}
	out := make([]Influence, len(dverts))
	for i, d := range dverts {
		ws, werr := d.Weights()
		if werr != nil && err == nil {
			err = werr
		}
		out[i] = TopWeights(ws, groups)
	}

	return out, err
}
