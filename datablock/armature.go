package datablock

import (
	"fmt"

	"github.com/arloliu/blend/view"
)

// Armature is the skeleton datablock of an armature object.
type Armature struct {
	view.View
}

func NewArmature(v view.View) Armature { return Armature{View: v} }

func (a Armature) ID() ID       { return IDOf(a.View) }
func (a Armature) Name() string { return a.ID().Name() }

// Bones returns the root bones.
func (a Armature) Bones() ([]Bone, error) { return boneList(a.View, "bonebase") }

// SkeletonBone is a bone with the index of its parent in a flattened skeleton, -1 for
// roots.
type SkeletonBone struct {
	Bone
	ParentIndex int
}

// Skeleton returns every bone depth first, each parent before its children. A bone
// reached twice is reported and skipped with its subtree.
func (a Armature) Skeleton() ([]SkeletonBone, error) {
	var out []SkeletonBone
	seen := make(map[int]bool)

	var walk func(bones []Bone, parent int) error
	walk = func(bones []Bone, parent int) error {
		for _, b := range bones {
			if seen[b.Position()] {
				return b.Report(view.KindListTruncated, "childbase", fmt.Sprintf("bone %q repeats in the hierarchy", b.Name()))
			}
			seen[b.Position()] = true
			out = append(out, SkeletonBone{Bone: b, ParentIndex: parent})

			children, err := b.Children()
			if err != nil {
				return err
			}
			if err := walk(children, len(out)-1); err != nil {
				return err
			}
		}

		return nil
	}

	roots, err := a.Bones()
	if err != nil {
		return nil, err
	}
	err = walk(roots, -1)

	return out, err
}

// Bone is a bone of an armature in rest position.
type Bone struct {
	view.View
}

func (b Bone) Name() string { return b.Text("name") }

// Parent returns the parent bone, invalid for root bones.
func (b Bone) Parent() (Bone, error) {
	p, err := b.Pointer("parent")
	return Bone{View: p}, err
}

// Children returns the direct child bones.
func (b Bone) Children() ([]Bone, error) { return boneList(b.View, "childbase") }

// Head and Tail return the bone ends relative to the parent bone.
func (b Bone) Head() [3]float32 { return vec3(b.View, "head") }
func (b Bone) Tail() [3]float32 { return vec3(b.View, "tail") }

func (b Bone) Roll() float32   { return b.Float32("roll") }
func (b Bone) Length() float32 { return b.Float32("length") }

// RestMatrix returns the bone-to-armature matrix of the rest pose, column-major.
func (b Bone) RestMatrix() [16]float32 {
	if !b.HasField("arm_mat") {
		return view.Identity4
	}

	return b.Matrix4("arm_mat")
}

func boneList(v view.View, field string) ([]Bone, error) {
	if !v.HasField(field) {
		return nil, nil
	}
	l, err := view.ListBaseOf(v, field, "Bone")
	if err != nil {
		return nil, err
	}
	vs, err := l.Collect()
	out := make([]Bone, len(vs))
	for i, bv := range vs {
		out[i] = Bone{View: bv}
	}

	return out, err
}

// Pose is the posed state of an armature object, one channel per bone.
type Pose struct {
	view.View
}

// Channels returns the pose channels in list order.
func (p Pose) Channels() ([]PoseChannel, error) {
	if !p.Valid() {
		return nil, nil
	}
	l, err := view.ListBaseOf(p.View, "chanbase", "bPoseChannel")
	if err != nil {
		return nil, err
	}
	vs, err := l.Collect()
	out := make([]PoseChannel, len(vs))
	for i, cv := range vs {
		out[i] = PoseChannel{View: cv}
	}

	return out, err
}

// Channel returns the channel of the named bone.
func (p Pose) Channel(name string) (PoseChannel, bool) {
	chans, _ := p.Channels()
	for _, c := range chans {
		if c.Name() == name {
			return c, true
		}
	}

	return PoseChannel{}, false
}

// PoseChannel holds the pose transform of one bone.
type PoseChannel struct {
	view.View
}

func (c PoseChannel) Name() string { return c.Text("name") }

// Bone returns the armature bone the channel poses.
func (c PoseChannel) Bone() (Bone, error) {
	b, err := c.Pointer("bone")
	return Bone{View: b}, err
}

func (c PoseChannel) Location() [3]float32 { return vec3(c.View, "loc") }
func (c PoseChannel) Scale() [3]float32    { return vec3(c.View, "size") }

// Rotation returns the quaternion rotation as (w, x, y, z).
func (c PoseChannel) Rotation() [4]float32 {
	var q [4]float32
	copy(q[:], c.Float32s("quat", 4))

	return q
}

// PoseMatrix returns the evaluated bone-to-armature matrix, column-major.
func (c PoseChannel) PoseMatrix() [16]float32 {
	if !c.HasField("pose_mat") {
		return view.Identity4
	}

	return c.Matrix4("pose_mat")
}
