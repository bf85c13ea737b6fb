package datablock

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/blend"
	"github.com/arloliu/blend/errs"
	"github.com/arloliu/blend/internal/fixture"
	"github.com/arloliu/blend/view"
)

const armPath = `pose.bones["Arm"].location`

// rig builds an armature with three bones, its pose and action, a mesh object deformed
// through an armature modifier and a mesh object parented to the armature.
func rig() *fixture.Builder {
	b := fixture.New().BlenderLegacy()

	ob := b.Record("Object", 1).ID(0, "id", "OBRig").Int(0, "type", int64(ObjectArmature)).
		Ptr(0, "data", 0x2000).Ptr(0, "pose", 0x2200).Ptr(0, "adt", 0x2300)
	b.Block("OB", "Object", 0x1200, 1, ob.Bytes())

	body := b.Record("Object", 1).ID(0, "id", "OBBody").Int(0, "type", int64(ObjectMesh)).
		Ptr(0, "modifiers.first", 0x3800).Ptr(0, "modifiers.last", 0x3800).
		Ptr(0, "defbase.first", 0x3900).Ptr(0, "defbase.last", 0x3A00)
	b.Block("OB", "Object", 0x1400, 1, body.Bytes())

	child := b.Record("Object", 1).ID(0, "id", "OBProp").Int(0, "type", int64(ObjectMesh)).Ptr(0, "parent", 0x1200)
	b.Block("OB", "Object", 0x1600, 1, child.Bytes())

	arm := b.Record("bArmature", 1).ID(0, "id", "ARSkeleton").Ptr(0, "bonebase.first", 0x2400).Ptr(0, "bonebase.last", 0x2400)
	b.Block("AR", "bArmature", 0x2000, 1, arm.Bytes())

	rootMat := translate(0, 0, 0, 1)
	armMat := translate(0, 1, 0, 1)
	root := b.Record("Bone", 1).String(0, "name", "Root").
		Ptr(0, "childbase.first", 0x2600).Ptr(0, "childbase.last", 0x2700).
		Float(0, "head", 0, 0, 0).Float(0, "tail", 0, 1, 0).Float(0, "length", 1).
		Float(0, "arm_mat", rootMat[:]...)
	b.Block("DATA", "Bone", 0x2400, 1, root.Bytes())
	b.Block("DATA", "Bone", 0x2600, 1, b.Record("Bone", 1).String(0, "name", "Arm").
		Ptr(0, "next", 0x2700).Ptr(0, "parent", 0x2400).Float(0, "roll", 0.5).
		Float(0, "arm_mat", armMat[:]...).Bytes())
	b.Block("DATA", "Bone", 0x2700, 1, b.Record("Bone", 1).String(0, "name", "Leg").
		Ptr(0, "prev", 0x2600).Ptr(0, "parent", 0x2400).Bytes())

	poseMat := translate(0, 0, 1, 1)
	b.Block("DATA", "bPose", 0x2200, 1, b.Record("bPose", 1).
		Ptr(0, "chanbase.first", 0x2800).Ptr(0, "chanbase.last", 0x2900).Bytes())
	b.Block("DATA", "bPoseChannel", 0x2800, 1, b.Record("bPoseChannel", 1).String(0, "name", "Root").
		Ptr(0, "next", 0x2900).Ptr(0, "bone", 0x2400).
		Float(0, "loc", 0, 0, 1).Float(0, "size", 1, 1, 1).Float(0, "quat", 1, 0, 0, 0).
		Float(0, "pose_mat", poseMat[:]...).Bytes())
	b.Block("DATA", "bPoseChannel", 0x2900, 1, b.Record("bPoseChannel", 1).String(0, "name", "Arm").
		Ptr(0, "prev", 0x2800).Ptr(0, "bone", 0x2600).Float(0, "quat", 0, 1, 0, 0).Bytes())

	b.Block("DATA", "AnimData", 0x2300, 1, b.Record("AnimData", 1).Ptr(0, "action", 0x3000).Bytes())
	act := b.Record("bAction", 1).ID(0, "id", "ACRigAction").Ptr(0, "curves.first", 0x3200).Ptr(0, "curves.last", 0x3300)
	b.Block("AC", "bAction", 0x3000, 1, act.Bytes())

	b.Block("DATA", "FCurve", 0x3200, 1, b.Record("FCurve", 1).Ptr(0, "next", 0x3300).
		Ptr(0, "bezt", 0x3400).Int(0, "totvert", 3).Ptr(0, "rna_path", 0x3600).Int(0, "array_index", 2).Bytes())
	b.Block("DATA", "FCurve", 0x3300, 1, b.Record("FCurve", 1).Ptr(0, "prev", 0x3200).
		Ptr(0, "bezt", 0x3500).Int(0, "totvert", 2).Ptr(0, "rna_path", 0x3700).Bytes())

	// Stored out of frame order.
	keys := b.Record("BezTriple", 3).
		Float(0, "vec", 10, 10, 0, 11, 10, 0, 12, 10, 0).Int(0, "ipo", int64(InterpolationConstant)).
		Float(1, "vec", 0, 0, 0, 1, 0, 0, 2, 0, 0).Int(1, "ipo", int64(InterpolationLinear)).
		Float(2, "vec", 20, 20, 0, 21, 20, 0, 22, 20, 0).Int(2, "ipo", int64(InterpolationLinear))
	b.Block("DATA", "BezTriple", 0x3400, 3, keys.Bytes())
	ease := b.Record("BezTriple", 2).
		Float(0, "vec", -1, 0, 0, 0, 0, 0, 10.0/3, 0, 0).Int(0, "ipo", int64(InterpolationBezier)).
		Float(1, "vec", 20.0/3, 10, 0, 10, 10, 0, 11, 10, 0).Int(1, "ipo", int64(InterpolationBezier))
	b.Block("DATA", "BezTriple", 0x3500, 2, ease.Bytes())
	b.RawBlock("DATA", 0, 0x3600, 1, b.CString(armPath))
	b.RawBlock("DATA", 0, 0x3700, 1, b.CString(`pose.bones["Root"].rotation_euler`))

	mod := b.Record("ArmatureModifierData", 1).Int(0, "modifier.type", int64(ModifierArmature)).
		String(0, "modifier.name", "Armature").Ptr(0, "object", 0x1200)
	b.Block("DATA", "ArmatureModifierData", 0x3800, 1, mod.Bytes())
	b.Block("DATA", "bDeformGroup", 0x3900, 1, b.Record("bDeformGroup", 1).String(0, "name", "Root").Ptr(0, "next", 0x3A00).Bytes())
	b.Block("DATA", "bDeformGroup", 0x3A00, 1, b.Record("bDeformGroup", 1).String(0, "name", "Arm").Ptr(0, "prev", 0x3900).Bytes())

	return b
}

func decodeRig(t *testing.T) (*blend.File, *view.Collector) {
	t.Helper()

	diags := &view.Collector{}
	f, err := blend.Parse(rig().Bytes(), blend.WithDiagnostics(diags.Handle))
	require.NoError(t, err)

	return f, diags
}

func boneNames(bones []Bone) []string {
	out := make([]string, len(bones))
	for i, b := range bones {
		out[i] = b.Name()
	}

	return out
}

func TestArmature(t *testing.T) {
	f, diags := decodeRig(t)

	data, err := object(t, f, "Rig").Data()
	require.NoError(t, err)
	arm := NewArmature(data)
	require.Equal(t, "Skeleton", arm.Name())

	roots, err := arm.Bones()
	require.NoError(t, err)
	require.Equal(t, []string{"Root"}, boneNames(roots))
	root := roots[0]
	require.Equal(t, [3]float32{0, 1, 0}, root.Tail())
	require.Equal(t, float32(1), root.Length())
	require.Equal(t, view.Identity4, root.RestMatrix())

	parent, err := root.Parent()
	require.NoError(t, err)
	require.False(t, parent.Valid())

	children, err := root.Children()
	require.NoError(t, err)
	require.Equal(t, []string{"Arm", "Leg"}, boneNames(children))
	require.Equal(t, translate(0, 1, 0, 1), children[0].RestMatrix())
	require.Equal(t, float32(0.5), children[0].Roll())
	parent, err = children[1].Parent()
	require.NoError(t, err)
	require.Equal(t, "Root", parent.Name())

	skel, err := arm.Skeleton()
	require.NoError(t, err)
	require.Len(t, skel, 3)
	for i, want := range []struct {
		name   string
		parent int
	}{{"Root", -1}, {"Arm", 0}, {"Leg", 0}} {
		require.Equal(t, want.name, skel[i].Name())
		require.Equal(t, want.parent, skel[i].ParentIndex)
	}
	require.Zero(t, diags.Len())
}

func TestArmature_RepeatedBone(t *testing.T) {
	b := fixture.New().BlenderLegacy()
	b.Block("AR", "bArmature", 0x1000, 1, b.Record("bArmature", 1).ID(0, "id", "ARLoop").
		Ptr(0, "bonebase.first", 0x2000).Ptr(0, "bonebase.last", 0x2000).Bytes())
	b.Block("DATA", "Bone", 0x2000, 1, b.Record("Bone", 1).String(0, "name", "Self").
		Ptr(0, "childbase.first", 0x2000).Ptr(0, "childbase.last", 0x2000).Bytes())

	diags := &view.Collector{}
	f, err := blend.Parse(b.Bytes(), blend.WithDiagnostics(diags.Handle))
	require.NoError(t, err)

	skel, err := NewArmature(f.Instances("bArmature")[0]).Skeleton()
	require.ErrorIs(t, err, errs.ErrListTruncated)
	require.Len(t, skel, 1)
	require.Equal(t, "Self", skel[0].Name())
	require.Equal(t, 1, diags.Count(view.KindListTruncated))
}

func TestPose(t *testing.T) {
	f, diags := decodeRig(t)

	pose, err := object(t, f, "Rig").Pose()
	require.NoError(t, err)
	chans, err := pose.Channels()
	require.NoError(t, err)
	require.Len(t, chans, 2)

	root := chans[0]
	require.Equal(t, "Root", root.Name())
	require.Equal(t, [3]float32{0, 0, 1}, root.Location())
	require.Equal(t, [3]float32{1, 1, 1}, root.Scale())
	require.Equal(t, [4]float32{1, 0, 0, 0}, root.Rotation())
	require.Equal(t, translate(0, 0, 1, 1), root.PoseMatrix())

	arm, ok := pose.Channel("Arm")
	require.True(t, ok)
	require.Equal(t, [4]float32{0, 1, 0, 0}, arm.Rotation())
	bone, err := arm.Bone()
	require.NoError(t, err)
	require.Equal(t, "Arm", bone.Name())

	_, ok = pose.Channel("Tail")
	require.False(t, ok)

	none, err := object(t, f, "Body").Pose()
	require.NoError(t, err)
	require.False(t, none.Valid())
	chans, err = none.Channels()
	require.NoError(t, err)
	require.Empty(t, chans)
	require.Zero(t, diags.Len())
}

func TestAction(t *testing.T) {
	f, diags := decodeRig(t)

	act, err := object(t, f, "Rig").Action()
	require.NoError(t, err)
	require.Equal(t, "RigAction", act.Name())
	require.Equal(t, float32(21), act.LastFrame())

	curves, err := act.Curves()
	require.NoError(t, err)
	require.Len(t, curves, 2)

	loc, ok := act.Curve(armPath, 2)
	require.True(t, ok)
	require.Equal(t, curves[0].Position(), loc.Position())
	_, ok = act.Curve(armPath, 0)
	require.False(t, ok)

	keys, err := loc.Keyframes()
	require.NoError(t, err)
	require.Len(t, keys, 3)
	require.Equal(t, []float32{1, 11, 21}, []float32{keys[0].Frame, keys[1].Frame, keys[2].Frame})
	require.Equal(t, [2]float32{12, 10}, keys[1].Right)

	tests := []struct {
		frame, want float32
	}{
		{0, 0},   // before the first key
		{6, 5},   // linear from frame 1
		{11, 10}, // on a key
		{15, 10}, // constant from frame 11
		{30, 20}, // after the last key
	}
	for _, tt := range tests {
		require.InDelta(t, tt.want, loc.ValueAt(tt.frame), 1e-5, "frame %v", tt.frame)
	}

	ease := curves[1]
	path, err := ease.Path()
	require.NoError(t, err)
	require.Equal(t, `pose.bones["Root"].rotation_euler`, path)
	require.Zero(t, ease.ArrayIndex())
	require.InDelta(t, 5, ease.ValueAt(5), 1e-3)
	require.InDelta(t, 1.5625, ease.ValueAt(2.5), 1e-3)

	require.Zero(t, Evaluate(nil, 3))

	none, err := object(t, f, "Body").Action()
	require.NoError(t, err)
	require.False(t, none.Valid())
	curves, err = none.Curves()
	require.NoError(t, err)
	require.Empty(t, curves)
	require.Zero(t, diags.Len())
}

func TestObject_Deform(t *testing.T) {
	f, diags := decodeRig(t)
	body := object(t, f, "Body")

	mods, err := body.Modifiers()
	require.NoError(t, err)
	require.Len(t, mods, 1)
	require.Equal(t, ModifierArmature, mods[0].Type())
	require.Equal(t, "Armature", mods[0].Name())
	require.Equal(t, "ArmatureModifierData", mods[0].TypeName())

	rigOb, err := body.Armature()
	require.NoError(t, err)
	require.Equal(t, "Rig", rigOb.Name())

	names, err := body.VertexGroupNames()
	require.NoError(t, err)
	require.Equal(t, []string{"Root", "Arm"}, names)

	rigOb, err = object(t, f, "Prop").Armature()
	require.NoError(t, err)
	require.Equal(t, "Rig", rigOb.Name())

	none, err := object(t, f, "Rig").Armature()
	require.NoError(t, err)
	require.False(t, none.Valid())
	require.Zero(t, diags.Len())
}

func TestImage_Packed(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}

	b := fixture.New().BlenderLegacy()
	b.Block("IM", "Image", 0x4000, 1, b.Record("Image", 1).ID(0, "id", "IMlist.png").
		Ptr(0, "packedfiles.first", 0x4800).Ptr(0, "packedfiles.last", 0x4800).Bytes())
	b.Block("DATA", "ImagePackedFile", 0x4800, 1, b.Record("ImagePackedFile", 1).Ptr(0, "packedfile", 0x5000).Bytes())
	b.Block("DATA", "PackedFile", 0x5000, 1, b.Record("PackedFile", 1).Int(0, "size", 4).Ptr(0, "data", 0x5100).Bytes())
	b.Block("DATA", "PackedFile", 0x5040, 1, b.Record("PackedFile", 1).Int(0, "size", 100).Ptr(0, "data", 0x5100).Bytes())
	b.RawBlock("DATA", 0, 0x5100, 1, png)
	b.Block("IM", "Image", 0x5200, 1, b.Record("Image", 1).ID(0, "id", "IMsingle.png").Ptr(0, "packedfile", 0x5000).Bytes())
	b.Block("IM", "Image", 0x5800, 1, b.Record("Image", 1).ID(0, "id", "IMdisk.png").String(0, "filepath", "//disk.png").Bytes())
	b.Block("IM", "Image", 0x6000, 1, b.Record("Image", 1).ID(0, "id", "IMshort.png").Ptr(0, "packedfile", 0x5040).Bytes())

	diags := &view.Collector{}
	f, err := blend.Parse(b.Bytes(), blend.WithDiagnostics(diags.Handle))
	require.NoError(t, err)

	images := make(map[string]Image)
	for _, v := range f.Instances("Image") {
		img := NewImage(v)
		images[img.Name()] = img
	}
	require.Len(t, images, 4)

	for _, name := range []string{"list.png", "single.png"} {
		img := images[name]
		require.True(t, img.Packed(), name)
		data, err := img.PackedData()
		require.NoError(t, err, name)
		require.Equal(t, png, data, name)
	}

	disk := images["disk.png"]
	require.False(t, disk.Packed())
	data, err := disk.PackedData()
	require.NoError(t, err)
	require.Nil(t, data)
	require.Zero(t, diags.Len())

	data, err = images["short.png"].PackedData()
	require.ErrorIs(t, err, errs.ErrOutOfBounds)
	require.Equal(t, png, data)
	require.Equal(t, 1, diags.Count(view.KindOutOfBounds))
}
