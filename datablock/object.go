package datablock

import (
	"fmt"

	"github.com/arloliu/blend/view"
)

// ObjectType is the kind of data an object instantiates.
type ObjectType int16

const (
	ObjectEmpty        ObjectType = 0
	ObjectMesh         ObjectType = 1
	ObjectCurve        ObjectType = 2
	ObjectSurface      ObjectType = 3
	ObjectFont         ObjectType = 4
	ObjectMetaball     ObjectType = 5
	ObjectLight        ObjectType = 10
	ObjectCamera       ObjectType = 11
	ObjectSpeaker      ObjectType = 12
	ObjectLightProbe   ObjectType = 13
	ObjectLattice      ObjectType = 22
	ObjectArmature     ObjectType = 25
	ObjectGPencil      ObjectType = 26
	ObjectCurves       ObjectType = 27
	ObjectPointCloud   ObjectType = 28
	ObjectVolume       ObjectType = 29
	ObjectGreasePencil ObjectType = 30
)

var objectTypeNames = map[ObjectType]string{
	ObjectEmpty:        "Empty",
	ObjectMesh:         "Mesh",
	ObjectCurve:        "Curve",
	ObjectSurface:      "Surface",
	ObjectFont:         "Font",
	ObjectMetaball:     "Metaball",
	ObjectLight:        "Light",
	ObjectCamera:       "Camera",
	ObjectSpeaker:      "Speaker",
	ObjectLightProbe:   "LightProbe",
	ObjectLattice:      "Lattice",
	ObjectArmature:     "Armature",
	ObjectGPencil:      "GPencil",
	ObjectCurves:       "Curves",
	ObjectPointCloud:   "PointCloud",
	ObjectVolume:       "Volume",
	ObjectGreasePencil: "GreasePencil",
}

func (t ObjectType) String() string {
	if s, ok := objectTypeNames[t]; ok {
		return s
	}

	return fmt.Sprintf("ObjectType(%d)", int16(t))
}

// Object is a scene object.
type Object struct {
	view.View
}

func NewObject(v view.View) Object { return Object{View: v} }

func (o Object) ID() ID           { return IDOf(o.View) }
func (o Object) Name() string     { return o.ID().Name() }
func (o Object) Type() ObjectType { return ObjectType(o.Int16("type")) }

// Parent returns the parent object. Root objects return an invalid Object and no error.
func (o Object) Parent() (Object, error) {
	p, err := o.Pointer("parent")
	return Object{View: p}, err
}

// Data returns the datablock the object instantiates (a Mesh, Camera, Lamp, ...),
// typed by the block it points into.
func (o Object) Data() (view.View, error) {
	return o.Pointer("data")
}

// Location returns the translation relative to the parent.
func (o Object) Location() [3]float32 { return vec3(o.View, "loc") }

// Rotation returns the Euler rotation in radians.
func (o Object) Rotation() [3]float32 { return vec3(o.View, "rot") }

// Scale returns the scale factors. Older files call the field "size".
func (o Object) Scale() [3]float32 {
	if o.HasField("scale") {
		return vec3(o.View, "scale")
	}

	return vec3(o.View, "size")
}

// WorldMatrix returns the object-to-world matrix in column-major order, or the identity
// when the file stores none.
func (o Object) WorldMatrix() [16]float32 {
	for _, name := range []string{"object_to_world", "obmat"} {
		if o.HasField(name) {
			return o.Matrix4(name)
		}
	}

	return view.Identity4
}

// LocalMatrix returns the transform relative to the parent: inverse(parent) * world.
// Objects without a parent, or with a singular parent matrix, return WorldMatrix.
func (o Object) LocalMatrix() [16]float32 {
	world := o.WorldMatrix()
	parent, err := o.Parent()
	if err != nil || !parent.Valid() {
		return world
	}
	inv, ok := Invert4(parent.WorldMatrix())
	if !ok {
		return world
	}

	return Mul4(inv, world)
}

// Materials returns the object-level material slots. Empty slots are invalid views.
func (o Object) Materials() ([]Material, error) {
	return MaterialSlots(o.View)
}

// MaterialSlots reads the "mat" pointer array of a datablock, sized by its totcol field.
func MaterialSlots(v view.View) ([]Material, error) {
	if !v.HasField("mat") {
		return nil, nil
	}
	n := int(v.Int("totcol"))
	if n <= 0 {
		return nil, nil
	}
	vs, err := v.PointerArray("mat", n)
	out := make([]Material, len(vs))
	for i, m := range vs {
		out[i] = Material{View: m}
	}

	return out, err
}

// Action returns the action assigned through the object's animation data. Objects
// without animation return an invalid Action and no error.
func (o Object) Action() (Action, error) {
	if !o.HasField("adt") {
		return Action{}, nil
	}
	adt, err := o.Pointer("adt")
	if err != nil || !adt.Valid() {
		return Action{}, err
	}
	a, err := adt.Pointer("action")

	return Action{View: a}, err
}

// Pose returns the pose of an armature object, invalid for other objects.
func (o Object) Pose() (Pose, error) {
	if !o.HasField("pose") {
		return Pose{}, nil
	}
	p, err := o.Pointer("pose")

	return Pose{View: p}, err
}

// ModifierType identifies a modifier.
type ModifierType int32

const (
	ModifierSubsurf  ModifierType = 1
	ModifierLattice  ModifierType = 2
	ModifierCurve    ModifierType = 3
	ModifierBuild    ModifierType = 4
	ModifierMirror   ModifierType = 5
	ModifierArmature ModifierType = 8
)

// Modifier is one entry of an object's modifier stack, typed by its concrete struct
// (ArmatureModifierData, ...).
type Modifier struct {
	view.View
}

func (m Modifier) Type() ModifierType { return ModifierType(m.modifierData().Int32("type")) }
func (m Modifier) Name() string       { return m.modifierData().Text("name") }

// modifierData returns the ModifierData header every concrete modifier starts with.
func (m Modifier) modifierData() view.View {
	if !m.HasField("modifier") {
		return m.View
	}
	h, err := m.Embedded("modifier")
	if err != nil {
		return m.View
	}

	return h
}

// Modifiers returns the modifier stack in evaluation order.
func (o Object) Modifiers() ([]Modifier, error) {
	if !o.HasField("modifiers") {
		return nil, nil
	}
	l, err := view.ListBase(o.View, "modifiers")
	if err != nil {
		return nil, err
	}
	vs, err := l.Collect()
	out := make([]Modifier, len(vs))
	for i, mv := range vs {
		out[i] = Modifier{View: mv.Concrete()}
	}

	return out, err
}

// Armature returns the armature object deforming o: the target of its first armature
// modifier, or else an armature parent. Undeformed objects return an invalid Object.
func (o Object) Armature() (Object, error) {
	mods, err := o.Modifiers()
	if err != nil {
		return Object{}, err
	}
	for _, m := range mods {
		if m.Type() != ModifierArmature || !m.HasField("object") {
			continue
		}
		target, err := m.Pointer("object")
		if err != nil || target.Valid() {
			return Object{View: target}, err
		}
	}

	parent, err := o.Parent()
	if err != nil || !parent.Valid() || parent.Type() != ObjectArmature {
		return Object{}, err
	}

	return parent, nil
}

// VertexGroupNames returns the names of the object's vertex groups, indexed by deform
// weight group number. Files from 3.0 on keep them on the mesh instead.
func (o Object) VertexGroupNames() ([]string, error) {
	return DeformGroupNames(o.View, "defbase")
}

// DeformGroupNames reads the names of a bDeformGroup list.
func DeformGroupNames(v view.View, field string) ([]string, error) {
	if !v.HasField(field) {
		return nil, nil
	}
	l, err := view.ListBaseOf(v, field, "bDeformGroup")
	if err != nil {
		return nil, err
	}
	vs, err := l.Collect()
	names := make([]string, len(vs))
	for i, g := range vs {
		names[i] = g.Text("name")
	}

	return names, err
}

func vec3(v view.View, name string) [3]float32 {
	var out [3]float32
	copy(out[:], v.Float32s(name, 3))

	return out
}
