package datablock

import (
	"cmp"
	"slices"

	"github.com/arloliu/blend/view"
)

// Action is a set of animation curves.
type Action struct {
	view.View
}

func NewAction(v view.View) Action { return Action{View: v} }

func (a Action) ID() ID       { return IDOf(a.View) }
func (a Action) Name() string { return a.ID().Name() }

// Curves returns the F-curves in list order.
func (a Action) Curves() ([]FCurve, error) {
	if !a.Valid() || !a.HasField("curves") {
		return nil, nil
	}
	l, err := view.ListBaseOf(a.View, "curves", "FCurve")
	if err != nil {
		return nil, err
	}
	vs, err := l.Collect()
	out := make([]FCurve, len(vs))
	for i, cv := range vs {
		out[i] = FCurve{View: cv}
	}

	return out, err
}

// Curve returns the curve animating one component of an RNA property, e.g.
// `pose.bones["Arm"].location` with index 1 for its y component.
func (a Action) Curve(path string, index int) (FCurve, bool) {
	curves, _ := a.Curves()
	for _, c := range curves {
		if c.ArrayIndex() == index {
			if p, _ := c.Path(); p == path {
				return c, true
			}
		}
	}

	return FCurve{}, false
}

// LastFrame returns the largest keyframe time over all curves.
func (a Action) LastFrame() float32 {
	curves, _ := a.Curves()
	var last float32
	for _, c := range curves {
		keys, _ := c.Keyframes()
		if n := len(keys); n > 0 && keys[n-1].Frame > last {
			last = keys[n-1].Frame
		}
	}

	return last
}

// Interpolation is the interpolation mode from a keyframe to the next one.
type Interpolation int8

const (
	InterpolationConstant Interpolation = 0
	InterpolationLinear   Interpolation = 1
	InterpolationBezier   Interpolation = 2
)

// Keyframe is one point of an F-curve with its Bezier handles, as (frame, value).
type Keyframe struct {
	Frame, Value  float32
	Left, Right   [2]float32
	Interpolation Interpolation
}

// FCurve animates one component of an RNA property over time.
type FCurve struct {
	view.View
}

// Path returns the RNA path of the animated property.
func (c FCurve) Path() (string, error) { return c.CharPointer("rna_path") }

func (c FCurve) ArrayIndex() int { return int(c.Int("array_index")) }

// Keyframes returns the BezTriple points sorted by frame.
func (c FCurve) Keyframes() ([]Keyframe, error) {
	arr, err := c.ArrayOf("bezt", "totvert")
	if arr.Len() == 0 {
		return nil, err
	}
	out := make([]Keyframe, arr.Len())
	for i, bz := range arr.All() {
		v := bz.Float32s("vec", 9)
		if len(v) < 9 {
			continue
		}
		out[i] = Keyframe{
			Left:          [2]float32{v[0], v[1]},
			Frame:         v[3],
			Value:         v[4],
			Right:         [2]float32{v[6], v[7]},
			Interpolation: Interpolation(bz.Int8("ipo")),
		}
	}
	slices.SortStableFunc(out, func(a, b Keyframe) int { return cmp.Compare(a.Frame, b.Frame) })

	return out, err
}

// ValueAt evaluates the curve at a frame. Frames outside the keyed range hold the
// first or last value; a curve without keyframes evaluates to 0.
func (c FCurve) ValueAt(frame float32) float32 {
	keys, _ := c.Keyframes()
	return Evaluate(keys, frame)
}

// Evaluate interpolates sorted keyframes at a frame.
func Evaluate(keys []Keyframe, frame float32) float32 {
	if len(keys) == 0 {
		return 0
	}
	if frame <= keys[0].Frame {
		return keys[0].Value
	}
	last := keys[len(keys)-1]
	if frame >= last.Frame {
		return last.Value
	}
	i, _ := slices.BinarySearchFunc(keys, frame, func(k Keyframe, f float32) int { return cmp.Compare(k.Frame, f) })
	if keys[i].Frame > frame {
		i--
	}
	k0, k1 := keys[i], keys[i+1]
	span := k1.Frame - k0.Frame
	if span <= 0 {
		return k1.Value
	}

	switch k0.Interpolation {
	case InterpolationConstant:
		return k0.Value
	case InterpolationBezier:
		return bezier(k0, k1, frame)
	default:
		t := (frame - k0.Frame) / span
		return k0.Value + t*(k1.Value-k0.Value)
	}
}

// bezier evaluates the cubic segment from k0 to k1. The curve parameter for frame is
// found by bisection on the frame axis, which is monotonic for Blender's clamped handles.
func bezier(k0, k1 Keyframe, frame float32) float32 {
	x := [4]float32{k0.Frame, k0.Right[0], k1.Left[0], k1.Frame}
	y := [4]float32{k0.Value, k0.Right[1], k1.Left[1], k1.Value}

	lo, hi := float32(0), float32(1)
	t := float32(0.5)
	for range 32 {
		t = (lo + hi) / 2
		if cubic(x, t) < frame {
			lo = t
		} else {
			hi = t
		}
	}

	return cubic(y, t)
}

func cubic(p [4]float32, t float32) float32 {
	u := 1 - t
	return u*u*u*p[0] + 3*u*u*t*p[1] + 3*u*t*t*p[2] + t*t*t*p[3]
}
