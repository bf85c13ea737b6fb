package datablock

import (
	"fmt"

	"github.com/arloliu/blend/view"
)

// Camera is the data of a camera object.
type Camera struct {
	view.View
}

func NewCamera(v view.View) Camera { return Camera{View: v} }

func (c Camera) Name() string { return IDOf(c.View).Name() }

// Lens returns the focal length in millimeters.
func (c Camera) Lens() float32 { return c.Float32("lens") }

// Clip returns the near and far clipping distances.
func (c Camera) Clip() (near, far float32) {
	return c.Float32("clip_start"), c.Float32("clip_end")
}

// LightType is the kind of a light.
type LightType int16

const (
	LightPoint LightType = 0
	LightSun   LightType = 1
	LightSpot  LightType = 2
	LightArea  LightType = 4
)

func (t LightType) String() string {
	switch t {
	case LightPoint:
		return "Point"
	case LightSun:
		return "Sun"
	case LightSpot:
		return "Spot"
	case LightArea:
		return "Area"
	default:
		return fmt.Sprintf("LightType(%d)", int16(t))
	}
}

// Light is the data of a light object. The struct is named Lamp in the file.
type Light struct {
	view.View
}

func NewLight(v view.View) Light { return Light{View: v} }

func (l Light) Name() string      { return IDOf(l.View).Name() }
func (l Light) Type() LightType   { return LightType(l.Int16("type")) }
func (l Light) Energy() float32   { return l.Float32("energy") }
func (l Light) Color() [3]float32 { return [3]float32{l.Float32("r"), l.Float32("g"), l.Float32("b")} }
